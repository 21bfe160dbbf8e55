// Package monitoring records timing and volume for bulk cell operations.
package monitoring

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"text/tabwriter"
	"time"
)

// OperationMetrics describes one recorded bulk operation.
type OperationMetrics struct {
	Operation  string        `json:"operation"`
	Duration   time.Duration `json:"duration"`
	Elements   int64         `json:"elements"`
	Chunks     int           `json:"chunks"`
	MemoryUsed int64         `json:"memory_used"`
	Parallel   bool          `json:"parallel"`
	Failed     bool          `json:"failed"`
}

// MetricsCollector collects and stores performance metrics for bulk operations.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics []OperationMetrics
	enabled bool
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	return &MetricsCollector{
		metrics: make([]OperationMetrics, 0),
		enabled: enabled,
	}
}

// IsEnabled returns whether metrics collection is enabled.
func (mc *MetricsCollector) IsEnabled() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.enabled
}

// SetEnabled enables or disables metrics collection.
func (mc *MetricsCollector) SetEnabled(enabled bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.enabled = enabled
}

// RecordOperation runs fn and records how long it took over elements inputs
// split into chunks. The metric is stored even when fn fails.
func (mc *MetricsCollector) RecordOperation(operation string, elements, chunks int, fn func() error) error {
	if !mc.IsEnabled() {
		return fn()
	}

	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)
	start := time.Now()

	err := fn()

	duration := time.Since(start)
	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)

	m := OperationMetrics{
		Operation:  operation,
		Duration:   duration,
		Elements:   int64(elements),
		Chunks:     chunks,
		MemoryUsed: int64(memAfter.TotalAlloc - memBefore.TotalAlloc), //nolint:gosec // TotalAlloc is monotonic
		Parallel:   chunks > 1,
		Failed:     err != nil,
	}

	mc.mu.Lock()
	mc.metrics = append(mc.metrics, m)
	mc.mu.Unlock()

	return err
}

// GetMetrics returns a copy of all collected metrics.
func (mc *MetricsCollector) GetMetrics() []OperationMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make([]OperationMetrics, len(mc.metrics))
	copy(result, mc.metrics)
	return result
}

// Clear removes all collected metrics.
func (mc *MetricsCollector) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.metrics = mc.metrics[:0]
}

// MetricsSummary provides aggregate statistics for collected metrics.
type MetricsSummary struct {
	TotalOperations    int            `json:"total_operations"`
	ParallelOperations int            `json:"parallel_operations"`
	FailedOperations   int            `json:"failed_operations"`
	TotalDuration      time.Duration  `json:"total_duration"`
	TotalElements      int64          `json:"total_elements"`
	OperationCounts    map[string]int `json:"operation_counts"`
	AverageDuration    time.Duration  `json:"average_duration"`
}

// GetSummary returns a summary of collected metrics.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if len(mc.metrics) == 0 {
		return MetricsSummary{}
	}

	s := MetricsSummary{
		TotalOperations: len(mc.metrics),
		OperationCounts: make(map[string]int),
	}
	for _, m := range mc.metrics {
		s.TotalDuration += m.Duration
		s.TotalElements += m.Elements
		s.OperationCounts[m.Operation]++
		if m.Parallel {
			s.ParallelOperations++
		}
		if m.Failed {
			s.FailedOperations++
		}
	}
	s.AverageDuration = s.TotalDuration / time.Duration(len(mc.metrics))
	return s
}

// WriteSummary writes the per-operation counts and totals as an aligned table.
func (s MetricsSummary) WriteSummary(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "operation\tcount")
	names := make([]string, 0, len(s.OperationCounts))
	for name := range s.OperationCounts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%d\n", name, s.OperationCounts[name])
	}
	fmt.Fprintf(tw, "total\t%d (parallel %d, failed %d)\n", s.TotalOperations, s.ParallelOperations, s.FailedOperations)
	fmt.Fprintf(tw, "elements\t%d\n", s.TotalElements)
	fmt.Fprintf(tw, "time\t%v (avg %v)\n", s.TotalDuration, s.AverageDuration)
	return tw.Flush()
}

//nolint:gochecknoglobals // process-wide collector shared by bulk operations
var (
	globalCollector *MetricsCollector
	globalMutex     sync.RWMutex
)

// SetGlobalCollector sets the global metrics collector.
func SetGlobalCollector(collector *MetricsCollector) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalCollector = collector
}

// GetGlobalCollector returns the global metrics collector, or nil.
func GetGlobalCollector() *MetricsCollector {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalCollector
}

// EnableGlobalMonitoring installs an enabled global collector unless one is
// already set, in which case that one is enabled.
func EnableGlobalMonitoring() *MetricsCollector {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	if globalCollector == nil {
		globalCollector = NewMetricsCollector(true)
	} else {
		globalCollector.SetEnabled(true)
	}
	return globalCollector
}

// DisableGlobalMonitoring disables the global metrics collector.
func DisableGlobalMonitoring() {
	if collector := GetGlobalCollector(); collector != nil {
		collector.SetEnabled(false)
	}
}

// GetGlobalSummary returns a summary from the global collector.
func GetGlobalSummary() MetricsSummary {
	collector := GetGlobalCollector()
	if collector == nil {
		return MetricsSummary{}
	}
	return collector.GetSummary()
}
