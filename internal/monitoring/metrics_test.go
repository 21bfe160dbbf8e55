//nolint:testpackage // requires internal access to unexported types and functions
package monitoring

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector(t *testing.T) {
	t.Run("create disabled collector", func(t *testing.T) {
		collector := NewMetricsCollector(false)
		assert.False(t, collector.IsEnabled())
		assert.Empty(t, collector.GetMetrics())
	})

	t.Run("record operation with disabled collector", func(t *testing.T) {
		collector := NewMetricsCollector(false)

		callCount := 0
		err := collector.RecordOperation("Add", 10, 1, func() error {
			callCount++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, callCount)
		assert.Empty(t, collector.GetMetrics())
	})

	t.Run("record operation with enabled collector", func(t *testing.T) {
		collector := NewMetricsCollector(true)

		err := collector.RecordOperation("Transform", 20_000, 4, func() error {
			time.Sleep(time.Millisecond)
			return nil
		})
		require.NoError(t, err)

		metrics := collector.GetMetrics()
		require.Len(t, metrics, 1)
		m := metrics[0]
		assert.Equal(t, "Transform", m.Operation)
		assert.Equal(t, int64(20_000), m.Elements)
		assert.Equal(t, 4, m.Chunks)
		assert.True(t, m.Parallel)
		assert.False(t, m.Failed)
		assert.GreaterOrEqual(t, m.Duration, time.Millisecond)
		assert.GreaterOrEqual(t, m.MemoryUsed, int64(0))
	})

	t.Run("handle operation error", func(t *testing.T) {
		collector := NewMetricsCollector(true)

		err := collector.RecordOperation("Cast", 3, 1, func() error {
			return assert.AnError
		})
		assert.Equal(t, assert.AnError, err)

		metrics := collector.GetMetrics()
		require.Len(t, metrics, 1)
		assert.True(t, metrics[0].Failed)
		assert.False(t, metrics[0].Parallel)
	})

	t.Run("clear metrics", func(t *testing.T) {
		collector := NewMetricsCollector(true)
		require.NoError(t, collector.RecordOperation("Filter", 1, 1, func() error { return nil }))
		assert.Len(t, collector.GetMetrics(), 1)

		collector.Clear()
		assert.Empty(t, collector.GetMetrics())
	})
}

func TestMetricsSummary(t *testing.T) {
	collector := NewMetricsCollector(true)
	assert.Equal(t, MetricsSummary{}, collector.GetSummary())

	require.NoError(t, collector.RecordOperation("Add", 100, 1, func() error { return nil }))
	require.NoError(t, collector.RecordOperation("Add", 50_000, 8, func() error { return nil }))
	_ = collector.RecordOperation("Cast", 10, 1, func() error { return assert.AnError })

	s := collector.GetSummary()
	assert.Equal(t, 3, s.TotalOperations)
	assert.Equal(t, 1, s.ParallelOperations)
	assert.Equal(t, 1, s.FailedOperations)
	assert.Equal(t, int64(50_110), s.TotalElements)
	assert.Equal(t, map[string]int{"Add": 2, "Cast": 1}, s.OperationCounts)

	var buf bytes.Buffer
	require.NoError(t, s.WriteSummary(&buf))
	out := buf.String()
	assert.Contains(t, out, "Add")
	assert.Contains(t, out, "parallel 1, failed 1")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Add")), bytes.Index(buf.Bytes(), []byte("Cast")))
}

func TestGlobalCollector(t *testing.T) {
	original := GetGlobalCollector()
	defer SetGlobalCollector(original)

	SetGlobalCollector(nil)
	assert.Equal(t, MetricsSummary{}, GetGlobalSummary())

	collector := EnableGlobalMonitoring()
	assert.Same(t, collector, EnableGlobalMonitoring())
	require.NoError(t, collector.RecordOperation("Add", 1, 1, func() error { return nil }))
	assert.Equal(t, 1, GetGlobalSummary().TotalOperations)

	DisableGlobalMonitoring()
	require.NoError(t, collector.RecordOperation("Add", 1, 1, func() error { return nil }))
	assert.Equal(t, 1, GetGlobalSummary().TotalOperations, "disabled collector records nothing")
}

func TestMetricsCollectorConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping concurrency tests in short mode")
	}

	collector := NewMetricsCollector(true)
	numOps := 10
	done := make(chan bool, numOps)

	for range numOps {
		go func() {
			defer func() { done <- true }()
			err := collector.RecordOperation("concurrent_op", 1, 1, func() error {
				time.Sleep(time.Millisecond)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	for range numOps {
		<-done
	}

	assert.Len(t, collector.GetMetrics(), numOps)
}
