package monitoring

import (
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"
	"time"
)

const defaultIterations = 5

// BenchmarkScenario is one timed operation over a fixed number of elements.
type BenchmarkScenario struct {
	Name       string
	Elements   int
	Iterations int
	Operation  func() error
}

// BenchmarkResult contains the results of running a benchmark scenario.
type BenchmarkResult struct {
	Scenario          BenchmarkScenario `json:"scenario"`
	Duration          time.Duration     `json:"duration"`
	AverageDuration   time.Duration     `json:"average_duration"`
	MinDuration       time.Duration     `json:"min_duration"`
	MaxDuration       time.Duration     `json:"max_duration"`
	MemoryAllocated   int64             `json:"memory_allocated"`
	MemoryAllocations int64             `json:"memory_allocations"`
	ElementsPerSec    float64           `json:"elements_per_sec"`
	Err               error             `json:"-"`
}

// Success reports whether every iteration completed.
func (r BenchmarkResult) Success() bool {
	return r.Err == nil
}

// BenchmarkSuite runs scenarios in the order they were added.
type BenchmarkSuite struct {
	scenarios []BenchmarkScenario
	results   []BenchmarkResult
}

// NewBenchmarkSuite creates a new benchmark suite.
func NewBenchmarkSuite() *BenchmarkSuite {
	return &BenchmarkSuite{}
}

// Add adds a scenario. Iterations default to five.
func (bs *BenchmarkSuite) Add(name string, elements int, operation func() error) {
	bs.scenarios = append(bs.scenarios, BenchmarkScenario{
		Name:       name,
		Elements:   elements,
		Iterations: defaultIterations,
		Operation:  operation,
	})
}

// AddScenario adds a fully specified scenario.
func (bs *BenchmarkSuite) AddScenario(scenario BenchmarkScenario) {
	bs.scenarios = append(bs.scenarios, scenario)
}

// Run executes all scenarios and returns the results.
func (bs *BenchmarkSuite) Run() []BenchmarkResult {
	bs.results = make([]BenchmarkResult, 0, len(bs.scenarios))
	for _, scenario := range bs.scenarios {
		bs.results = append(bs.results, runScenario(scenario))
	}
	return bs.results
}

// Results returns the results of the last Run.
func (bs *BenchmarkSuite) Results() []BenchmarkResult {
	return bs.results
}

func runScenario(scenario BenchmarkScenario) BenchmarkResult {
	if scenario.Iterations <= 0 {
		scenario.Iterations = 1
	}
	res := BenchmarkResult{Scenario: scenario}

	var memBefore, memAfter runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&memBefore)

	runs := 0
	for i := range scenario.Iterations {
		start := time.Now()
		if err := scenario.Operation(); err != nil {
			res.Err = fmt.Errorf("iteration %d: %w", i+1, err)
			break
		}
		d := time.Since(start)
		if runs == 0 || d < res.MinDuration {
			res.MinDuration = d
		}
		res.MaxDuration = max(res.MaxDuration, d)
		res.Duration += d
		runs++
	}

	runtime.ReadMemStats(&memAfter)
	res.MemoryAllocated = int64(memAfter.TotalAlloc - memBefore.TotalAlloc) //nolint:gosec // monotonic counters
	res.MemoryAllocations = int64(memAfter.Mallocs - memBefore.Mallocs)     //nolint:gosec // monotonic counters

	if runs > 0 {
		res.AverageDuration = res.Duration / time.Duration(runs)
		if res.AverageDuration > 0 {
			res.ElementsPerSec = float64(scenario.Elements) / res.AverageDuration.Seconds()
		}
	}
	return res
}

// WriteReport writes one aligned row per result.
func (bs *BenchmarkSuite) WriteReport(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "scenario\telements\titer\tavg\tmin\tmax\telem/s\talloc KiB\tstatus\t")
	for _, r := range bs.results {
		status := "ok"
		if !r.Success() {
			status = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%v\t%v\t%v\t%.0f\t%d\t%s\t\n",
			r.Scenario.Name, r.Scenario.Elements, r.Scenario.Iterations,
			r.AverageDuration, r.MinDuration, r.MaxDuration,
			r.ElementsPerSec, r.MemoryAllocated/1024, status)
	}
	return tw.Flush()
}
