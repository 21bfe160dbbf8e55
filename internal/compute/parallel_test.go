package compute_test

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/compute"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/monitoring"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useParallelConfig lowers the threshold so small inputs run chunked and
// installs a fresh metrics collector. Both are restored after the test.
func useParallelConfig(t *testing.T) *monitoring.MetricsCollector {
	t.Helper()
	originalConfig := config.GetGlobalConfig()
	originalCollector := monitoring.GetGlobalCollector()
	t.Cleanup(func() {
		config.SetGlobalConfig(originalConfig)
		monitoring.SetGlobalCollector(originalCollector)
	})

	config.SetGlobalConfig(config.Config{
		ParallelThreshold: 100,
		WorkerPoolSize:    4,
		ChunkSize:         64,
		MaxParallelism:    4,
		MetricsCollection: true,
	})
	collector := monitoring.NewMetricsCollector(true)
	monitoring.SetGlobalCollector(collector)
	return collector
}

func sequence(n int) *series.Series {
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}
	return testutil.Ints("n", values...)
}

func TestParallelTransformKeepsOrder(t *testing.T) {
	collector := useParallelConfig(t)
	s := sequence(1000)

	out, err := compute.Transform(s, square)
	require.NoError(t, err)
	require.Equal(t, 1000, out.Len())
	for i := 0; i < out.Len(); i++ {
		require.Equal(t, i*i, cell.MustAs[int](out.Get(i)), "index %d", i)
	}

	metrics := collector.GetMetrics()
	require.NotEmpty(t, metrics)
	last := metrics[len(metrics)-1]
	assert.Equal(t, "Transform", last.Operation)
	assert.Equal(t, int64(1000), last.Elements)
	assert.Equal(t, 16, last.Chunks)
	assert.True(t, last.Parallel)
}

func TestParallelFailuresAreAggregated(t *testing.T) {
	useParallelConfig(t)
	s := sequence(1000)

	err := compute.TransformInPlace(s, func(c cell.Cell) (cell.Cell, error) {
		v := cell.MustAs[int](c)
		if v > 0 && v%250 == 0 {
			return cell.Cell{}, fmt.Errorf("bad %d", v)
		}
		return square(c)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 of 1000 elements failed")
	assert.EqualError(t, stderrors.Unwrap(err), "bad 250")
	assert.Equal(t, 999, cell.MustAs[int](s.Get(999)))
}

func TestParallelFilterAndDuplicates(t *testing.T) {
	useParallelConfig(t)
	s := sequence(1000)

	odd, err := compute.Filter(s, isOdd)
	require.NoError(t, err)
	require.Equal(t, 500, odd.Len())
	for i := 0; i < odd.Len(); i++ {
		require.Equal(t, 2*i+1, cell.MustAs[int](odd.Get(i)))
	}

	mod, err := compute.BinaryScalar(cell.OpMod, s, cell.Of(10))
	require.NoError(t, err)
	df := testutil.Frame(t, mod)
	unique, err := compute.DropDuplicates(df)
	require.NoError(t, err)
	col, _ := unique.Column("n")
	testutil.AssertValues(t, col, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
}

func TestParallelReduceColumns(t *testing.T) {
	useParallelConfig(t)
	a := sequence(200)
	b, err := compute.BinaryScalar(cell.OpMul, a, cell.Of(2))
	require.NoError(t, err)
	b.SetName("b")
	df := testutil.Frame(t, a, b)

	sums, err := compute.ReduceColumns(df, cell.Of(0), cell.Add)
	require.NoError(t, err)
	testutil.AssertValues(t, sums, 19900, 39800)
}

func TestBulkOperationsLogAtDebug(t *testing.T) {
	var buf bytes.Buffer
	config.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer config.SetLogger(nil)

	original := config.GetGlobalConfig()
	defer config.SetGlobalConfig(original)
	cfg := config.NewConfig()
	cfg.VerboseLogging = true
	config.SetGlobalConfig(cfg)

	_, err := compute.Add(testutil.Ints("a", 1), testutil.Ints("b", 2))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "op=Add")
	assert.Contains(t, buf.String(), "elements=1")
}
