// Package testutil provides shared fixtures and assertions for the tests of
// the tabula packages.
//
// It covers the patterns that repeat across test files:
// - Standard employee frames with optional empty cells
// - Typed series shorthands
// - Checked Arrow allocators for interop tests
// - Frame and series assertions
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// defaultRowCount is the default number of rows in test DataFrames.
	defaultRowCount = 4
)

// TestMemoryContext provides a checked Arrow allocator that fails the test
// when buffers leak.
type TestMemoryContext struct {
	Allocator *memory.CheckedAllocator
	tb        testing.TB
}

// Release asserts that every buffer taken from the allocator was released.
func (tmc *TestMemoryContext) Release() {
	tmc.Allocator.AssertSize(tmc.tb, 0)
}

// SetupMemoryTest creates a checked allocator for Arrow interop tests.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{
		Allocator: memory.NewCheckedAllocator(memory.NewGoAllocator()),
		tb:        tb,
	}
}

// TestDataFrameOption configures test DataFrame creation.
type TestDataFrameOption func(*testDataFrameConfig)

type testDataFrameConfig struct {
	includeNulls bool
	rowCount     int
	withActive   bool
}

// WithNulls leaves every third age empty.
func WithNulls() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.rowCount = count
	}
}

// WithActiveColumn includes an 'active' boolean column.
func WithActiveColumn() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.withActive = true
	}
}

// CreateTestDataFrame creates a standard test DataFrame with employee data.
//
// Default DataFrame includes:
// - name (String): ["Alice", "Bob", "Charlie", "David"]
// - age (Int64): [25, 30, 35, 28]
// - department (String): ["Engineering", "Sales", "Engineering", "Marketing"]
// - salary (Int64): [100000, 80000, 120000, 75000]
func CreateTestDataFrame(tb testing.TB, opts ...TestDataFrameOption) *dataframe.DataFrame {
	tb.Helper()
	cfg := &testDataFrameConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(cfg)
	}

	ages := series.Of("age", generate(cfg.rowCount, []int64{25, 30, 35, 28, 32, 45, 29, 38}))
	if cfg.includeNulls {
		for i := 2; i < cfg.rowCount; i += 3 {
			require.NoError(tb, ages.Set(i, nil))
		}
	}

	cols := []*series.Series{
		series.Of("name", generate(cfg.rowCount, []string{"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Henry"})),
		ages,
		series.Of("department", generate(cfg.rowCount, []string{"Engineering", "Sales", "Engineering", "Marketing", "HR", "Finance", "Engineering", "Sales"})),
		series.Of("salary", generate(cfg.rowCount, []int64{100000, 80000, 120000, 75000, 90000, 110000, 95000, 85000})),
	}
	if cfg.withActive {
		cols = append(cols, series.Of("active", generate(cfg.rowCount, []bool{true, true, false, true, true, false, true, false})))
	}

	df, err := dataframe.New(cols...)
	require.NoError(tb, err)
	return df
}

// CreateSimpleTestDataFrame creates a two-row name/age frame.
func CreateSimpleTestDataFrame(tb testing.TB) *dataframe.DataFrame {
	tb.Helper()
	df, err := dataframe.New(
		series.Of("name", []string{"Alice", "Bob"}),
		series.Of("age", []int64{25, 30}),
	)
	require.NoError(tb, err)
	return df
}

// Ints builds an Int64 series.
func Ints(name string, values ...int) *series.Series {
	return series.Of(name, values)
}

// Floats builds a Float64 series.
func Floats(name string, values ...float64) *series.Series {
	return series.Of(name, values)
}

// Strings builds a String series.
func Strings(name string, values ...string) *series.Series {
	return series.Of(name, values)
}

// Frame builds a DataFrame from columns, failing the test on error.
func Frame(tb testing.TB, cols ...*series.Series) *dataframe.DataFrame {
	tb.Helper()
	df, err := dataframe.New(cols...)
	require.NoError(tb, err)
	return df
}

// AssertValues checks that r holds exactly the given Go values. A nil
// expectation matches an empty cell.
func AssertValues(tb testing.TB, r series.Reader, want ...any) {
	tb.Helper()
	require.Equal(tb, len(want), r.Len(), "length should match")
	for i, w := range want {
		expected, err := cell.New(w)
		require.NoError(tb, err)
		got := r.Get(i)
		assert.True(tb, cell.Equal(expected, got),
			"element %d: expected %#v, got %#v", i, expected, got)
	}
}

// AssertDataFrameEqual compares names, shape and every column of two frames.
func AssertDataFrameEqual(tb testing.TB, expected, actual *dataframe.DataFrame) {
	tb.Helper()

	require.NotNil(tb, expected, "expected DataFrame should not be nil")
	require.NotNil(tb, actual, "actual DataFrame should not be nil")

	assert.Equal(tb, expected.Len(), actual.Len(), "DataFrame lengths should match")
	assert.Equal(tb, expected.Width(), actual.Width(), "DataFrame widths should match")
	assert.Equal(tb, expected.Columns(), actual.Columns(), "DataFrame columns should match")

	for _, colName := range expected.Columns() {
		expectedCol, err := expected.Column(colName)
		require.NoError(tb, err)
		actualCol, err := actual.Column(colName)
		require.NoError(tb, err, "actual column %s should exist", colName)

		assert.Equal(tb, expectedCol.Dtype(), actualCol.Dtype(), "column %s dtype should match", colName)
		assert.True(tb, expectedCol.Equal(actualCol), "column %s data should match", colName)
	}
}

// AssertDataFrameHasColumns verifies that a DataFrame has the expected columns.
func AssertDataFrameHasColumns(tb testing.TB, df *dataframe.DataFrame, expectedColumns []string) {
	tb.Helper()

	require.NotNil(tb, df, "DataFrame should not be nil")
	assert.Len(tb, df.Columns(), len(expectedColumns), "column count should match")
	for _, col := range expectedColumns {
		assert.True(tb, df.HasColumn(col), "DataFrame should have column %s", col)
	}
}

// AssertDataFrameNotEmpty verifies that a DataFrame is not empty.
func AssertDataFrameNotEmpty(tb testing.TB, df *dataframe.DataFrame) {
	tb.Helper()

	require.NotNil(tb, df, "DataFrame should not be nil")
	assert.Positive(tb, df.Len(), "DataFrame should not be empty")
	assert.Positive(tb, df.Width(), "DataFrame should have columns")
}

// generate repeats base until count values exist.
func generate[T any](count int, base []T) []T {
	out := make([]T, count)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}
