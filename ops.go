package tabula

import (
	"github.com/paveg/tabula/internal/compute"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/monitoring"
	"github.com/paveg/tabula/internal/stats"
)

// Config tunes bulk operations: parallel thresholds, worker counts, logging
// and metrics.
type Config = config.Config

// Summary holds the describe statistics of one numeric column.
type Summary = stats.Summary

// MetricsSummary aggregates recorded bulk operations.
type MetricsSummary = monitoring.MetricsSummary

// Transform returns a new series holding fn applied to every element of in.
func Transform(in Reader, fn ElementFunc) (*Series, error) {
	return compute.Transform(in, fn)
}

// TransformInPlace replaces every element of s with fn of it.
func TransformInPlace(s *Series, fn ElementFunc) error {
	return compute.TransformInPlace(s, fn)
}

// TransformFrame applies fn to every cell of f.
func TransformFrame(f Frame, fn ElementFunc) (*DataFrame, error) {
	return compute.TransformFrame(f, fn)
}

// Filter returns the elements of in selected by pred, in order.
func Filter(in Reader, pred Predicate) (*Series, error) {
	return compute.Filter(in, pred)
}

// FilterRows returns the rows of f selected by pred.
func FilterRows(f Frame, pred RowPredicate) (*DataFrame, error) {
	return compute.FilterRows(f, pred)
}

// Reduce folds the elements of in left to right starting from init.
func Reduce(in Reader, init Cell, fn FoldFunc) Cell {
	return compute.Reduce(in, init, fn)
}

// ReduceRows folds every row of f into one cell.
func ReduceRows(f Frame, init Cell, fn FoldFunc) (*Series, error) {
	return compute.ReduceRows(f, init, fn)
}

// ReduceColumns folds every column of f into one cell.
func ReduceColumns(f Frame, init Cell, fn FoldFunc) (*Series, error) {
	return compute.ReduceColumns(f, init, fn)
}

// Accumulate folds the T elements of in, skipping every other alternative.
func Accumulate[A any, T Primitive](in Reader, init A, fn func(A, T) A) A {
	return compute.Accumulate(in, init, fn)
}

// Cast converts every element of in to the alternative to.
func Cast(in Reader, to Tag) (*Series, error) {
	return compute.Cast(in, to)
}

// CastFrame converts every column of f to the alternative to.
func CastFrame(f Frame, to Tag) (*DataFrame, error) {
	return compute.CastFrame(f, to)
}

// Apply combines a and b element-wise with op.
func Apply(op BinaryOp, a, b Reader) (*Series, error) {
	return compute.Binary(op, a, b)
}

// ApplyScalar combines every element of a with c.
func ApplyScalar(op BinaryOp, a Reader, c Cell) (*Series, error) {
	return compute.BinaryScalar(op, a, c)
}

// ApplyUnary applies op to every element of a.
func ApplyUnary(op UnaryOp, a Reader) (*Series, error) {
	return compute.Unary(op, a)
}

// ApplyFrame combines two frames of equal shape column by column.
func ApplyFrame(op BinaryOp, a, b Frame) (*DataFrame, error) {
	return compute.FrameBinary(op, a, b)
}

// Named elementwise arithmetic, each equivalent to Apply with the matching op.
func Add(a, b Reader) (*Series, error) { return compute.Add(a, b) }
func Sub(a, b Reader) (*Series, error) { return compute.Sub(a, b) }
func Mul(a, b Reader) (*Series, error) { return compute.Mul(a, b) }
func Div(a, b Reader) (*Series, error) { return compute.Div(a, b) }
func Mod(a, b Reader) (*Series, error) { return compute.Mod(a, b) }

// DropRows returns f without the given row indices.
func DropRows(f Frame, rows ...int) (*DataFrame, error) {
	return compute.DropRows(f, rows)
}

// DropColumns returns f without the named columns.
func DropColumns(f Frame, names ...string) (*DataFrame, error) {
	return compute.DropColumns(f, names...)
}

// Concat appends series of one alternative end to end.
func Concat(parts ...Reader) (*Series, error) {
	return compute.Concat(parts...)
}

// ConcatFrames stacks frames with identical column names vertically.
func ConcatFrames(frames ...Frame) (*DataFrame, error) {
	return compute.ConcatFrames(frames...)
}

// ConcatColumns places frames of equal length side by side.
func ConcatColumns(frames ...Frame) (*DataFrame, error) {
	return compute.ConcatColumns(frames...)
}

// Unique returns the distinct elements of in in first-seen order.
func Unique(in Reader) (*Series, error) {
	return compute.Unique(in)
}

// DropDuplicates keeps the first row of every distinct key over subset, or
// over all columns when subset is empty.
func DropDuplicates(f Frame, subset ...string) (*DataFrame, error) {
	return compute.DropDuplicates(f, subset...)
}

// Describe summarizes a numeric column.
func Describe(in Reader) (Summary, error) {
	return stats.Describe(in)
}

// DescribeFrame summarizes every numeric column of f as a frame with one
// row per statistic.
func DescribeFrame(f Frame) (*DataFrame, error) {
	return stats.DescribeFrame(f)
}

// Mean returns the mean of the non-empty elements of in.
func Mean(in Reader) (float64, error) {
	return stats.Mean(in)
}

// Quantile returns the p-quantile of in for p in [0, 1].
func Quantile(in Reader, p float64) (float64, error) {
	return stats.Quantile(in, p)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return config.NewConfig()
}

// Configure validates cfg and installs it for subsequent bulk operations.
func Configure(cfg Config) error {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	config.SetGlobalConfig(cfg)
	if cfg.MetricsCollection {
		monitoring.EnableGlobalMonitoring()
	} else {
		monitoring.DisableGlobalMonitoring()
	}
	return nil
}

// LoadConfig reads a JSON or YAML configuration file.
func LoadConfig(path string) (Config, error) {
	return config.LoadFromFile(path)
}

// Metrics returns a summary of the bulk operations recorded since
// MetricsCollection was enabled.
func Metrics() MetricsSummary {
	return monitoring.GetGlobalSummary()
}
