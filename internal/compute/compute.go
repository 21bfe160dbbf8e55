// Package compute provides the bulk operations over series, frames and their
// views: transform, filter, fold, cast, elementwise operators and reshaping.
//
// Elementwise work is split into chunks on a worker pool once the input
// reaches config.ParallelThreshold. Results are always assembled in input
// order, and an operation that fails for any element fails as a whole: the
// target is never partially written.
package compute

import (
	"fmt"
	"math"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/monitoring"
	"github.com/paveg/tabula/internal/parallel"
	"github.com/paveg/tabula/internal/series"
)

// Reader is implemented by Series, View and ConstView.
type Reader = series.Reader

// Writer is a Reader that accepts element writes: Series and View.
type Writer interface {
	Reader
	Set(i int, v any) error
}

// Frame is the read contract shared by DataFrame and its views.
type Frame interface {
	Len() int
	Width() int
	Columns() []string
	Get(col, row int) cell.Cell
}

// ElementFunc maps one cell to another. Large inputs call it from several
// goroutines.
type ElementFunc func(cell.Cell) (cell.Cell, error)

type dtyped interface {
	Dtype() cell.Tag
}

// failures tracks element errors for one chunk.
type failures struct {
	count int
	first error
}

func (f *failures) add(err error) {
	if f.first == nil {
		f.first = err
	}
	f.count++
}

// execute runs body over [0, n), chunked across a worker pool when n is large
// enough. Element failures recorded by body are aggregated into one error.
func execute(op string, n int, body func(r parallel.Range, f *failures)) error {
	cfg := config.GetGlobalConfig()
	size := n
	if cfg.ShouldParallelize(n) {
		size = cfg.ChunkFor(n)
	}
	chunks := parallel.Chunks(n, size)
	fails := make([]failures, len(chunks))

	run := func() error {
		switch len(chunks) {
		case 0:
			return nil
		case 1:
			body(chunks[0], &fails[0])
			return nil
		}
		pool := parallel.NewWorkerPool(cfg.Workers())
		defer pool.Close()
		return parallel.ForRange(pool, n, size, func(r parallel.Range) error {
			body(r, &fails[r.Lo/size])
			return nil
		})
	}

	var err error
	if cfg.MetricsCollection {
		err = monitoring.EnableGlobalMonitoring().RecordOperation(op, n, len(chunks), run)
	} else {
		err = run()
	}
	if err != nil {
		return errors.NewInternalError(op, err)
	}

	var total failures
	for _, f := range fails {
		if f.count > 0 {
			total.add(f.first)
			total.count += f.count - 1
		}
	}
	cfg.Logger().Debug("bulk operation",
		"op", op, "elements", n, "chunks", len(chunks), "failed", total.count)
	if total.count > 0 {
		return errors.NewElementwiseError(op, total.count, n, total.first)
	}
	return nil
}

// mapCells evaluates fn for every index and returns the results in order.
func mapCells(op string, n int, fn func(i int) (cell.Cell, error)) ([]cell.Cell, error) {
	out := make([]cell.Cell, n)
	err := execute(op, n, func(r parallel.Range, f *failures) {
		for i := r.Lo; i < r.Hi; i++ {
			c, err := fn(i)
			if err != nil {
				f.add(err)
				continue
			}
			out[i] = c
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// mask evaluates pred for every index.
func mask(op string, n int, pred func(i int) bool) []int {
	keep := make([]bool, n)
	_ = execute(op, n, func(r parallel.Range, _ *failures) {
		for i := r.Lo; i < r.Hi; i++ {
			keep[i] = pred(i)
		}
	})
	idx := make([]int, 0, n)
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	return idx
}

func nameOf(r Reader) string {
	if n, ok := r.(series.NamedReader); ok {
		return n.Name()
	}
	return ""
}

func dtypeOf(r Reader) cell.Tag {
	if d, ok := r.(dtyped); ok {
		return d.Dtype()
	}
	return cell.Unconstrained
}

// build wraps computed cells in a new series. A concrete dtype constrains
// the cells; cell.Unconstrained infers it.
func build(name string, cells []cell.Cell, dtype cell.Tag) (*series.Series, error) {
	s := series.New(name)
	if err := s.Replace(cells, dtype); err != nil {
		return nil, err
	}
	return s, nil
}

// gather copies the cells at idx into a new series with col's dtype.
func gather(col Reader, idx []int) (*series.Series, error) {
	cells := make([]cell.Cell, len(idx))
	for j, i := range idx {
		cells[j] = col.Get(i).Clone()
	}
	return build(nameOf(col), cells, dtypeOf(col))
}

// check verifies that cells can be written into w without a homogeneity
// failure part way through.
func check(op string, w Writer, cells []cell.Cell) error {
	if w.Len() != len(cells) {
		return errors.NewSizeMismatchError(op, w.Len(), len(cells))
	}
	probe, err := build(nameOf(w), cells, cell.Unconstrained)
	if err != nil {
		return err
	}
	if _, ok := w.(*series.Series); ok {
		return nil
	}
	dtype := dtypeOf(w)
	if dtype != cell.Unconstrained && probe.Dtype() != cell.Unconstrained && probe.Dtype() != dtype {
		return errors.NewHomogeneityError(op, nameOf(w), dtype.String(), probe.Dtype().String())
	}
	return nil
}

// commit writes cells into w. An owning Series is replaced wholesale and may
// change its dtype; views are written element by element under the owner's
// dtype. Callers run check first.
func commit(w Writer, cells []cell.Cell) error {
	if s, ok := w.(*series.Series); ok {
		return s.Replace(cells, cell.Unconstrained)
	}
	for i, c := range cells {
		if err := w.Set(i, c); err != nil {
			return err
		}
	}
	return nil
}

// frameColumn adapts one column of a Frame to a named Reader.
type frameColumn struct {
	f    Frame
	k    int
	name string
}

func (c frameColumn) Len() int            { return c.f.Len() }
func (c frameColumn) Get(i int) cell.Cell { return c.f.Get(c.k, i) }
func (c frameColumn) Name() string        { return c.name }

type frameSetter interface {
	Set(col, row int, v any) error
}

// frameColumnWriter is a frameColumn over a frame that accepts writes.
type frameColumnWriter struct {
	frameColumn
	w frameSetter
}

func (c frameColumnWriter) Set(i int, v any) error {
	return c.w.Set(c.k, i, v)
}

// columns returns one reader per visible column of f. DataFrames and views
// hand out their own columns so in-place writes go through the owner.
func columns(f Frame) []series.NamedReader {
	out := make([]series.NamedReader, f.Width())
	names := f.Columns()
	for k := range out {
		switch t := f.(type) {
		case *dataframe.DataFrame:
			s, _ := t.ColumnAt(k)
			out[k] = s
		case *dataframe.View:
			v, _ := t.Column(k)
			out[k] = v
		default:
			fc := frameColumn{f: f, k: k, name: names[k]}
			if w, ok := f.(frameSetter); ok {
				out[k] = frameColumnWriter{frameColumn: fc, w: w}
			} else {
				out[k] = fc
			}
		}
	}
	return out
}

// writers returns the writable columns of f.
func writers(op string, f Frame) ([]Writer, error) {
	cols := columns(f)
	out := make([]Writer, len(cols))
	for k, c := range cols {
		w, ok := c.(Writer)
		if !ok {
			return nil, errors.NewInvalidInputError(op, fmt.Sprintf("column %q is read-only", c.Name()))
		}
		out[k] = w
	}
	return out, nil
}

// assemble builds a frame from computed columns, keeping their names.
func assemble(cols []*series.Series) (*dataframe.DataFrame, error) {
	return dataframe.New(cols...)
}

// withColumn attaches a column name to a DataFrameError.
func withColumn(err error, name string) error {
	if dfErr, ok := err.(*errors.DataFrameError); ok && dfErr.Column == "" {
		return dfErr.WithColumn(name)
	}
	return err
}

func nan(t cell.Tag) cell.Cell {
	if t == cell.Float32 {
		return cell.Of(float32(math.NaN()))
	}
	return cell.Of(math.NaN())
}
