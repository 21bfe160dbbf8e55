package compute

import (
	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/parallel"
	"github.com/paveg/tabula/internal/series"
)

// FoldFunc combines an accumulator with one element.
type FoldFunc func(acc, v cell.Cell) (cell.Cell, error)

// Accumulate folds the elements of in that hold a T, left to right. Elements
// of any other alternative, and empty ones, are skipped.
func Accumulate[A any, T cell.Primitive](in Reader, init A, fn func(A, T) A) A {
	acc := init
	for i := 0; i < in.Len(); i++ {
		v, err := cell.As[T](in.Get(i))
		if err != nil {
			continue
		}
		acc = fn(acc, v)
	}
	return acc
}

// Reduce folds in left to right starting from init. Elements for which fn
// fails are skipped and the accumulator is left as it was.
func Reduce(in Reader, init cell.Cell, fn FoldFunc) cell.Cell {
	acc := init
	for i := 0; i < in.Len(); i++ {
		next, err := fn(acc, in.Get(i))
		if err != nil {
			continue
		}
		acc = next
	}
	return acc
}

// ReduceRows folds each row of f across its columns and returns one result
// per row. Rows are independent, so large frames reduce in parallel.
func ReduceRows(f Frame, init cell.Cell, fn FoldFunc) (*series.Series, error) {
	width := f.Width()
	cells, err := mapCells("ReduceRows", f.Len(), func(i int) (cell.Cell, error) {
		acc := init
		for k := 0; k < width; k++ {
			if next, err := fn(acc, f.Get(k, i)); err == nil {
				acc = next
			}
		}
		return acc, nil
	})
	if err != nil {
		return nil, err
	}
	return build("reduce", cells, cell.Unconstrained)
}

// ReduceColumns folds each column of f and returns one result per column,
// in column order. Wide, large frames fold their columns concurrently.
func ReduceColumns(f Frame, init cell.Cell, fn FoldFunc) (*series.Series, error) {
	cols := columns(f)
	fold := func(_ int, c series.NamedReader) cell.Cell { return Reduce(c, init, fn) }

	var cells []cell.Cell
	if cfg := config.GetGlobalConfig(); len(cols) > 1 && cfg.ShouldParallelize(f.Len()*len(cols)) {
		pool := parallel.NewWorkerPool(cfg.Workers())
		defer pool.Close()
		cells = parallel.ProcessIndexed(pool, cols, fold)
	} else {
		cells = make([]cell.Cell, len(cols))
		for k, c := range cols {
			cells[k] = fold(k, c)
		}
	}
	return build("reduce", cells, cell.Unconstrained)
}
