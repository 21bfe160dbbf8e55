package compute

import (
	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/series"
)

// Transform applies fn to every element and returns the results as a new
// series named after in. fn may change the element type but must return one
// type for all elements.
func Transform(in Reader, fn ElementFunc) (*series.Series, error) {
	cells, err := mapCells("Transform", in.Len(), func(i int) (cell.Cell, error) {
		return fn(in.Get(i))
	})
	if err != nil {
		return nil, err
	}
	return build(nameOf(in), cells, cell.Unconstrained)
}

// TransformInPlace replaces every element of w with fn applied to it. All
// results are computed and validated before the first write. A Series may
// change its dtype this way; a View must keep its owner's dtype.
func TransformInPlace(w Writer, fn ElementFunc) error {
	cells, err := mapCells("TransformInPlace", w.Len(), func(i int) (cell.Cell, error) {
		return fn(w.Get(i))
	})
	if err != nil {
		return err
	}
	if err := check("TransformInPlace", w, cells); err != nil {
		return err
	}
	return commit(w, cells)
}

// TransformFrame applies fn to every cell of f, column by column.
func TransformFrame(f Frame, fn ElementFunc) (*dataframe.DataFrame, error) {
	cols := columns(f)
	out := make([]*series.Series, len(cols))
	for k, c := range cols {
		s, err := Transform(c, fn)
		if err != nil {
			return nil, withColumn(err, c.Name())
		}
		out[k] = s
	}
	return assemble(out)
}

// TransformFrameInPlace applies fn to every cell of a DataFrame or View.
// No column is written unless every column succeeded.
func TransformFrameInPlace(f Frame, fn ElementFunc) error {
	ws, err := writers("TransformFrameInPlace", f)
	if err != nil {
		return err
	}
	results := make([][]cell.Cell, len(ws))
	for k, w := range ws {
		cells, err := mapCells("TransformFrameInPlace", w.Len(), func(i int) (cell.Cell, error) {
			return fn(w.Get(i))
		})
		if err == nil {
			err = check("TransformFrameInPlace", w, cells)
		}
		if err != nil {
			return withColumn(err, nameOf(w))
		}
		results[k] = cells
	}
	for k, w := range ws {
		if err := commit(w, results[k]); err != nil {
			return err
		}
	}
	return nil
}
