package compute

import (
	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/series"
)

// Predicate selects elements. Large inputs call it from several goroutines.
type Predicate func(cell.Cell) bool

// RowPredicate selects rows. The row slice is only valid during the call.
type RowPredicate func(row []cell.Cell) bool

// Filter returns a new series holding the elements of in that satisfy pred,
// in their original order. The result keeps in's dtype.
func Filter(in Reader, pred Predicate) (*series.Series, error) {
	idx := mask("Filter", in.Len(), func(i int) bool {
		return pred(in.Get(i))
	})
	return gather(in, idx)
}

// FilterInPlace removes the elements of s that do not satisfy pred. It takes
// an owning Series only: views cannot change their length.
func FilterInPlace(s *series.Series, pred Predicate) error {
	kept, err := Filter(s, pred)
	if err != nil {
		return err
	}
	return s.Replace(kept.Values(), s.Dtype())
}

// FilterRows returns a new frame holding the rows of f that satisfy pred.
func FilterRows(f Frame, pred RowPredicate) (*dataframe.DataFrame, error) {
	return gatherRows(f, selectRows("FilterRows", f, pred))
}

// FilterRowsInPlace removes the rows of df that do not satisfy pred.
func FilterRowsInPlace(df *dataframe.DataFrame, pred RowPredicate) error {
	kept, err := FilterRows(df, pred)
	if err != nil {
		return err
	}
	return replaceRows(df, kept)
}

func selectRows(op string, f Frame, pred RowPredicate) []int {
	width := f.Width()
	return mask(op, f.Len(), func(i int) bool {
		row := make([]cell.Cell, width)
		for k := range row {
			row[k] = f.Get(k, i)
		}
		return pred(row)
	})
}

// gatherRows copies the rows at idx of every column into a new frame.
func gatherRows(f Frame, idx []int) (*dataframe.DataFrame, error) {
	cols := columns(f)
	out := make([]*series.Series, len(cols))
	for k, c := range cols {
		s, err := gather(c, idx)
		if err != nil {
			return nil, withColumn(err, c.Name())
		}
		out[k] = s
	}
	return assemble(out)
}

// replaceRows swaps the contents of every column of df for the matching
// column of src. Both frames must have the same width and column types, so
// no replacement can fail half way.
func replaceRows(df, src *dataframe.DataFrame) error {
	for k := 0; k < df.Width(); k++ {
		dst, _ := df.ColumnAt(k)
		s, _ := src.ColumnAt(k)
		if err := dst.Replace(s.Values(), dst.Dtype()); err != nil {
			return err
		}
	}
	return nil
}
