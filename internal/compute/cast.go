package compute

import (
	"fmt"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
)

// Cast converts every element of in to the alternative to. When to is a
// float tag, elements that cannot be converted become NaN; otherwise one
// failing element fails the cast. Empty cells stay empty.
func Cast(in Reader, to cell.Tag) (*series.Series, error) {
	cells, err := castCells("Cast", in, to)
	if err != nil {
		return nil, err
	}
	return build(nameOf(in), cells, to)
}

// CastInPlace converts s to the alternative to and updates its dtype.
func CastInPlace(s *series.Series, to cell.Tag) error {
	cells, err := castCells("CastInPlace", s, to)
	if err != nil {
		return err
	}
	return s.Replace(cells, to)
}

// CastFrame converts every column of f to the alternative to.
func CastFrame(f Frame, to cell.Tag) (*dataframe.DataFrame, error) {
	cols := columns(f)
	out := make([]*series.Series, len(cols))
	for k, c := range cols {
		s, err := Cast(c, to)
		if err != nil {
			return nil, withColumn(err, c.Name())
		}
		out[k] = s
	}
	return assemble(out)
}

// CastFrameInPlace converts every column of df. No column changes unless all
// of them convert.
func CastFrameInPlace(df *dataframe.DataFrame, to cell.Tag) error {
	return CastColumns(df, func(string) (cell.Tag, bool) { return to, true })
}

// CastColumns converts the columns of df for which target reports a tag. No
// column changes unless all of them convert.
func CastColumns(df *dataframe.DataFrame, target func(name string) (cell.Tag, bool)) error {
	type pending struct {
		s     *series.Series
		cells []cell.Cell
		to    cell.Tag
	}
	var work []pending
	for k := 0; k < df.Width(); k++ {
		s, _ := df.ColumnAt(k)
		to, ok := target(s.Name())
		if !ok {
			continue
		}
		cells, err := castCells("CastColumns", s, to)
		if err != nil {
			return withColumn(err, s.Name())
		}
		work = append(work, pending{s: s, cells: cells, to: to})
	}
	for _, p := range work {
		if err := p.s.Replace(p.cells, p.to); err != nil {
			return err
		}
	}
	return nil
}

func castCells(op string, in Reader, to cell.Tag) ([]cell.Cell, error) {
	if !to.IsConcrete() || to == cell.Custom {
		return nil, errors.NewInvalidInputError(op, fmt.Sprintf("cannot cast to %s", to))
	}
	return mapCells(op, in.Len(), func(i int) (cell.Cell, error) {
		c, err := cell.Cast(in.Get(i), to)
		if err != nil && to.IsFloat() {
			return nan(to), nil
		}
		return c, err
	})
}
