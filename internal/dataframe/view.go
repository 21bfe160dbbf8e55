package dataframe

import (
	"fmt"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/slice"
)

// View is a read/write window over a DataFrame: a strided subset of columns,
// each restricted to the same strided subset of rows. Column views alias the
// owner's cells; names are looked up in the owner.
type View struct {
	owner *DataFrame
	cols  slice.Slice
	rows  slice.Slice
	views []*series.View
}

func newView(owner *DataFrame, cols, rows slice.Slice) (*View, error) {
	cn, err := slice.Norm(cols, owner.Width())
	if err != nil {
		return nil, err
	}
	rn, err := slice.Norm(rows, owner.Len())
	if err != nil {
		return nil, err
	}
	v := &View{owner: owner, cols: cn, rows: rn}
	if owner.Empty() {
		return v, nil
	}
	v.views = make([]*series.View, cn.Size())
	for k := range v.views {
		sv, err := owner.columns[cn.At(k)].Slice(rows)
		if err != nil {
			return nil, err
		}
		v.views[k] = sv
	}
	return v, nil
}

// Len returns the number of visible rows.
func (v *View) Len() int {
	if len(v.views) == 0 {
		return 0
	}
	return v.views[0].Len()
}

// Width returns the number of visible columns.
func (v *View) Width() int {
	return len(v.views)
}

// Name maps the k-th visible column back to its owner-assigned name.
func (v *View) Name(k int) (string, error) {
	if k < 0 || k >= len(v.views) {
		return "", errors.NewIndexOutOfBoundsError("Name", k, len(v.views))
	}
	return v.owner.names[v.cols.At(k)], nil
}

// Columns returns the visible column names in order.
func (v *View) Columns() []string {
	out := make([]string, len(v.views))
	for k := range out {
		out[k] = v.owner.names[v.cols.At(k)]
	}
	return out
}

// Column returns the k-th visible column.
func (v *View) Column(k int) (*series.View, error) {
	if k < 0 || k >= len(v.views) {
		return nil, errors.NewIndexOutOfBoundsError("Column", k, len(v.views))
	}
	return v.views[k], nil
}

// ColumnByName returns the visible column with the given owner name.
func (v *View) ColumnByName(name string) (*series.View, error) {
	for k := range v.views {
		if v.owner.names[v.cols.At(k)] == name {
			return v.views[k], nil
		}
	}
	return nil, errors.NewColumnNotFoundErrorWithSuggestions("ColumnByName", name, v.Columns())
}

// Get returns the cell at visible (col, row); it panics when out of range.
func (v *View) Get(col, row int) cell.Cell {
	return v.views[col].Get(row)
}

// At returns the cell at visible (col, row).
func (v *View) At(col, row int) (cell.Cell, error) {
	sv, err := v.Column(col)
	if err != nil {
		return cell.Cell{}, err
	}
	return sv.At(row)
}

// Set writes through to the owner at visible (col, row).
func (v *View) Set(col, row int, val any) error {
	sv, err := v.Column(col)
	if err != nil {
		return err
	}
	return sv.Set(row, val)
}

// Row returns a copy of visible row i.
func (v *View) Row(i int) ([]cell.Cell, error) {
	if i < 0 || i >= v.Len() {
		return nil, errors.NewIndexOutOfBoundsError("Row", i, v.Len())
	}
	row := make([]cell.Cell, len(v.views))
	for k, sv := range v.views {
		row[k] = sv.Get(i)
	}
	return row, nil
}

// Slice re-slices the view; the result addresses the same owner directly.
func (v *View) Slice(cols, rows slice.Slice) (*View, error) {
	cn, err := slice.Norm(cols, v.Width())
	if err != nil {
		return nil, err
	}
	rn, err := slice.Norm(rows, v.Len())
	if err != nil {
		return nil, err
	}
	out := &View{owner: v.owner, cols: v.cols, rows: v.rows}
	if len(v.views) == 0 {
		return out, nil
	}
	out.cols = v.cols.Compose(cn)
	out.views = make([]*series.View, cn.Size())
	for k := range out.views {
		sv, err := v.views[cn.At(k)].Slice(rn)
		if err != nil {
			return nil, err
		}
		out.views[k] = sv
	}
	out.rows = out.views[0].Bounds()
	return out, nil
}

// Materialize copies the visible window into a new owning DataFrame.
func (v *View) Materialize() *DataFrame {
	out := empty()
	for _, sv := range v.views {
		_ = out.AppendColumn(sv.Materialize())
	}
	return out
}

func (v *View) String() string {
	return fmt.Sprintf("DataFrameView[%dx%d] cols=%s rows=%s", v.Len(), v.Width(), v.cols, v.rows)
}
