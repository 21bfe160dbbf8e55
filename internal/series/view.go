package series

import (
	"fmt"
	"iter"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/slice"
)

// View is a read/write window over a Series. It aliases the owner's backing
// cells as they were when the view was built: writes through the view are
// visible in the owner and vice versa, but the bounds never follow later
// structural changes of the owner. Resizing or erasing the owner while a view
// is alive is not supported.
type View struct {
	owner *Series
	data  []cell.Cell
	sl    slice.Slice
	empty bool
}

// ConstView is the read-only counterpart of View.
type ConstView struct {
	v View
}

func newView(owner *Series, sl slice.Slice) (*View, error) {
	norm, err := slice.Norm(sl, owner.Len())
	if err != nil {
		return nil, err
	}
	return &View{owner: owner, data: owner.data, sl: norm, empty: owner.Len() == 0}, nil
}

// Len returns the number of visible elements.
func (v *View) Len() int {
	if v.empty {
		return 0
	}
	return v.sl.Size()
}

// Bounds returns the normalized slice over the owner's indices.
func (v *View) Bounds() slice.Slice {
	return v.sl
}

func (v *View) index(i int) int {
	if i < 0 || i >= v.Len() {
		panic(fmt.Sprintf("series: view index %d out of range [0:%d]", i, v.Len()))
	}
	return v.sl.At(i)
}

// Get returns the i-th visible cell; it panics when i is out of range.
func (v *View) Get(i int) cell.Cell {
	return v.data[v.index(i)]
}

// At returns the i-th visible cell.
func (v *View) At(i int) (cell.Cell, error) {
	if i < 0 || i >= v.Len() {
		return cell.Cell{}, errors.NewIndexOutOfBoundsError("At", i, v.Len())
	}
	return v.data[v.sl.At(i)], nil
}

// Set writes v into the owner at the i-th visible position, under the
// owner's dtype.
func (v *View) Set(i int, val any) error {
	if i < 0 || i >= v.Len() {
		return errors.NewIndexOutOfBoundsError("Set", i, v.Len())
	}
	c, err := cell.New(val)
	if err != nil {
		return errors.NewHomogeneityError("Set", v.owner.name, v.owner.dtype.String(), fmt.Sprintf("%T", val))
	}
	dtype, userType, err := admit("Set", v.owner.name, v.owner.dtype, v.owner.userType, c)
	if err != nil {
		return err
	}
	v.data[v.sl.At(i)] = c
	v.owner.dtype, v.owner.userType = dtype, userType
	return nil
}

// Name returns the owner's name.
func (v *View) Name() string {
	return v.owner.name
}

// Dtype returns the owner's dtype.
func (v *View) Dtype() cell.Tag {
	return v.owner.dtype
}

// Values returns a copy of the visible cells.
func (v *View) Values() []cell.Cell {
	out := make([]cell.Cell, v.Len())
	for i := range out {
		out[i] = v.data[v.sl.At(i)]
	}
	return out
}

// All iterates over visible positions and cells.
func (v *View) All() iter.Seq2[int, cell.Cell] {
	return func(yield func(int, cell.Cell) bool) {
		for i := 0; i < v.Len(); i++ {
			if !yield(i, v.data[v.sl.At(i)]) {
				return
			}
		}
	}
}

// Slice re-slices the view. The result addresses the same owner directly.
func (v *View) Slice(sl slice.Slice) (*View, error) {
	norm, err := slice.Norm(sl, v.Len())
	if err != nil {
		return nil, err
	}
	out := *v
	if !v.empty && v.Len() > 0 {
		out.sl = v.sl.Compose(norm)
	}
	return &out, nil
}

// Materialize copies the visible cells into a new owning Series.
func (v *View) Materialize() *Series {
	return FromView(v)
}

// ReadOnly returns a read-only view over the same window.
func (v *View) ReadOnly() *ConstView {
	return &ConstView{v: *v}
}

// Equal compares the visible cells element-wise.
func (v *View) Equal(other Reader) bool {
	return equal(v, other)
}

func (v *View) String() string {
	return fmt.Sprintf("View[%s]: %s %s (len=%d)", v.owner.dtype, v.owner.name, v.sl, v.Len())
}

func (c *ConstView) Len() int                       { return c.v.Len() }
func (c *ConstView) Get(i int) cell.Cell            { return c.v.Get(i) }
func (c *ConstView) At(i int) (cell.Cell, error)    { return c.v.At(i) }
func (c *ConstView) Name() string                   { return c.v.Name() }
func (c *ConstView) Dtype() cell.Tag                { return c.v.Dtype() }
func (c *ConstView) Bounds() slice.Slice            { return c.v.sl }
func (c *ConstView) Values() []cell.Cell            { return c.v.Values() }
func (c *ConstView) All() iter.Seq2[int, cell.Cell] { return c.v.All() }
func (c *ConstView) Materialize() *Series           { return FromView(c) }
func (c *ConstView) Equal(other Reader) bool        { return equal(c, other) }
func (c *ConstView) String() string                 { return "Const" + c.v.String() }

// Slice re-slices the read-only view.
func (c *ConstView) Slice(sl slice.Slice) (*ConstView, error) {
	v, err := c.v.Slice(sl)
	if err != nil {
		return nil, err
	}
	return v.ReadOnly(), nil
}
