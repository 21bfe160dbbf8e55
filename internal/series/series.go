// Package series provides data structures for column operations
package series

import (
	"fmt"
	"iter"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/slice"
)

// Reader is the read-only element contract shared by Series and its views.
type Reader interface {
	Len() int
	Get(i int) cell.Cell
}

// NamedReader is a Reader that carries a column name.
type NamedReader interface {
	Reader
	Name() string
}

// Series represents a named column of cells sharing one type tag
type Series struct {
	name     string
	data     []cell.Cell
	dtype    cell.Tag
	userType string // TypeName of Custom values, once known
}

// New creates an empty, unconstrained series
func New(name string) *Series {
	return &Series{name: name, dtype: cell.Unconstrained}
}

// Sized creates a series of n empty cells
func Sized(name string, n int) *Series {
	s := New(name)
	s.data = make([]cell.Cell, max(n, 0))
	return s
}

// Filled creates a series of n copies of v
func Filled(name string, n int, v any) (*Series, error) {
	s := New(name)
	if err := s.ResizeWith(n, v); err != nil {
		return nil, err
	}
	return s, nil
}

// Of creates a series from a slice of primitive values. The dtype is fixed to
// T's tag even when values is empty.
func Of[T cell.Primitive](name string, values []T) *Series {
	s := &Series{name: name, dtype: cell.TagOf[T](), data: make([]cell.Cell, len(values))}
	for i, v := range values {
		s.data[i] = cell.Of(v)
	}
	return s
}

// FromValues creates a series from heterogeneous Go values, failing with
// HOMOGENEITY_VIOLATION if they do not share one alternative.
func FromValues(name string, values ...any) (*Series, error) {
	cells := make([]cell.Cell, len(values))
	for i, v := range values {
		c, err := cell.New(v)
		if err != nil {
			return nil, err
		}
		cells[i] = c
	}
	return FromCells(name, cells)
}

// FromCells creates a series owning a copy of cells.
func FromCells(name string, cells []cell.Cell) (*Series, error) {
	s := New(name)
	if err := s.Replace(cells, cell.Unconstrained); err != nil {
		return nil, err
	}
	return s, nil
}

// FromView materializes any readable column into a new owning series.
func FromView(v NamedReader) *Series {
	s := New(v.Name())
	s.data = make([]cell.Cell, v.Len())
	for i := range s.data {
		s.data[i] = v.Get(i).Clone()
	}
	s.dtype, s.userType = inferDtype(s.data)
	if d, ok := v.(interface{ Dtype() cell.Tag }); ok && s.dtype == cell.Unconstrained {
		s.dtype = d.Dtype()
	}
	return s
}

// Emplace appends a typed value.
func Emplace[T cell.Primitive](s *Series, v T) error {
	return s.push(cell.Of(v))
}

// Name returns the column name
func (s *Series) Name() string {
	return s.name
}

// SetName sets the column name
func (s *Series) SetName(name string) {
	s.name = name
}

// Len returns the length of the series
func (s *Series) Len() int {
	return len(s.data)
}

// Dtype returns the shared tag, or cell.Unconstrained before the first value.
func (s *Series) Dtype() cell.Tag {
	return s.dtype
}

// DataType returns the Arrow type matching the series dtype
func (s *Series) DataType() arrow.DataType {
	return s.dtype.ArrowType()
}

// CheckTypes reports whether every cell holds the series dtype. Empty cells
// left by Resize make it false until they are assigned.
func (s *Series) CheckTypes() bool {
	for _, c := range s.data {
		if c.Tag() != s.dtype {
			return false
		}
	}
	return true
}

// PushBack appends v; nil appends an empty cell.
func (s *Series) PushBack(v any) error {
	c, err := cell.New(v)
	if err != nil {
		return errors.NewHomogeneityError("PushBack", s.name, s.dtype.String(), fmt.Sprintf("%T", v))
	}
	return s.push(c)
}

// Append appends all values or none of them.
func (s *Series) Append(values ...any) error {
	cells := make([]cell.Cell, len(values))
	dtype, userType := s.dtype, s.userType
	for i, v := range values {
		c, err := cell.New(v)
		if err != nil {
			return errors.NewHomogeneityError("Append", s.name, dtype.String(), fmt.Sprintf("%T", v))
		}
		if dtype, userType, err = admit("Append", s.name, dtype, userType, c); err != nil {
			return err
		}
		cells[i] = c
	}
	s.data = append(s.data, cells...)
	s.dtype, s.userType = dtype, userType
	return nil
}

func (s *Series) push(c cell.Cell) error {
	dtype, userType, err := admit("PushBack", s.name, s.dtype, s.userType, c)
	if err != nil {
		return err
	}
	s.data = append(s.data, c)
	s.dtype, s.userType = dtype, userType
	return nil
}

// Insert places v before index i; i == Len() appends.
func (s *Series) Insert(i int, v any) error {
	if i < 0 || i > len(s.data) {
		return errors.NewIndexOutOfBoundsError("Insert", i, len(s.data)+1)
	}
	c, err := s.Check(v)
	if err != nil {
		return err
	}
	s.data = append(s.data, cell.Cell{})
	copy(s.data[i+1:], s.data[i:])
	s.data[i] = c
	s.dtype, s.userType, _ = admit("Insert", s.name, s.dtype, s.userType, c)
	return nil
}

// Check converts v to a cell and reports whether the series could store it,
// without modifying the series.
func (s *Series) Check(v any) (cell.Cell, error) {
	c, err := cell.New(v)
	if err != nil {
		return cell.Cell{}, errors.NewHomogeneityError("Check", s.name, s.dtype.String(), fmt.Sprintf("%T", v))
	}
	if _, _, err := admit("Check", s.name, s.dtype, s.userType, c); err != nil {
		return cell.Cell{}, err
	}
	return c, nil
}

// Resize grows with empty cells or truncates to n.
func (s *Series) Resize(n int) {
	n = max(n, 0)
	if n <= len(s.data) {
		clear(s.data[n:])
		s.data = s.data[:n]
		return
	}
	s.data = append(s.data, make([]cell.Cell, n-len(s.data))...)
}

// ResizeWith grows with copies of v or truncates to n.
func (s *Series) ResizeWith(n int, v any) error {
	c, err := cell.New(v)
	if err != nil {
		return errors.NewHomogeneityError("Resize", s.name, s.dtype.String(), fmt.Sprintf("%T", v))
	}
	dtype, userType := s.dtype, s.userType
	old := len(s.data)
	if n > old {
		if dtype, userType, err = admit("Resize", s.name, dtype, userType, c); err != nil {
			return err
		}
	}
	s.Resize(n)
	for i := old; i < n; i++ {
		s.data[i] = c.Clone()
	}
	s.dtype, s.userType = dtype, userType
	return nil
}

// Erase removes the element at index i.
func (s *Series) Erase(i int) error {
	if i < 0 || i >= len(s.data) {
		return errors.NewIndexOutOfBoundsError("Erase", i, len(s.data))
	}
	return s.EraseRange(i, i+1)
}

// EraseRange removes elements in the half-open range [first, last).
func (s *Series) EraseRange(first, last int) error {
	if first < 0 || last > len(s.data) || first > last {
		return errors.NewOutOfRangeError("Erase",
			fmt.Sprintf("range [%d, %d) is invalid for length %d", first, last, len(s.data)))
	}
	n := copy(s.data[first:], s.data[last:])
	clear(s.data[first+n:])
	s.data = s.data[:first+n]
	return nil
}

// Clear removes every element; the dtype is kept.
func (s *Series) Clear() {
	clear(s.data)
	s.data = s.data[:0]
}

// Get returns the cell at index i without a bounds check beyond Go's own.
func (s *Series) Get(i int) cell.Cell {
	return s.data[i]
}

// At returns the cell at index i.
func (s *Series) At(i int) (cell.Cell, error) {
	if i < 0 || i >= len(s.data) {
		return cell.Cell{}, errors.NewIndexOutOfBoundsError("At", i, len(s.data))
	}
	return s.data[i], nil
}

// IsNull checks if the value at index is empty
func (s *Series) IsNull(i int) bool {
	return s.data[i].IsEmpty()
}

// Set assigns v at index i, enforcing the series dtype.
func (s *Series) Set(i int, v any) error {
	if i < 0 || i >= len(s.data) {
		return errors.NewIndexOutOfBoundsError("Set", i, len(s.data))
	}
	c, err := cell.New(v)
	if err != nil {
		return errors.NewHomogeneityError("Set", s.name, s.dtype.String(), fmt.Sprintf("%T", v))
	}
	dtype, userType, err := admit("Set", s.name, s.dtype, s.userType, c)
	if err != nil {
		return err
	}
	s.data[i] = c
	s.dtype, s.userType = dtype, userType
	return nil
}

// Replace swaps the whole contents for a copy of cells. A concrete dtype
// constrains the cells; cell.Unconstrained infers it from them. On error the
// series is unchanged.
func (s *Series) Replace(cells []cell.Cell, dtype cell.Tag) error {
	userType := ""
	for _, c := range cells {
		var err error
		if dtype, userType, err = admit("Replace", s.name, dtype, userType, c); err != nil {
			return err
		}
	}
	s.data = append(make([]cell.Cell, 0, len(cells)), cells...)
	s.dtype, s.userType = dtype, userType
	return nil
}

// Values returns a copy of the cells
func (s *Series) Values() []cell.Cell {
	out := make([]cell.Cell, len(s.data))
	copy(out, s.data)
	return out
}

// All iterates over index and cell pairs.
func (s *Series) All() iter.Seq2[int, cell.Cell] {
	return func(yield func(int, cell.Cell) bool) {
		for i, c := range s.data {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Slice returns a read/write view over the selected elements.
func (s *Series) Slice(sl slice.Slice) (*View, error) {
	return newView(s, sl)
}

// ConstSlice returns a read-only view over the selected elements.
func (s *Series) ConstSlice(sl slice.Slice) (*ConstView, error) {
	v, err := newView(s, sl)
	if err != nil {
		return nil, err
	}
	return v.ReadOnly(), nil
}

// Equal compares element-wise after a length check. Names are not compared.
func (s *Series) Equal(other Reader) bool {
	return equal(s, other)
}

// Clone returns a deep copy
func (s *Series) Clone() *Series {
	out := &Series{name: s.name, dtype: s.dtype, userType: s.userType, data: make([]cell.Cell, len(s.data))}
	for i, c := range s.data {
		out.data[i] = c.Clone()
	}
	return out
}

// String returns a string representation of the series
func (s *Series) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d)", s.dtype, s.name, s.Len())
}

// admit validates that c may join a column of the given dtype and returns the
// dtype the column has afterwards.
func admit(op, column string, dtype cell.Tag, userType string, c cell.Cell) (cell.Tag, string, error) {
	if c.IsEmpty() {
		return dtype, userType, nil
	}
	if dtype != cell.Unconstrained && c.Tag() != dtype {
		return dtype, userType, errors.NewHomogeneityError(op, column, dtype.String(), c.TypeName())
	}
	if c.Tag() == cell.Custom {
		if userType != "" && c.TypeName() != userType {
			return dtype, userType, errors.NewHomogeneityError(op, column, userType, c.TypeName())
		}
		userType = c.TypeName()
	}
	return c.Tag(), userType, nil
}

func inferDtype(cells []cell.Cell) (cell.Tag, string) {
	for _, c := range cells {
		if c.IsEmpty() {
			continue
		}
		if c.Tag() == cell.Custom {
			return cell.Custom, c.TypeName()
		}
		return c.Tag(), ""
	}
	return cell.Unconstrained, ""
}

func equal(a, b Reader) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !cell.Equal(a.Get(i), b.Get(i)) {
			return false
		}
	}
	return true
}
