package series

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/slice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeries(t *testing.T) {
	tests := []struct {
		name        string
		series      *Series
		expectedLen int
		dtype       cell.Tag
		arrowType   arrow.DataType
	}{
		{"string series", Of("names", []string{"alice", "bob", "charlie"}), 3, cell.String, arrow.BinaryTypes.String},
		{"int64 series", Of("ages", []int64{25, 30, 35}), 3, cell.Int64, arrow.PrimitiveTypes.Int64},
		{"float64 series", Of("scores", []float64{85.5, 92.0, 78.3}), 3, cell.Float64, arrow.PrimitiveTypes.Float64},
		{"bool series", Of("active", []bool{true, false, true}), 3, cell.Bool, arrow.FixedWidthTypes.Boolean},
		{"empty typed series", Of("empty", []int32{}), 0, cell.Int32, arrow.PrimitiveTypes.Int32},
		{"unconstrained series", New("x"), 0, cell.Unconstrained, arrow.Null},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedLen, tt.series.Len())
			assert.Equal(t, tt.dtype, tt.series.Dtype())
			assert.True(t, arrow.TypeEqual(tt.arrowType, tt.series.DataType()))
			assert.True(t, tt.series.CheckTypes())
		})
	}
}

func TestFromValues(t *testing.T) {
	s, err := FromValues("a", int64(1), nil, int64(3))
	require.NoError(t, err)
	assert.Equal(t, cell.Int64, s.Dtype())
	assert.True(t, s.IsNull(1))

	_, err = FromValues("b", int64(1), "two")
	assert.ErrorIs(t, err, errors.ErrHomogeneity)

	_, err = FromValues("c", struct{}{})
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)
}

func TestHomogeneityInvariant(t *testing.T) {
	s := New("values")
	for i := 0; i < 5; i++ {
		require.NoError(t, s.PushBack(int64(i)))
	}
	require.NoError(t, s.ResizeWith(7, int64(9)))
	assert.True(t, s.CheckTypes())

	before := s.Values()
	err := s.PushBack("oops")
	assert.ErrorIs(t, err, errors.ErrHomogeneity)
	assert.Equal(t, before, s.Values())

	err = s.Append(int64(10), 1.5)
	assert.ErrorIs(t, err, errors.ErrHomogeneity)
	assert.Equal(t, before, s.Values())

	err = s.ResizeWith(9, true)
	assert.ErrorIs(t, err, errors.ErrHomogeneity)
	assert.Equal(t, 7, s.Len())

	err = s.Set(0, "x")
	assert.ErrorIs(t, err, errors.ErrHomogeneity)
	assert.Equal(t, before, s.Values())

	require.NoError(t, Emplace(s, int64(11)))
	assert.Equal(t, 8, s.Len())
}

func TestResizeRelaxation(t *testing.T) {
	s := Of("n", []int64{1, 2})
	s.Resize(4)
	assert.Equal(t, 4, s.Len())
	assert.False(t, s.CheckTypes())
	assert.True(t, s.Get(3).IsEmpty())

	require.NoError(t, s.Set(2, int64(3)))
	require.NoError(t, s.Set(3, int64(4)))
	assert.True(t, s.CheckTypes())

	s.Resize(1)
	assert.Equal(t, []cell.Cell{cell.Of(int64(1))}, s.Values())
}

func TestUserValues(t *testing.T) {
	s := New("u")
	require.NoError(t, s.PushBack(label{"a"}))
	assert.Equal(t, cell.Custom, s.Dtype())

	err := s.PushBack(other{})
	assert.ErrorIs(t, err, errors.ErrHomogeneity)
	assert.Equal(t, 1, s.Len())
}

func TestErase(t *testing.T) {
	s := Of("n", []int64{0, 1, 2, 3, 4})

	require.NoError(t, s.Erase(1))
	assert.True(t, s.Equal(Of("", []int64{0, 2, 3, 4})))

	require.NoError(t, s.EraseRange(1, 3))
	assert.True(t, s.Equal(Of("", []int64{0, 4})))

	assert.ErrorIs(t, s.Erase(2), errors.ErrOutOfRange)
	assert.ErrorIs(t, s.EraseRange(1, 5), errors.ErrOutOfRange)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, cell.Int64, s.Dtype())
}

func TestInsert(t *testing.T) {
	s := Of("n", []int64{1, 3})
	require.NoError(t, s.Insert(1, int64(2)))
	require.NoError(t, s.Insert(3, int64(4)))
	assert.True(t, s.Equal(Of("", []int64{1, 2, 3, 4})))

	assert.ErrorIs(t, s.Insert(9, int64(0)), errors.ErrOutOfRange)
	assert.ErrorIs(t, s.Insert(0, "x"), errors.ErrHomogeneity)
	assert.Equal(t, 4, s.Len())

	_, err := s.Check(int64(5))
	assert.NoError(t, err)
}

func TestAccess(t *testing.T) {
	s := Of("n", []int64{10, 20})

	c, err := s.At(1)
	require.NoError(t, err)
	assert.Equal(t, int64(20), cell.MustAs[int64](c))

	_, err = s.At(2)
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
	assert.Panics(t, func() { s.Get(5) })

	var sum int64
	for _, c := range s.All() {
		sum += cell.MustAs[int64](c)
	}
	assert.Equal(t, int64(30), sum)
}

func TestFilled(t *testing.T) {
	s, err := Filled("f", 3, "x")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, cell.String, s.Dtype())
	assert.Equal(t, "Series[string]: f (len=3)", s.String())
}

func TestCloneIsDeep(t *testing.T) {
	s := Of("n", []int64{1, 2})
	c := s.Clone()
	require.NoError(t, c.Set(0, int64(100)))
	assert.Equal(t, int64(1), cell.MustAs[int64](s.Get(0)))
}

func TestViewAliasing(t *testing.T) {
	s := Of("n", []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	v, err := s.Slice(slice.Must(slice.Step(2)))
	require.NoError(t, err)
	assert.Equal(t, 5, v.Len())

	// write through the view, observe in the owner
	require.NoError(t, v.Set(1, int64(-3)))
	assert.Equal(t, int64(-3), cell.MustAs[int64](s.Get(2)))

	// write through the owner, observe in the view
	require.NoError(t, s.Set(4, int64(-5)))
	assert.Equal(t, int64(-5), cell.MustAs[int64](v.Get(2)))

	assert.ErrorIs(t, v.Set(0, "x"), errors.ErrHomogeneity)
	assert.ErrorIs(t, v.Set(5, int64(0)), errors.ErrOutOfRange)
}

func TestViewStrides(t *testing.T) {
	s := Of("n", []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	odd, err := s.ConstSlice(slice.Must(slice.First(0), slice.Step(2)))
	require.NoError(t, err)
	assert.True(t, odd.Equal(Of("", []int64{1, 3, 5, 7, 9})))

	even, err := s.ConstSlice(slice.Must(slice.First(1), slice.Step(2)))
	require.NoError(t, err)
	assert.True(t, even.Equal(Of("", []int64{2, 4, 6, 8, 10})))
}

func TestViewReslice(t *testing.T) {
	s := Of("n", []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	v, err := s.Slice(slice.Must(slice.First(1), slice.Step(2)))
	require.NoError(t, err)
	w, err := v.Slice(slice.Must(slice.First(1), slice.Last(3)))
	require.NoError(t, err)

	assert.True(t, w.Equal(Of("", []int64{3, 5, 7})))
	assert.Equal(t, slice.Must(slice.First(3), slice.Last(7), slice.Step(2)), w.Bounds())

	// the re-sliced view still writes into the owner
	require.NoError(t, w.Set(0, int64(30)))
	assert.Equal(t, int64(30), cell.MustAs[int64](s.Get(3)))

	tail, err := v.Slice(slice.Must(slice.First(9)))
	require.NoError(t, err)
	assert.True(t, tail.Equal(Of("", []int64{9})))

	_, err = v.Slice(slice.Must(slice.First(4), slice.Last(2)))
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
}

func TestViewOnEmptySeries(t *testing.T) {
	s := New("empty")
	v, err := s.Slice(slice.All())
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())
	assert.Empty(t, v.Values())

	w, err := v.Slice(slice.Must(slice.Step(3)))
	require.NoError(t, err)
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 0, w.Materialize().Len())
}

func TestViewMaterialize(t *testing.T) {
	s := Of("n", []int64{1, 2, 3, 4})
	v, err := s.Slice(slice.Must(slice.First(2)))
	require.NoError(t, err)

	m := v.Materialize()
	assert.Equal(t, "n", m.Name())
	assert.Equal(t, cell.Int64, m.Dtype())
	assert.True(t, m.Equal(Of("", []int64{3, 4})))

	require.NoError(t, m.Set(0, int64(0)))
	assert.Equal(t, int64(3), cell.MustAs[int64](s.Get(2)))

	ro := v.ReadOnly()
	assert.Equal(t, 2, ro.Len())
	assert.False(t, ro.Materialize().Equal(m))
}

type label struct{ s string }

func (l label) TypeName() string      { return "label" }
func (l label) Clone() cell.UserValue { return l }
func (l label) Equal(o cell.UserValue) bool {
	x, ok := o.(label)
	return ok && x.s == l.s
}

type other struct{}

func (other) TypeName() string      { return "other" }
func (other) Clone() cell.UserValue { return other{} }
func (other) Equal(o cell.UserValue) bool {
	_, ok := o.(other)
	return ok
}
