package compute_test

import (
	stderrors "errors"
	"fmt"
	"math"
	"testing"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/compute"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/slice"
	"github.com/paveg/tabula/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(c cell.Cell) (cell.Cell, error) {
	v, err := cell.As[int](c)
	if err != nil {
		return cell.Cell{}, err
	}
	return cell.Of(v * v), nil
}

func isOdd(c cell.Cell) bool {
	v, err := cell.As[int](c)
	return err == nil && v%2 == 1
}

func toFloat(c cell.Cell) (cell.Cell, error) {
	return cell.Cast(c, cell.Float64)
}

func TestTransform(t *testing.T) {
	s := testutil.Ints("n", 1, 2, 3, 4, 5)

	out, err := compute.Transform(s, square)
	require.NoError(t, err)
	testutil.AssertValues(t, out, 1, 4, 9, 16, 25)
	assert.Equal(t, "n", out.Name())
	assert.Equal(t, cell.Int64, out.Dtype())
	testutil.AssertValues(t, s, 1, 2, 3, 4, 5)

	t.Run("result type may differ", func(t *testing.T) {
		out, err := compute.Transform(s, toFloat)
		require.NoError(t, err)
		assert.Equal(t, cell.Float64, out.Dtype())
	})

	t.Run("mixed result types are rejected", func(t *testing.T) {
		_, err := compute.Transform(s, func(c cell.Cell) (cell.Cell, error) {
			if isOdd(c) {
				return cell.Of("odd"), nil
			}
			return c, nil
		})
		assert.ErrorIs(t, err, errors.ErrHomogeneity)
	})

	t.Run("empty input", func(t *testing.T) {
		out, err := compute.Transform(testutil.Ints("e"), square)
		require.NoError(t, err)
		assert.Equal(t, 0, out.Len())
	})
}

func TestTransformInPlace(t *testing.T) {
	t.Run("series may change dtype", func(t *testing.T) {
		s := testutil.Ints("n", 1, 2, 3)
		require.NoError(t, compute.TransformInPlace(s, toFloat))
		assert.Equal(t, cell.Float64, s.Dtype())
		testutil.AssertValues(t, s, 1.0, 2.0, 3.0)
	})

	t.Run("view writes through to the owner", func(t *testing.T) {
		s := testutil.Ints("n", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
		v, err := s.Slice(slice.Must(slice.Step(2)))
		require.NoError(t, err)

		require.NoError(t, compute.TransformInPlace(v, square))
		testutil.AssertValues(t, s, 1, 2, 9, 4, 25, 6, 49, 8, 81, 10)
	})

	t.Run("view cannot change the owner dtype", func(t *testing.T) {
		s := testutil.Ints("n", 1, 2, 3, 4)
		v, err := s.Slice(slice.Must(slice.First(1)))
		require.NoError(t, err)

		err = compute.TransformInPlace(v, toFloat)
		assert.ErrorIs(t, err, errors.ErrHomogeneity)
		testutil.AssertValues(t, s, 1, 2, 3, 4)
		assert.Equal(t, cell.Int64, s.Dtype())
	})

	t.Run("one failure leaves the target untouched", func(t *testing.T) {
		s := testutil.Ints("n", 1, 2, 3, 4, 5)
		err := compute.TransformInPlace(s, func(c cell.Cell) (cell.Cell, error) {
			if cell.MustAs[int](c) == 3 {
				return cell.Cell{}, errors.NewInvalidInputError("fn", "three")
			}
			return square(c)
		})
		require.Error(t, err)
		assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
		assert.Contains(t, err.Error(), "1 of 5 elements failed")
		testutil.AssertValues(t, s, 1, 2, 3, 4, 5)
	})
}

func TestTransformFrame(t *testing.T) {
	df := testutil.Frame(t, testutil.Ints("a", 1, 2), testutil.Ints("b", 3, 4))

	out, err := compute.TransformFrame(df, square)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Columns())
	b, err := out.Column("b")
	require.NoError(t, err)
	testutil.AssertValues(t, b, 9, 16)

	orig, err := df.Column("b")
	require.NoError(t, err)
	testutil.AssertValues(t, orig, 3, 4)
}

func TestTransformFrameInPlace(t *testing.T) {
	t.Run("all or nothing across columns", func(t *testing.T) {
		df := testutil.Frame(t, testutil.Ints("a", 1, 2), testutil.Strings("b", "x", "y"))

		err := compute.TransformFrameInPlace(df, square)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrBadCast)

		var dfErr *errors.DataFrameError
		require.True(t, stderrors.As(err, &dfErr))
		assert.Equal(t, "b", dfErr.Column)

		a, _ := df.Column("a")
		testutil.AssertValues(t, a, 1, 2)
	})

	t.Run("through a frame view", func(t *testing.T) {
		df := testutil.Frame(t, testutil.Ints("a", 1, 2, 3, 4), testutil.Ints("b", 5, 6, 7, 8))
		v, err := df.Slice(slice.All(), slice.Must(slice.First(1), slice.Last(2)))
		require.NoError(t, err)

		require.NoError(t, compute.TransformFrameInPlace(v, square))
		a, _ := df.Column("a")
		b, _ := df.Column("b")
		testutil.AssertValues(t, a, 1, 4, 9, 4)
		testutil.AssertValues(t, b, 5, 36, 49, 8)
	})
}

func TestFilter(t *testing.T) {
	s := testutil.Ints("n", 1, 2, 3, 4, 5)

	out, err := compute.Filter(s, isOdd)
	require.NoError(t, err)
	testutil.AssertValues(t, out, 1, 3, 5)
	testutil.AssertValues(t, s, 1, 2, 3, 4, 5)

	require.NoError(t, compute.FilterInPlace(s, isOdd))
	testutil.AssertValues(t, s, 1, 3, 5)

	t.Run("nothing kept keeps the dtype", func(t *testing.T) {
		out, err := compute.Filter(s, func(cell.Cell) bool { return false })
		require.NoError(t, err)
		assert.Equal(t, 0, out.Len())
		assert.Equal(t, cell.Int64, out.Dtype())
	})

	t.Run("over a view", func(t *testing.T) {
		src := testutil.Ints("n", 1, 2, 3, 4, 5, 6)
		v, err := src.ConstSlice(slice.Must(slice.First(2)))
		require.NoError(t, err)
		out, err := compute.Filter(v, isOdd)
		require.NoError(t, err)
		testutil.AssertValues(t, out, 3, 5)
	})
}

func TestFilterRows(t *testing.T) {
	olderThan28 := func(row []cell.Cell) bool {
		age, err := cell.As[int64](row[1])
		return err == nil && age > 28
	}

	df := testutil.CreateTestDataFrame(t)
	out, err := compute.FilterRows(df, olderThan28)
	require.NoError(t, err)
	assert.Equal(t, df.Columns(), out.Columns())
	name, _ := out.Column("name")
	testutil.AssertValues(t, name, "Bob", "Charlie")
	assert.Equal(t, 4, df.Len())

	require.NoError(t, compute.FilterRowsInPlace(df, olderThan28))
	assert.Equal(t, 2, df.Len())
	salary, _ := df.Column("salary")
	testutil.AssertValues(t, salary, int64(80000), int64(120000))
}

func TestAccumulate(t *testing.T) {
	sum := func(acc, v int) int { return acc + v }

	s := testutil.Ints("n", 1, 2, 3, 4)
	assert.Equal(t, 10, compute.Accumulate(s, 0, sum))

	require.NoError(t, s.Set(1, nil))
	assert.Equal(t, 8, compute.Accumulate(s, 0, sum))

	assert.Equal(t, 0, compute.Accumulate(testutil.Strings("s", "a", "b"), 0, sum))

	concat := compute.Accumulate(testutil.Strings("s", "a", "b"), "", func(acc, v string) string { return acc + v })
	assert.Equal(t, "ab", concat)
}

func TestReduce(t *testing.T) {
	s := testutil.Ints("n", 1, 2, 3, 4)
	assert.Equal(t, int64(10), cell.MustAs[int64](compute.Reduce(s, cell.Of(0), cell.Add)))

	require.NoError(t, s.Set(1, nil))
	assert.Equal(t, int64(8), cell.MustAs[int64](compute.Reduce(s, cell.Of(0), cell.Add)))

	got := compute.Reduce(testutil.Strings("s", "a"), cell.Of(0), cell.Add)
	assert.True(t, cell.Equal(cell.Of(0), got))
}

func TestReduceRowsAndColumns(t *testing.T) {
	df := testutil.Frame(t, testutil.Ints("a", 1, 2, 3), testutil.Ints("b", 10, 20, 30))

	rows, err := compute.ReduceRows(df, cell.Of(0), cell.Add)
	require.NoError(t, err)
	testutil.AssertValues(t, rows, 11, 22, 33)

	cols, err := compute.ReduceColumns(df, cell.Of(0), cell.Add)
	require.NoError(t, err)
	testutil.AssertValues(t, cols, 6, 60)
}

func TestCast(t *testing.T) {
	s := testutil.Ints("n", 1, 2, 3)

	out, err := compute.Cast(s, cell.Float64)
	require.NoError(t, err)
	assert.Equal(t, cell.Float64, out.Dtype())
	testutil.AssertValues(t, out, 1.0, 2.0, 3.0)
	assert.Equal(t, cell.Int64, s.Dtype())
	testutil.AssertValues(t, s, 1, 2, 3)

	require.NoError(t, compute.CastInPlace(s, cell.Float64))
	assert.Equal(t, cell.Float64, s.Dtype())
	testutil.AssertValues(t, s, 1.0, 2.0, 3.0)

	tests := []struct {
		name    string
		in      *series.Series
		to      cell.Tag
		want    []any
		errKind errors.Kind
	}{
		{"parse ints", testutil.Strings("s", "1", " 2"), cell.Int64, []any{int64(1), int64(2)}, errors.KindUnknown},
		{"unparseable int fails", testutil.Strings("s", "1", "x"), cell.Int64, nil, errors.KindBadCast},
		{"to string", testutil.Ints("n", 7), cell.String, []any{"7"}, errors.KindUnknown},
		{"to bool", testutil.Ints("n", 0, 2), cell.Bool, []any{false, true}, errors.KindUnknown},
		{"unconstrained target", testutil.Ints("n", 1), cell.Unconstrained, nil, errors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := compute.Cast(tt.in, tt.to)
			if tt.errKind != errors.KindUnknown {
				require.Error(t, err)
				assert.Equal(t, tt.errKind, errors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, out.Dtype())
			testutil.AssertValues(t, out, tt.want...)
		})
	}

	t.Run("float targets turn failures into NaN", func(t *testing.T) {
		out, err := compute.Cast(testutil.Strings("s", "1.5", "x"), cell.Float64)
		require.NoError(t, err)
		assert.InDelta(t, 1.5, cell.MustAs[float64](out.Get(0)), 1e-9)
		assert.True(t, math.IsNaN(cell.MustAs[float64](out.Get(1))))

		out32, err := compute.Cast(testutil.Strings("s", "x"), cell.Float32)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(float64(cell.MustAs[float32](out32.Get(0)))))
	})

	t.Run("empty cells stay empty", func(t *testing.T) {
		s := testutil.Ints("n", 1, 2)
		require.NoError(t, s.Set(0, nil))
		out, err := compute.Cast(s, cell.String)
		require.NoError(t, err)
		assert.True(t, out.IsNull(0))
		testutil.AssertValues(t, out, nil, "2")
	})
}

func TestCastFrame(t *testing.T) {
	df := testutil.Frame(t, testutil.Ints("a", 0, 1), testutil.Strings("b", "x", "y"))

	err := compute.CastFrameInPlace(df, cell.Bool)
	assert.ErrorIs(t, err, errors.ErrBadCast)
	a, _ := df.Column("a")
	assert.Equal(t, cell.Int64, a.Dtype())

	out, err := compute.CastFrame(df, cell.String)
	require.NoError(t, err)
	oa, _ := out.Column("a")
	testutil.AssertValues(t, oa, "0", "1")

	require.NoError(t, compute.CastColumns(df, func(name string) (cell.Tag, bool) {
		return cell.Float64, name == "a"
	}))
	assert.Equal(t, cell.Float64, a.Dtype())
	b, _ := df.Column("b")
	assert.Equal(t, cell.String, b.Dtype())
}

func TestFrameBinary(t *testing.T) {
	df := testutil.Frame(t,
		testutil.Ints("Number", 1, 2, 3, 4, 5),
		testutil.Strings("Alphabet", "A", "B", "C", "D", "E"),
	)

	sum, err := compute.FrameBinary(cell.OpAdd, df, df)
	require.NoError(t, err)
	num, _ := sum.Column("Number")
	alpha, _ := sum.Column("Alphabet")
	testutil.AssertValues(t, num, 2, 4, 6, 8, 10)
	testutil.AssertValues(t, alpha, "AA", "BB", "CC", "DD", "EE")

	_, err = compute.FrameBinary(cell.OpSub, df, df)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrOperatorNotSupported)
	var dfErr *errors.DataFrameError
	require.True(t, stderrors.As(err, &dfErr))
	assert.Equal(t, "Alphabet", dfErr.Column)

	t.Run("shape and names must match", func(t *testing.T) {
		narrow := testutil.Frame(t, testutil.Ints("Number", 1, 2, 3, 4, 5))
		_, err := compute.FrameBinary(cell.OpAdd, df, narrow)
		assert.ErrorIs(t, err, errors.ErrSizeMismatch)

		renamed := testutil.Frame(t,
			testutil.Ints("n", 1, 2, 3, 4, 5),
			testutil.Strings("Alphabet", "A", "B", "C", "D", "E"),
		)
		_, err = compute.FrameBinary(cell.OpAdd, df, renamed)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})
}

func TestBinaryOperators(t *testing.T) {
	a := testutil.Ints("a", 1, 2, 3)
	b := testutil.Ints("b", 3, 2, 1)

	tests := []struct {
		name string
		fn   func(a, b compute.Reader) (*series.Series, error)
		want []any
	}{
		{"Add", compute.Add, []any{4, 4, 4}},
		{"Sub", compute.Sub, []any{-2, 0, 2}},
		{"Mul", compute.Mul, []any{3, 4, 3}},
		{"Div", compute.Div, []any{0, 1, 3}},
		{"Mod", compute.Mod, []any{1, 0, 0}},
		{"Eq", compute.Eq, []any{false, true, false}},
		{"Ne", compute.Ne, []any{true, false, true}},
		{"Lt", compute.Lt, []any{true, false, false}},
		{"Le", compute.Le, []any{true, true, false}},
		{"Gt", compute.Gt, []any{false, false, true}},
		{"Ge", compute.Ge, []any{false, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.fn(a, b)
			require.NoError(t, err)
			testutil.AssertValues(t, out, tt.want...)
			assert.Equal(t, "a", out.Name())
		})
	}

	t.Run("length mismatch", func(t *testing.T) {
		_, err := compute.Add(a, testutil.Ints("c", 1))
		assert.ErrorIs(t, err, errors.ErrSizeMismatch)
	})

	t.Run("type mismatch is not promoted", func(t *testing.T) {
		_, err := compute.Add(a, testutil.Floats("f", 1, 2, 3))
		assert.ErrorIs(t, err, errors.ErrTypeMismatch)
		assert.Contains(t, err.Error(), "3 of 3 elements failed")
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := compute.Div(a, testutil.Ints("z", 1, 0, 1))
		assert.ErrorIs(t, err, errors.ErrDivisionByZero)
		assert.Contains(t, err.Error(), "1 of 3 elements failed")
	})

	t.Run("bool has no multiplication", func(t *testing.T) {
		flags := series.Of("f", []bool{true, false})
		_, err := compute.Mul(flags, flags)
		assert.ErrorIs(t, err, errors.ErrOperatorNotSupported)
	})

	t.Run("scalar and unary", func(t *testing.T) {
		doubled, err := compute.BinaryScalar(cell.OpMul, a, cell.Of(2))
		require.NoError(t, err)
		testutil.AssertValues(t, doubled, 2, 4, 6)

		neg, err := compute.Unary(cell.UnaryNeg, a)
		require.NoError(t, err)
		testutil.AssertValues(t, neg, -1, -2, -3)

		_, err = compute.Unary(cell.UnaryNeg, series.Of("u", []uint8{1}))
		assert.ErrorIs(t, err, errors.ErrOperatorNotSupported)
	})

	t.Run("views as operands", func(t *testing.T) {
		long := testutil.Ints("l", 10, 20, 30, 40, 50, 60)
		v, err := long.Slice(slice.Must(slice.Step(2)))
		require.NoError(t, err)
		out, err := compute.Add(v, a)
		require.NoError(t, err)
		testutil.AssertValues(t, out, 11, 32, 53)
		assert.Equal(t, "l", out.Name())
	})
}

func TestDropRows(t *testing.T) {
	df := testutil.CreateTestDataFrame(t, testutil.WithRowCount(5))

	out, err := compute.DropRows(df, []int{0, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, df.Columns(), out.Columns())
	name, _ := out.Column("name")
	testutil.AssertValues(t, name, "Bob", "Eve")
	assert.Equal(t, 5, df.Len())

	_, err = compute.DropRows(df, []int{5})
	assert.ErrorIs(t, err, errors.ErrOutOfRange)

	require.NoError(t, compute.DropRowsInPlace(df, []int{0, 3, 2, 3}))
	assert.Equal(t, 2, df.Len())
	age, _ := df.Column("age")
	testutil.AssertValues(t, age, int64(30), int64(32))
}

func TestDropColumns(t *testing.T) {
	df := testutil.CreateTestDataFrame(t)

	out, err := compute.DropColumns(df, "age", "salary")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "department"}, out.Columns())
	assert.Equal(t, 4, df.Width())

	_, err = compute.DropColumns(df, "agee")
	assert.ErrorIs(t, err, errors.ErrNameNotFound)
}

func TestConcat(t *testing.T) {
	out, err := compute.Concat(testutil.Ints("a", 1, 2), testutil.Ints("b", 3))
	require.NoError(t, err)
	assert.Equal(t, "a", out.Name())
	testutil.AssertValues(t, out, 1, 2, 3)

	_, err = compute.Concat(testutil.Ints("a", 1), testutil.Strings("b", "x"))
	assert.ErrorIs(t, err, errors.ErrHomogeneity)

	empty, err := compute.Concat()
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestConcatFrames(t *testing.T) {
	df := testutil.CreateSimpleTestDataFrame(t)

	out, err := compute.ConcatFrames(df, df)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
	name, _ := out.Column("name")
	testutil.AssertValues(t, name, "Alice", "Bob", "Alice", "Bob")

	other := testutil.Frame(t, testutil.Strings("name", "C"), testutil.Ints("years", 1))
	_, err = compute.ConcatFrames(df, other)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	wide := testutil.CreateTestDataFrame(t)
	_, err = compute.ConcatFrames(df, wide)
	assert.ErrorIs(t, err, errors.ErrSizeMismatch)
}

func TestConcatColumns(t *testing.T) {
	left := testutil.Frame(t, testutil.Ints("a", 1, 2))
	right := testutil.Frame(t, testutil.Strings("b", "x", "y"))

	out, err := compute.ConcatColumns(left, right)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Columns())

	short := testutil.Frame(t, testutil.Ints("c", 1))
	_, err = compute.ConcatColumns(left, short)
	assert.ErrorIs(t, err, errors.ErrHomogeneity)

	_, err = compute.ConcatColumns(left, left)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestUnique(t *testing.T) {
	out, err := compute.Unique(testutil.Ints("n", 3, 1, 3, 2, 1))
	require.NoError(t, err)
	testutil.AssertValues(t, out, 3, 1, 2)

	words, err := compute.Unique(testutil.Strings("w", "b", "a", "b"))
	require.NoError(t, err)
	testutil.AssertValues(t, words, "b", "a")
}

func TestDropDuplicates(t *testing.T) {
	df := testutil.Frame(t,
		testutil.Ints("a", 1, 1, 2, 1),
		testutil.Strings("b", "x", "x", "y", "z"),
	)

	out, err := compute.DropDuplicates(df)
	require.NoError(t, err)
	b, _ := out.Column("b")
	testutil.AssertValues(t, b, "x", "y", "z")

	byA, err := compute.DropDuplicates(df, "a")
	require.NoError(t, err)
	a, _ := byA.Column("a")
	testutil.AssertValues(t, a, 1, 2)

	_, err = compute.DropDuplicates(df, "c")
	assert.ErrorIs(t, err, errors.ErrNameNotFound)
}

func ExampleTransform() {
	s := series.Of("n", []int{1, 2, 3})
	out, _ := compute.Transform(s, func(c cell.Cell) (cell.Cell, error) {
		return cell.Mul(c, c)
	})
	fmt.Println(out.Values())
	// Output: [1 4 9]
}
