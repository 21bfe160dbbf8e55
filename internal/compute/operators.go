package compute

import (
	"fmt"
	"slices"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/validation"
)

// Binary applies op to the elements of a and b pairwise. Both must have the
// same length. The result is named after a.
func Binary(op cell.BinaryOp, a, b Reader) (*series.Series, error) {
	if err := validation.ValidateLength(a.Len(), b.Len(), op.Name()); err != nil {
		return nil, err
	}
	cells, err := mapCells(op.Name(), a.Len(), func(i int) (cell.Cell, error) {
		return cell.Binary(op, a.Get(i), b.Get(i))
	})
	if err != nil {
		return nil, err
	}
	return build(nameOf(a), cells, cell.Unconstrained)
}

// BinaryScalar applies op to every element of a and the scalar c.
func BinaryScalar(op cell.BinaryOp, a Reader, c cell.Cell) (*series.Series, error) {
	cells, err := mapCells(op.Name(), a.Len(), func(i int) (cell.Cell, error) {
		return cell.Binary(op, a.Get(i), c)
	})
	if err != nil {
		return nil, err
	}
	return build(nameOf(a), cells, cell.Unconstrained)
}

// Unary applies op to every element of a.
func Unary(op cell.UnaryOp, a Reader) (*series.Series, error) {
	cells, err := mapCells(op.Name(), a.Len(), func(i int) (cell.Cell, error) {
		return cell.Unary(op, a.Get(i))
	})
	if err != nil {
		return nil, err
	}
	return build(nameOf(a), cells, cell.Unconstrained)
}

// Named elementwise operators over two readers of equal length, each
// equivalent to Binary with the matching op.
func Add(a, b Reader) (*series.Series, error) { return Binary(cell.OpAdd, a, b) }
func Sub(a, b Reader) (*series.Series, error) { return Binary(cell.OpSub, a, b) }
func Mul(a, b Reader) (*series.Series, error) { return Binary(cell.OpMul, a, b) }
func Div(a, b Reader) (*series.Series, error) { return Binary(cell.OpDiv, a, b) }
func Mod(a, b Reader) (*series.Series, error) { return Binary(cell.OpMod, a, b) }
func Eq(a, b Reader) (*series.Series, error)  { return Binary(cell.OpEq, a, b) }
func Ne(a, b Reader) (*series.Series, error)  { return Binary(cell.OpNe, a, b) }
func Lt(a, b Reader) (*series.Series, error)  { return Binary(cell.OpLt, a, b) }
func Le(a, b Reader) (*series.Series, error)  { return Binary(cell.OpLe, a, b) }
func Gt(a, b Reader) (*series.Series, error)  { return Binary(cell.OpGt, a, b) }
func Ge(a, b Reader) (*series.Series, error)  { return Binary(cell.OpGe, a, b) }

// FrameBinary applies op column by column to two frames of equal shape and
// column names.
func FrameBinary(op cell.BinaryOp, a, b Frame) (*dataframe.DataFrame, error) {
	if a.Width() != b.Width() {
		return nil, errors.NewSizeMismatchError(op.Name(), a.Width(), b.Width()).
			WithHint("frames must have the same number of columns")
	}
	if a.Len() != b.Len() {
		return nil, errors.NewSizeMismatchError(op.Name(), a.Len(), b.Len()).
			WithHint("frames must have the same number of rows")
	}
	if !slices.Equal(a.Columns(), b.Columns()) {
		return nil, errors.NewInvalidInputError(op.Name(),
			fmt.Sprintf("column names differ: %v vs %v", a.Columns(), b.Columns()))
	}

	left, right := columns(a), columns(b)
	out := make([]*series.Series, len(left))
	for k := range left {
		s, err := Binary(op, left[k], right[k])
		if err != nil {
			return nil, withColumn(err, left[k].Name())
		}
		out[k] = s
	}
	return assemble(out)
}
