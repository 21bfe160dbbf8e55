package cell

import (
	"cmp"
	stderrors "errors"
	"strings"

	"github.com/paveg/tabula/internal/errors"
	"golang.org/x/exp/constraints"
)

// BinaryOp represents binary operations
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpAnd
	OpOr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// String returns the operator symbol.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	case OpShl:
		return "<<"
	case OpShr:
		return ">>"
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// Name returns the operation name used in error reports.
func (op BinaryOp) Name() string {
	names := [...]string{
		"Add", "Sub", "Mul", "Div", "Mod", "BitAnd", "BitOr", "BitXor", "Shl", "Shr",
		"And", "Or", "Eq", "Ne", "Lt", "Le", "Gt", "Ge",
	}
	if op < 0 || int(op) >= len(names) {
		return "Binary"
	}
	return names[op]
}

// IsComparison reports whether the operator yields a Bool ordering result.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// UnaryOp represents unary operations
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryBitNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryBitNot:
		return "^"
	default:
		return "?"
	}
}

// Name returns the operation name used in error reports.
func (op UnaryOp) Name() string {
	switch op {
	case UnaryNeg:
		return "Neg"
	case UnaryNot:
		return "Not"
	case UnaryBitNot:
		return "BitNot"
	default:
		return "Unary"
	}
}

// errNoOperator marks a kernel branch without the requested operator; callers
// translate it into OPERATOR_NOT_SUPPORTED with the operand's type name.
var errNoOperator = stderrors.New("operator not available")

// errDivZero marks integer division or modulo by zero.
var errDivZero = stderrors.New("division by zero")

// Binary applies op to two cells. Both must be non-empty and hold the same
// alternative, and that alternative must support op. Comparison operators
// return Bool cells; == and != on mismatched alternatives report "not equal"
// instead of failing.
func Binary(op BinaryOp, a, b Cell) (Cell, error) {
	if op == OpEq || op == OpNe {
		eq := Equal(a, b)
		if op == OpNe {
			eq = !eq
		}
		return Of(eq), nil
	}
	if a.tag == None || b.tag == None {
		return Cell{}, errors.NewEmptyOperandError(op.Name())
	}
	if a.tag != b.tag {
		return Cell{}, errors.NewTypeMismatchError(op.Name(), a.TypeName(), b.TypeName())
	}
	if a.tag == Custom && !sameUserType(a.obj, b.obj) {
		return Cell{}, errors.NewTypeMismatchError(op.Name(), a.TypeName(), b.TypeName())
	}

	var (
		res Cell
		err error
	)
	switch {
	case op.IsComparison():
		res, err = compareOp(op, a, b)
	case op == OpAnd || op == OpOr:
		res, err = logicalOp(op, a, b)
	default:
		res, err = arithmeticOp(op, a, b)
	}
	if err != nil {
		return Cell{}, translate(op.Name(), op.String(), a, err)
	}
	return res, nil
}

// Unary applies a unary operator to a non-empty cell.
func Unary(op UnaryOp, c Cell) (Cell, error) {
	if c.tag == None {
		return Cell{}, errors.NewEmptyOperandError(op.Name())
	}
	res, err := unaryOp(op, c)
	if err != nil {
		return Cell{}, translate(op.Name(), op.String(), c, err)
	}
	return res, nil
}

func translate(name, symbol string, c Cell, err error) error {
	switch {
	case stderrors.Is(err, errNoOperator):
		return errors.NewOperatorNotSupportedError(name, symbol, c.TypeName())
	case stderrors.Is(err, errDivZero):
		return errors.NewDivisionByZeroError(name)
	default:
		return err
	}
}

// Named binary operators, each equivalent to Binary with the matching op.
func Add(a, b Cell) (Cell, error)    { return Binary(OpAdd, a, b) }
func Sub(a, b Cell) (Cell, error)    { return Binary(OpSub, a, b) }
func Mul(a, b Cell) (Cell, error)    { return Binary(OpMul, a, b) }
func Div(a, b Cell) (Cell, error)    { return Binary(OpDiv, a, b) }
func Mod(a, b Cell) (Cell, error)    { return Binary(OpMod, a, b) }
func BitAnd(a, b Cell) (Cell, error) { return Binary(OpBitAnd, a, b) }
func BitOr(a, b Cell) (Cell, error)  { return Binary(OpBitOr, a, b) }
func BitXor(a, b Cell) (Cell, error) { return Binary(OpBitXor, a, b) }
func Shl(a, b Cell) (Cell, error)    { return Binary(OpShl, a, b) }
func Shr(a, b Cell) (Cell, error)    { return Binary(OpShr, a, b) }
func And(a, b Cell) (Cell, error)    { return Binary(OpAnd, a, b) }
func Or(a, b Cell) (Cell, error)     { return Binary(OpOr, a, b) }
func Eq(a, b Cell) (Cell, error)     { return Binary(OpEq, a, b) }
func Ne(a, b Cell) (Cell, error)     { return Binary(OpNe, a, b) }
func Lt(a, b Cell) (Cell, error)     { return Binary(OpLt, a, b) }
func Le(a, b Cell) (Cell, error)     { return Binary(OpLe, a, b) }
func Gt(a, b Cell) (Cell, error)     { return Binary(OpGt, a, b) }
func Ge(a, b Cell) (Cell, error)     { return Binary(OpGe, a, b) }

// Named unary operators, each equivalent to Unary with the matching op.
func Neg(c Cell) (Cell, error)    { return Unary(UnaryNeg, c) }
func Not(c Cell) (Cell, error)    { return Unary(UnaryNot, c) }
func BitNot(c Cell) (Cell, error) { return Unary(UnaryBitNot, c) }

// Equal reports whether two cells hold the same alternative and value. It
// never fails: cells of different alternatives are simply not equal, and two
// empty cells are equal. Floats compare by value, so NaN is never equal.
func Equal(a, b Cell) bool {
	if a.tag != b.tag {
		return false
	}
	switch {
	case a.tag == None:
		return true
	case a.tag.IsFloat():
		return a.float() == b.float()
	case a.tag == String:
		return a.str == b.str
	case a.tag == Custom:
		return sameUserType(a.obj, b.obj) && a.obj.Equal(b.obj)
	default:
		return a.bits == b.bits
	}
}

// Compare orders two cells of the same alternative, returning -1, 0 or +1.
// Cells of different alternatives cannot be ordered and yield TYPE_MISMATCH.
// Floats follow cmp.Compare, which places NaN before every number; the
// Lt, Le, Gt and Ge operators use the native float comparison instead.
func Compare(a, b Cell) (int, error) {
	if a.tag != b.tag {
		return 0, errors.NewTypeMismatchError("Compare", a.TypeName(), b.TypeName())
	}
	switch {
	case a.tag == None:
		return 0, nil
	case a.tag.IsSigned():
		return cmp.Compare(a.signed(), b.signed()), nil
	case a.tag.IsUnsigned(), a.tag == Bool, a.tag == Char:
		return cmp.Compare(a.bits, b.bits), nil
	case a.tag.IsFloat():
		return cmp.Compare(a.float(), b.float()), nil
	case a.tag == String:
		return strings.Compare(a.str, b.str), nil
	case a.tag == Custom:
		if !sameUserType(a.obj, b.obj) {
			return 0, errors.NewTypeMismatchError("Compare", a.TypeName(), b.TypeName())
		}
		if a.obj.Equal(b.obj) {
			return 0, nil
		}
		l, ok := a.obj.(Lesser)
		if !ok {
			return 0, errors.NewOperatorNotSupportedError("Compare", "<", a.TypeName())
		}
		if l.Less(b.obj) {
			return -1, nil
		}
		return 1, nil
	}
	return 0, errors.NewOperatorNotSupportedError("Compare", "<", a.TypeName())
}

// Less is a total order over all cells usable for sorting heterogeneous data:
// cells order by tag first and by value within a tag. Unorderable pairs are
// reported as not less.
func Less(a, b Cell) bool {
	if a.tag != b.tag {
		return a.tag < b.tag
	}
	c, err := Compare(a, b)
	return err == nil && c < 0
}

func compareOp(op BinaryOp, a, b Cell) (Cell, error) {
	if a.tag == b.tag && a.tag.IsFloat() {
		return floatCompareOp(op, a.float(), b.float()), nil
	}
	c, err := Compare(a, b)
	if err != nil {
		return Cell{}, err
	}
	switch op {
	case OpLt:
		return Of(c < 0), nil
	case OpLe:
		return Of(c <= 0), nil
	case OpGt:
		return Of(c > 0), nil
	default:
		return Of(c >= 0), nil
	}
}

// floatCompareOp applies the native float operators, so any comparison
// involving NaN is false.
func floatCompareOp(op BinaryOp, x, y float64) Cell {
	switch op {
	case OpLt:
		return Of(x < y)
	case OpLe:
		return Of(x <= y)
	case OpGt:
		return Of(x > y)
	default:
		return Of(x >= y)
	}
}

// truthy interprets numeric and bool cells as conditions.
func truthy(c Cell) (bool, bool) {
	switch {
	case c.tag == Bool, c.tag.IsInteger():
		return c.bits != 0, true
	case c.tag.IsFloat():
		return c.float() != 0, true
	default:
		return false, false
	}
}

func logicalOp(op BinaryOp, a, b Cell) (Cell, error) {
	l, ok := truthy(a)
	if !ok {
		return Cell{}, errNoOperator
	}
	r, _ := truthy(b)
	if op == OpAnd {
		return Of(l && r), nil
	}
	return Of(l || r), nil
}

func arithmeticOp(op BinaryOp, a, b Cell) (Cell, error) {
	switch a.tag {
	case Int8:
		return integerCell(op, int8(a.bits), int8(b.bits))
	case Int16:
		return integerCell(op, int16(a.bits), int16(b.bits))
	case Int32:
		return integerCell(op, int32(a.bits), int32(b.bits))
	case Int64:
		return integerCell(op, int64(a.bits), int64(b.bits))
	case Uint8:
		return integerCell(op, uint8(a.bits), uint8(b.bits))
	case Uint16:
		return integerCell(op, uint16(a.bits), uint16(b.bits))
	case Uint32:
		return integerCell(op, uint32(a.bits), uint32(b.bits))
	case Uint64:
		return integerCell(op, a.bits, b.bits)
	case Float32:
		return floatCell(op, float32(a.float()), float32(b.float()))
	case Float64:
		return floatCell(op, a.float(), b.float())
	case Bool:
		return boolArithmetic(op, a.bits != 0, b.bits != 0)
	case Char:
		return charArithmetic(op, CharValue(a.bits), CharValue(b.bits))
	case String:
		if op == OpAdd {
			return Of(a.str + b.str), nil
		}
		return Cell{}, errNoOperator
	case Custom:
		return userArithmetic(op, a.obj, b.obj)
	}
	return Cell{}, errNoOperator
}

func integerCell[T constraints.Integer](op BinaryOp, l, r T) (Cell, error) {
	v, err := integerKernel(op, l, r)
	if err != nil {
		return Cell{}, err
	}
	return New(v)
}

func floatCell[T constraints.Float](op BinaryOp, l, r T) (Cell, error) {
	v, err := floatKernel(op, l, r)
	if err != nil {
		return Cell{}, err
	}
	return New(v)
}

func integerKernel[T constraints.Integer](op BinaryOp, l, r T) (T, error) {
	switch op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		if r == 0 {
			return 0, errDivZero
		}
		return l / r, nil
	case OpMod:
		if r == 0 {
			return 0, errDivZero
		}
		return l % r, nil
	case OpBitAnd:
		return l & r, nil
	case OpBitOr:
		return l | r, nil
	case OpBitXor:
		return l ^ r, nil
	case OpShl:
		if r < 0 {
			return 0, errors.NewInvalidInputError("Shl", "negative shift count")
		}
		return l << r, nil
	case OpShr:
		if r < 0 {
			return 0, errors.NewInvalidInputError("Shr", "negative shift count")
		}
		return l >> r, nil
	}
	return 0, errNoOperator
}

func floatKernel[T constraints.Float](op BinaryOp, l, r T) (T, error) {
	switch op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		return l / r, nil
	}
	return 0, errNoOperator
}

func boolArithmetic(op BinaryOp, l, r bool) (Cell, error) {
	switch op {
	case OpBitAnd:
		return Of(l && r), nil
	case OpBitOr:
		return Of(l || r), nil
	case OpBitXor:
		return Of(l != r), nil
	}
	return Cell{}, errNoOperator
}

func charArithmetic(op BinaryOp, l, r CharValue) (Cell, error) {
	switch op {
	case OpAdd:
		return Of(l + r), nil
	case OpSub:
		return Of(l - r), nil
	}
	return Cell{}, errNoOperator
}

func userArithmetic(op BinaryOp, l, r UserValue) (Cell, error) {
	var (
		v   UserValue
		err error
	)
	switch op {
	case OpAdd:
		a, ok := l.(Adder)
		if !ok {
			return Cell{}, errNoOperator
		}
		v, err = a.Add(r)
	case OpSub:
		s, ok := l.(Subtractor)
		if !ok {
			return Cell{}, errNoOperator
		}
		v, err = s.Sub(r)
	case OpMul:
		m, ok := l.(Multiplier)
		if !ok {
			return Cell{}, errNoOperator
		}
		v, err = m.Mul(r)
	case OpDiv:
		d, ok := l.(Divider)
		if !ok {
			return Cell{}, errNoOperator
		}
		v, err = d.Div(r)
	default:
		return Cell{}, errNoOperator
	}
	if err != nil {
		return Cell{}, err
	}
	return User(v), nil
}

func unaryOp(op UnaryOp, c Cell) (Cell, error) {
	switch op {
	case UnaryNeg:
		switch {
		case c.tag.IsSigned():
			return fromSigned(c.tag, -c.signed()), nil
		case c.tag.IsFloat():
			return fromFloat(c.tag, -c.float()), nil
		case c.tag == Custom:
			n, ok := c.obj.(Negator)
			if !ok {
				return Cell{}, errNoOperator
			}
			v, err := n.Neg()
			if err != nil {
				return Cell{}, err
			}
			return User(v), nil
		}
	case UnaryNot:
		if t, ok := truthy(c); ok {
			return Of(!t), nil
		}
	case UnaryBitNot:
		switch {
		case c.tag.IsSigned():
			return fromSigned(c.tag, ^c.signed()), nil
		case c.tag.IsUnsigned():
			return fromUnsigned(c.tag, ^c.bits), nil
		}
	}
	return Cell{}, errNoOperator
}
