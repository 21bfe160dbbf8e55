// Package cell provides the tagged scalar value stored in every series slot.
//
// A Cell holds exactly one alternative of a closed set (fixed-width integers,
// floats, bool, char, string), a user-defined value, or nothing at all. The
// active alternative is identified by its Tag; the payload is only ever read
// through that alternative. Operators are free functions that succeed only when
// both operands share a tag and that tag supports the operator; failures come
// back as error values so that bulk container operations can aggregate them.
package cell

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paveg/tabula/internal/errors"
)

// Cell is a tagged union over the supported alternatives. The zero value is
// the empty cell.
type Cell struct {
	tag  Tag
	bits uint64    // every fixed-width alternative
	str  string    // String
	obj  UserValue // Custom
}

// Of builds a cell from a primitive Go value.
func Of[T Primitive](v T) Cell {
	c, _ := New(v)
	return c
}

// Empty returns the empty cell.
func Empty() Cell {
	return Cell{}
}

// User wraps a user-defined value in a cell.
func User(v UserValue) Cell {
	if v == nil {
		return Cell{}
	}
	return Cell{tag: Custom, obj: v}
}

// New builds a cell from any supported Go value. nil yields the empty cell and
// an existing Cell is passed through unchanged.
func New(v any) (Cell, error) {
	switch x := v.(type) {
	case nil:
		return Cell{}, nil
	case Cell:
		return x, nil
	case *Cell:
		if x == nil {
			return Cell{}, nil
		}
		return *x, nil
	case int8:
		return Cell{tag: Int8, bits: uint64(x)}, nil
	case int16:
		return Cell{tag: Int16, bits: uint64(x)}, nil
	case int32:
		return Cell{tag: Int32, bits: uint64(x)}, nil
	case int64:
		return Cell{tag: Int64, bits: uint64(x)}, nil
	case int:
		return Cell{tag: Int64, bits: uint64(int64(x))}, nil
	case uint8:
		return Cell{tag: Uint8, bits: uint64(x)}, nil
	case uint16:
		return Cell{tag: Uint16, bits: uint64(x)}, nil
	case uint32:
		return Cell{tag: Uint32, bits: uint64(x)}, nil
	case uint64:
		return Cell{tag: Uint64, bits: x}, nil
	case uint:
		return Cell{tag: Uint64, bits: uint64(x)}, nil
	case float32:
		return Cell{tag: Float32, bits: uint64(math.Float32bits(x))}, nil
	case float64:
		return Cell{tag: Float64, bits: math.Float64bits(x)}, nil
	case bool:
		return Cell{tag: Bool, bits: boolBits(x)}, nil
	case CharValue:
		return Cell{tag: Char, bits: uint64(x)}, nil
	case string:
		return Cell{tag: String, str: x}, nil
	case UserValue:
		return User(x), nil
	default:
		return Cell{}, errors.NewTypeMismatchError("New", "a supported cell value", fmt.Sprintf("%T", v))
	}
}

// Zero returns the zero value of the given alternative. Tags without a zero
// value (None, Custom, Unconstrained) yield the empty cell.
func Zero(t Tag) Cell {
	switch {
	case t.IsNumeric(), t == Bool, t == Char:
		return Cell{tag: t}
	case t == String:
		return Cell{tag: String}
	default:
		return Cell{}
	}
}

// Tag returns the active alternative.
func (c Cell) Tag() Tag {
	return c.tag
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.tag == None
}

// Value returns the active alternative as a concretely typed Go value, or nil
// for the empty cell.
func (c Cell) Value() any {
	switch c.tag {
	case Int8:
		return int8(c.bits)
	case Int16:
		return int16(c.bits)
	case Int32:
		return int32(c.bits)
	case Int64:
		return int64(c.bits)
	case Uint8:
		return uint8(c.bits)
	case Uint16:
		return uint16(c.bits)
	case Uint32:
		return uint32(c.bits)
	case Uint64:
		return c.bits
	case Float32:
		return math.Float32frombits(uint32(c.bits))
	case Float64:
		return math.Float64frombits(c.bits)
	case Bool:
		return c.bits != 0
	case Char:
		return CharValue(c.bits)
	case String:
		return c.str
	case Custom:
		return c.obj
	default:
		return nil
	}
}

// Visit calls fn with the concretely typed active alternative. The empty
// cell is visited with nil.
func Visit(c Cell, fn func(v any) error) error {
	return fn(c.Value())
}

// Holds reports whether the cell's active alternative is the one T maps to.
func Holds[T Primitive](c Cell) bool {
	return c.tag == TagOf[T]()
}

// As reads the cell as T. It fails with BAD_CAST when another alternative is
// active and with EMPTY_OPERAND when the cell is empty.
func As[T Primitive](c Cell) (T, error) {
	var zero T
	if c.tag == None {
		return zero, errors.NewEmptyOperandError("As")
	}
	want := TagOf[T]()
	if c.tag != want {
		return zero, errors.NewBadCastError("As", c.tag.String(), want.String())
	}
	switch p := any(&zero).(type) {
	case *int:
		*p = int(int64(c.bits))
		return zero, nil
	case *uint:
		*p = uint(c.bits)
		return zero, nil
	}
	return c.Value().(T), nil
}

// MustAs is As for callers that have already checked the tag.
func MustAs[T Primitive](c Cell) T {
	v, err := As[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// AsUser returns the user value of a Custom cell.
func AsUser(c Cell) (UserValue, error) {
	if c.tag == None {
		return nil, errors.NewEmptyOperandError("AsUser")
	}
	if c.tag != Custom {
		return nil, errors.NewBadCastError("AsUser", c.tag.String(), Custom.String())
	}
	return c.obj, nil
}

// TypeName returns the name of the active alternative; user values report
// their own type name.
func (c Cell) TypeName() string {
	if c.tag == Custom {
		return c.obj.TypeName()
	}
	return c.tag.String()
}

// Set assigns v to the cell. When the cell already holds a concrete value and
// v has a different natural type, v is implicitly converted to the held type;
// if no implicit conversion exists the cell is left unchanged and a
// TYPE_MISMATCH error is returned. Assigning nil empties the cell.
func (c *Cell) Set(v any) error {
	nc, err := New(v)
	if err != nil {
		return err
	}
	if c.tag == None || nc.tag == None || nc.tag == c.tag {
		*c = nc
		return nil
	}
	if !implicitlyConvertible(nc.tag, c.tag) {
		return errors.NewTypeMismatchError("Set", c.TypeName(), nc.TypeName())
	}
	conv, err := Cast(nc, c.tag)
	if err != nil {
		return errors.NewTypeMismatchError("Set", c.TypeName(), nc.TypeName())
	}
	*c = conv
	return nil
}

// Clone returns a deep copy; user values are copied through their Clone method.
func (c Cell) Clone() Cell {
	if c.tag == Custom {
		c.obj = c.obj.Clone()
	}
	return c
}

// String renders the active value, or "none" for the empty cell.
func (c Cell) String() string {
	switch {
	case c.tag == None:
		return "none"
	case c.tag.IsSigned():
		return strconv.FormatInt(c.signed(), 10)
	case c.tag.IsUnsigned():
		return strconv.FormatUint(c.bits, 10)
	case c.tag == Float32:
		return strconv.FormatFloat(c.float(), 'g', -1, 32)
	case c.tag == Float64:
		return strconv.FormatFloat(c.float(), 'g', -1, 64)
	case c.tag == Bool:
		return strconv.FormatBool(c.bits != 0)
	case c.tag == Char:
		return string([]byte{byte(c.bits)})
	case c.tag == String:
		return c.str
	case c.tag == Custom:
		if s, ok := c.obj.(Stringer); ok {
			return s.String()
		}
		return c.obj.TypeName()
	default:
		return fmt.Sprintf("invalid(%d)", uint8(c.tag))
	}
}

// GoString makes %#v output readable in test failures.
func (c Cell) GoString() string {
	if c.tag == String {
		return fmt.Sprintf("cell.String(%q)", c.str)
	}
	return fmt.Sprintf("cell.%s(%s)", c.tag, c.String())
}

// signed returns a signed payload sign-extended from its width.
func (c Cell) signed() int64 {
	switch c.tag {
	case Int8:
		return int64(int8(c.bits))
	case Int16:
		return int64(int16(c.bits))
	case Int32:
		return int64(int32(c.bits))
	default:
		return int64(c.bits)
	}
}

func (c Cell) float() float64 {
	if c.tag == Float32 {
		return float64(math.Float32frombits(uint32(c.bits)))
	}
	return math.Float64frombits(c.bits)
}

func boolBits(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// fromSigned narrows v to the width of tag t.
func fromSigned(t Tag, v int64) Cell {
	switch t {
	case Int8:
		return Of(int8(v))
	case Int16:
		return Of(int16(v))
	case Int32:
		return Of(int32(v))
	default:
		return Of(v)
	}
}

// fromUnsigned narrows v to the width of tag t.
func fromUnsigned(t Tag, v uint64) Cell {
	switch t {
	case Uint8:
		return Of(uint8(v))
	case Uint16:
		return Of(uint16(v))
	case Uint32:
		return Of(uint32(v))
	default:
		return Of(v)
	}
}

func fromFloat(t Tag, v float64) Cell {
	if t == Float32 {
		return Of(float32(v))
	}
	return Of(v)
}
