package cell

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// Tag identifies the alternative a Cell currently holds.
type Tag uint8

const (
	None Tag = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Bool
	Float32
	Float64
	Char
	String
	Custom

	// Unconstrained is the reserved sentinel a container uses while it has
	// no element type yet. No Cell ever carries it.
	Unconstrained Tag = 0xFF
)

// CharValue is the payload type of the Char alternative. It is a distinct
// named type so that a Char never collides with uint8 in a type switch.
type CharValue byte

// Primitive lists the Go types that map directly onto a built-in alternative.
// int and uint are stored as Int64 and Uint64.
type Primitive interface {
	int8 | int16 | int32 | int64 | int |
		uint8 | uint16 | uint32 | uint64 | uint |
		float32 | float64 | bool | string | CharValue
}

// String returns the type name of the tag (type_to_string).
func (t Tag) String() string {
	switch t {
	case None:
		return "none"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Bool:
		return "bool"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Char:
		return "char"
	case String:
		return "string"
	case Custom:
		return "custom"
	case Unconstrained:
		return "unconstrained"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParseTag maps a type name produced by Tag.String back to its tag.
func ParseTag(name string) (Tag, bool) {
	for t := None; t <= Custom; t++ {
		if t.String() == name {
			return t, true
		}
	}
	switch name {
	case "int":
		return Int64, true
	case "uint":
		return Uint64, true
	case "float", "double":
		return Float64, true
	}
	return None, false
}

// IsSigned reports whether the tag is a signed integer.
func (t Tag) IsSigned() bool {
	return t >= Int8 && t <= Int64
}

// IsUnsigned reports whether the tag is an unsigned integer.
func (t Tag) IsUnsigned() bool {
	return t >= Uint8 && t <= Uint64
}

// IsInteger reports whether the tag is a signed or unsigned integer.
func (t Tag) IsInteger() bool {
	return t.IsSigned() || t.IsUnsigned()
}

// IsFloat reports whether the tag is a floating point type.
func (t Tag) IsFloat() bool {
	return t == Float32 || t == Float64
}

// IsNumeric reports whether the tag is an integer or float.
func (t Tag) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// IsConcrete reports whether the tag names a value-holding alternative.
func (t Tag) IsConcrete() bool {
	return t > None && t <= Custom
}

// Size returns the payload width in bytes, or -1 for variable-size alternatives.
func (t Tag) Size() int {
	switch t {
	case Int8, Uint8, Bool, Char:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	case String, Custom:
		return -1
	default:
		return 0
	}
}

// ArrowType returns the Arrow data type for the tag. Custom and the
// sentinel tags have no Arrow equivalent and map to the null type.
func (t Tag) ArrowType() arrow.DataType {
	switch t {
	case Int8:
		return arrow.PrimitiveTypes.Int8
	case Int16:
		return arrow.PrimitiveTypes.Int16
	case Int32:
		return arrow.PrimitiveTypes.Int32
	case Int64:
		return arrow.PrimitiveTypes.Int64
	case Uint8:
		return arrow.PrimitiveTypes.Uint8
	case Uint16:
		return arrow.PrimitiveTypes.Uint16
	case Uint32:
		return arrow.PrimitiveTypes.Uint32
	case Uint64:
		return arrow.PrimitiveTypes.Uint64
	case Float32:
		return arrow.PrimitiveTypes.Float32
	case Float64:
		return arrow.PrimitiveTypes.Float64
	case Bool:
		return arrow.FixedWidthTypes.Boolean
	case Char:
		return arrow.BinaryTypes.String
	case String:
		return arrow.BinaryTypes.String
	default:
		return arrow.Null
	}
}

// TagFromArrow maps an Arrow type ID to the matching tag.
func TagFromArrow(dt arrow.DataType) (Tag, bool) {
	switch dt.ID() {
	case arrow.INT8:
		return Int8, true
	case arrow.INT16:
		return Int16, true
	case arrow.INT32:
		return Int32, true
	case arrow.INT64:
		return Int64, true
	case arrow.UINT8:
		return Uint8, true
	case arrow.UINT16:
		return Uint16, true
	case arrow.UINT32:
		return Uint32, true
	case arrow.UINT64:
		return Uint64, true
	case arrow.FLOAT32:
		return Float32, true
	case arrow.FLOAT64:
		return Float64, true
	case arrow.BOOL:
		return Bool, true
	case arrow.STRING, arrow.LARGE_STRING:
		return String, true
	case arrow.NULL:
		return None, true
	default:
		return None, false
	}
}

// TagOf returns the tag a value of type T is stored under (type_index).
func TagOf[T Primitive]() Tag {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64, int:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64, uint:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	case bool:
		return Bool
	case string:
		return String
	case CharValue:
		return Char
	}
	return None
}
