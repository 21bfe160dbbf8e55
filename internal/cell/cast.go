package cell

import (
	"math"
	"strconv"
	"strings"

	"github.com/paveg/tabula/internal/errors"
)

// Cast converts c to the alternative named by to. Numeric conversions follow
// Go conversion semantics (integers wrap, floats truncate toward zero); NaN
// and infinities cannot become integers. Strings are parsed at the bit size of
// the target. The empty cell casts to the empty cell.
func Cast(c Cell, to Tag) (Cell, error) {
	if c.tag == None {
		return Cell{}, nil
	}
	if c.tag == to {
		return c, nil
	}
	res, ok := castValue(c, to)
	if !ok {
		return Cell{}, errors.NewBadCastError("Cast", c.TypeName(), to.String())
	}
	return res, nil
}

// implicitlyConvertible reports whether Set may convert a value of tag from
// into a cell already holding tag to.
func implicitlyConvertible(from, to Tag) bool {
	scalar := func(t Tag) bool { return t.IsNumeric() || t == Bool || t == Char }
	return scalar(from) && scalar(to)
}

func castValue(c Cell, to Tag) (Cell, bool) {
	switch {
	case to.IsSigned():
		v, ok := toInt64(c, to)
		return fromSigned(to, v), ok
	case to.IsUnsigned():
		v, ok := toUint64(c, to)
		return fromUnsigned(to, v), ok
	case to.IsFloat():
		v, ok := toFloat64(c, to)
		return fromFloat(to, v), ok
	case to == Bool:
		v, ok := toBool(c)
		return Of(v), ok
	case to == Char:
		v, ok := toChar(c)
		return Of(v), ok
	case to == String:
		if c.tag == Custom {
			if _, ok := c.obj.(Stringer); !ok {
				return Cell{}, false
			}
		}
		return Of(c.String()), true
	}
	return Cell{}, false
}

func toInt64(c Cell, to Tag) (int64, bool) {
	switch {
	case c.tag.IsSigned():
		return c.signed(), true
	case c.tag.IsUnsigned(), c.tag == Bool, c.tag == Char:
		return int64(c.bits), true
	case c.tag.IsFloat():
		f := c.float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	case c.tag == String:
		v, err := strconv.ParseInt(strings.TrimSpace(c.str), 10, to.Size()*8)
		return v, err == nil
	}
	return 0, false
}

func toUint64(c Cell, to Tag) (uint64, bool) {
	switch {
	case c.tag.IsSigned():
		return uint64(c.signed()), true
	case c.tag.IsUnsigned(), c.tag == Bool, c.tag == Char:
		return c.bits, true
	case c.tag.IsFloat():
		f := c.float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		if f < 0 {
			return uint64(int64(f)), true
		}
		return uint64(f), true
	case c.tag == String:
		v, err := strconv.ParseUint(strings.TrimSpace(c.str), 10, to.Size()*8)
		return v, err == nil
	}
	return 0, false
}

func toFloat64(c Cell, to Tag) (float64, bool) {
	switch {
	case c.tag.IsSigned():
		return float64(c.signed()), true
	case c.tag.IsUnsigned(), c.tag == Bool, c.tag == Char:
		return float64(c.bits), true
	case c.tag.IsFloat():
		return c.float(), true
	case c.tag == String:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.str), to.Size()*8)
		return v, err == nil
	}
	return 0, false
}

func toBool(c Cell) (bool, bool) {
	switch {
	case c.tag.IsInteger():
		return c.bits != 0, true
	case c.tag.IsFloat():
		return c.float() != 0, true
	case c.tag == String:
		v, err := strconv.ParseBool(strings.TrimSpace(c.str))
		return v, err == nil
	}
	return false, false
}

func toChar(c Cell) (CharValue, bool) {
	switch {
	case c.tag.IsSigned():
		v := c.signed()
		return CharValue(v), v >= 0 && v <= math.MaxUint8
	case c.tag.IsUnsigned():
		return CharValue(c.bits), c.bits <= math.MaxUint8
	case c.tag == String:
		if len(c.str) != 1 {
			return 0, false
		}
		return CharValue(c.str[0]), true
	}
	return 0, false
}
