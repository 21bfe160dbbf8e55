// Package slice describes strided index windows over series and frames.
package slice

import (
	"fmt"
	"math"

	"github.com/paveg/tabula/internal/errors"
)

// End is the sentinel last index meaning "through the end of the container".
// It is resolved to a concrete bound by Norm.
const End = math.MaxInt

// Slice is an inclusive strided index range {first, last, step}.
type Slice struct {
	first, last, step int
}

// Arg is one optional constructor argument of New.
type Arg struct {
	kind  argKind
	value int
}

type argKind uint8

const (
	argFirst argKind = iota
	argLast
	argStep
)

// First sets the first selected index.
func First(n int) Arg { return Arg{kind: argFirst, value: n} }

// Last sets the last selected index (inclusive).
func Last(n int) Arg { return Arg{kind: argLast, value: n} }

// Step sets the stride between selected indices.
func Step(n int) Arg { return Arg{kind: argStep, value: n} }

// All returns the default slice covering every element with step 1.
func All() Slice {
	return Slice{first: 0, last: End, step: 1}
}

// New builds a slice from optional tagged arguments given in any order.
// Omitted arguments keep their All() default. Negative values are rejected
// with OUT_OF_RANGE and a zero step with INVALID_INPUT.
func New(args ...Arg) (Slice, error) {
	s := All()
	for _, a := range args {
		if a.value < 0 {
			return Slice{}, errors.NewOutOfRangeError("Slice", fmt.Sprintf("negative bound %d", a.value))
		}
		switch a.kind {
		case argFirst:
			s.first = a.value
		case argLast:
			s.last = a.value
		case argStep:
			if a.value == 0 {
				return Slice{}, errors.NewInvalidInputError("Slice", "step must be non-zero")
			}
			s.step = a.value
		}
	}
	return s, nil
}

// Must is New for arguments known to be valid.
func Must(args ...Arg) Slice {
	s, err := New(args...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Slice) First() int { return s.first }
func (s Slice) Last() int  { return s.last }
func (s Slice) Step() int  { return s.step }

// IsDefault reports whether s is the All() slice.
func (s Slice) IsDefault() bool {
	return s == All()
}

// Size returns the number of selected indices. A slice still open to End
// reports End; Norm it against a length first for a real count.
func (s Slice) Size() int {
	if s.last < s.first {
		return 0
	}
	if s.last == End {
		return End
	}
	return (s.last-s.first)/s.step + 1
}

// At maps the i-th selected position to the underlying index.
func (s Slice) At(i int) int {
	return s.first + i*s.step
}

// Compose returns the slice selecting rhs's positions out of s, so that
// s.Compose(rhs).At(i) == s.At(rhs.At(i)).
func (s Slice) Compose(rhs Slice) Slice {
	out := Slice{
		first: s.first + rhs.first*s.step,
		step:  s.step * rhs.step,
		last:  s.last,
	}
	// rhs.last may be End; saturate instead of overflowing.
	if rhs.last <= (math.MaxInt-s.first)/s.step {
		out.last = min(s.last, s.first+rhs.last*s.step)
	}
	return out
}

func (s Slice) String() string {
	last := "end"
	if s.last != End {
		last = fmt.Sprint(s.last)
	}
	return fmt.Sprintf("[%d:%s:%d]", s.first, last, s.step)
}

// Norm resolves s against a container of the given length, clamping first
// and last to length-1. A zero length yields the degenerate {0,0,1}; callers
// check the container's emptiness before trusting its Size. A slice whose
// clamped first lies past its clamped last fails with OUT_OF_RANGE.
func Norm(s Slice, length int) (Slice, error) {
	if length <= 0 {
		return Slice{first: 0, last: 0, step: 1}, nil
	}
	if s.step == 0 {
		s.step = 1
	}
	out := Slice{
		first: min(s.first, length-1),
		last:  min(s.last, length-1),
		step:  s.step,
	}
	if out.first > out.last {
		return Slice{}, errors.NewOutOfRangeError("Norm",
			fmt.Sprintf("slice %s starts past the end of a container of length %d", s, length))
	}
	return out, nil
}
