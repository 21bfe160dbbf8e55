// Package errors provides standardized error types for series and frame operations.
// This package defines DataFrameError for consistent error handling across
// all public APIs, with an error kind, operation context and error wrapping support.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies a failure independently of the operation that produced it.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindEmptyOperand: one or both operands hold no value.
	KindEmptyOperand
	// KindTypeMismatch: operand tags disagree where equal tags are required.
	KindTypeMismatch
	// KindOperatorNotSupported: the active alternative lacks the operator.
	KindOperatorNotSupported
	// KindBadCast: a direct read asked for an alternative that is not active,
	// or a conversion between alternatives is impossible.
	KindBadCast
	// KindSizeMismatch: container operands have different lengths or shapes.
	KindSizeMismatch
	// KindOutOfRange: bounds-checked access outside the container.
	KindOutOfRange
	// KindHomogeneityViolation: an insert would break the shared type or row count.
	KindHomogeneityViolation
	// KindNameNotFound: column lookup by name failed.
	KindNameNotFound
	// KindDivisionByZero: integer division or modulo by zero.
	KindDivisionByZero
	// KindInvalidInput: malformed arguments that fit no other kind.
	KindInvalidInput
	// KindInternal: unexpected failure in a collaborator.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindEmptyOperand:
		return "EMPTY_OPERAND"
	case KindTypeMismatch:
		return "TYPE_MISMATCH"
	case KindOperatorNotSupported:
		return "OPERATOR_NOT_SUPPORTED"
	case KindBadCast:
		return "BAD_CAST"
	case KindSizeMismatch:
		return "SIZE_MISMATCH"
	case KindOutOfRange:
		return "OUT_OF_RANGE"
	case KindHomogeneityViolation:
		return "HOMOGENEITY_VIOLATION"
	case KindNameNotFound:
		return "NAME_NOT_FOUND"
	case KindDivisionByZero:
		return "DIVISION_BY_ZERO"
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// DataFrameError represents standardized errors across all operations
type DataFrameError struct {
	Kind    Kind   // Failure class
	Op      string // Operation name (e.g., "Add", "PushBack", "Slice")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
	Hint    string // Optional remediation hint
}

// Error implements the error interface
func (e *DataFrameError) Error() string {
	var msg string
	if e.Column != "" {
		msg = fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	} else {
		msg = fmt.Sprintf("%s operation failed: %s", e.Op, e.Message)
	}
	if e.Hint != "" {
		msg += " (Hint: " + e.Hint + ")"
	}
	return msg
}

// Unwrap returns the underlying cause for error wrapping support
func (e *DataFrameError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
//
// A target carrying only a Kind (the Err* sentinels below) matches every error
// of that kind; otherwise Op, Column and Message must all match.
func (e *DataFrameError) Is(target error) bool {
	df, ok := target.(*DataFrameError)
	if !ok {
		return false
	}
	if df.Op == "" && df.Column == "" && df.Message == "" {
		return df.Kind != KindUnknown && e.Kind == df.Kind
	}
	return e.Op == df.Op && e.Column == df.Column && e.Message == df.Message
}

// WithHint returns a copy of the error carrying a remediation hint.
func (e *DataFrameError) WithHint(hint string) *DataFrameError {
	cp := *e
	cp.Hint = hint
	return &cp
}

// WithColumn returns a copy of the error attributed to a column.
func (e *DataFrameError) WithColumn(column string) *DataFrameError {
	cp := *e
	cp.Column = column
	return &cp
}

// KindOf reports the Kind of the first DataFrameError in err's chain.
func KindOf(err error) Kind {
	var df *DataFrameError
	if stderrors.As(err, &df) {
		return df.Kind
	}
	return KindUnknown
}

// Sentinels for errors.Is matching by kind.
var (
	ErrEmptyOperand         = &DataFrameError{Kind: KindEmptyOperand}
	ErrTypeMismatch         = &DataFrameError{Kind: KindTypeMismatch}
	ErrOperatorNotSupported = &DataFrameError{Kind: KindOperatorNotSupported}
	ErrBadCast              = &DataFrameError{Kind: KindBadCast}
	ErrSizeMismatch         = &DataFrameError{Kind: KindSizeMismatch}
	ErrOutOfRange           = &DataFrameError{Kind: KindOutOfRange}
	ErrHomogeneity          = &DataFrameError{Kind: KindHomogeneityViolation}
	ErrNameNotFound         = &DataFrameError{Kind: KindNameNotFound}
	ErrDivisionByZero       = &DataFrameError{Kind: KindDivisionByZero}
	ErrInvalidInput         = &DataFrameError{Kind: KindInvalidInput}
)

// Common error constructors for consistent error creation

// NewEmptyOperandError creates an error for operators applied to empty cells
func NewEmptyOperandError(op string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindEmptyOperand,
		Op:      op,
		Message: "operand holds no value",
	}
}

// NewTypeMismatchError creates an error for operands or values of disagreeing types
func NewTypeMismatchError(op, expected, actual string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindTypeMismatch,
		Op:      op,
		Message: fmt.Sprintf("type mismatch: expected %s, got %s", expected, actual),
	}
}

// NewOperatorNotSupportedError creates an error for operators the active type lacks
func NewOperatorNotSupportedError(op, operator, typeName string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindOperatorNotSupported,
		Op:      op,
		Message: fmt.Sprintf("operator %s not supported for type %s", operator, typeName),
	}
}

// NewBadCastError creates an error for reads or conversions to the wrong alternative
func NewBadCastError(op, from, to string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindBadCast,
		Op:      op,
		Message: fmt.Sprintf("cannot cast %s to %s", from, to),
	}
}

// NewSizeMismatchError creates an error for length or shape disagreements
func NewSizeMismatchError(op string, expected, actual int) *DataFrameError {
	return &DataFrameError{
		Kind:    KindSizeMismatch,
		Op:      op,
		Message: fmt.Sprintf("size mismatch: expected %d, got %d", expected, actual),
	}
}

// NewIndexOutOfBoundsError creates an error for bounds-checked access
func NewIndexOutOfBoundsError(op string, index, length int) *DataFrameError {
	return &DataFrameError{
		Kind:    KindOutOfRange,
		Op:      op,
		Message: fmt.Sprintf("index %d out of bounds [0, %d)", index, length),
	}
}

// NewOutOfRangeError creates an out-of-range error with a free-form message
func NewOutOfRangeError(op, message string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindOutOfRange,
		Op:      op,
		Message: message,
	}
}

// NewHomogeneityError creates an error for inserts that would break the column type
func NewHomogeneityError(op, column, expected, actual string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindHomogeneityViolation,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("column holds %s, cannot store %s", expected, actual),
	}
}

// NewRowCountError creates an error for columns whose length disagrees with the frame
func NewRowCountError(op, column string, expected, actual int) *DataFrameError {
	return &DataFrameError{
		Kind:    KindHomogeneityViolation,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("column has %d rows, frame has %d", actual, expected),
	}
}

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindNameNotFound,
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewColumnNotFoundErrorWithSuggestions adds the closest available name as a hint
func NewColumnNotFoundErrorWithSuggestions(op, column string, available []string) *DataFrameError {
	err := NewColumnNotFoundError(op, column)
	if best := closestName(column, available); best != "" {
		return err.WithHint(fmt.Sprintf("did you mean '%s'? available columns: [%s]",
			best, strings.Join(available, ", ")))
	}
	if len(available) > 0 {
		return err.WithHint(fmt.Sprintf("available columns: [%s]", strings.Join(available, ", ")))
	}
	return err
}

// NewDivisionByZeroError creates an error for integer division by zero
func NewDivisionByZeroError(op string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindDivisionByZero,
		Op:      op,
		Message: "integer division by zero",
	}
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindInvalidInput,
		Op:      op,
		Message: message,
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *DataFrameError {
	return &DataFrameError{
		Kind:    KindInternal,
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// NewElementwiseError summarizes failed elements of a bulk operation.
// The kind of the first failure becomes the kind of the summary.
func NewElementwiseError(op string, failed, total int, first error) *DataFrameError {
	return &DataFrameError{
		Kind:    KindOf(first),
		Op:      op,
		Message: fmt.Sprintf("%d of %d elements failed", failed, total),
		Cause:   first,
	}
}

// closestName returns the candidate with the smallest edit distance to name,
// provided that distance is at most a third of the name's length.
func closestName(name string, candidates []string) string {
	best, bestDist := "", len(name)/3+1
	for _, c := range candidates {
		if d := levenshtein(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
