// Package validation provides reusable argument checks for frame and series
// operations. Each validator reports failures with the matching error kind
// from internal/errors so callers can return its error unchanged.
package validation

import (
	"slices"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// ColumnProvider is anything with named columns and a row count.
type ColumnProvider interface {
	Columns() []string
	Len() int
}

// ColumnValidator validates column existence
type ColumnValidator struct {
	df      ColumnProvider
	columns []string
	op      string
}

// NewColumnValidator creates a validator for column operations
func NewColumnValidator(df ColumnProvider, op string, columns ...string) *ColumnValidator {
	return &ColumnValidator{
		df:      df,
		columns: columns,
		op:      op,
	}
}

// Validate checks that every column exists, suggesting the closest name
// when one does not.
func (v *ColumnValidator) Validate() error {
	have := v.df.Columns()
	for _, column := range v.columns {
		if !slices.Contains(have, column) {
			return errors.NewColumnNotFoundErrorWithSuggestions(v.op, column, have)
		}
	}
	return nil
}

// LengthValidator validates length consistency
type LengthValidator struct {
	expected int
	actual   int
	op       string
}

// NewLengthValidator creates a validator for length consistency
func NewLengthValidator(expected, actual int, op string) *LengthValidator {
	return &LengthValidator{
		expected: expected,
		actual:   actual,
		op:       op,
	}
}

// Validate checks if lengths match
func (v *LengthValidator) Validate() error {
	if v.expected != v.actual {
		return errors.NewSizeMismatchError(v.op, v.expected, v.actual)
	}
	return nil
}

// IndexValidator validates index bounds
type IndexValidator struct {
	indices []int
	length  int
	op      string
}

// NewIndexValidator creates a validator checking that every index lies in
// [0, length).
func NewIndexValidator(length int, op string, indices ...int) *IndexValidator {
	return &IndexValidator{
		indices: indices,
		length:  length,
		op:      op,
	}
}

// Validate checks if every index is within bounds
func (v *IndexValidator) Validate() error {
	for _, i := range v.indices {
		if i < 0 || i >= v.length {
			return errors.NewIndexOutOfBoundsError(v.op, i, v.length)
		}
	}
	return nil
}

// TagValidator validates that a tag is one of a supported set
type TagValidator struct {
	tag       cell.Tag
	supported func(cell.Tag) bool
	want      string
	op        string
}

// NewTagValidator creates a validator for type checking. want describes
// the accepted tags in the error message.
func NewTagValidator(tag cell.Tag, op, want string, supported func(cell.Tag) bool) *TagValidator {
	return &TagValidator{
		tag:       tag,
		supported: supported,
		want:      want,
		op:        op,
	}
}

// Validate checks if the tag is supported
func (v *TagValidator) Validate() error {
	if !v.supported(v.tag) {
		return errors.NewTypeMismatchError(v.op, v.want, v.tag.String())
	}
	return nil
}

// EmptyValidator rejects frames without rows
type EmptyValidator struct {
	df ColumnProvider
	op string
}

// NewEmptyValidator creates a validator for empty frame checks
func NewEmptyValidator(df ColumnProvider, op string) *EmptyValidator {
	return &EmptyValidator{
		df: df,
		op: op,
	}
}

// Validate checks that the frame has at least one row
func (v *EmptyValidator) Validate() error {
	if v.df.Len() == 0 {
		return errors.NewEmptyOperandError(v.op).WithHint("operation requires at least one row")
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Convenience validation functions

// ValidateColumns is a convenience function for column validation
func ValidateColumns(df ColumnProvider, op string, columns ...string) error {
	return NewColumnValidator(df, op, columns...).Validate()
}

// ValidateLength is a convenience function for length validation
func ValidateLength(expected, actual int, op string) error {
	return NewLengthValidator(expected, actual, op).Validate()
}

// ValidateIndex is a convenience function for index validation
func ValidateIndex(length int, op string, indices ...int) error {
	return NewIndexValidator(length, op, indices...).Validate()
}

// ValidateNotEmpty is a convenience function for empty frame validation
func ValidateNotEmpty(df ColumnProvider, op string) error {
	return NewEmptyValidator(df, op).Validate()
}
