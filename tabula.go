// Package tabula provides an in-memory, strongly typed, column-oriented
// table library. This package is the sole public API for the library.
//
// A Cell holds one value of a closed set of primitive alternatives or a
// user-defined type. A Series is a named column of cells sharing one type;
// a DataFrame is an ordered set of Series with one row count. Views are
// strided windows that alias the cells of their owner.
//
// Example:
//
//	df, _ := tabula.NewDataFrame(
//		tabula.SeriesOf("name", []string{"Alice", "Bob"}),
//		tabula.SeriesOf("age", []int64{25, 30}),
//	)
//	age, _ := df.Column("age")
//	older, _ := tabula.Transform(age, func(c tabula.Cell) (tabula.Cell, error) {
//		return tabula.Binary(tabula.OpAdd, c, tabula.CellOf(int64(1)))
//	})
package tabula

import (
	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/compute"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/slice"
)

// Core types.
type (
	// Cell is a tagged value: empty, one primitive alternative or a user type.
	Cell = cell.Cell
	// Tag identifies the active alternative of a Cell.
	Tag = cell.Tag
	// Primitive lists the Go types stored directly in a Cell.
	Primitive = cell.Primitive
	// UserValue is implemented by user-defined cell types.
	UserValue = cell.UserValue
	// BinaryOp names a binary operator.
	BinaryOp = cell.BinaryOp
	// UnaryOp names a unary operator.
	UnaryOp = cell.UnaryOp

	// Series is an owning named column of cells sharing one type.
	Series = series.Series
	// SeriesView is a read/write window over a Series.
	SeriesView = series.View
	// ConstSeriesView is a read-only window over a Series.
	ConstSeriesView = series.ConstView
	// Reader is the element contract shared by series and views.
	Reader = series.Reader

	// DataFrame is an ordered collection of Series sharing a row count.
	DataFrame = dataframe.DataFrame
	// DataFrameView is a read/write window over a DataFrame.
	DataFrameView = dataframe.View
	// Frame is the read contract shared by frames and frame views.
	Frame = compute.Frame
	// RenderOptions controls text rendering.
	RenderOptions = dataframe.RenderOptions

	// Slice is a {first, last, step} index selector.
	Slice = slice.Slice
	// SliceArg is one optional argument of NewSlice.
	SliceArg = slice.Arg

	// ElementFunc maps one cell to another.
	ElementFunc = compute.ElementFunc
	// Predicate selects cells.
	Predicate = compute.Predicate
	// RowPredicate selects rows.
	RowPredicate = compute.RowPredicate
	// FoldFunc combines an accumulator with one cell.
	FoldFunc = compute.FoldFunc

	// Error is the error type of every failing operation.
	Error = errors.DataFrameError
	// ErrorKind classifies an Error.
	ErrorKind = errors.Kind
)

// Alternatives.
const (
	None    Tag = cell.None
	Int8    Tag = cell.Int8
	Int16   Tag = cell.Int16
	Int32   Tag = cell.Int32
	Int64   Tag = cell.Int64
	Uint8   Tag = cell.Uint8
	Uint16  Tag = cell.Uint16
	Uint32  Tag = cell.Uint32
	Uint64  Tag = cell.Uint64
	Bool    Tag = cell.Bool
	Float32 Tag = cell.Float32
	Float64 Tag = cell.Float64
	Char    Tag = cell.Char
	String  Tag = cell.String
	Custom  Tag = cell.Custom

	// Unconstrained marks a series that has not fixed its alternative yet.
	Unconstrained Tag = cell.Unconstrained
)

// Operators.
const (
	OpAdd BinaryOp = cell.OpAdd
	OpSub BinaryOp = cell.OpSub
	OpMul BinaryOp = cell.OpMul
	OpDiv BinaryOp = cell.OpDiv
	OpMod BinaryOp = cell.OpMod
	OpAnd BinaryOp = cell.OpAnd
	OpOr  BinaryOp = cell.OpOr
	OpEq  BinaryOp = cell.OpEq
	OpNe  BinaryOp = cell.OpNe
	OpLt  BinaryOp = cell.OpLt
	OpLe  BinaryOp = cell.OpLe
	OpGt  BinaryOp = cell.OpGt
	OpGe  BinaryOp = cell.OpGe

	UnaryNeg UnaryOp = cell.UnaryNeg
	UnaryNot UnaryOp = cell.UnaryNot
)

// Error kinds.
const (
	KindEmptyOperand         = errors.KindEmptyOperand
	KindTypeMismatch         = errors.KindTypeMismatch
	KindOperatorNotSupported = errors.KindOperatorNotSupported
	KindBadCast              = errors.KindBadCast
	KindSizeMismatch         = errors.KindSizeMismatch
	KindOutOfRange           = errors.KindOutOfRange
	KindHomogeneityViolation = errors.KindHomogeneityViolation
	KindNameNotFound         = errors.KindNameNotFound
	KindDivisionByZero       = errors.KindDivisionByZero
	KindInvalidInput         = errors.KindInvalidInput
	KindInternal             = errors.KindInternal
)

// Sentinels matching any Error of the same kind through errors.Is.
var (
	ErrEmptyOperand         = errors.ErrEmptyOperand
	ErrTypeMismatch         = errors.ErrTypeMismatch
	ErrOperatorNotSupported = errors.ErrOperatorNotSupported
	ErrBadCast              = errors.ErrBadCast
	ErrSizeMismatch         = errors.ErrSizeMismatch
	ErrOutOfRange           = errors.ErrOutOfRange
	ErrHomogeneity          = errors.ErrHomogeneity
	ErrNameNotFound         = errors.ErrNameNotFound
	ErrDivisionByZero       = errors.ErrDivisionByZero
	ErrInvalidInput         = errors.ErrInvalidInput
)

// KindOf reports the kind of the first Error in err's chain.
func KindOf(err error) ErrorKind {
	return errors.KindOf(err)
}

// Cells

// CellOf wraps a primitive value.
func CellOf[T Primitive](v T) Cell {
	return cell.Of(v)
}

// NewCell builds a cell from any supported Go value; nil gives the empty cell.
func NewCell(v any) (Cell, error) {
	return cell.New(v)
}

// UserCell wraps a user-defined value.
func UserCell(v UserValue) Cell {
	return cell.User(v)
}

// As reads the value of c as a T.
func As[T Primitive](c Cell) (T, error) {
	return cell.As[T](c)
}

// Binary applies op to two cells.
func Binary(op BinaryOp, a, b Cell) (Cell, error) {
	return cell.Binary(op, a, b)
}

// CastCell converts c to the alternative to.
func CastCell(c Cell, to Tag) (Cell, error) {
	return cell.Cast(c, to)
}

// ParseTag returns the tag with the given type name.
func ParseTag(name string) (Tag, bool) {
	return cell.ParseTag(name)
}

// Containers

// NewSeries creates an empty, untyped series.
func NewSeries(name string) *Series {
	return series.New(name)
}

// SeriesOf creates a series from typed values.
func SeriesOf[T Primitive](name string, values []T) *Series {
	return series.Of(name, values)
}

// SeriesFromValues creates a series from Go values sharing one alternative.
func SeriesFromValues(name string, values ...any) (*Series, error) {
	return series.FromValues(name, values...)
}

// NewDataFrame creates a frame owning the given columns.
func NewDataFrame(cols ...*Series) (*DataFrame, error) {
	return dataframe.New(cols...)
}

// NewShape creates a frame of rows x cols empty cells with default names.
func NewShape(rows, cols int) *DataFrame {
	return dataframe.NewShape(rows, cols)
}

// NewSlice builds a slice from optional First, Last and Step arguments.
func NewSlice(args ...SliceArg) (Slice, error) {
	return slice.New(args...)
}

// All selects every element.
func All() Slice { return slice.All() }

// First sets the first selected index.
func First(n int) SliceArg { return slice.First(n) }

// Last sets the last selected index, inclusive.
func Last(n int) SliceArg { return slice.Last(n) }

// Step sets the stride.
func Step(n int) SliceArg { return slice.Step(n) }

// DefaultRenderOptions prints up to 20 rows with types and positions.
func DefaultRenderOptions() RenderOptions { return dataframe.DefaultRenderOptions() }
