// Package dataframe provides the owning table of named, equal-length columns
package dataframe

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/slice"
)

// DataFrame represents a table of named columns sharing one row count.
// Column names and positions form a bijection kept by every mutating call.
type DataFrame struct {
	columns []*series.Series
	names   []string       // index -> name
	index   map[string]int // name -> index
}

// New creates a DataFrame that takes ownership of the given columns. Unnamed
// columns receive default names; all columns must have the same length.
func New(cols ...*series.Series) (*DataFrame, error) {
	df := empty()
	for _, s := range cols {
		if err := df.AppendColumn(s); err != nil {
			return nil, err
		}
	}
	return df, nil
}

// NewShape creates a frame of cols default-named columns holding rows empty
// cells each.
func NewShape(rows, cols int) *DataFrame {
	df := empty()
	df.ResizeShape(rows, cols)
	return df
}

// FromView materializes a view into a new owning frame.
func FromView(v *View) *DataFrame {
	return v.Materialize()
}

func empty() *DataFrame {
	return &DataFrame{index: make(map[string]int)}
}

// Len returns the number of rows
func (df *DataFrame) Len() int {
	if len(df.columns) == 0 {
		return 0
	}
	return df.columns[0].Len()
}

// Width returns the number of columns
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Empty reports whether the frame has no columns.
func (df *DataFrame) Empty() bool {
	return len(df.columns) == 0
}

// Columns returns the names of all columns in order
func (df *DataFrame) Columns() []string {
	return append([]string{}, df.names...)
}

// Name returns the name of column i.
func (df *DataFrame) Name(i int) (string, error) {
	if i < 0 || i >= len(df.names) {
		return "", errors.NewIndexOutOfBoundsError("Name", i, len(df.names))
	}
	return df.names[i], nil
}

// HasColumn checks if a column exists
func (df *DataFrame) HasColumn(name string) bool {
	_, exists := df.index[name]
	return exists
}

// IndexOf returns the position of the named column.
func (df *DataFrame) IndexOf(name string) (int, error) {
	i, ok := df.index[name]
	if !ok {
		return -1, errors.NewColumnNotFoundErrorWithSuggestions("IndexOf", name, df.names)
	}
	return i, nil
}

// Column returns the series for the given column name. The series is owned
// by the frame; rename columns through Rename or MoveName, since the frame's
// names are authoritative and reset the series name on access.
func (df *DataFrame) Column(name string) (*series.Series, error) {
	i, ok := df.index[name]
	if !ok {
		return nil, errors.NewColumnNotFoundErrorWithSuggestions("Column", name, df.names)
	}
	return df.column(i), nil
}

// ColumnAt returns the series at position i. The same ownership rules as
// Column apply.
func (df *DataFrame) ColumnAt(i int) (*series.Series, error) {
	if i < 0 || i >= len(df.columns) {
		return nil, errors.NewIndexOutOfBoundsError("ColumnAt", i, len(df.columns))
	}
	return df.column(i), nil
}

// column returns the owned series at i, its name synced with the frame's.
func (df *DataFrame) column(i int) *series.Series {
	s := df.columns[i]
	if s.Name() != df.names[i] {
		s.SetName(df.names[i])
	}
	return s
}

// Get returns the cell at (col, row) without bounds checks beyond Go's own.
func (df *DataFrame) Get(col, row int) cell.Cell {
	return df.columns[col].Get(row)
}

// At returns the cell at (col, row).
func (df *DataFrame) At(col, row int) (cell.Cell, error) {
	s, err := df.ColumnAt(col)
	if err != nil {
		return cell.Cell{}, err
	}
	return s.At(row)
}

// Set assigns v at (col, row) under the column's dtype.
func (df *DataFrame) Set(col, row int, v any) error {
	s, err := df.ColumnAt(col)
	if err != nil {
		return err
	}
	return s.Set(row, v)
}

// InsertColumn places s at position pos. The first column of an empty frame
// fixes the row count; later columns must match it.
func (df *DataFrame) InsertColumn(pos int, s *series.Series) error {
	if s == nil {
		return errors.NewInvalidInputError("InsertColumn", "nil series")
	}
	if pos < 0 || pos > len(df.columns) {
		return errors.NewIndexOutOfBoundsError("InsertColumn", pos, len(df.columns)+1)
	}
	if len(df.columns) > 0 && s.Len() != df.Len() {
		return errors.NewRowCountError("InsertColumn", s.Name(), df.Len(), s.Len())
	}
	for _, c := range df.columns {
		if c == s {
			return errors.NewInvalidInputError("InsertColumn", "series is already a column of this frame")
		}
	}

	name := s.Name()
	if name == "" {
		name = df.defaultName(pos)
	} else if df.HasColumn(name) {
		return errors.NewInvalidInputError("InsertColumn",
			fmt.Sprintf("duplicate column name '%s'", name)).WithColumn(name)
	}
	s.SetName(name)

	df.columns = append(df.columns, nil)
	copy(df.columns[pos+1:], df.columns[pos:])
	df.columns[pos] = s
	df.names = append(df.names, "")
	copy(df.names[pos+1:], df.names[pos:])
	df.names[pos] = name
	df.reindex(pos)
	return nil
}

// AppendColumn adds s as the last column.
func (df *DataFrame) AppendColumn(s *series.Series) error {
	return df.InsertColumn(len(df.columns), s)
}

// EraseColumn removes column i and shifts the names after it.
func (df *DataFrame) EraseColumn(i int) error {
	if i < 0 || i >= len(df.columns) {
		return errors.NewIndexOutOfBoundsError("EraseColumn", i, len(df.columns))
	}
	delete(df.index, df.names[i])
	df.columns = append(df.columns[:i], df.columns[i+1:]...)
	df.names = append(df.names[:i], df.names[i+1:]...)
	df.reindex(i)
	return nil
}

// DropColumn removes the named column.
func (df *DataFrame) DropColumn(name string) error {
	i, ok := df.index[name]
	if !ok {
		return errors.NewColumnNotFoundErrorWithSuggestions("DropColumn", name, df.names)
	}
	return df.EraseColumn(i)
}

// InsertRow inserts one value per column before row pos. Every value is
// checked against its column before any column changes.
func (df *DataFrame) InsertRow(pos int, values ...any) error {
	if len(values) != len(df.columns) {
		return errors.NewSizeMismatchError("InsertRow", len(df.columns), len(values))
	}
	if pos < 0 || pos > df.Len() {
		return errors.NewIndexOutOfBoundsError("InsertRow", pos, df.Len()+1)
	}
	for i, v := range values {
		if _, err := df.columns[i].Check(v); err != nil {
			return err
		}
	}
	for i, v := range values {
		if err := df.columns[i].Insert(pos, v); err != nil {
			return errors.NewInternalError("InsertRow", err)
		}
	}
	return nil
}

// AppendRow adds one value per column at the end.
func (df *DataFrame) AppendRow(values ...any) error {
	return df.InsertRow(df.Len(), values...)
}

// EraseRow removes row i from every column.
func (df *DataFrame) EraseRow(i int) error {
	if i < 0 || i >= df.Len() {
		return errors.NewIndexOutOfBoundsError("EraseRow", i, df.Len())
	}
	return df.EraseRows(i, i+1)
}

// EraseRows removes rows in the half-open range [first, last).
func (df *DataFrame) EraseRows(first, last int) error {
	if first < 0 || last > df.Len() || first > last {
		return errors.NewOutOfRangeError("EraseRows",
			fmt.Sprintf("range [%d, %d) is invalid for %d rows", first, last, df.Len()))
	}
	for _, s := range df.columns {
		if err := s.EraseRange(first, last); err != nil {
			return errors.NewInternalError("EraseRows", err)
		}
	}
	return nil
}

// Row returns a copy of row i.
func (df *DataFrame) Row(i int) ([]cell.Cell, error) {
	if i < 0 || i >= df.Len() {
		return nil, errors.NewIndexOutOfBoundsError("Row", i, df.Len())
	}
	row := make([]cell.Cell, len(df.columns))
	for c, s := range df.columns {
		row[c] = s.Get(i)
	}
	return row, nil
}

// Rows iterates over row indices and row copies.
func (df *DataFrame) Rows() iter.Seq2[int, []cell.Cell] {
	return func(yield func(int, []cell.Cell) bool) {
		for i := 0; i < df.Len(); i++ {
			row, _ := df.Row(i)
			if !yield(i, row) {
				return
			}
		}
	}
}

// Resize sets the row count of every column; new cells are empty.
func (df *DataFrame) Resize(rows int) {
	for _, s := range df.columns {
		s.Resize(rows)
	}
}

// ResizeShape sets both dimensions. Removed columns lose their names; new
// columns get the first unused default name.
func (df *DataFrame) ResizeShape(rows, cols int) {
	cols = max(cols, 0)
	for len(df.columns) > cols {
		_ = df.EraseColumn(len(df.columns) - 1)
	}
	df.Resize(rows)
	for len(df.columns) < cols {
		s := series.Sized("", max(rows, 0))
		_ = df.AppendColumn(s)
	}
}

// Slice returns a view over the selected columns and rows.
func (df *DataFrame) Slice(cols, rows slice.Slice) (*View, error) {
	return newView(df, cols, rows)
}

// Select returns a new DataFrame with copies of the named columns
func (df *DataFrame) Select(names ...string) (*DataFrame, error) {
	out := empty()
	for _, name := range names {
		s, err := df.Column(name)
		if err != nil {
			return nil, err
		}
		if err := out.AppendColumn(s.Clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Equal reports whether both frames have the same names and equal columns.
func (df *DataFrame) Equal(other *DataFrame) bool {
	if df.Width() != other.Width() || df.Len() != other.Len() {
		return false
	}
	for i, s := range df.columns {
		if df.names[i] != other.names[i] || !s.Equal(other.columns[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy
func (df *DataFrame) Clone() *DataFrame {
	out := empty()
	for i := range df.columns {
		_ = out.AppendColumn(df.column(i).Clone())
	}
	return out
}

// String returns a string representation of the DataFrame
func (df *DataFrame) String() string {
	if len(df.columns) == 0 {
		return "DataFrame[empty]"
	}

	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}
	for i, s := range df.columns {
		parts = append(parts, fmt.Sprintf("  %s: %s", df.names[i], s.Dtype()))
	}
	return strings.Join(parts, "\n")
}

// defaultName returns the stringified position, moving to the next integer
// until the name is free.
func (df *DataFrame) defaultName(pos int) string {
	for k := pos; ; k++ {
		name := strconv.Itoa(k)
		if !df.HasColumn(name) {
			return name
		}
	}
}

// reindex refreshes name -> index entries from position from onwards.
func (df *DataFrame) reindex(from int) {
	for i := from; i < len(df.names); i++ {
		df.index[df.names[i]] = i
	}
}
