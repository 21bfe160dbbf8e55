package dataframe

import (
	"fmt"
	"strconv"

	"github.com/paveg/tabula/internal/errors"
)

// NameSource supplies an ordered list of column names. DataFrame and View
// both satisfy it.
type NameSource interface {
	Columns() []string
}

// Rename gives column i a new name.
func (df *DataFrame) Rename(i int, name string) error {
	if i < 0 || i >= len(df.names) {
		return errors.NewIndexOutOfBoundsError("Rename", i, len(df.names))
	}
	if name == "" {
		return errors.NewInvalidInputError("Rename", "column name must not be empty")
	}
	if j, ok := df.index[name]; ok {
		if j == i {
			return nil
		}
		return errors.NewInvalidInputError("Rename",
			fmt.Sprintf("duplicate column name '%s'", name)).WithColumn(name)
	}
	delete(df.index, df.names[i])
	df.setName(i, name)
	return nil
}

// MoveName moves an existing name to column newIndex. The column that held
// newIndex's name takes the moved name's old position, so the two columns
// swap names.
func (df *DataFrame) MoveName(name string, newIndex int) error {
	old, ok := df.index[name]
	if !ok {
		return errors.NewColumnNotFoundErrorWithSuggestions("MoveName", name, df.names)
	}
	if newIndex < 0 || newIndex >= len(df.names) {
		return errors.NewIndexOutOfBoundsError("MoveName", newIndex, len(df.names))
	}
	if old == newIndex {
		return nil
	}
	displaced := df.names[newIndex]
	df.setName(newIndex, name)
	df.setName(old, displaced)
	return nil
}

// ResetNames replaces every name with its default, the stringified position.
func (df *DataFrame) ResetNames() {
	clear(df.index)
	for i := range df.names {
		df.setName(i, strconv.Itoa(i))
	}
}

// SetNames renames all columns at once. The list must have one unique,
// non-empty name per column.
func (df *DataFrame) SetNames(names []string) error {
	if len(names) != len(df.columns) {
		return errors.NewSizeMismatchError("SetNames", len(df.columns), len(names))
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return errors.NewInvalidInputError("SetNames", "column name must not be empty")
		}
		if _, dup := seen[n]; dup {
			return errors.NewInvalidInputError("SetNames",
				fmt.Sprintf("duplicate column name '%s'", n)).WithColumn(n)
		}
		seen[n] = struct{}{}
	}
	clear(df.index)
	for i, n := range names {
		df.setName(i, n)
	}
	return nil
}

// SetNamesFrom copies the column names of another frame or view.
func (df *DataFrame) SetNamesFrom(src NameSource) error {
	return df.SetNames(src.Columns())
}

func (df *DataFrame) setName(i int, name string) {
	df.names[i] = name
	df.index[name] = i
	df.columns[i].SetName(name)
}
