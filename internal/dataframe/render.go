package dataframe

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/paveg/tabula/internal/cell"
)

// Table is the read contract the renderer consumes.
type Table interface {
	Len() int
	Width() int
	Columns() []string
	Get(col, row int) cell.Cell
}

// RenderOptions controls text rendering.
type RenderOptions struct {
	// MaxRows limits the printed rows; zero prints all of them.
	MaxRows int
	// ShowTypes adds a row with each column's type name under the header.
	ShowTypes bool
	// ShowIndex prefixes each row with its position.
	ShowIndex bool
}

// DefaultRenderOptions prints up to 20 rows with types and positions.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{MaxRows: 20, ShowTypes: true, ShowIndex: true}
}

// Render writes df as an aligned text table.
func (df *DataFrame) Render(w io.Writer, opts RenderOptions) error {
	return Render(w, df, opts)
}

// Render writes the visible window as an aligned text table.
func (v *View) Render(w io.Writer, opts RenderOptions) error {
	return Render(w, v, opts)
}

// Render writes any table as tab-aligned text. Empty cells print as "none".
func Render(w io.Writer, t Table, opts RenderOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	line := func(index string, fields []string) {
		if opts.ShowIndex {
			fields = append([]string{index}, fields...)
		}
		fmt.Fprintln(tw, strings.Join(fields, "\t"))
	}

	line("", t.Columns())
	if opts.ShowTypes {
		types := make([]string, t.Width())
		for c := range types {
			types[c] = columnType(t, c)
		}
		line("", types)
	}

	rows := t.Len()
	if opts.MaxRows > 0 && rows > opts.MaxRows {
		rows = opts.MaxRows
	}
	fields := make([]string, t.Width())
	for r := 0; r < rows; r++ {
		for c := range fields {
			fields[c] = t.Get(c, r).String()
		}
		line(fmt.Sprint(r), fields)
	}
	if rows < t.Len() {
		fmt.Fprintf(tw, "... %d more rows\n", t.Len()-rows)
	}
	return tw.Flush()
}

// columnType reports the tag of the first non-empty cell in column c.
func columnType(t Table, c int) string {
	for r := 0; r < t.Len(); r++ {
		if v := t.Get(c, r); !v.IsEmpty() {
			return v.TypeName()
		}
	}
	return cell.None.String()
}
