package io

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/valyala/fastjson"
)

const maxJSONLine = 16 << 20

// Read reads JSON data and returns a DataFrame. Columns appear in the order
// their keys are first seen; missing keys and nulls become empty cells.
func (r *JSONReader) Read() (*dataframe.DataFrame, error) {
	src, err := decompress(r.reader, r.options.Compression)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	cols := newJSONColumns(r.options.TypeInference)
	switch r.options.Format {
	case JSONArray:
		err = r.readArray(src, cols)
	case JSONLines:
		err = r.readLines(src, cols)
	default:
		return nil, fmt.Errorf("unsupported JSON format: %d", r.options.Format)
	}
	if err != nil {
		return nil, err
	}
	return cols.frame()
}

func (r *JSONReader) readArray(src io.Reader, cols *jsonColumns) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("reading JSON data: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	if v.Type() != fastjson.TypeArray {
		return cols.add(v)
	}

	records, _ := v.Array()
	for i, rec := range records {
		if r.full(cols) {
			break
		}
		if err := cols.add(rec); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

func (r *JSONReader) readLines(src io.Reader, cols *jsonColumns) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64<<10), maxJSONLine)

	var p fastjson.Parser
	line := 0
	for scanner.Scan() && !r.full(cols) {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		v, err := p.ParseBytes(text)
		if err != nil {
			return fmt.Errorf("parsing JSON line %d: %w", line, err)
		}
		if err := cols.add(v); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning JSON lines: %w", err)
	}
	return nil
}

func (r *JSONReader) full(cols *jsonColumns) bool {
	return r.options.MaxRecords > 0 && cols.rows >= r.options.MaxRecords
}

// jsonColumns collects cells per key while records stream past. Parsed
// values are only valid until the next parse, so cells are extracted at once.
type jsonColumns struct {
	names []string
	index map[string]int
	cells [][]cell.Cell
	rows  int
	infer bool
}

func newJSONColumns(infer bool) *jsonColumns {
	return &jsonColumns{index: make(map[string]int), infer: infer}
}

func (c *jsonColumns) add(v *fastjson.Value) error {
	obj, err := v.Object()
	if err != nil {
		return errors.NewInvalidInputError("ReadJSON", "record is not an object")
	}
	obj.Visit(func(key []byte, val *fastjson.Value) {
		k, ok := c.index[string(key)]
		if !ok {
			k = len(c.names)
			c.index[string(key)] = k
			c.names = append(c.names, string(key))
			c.cells = append(c.cells, make([]cell.Cell, c.rows, c.rows+1))
		}
		value := c.value(val)
		if len(c.cells[k]) > c.rows {
			// Repeated key within one record: the last one wins.
			c.cells[k][c.rows] = value
			return
		}
		c.cells[k] = append(c.cells[k], value)
	})
	c.rows++
	for k := range c.cells {
		if len(c.cells[k]) < c.rows {
			c.cells[k] = append(c.cells[k], cell.Empty())
		}
	}
	return nil
}

func (c *jsonColumns) value(v *fastjson.Value) cell.Cell {
	switch v.Type() {
	case fastjson.TypeNull:
		return cell.Empty()
	case fastjson.TypeString:
		return cell.Of(string(v.GetStringBytes()))
	}
	if !c.infer {
		return cell.Of(v.String())
	}

	switch v.Type() {
	case fastjson.TypeTrue:
		return cell.Of(true)
	case fastjson.TypeFalse:
		return cell.Of(false)
	case fastjson.TypeNumber:
		raw := v.String()
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return cell.Of(n)
		}
		f, _ := v.Float64()
		return cell.Of(f)
	default:
		return cell.Of(v.String())
	}
}

// frame settles each column on one alternative. Int64 and Float64 mixes
// widen to Float64; any other mix falls back to the text of each value.
func (c *jsonColumns) frame() (*dataframe.DataFrame, error) {
	out := make([]*series.Series, len(c.names))
	for k, name := range c.names {
		s := series.New(name)
		if err := s.Replace(settle(c.cells[k]), cell.Unconstrained); err != nil {
			return nil, fmt.Errorf("building column %s: %w", name, err)
		}
		out[k] = s
	}
	return dataframe.New(out...)
}

func settle(cells []cell.Cell) []cell.Cell {
	tags := make(map[cell.Tag]bool)
	for _, v := range cells {
		if !v.IsEmpty() {
			tags[v.Tag()] = true
		}
	}

	switch {
	case len(tags) <= 1:
	case len(tags) == 2 && tags[cell.Int64] && tags[cell.Float64]:
		for i, v := range cells {
			if v.Tag() == cell.Int64 {
				cells[i], _ = cell.Cast(v, cell.Float64)
			}
		}
	default:
		for i, v := range cells {
			if !v.IsEmpty() {
				cells[i] = cell.Of(v.String())
			}
		}
	}
	return cells
}

// Write writes the table as JSON. Empty cells and non-finite floats are
// written as null.
func (w *JSONWriter) Write(t dataframe.Table) error {
	out, err := compress(w.writer, w.options.Compression)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)

	var (
		a     fastjson.Arena
		buf   []byte
		names = t.Columns()
	)
	if w.options.Format == JSONArray {
		bw.WriteByte('[')
	}
	for i := 0; i < t.Len(); i++ {
		a.Reset()
		obj := a.NewObject()
		for k, name := range names {
			obj.Set(name, jsonValue(&a, t.Get(k, i)))
		}

		if w.options.Format == JSONArray {
			if i > 0 {
				bw.WriteByte(',')
			}
			if w.options.Indent {
				bw.WriteString("\n  ")
			}
		}
		buf = obj.MarshalTo(buf[:0])
		bw.Write(buf)
		if w.options.Format == JSONLines {
			bw.WriteByte('\n')
		}
	}
	if w.options.Format == JSONArray {
		if w.options.Indent && t.Len() > 0 {
			bw.WriteByte('\n')
		}
		bw.WriteString("]\n")
	}

	if err := bw.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("writing JSON: %w", err)
	}
	return out.Close()
}

func jsonValue(a *fastjson.Arena, c cell.Cell) *fastjson.Value {
	t := c.Tag()
	switch {
	case c.IsEmpty():
		return a.NewNull()
	case t.IsInteger():
		return a.NewNumberString(c.String())
	case t.IsFloat():
		f, _ := cell.Cast(c, cell.Float64)
		if v := cell.MustAs[float64](f); math.IsNaN(v) || math.IsInf(v, 0) {
			return a.NewNull()
		}
		return a.NewNumberString(c.String())
	case t == cell.Bool:
		if cell.MustAs[bool](c) {
			return a.NewTrue()
		}
		return a.NewFalse()
	default:
		return a.NewString(c.String())
	}
}
