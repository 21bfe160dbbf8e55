package io

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
)

// ToRecord copies a table into an Arrow record allocated from mem. Empty
// cells become nulls, Char columns become strings and columns without a
// dtype become Arrow null columns. Custom columns have no Arrow form. The
// caller releases the record.
func ToRecord(t dataframe.Table, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	names := t.Columns()
	fields := make([]arrow.Field, len(names))
	arrays := make([]arrow.Array, 0, len(names))
	defer func() {
		for _, arr := range arrays {
			arr.Release()
		}
	}()

	for k, name := range names {
		tag := columnTag(t, k)
		if tag == cell.Custom {
			return nil, errors.NewTypeMismatchError("ToRecord", "primitive column", "custom").WithColumn(name)
		}
		dt := tag.ArrowType()
		fields[k] = arrow.Field{Name: name, Type: dt, Nullable: true}

		arr, err := buildArray(mem, dt, t, k)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		arrays = append(arrays, arr)
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewRecord(schema, arrays, int64(t.Len())), nil
}

// columnTag returns the tag of the first non-empty cell of column k, or
// cell.None when the column holds none.
func columnTag(t dataframe.Table, k int) cell.Tag {
	if d, ok := t.(interface{ ColumnAt(int) (*series.Series, error) }); ok {
		if s, err := d.ColumnAt(k); err == nil && s.Dtype() != cell.Unconstrained {
			return s.Dtype()
		}
	}
	for i := 0; i < t.Len(); i++ {
		if c := t.Get(k, i); !c.IsEmpty() {
			return c.Tag()
		}
	}
	return cell.None
}

func buildArray(mem memory.Allocator, dt arrow.DataType, t dataframe.Table, k int) (arrow.Array, error) {
	b := array.NewBuilder(mem, dt)
	defer b.Release()
	b.Reserve(t.Len())

	for i := 0; i < t.Len(); i++ {
		c := t.Get(k, i)
		if c.IsEmpty() {
			b.AppendNull()
			continue
		}
		if err := appendCell(b, c); err != nil {
			return nil, err
		}
	}
	return b.NewArray(), nil
}

func appendCell(b array.Builder, c cell.Cell) error {
	var err error
	switch b := b.(type) {
	case *array.Int8Builder:
		err = appendAs(b.Append, c)
	case *array.Int16Builder:
		err = appendAs(b.Append, c)
	case *array.Int32Builder:
		err = appendAs(b.Append, c)
	case *array.Int64Builder:
		err = appendAs(b.Append, c)
	case *array.Uint8Builder:
		err = appendAs(b.Append, c)
	case *array.Uint16Builder:
		err = appendAs(b.Append, c)
	case *array.Uint32Builder:
		err = appendAs(b.Append, c)
	case *array.Uint64Builder:
		err = appendAs(b.Append, c)
	case *array.Float32Builder:
		err = appendAs(b.Append, c)
	case *array.Float64Builder:
		err = appendAs(b.Append, c)
	case *array.BooleanBuilder:
		err = appendAs(b.Append, c)
	case *array.StringBuilder:
		b.Append(c.String())
	default:
		err = errors.NewTypeMismatchError("ToRecord", b.Type().String(), c.TypeName())
	}
	return err
}

func appendAs[T cell.Primitive](appendFn func(T), c cell.Cell) error {
	v, err := cell.As[T](c)
	if err != nil {
		return err
	}
	appendFn(v)
	return nil
}

// FromRecord copies an Arrow record into a new DataFrame. Nulls become empty
// cells; Arrow types without a matching alternative are rejected.
func FromRecord(rec arrow.Record) (*dataframe.DataFrame, error) {
	schema := rec.Schema()
	cols := make([]*series.Series, rec.NumCols())
	for k := range cols {
		field := schema.Field(k)
		tag, ok := cell.TagFromArrow(field.Type)
		if !ok {
			return nil, errors.NewTypeMismatchError("FromRecord", "supported Arrow type", field.Type.String()).
				WithColumn(field.Name)
		}

		cells, err := arrayCells(rec.Column(k))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Name, err)
		}
		if tag == cell.None {
			tag = cell.Unconstrained
		}
		s := series.New(field.Name)
		if err := s.Replace(cells, tag); err != nil {
			return nil, err
		}
		cols[k] = s
	}
	return dataframe.New(cols...)
}

func arrayCells(arr arrow.Array) ([]cell.Cell, error) {
	switch a := arr.(type) {
	case *array.Int8:
		return valueCells[int8](a), nil
	case *array.Int16:
		return valueCells[int16](a), nil
	case *array.Int32:
		return valueCells[int32](a), nil
	case *array.Int64:
		return valueCells[int64](a), nil
	case *array.Uint8:
		return valueCells[uint8](a), nil
	case *array.Uint16:
		return valueCells[uint16](a), nil
	case *array.Uint32:
		return valueCells[uint32](a), nil
	case *array.Uint64:
		return valueCells[uint64](a), nil
	case *array.Float32:
		return valueCells[float32](a), nil
	case *array.Float64:
		return valueCells[float64](a), nil
	case *array.Boolean:
		return valueCells[bool](a), nil
	case *array.String:
		return valueCells[string](a), nil
	case *array.LargeString:
		return valueCells[string](a), nil
	case *array.Null:
		return make([]cell.Cell, a.Len()), nil
	default:
		return nil, errors.NewTypeMismatchError("FromRecord", "supported Arrow array", arr.DataType().String())
	}
}

type valueArray[T cell.Primitive] interface {
	Len() int
	IsNull(i int) bool
	Value(i int) T
}

func valueCells[T cell.Primitive](a valueArray[T]) []cell.Cell {
	cells := make([]cell.Cell, a.Len())
	for i := range cells {
		if !a.IsNull(i) {
			cells[i] = cell.Of(a.Value(i))
		}
	}
	return cells
}
