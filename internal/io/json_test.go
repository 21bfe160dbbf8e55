package io_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/io"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONReader(t *testing.T) {
	t.Run("reads array of objects", func(t *testing.T) {
		data := `[
			{"name": "Alice", "age": 25, "score": 1.5, "active": true},
			{"name": "Bob", "age": 30, "score": 2, "active": false}
		]`

		df, err := io.NewJSONReader(strings.NewReader(data), io.DefaultJSONOptions()).Read()
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "age", "score", "active"}, df.Columns())

		tests := []struct {
			column string
			tag    cell.Tag
			values []any
		}{
			{"name", cell.String, []any{"Alice", "Bob"}},
			{"age", cell.Int64, []any{int64(25), int64(30)}},
			{"score", cell.Float64, []any{1.5, 2.0}},
			{"active", cell.Bool, []any{true, false}},
		}
		for _, tt := range tests {
			t.Run(tt.column, func(t *testing.T) {
				col, err := df.Column(tt.column)
				require.NoError(t, err)
				assert.Equal(t, tt.tag, col.Dtype())
				testutil.AssertValues(t, col, tt.values...)
			})
		}
	})

	t.Run("reads JSON lines", func(t *testing.T) {
		data := "{\"a\": 1}\n\n{\"a\": 2, \"b\": \"x\"}\n"
		opts := io.DefaultJSONOptions()
		opts.Format = io.JSONLines

		df, err := io.NewJSONReader(strings.NewReader(data), opts).Read()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, df.Columns())

		b, err := df.Column("b")
		require.NoError(t, err)
		testutil.AssertValues(t, b, nil, "x")
	})

	t.Run("nulls and missing keys become empty cells", func(t *testing.T) {
		data := `[{"a": null, "b": 1}, {"b": 2}, {"a": 3}]`

		df, err := io.NewJSONReader(strings.NewReader(data), io.DefaultJSONOptions()).Read()
		require.NoError(t, err)
		a, err := df.Column("a")
		require.NoError(t, err)
		testutil.AssertValues(t, a, nil, nil, int64(3))
		b, err := df.Column("b")
		require.NoError(t, err)
		testutil.AssertValues(t, b, int64(1), int64(2), nil)
	})

	t.Run("mixed kinds fall back to text", func(t *testing.T) {
		data := `[{"v": 1}, {"v": "two"}, {"v": [3]}]`

		df, err := io.NewJSONReader(strings.NewReader(data), io.DefaultJSONOptions()).Read()
		require.NoError(t, err)
		v, err := df.Column("v")
		require.NoError(t, err)
		testutil.AssertValues(t, v, "1", "two", "[3]")
	})

	t.Run("type inference disabled", func(t *testing.T) {
		opts := io.DefaultJSONOptions()
		opts.TypeInference = false

		df, err := io.NewJSONReader(strings.NewReader(`[{"v": 10, "ok": true}]`), opts).Read()
		require.NoError(t, err)
		v, err := df.Column("v")
		require.NoError(t, err)
		testutil.AssertValues(t, v, "10")
	})

	t.Run("max records", func(t *testing.T) {
		opts := io.DefaultJSONOptions()
		opts.MaxRecords = 2

		df, err := io.NewJSONReader(strings.NewReader(`[{"v":1},{"v":2},{"v":3}]`), opts).Read()
		require.NoError(t, err)
		assert.Equal(t, 2, df.Len())
	})

	t.Run("single object", func(t *testing.T) {
		df, err := io.NewJSONReader(strings.NewReader(`{"v": 1}`), io.DefaultJSONOptions()).Read()
		require.NoError(t, err)
		assert.Equal(t, 1, df.Len())
	})

	t.Run("rejects non-object records", func(t *testing.T) {
		_, err := io.NewJSONReader(strings.NewReader(`[1, 2]`), io.DefaultJSONOptions()).Read()
		require.Error(t, err)
		assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := io.NewJSONReader(strings.NewReader(`[{"v": }]`), io.DefaultJSONOptions()).Read()
		require.Error(t, err)
	})
}

func TestJSONWriter(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		df := testutil.CreateSimpleTestDataFrame(t)

		var buf bytes.Buffer
		require.NoError(t, io.NewJSONWriter(&buf, io.DefaultJSONOptions()).Write(df))
		assert.JSONEq(t, `[{"name":"Alice","age":25},{"name":"Bob","age":30}]`, buf.String())
	})

	t.Run("lines", func(t *testing.T) {
		df := testutil.CreateSimpleTestDataFrame(t)
		opts := io.DefaultJSONOptions()
		opts.Format = io.JSONLines

		var buf bytes.Buffer
		require.NoError(t, io.NewJSONWriter(&buf, opts).Write(df))
		assert.Equal(t, "{\"name\":\"Alice\",\"age\":25}\n{\"name\":\"Bob\",\"age\":30}\n", buf.String())
	})

	t.Run("null for empty and non-finite", func(t *testing.T) {
		s, err := series.FromValues("x", 1.5, nil, math.NaN())
		require.NoError(t, err)
		df := testutil.Frame(t, s)

		var buf bytes.Buffer
		require.NoError(t, io.NewJSONWriter(&buf, io.DefaultJSONOptions()).Write(df))
		assert.JSONEq(t, `[{"x":1.5},{"x":null},{"x":null}]`, buf.String())
	})

	t.Run("indent produces valid JSON", func(t *testing.T) {
		df := testutil.CreateSimpleTestDataFrame(t)
		opts := io.DefaultJSONOptions()
		opts.Indent = true

		var buf bytes.Buffer
		require.NoError(t, io.NewJSONWriter(&buf, opts).Write(df))
		assert.JSONEq(t, `[{"name":"Alice","age":25},{"name":"Bob","age":30}]`, buf.String())
		assert.Contains(t, buf.String(), "\n  {")
	})
}

func TestJSONRoundTrip(t *testing.T) {
	for _, format := range []io.JSONFormat{io.JSONArray, io.JSONLines} {
		df := testutil.CreateTestDataFrame(t, testutil.WithNulls(), testutil.WithActiveColumn(), testutil.WithRowCount(6))
		opts := io.DefaultJSONOptions()
		opts.Format = format
		opts.Compression = io.Gzip

		var buf bytes.Buffer
		require.NoError(t, io.NewJSONWriter(&buf, opts).Write(df))
		got, err := io.NewJSONReader(&buf, opts).Read()
		require.NoError(t, err)
		testutil.AssertDataFrameEqual(t, df, got)
	}
}
