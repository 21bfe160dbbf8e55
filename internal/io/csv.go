package io

import (
	"encoding/csv"
	"fmt"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
)

// Read reads CSV data and returns a DataFrame. Short rows are padded with
// empty cells; rows wider than the header are rejected.
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	src, err := decompress(r.reader, r.options.Compression)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	csvReader := csv.NewReader(src)
	if r.options.Delimiter != 0 {
		csvReader.Comma = r.options.Delimiter
	}
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return dataframe.New()
	}

	// Unnamed columns receive default names from the frame.
	headers := make([]string, len(records[0]))
	rows := records
	if r.options.Header {
		headers = records[0]
		rows = records[1:]
	}

	columns := make([][]string, len(headers))
	for k := range columns {
		columns[k] = make([]string, len(rows))
	}
	for i, row := range rows {
		if len(row) > len(headers) {
			return nil, errors.NewInvalidInputError("ReadCSV",
				fmt.Sprintf("row %d has %d fields, expected %d", i+1, len(row), len(headers)))
		}
		for k := range columns {
			if k < len(row) {
				columns[k][i] = row[k]
			} else {
				columns[k][i] = r.options.NullValue
			}
		}
	}

	df, err := textFrame(headers, columns, r.options.NullValue, r.options.InferTypes)
	if err != nil {
		return nil, fmt.Errorf("building frame: %w", err)
	}
	return df, nil
}

// Write writes the table to CSV format
func (w *CSVWriter) Write(t dataframe.Table) error {
	out, err := compress(w.writer, w.options.Compression)
	if err != nil {
		return err
	}

	csvWriter := csv.NewWriter(out)
	if w.options.Delimiter != 0 {
		csvWriter.Comma = w.options.Delimiter
	}

	if w.options.Header {
		if err := csvWriter.Write(t.Columns()); err != nil {
			out.Close()
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	row := make([]string, t.Width())
	for i := 0; i < t.Len(); i++ {
		for k := range row {
			row[k] = w.format(t.Get(k, i))
		}
		if err := csvWriter.Write(row); err != nil {
			out.Close()
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		out.Close()
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return out.Close()
}

func (w *CSVWriter) format(c cell.Cell) string {
	if c.IsEmpty() {
		return w.options.NullValue
	}
	return c.String()
}
