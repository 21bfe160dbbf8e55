// Package io reads and writes DataFrames as CSV and JSON and bridges them to
// Apache Arrow records.
//
// Readers build String columns from the raw text and convert each column to
// an inferred alternative with the compute cast layer, so a column either
// converts completely or keeps its text. Input and output may be compressed
// with gzip or zstd.
package io

import (
	"io"

	"github.com/paveg/tabula/internal/dataframe"
)

// DataReader defines the interface for reading data from various sources
type DataReader interface {
	// Read reads data from the source and returns a DataFrame
	Read() (*dataframe.DataFrame, error)
}

// DataWriter defines the interface for writing data to various destinations
type DataWriter interface {
	// Write writes a frame or view to the destination
	Write(t dataframe.Table) error
}

// CSVOptions contains configuration options for CSV operations
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers. Without one,
	// columns receive default names.
	Header bool
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
	// InferTypes converts columns whose every value parses as one
	// alternative. When false every column stays String.
	InferTypes bool
	// NullValue is the text of an empty cell, read and written.
	NullValue string
	// Compression of the byte stream.
	Compression Compression
}

// DefaultCSVOptions returns default CSV options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:  ',',
		Header:     true,
		InferTypes: true,
	}
}

// CSVReader reads CSV data and converts it to DataFrames
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
}

// NewCSVReader creates a new CSV reader with the specified options
func NewCSVReader(reader io.Reader, options CSVOptions) *CSVReader {
	return &CSVReader{
		reader:  reader,
		options: options,
	}
}

// CSVWriter writes DataFrames to CSV format
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer with the specified options
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{
		writer:  writer,
		options: options,
	}
}

// JSONFormat selects the JSON layout.
type JSONFormat int

const (
	// JSONArray is a single array of objects.
	JSONArray JSONFormat = iota
	// JSONLines is one object per line.
	JSONLines
)

// JSONOptions contains configuration options for JSON operations
type JSONOptions struct {
	Format JSONFormat
	// TypeInference keeps JSON numbers and booleans typed. When false every
	// value is read as its text.
	TypeInference bool
	// MaxRecords limits the records read; zero reads all.
	MaxRecords int
	// Indent pretty-prints array output.
	Indent bool
	// Compression of the byte stream.
	Compression Compression
}

// DefaultJSONOptions returns default JSON options
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{
		Format:        JSONArray,
		TypeInference: true,
	}
}

// JSONReader reads JSON data and converts it to DataFrames
type JSONReader struct {
	reader  io.Reader
	options JSONOptions
}

// NewJSONReader creates a new JSON reader with the specified options
func NewJSONReader(reader io.Reader, options JSONOptions) *JSONReader {
	return &JSONReader{
		reader:  reader,
		options: options,
	}
}

// JSONWriter writes DataFrames to JSON format
type JSONWriter struct {
	writer  io.Writer
	options JSONOptions
}

// NewJSONWriter creates a new JSON writer with the specified options
func NewJSONWriter(writer io.Writer, options JSONOptions) *JSONWriter {
	return &JSONWriter{
		writer:  writer,
		options: options,
	}
}
