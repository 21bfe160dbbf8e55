package tabula

import (
	"io"

	tio "github.com/paveg/tabula/internal/io"
)

// I/O options.
type (
	CSVOptions  = tio.CSVOptions
	JSONOptions = tio.JSONOptions
	JSONFormat  = tio.JSONFormat
	Compression = tio.Compression
)

const (
	JSONArray = tio.JSONArray
	JSONLines = tio.JSONLines

	NoCompression = tio.NoCompression
	Gzip          = tio.Gzip
	Zstd          = tio.Zstd
)

// DefaultCSVOptions returns comma-separated options with a header row and
// type inference.
func DefaultCSVOptions() CSVOptions { return tio.DefaultCSVOptions() }

// DefaultJSONOptions returns array-format options with type inference.
func DefaultJSONOptions() JSONOptions { return tio.DefaultJSONOptions() }

// ReadCSV reads a frame from delimited text.
func ReadCSV(r io.Reader, opts CSVOptions) (*DataFrame, error) {
	return tio.NewCSVReader(r, opts).Read()
}

// WriteCSV writes a frame or frame view as delimited text.
func WriteCSV(w io.Writer, t Frame, opts CSVOptions) error {
	return tio.NewCSVWriter(w, opts).Write(t)
}

// ReadJSON reads a frame from a JSON array of objects or JSON lines.
func ReadJSON(r io.Reader, opts JSONOptions) (*DataFrame, error) {
	return tio.NewJSONReader(r, opts).Read()
}

// WriteJSON writes a frame or frame view as JSON objects keyed by column.
func WriteJSON(w io.Writer, t Frame, opts JSONOptions) error {
	return tio.NewJSONWriter(w, opts).Write(t)
}

// ReadFile reads a frame from path, choosing the format and compression
// from its extension.
func ReadFile(path string) (*DataFrame, error) {
	return tio.ReadFile(path)
}

// WriteFile writes t to path, choosing the format and compression from its
// extension.
func WriteFile(path string, t Frame) error {
	return tio.WriteFile(path, t)
}
