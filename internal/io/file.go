package io

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paveg/tabula/internal/dataframe"
)

// Format names a text layout understood by ReadFile and WriteFile.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatJSONLines
)

// DetectFormat infers the layout and compression of path from its
// extensions, as in "sales.jsonl.zst".
func DetectFormat(path string) (Format, Compression, error) {
	comp, base := CompressionFromPath(path)
	switch ext := strings.ToLower(filepath.Ext(base)); ext {
	case ".csv", ".tsv", ".txt":
		return FormatCSV, comp, nil
	case ".json":
		return FormatJSON, comp, nil
	case ".jsonl", ".ndjson":
		return FormatJSONLines, comp, nil
	default:
		return 0, comp, fmt.Errorf("unknown file format %q", ext)
	}
}

// ReadFile reads a CSV or JSON file with default options, choosing the
// layout and compression from the file name.
func ReadFile(path string) (*dataframe.DataFrame, error) {
	format, comp, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return newReader(f, format, comp, path).Read()
}

// WriteFile writes t to path, choosing the layout and compression from the
// file name.
func WriteFile(path string, t dataframe.Table) error {
	format, comp, err := DetectFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := newWriter(f, format, comp, path).Write(t); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func newReader(f *os.File, format Format, comp Compression, path string) DataReader {
	switch format {
	case FormatJSON, FormatJSONLines:
		opts := DefaultJSONOptions()
		opts.Compression = comp
		if format == FormatJSONLines {
			opts.Format = JSONLines
		}
		return NewJSONReader(f, opts)
	default:
		opts := DefaultCSVOptions()
		opts.Compression = comp
		opts.Delimiter = delimiterFor(path)
		return NewCSVReader(f, opts)
	}
}

func newWriter(f *os.File, format Format, comp Compression, path string) DataWriter {
	switch format {
	case FormatJSON, FormatJSONLines:
		opts := DefaultJSONOptions()
		opts.Compression = comp
		if format == FormatJSONLines {
			opts.Format = JSONLines
		}
		return NewJSONWriter(f, opts)
	default:
		opts := DefaultCSVOptions()
		opts.Compression = comp
		opts.Delimiter = delimiterFor(path)
		return NewCSVWriter(f, opts)
	}
}

func delimiterFor(path string) rune {
	_, base := CompressionFromPath(path)
	if strings.EqualFold(filepath.Ext(base), ".tsv") {
		return '\t'
	}
	return ','
}
