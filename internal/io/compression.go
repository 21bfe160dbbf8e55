package io

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression names a stream codec.
type Compression int

const (
	// NoCompression passes bytes through.
	NoCompression Compression = iota
	// Gzip is RFC 1952 gzip.
	Gzip
	// Zstd is Zstandard.
	Zstd
)

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", int(c))
	}
}

// CompressionFromPath picks the codec from a file extension and returns the
// path without it, so "a.csv.gz" yields Gzip and "a.csv".
func CompressionFromPath(path string) (Compression, string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip, strings.TrimSuffix(path, filepath.Ext(path))
	case ".zst", ".zstd":
		return Zstd, strings.TrimSuffix(path, filepath.Ext(path))
	default:
		return NoCompression, path
	}
}

// decompress wraps r with the decoder for c. The caller closes the result.
func decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case NoCompression:
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return zr, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
}

// compress wraps w with the encoder for c. Closing the result flushes the
// encoder but leaves w open.
func compress(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case NoCompression:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
