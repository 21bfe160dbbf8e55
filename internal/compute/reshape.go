package compute

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/parallel"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/validation"
)

// DropRows returns a copy of f without the rows at the given indices. The
// remaining rows keep their order; indices may repeat and need not be sorted.
func DropRows(f Frame, rows []int) (*dataframe.DataFrame, error) {
	keep, err := keepRows("DropRows", f.Len(), rows)
	if err != nil {
		return nil, err
	}
	return gatherRows(f, keep)
}

// DropRowsInPlace removes the rows at the given indices from df.
func DropRowsInPlace(df *dataframe.DataFrame, rows []int) error {
	kept, err := DropRows(df, rows)
	if err != nil {
		return err
	}
	return replaceRows(df, kept)
}

func keepRows(op string, n int, rows []int) ([]int, error) {
	if err := validation.ValidateIndex(n, op, rows...); err != nil {
		return nil, err
	}
	drop := make([]bool, n)
	for _, r := range rows {
		drop[r] = true
	}
	keep := make([]int, 0, n)
	for i, d := range drop {
		if !d {
			keep = append(keep, i)
		}
	}
	return keep, nil
}

// DropColumns returns a copy of f without the named columns.
func DropColumns(f Frame, names ...string) (*dataframe.DataFrame, error) {
	if err := validation.ValidateColumns(f, "DropColumns", names...); err != nil {
		return nil, err
	}
	var out []*series.Series
	for _, c := range columns(f) {
		if slices.Contains(names, c.Name()) {
			continue
		}
		out = append(out, series.FromView(c))
	}
	return assemble(out)
}

// Concat appends the parts one after another into a new series named after
// the first part. All parts must hold the same alternative.
func Concat(parts ...Reader) (*series.Series, error) {
	if len(parts) == 0 {
		return series.New(""), nil
	}
	dtype := cell.Unconstrained
	var cells []cell.Cell
	for _, p := range parts {
		if d := dtypeOf(p); d != cell.Unconstrained {
			if dtype != cell.Unconstrained && d != dtype {
				return nil, errors.NewHomogeneityError("Concat", nameOf(parts[0]), dtype.String(), d.String())
			}
			dtype = d
		}
		for i := 0; i < p.Len(); i++ {
			cells = append(cells, p.Get(i).Clone())
		}
	}
	s := series.New(nameOf(parts[0]))
	if err := s.Replace(cells, dtype); err != nil {
		return nil, err
	}
	return s, nil
}

// ConcatFrames stacks frames vertically. Every frame must have the same
// column names in the same order.
func ConcatFrames(frames ...Frame) (*dataframe.DataFrame, error) {
	if len(frames) == 0 {
		return dataframe.New()
	}
	names := frames[0].Columns()
	for _, f := range frames[1:] {
		if f.Width() != len(names) {
			return nil, errors.NewSizeMismatchError("ConcatFrames", len(names), f.Width()).
				WithHint("frames must have the same columns")
		}
		if !slices.Equal(f.Columns(), names) {
			return nil, errors.NewInvalidInputError("ConcatFrames",
				fmt.Sprintf("column names differ: %v vs %v", names, f.Columns()))
		}
	}

	parts := make([][]series.NamedReader, len(frames))
	for j, f := range frames {
		parts[j] = columns(f)
	}
	out := make([]*series.Series, len(names))
	for k := range names {
		col := make([]Reader, len(frames))
		for j := range frames {
			col[j] = parts[j][k]
		}
		s, err := Concat(col...)
		if err != nil {
			return nil, withColumn(err, names[k])
		}
		out[k] = s
	}
	return assemble(out)
}

// ConcatColumns places the columns of every frame side by side. Frames must
// have the same row count and distinct column names.
func ConcatColumns(frames ...Frame) (*dataframe.DataFrame, error) {
	var out []*series.Series
	for _, f := range frames {
		for _, c := range columns(f) {
			out = append(out, series.FromView(c))
		}
	}
	return assemble(out)
}

// Unique returns the distinct elements of in in order of first appearance.
// NaN never equals itself, so every NaN is kept.
func Unique(in Reader) (*series.Series, error) {
	buckets := make(map[uint64][]int)
	var idx []int
	for i := 0; i < in.Len(); i++ {
		c := in.Get(i)
		h := c.Hash()
		seen := false
		for _, j := range buckets[h] {
			if cell.Equal(in.Get(j), c) {
				seen = true
				break
			}
		}
		if !seen {
			buckets[h] = append(buckets[h], i)
			idx = append(idx, i)
		}
	}
	return gather(in, idx)
}

// DropDuplicates returns a copy of f keeping the first of every group of
// equal rows. With subset, only the named columns are compared.
func DropDuplicates(f Frame, subset ...string) (*dataframe.DataFrame, error) {
	keys, err := keyColumns("DropDuplicates", f, subset)
	if err != nil {
		return nil, err
	}

	hashes := make([]uint64, f.Len())
	_ = execute("DropDuplicates", f.Len(), rowHasher(f, keys, hashes))

	buckets := make(map[uint64][]int)
	var keep []int
	for i, h := range hashes {
		seen := false
		for _, j := range buckets[h] {
			if sameRow(f, keys, i, j) {
				seen = true
				break
			}
		}
		if !seen {
			buckets[h] = append(buckets[h], i)
			keep = append(keep, i)
		}
	}
	return gatherRows(f, keep)
}

func keyColumns(op string, f Frame, subset []string) ([]int, error) {
	names := f.Columns()
	if len(subset) == 0 {
		keys := make([]int, len(names))
		for k := range keys {
			keys[k] = k
		}
		return keys, nil
	}
	if err := validation.ValidateColumns(f, op, subset...); err != nil {
		return nil, err
	}
	keys := make([]int, len(subset))
	for j, name := range subset {
		keys[j] = slices.Index(names, name)
	}
	return keys, nil
}

// rowHasher fills hashes[i] with an xxhash digest of the key cells of row i.
func rowHasher(f Frame, keys []int, hashes []uint64) func(r parallel.Range, _ *failures) {
	return func(r parallel.Range, _ *failures) {
		d := xxhash.New()
		var buf [8]byte
		for i := r.Lo; i < r.Hi; i++ {
			d.Reset()
			for _, k := range keys {
				binary.LittleEndian.PutUint64(buf[:], f.Get(k, i).Hash())
				_, _ = d.Write(buf[:])
			}
			hashes[i] = d.Sum64()
		}
	}
}

func sameRow(f Frame, keys []int, a, b int) bool {
	for _, k := range keys {
		if !cell.Equal(f.Get(k, a), f.Get(k, b)) {
			return false
		}
	}
	return true
}
