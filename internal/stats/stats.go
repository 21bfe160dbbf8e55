// Package stats computes descriptive statistics over numeric series and
// frames using gonum.
//
// Values are converted with compute.Cast to Float64; empty cells and NaN are
// ignored. A statistic over no values is NaN.
package stats

import (
	"math"
	"slices"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/compute"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/validation"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reader is any readable column.
type Reader = compute.Reader

// Statistics names the rows of DescribeFrame in order.
var Statistics = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Summary holds the descriptive statistics of one column.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Values returns the numeric elements of in as sorted float64s, skipping
// empty cells and NaN. Columns that are not numeric or Bool are rejected.
func Values(in Reader) ([]float64, error) {
	if err := validation.NewTagValidator(elementTag(in), "Values", "numeric", summarizable).Validate(); err != nil {
		return nil, err
	}
	f, err := compute.Cast(in, cell.Float64)
	if err != nil {
		return nil, err
	}
	x := compute.Accumulate(f, make([]float64, 0, f.Len()), func(acc []float64, v float64) []float64 {
		if math.IsNaN(v) {
			return acc
		}
		return append(acc, v)
	})
	slices.Sort(x)
	return x, nil
}

// Count returns the number of non-empty, non-NaN numeric elements.
func Count(in Reader) (int, error) {
	x, err := Values(in)
	return len(x), err
}

// Sum returns the sum of the numeric elements; zero for no values.
func Sum(in Reader) (float64, error) {
	x, err := Values(in)
	if err != nil {
		return 0, err
	}
	return floats.Sum(x), nil
}

// Mean returns the arithmetic mean.
func Mean(in Reader) (float64, error) {
	return apply(in, func(x []float64) float64 { return stat.Mean(x, nil) })
}

// Variance returns the unbiased sample variance.
func Variance(in Reader) (float64, error) {
	return apply(in, func(x []float64) float64 { return stat.Variance(x, nil) })
}

// StdDev returns the sample standard deviation.
func StdDev(in Reader) (float64, error) {
	return apply(in, func(x []float64) float64 { return stat.StdDev(x, nil) })
}

// Skew returns the sample skewness.
func Skew(in Reader) (float64, error) {
	return apply(in, func(x []float64) float64 { return stat.Skew(x, nil) })
}

// Kurtosis returns the sample excess kurtosis.
func Kurtosis(in Reader) (float64, error) {
	return apply(in, func(x []float64) float64 { return stat.ExKurtosis(x, nil) })
}

// Min returns the smallest numeric element.
func Min(in Reader) (float64, error) {
	return apply(in, floats.Min)
}

// Max returns the largest numeric element.
func Max(in Reader) (float64, error) {
	return apply(in, floats.Max)
}

// Quantile returns the empirical p-quantile, 0 <= p <= 1.
func Quantile(in Reader, p float64) (float64, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, errors.NewOutOfRangeError("Quantile", "p must be within [0, 1]")
	}
	return apply(in, func(x []float64) float64 { return stat.Quantile(p, stat.Empirical, x, nil) })
}

// Median returns the empirical median.
func Median(in Reader) (float64, error) {
	return Quantile(in, 0.5)
}

// Describe summarizes one column.
func Describe(in Reader) (Summary, error) {
	x, err := Values(in)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{Count: len(x)}
	if len(x) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s, nil
	}
	s.Mean, s.Std = stat.MeanStdDev(x, nil)
	s.Min, s.Max = x[0], x[len(x)-1]
	s.Q25 = stat.Quantile(0.25, stat.Empirical, x, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, x, nil)
	s.Q75 = stat.Quantile(0.75, stat.Empirical, x, nil)
	return s, nil
}

// values returns the summary in Statistics order.
func (s Summary) values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max}
}

// DescribeFrame summarizes every numeric column of f. The result has a
// "stat" column naming each statistic followed by one Float64 column per
// numeric input column.
func DescribeFrame(f compute.Frame) (*dataframe.DataFrame, error) {
	cols := []*series.Series{series.Of("stat", Statistics)}
	names := f.Columns()
	for k, name := range names {
		col := column{f: f, k: k}
		if t := elementTag(col); t != cell.Unconstrained && !t.IsNumeric() {
			continue
		}
		s, err := Describe(col)
		if err != nil {
			return nil, err
		}
		cols = append(cols, series.Of(name, s.values()))
	}
	return dataframe.New(cols...)
}

func summarizable(t cell.Tag) bool {
	return t == cell.Unconstrained || t == cell.Bool || t.IsNumeric()
}

func apply(in Reader, fn func([]float64) float64) (float64, error) {
	x, err := Values(in)
	if err != nil {
		return 0, err
	}
	if len(x) == 0 {
		return math.NaN(), nil
	}
	return fn(x), nil
}

// elementTag returns the reader's dtype, or the tag of its first non-empty
// element when it does not report one.
func elementTag(in Reader) cell.Tag {
	if d, ok := in.(interface{ Dtype() cell.Tag }); ok {
		return d.Dtype()
	}
	for i := 0; i < in.Len(); i++ {
		if c := in.Get(i); !c.IsEmpty() {
			return c.Tag()
		}
	}
	return cell.Unconstrained
}

// column reads one column of a frame.
type column struct {
	f compute.Frame
	k int
}

func (c column) Len() int            { return c.f.Len() }
func (c column) Get(i int) cell.Cell { return c.f.Get(c.k, i) }
