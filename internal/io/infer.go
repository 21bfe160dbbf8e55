package io

import (
	"strconv"
	"strings"

	"github.com/paveg/tabula/internal/cell"
	"github.com/paveg/tabula/internal/compute"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/series"
)

// inferTag returns the most specific alternative every non-null value
// parses as: Bool, then Int64, then Float64. Columns of only nulls stay
// String.
func inferTag(values []string, null string) cell.Tag {
	canBeBool, canBeInt, canBeFloat := true, true, true
	seen := false
	for _, raw := range values {
		if raw == null {
			continue
		}
		seen = true
		v := strings.TrimSpace(raw)
		if canBeBool && !isBoolLiteral(v) {
			canBeBool = false
		}
		if canBeInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				canBeInt = false
			}
		}
		if canBeFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				canBeFloat = false
			}
		}
		if !canBeBool && !canBeFloat {
			return cell.String
		}
	}

	switch {
	case !seen:
		return cell.String
	case canBeBool:
		return cell.Bool
	case canBeInt:
		return cell.Int64
	case canBeFloat:
		return cell.Float64
	default:
		return cell.String
	}
}

func isBoolLiteral(v string) bool {
	switch v {
	case "true", "True", "TRUE", "false", "False", "FALSE":
		return true
	}
	return false
}

// textColumn builds a String column from raw values; values equal to null
// become empty cells.
func textColumn(name string, values []string, null string) (*series.Series, error) {
	cells := make([]cell.Cell, len(values))
	for i, v := range values {
		if v != null {
			cells[i] = cell.Of(v)
		}
	}
	s := series.New(name)
	if err := s.Replace(cells, cell.String); err != nil {
		return nil, err
	}
	return s, nil
}

// textFrame assembles String columns and, when infer is set, converts each
// to its inferred alternative.
func textFrame(names []string, columns [][]string, null string, infer bool) (*dataframe.DataFrame, error) {
	cols := make([]*series.Series, len(names))
	for k, name := range names {
		s, err := textColumn(name, columns[k], null)
		if err != nil {
			return nil, err
		}
		cols[k] = s
	}
	df, err := dataframe.New(cols...)
	if err != nil {
		return nil, err
	}
	if !infer {
		return df, nil
	}

	targets := make(map[string]cell.Tag)
	for k, name := range df.Columns() {
		if tag := inferTag(columns[k], null); tag != cell.String {
			targets[name] = tag
		}
	}
	err = compute.CastColumns(df, func(name string) (cell.Tag, bool) {
		tag, ok := targets[name]
		return tag, ok
	})
	if err != nil {
		return nil, err
	}
	return df, nil
}
