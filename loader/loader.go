// Package loader reads the demand dataset from a flat file into a timedataset.Table.
//
// Both CSV and XLSX (first sheet) sources are supported. The header must carry the columns named
// in Columns; any other column is ignored.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/respinosap/t2-repo/timedataset"
	"github.com/xuri/excelize/v2"
)

const (
	ColumnTime     = "time"
	ColumnActual   = "AT_load_actual_entsoe_transparency"
	ColumnForecast = "forecast"
	ColumnUpper    = "Upper bound"
	ColumnLower    = "Lower bound"
)

var (
	ErrDataUnavailable = errors.New("data source missing or unreadable")
	ErrDataMalformed   = errors.New("data source has an unexpected schema or content")
)

// Columns lists the header names the loader requires, in the order they are stored.
var Columns = []string{ColumnTime, ColumnActual, ColumnForecast, ColumnUpper, ColumnLower}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
}

var nullValues = map[string]struct{}{
	"":     {},
	"nan":  {},
	"null": {},
	"na":   {},
	"n/a":  {},
	"none": {},
}

// Load reads the dataset at path. Files ending in .xlsx are read from their first sheet, anything
// else is parsed as CSV.
func Load(path string) (*timedataset.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadXLSX(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s, %w, %w", path, ErrDataUnavailable, err)
	}
	defer file.Close()

	tbl, err := LoadCSVFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("unable to load %s, %w", path, err)
	}
	return tbl, nil
}

// LoadCSVFromReader parses a comma separated table with a header row.
func LoadCSVFromReader(r io.Reader) (*timedataset.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("unable to parse csv, %w, %w", ErrDataMalformed, err)
		}
		return nil, fmt.Errorf("unable to read csv, %w, %w", ErrDataUnavailable, err)
	}
	return parseRows(rows)
}

func loadXLSX(path string) (*timedataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s, %w, %w", path, ErrDataUnavailable, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("unable to read first sheet of %s, %w, %w", path, ErrDataUnavailable, err)
	}

	tbl, err := parseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("unable to load %s, %w", path, err)
	}
	return tbl, nil
}

func parseRows(rows [][]string) (*timedataset.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header, %w", ErrDataMalformed)
	}

	idx, err := columnIndexes(rows[0])
	if err != nil {
		return nil, err
	}

	data := rows[1:]
	n := len(data)
	t := make([]time.Time, 0, n)
	values := make([][]float64, len(Columns)-1)
	for i := range values {
		values[i] = make([]float64, 0, n)
	}

	for i, row := range data {
		line := i + 2
		if isBlank(row) {
			continue
		}

		ts, err := ParseTime(cell(row, idx[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d, %w", line, err)
		}
		t = append(t, ts)

		for c := 1; c < len(Columns); c++ {
			v, err := ParseValue(cell(row, idx[c]))
			if err != nil {
				return nil, fmt.Errorf("line %d column %q, %w", line, Columns[c], err)
			}
			values[c-1] = append(values[c-1], v)
		}
	}

	tbl, err := timedataset.NewTable(t, values[0], values[1], values[2], values[3])
	if err != nil {
		return nil, fmt.Errorf("invalid table, %w, %w", ErrDataMalformed, err)
	}
	return tbl, nil
}

func columnIndexes(header []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, exists := positions[name]; !exists {
			positions[name] = i
		}
	}

	idx := make([]int, 0, len(Columns))
	for _, col := range Columns {
		pos, exists := positions[col]
		if !exists {
			return nil, fmt.Errorf("missing column %q, %w", col, ErrDataMalformed)
		}
		idx = append(idx, pos)
	}
	return idx, nil
}

// ParseTime parses an ISO-8601 timestamp into a timezone-naive time. Values with an offset are
// converted to UTC first. The result is always in time.UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		ts, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q, %w", s, ErrDataMalformed)
}

// ParseValue parses a numeric cell. Empty and null-like cells are returned as NaN, infinite values
// are malformed.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if _, isNull := nullValues[strings.ToLower(s)]; isNull {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable value %q, %w", s, ErrDataMalformed)
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q, %w", s, ErrDataMalformed)
	}
	return v, nil
}

func cell(row []string, i int) string {
	// spreadsheet rows drop trailing empty cells
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
