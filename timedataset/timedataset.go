// Package timedataset holds the hourly demand table the dashboard windows over. A table is built
// once, never mutated, and can be shared by any number of readers.
package timedataset

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrNoData             = errors.New("no data")
	ErrNonMontonic        = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrCannotInferFreq    = errors.New("cannot infer frequency from time series")
)

// Table represents the demand dataset keyed by a strictly increasing time axis. Every column has
// the same length as T. Missing values are stored as NaN.
type Table struct {
	T        []time.Time
	Actual   []float64
	Forecast []float64
	Upper    []float64
	Lower    []float64
}

// NewTable returns a Table built from copies of the input columns.
func NewTable(t []time.Time, actual, forecast, upper, lower []float64) (*Table, error) {
	if len(t) == 0 {
		return nil, ErrNoData
	}
	columns := []struct {
		name string
		y    []float64
	}{
		{"actual", actual},
		{"forecast", forecast},
		{"upper", upper},
		{"lower", lower},
	}
	for _, col := range columns {
		if len(col.y) != len(t) {
			return nil, fmt.Errorf(
				"time feature has length of %d, but %s has a length of %d, %w",
				len(t), col.name, len(col.y), ErrDatasetLenMismatch,
			)
		}
	}

	if !TimeSlice(t).StrictlyIncreasing() {
		return nil, fmt.Errorf("timestamps must be strictly increasing, %w", ErrNonMontonic)
	}

	return &Table{
		T:        copyTime(t),
		Actual:   copyFloat(actual),
		Forecast: copyFloat(forecast),
		Upper:    copyFloat(upper),
		Lower:    copyFloat(lower),
	}, nil
}

// Len returns the number of rows, zero for a nil table.
func (tbl *Table) Len() int {
	if tbl == nil {
		return 0
	}
	return len(tbl.T)
}

// Index returns the row position of ts. Only exact matches are reported.
func (tbl *Table) Index(ts time.Time) (int, bool) {
	if tbl == nil {
		return 0, false
	}
	i := sort.Search(len(tbl.T), func(i int) bool {
		return !tbl.T[i].Before(ts)
	})
	if i < len(tbl.T) && tbl.T[i].Equal(ts) {
		return i, true
	}
	return 0, false
}

// TimeSlice returns the time axis of the table.
func (tbl *Table) TimeSlice() TimeSlice {
	if tbl == nil {
		return nil
	}
	return TimeSlice(tbl.T)
}

// Copy returns a deep copy of the table.
func (tbl *Table) Copy() *Table {
	if tbl == nil {
		return nil
	}
	return &Table{
		T:        copyTime(tbl.T),
		Actual:   copyFloat(tbl.Actual),
		Forecast: copyFloat(tbl.Forecast),
		Upper:    copyFloat(tbl.Upper),
		Lower:    copyFloat(tbl.Lower),
	}
}

func copyTime(t []time.Time) []time.Time {
	out := make([]time.Time, len(t))
	copy(out, t)
	return out
}

func copyFloat(y []float64) []float64 {
	out := make([]float64, len(y))
	copy(out, y)
	return out
}
