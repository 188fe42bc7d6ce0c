package window

import "time"

// Result holds four series sharing the time axis T. All slices have the same length.
type Result struct {
	T        []time.Time
	Actual   []float64
	Forecast []float64
	Upper    []float64
	Lower    []float64
}

// Empty returns a result with four empty series.
func Empty() Result {
	return Result{
		T:        []time.Time{},
		Actual:   []float64{},
		Forecast: []float64{},
		Upper:    []float64{},
		Lower:    []float64{},
	}
}

func (r Result) Len() int {
	return len(r.T)
}

func (r Result) IsEmpty() bool {
	return len(r.T) == 0
}

// StartTime returns the first timestamp or the zero time for an empty result.
func (r Result) StartTime() time.Time {
	if r.IsEmpty() {
		return time.Time{}
	}
	return r.T[0]
}

// EndTime returns the last timestamp or the zero time for an empty result.
func (r Result) EndTime() time.Time {
	if r.IsEmpty() {
		return time.Time{}
	}
	return r.T[len(r.T)-1]
}
