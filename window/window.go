// Package window selects the visible part of the demand table for a start timestamp and a
// projection horizon.
//
// The table always carries a fixed lookahead of LookaheadBudget hours past the last observation.
// Of that budget, horizon hours are shown as projection and the remaining LookaheadBudget-horizon
// trailing rows are trimmed:
//
//	rows shown = max(0, rows from start - (LookaheadBudget - horizon))
package window

import (
	"errors"
	"fmt"
	"time"

	"github.com/respinosap/t2-repo/timedataset"
)

const (
	LookaheadBudget = 120
	MinHorizon      = 0
	MaxHorizon      = LookaheadBudget - 1
)

var (
	ErrStartNotFound  = errors.New("start timestamp not found in table")
	ErrInvalidHorizon = errors.New("horizon outside of allowed range")
)

// Request selects a window by its first timestamp and projection horizon in hours.
type Request struct {
	Start   time.Time `json:"start"`
	Horizon int       `json:"horizon"`
}

// Compose is shorthand for Compose(tbl, r.Start, r.Horizon).
func (r Request) Compose(tbl *timedataset.Table) (Result, error) {
	return Compose(tbl, r.Start, r.Horizon)
}

// ClampHorizon bounds horizon to [MinHorizon, MaxHorizon].
func ClampHorizon(horizon int) int {
	return min(max(horizon, MinHorizon), MaxHorizon)
}

// ValidateHorizon reports whether horizon would be clamped by Compose.
func ValidateHorizon(horizon int) error {
	if horizon < MinHorizon || horizon > MaxHorizon {
		return fmt.Errorf("got %d, expected [%d, %d], %w", horizon, MinHorizon, MaxHorizon, ErrInvalidHorizon)
	}
	return nil
}

// Trim returns the number of trailing rows excluded for a horizon after clamping.
func Trim(horizon int) int {
	return LookaheadBudget - ClampHorizon(horizon)
}

// Compose returns the rows of tbl starting exactly at start, minus the trailing Trim(horizon)
// rows of the table. Out of range horizons are clamped. A start that is not a row of the table
// yields ErrStartNotFound with an empty result. When the trim consumes every remaining row the
// result is empty and no error is returned.
//
// The returned series are copies and never alias the table.
func Compose(tbl *timedataset.Table, start time.Time, horizon int) (Result, error) {
	from, found := tbl.Index(start)
	if !found {
		return Empty(), fmt.Errorf("%s, %w", start.Format(time.DateTime), ErrStartNotFound)
	}

	to := tbl.Len() - Trim(horizon)
	if to <= from {
		return Empty(), nil
	}

	return Result{
		T:        cloneTime(tbl.T[from:to]),
		Actual:   cloneFloat(tbl.Actual[from:to]),
		Forecast: cloneFloat(tbl.Forecast[from:to]),
		Upper:    cloneFloat(tbl.Upper[from:to]),
		Lower:    cloneFloat(tbl.Lower[from:to]),
	}, nil
}

func cloneTime(t []time.Time) []time.Time {
	out := make([]time.Time, len(t))
	copy(out, t)
	return out
}

func cloneFloat(y []float64) []float64 {
	out := make([]float64, len(y))
	copy(out, y)
	return out
}
