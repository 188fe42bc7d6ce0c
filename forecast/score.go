// Package forecast scores a forecast series and its confidence band against observed demand.
// Rows where either side is missing (NaN) are ignored.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoObservations = errors.New("no observed values to score against")
	ErrNonFiniteScore = errors.New("score is not a finite number")
)

// Scores tracks the fit scores
type Scores struct {
	MSE      float64 `json:"mean_squared_error"`
	MAPE     float64 `json:"mean_average_percent_error"`
	R2       float64 `json:"r_squared"`
	Coverage float64 `json:"band_coverage"`
	Observed int     `json:"observed"`
}

// NewScores calculates the fit scores of the forecast and its band against the actual values.
func NewScores(actual, forecast, upper, lower []float64) (*Scores, error) {
	observed := countPairs(forecast, actual)
	if observed == 0 {
		return nil, ErrNoObservations
	}

	mse, err := MSE(forecast, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mape, err := MAPE(forecast, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean average percent error, %w", err)
	}
	rs, err := RSquared(forecast, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}
	coverage, err := Coverage(actual, upper, lower)
	if err != nil {
		return nil, fmt.Errorf("unable to compute band coverage, %w", err)
	}

	scores := []struct {
		name string
		v    float64
	}{
		{"mse", mse},
		{"mape", mape},
		{"r2", rs},
		{"coverage", coverage},
	}
	for _, sc := range scores {
		if math.IsNaN(sc.v) || math.IsInf(sc.v, 0) {
			return nil, fmt.Errorf("%s is %v, %w", sc.name, sc.v, ErrNonFiniteScore)
		}
	}

	return &Scores{
		MSE:      mse,
		MAPE:     mape,
		R2:       rs,
		Coverage: coverage,
		Observed: observed,
	}, nil
}

// MSE computes the mean squared error. This is the same as sum((y-yhat)^2)/n.
// A score of 0 means a perfect match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	var mse float64
	var n int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		mse += math.Pow(actual[i]-predicted[i], 2.0)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return mse / float64(n), nil
}

// MAPE calculates the mean average percent error. This is the same as sum(abs((y-yhat)/y))/n.
// A score of 0 means a perfect match with no errors.
func MAPE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	var mape float64
	var n int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) || actual[i] == 0 {
			continue
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return mape / float64(n), nil
}

// RSquared computes the r squared value between the predicted and actual where 1.0 means perfect
// fit and 0 represents no relationship
func RSquared(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	predictCopy := make([]float64, 0, len(predicted))
	actualCopy := make([]float64, 0, len(actual))
	for i := 0; i < len(predicted); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		predictCopy = append(predictCopy, predicted[i])
		actualCopy = append(actualCopy, actual[i])
	}
	if len(actualCopy) == 0 {
		return 1.0, nil
	}
	r2 := stat.RSquaredFrom(predictCopy, actualCopy, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		return 1.0, nil
	}
	return r2, nil
}

// Coverage returns the fraction of observed values that fall inside the band. Bounds given in
// the wrong order are treated as the band between them.
func Coverage(actual, upper, lower []float64) (float64, error) {
	if len(upper) != len(actual) || len(lower) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d and %d, %w", len(actual), len(upper), len(lower), ErrResLenMismatch)
	}

	var inside, n int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(upper[i]) || math.IsNaN(lower[i]) {
			continue
		}
		lo, hi := math.Min(lower[i], upper[i]), math.Max(lower[i], upper[i])
		if actual[i] >= lo && actual[i] <= hi {
			inside++
		}
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return float64(inside) / float64(n), nil
}

func countPairs(a, b []float64) int {
	var n int
	for i := 0; i < len(a) && i < len(b); i++ {
		if !math.IsNaN(a[i]) && !math.IsNaN(b[i]) {
			n++
		}
	}
	return n
}
