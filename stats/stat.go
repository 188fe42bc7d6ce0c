// Package stats flags unusual points in a window.
package stats

import (
	"math"
	"sort"
)

// OutlierOptions configures Tukey style outlier detection on the forecast residual.
type OutlierOptions struct {
	UpperPercentile float64
	LowerPercentile float64
	TukeyFactor     float64

	// MinSamples is the smallest number of observed residuals worth scoring.
	MinSamples int
}

func NewOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		UpperPercentile: 0.9,
		LowerPercentile: 0.1,
		TukeyFactor:     1.0,
		MinSamples:      24,
	}
}

// Residuals returns actual - forecast, NaN where either is missing.
func Residuals(actual, forecast []float64) []float64 {
	n := min(len(actual), len(forecast))
	res := make([]float64, n)
	for i := 0; i < n; i++ {
		res[i] = actual[i] - forecast[i]
	}
	return res
}

// DetectOutliers returns the indexes of y lying outside the percentile range widened by
// tukeyFactor times the inner range. NaN values are never outliers.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, 0, len(y))
	for _, v := range y {
		if !math.IsNaN(v) {
			yCopy = append(yCopy, v)
		}
	}
	if len(yCopy) == 0 {
		return nil
	}
	sort.Float64s(yCopy)

	last := len(yCopy) - 1
	lowerIdx := min(int(math.Floor(float64(len(yCopy))*lowerPerc)), last)
	upperIdx := min(int(math.Ceil(float64(len(yCopy))*upperPerc)), last)

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if math.IsNaN(y[i]) {
			continue
		}
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// ResidualOutliers runs DetectOutliers on the forecast residual. Nothing is flagged when fewer
// than MinSamples residuals are observed.
func ResidualOutliers(actual, forecast []float64, opt *OutlierOptions) []int {
	if opt == nil {
		opt = NewOutlierOptions()
	}
	res := Residuals(actual, forecast)

	var observed int
	for _, v := range res {
		if !math.IsNaN(v) {
			observed++
		}
	}
	if observed == 0 || observed < opt.MinSamples {
		return nil
	}
	return DetectOutliers(res, opt.LowerPercentile, opt.UpperPercentile, opt.TukeyFactor)
}
