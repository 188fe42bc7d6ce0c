package forecast

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the demand and band shown in a window. Fields are NaN when no value backs
// them.
type Summary struct {
	PeakActual    float64
	MeanActual    float64
	PeakForecast  float64
	MeanBandWidth float64
}

// Summarize computes the Summary of aligned actual, forecast and band series.
func Summarize(actual, forecast, upper, lower []float64) Summary {
	obs := dropNaN(actual)
	fc := dropNaN(forecast)

	width := make([]float64, 0, len(upper))
	for i := 0; i < len(upper) && i < len(lower); i++ {
		if math.IsNaN(upper[i]) || math.IsNaN(lower[i]) {
			continue
		}
		width = append(width, math.Abs(upper[i]-lower[i]))
	}

	s := Summary{
		PeakActual:    math.NaN(),
		MeanActual:    math.NaN(),
		PeakForecast:  math.NaN(),
		MeanBandWidth: math.NaN(),
	}
	if len(obs) > 0 {
		s.PeakActual = floats.Max(obs)
		s.MeanActual = stat.Mean(obs, nil)
	}
	if len(fc) > 0 {
		s.PeakForecast = floats.Max(fc)
	}
	if len(width) > 0 {
		s.MeanBandWidth = stat.Mean(width, nil)
	}
	return s
}

func dropNaN(y []float64) []float64 {
	out := make([]float64, 0, len(y))
	for _, v := range y {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
