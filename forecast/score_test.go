package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMSE(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		expected  float64
		err       error
	}{
		"length mismatch": {
			predicted: []float64{1},
			actual:    []float64{1, 2},
			err:       ErrResLenMismatch,
		},
		"perfect": {
			predicted: []float64{1, 2, 3},
			actual:    []float64{1, 2, 3},
			expected:  0,
		},
		"skips missing": {
			predicted: []float64{1, 2, 3, 4},
			actual:    []float64{2, math.NaN(), 5, math.NaN()},
			expected:  2.5,
		},
		"all missing": {
			predicted: []float64{1, 2},
			actual:    []float64{math.NaN(), math.NaN()},
			expected:  0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := MSE(td.predicted, td.actual)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, td.expected, res, 1e-9)
		})
	}
}

func TestMAPE(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		expected  float64
		err       error
	}{
		"length mismatch": {
			predicted: []float64{1, 2},
			actual:    []float64{1},
			err:       ErrResLenMismatch,
		},
		"ten percent off": {
			predicted: []float64{110, 90},
			actual:    []float64{100, 100},
			expected:  0.1,
		},
		"skips zero and missing": {
			predicted: []float64{110, 5, 1},
			actual:    []float64{100, 0, math.NaN()},
			expected:  0.1,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := MAPE(td.predicted, td.actual)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, td.expected, res, 1e-9)
		})
	}
}

func TestRSquared(t *testing.T) {
	r2, err := RSquared([]float64{1, 2, 3, math.NaN()}, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r2, 1e-9)

	r2, err = RSquared(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, r2)

	_, err = RSquared([]float64{1}, nil)
	assert.ErrorIs(t, err, ErrResLenMismatch)
}

func TestCoverage(t *testing.T) {
	testData := map[string]struct {
		actual   []float64
		upper    []float64
		lower    []float64
		expected float64
		err      error
	}{
		"length mismatch": {
			actual: []float64{1, 2},
			upper:  []float64{1},
			lower:  []float64{1, 2},
			err:    ErrResLenMismatch,
		},
		"all inside inclusive of bounds": {
			actual:   []float64{5, 10, 0},
			upper:    []float64{10, 10, 10},
			lower:    []float64{0, 0, 0},
			expected: 1,
		},
		"half inside skipping missing": {
			actual:   []float64{5, 20, math.NaN(), 3},
			upper:    []float64{10, 10, 10, 10},
			lower:    []float64{0, 0, 0, 4},
			expected: 1.0 / 3.0,
		},
		"inverted bounds": {
			actual:   []float64{5},
			upper:    []float64{0},
			lower:    []float64{10},
			expected: 1,
		},
		"nothing observed": {
			actual:   []float64{math.NaN()},
			upper:    []float64{1},
			lower:    []float64{0},
			expected: 0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := Coverage(td.actual, td.upper, td.lower)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, td.expected, res, 1e-9)
		})
	}
}

func TestNewScores(t *testing.T) {
	actual := []float64{100, 100, math.NaN()}
	forecast := []float64{110, 90, 95}
	upper := []float64{120, 95, 105}
	lower := []float64{80, 85, 85}

	scores, err := NewScores(actual, forecast, upper, lower)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, scores.MSE, 1e-9)
	assert.InDelta(t, 0.1, scores.MAPE, 1e-9)
	assert.InDelta(t, 0.5, scores.Coverage, 1e-9)
	assert.Equal(t, 2, scores.Observed)

	_, err = NewScores([]float64{math.NaN()}, []float64{1}, []float64{2}, []float64{0})
	assert.ErrorIs(t, err, ErrNoObservations)

	scores, err = NewScores([]float64{math.Inf(1), 100}, []float64{100, 100}, []float64{110, 110}, []float64{90, 90})
	assert.ErrorIs(t, err, ErrNonFiniteScore)
	assert.Nil(t, scores)
}

func TestSummarize(t *testing.T) {
	s := Summarize(
		[]float64{100, 300, math.NaN()},
		[]float64{110, 290, 500},
		[]float64{120, 310, 530},
		[]float64{100, 270, 470},
	)
	assert.Equal(t, 300.0, s.PeakActual)
	assert.InDelta(t, 200.0, s.MeanActual, 1e-9)
	assert.Equal(t, 500.0, s.PeakForecast)
	assert.InDelta(t, (20.0+40.0+60.0)/3.0, s.MeanBandWidth, 1e-9)

	empty := Summarize(nil, nil, nil, nil)
	assert.True(t, math.IsNaN(empty.PeakActual))
	assert.True(t, math.IsNaN(empty.MeanActual))
	assert.True(t, math.IsNaN(empty.PeakForecast))
	assert.True(t, math.IsNaN(empty.MeanBandWidth))
}
