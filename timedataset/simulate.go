package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT returns n points spaced by interval where the last point is end.
func GenerateT(n int, interval time.Duration, end time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := end.Add(-time.Duration(n-1) * interval)
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// MaskAfter sets every value at or after cutoff to NaN.
func (s Series) MaskAfter(t []time.Time, cutoff time.Time) Series {
	for i := 0; i < len(s); i++ {
		if !t[i].Before(cutoff) {
			s[i] = math.NaN()
		}
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

func GenerateNoise(t []time.Time, rnd *rand.Rand, noiseScale float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rnd.NormFloat64()*noiseScale)
	}
	return Series(y)
}

// SimulateOptions shapes a synthetic demand table. Base and DailyAmp are in MW.
type SimulateOptions struct {
	Base      float64
	DailyAmp  float64
	WeeklyAmp float64
	Noise     float64
	BandWidth float64

	// Lookahead is the number of trailing rows without an observed actual value.
	Lookahead int
	Seed      uint64
}

func NewDefaultSimulateOptions() *SimulateOptions {
	return &SimulateOptions{
		Base:      7000,
		DailyAmp:  1500,
		WeeklyAmp: 400,
		Noise:     120,
		BandWidth: 350,
		Lookahead: 120,
		Seed:      1,
	}
}

// Simulate generates an hourly demand table with n rows ending at end. The forecast follows a
// daily and weekly cycle, actual values are the forecast plus gaussian noise and are missing for
// the trailing Lookahead rows.
func Simulate(n int, end time.Time, opt *SimulateOptions) (*Table, error) {
	if opt == nil {
		opt = NewDefaultSimulateOptions()
	}
	t := GenerateT(n, time.Hour, end)
	rnd := rand.New(rand.NewPCG(opt.Seed, opt.Seed))

	forecast := GenerateConstY(n, opt.Base).
		Add(GenerateWaveY(t, opt.DailyAmp, 86400, 1, 0)).
		Add(GenerateWaveY(t, opt.WeeklyAmp, 7*86400, 1, 0))

	actual := make(Series, n)
	copy(actual, forecast)
	actual.Add(GenerateNoise(t, rnd, opt.Noise))
	if opt.Lookahead > 0 && opt.Lookahead <= n {
		actual.MaskAfter(t, t[n-opt.Lookahead])
	}

	upper := make([]float64, n)
	lower := make([]float64, n)
	copy(upper, forecast)
	copy(lower, forecast)
	floats.AddConst(opt.BandWidth, upper)
	floats.AddConst(-opt.BandWidth, lower)

	return NewTable(t, actual, forecast, upper, lower)
}
