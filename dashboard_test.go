package dashboard

import (
	"math"
	"testing"
	"time"

	"github.com/respinosap/t2-repo/stats"
	"github.com/respinosap/t2-repo/timedataset"
	"github.com/respinosap/t2-repo/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnd = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func setupDashboard(t *testing.T, opt *Options) *Dashboard {
	t.Helper()
	tbl, err := timedataset.Simulate(1000, testEnd, nil)
	require.NoError(t, err)
	d, err := New(tbl, opt)
	require.NoError(t, err)
	return d
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	d := setupDashboard(t, nil)
	assert.Equal(t, NewDefaultOptions(), d.opt)
	assert.Equal(t, 1000, d.table.Len())
}

func TestNewCopiesTable(t *testing.T) {
	tbl, err := timedataset.Simulate(1000, testEnd, nil)
	require.NoError(t, err)
	d, err := New(tbl, nil)
	require.NoError(t, err)

	expected, err := d.Window("2023-12-31", 0, 20)
	require.NoError(t, err)

	tbl.Forecast[759] = -1
	tbl.T[759] = time.Time{}

	v, err := d.Window("2023-12-31", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, expected.Result.T, v.Result.T)
	assert.Equal(t, expected.Result.Forecast, v.Result.Forecast)
}

func TestBounds(t *testing.T) {
	d := setupDashboard(t, nil)

	expected := Bounds{
		Start:          time.Date(2023, 11, 29, 9, 0, 0, 0, time.UTC),
		End:            testEnd,
		MinDate:        "2023-11-29",
		MaxDate:        "2024-01-10",
		DefaultDate:    "2024-01-03",
		DefaultHour:    0,
		DefaultHorizon: 0,
		MaxHorizon:     119,
		Rows:           1000,
		Interval:       time.Hour,
	}
	assert.Equal(t, expected, d.Bounds())
}

func TestStartFrom(t *testing.T) {
	testData := map[string]struct {
		date     string
		hour     int
		expected time.Time
		err      error
	}{
		"midnight": {
			date:     "2023-12-31",
			hour:     0,
			expected: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		"last hour": {
			date:     "2023-12-31",
			hour:     23,
			expected: time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC),
		},
		"full timestamp": {
			date:     "2023-12-31T00:00:00",
			hour:     5,
			expected: time.Date(2023, 12, 31, 5, 0, 0, 0, time.UTC),
		},
		"surrounding spaces": {
			date:     " 2023-12-31 ",
			hour:     1,
			expected: time.Date(2023, 12, 31, 1, 0, 0, 0, time.UTC),
		},
		"negative hour": {
			date: "2023-12-31",
			hour: -1,
			err:  ErrInvalidHour,
		},
		"hour past day": {
			date: "2023-12-31",
			hour: 24,
			err:  ErrInvalidHour,
		},
		"timestamp with space": {
			date:     "2023-12-31 17:00:00",
			hour:     2,
			expected: time.Date(2023, 12, 31, 2, 0, 0, 0, time.UTC),
		},
		"date with trailing garbage": {
			date: "2024-01-01garbage",
			err:  ErrInvalidDate,
		},
		"timestamp with trailing garbage": {
			date: "2024-01-01T00:00:00xyz",
			err:  ErrInvalidDate,
		},
		"garbage date": {
			date: "yesterday",
			err:  ErrInvalidDate,
		},
		"empty date": {
			date: "",
			err:  ErrInvalidDate,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := StartFrom(td.date, td.hour)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestWindow(t *testing.T) {
	testData := map[string]struct {
		date            string
		hour            int
		horizon         int
		expectedRows    int
		expectedHorizon int
		expectedMessage string
		err             error
	}{
		"midnight start": {
			date:            "2023-12-31",
			hour:            0,
			horizon:         20,
			expectedRows:    141,
			expectedHorizon: 20,
		},
		"one hour later": {
			date:            "2023-12-31",
			hour:            1,
			horizon:         20,
			expectedRows:    140,
			expectedHorizon: 20,
		},
		"horizon clamped high": {
			date:            "2023-12-31",
			hour:            0,
			horizon:         500,
			expectedRows:    240,
			expectedHorizon: 119,
		},
		"horizon clamped low": {
			date:            "2023-12-31",
			hour:            0,
			horizon:         -3,
			expectedRows:    121,
			expectedHorizon: 0,
		},
		"trim consumes the rest": {
			date:            "2024-01-05",
			hour:            1,
			horizon:         0,
			expectedRows:    0,
			expectedHorizon: 0,
			expectedMessage: MessageEmptyWindow,
		},
		"start before table": {
			date:            "2022-01-01",
			hour:            0,
			horizon:         20,
			expectedHorizon: 20,
			expectedMessage: MessageNoData,
			err:             window.ErrStartNotFound,
		},
		"invalid date": {
			date:            "31/12/2023",
			hour:            0,
			horizon:         20,
			expectedHorizon: 20,
			expectedMessage: MessageNoData,
			err:             ErrInvalidDate,
		},
		"invalid hour": {
			date:            "2023-12-31",
			hour:            30,
			horizon:         200,
			expectedHorizon: 119,
			expectedMessage: MessageNoData,
			err:             ErrInvalidHour,
		},
	}

	d := setupDashboard(t, nil)
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			v, err := d.Window(td.date, td.hour, td.horizon)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, td.expectedRows, v.Result.Len())
			assert.Equal(t, td.expectedHorizon, v.Request.Horizon)
			assert.Equal(t, td.expectedMessage, v.Message)
			assert.NotNil(t, v.Outliers)
			assert.NotNil(t, v.Holidays)

			if td.expectedRows > 0 {
				assert.Len(t, v.Result.Actual, td.expectedRows)
				assert.Len(t, v.Result.Forecast, td.expectedRows)
				assert.Len(t, v.Result.Upper, td.expectedRows)
				assert.Len(t, v.Result.Lower, td.expectedRows)
			}
		})
	}
}

func TestWindowEnrichment(t *testing.T) {
	d := setupDashboard(t, nil)

	v, err := d.Window("2023-12-31", 0, 20)
	require.NoError(t, err)

	require.NotNil(t, v.Scores)
	assert.Equal(t, 121, v.Scores.Observed)
	assert.Greater(t, v.Scores.Coverage, 0.0)

	assert.False(t, math.IsNaN(v.Summary.PeakActual))
	assert.InDelta(t, 700.0, v.Summary.MeanBandWidth, 1e-9)

	require.Len(t, v.Holidays, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), v.Holidays[0].Start)

	opt := NewDefaultOptions()
	opt.Holidays = false
	opt.OutlierOptions = nil
	d = setupDashboard(t, opt)

	v, err = d.Window("2023-12-31", 0, 20)
	require.NoError(t, err)
	assert.Empty(t, v.Holidays)
	assert.Empty(t, v.Outliers)
}

func TestWindowProjectionOnly(t *testing.T) {
	d := setupDashboard(t, nil)

	// the last 120 rows carry no actual values
	v, err := d.WindowAt(window.Request{Start: testEnd.Add(-119 * time.Hour), Horizon: 119})
	require.NoError(t, err)
	assert.Equal(t, 119, v.Result.Len())
	assert.Nil(t, v.Scores)
	assert.True(t, math.IsNaN(v.Summary.PeakActual))
	assert.False(t, math.IsNaN(v.Summary.PeakForecast))
}

func TestWindowOutliers(t *testing.T) {
	n := 200
	ts := timedataset.GenerateT(n, time.Hour, testEnd)
	actual := timedataset.GenerateConstY(n, 100)
	forecast := timedataset.GenerateConstY(n, 100)
	upper := timedataset.GenerateConstY(n, 110)
	lower := timedataset.GenerateConstY(n, 90)
	actual[10] = 1000

	tbl, err := timedataset.NewTable(ts, actual, forecast, upper, lower)
	require.NoError(t, err)

	opt := NewDefaultOptions()
	opt.Holidays = false
	d, err := New(tbl, opt)
	require.NoError(t, err)

	v, err := d.WindowAt(window.Request{Start: ts[0], Horizon: 119})
	require.NoError(t, err)
	assert.Equal(t, 199, v.Result.Len())
	assert.Equal(t, []time.Time{ts[10]}, v.Outliers)

	opt.OutlierOptions = &stats.OutlierOptions{
		UpperPercentile: 0.9,
		LowerPercentile: 0.1,
		TukeyFactor:     1.0,
		MinSamples:      500,
	}
	d, err = New(tbl, opt)
	require.NoError(t, err)

	v, err = d.WindowAt(window.Request{Start: ts[0], Horizon: 119})
	require.NoError(t, err)
	assert.Empty(t, v.Outliers)
}

func TestWindowConcurrent(t *testing.T) {
	d := setupDashboard(t, nil)
	expected, err := d.Window("2023-12-31", 0, 20)
	require.NoError(t, err)

	done := make(chan View, 8)
	for i := 0; i < cap(done); i++ {
		go func() {
			v, _ := d.Window("2023-12-31", 0, 20)
			done <- v
		}()
	}
	for i := 0; i < cap(done); i++ {
		v := <-done
		assert.Equal(t, expected.Result.T, v.Result.T)
		assert.Equal(t, expected.Result.Forecast, v.Result.Forecast)
	}
}
