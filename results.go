package dashboard

import (
	"math"
	"time"

	"github.com/respinosap/t2-repo/forecast"
	"github.com/respinosap/t2-repo/window"
)

// TimeFormat renders the timezone-naive timestamps of the table.
const TimeFormat = "2006-01-02T15:04:05"

// WindowResponse is the serializeable form of a View. Missing values are encoded as null.
type WindowResponse struct {
	Start      string            `json:"start"`
	Horizon    int               `json:"horizon"`
	Trim       int               `json:"trim"`
	Rows       int               `json:"rows"`
	Timestamps []string          `json:"timestamps"`
	Actual     []*float64        `json:"actual"`
	Forecast   []*float64        `json:"forecast"`
	Upper      []*float64        `json:"upper"`
	Lower      []*float64        `json:"lower"`
	Scores     *forecast.Scores  `json:"scores,omitempty"`
	Summary    SummaryResponse   `json:"summary"`
	Outliers   []string          `json:"outliers"`
	Holidays   []HolidayResponse `json:"holidays"`
	Message    string            `json:"message,omitempty"`
}

type SummaryResponse struct {
	PeakActual    *float64 `json:"peak_actual"`
	MeanActual    *float64 `json:"mean_actual"`
	PeakForecast  *float64 `json:"peak_forecast"`
	MeanBandWidth *float64 `json:"mean_band_width"`
}

type HolidayResponse struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type BoundsResponse struct {
	Start          string `json:"start"`
	End            string `json:"end"`
	MinDate        string `json:"min_date"`
	MaxDate        string `json:"max_date"`
	DefaultDate    string `json:"default_date"`
	DefaultHour    int    `json:"default_hour"`
	DefaultHorizon int    `json:"default_horizon"`
	MaxHorizon     int    `json:"max_horizon"`
	Rows           int    `json:"rows"`
	Interval       string `json:"interval"`
}

func NewWindowResponse(v View) WindowResponse {
	res := v.Result
	resp := WindowResponse{
		Horizon:    v.Request.Horizon,
		Trim:       window.Trim(v.Request.Horizon),
		Rows:       res.Len(),
		Timestamps: formatTimes(res.T),
		Actual:     nullable(res.Actual),
		Forecast:   nullable(res.Forecast),
		Upper:      nullable(res.Upper),
		Lower:      nullable(res.Lower),
		Scores:     v.Scores,
		Summary: SummaryResponse{
			PeakActual:    nullableValue(v.Summary.PeakActual),
			MeanActual:    nullableValue(v.Summary.MeanActual),
			PeakForecast:  nullableValue(v.Summary.PeakForecast),
			MeanBandWidth: nullableValue(v.Summary.MeanBandWidth),
		},
		Outliers: formatTimes(v.Outliers),
		Holidays: make([]HolidayResponse, 0, len(v.Holidays)),
		Message:  v.Message,
	}
	if !v.Request.Start.IsZero() {
		resp.Start = v.Request.Start.Format(TimeFormat)
	}
	for _, h := range v.Holidays {
		resp.Holidays = append(resp.Holidays, HolidayResponse{
			Name:  h.Name,
			Start: h.Start.Format(TimeFormat),
			End:   h.End.Format(TimeFormat),
		})
	}
	return resp
}

func NewBoundsResponse(b Bounds) BoundsResponse {
	return BoundsResponse{
		Start:          b.Start.Format(TimeFormat),
		End:            b.End.Format(TimeFormat),
		MinDate:        b.MinDate,
		MaxDate:        b.MaxDate,
		DefaultDate:    b.DefaultDate,
		DefaultHour:    b.DefaultHour,
		DefaultHorizon: b.DefaultHorizon,
		MaxHorizon:     b.MaxHorizon,
		Rows:           b.Rows,
		Interval:       b.Interval.String(),
	}
}

func formatTimes(t []time.Time) []string {
	out := make([]string, 0, len(t))
	for _, ts := range t {
		out = append(out, ts.Format(TimeFormat))
	}
	return out
}

func nullable(y []float64) []*float64 {
	out := make([]*float64, len(y))
	for i := range y {
		out[i] = nullableValue(y[i])
	}
	return out
}

func nullableValue(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
