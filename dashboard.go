// Package dashboard serves windows of an hourly energy demand table with its forecast and
// confidence band.
//
// A Dashboard is built once from the loaded table and never mutated, so a single instance can be
// shared by every request handler without locking.
package dashboard

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/respinosap/t2-repo/event"
	"github.com/respinosap/t2-repo/forecast"
	"github.com/respinosap/t2-repo/loader"
	"github.com/respinosap/t2-repo/stats"
	"github.com/respinosap/t2-repo/timedataset"
	"github.com/respinosap/t2-repo/window"
)

const (
	MessageNoData      = "no data for this selection"
	MessageEmptyWindow = "the selected horizon leaves no rows after this start"
)

var (
	ErrEmptyDataset = errors.New("dataset has no rows")
	ErrInvalidDate  = errors.New("invalid start date")
	ErrInvalidHour  = errors.New("invalid start hour")
)

// Bounds describes the limits and defaults of the control surface.
type Bounds struct {
	Start          time.Time
	End            time.Time
	MinDate        string
	MaxDate        string
	DefaultDate    string
	DefaultHour    int
	DefaultHorizon int
	MaxHorizon     int
	Rows           int
	Interval       time.Duration
}

// View is a composed window plus everything shown next to it. A View is always safe to render,
// on errors it holds empty series and a Message.
type View struct {
	Request  window.Request
	Result   window.Result
	Scores   *forecast.Scores
	Summary  forecast.Summary
	Outliers []time.Time
	Holidays []event.Event
	Message  string
}

type Dashboard struct {
	opt    *Options
	table  *timedataset.Table
	bounds Bounds
}

// New creates a Dashboard over a copy of tbl. If no options are provided a default is used.
func New(tbl *timedataset.Table, opt *Options) (*Dashboard, error) {
	if tbl.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if opt == nil {
		opt = NewDefaultOptions()
	}

	d := &Dashboard{
		opt:   opt,
		table: tbl.Copy(),
	}
	d.bounds = d.computeBounds()
	return d, nil
}

func (d *Dashboard) computeBounds() Bounds {
	ts := d.table.TimeSlice()
	start, end := ts.StartTime(), ts.EndTime()
	def := end.Add(-d.opt.DefaultLookback)

	interval, err := ts.EstimateFreq()
	if err != nil {
		interval = 0
	}

	return Bounds{
		Start:          start,
		End:            end,
		MinDate:        start.Format(time.DateOnly),
		MaxDate:        end.Format(time.DateOnly),
		DefaultDate:    def.Format(time.DateOnly),
		DefaultHour:    def.Hour(),
		DefaultHorizon: window.MinHorizon,
		MaxHorizon:     window.MaxHorizon,
		Rows:           d.table.Len(),
		Interval:       interval,
	}
}

// Bounds returns the limits of the loaded table and the default selection.
func (d *Dashboard) Bounds() Bounds {
	return d.bounds
}

// StartFrom builds the start timestamp "date hour:00" from a YYYY-MM-DD date, or a full timestamp
// in any layout the loader accepts, and an hour of day.
func StartFrom(date string, hour int) (time.Time, error) {
	if hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("got %d, expected [0, 23], %w", hour, ErrInvalidHour)
	}

	date = strings.TrimSpace(date)
	// date pickers may send a full timestamp, only its day is kept
	ts, err := loader.ParseTime(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q, %w", date, ErrInvalidDate)
	}
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return day.Add(time.Duration(hour) * time.Hour), nil
}

// Window composes the window starting at date and hour with the given horizon. The returned View
// is always usable; on error it is empty and carries MessageNoData.
func (d *Dashboard) Window(date string, hour, horizon int) (View, error) {
	start, err := StartFrom(date, hour)
	if err != nil {
		return d.emptyView(window.Request{Horizon: window.ClampHorizon(horizon)}), err
	}
	return d.WindowAt(window.Request{Start: start, Horizon: horizon})
}

// WindowAt composes the window for req. Out of range horizons are clamped.
func (d *Dashboard) WindowAt(req window.Request) (View, error) {
	if err := window.ValidateHorizon(req.Horizon); err != nil {
		slog.Warn("clamping horizon", "horizon", req.Horizon, "error", err.Error())
	}
	req.Horizon = window.ClampHorizon(req.Horizon)

	res, err := req.Compose(d.table)
	if err != nil {
		return d.emptyView(req), err
	}

	v := View{
		Request:  req,
		Result:   res,
		Summary:  forecast.Summarize(res.Actual, res.Forecast, res.Upper, res.Lower),
		Outliers: []time.Time{},
		Holidays: []event.Event{},
	}
	if res.IsEmpty() {
		v.Message = MessageEmptyWindow
		return v, nil
	}

	scores, err := forecast.NewScores(res.Actual, res.Forecast, res.Upper, res.Lower)
	switch {
	case errors.Is(err, forecast.ErrNoObservations):
		// projection only, nothing to score
	case err != nil:
		slog.Warn("unable to score window", "start", req.Start, "error", err.Error())
	default:
		v.Scores = scores
	}

	if d.opt.OutlierOptions != nil {
		for _, idx := range stats.ResidualOutliers(res.Actual, res.Forecast, d.opt.OutlierOptions) {
			v.Outliers = append(v.Outliers, res.T[idx])
		}
	}

	if d.opt.Holidays {
		v.Holidays = event.AustrianHolidays(res.StartTime(), res.EndTime())
	}
	return v, nil
}

func (d *Dashboard) emptyView(req window.Request) View {
	return View{
		Request:  req,
		Result:   window.Empty(),
		Summary:  forecast.Summarize(nil, nil, nil, nil),
		Outliers: []time.Time{},
		Holidays: []event.Event{},
		Message:  MessageNoData,
	}
}
