// Package event lists calendar events, such as public holidays, that fall inside a window.
package event

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/at"
)

var (
	ErrStartAfterEnd = errors.New("event start time is after end time")
	ErrUnsetTime     = errors.New("unset event start or end time")
	ErrNoEventName   = errors.New("no event name")
)

// Event represents a named time span, [Start, End).
type Event struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewEvent(name string, start, end time.Time) Event {
	return Event{
		Name:  name,
		Start: start,
		End:   end,
	}
}

func (e *Event) Valid() error {
	if e.Start.IsZero() || e.End.IsZero() {
		return ErrUnsetTime
	}
	if e.Start.After(e.End) {
		return ErrStartAfterEnd
	}
	if e.Name == "" {
		return ErrNoEventName
	}
	return nil
}

// Overlaps reports whether the event shares any instant with the closed range [start, end].
func (e *Event) Overlaps(start, end time.Time) bool {
	return e.End.After(start) && !e.Start.After(end)
}

// Holiday returns one whole-day event per year in which the observed holiday overlaps
// [start, end]. Dates are taken as wall-clock days in the location of start.
func Holiday(hol *cal.Holiday, start, end time.Time) []Event {
	loc := start.Location()

	events := []Event{}
	for year := start.Year(); year <= end.Year(); year++ {
		_, observed := hol.Calc(year)
		if observed.IsZero() {
			continue
		}
		day := time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, loc)
		var name string
		if hol.Name != "" {
			name = strings.ReplaceAll(fmt.Sprintf("%s_%d", hol.Name, year), " ", "_")
		}
		ev := NewEvent(name, day, day.AddDate(0, 0, 1))
		if err := ev.Valid(); err != nil {
			slog.Warn("skipping holiday", "name", ev.Name, "year", year, "error", err.Error())
			continue
		}
		if ev.Overlaps(start, end) {
			events = append(events, ev)
		}
	}
	return events
}

// Holidays returns the events of every holiday overlapping [start, end], ordered by start.
func Holidays(holidays []*cal.Holiday, start, end time.Time) []Event {
	if end.Before(start) {
		return []Event{}
	}
	events := []Event{}
	for _, hol := range holidays {
		events = append(events, Holiday(hol, start, end)...)
	}
	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Start.Compare(b.Start)
	})
	return events
}

// AustrianHolidays returns the Austrian public holidays overlapping [start, end].
func AustrianHolidays(start, end time.Time) []Event {
	return Holidays(at.Holidays, start, end)
}
