// Package timewindow resolves civil dates and period tags into absolute
// instant ranges anchored to the restaurant's fixed UTC+05:30 calendar,
// independent of the host timezone.
package timewindow

import (
	"time"

	"github.com/canteenhq/restro/pkg/errorbank"
)

// Location is the fixed civil calendar every window is anchored to.
var Location = time.FixedZone("IST", 5*3600+30*60)

// DateLayout is the accepted civil date format.
const DateLayout = "2006-01-02"

// Period tags accepted by ForPeriod.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// now is swapped in tests.
var now = time.Now

// Window is an inclusive [Start, End] instant range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func parseDate(date string) (time.Time, error) {
	if date == "" {
		n := now().In(Location)
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, Location), nil
	}
	t, err := time.ParseInLocation(DateLayout, date, Location)
	if err != nil {
		return time.Time{}, errorbank.BadRequest("invalid date: "+date, errorbank.WithCause(err))
	}
	return t, nil
}

// Day resolves a civil date (or the current one when empty) to that day's
// bounds: 00:00:00 through 23:59:59 local.
func Day(date string) (Window, error) {
	start, err := parseDate(date)
	if err != nil {
		return Window{}, err
	}
	return Window{
		Start: start,
		End:   start.Add(24*time.Hour - time.Second),
	}, nil
}

// Week resolves the week containing the given date: the preceding (or same)
// Sunday at midnight through a full day past Saturday.
func Week(date string) (Window, error) {
	day, err := parseDate(date)
	if err != nil {
		return Window{}, err
	}
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return Window{
		Start: start,
		End:   start.AddDate(0, 0, 7),
	}, nil
}

// Month resolves the calendar month containing the given date: first day at
// midnight through the last day at 23:59:59.999.
func Month(date string) (Window, error) {
	day, err := parseDate(date)
	if err != nil {
		return Window{}, err
	}
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, Location)
	end := time.Date(day.Year(), day.Month()+1, 0, 23, 59, 59, int(999*time.Millisecond), Location)
	return Window{Start: start, End: end}, nil
}

// Range resolves an arbitrary [from, to] civil date pair to
// dayStart(from)..dayEnd(to).
func Range(from, to string) (Window, error) {
	lo, err := Day(from)
	if err != nil {
		return Window{}, err
	}
	hi, err := Day(to)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: lo.Start, End: hi.End}, nil
}

// ForPeriod resolves a period tag (day when empty) anchored at the given
// date. Unknown tags are rejected.
func ForPeriod(period, date string) (Window, error) {
	switch period {
	case "", PeriodDay:
		return Day(date)
	case PeriodWeek:
		return Week(date)
	case PeriodMonth:
		return Month(date)
	default:
		return Window{}, errorbank.BadRequest("invalid period: " + period)
	}
}

// HourOf returns the civil hour-of-day (0-23) of t in the fixed calendar.
func HourOf(t time.Time) int {
	return t.In(Location).Hour()
}
