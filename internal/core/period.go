package core

import (
	"fmt"
	"time"
)

const (
	PeriodWeekly      Period = "weekly"
	PeriodFortnightly Period = "fortnightly"

	WeekStartMonday WeekStart = "monday"
	WeekStartSunday WeekStart = "sunday"
)

type (
	Period    string
	WeekStart string

	// Window is an inclusive [Start, End] date range. For a given period kind
	// the span is fixed: End − Start is 6 days (weekly) or 13 (fortnightly).
	Window struct {
		Start Date
		End   Date
	}
)

// ParsePeriod maps a query value to a period kind. Unrecognized values fall
// back to weekly rather than erroring; the boundary sanitizes, never rejects.
func ParsePeriod(s string) Period {
	if Period(s) == PeriodFortnightly {
		return PeriodFortnightly
	}
	return PeriodWeekly
}

// ParsePeriodStrict is the opt-in strict variant for callers that want to
// reject unknown period names instead of defaulting.
func ParsePeriodStrict(s string) (Period, error) {
	switch Period(s) {
	case PeriodWeekly, PeriodFortnightly:
		return Period(s), nil
	}
	return "", fmt.Errorf("%w: unknown period %q", ErrInvalidPeriodSpec, s)
}

// ParseWeekStart maps a query value to a week-start convention, defaulting
// to monday for anything unrecognized.
func ParseWeekStart(s string) WeekStart {
	if WeekStart(s) == WeekStartSunday {
		return WeekStartSunday
	}
	return WeekStartMonday
}

// Days returns the window length in days: 7 for weekly, 14 for fortnightly.
func (p Period) Days() int {
	if p == PeriodFortnightly {
		return 14
	}
	return 7
}

// mondayWeekday numbers weekdays 0=Monday .. 6=Sunday.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// EndOfWeek returns the last day of the week containing t under the given
// convention: the containing Sunday for monday-start weeks, the containing
// Saturday for sunday-start weeks.
func EndOfWeek(t time.Time, ws WeekStart) Date {
	wd := mondayWeekday(t)
	if ws == WeekStartSunday {
		return DateOf(t).AddDays(((5-wd)%7 + 7) % 7)
	}
	return DateOf(t).AddDays(6 - wd)
}

// ResolveWindow produces the concrete date window for a period and reference
// point. A non-zero ref is used directly as the window end; otherwise the
// window ends at the end of the week containing now.
func ResolveWindow(p Period, ws WeekStart, ref Date, now time.Time) Window {
	end := ref
	if end.IsZero() {
		end = EndOfWeek(now, ws)
	}
	return Window{Start: end.AddDays(-(p.Days() - 1)), End: end}
}

// Previous returns the immediately preceding window of the same length,
// ending the day before this window starts.
func (w Window) Previous(p Period) Window {
	end := w.Start.AddDays(-1)
	return Window{Start: end.AddDays(-(p.Days() - 1)), End: end}
}

// Contains reports whether d falls inside the window, both ends inclusive.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start.Time) && !d.After(w.End.Time)
}
