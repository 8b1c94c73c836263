package core

import (
	"testing"
	"time"
)

func TestParsePeriodFallsBackToWeekly(t *testing.T) {
	cases := []struct {
		in   string
		want Period
	}{
		{"weekly", PeriodWeekly},
		{"fortnightly", PeriodFortnightly},
		{"monthly", PeriodWeekly},
		{"", PeriodWeekly},
		{"WEEKLY", PeriodWeekly},
	}
	for _, tc := range cases {
		if got := ParsePeriod(tc.in); got != tc.want {
			t.Fatalf("ParsePeriod(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParsePeriodStrict(t *testing.T) {
	if _, err := ParsePeriodStrict("fortnightly"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if _, err := ParsePeriodStrict("quarterly"); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestParseWeekStartFallsBackToMonday(t *testing.T) {
	if got := ParseWeekStart("sunday"); got != WeekStartSunday {
		t.Fatalf("expected sunday, got %q", got)
	}
	for _, in := range []string{"monday", "tuesday", "", "Sunday"} {
		if got := ParseWeekStart(in); got != WeekStartMonday {
			t.Fatalf("ParseWeekStart(%q) = %q, want monday", in, got)
		}
	}
}

func TestEndOfWeek(t *testing.T) {
	// 2025-06-09 is a Monday.
	cases := []struct {
		day  int // June 2025
		ws   WeekStart
		want int
	}{
		{9, WeekStartMonday, 15},  // Monday -> containing Sunday
		{15, WeekStartMonday, 15}, // Sunday ends its own monday-start week
		{11, WeekStartMonday, 15},
		{9, WeekStartSunday, 14},  // Monday -> containing Saturday
		{14, WeekStartSunday, 14}, // Saturday ends its own sunday-start week
		{15, WeekStartSunday, 21}, // Sunday begins a new week
	}
	for _, tc := range cases {
		at := time.Date(2025, 6, tc.day, 10, 30, 0, 0, time.UTC)
		got := EndOfWeek(at, tc.ws)
		if got.Day() != tc.want || got.Month() != time.June {
			t.Fatalf("EndOfWeek(June %d, %s) = %s, want June %d", tc.day, tc.ws, got, tc.want)
		}
	}
}

func TestResolveWindowLengths(t *testing.T) {
	now := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	for _, p := range []Period{PeriodWeekly, PeriodFortnightly} {
		for _, ws := range []WeekStart{WeekStartMonday, WeekStartSunday} {
			w := ResolveWindow(p, ws, Date{}, now)
			if got, want := w.Start.DaysUntil(w.End), p.Days()-1; got != want {
				t.Fatalf("%s/%s window spans %d days, want %d", p, ws, got, want)
			}
			prev := w.Previous(p)
			if got, want := prev.Start.DaysUntil(prev.End), p.Days()-1; got != want {
				t.Fatalf("%s previous window spans %d days, want %d", p, got, want)
			}
			if prev.End.AddDays(1).String() != w.Start.String() {
				t.Fatalf("%s previous window %s does not abut current %s", p, prev.End, w.Start)
			}
		}
	}
}

func TestResolveWindowExplicitReference(t *testing.T) {
	// An explicit reference date becomes the window end as-is, even mid-week.
	ref := NewDate(2025, 6, 11) // a Wednesday
	w := ResolveWindow(PeriodWeekly, WeekStartMonday, ref, time.Now())
	if w.End.String() != "2025-06-11" {
		t.Fatalf("end = %s, want 2025-06-11", w.End)
	}
	if w.Start.String() != "2025-06-05" {
		t.Fatalf("start = %s, want 2025-06-05", w.Start)
	}

	w = ResolveWindow(PeriodFortnightly, WeekStartMonday, ref, time.Now())
	if w.Start.String() != "2025-05-29" {
		t.Fatalf("fortnightly start = %s, want 2025-05-29", w.Start)
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: NewDate(2025, 6, 9), End: NewDate(2025, 6, 15)}
	if !w.Contains(NewDate(2025, 6, 9)) || !w.Contains(NewDate(2025, 6, 15)) {
		t.Fatalf("window must include both ends")
	}
	if w.Contains(NewDate(2025, 6, 8)) || w.Contains(NewDate(2025, 6, 16)) {
		t.Fatalf("window must exclude days outside the range")
	}
}
