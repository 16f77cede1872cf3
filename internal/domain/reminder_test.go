package domain

import (
	"testing"
	"time"
)

func TestNextOccurrence_Daily(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC) // Monday
	next := NextOccurrence(base, PatternDaily)
	if got := next.Sub(base); got != 24*time.Hour {
		t.Fatalf("daily should advance exactly 24h, got %v", got)
	}
}

func TestNextOccurrence_WeekdaysSkipsWeekend(t *testing.T) {
	friday := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	next := NextOccurrence(friday, PatternWeekdays)
	if next.Weekday() != time.Monday {
		t.Fatalf("expected Monday after Friday, got %v", next.Weekday())
	}
	if !next.After(friday) {
		t.Fatalf("weekdays must advance by at least one day")
	}

	// every weekday start must land on a weekday
	for day := 0; day < 7; day++ {
		start := time.Date(2025, 3, 10+day, 8, 0, 0, 0, time.UTC)
		got := NextOccurrence(start, PatternWeekdays)
		if got.Weekday() == time.Saturday || got.Weekday() == time.Sunday {
			t.Fatalf("successor of %v landed on %v", start.Weekday(), got.Weekday())
		}
	}
}

func TestNextOccurrence_Weekly(t *testing.T) {
	base := time.Date(2025, 3, 10, 16, 30, 0, 0, time.UTC)
	next := NextOccurrence(base, PatternWeekly)
	if got := next.Sub(base); got != 7*24*time.Hour {
		t.Fatalf("weekly should advance 7 days, got %v", got)
	}
}

func TestNextOccurrence_MonthlyOverflowNormalizes(t *testing.T) {
	base := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	next := NextOccurrence(base, PatternMonthly)
	if next.Month() != time.February || next.Day() != 15 {
		t.Fatalf("expected Feb 15, got %v", next)
	}

	// Jan 31 normalizes past the end of February (naive month increment)
	jan31 := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	got := NextOccurrence(jan31, PatternMonthly)
	if got.Month() != time.March || got.Day() != 3 {
		t.Fatalf("expected Mar 3 for Jan 31 + 1 month, got %v", got)
	}
}

func TestNextOccurrence_UnknownPatternUnchanged(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	if got := NextOccurrence(base, "fortnightly"); !got.Equal(base) {
		t.Fatalf("unknown pattern should leave time unchanged, got %v", got)
	}
}
