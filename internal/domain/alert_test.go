package domain

import (
	"testing"
	"time"
)

func TestDayOfConvertsToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)

	lateEvening := time.Date(2026, time.August, 24, 23, 30, 0, 0, est)
	if got := DayOf(lateEvening); got != NewDay(2026, time.August, 25) {
		t.Errorf("DayOf(%v) = %s, want 2026-08-25", lateEvening, got)
	}

	noon := time.Date(2026, time.August, 24, 12, 0, 0, 0, est)
	if got := DayOf(noon); got != NewDay(2026, time.August, 24) {
		t.Errorf("DayOf(%v) = %s, want 2026-08-24", noon, got)
	}
}

func TestDayStringRoundTrip(t *testing.T) {
	d := NewDay(2026, time.February, 28)
	if got := d.String(); got != "2026-02-28" {
		t.Fatalf("String = %q, want %q", got, "2026-02-28")
	}

	parsed, err := ParseDay(d.String())
	if err != nil {
		t.Fatalf("ParseDay error = %v", err)
	}
	if parsed != d {
		t.Errorf("ParseDay(String) = %s, want %s", parsed, d)
	}
}

func TestParseDayRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-day", "2026-13-40", "24-08-2026"} {
		if _, err := ParseDay(raw); err == nil {
			t.Errorf("ParseDay(%q) succeeded, want error", raw)
		}
	}
}

func TestDayAddDays(t *testing.T) {
	newYearsEve := NewDay(2026, time.December, 31)
	if got := newYearsEve.AddDays(1); got != NewDay(2027, time.January, 1) {
		t.Errorf("AddDays(1) = %s, want 2027-01-01", got)
	}
	if got := newYearsEve.AddDays(-30); got != NewDay(2026, time.December, 1) {
		t.Errorf("AddDays(-30) = %s, want 2026-12-01", got)
	}

	// time.Date normalizes out-of-range components.
	if got := NewDay(2023, time.February, 29); got != NewDay(2023, time.March, 1) {
		t.Errorf("NewDay(2023, Feb, 29) = %s, want 2023-03-01", got)
	}
}

func TestDayOrdering(t *testing.T) {
	earlier := NewDay(2026, time.August, 23)
	later := NewDay(2026, time.August, 24)

	if !earlier.Before(later) {
		t.Error("earlier.Before(later) = false, want true")
	}
	if later.Before(earlier) {
		t.Error("later.Before(earlier) = true, want false")
	}
	if later.Before(later) {
		t.Error("day compares before itself")
	}

	// Alert rows are ordered by their day column as text, so string order
	// must match chronological order.
	if !(earlier.String() < later.String()) {
		t.Errorf("string order %q >= %q disagrees with chronology", earlier.String(), later.String())
	}
}

func TestDayIsZero(t *testing.T) {
	if !(Day{}).IsZero() {
		t.Error("zero Day not reported as zero")
	}
	if NewDay(2026, time.August, 24).IsZero() {
		t.Error("real Day reported as zero")
	}
}
