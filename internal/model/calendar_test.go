package model

import (
	"testing"
	"time"
)

func TestSeasonOf(t *testing.T) {
	want := map[time.Month]Season{
		time.January: Winter, time.February: Winter, time.March: Spring,
		time.April: Spring, time.May: Spring, time.June: Summer,
		time.July: Summer, time.August: Summer, time.September: Summer,
		time.October: Autumn, time.November: Autumn, time.December: Winter,
	}
	for m := time.January; m <= time.December; m++ {
		if got := SeasonOf(m); got != want[m] {
			t.Errorf("SeasonOf(%s) = %s, want %s", m, got, want[m])
		}
	}
}

func TestDayOfWeekOf(t *testing.T) {
	// 2024-01-01 is a Monday.
	start := NewDate(2024, time.January, 1)
	for i, want := range DaysOfWeek() {
		d := start.AddDate(0, 0, i)
		if got := DayOfWeekOf(d.Weekday()); got != want {
			t.Errorf("DayOfWeekOf(%s) = %s, want %s", d.Weekday(), got, want)
		}
	}
	if Sunday.Short() != "Sun" {
		t.Errorf("Sunday.Short() = %q, want Sun", Sunday.Short())
	}
}

func TestParseSeason(t *testing.T) {
	s, ok := ParseSeason("Summer")
	if !ok || s != Summer {
		t.Fatalf("ParseSeason(Summer) = %v, %v", s, ok)
	}
	if s, ok := ParseSeason(" winter"); !ok || s != Winter {
		t.Errorf("ParseSeason(winter) = %v, %v", s, ok)
	}
	if _, ok := ParseSeason("Monsoon"); ok {
		t.Error("ParseSeason(Monsoon) should fail")
	}
}

func TestClock(t *testing.T) {
	c := NewClock(13, 45, 0)
	if c.Hour() != 13 || c.Minute() != 45 {
		t.Fatalf("clock = %d:%d, want 13:45", c.Hour(), c.Minute())
	}
	if c.String() != "13:45" {
		t.Errorf("String() = %q, want 13:45", c.String())
	}
	if NewClock(0, 0, 30).String() != "00:00:30" {
		t.Errorf("String() with seconds = %q", NewClock(0, 0, 30).String())
	}
	if NewClock(24, 0, 0).Valid() {
		t.Error("24:00 should be invalid")
	}
}
