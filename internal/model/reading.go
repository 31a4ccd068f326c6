package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	// ErrEmptyTable is returned when a reading table would hold no readings.
	ErrEmptyTable = errors.New("reading table is empty")
	// ErrInvalidReading is returned for a reading with a negative or non-finite energy value.
	ErrInvalidReading = errors.New("invalid reading")
)

// Reading is one smart-meter sample.
type Reading struct {
	Date      time.Time // calendar day, UTC midnight
	Time      Clock     // wall-clock time within Date
	EnergyKWh float64
}

// Hour returns the hour of day the reading falls in.
func (r Reading) Hour() int { return r.Time.Hour() }

// Instant combines Date and Time into a single timestamp.
func (r Reading) Instant() time.Time {
	return r.Date.Add(r.Time.Duration())
}

// NewDate returns the UTC midnight for a calendar day.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar day, keeping the wall-clock date.
func DateOf(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ReadingTable is a validated, immutable collection of readings.
// Order is irrelevant to every computation built on top of it.
type ReadingTable struct {
	readings []Reading
	total    float64
	first    time.Time
	last     time.Time
}

// NewReadingTable validates readings and returns a table holding a copy of them.
// Dates are normalized to UTC midnight.
func NewReadingTable(readings []Reading) (*ReadingTable, error) {
	if len(readings) == 0 {
		return nil, ErrEmptyTable
	}

	t := &ReadingTable{readings: make([]Reading, len(readings))}
	for i, r := range readings {
		if math.IsNaN(r.EnergyKWh) || math.IsInf(r.EnergyKWh, 0) {
			return nil, fmt.Errorf("%w: row %d: energy is not finite", ErrInvalidReading, i)
		}
		if r.EnergyKWh < 0 {
			return nil, fmt.Errorf("%w: row %d: negative energy %v", ErrInvalidReading, i, r.EnergyKWh)
		}
		if !r.Time.Valid() {
			return nil, fmt.Errorf("%w: row %d: time of day %d out of range", ErrInvalidReading, i, int(r.Time))
		}
		r.Date = DateOf(r.Date)
		t.readings[i] = r
		t.total += r.EnergyKWh

		if i == 0 || r.Date.Before(t.first) {
			t.first = r.Date
		}
		if i == 0 || r.Date.After(t.last) {
			t.last = r.Date
		}
	}
	return t, nil
}

// Len returns the number of readings.
func (t *ReadingTable) Len() int { return len(t.readings) }

// At returns the i-th reading.
func (t *ReadingTable) At(i int) Reading { return t.readings[i] }

// Readings returns a copy of the underlying readings.
func (t *ReadingTable) Readings() []Reading {
	out := make([]Reading, len(t.readings))
	copy(out, t.readings)
	return out
}

// Total returns the unrounded sum of energy across all readings.
func (t *ReadingTable) Total() float64 { return t.total }

// FirstDate returns the earliest reading date.
func (t *ReadingTable) FirstDate() time.Time { return t.first }

// LastDate returns the latest reading date.
func (t *ReadingTable) LastDate() time.Time { return t.last }

// DaySpan returns the number of calendar days from the first to the last
// reading, inclusive.
func (t *ReadingTable) DaySpan() int {
	return int(t.last.Sub(t.first).Hours()/24) + 1
}

// Years returns the distinct calendar years present, ascending.
func (t *ReadingTable) Years() []int {
	seen := make(map[int]struct{})
	for _, r := range t.readings {
		seen[r.Date.Year()] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
