package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the text form accepted for date bounds.
const DateLayout = "2006-01-02"

// DateRange is an inclusive calendar-day range. A zero Start or End leaves
// that side unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses optional YYYY-MM-DD bounds. Empty strings leave the
// corresponding side open.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if s := strings.TrimSpace(start); s != "" {
		if r.Start, err = time.Parse(DateLayout, s); err != nil {
			return DateRange{}, fmt.Errorf("parsing start date %q: %w", s, err)
		}
	}
	if s := strings.TrimSpace(end); s != "" {
		if r.End, err = time.Parse(DateLayout, s); err != nil {
			return DateRange{}, fmt.Errorf("parsing end date %q: %w", s, err)
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("end date %s is before start date %s",
			r.End.Format(DateLayout), r.Start.Format(DateLayout))
	}
	return r, nil
}

// IsZero reports whether both sides are unbounded.
func (r DateRange) IsZero() bool { return r.Start.IsZero() && r.End.IsZero() }

// Contains reports whether the calendar day of d lies within the range.
func (r DateRange) Contains(d time.Time) bool {
	d = DateOf(d)
	if !r.Start.IsZero() && d.Before(DateOf(r.Start)) {
		return false
	}
	if !r.End.IsZero() && d.After(DateOf(r.End)) {
		return false
	}
	return true
}

// ContainsYear reports whether year overlaps the range.
func (r DateRange) ContainsYear(year int) bool {
	if !r.Start.IsZero() && year < r.Start.Year() {
		return false
	}
	if !r.End.IsZero() && year > r.End.Year() {
		return false
	}
	return true
}

// ContainsMonth reports whether the (year, month) pair overlaps the range.
func (r DateRange) ContainsMonth(year int, month time.Month) bool {
	ym := year*12 + int(month)
	if !r.Start.IsZero() && ym < r.Start.Year()*12+int(r.Start.Month()) {
		return false
	}
	if !r.End.IsZero() && ym > r.End.Year()*12+int(r.End.Month()) {
		return false
	}
	return true
}

func (r DateRange) String() string {
	start, end := "…", "…"
	if !r.Start.IsZero() {
		start = r.Start.Format(DateLayout)
	}
	if !r.End.IsZero() {
		end = r.End.Format(DateLayout)
	}
	return start + " to " + end
}
