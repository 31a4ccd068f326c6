package model

import (
	"strings"
	"time"
)

// Season is a climate season in the fixed meter-region mapping.
type Season int

const (
	Winter Season = iota
	Spring
	Summer
	Autumn
)

var seasonNames = [...]string{"Winter", "Spring", "Summer", "Autumn"}

func (s Season) String() string {
	if s < Winter || s > Autumn {
		return "Unknown"
	}
	return seasonNames[s]
}

// Seasons returns every season in display order.
func Seasons() []Season {
	return []Season{Winter, Spring, Summer, Autumn}
}

// SeasonOf maps a calendar month to its season: Dec-Feb Winter, Mar-May
// Spring, Jun-Sep Summer, Oct-Nov Autumn.
func SeasonOf(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August, time.September:
		return Summer
	default:
		return Autumn
	}
}

// ParseSeason resolves an English season name, ignoring case.
func ParseSeason(name string) (Season, bool) {
	name = strings.TrimSpace(name)
	for i, n := range seasonNames {
		if strings.EqualFold(n, name) {
			return Season(i), true
		}
	}
	return 0, false
}

// DayOfWeek is a Monday-first weekday index.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d DayOfWeek) String() string {
	if d < Monday || d > Sunday {
		return "Unknown"
	}
	return dayNames[d]
}

// Short returns the three-letter day abbreviation.
func (d DayOfWeek) Short() string { return d.String()[:3] }

// DaysOfWeek returns Monday through Sunday.
func DaysOfWeek() []DayOfWeek {
	return []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// DayOfWeekOf converts a time.Weekday (Sunday-first) into the Monday-first index.
func DayOfWeekOf(w time.Weekday) DayOfWeek {
	return DayOfWeek((int(w) + 6) % 7)
}
