package model

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day stored as seconds since midnight.
type Clock int32

const secondsPerDay = 24 * 60 * 60

// NewClock builds a Clock from hour, minute and second components.
func NewClock(hour, minute, second int) Clock {
	return Clock(hour*3600 + minute*60 + second)
}

// ClockOf extracts the time of day from t.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

// Valid reports whether c falls within a single day.
func (c Clock) Valid() bool { return c >= 0 && c < secondsPerDay }

// Hour returns the hour component (0-23).
func (c Clock) Hour() int { return int(c) / 3600 }

// Minute returns the minute component (0-59).
func (c Clock) Minute() int { return int(c) % 3600 / 60 }

// Second returns the second component (0-59).
func (c Clock) Second() int { return int(c) % 60 }

// Duration returns the offset from midnight.
func (c Clock) Duration() time.Duration { return time.Duration(c) * time.Second }

// String formats as HH:MM, or HH:MM:SS when seconds are present.
func (c Clock) String() string {
	if c.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
	}
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}
