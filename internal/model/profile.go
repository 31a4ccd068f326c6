package model

import "fmt"

// ProfileRow is one bucket of a secondary profile. Hour is set for
// hour-of-day profiles, Day for day-of-week profiles.
type ProfileRow struct {
	Hour         int
	Day          DayOfWeek
	AvgEnergyKWh float64
	Samples      int
}

// Profile is an averaged, filter-dependent grouping derived from one
// primary rollup. It is never cached.
type Profile struct {
	kind ProfileKind
	rows []ProfileRow
}

// NewProfile copies rows into a profile tagged with kind.
func NewProfile(kind ProfileKind, rows []ProfileRow) *Profile {
	out := make([]ProfileRow, len(rows))
	copy(out, rows)
	return &Profile{kind: kind, rows: out}
}

// Kind returns the profile's tag.
func (p *Profile) Kind() ProfileKind { return p.kind }

// Len returns the number of buckets.
func (p *Profile) Len() int { return len(p.rows) }

// Rows returns a copy of the buckets.
func (p *Profile) Rows() []ProfileRow {
	out := make([]ProfileRow, len(p.rows))
	copy(out, p.rows)
	return out
}

// Label renders the bucket key of row.
func (p *Profile) Label(row ProfileRow) string {
	if p.kind == HourOfDay {
		return fmt.Sprintf("%02d:00", row.Hour)
	}
	return row.Day.String()
}

// Columns returns the key column followed by the value column.
func (p *Profile) Columns() []string {
	return []string{p.kind.KeyColumn(), AvgEnergyColumn}
}
