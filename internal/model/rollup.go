package model

import (
	"fmt"
	"sort"
	"time"
)

// RollupKey is the grouping key of one rollup row. Which fields are
// meaningful depends on the table's granularity (see Granularity.KeyColumns).
type RollupKey struct {
	Year   int
	Date   time.Time
	Hour   int
	Week   int
	Month  time.Month
	Season Season
}

// Label renders the key the way it is shown in tables and charts.
func (k RollupKey) Label(g Granularity) string {
	switch g {
	case Hourly:
		return fmt.Sprintf("%s %02d:00", k.Date.Format("2006-01-02"), k.Hour)
	case Daily:
		return k.Date.Format("2006-01-02")
	case Weekly:
		return fmt.Sprintf("%d-W%02d", k.Year, k.Week)
	case Monthly:
		return fmt.Sprintf("%d-%02d", k.Year, int(k.Month))
	case Seasonal:
		return fmt.Sprintf("%d %s", k.Year, k.Season)
	default:
		return fmt.Sprintf("%d", k.Year)
	}
}

// Start returns the first calendar day the key covers. Weekly keys resolve
// to the Monday of the ISO week within Year. A (Y, Winter) key covers
// January, February and December of Y, so its start is January 1 and a
// tariff looked up at Start prices that December at the January rate.
func (k RollupKey) Start(g Granularity) time.Time {
	switch g {
	case Hourly, Daily:
		return k.Date
	case Weekly:
		return isoWeekStart(k.Year, k.Week)
	case Monthly:
		return NewDate(k.Year, k.Month, 1)
	case Seasonal:
		switch k.Season {
		case Winter:
			return NewDate(k.Year, time.January, 1)
		case Spring:
			return NewDate(k.Year, time.March, 1)
		case Summer:
			return NewDate(k.Year, time.June, 1)
		default:
			return NewDate(k.Year, time.October, 1)
		}
	default:
		return NewDate(k.Year, time.January, 1)
	}
}

func isoWeekStart(year, week int) time.Time {
	// Jan 4 is always in ISO week 1.
	jan4 := NewDate(year, time.January, 4)
	monday := jan4.AddDate(0, 0, -int(DayOfWeekOf(jan4.Weekday())))
	return monday.AddDate(0, 0, (week-1)*7)
}

func (k RollupKey) less(o RollupKey, g Granularity) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	switch g {
	case Hourly:
		if !k.Date.Equal(o.Date) {
			return k.Date.Before(o.Date)
		}
		return k.Hour < o.Hour
	case Daily:
		return k.Date.Before(o.Date)
	case Weekly:
		return k.Week < o.Week
	case Monthly:
		return k.Month < o.Month
	case Seasonal:
		return k.Season < o.Season
	}
	return false
}

// RollupRow is one aggregated row.
type RollupRow struct {
	Key       RollupKey
	EnergyKWh float64
}

// RollupTable is the immutable result of aggregating readings at one
// granularity. Rows are unique by key and sorted by key.
type RollupTable struct {
	granularity Granularity
	rows        []RollupRow
}

// NewRollupTable copies rows into a new table tagged with g. Rows are sorted
// by key; duplicate keys are rejected.
func NewRollupTable(g Granularity, rows []RollupRow) (*RollupTable, error) {
	out := make([]RollupRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key.less(out[j].Key, g)
	})
	for i := 1; i < len(out); i++ {
		if !out[i-1].Key.less(out[i].Key, g) {
			return nil, fmt.Errorf("duplicate %s key %s", g, out[i].Key.Label(g))
		}
	}
	return &RollupTable{granularity: g, rows: out}, nil
}

// Granularity returns the level tag the table was built with.
func (t *RollupTable) Granularity() Granularity { return t.granularity }

// Len returns the number of rows.
func (t *RollupTable) Len() int { return len(t.rows) }

// Row returns the i-th row.
func (t *RollupTable) Row(i int) RollupRow { return t.rows[i] }

// Rows returns a copy of the rows.
func (t *RollupTable) Rows() []RollupRow {
	out := make([]RollupRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// Columns returns the key columns followed by the value column.
func (t *RollupTable) Columns() []string {
	return append(t.granularity.KeyColumns(), EnergyColumn)
}

// Total sums the value column.
func (t *RollupTable) Total() float64 {
	var sum float64
	for _, r := range t.rows {
		sum += r.EnergyKWh
	}
	return sum
}

// Years returns the distinct Year keys, ascending.
func (t *RollupTable) Years() []int {
	var years []int
	for _, r := range t.rows {
		if n := len(years); n == 0 || years[n-1] != r.Key.Year {
			years = append(years, r.Key.Year)
		}
	}
	return years
}

// AggregationSet maps each primary granularity to its rollup table. It is
// read-only once built.
type AggregationSet struct {
	tables map[Granularity]*RollupTable
}

// NewAggregationSet assembles tables into a set, keyed by their own tags.
func NewAggregationSet(tables ...*RollupTable) *AggregationSet {
	s := &AggregationSet{tables: make(map[Granularity]*RollupTable, len(tables))}
	for _, t := range tables {
		if t != nil {
			s.tables[t.granularity] = t
		}
	}
	return s
}

// Get returns the table for g, if present.
func (s *AggregationSet) Get(g Granularity) (*RollupTable, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.tables[g]
	return t, ok
}

// Granularities lists the levels present, finest first.
func (s *AggregationSet) Granularities() []Granularity {
	var out []Granularity
	for _, g := range PrimaryGranularities() {
		if _, ok := s.tables[g]; ok {
			out = append(out, g)
		}
	}
	return out
}

// Len returns the number of tables in the set.
func (s *AggregationSet) Len() int { return len(s.tables) }
