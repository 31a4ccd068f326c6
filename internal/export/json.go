// Package export writes rollups and profiles to files and time-series sinks.
package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/theirongolddev/powerlytics/internal/model"
)

// RollupRow is the wire form of one rollup row. Only the key fields used by
// the level are populated.
type RollupRow struct {
	Label     string  `json:"label"`
	Start     string  `json:"start"`
	Year      int     `json:"year"`
	Date      string  `json:"date,omitempty"`
	Hour      *int    `json:"hour,omitempty"`
	Week      int     `json:"week,omitempty"`
	Month     int     `json:"month,omitempty"`
	Season    string  `json:"season,omitempty"`
	EnergyKWh float64 `json:"energy_kwh"`
}

// RollupDoc is the wire form of one rollup table.
type RollupDoc struct {
	Granularity string      `json:"granularity"`
	Columns     []string    `json:"columns"`
	TotalKWh    float64     `json:"total_kwh"`
	Rows        []RollupRow `json:"rows"`
}

// ProfileRow is the wire form of one profile bucket.
type ProfileRow struct {
	Label        string  `json:"label"`
	Hour         *int    `json:"hour,omitempty"`
	DayOfWeek    string  `json:"day_of_week,omitempty"`
	AvgEnergyKWh float64 `json:"avg_energy_kwh"`
	Samples      int     `json:"samples"`
}

// ProfileDoc is the wire form of a profile.
type ProfileDoc struct {
	Kind    string       `json:"kind"`
	Columns []string     `json:"columns"`
	Rows    []ProfileRow `json:"rows"`
}

// SetDoc is the wire form of a whole aggregation set.
type SetDoc struct {
	GeneratedAt string       `json:"generated_at"`
	Rollups     []RollupDoc  `json:"rollups"`
	Profiles    []ProfileDoc `json:"profiles,omitempty"`
}

// NewRollupDoc converts t to its wire form.
func NewRollupDoc(t *model.RollupTable) RollupDoc {
	g := t.Granularity()
	doc := RollupDoc{
		Granularity: string(g),
		Columns:     t.Columns(),
		Rows:        make([]RollupRow, 0, t.Len()),
	}
	for _, r := range t.Rows() {
		row := RollupRow{
			Label:     r.Key.Label(g),
			Start:     r.Key.Start(g).Format(model.DateLayout),
			Year:      r.Key.Year,
			EnergyKWh: r.EnergyKWh,
		}
		switch g {
		case model.Hourly:
			h := r.Key.Hour
			row.Hour = &h
			row.Date = r.Key.Date.Format(model.DateLayout)
		case model.Daily:
			row.Date = r.Key.Date.Format(model.DateLayout)
		case model.Weekly:
			row.Week = r.Key.Week
		case model.Monthly:
			row.Month = int(r.Key.Month)
		case model.Seasonal:
			row.Season = r.Key.Season.String()
		}
		doc.Rows = append(doc.Rows, row)
		doc.TotalKWh += r.EnergyKWh
	}
	return doc
}

// NewProfileDoc converts p to its wire form.
func NewProfileDoc(p *model.Profile) ProfileDoc {
	doc := ProfileDoc{Kind: string(p.Kind()), Columns: p.Columns()}
	for _, r := range p.Rows() {
		row := ProfileRow{Label: p.Label(r), AvgEnergyKWh: r.AvgEnergyKWh, Samples: r.Samples}
		if p.Kind() == model.HourOfDay {
			h := r.Hour
			row.Hour = &h
		} else {
			row.DayOfWeek = r.Day.String()
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc
}

// NewSetDoc converts every table of set, plus any profiles, to wire form.
func NewSetDoc(set *model.AggregationSet, profiles []*model.Profile, now time.Time) SetDoc {
	doc := SetDoc{GeneratedAt: now.UTC().Format(time.RFC3339)}
	for _, g := range set.Granularities() {
		t, _ := set.Get(g)
		doc.Rollups = append(doc.Rollups, NewRollupDoc(t))
	}
	for _, p := range profiles {
		doc.Profiles = append(doc.Profiles, NewProfileDoc(p))
	}
	return doc
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
