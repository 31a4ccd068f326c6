// Package pipeline turns meter readings into rollups, profiles and summaries.
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/powerlytics/internal/model"
)

// Precision is the number of decimal places kept on aggregated energy values.
const Precision = 3

// round3 rounds v to Precision decimal places, half away from zero.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// ParseGranularity resolves a level name such as "daily".
func ParseGranularity(s string) (model.Granularity, error) {
	g := model.Granularity(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedGranularity, s)
	}
	return g, nil
}

type keyFunc func(model.Reading) model.RollupKey

func keyFuncFor(g model.Granularity) (keyFunc, error) {
	switch g {
	case model.Hourly:
		return func(r model.Reading) model.RollupKey {
			return model.RollupKey{Year: r.Date.Year(), Date: r.Date, Hour: r.Hour()}
		}, nil
	case model.Daily:
		return func(r model.Reading) model.RollupKey {
			return model.RollupKey{Year: r.Date.Year(), Date: r.Date}
		}, nil
	case model.Weekly:
		// Year is the calendar year of the reading, not the ISO week-year, so
		// the days around Jan 1 can land in "week 1" or "week 52/53" of the
		// other year.
		return func(r model.Reading) model.RollupKey {
			_, week := r.Date.ISOWeek()
			return model.RollupKey{Year: r.Date.Year(), Week: week}
		}, nil
	case model.Monthly:
		return func(r model.Reading) model.RollupKey {
			return model.RollupKey{Year: r.Date.Year(), Month: r.Date.Month()}
		}, nil
	case model.Seasonal:
		return func(r model.Reading) model.RollupKey {
			return model.RollupKey{Year: r.Date.Year(), Season: model.SeasonOf(r.Date.Month())}
		}, nil
	case model.Yearly:
		return func(r model.Reading) model.RollupKey {
			return model.RollupKey{Year: r.Date.Year()}
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, string(g))
}

// Aggregate sums the readings of table into one row per key at granularity
// g. Each reading is rounded to Precision before summing and each group sum
// is rounded again, so results are stable across levels and across runs.
func Aggregate(table *model.ReadingTable, g model.Granularity) (*model.RollupTable, error) {
	keyOf, err := keyFuncFor(g)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, errors.New("aggregate: nil reading table")
	}

	index := make(map[model.RollupKey]int)
	var rows []model.RollupRow
	for i := 0; i < table.Len(); i++ {
		r := table.At(i)
		k := keyOf(r)
		idx, ok := index[k]
		if !ok {
			idx = len(rows)
			index[k] = idx
			rows = append(rows, model.RollupRow{Key: k})
		}
		rows[idx].EnergyKWh += round3(r.EnergyKWh)
	}
	for i := range rows {
		rows[i].EnergyKWh = round3(rows[i].EnergyKWh)
	}

	out, err := model.NewRollupTable(g, rows)
	if err != nil {
		return nil, fmt.Errorf("building %s rollup: %w", g, err)
	}
	return out, nil
}
