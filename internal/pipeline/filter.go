package pipeline

import (
	"fmt"

	"github.com/theirongolddev/powerlytics/internal/model"
)

// FilterRollup returns a new table holding the rows of t that fall within r.
// Hourly and daily rows match on their date, monthly rows on (year, month),
// and the remaining levels on year. t is not modified.
func FilterRollup(t *model.RollupTable, r model.DateRange) (*model.RollupTable, error) {
	g := t.Granularity()
	var keep func(model.RollupKey) bool
	switch g {
	case model.Hourly, model.Daily:
		keep = func(k model.RollupKey) bool { return r.Contains(k.Date) }
	case model.Monthly:
		keep = func(k model.RollupKey) bool { return r.ContainsMonth(k.Year, k.Month) }
	case model.Weekly, model.Seasonal, model.Yearly:
		keep = func(k model.RollupKey) bool { return r.ContainsYear(k.Year) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, string(g))
	}

	var rows []model.RollupRow
	for i := 0; i < t.Len(); i++ {
		if row := t.Row(i); keep(row.Key) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s rollup over %s", ErrEmptyResult, g, r)
	}
	return model.NewRollupTable(g, rows)
}
