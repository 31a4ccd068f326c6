package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/theirongolddev/powerlytics/internal/model"
)

// WriteRollupCSV writes t with its fixed column names as the header row.
func WriteRollupCSV(w io.Writer, t *model.RollupTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}

	g := t.Granularity()
	for _, r := range t.Rows() {
		rec := []string{strconv.Itoa(r.Key.Year)}
		switch g {
		case model.Hourly:
			rec = append(rec, r.Key.Date.Format(model.DateLayout), strconv.Itoa(r.Key.Hour))
		case model.Daily:
			rec = append(rec, r.Key.Date.Format(model.DateLayout))
		case model.Weekly:
			rec = append(rec, strconv.Itoa(r.Key.Week))
		case model.Monthly:
			rec = append(rec, strconv.Itoa(int(r.Key.Month)))
		case model.Seasonal:
			rec = append(rec, r.Key.Season.String())
		}
		rec = append(rec, formatValue(r.EnergyKWh))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing %s csv: %w", g, err)
	}
	return nil
}

// WriteProfileCSV writes p with its key and value column names as the header.
func WriteProfileCSV(w io.Writer, p *model.Profile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(p.Columns()); err != nil {
		return err
	}
	for _, r := range p.Rows() {
		key := r.Day.String()
		if p.Kind() == model.HourOfDay {
			key = strconv.Itoa(r.Hour)
		}
		if err := cw.Write([]string{key, formatValue(r.AvgEnergyKWh)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
