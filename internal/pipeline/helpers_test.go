package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/powerlytics/internal/model"
)

func mustDate(t testing.TB, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parsing date %q: %v", s, err)
	}
	return d
}

// reading builds a reading at HH:MM on the given day.
func reading(t testing.TB, day string, hour, minute int, kwh float64) model.Reading {
	t.Helper()
	return model.Reading{Date: mustDate(t, day), Time: model.NewClock(hour, minute, 0), EnergyKWh: kwh}
}

func mustTable(t testing.TB, rs ...model.Reading) *model.ReadingTable {
	t.Helper()
	tbl, err := model.NewReadingTable(rs)
	if err != nil {
		t.Fatalf("NewReadingTable: %v", err)
	}
	return tbl
}

func mustBuild(t testing.TB, tbl *model.ReadingTable) *model.AggregationSet {
	t.Helper()
	set, err := Build(tbl)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return set
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// yearOfReadings spreads one reading every six hours across [start, end].
func yearOfReadings(t testing.TB, start, end string) *model.ReadingTable {
	t.Helper()
	var rs []model.Reading
	for d := mustDate(t, start); !d.After(mustDate(t, end)); d = d.AddDate(0, 0, 1) {
		for h := 0; h < 24; h += 6 {
			rs = append(rs, model.Reading{
				Date:      d,
				Time:      model.NewClock(h, 0, 0),
				EnergyKWh: 0.1 + float64(d.YearDay()%7)*0.013 + float64(h)*0.002,
			})
		}
	}
	return mustTable(t, rs...)
}
