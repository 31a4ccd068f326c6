package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/powerlytics/internal/model"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "readings.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_RoundTrip(t *testing.T) {
	c := openTemp(t)
	readings := []model.Reading{
		{Date: model.NewDate(2024, time.March, 1), Time: model.NewClock(0, 15, 0), EnergyKWh: 0.512},
		{Date: model.NewDate(2024, time.March, 1), Time: model.NewClock(0, 0, 0), EnergyKWh: 0.25},
	}
	info := FileInfo{MtimeNs: 42, SizeBytes: 1024, OptionsKey: "12|02/01/2006|15:04|,", Dropped: 3}
	if err := c.SaveReadings("/data/meter.csv", info, readings); err != nil {
		t.Fatalf("SaveReadings: %v", err)
	}

	tracked, err := c.GetTrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if got := tracked["/data/meter.csv"]; got != info {
		t.Errorf("tracked = %+v, want %+v", got, info)
	}

	got, err := c.LoadReadings("/data/meter.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d readings, want 2", len(got))
	}
	for i := range got {
		if !got[i].Date.Equal(readings[i].Date) || got[i].Time != readings[i].Time || got[i].EnergyKWh != readings[i].EnergyKWh {
			t.Errorf("reading %d = %+v, want %+v", i, got[i], readings[i])
		}
	}
}

func TestCache_SaveReplaces(t *testing.T) {
	c := openTemp(t)
	day := model.NewDate(2024, time.March, 1)
	first := []model.Reading{{Date: day, EnergyKWh: 1}, {Date: day, EnergyKWh: 2}}
	if err := c.SaveReadings("f", FileInfo{MtimeNs: 1}, first); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveReadings("f", FileInfo{MtimeNs: 2}, first[:1]); err != nil {
		t.Fatal(err)
	}
	got, err := c.LoadReadings("f")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("loaded %d readings after replace, want 1", len(got))
	}

	if err := c.Forget("f"); err != nil {
		t.Fatal(err)
	}
	got, _ = c.LoadReadings("f")
	if len(got) != 0 {
		t.Errorf("loaded %d readings after Forget, want 0", len(got))
	}
}
