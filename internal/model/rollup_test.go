package model

import (
	"testing"
	"time"
)

func TestNewRollupTable_SortsAndCopies(t *testing.T) {
	rows := []RollupRow{
		{Key: RollupKey{Year: 2024, Season: Autumn}, EnergyKWh: 3},
		{Key: RollupKey{Year: 2023, Season: Summer}, EnergyKWh: 1},
		{Key: RollupKey{Year: 2024, Season: Winter}, EnergyKWh: 2},
	}
	tbl, err := NewRollupTable(Seasonal, rows)
	if err != nil {
		t.Fatal(err)
	}
	rows[0].EnergyKWh = 100

	got := tbl.Rows()
	want := []Season{Summer, Winter, Autumn}
	for i, r := range got {
		if r.Key.Season != want[i] {
			t.Errorf("row %d season = %s, want %s", i, r.Key.Season, want[i])
		}
	}
	if tbl.Total() != 6 {
		t.Errorf("Total = %v, want 6 (input mutation leaked?)", tbl.Total())
	}
	if ys := tbl.Years(); len(ys) != 2 || ys[0] != 2023 || ys[1] != 2024 {
		t.Errorf("Years = %v", ys)
	}
	if tbl.Granularity() != Seasonal {
		t.Errorf("Granularity = %s", tbl.Granularity())
	}
}

func TestNewRollupTable_Duplicate(t *testing.T) {
	rows := []RollupRow{
		{Key: RollupKey{Year: 2024}, EnergyKWh: 1},
		{Key: RollupKey{Year: 2024}, EnergyKWh: 2},
	}
	if _, err := NewRollupTable(Yearly, rows); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestRollupKey_Start(t *testing.T) {
	// ISO week 1 of 2025 starts on Monday 2024-12-30.
	k := RollupKey{Year: 2025, Week: 1}
	if got := k.Start(Weekly); !got.Equal(NewDate(2024, time.December, 30)) {
		t.Errorf("week start = %s, want 2024-12-30", got.Format(DateLayout))
	}
	k = RollupKey{Year: 2024, Month: time.July}
	if got := k.Start(Monthly); !got.Equal(NewDate(2024, time.July, 1)) {
		t.Errorf("month start = %s", got.Format(DateLayout))
	}
	// Winter of Y holds January, February and December of Y.
	k = RollupKey{Year: 2024, Season: Winter}
	if got := k.Start(Seasonal); !got.Equal(NewDate(2024, time.January, 1)) {
		t.Errorf("winter start = %s, want 2024-01-01", got.Format(DateLayout))
	}
	k = RollupKey{Year: 2024, Season: Autumn}
	if got := k.Start(Seasonal); !got.Equal(NewDate(2024, time.October, 1)) {
		t.Errorf("autumn start = %s, want 2024-10-01", got.Format(DateLayout))
	}
}

func TestRollupKey_Label(t *testing.T) {
	tests := []struct {
		g    Granularity
		k    RollupKey
		want string
	}{
		{Hourly, RollupKey{Year: 2024, Date: NewDate(2024, 2, 3), Hour: 7}, "2024-02-03 07:00"},
		{Weekly, RollupKey{Year: 2024, Week: 5}, "2024-W05"},
		{Monthly, RollupKey{Year: 2024, Month: time.March}, "2024-03"},
		{Seasonal, RollupKey{Year: 2024, Season: Spring}, "2024 Spring"},
		{Yearly, RollupKey{Year: 2024}, "2024"},
	}
	for _, tt := range tests {
		if got := tt.k.Label(tt.g); got != tt.want {
			t.Errorf("Label(%s) = %q, want %q", tt.g, got, tt.want)
		}
	}
}

func TestAggregationSet(t *testing.T) {
	daily, _ := NewRollupTable(Daily, []RollupRow{{Key: RollupKey{Year: 2024, Date: NewDate(2024, 1, 1)}, EnergyKWh: 1}})
	yearly, _ := NewRollupTable(Yearly, []RollupRow{{Key: RollupKey{Year: 2024}, EnergyKWh: 1}})
	set := NewAggregationSet(yearly, daily)

	if _, ok := set.Get(Hourly); ok {
		t.Error("hourly should be absent")
	}
	gs := set.Granularities()
	if len(gs) != 2 || gs[0] != Daily || gs[1] != Yearly {
		t.Errorf("Granularities = %v, want [daily yearly]", gs)
	}
}
