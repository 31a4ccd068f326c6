package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/powerlytics/internal/model"
)

func TestAggregate_Hourly_SumsSubHourly(t *testing.T) {
	tbl := mustTable(t,
		reading(t, "2024-03-01", 10, 0, 0.25),
		reading(t, "2024-03-01", 10, 15, 0.25),
		reading(t, "2024-03-01", 10, 30, 0.125),
		reading(t, "2024-03-01", 11, 0, 1),
	)
	got, err := Aggregate(tbl, model.Hourly)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2", got.Len())
	}
	if r := got.Row(0); r.Key.Hour != 10 || r.EnergyKWh != 0.625 {
		t.Errorf("hour 10 = %+v, want 0.625", r)
	}
	if r := got.Row(1); r.Key.Hour != 11 || r.Key.Year != 2024 {
		t.Errorf("row 1 key = %+v", r.Key)
	}
	if got.Granularity() != model.Hourly {
		t.Errorf("tag = %s, want hourly", got.Granularity())
	}
}

func TestAggregate_Rounding(t *testing.T) {
	tbl := mustTable(t,
		reading(t, "2024-03-01", 0, 0, 0.1),
		reading(t, "2024-03-01", 1, 0, 0.2),
		reading(t, "2024-03-01", 2, 0, 0.00049),
	)
	got, err := Aggregate(tbl, model.Daily)
	if err != nil {
		t.Fatal(err)
	}
	// 0.1+0.2 carries float noise; the 0.00049 reading rounds away.
	if v := got.Row(0).EnergyKWh; v != 0.3 {
		t.Errorf("daily = %v, want exactly 0.3", v)
	}
}

func TestAggregate_Monthly(t *testing.T) {
	tbl := mustTable(t,
		reading(t, "2024-01-31", 0, 0, 1),
		reading(t, "2024-02-01", 0, 0, 2),
		reading(t, "2024-02-29", 0, 0, 3),
		reading(t, "2025-02-01", 0, 0, 4),
	)
	got, err := Aggregate(tbl, model.Monthly)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		year  int
		month time.Month
		kwh   float64
	}{
		{2024, time.January, 1}, {2024, time.February, 5}, {2025, time.February, 4},
	}
	if got.Len() != len(want) {
		t.Fatalf("rows = %d, want %d", got.Len(), len(want))
	}
	for i, w := range want {
		r := got.Row(i)
		if r.Key.Year != w.year || r.Key.Month != w.month || r.EnergyKWh != w.kwh {
			t.Errorf("row %d = %+v, want %d-%02d %v", i, r, w.year, w.month, w.kwh)
		}
	}
}

func TestAggregate_Seasonal(t *testing.T) {
	tbl := mustTable(t,
		reading(t, "2024-01-15", 0, 0, 1),
		reading(t, "2024-06-15", 0, 0, 2),
		reading(t, "2024-09-30", 0, 0, 3),
		reading(t, "2024-10-01", 0, 0, 4),
		reading(t, "2024-12-01", 0, 0, 5),
		reading(t, "2024-04-01", 0, 0, 6),
	)
	got, err := Aggregate(tbl, model.Seasonal)
	if err != nil {
		t.Fatal(err)
	}
	want := map[model.Season]float64{
		model.Winter: 6, model.Spring: 6, model.Summer: 5, model.Autumn: 4,
	}
	if got.Len() != 4 {
		t.Fatalf("rows = %d, want 4", got.Len())
	}
	for i, s := range model.Seasons() {
		r := got.Row(i)
		if r.Key.Season != s || r.EnergyKWh != want[s] {
			t.Errorf("row %d = %s %v, want %s %v", i, r.Key.Season, r.EnergyKWh, s, want[s])
		}
	}
}

func TestAggregate_DecemberFirstIsWinterSameYear(t *testing.T) {
	tbl := mustTable(t, reading(t, "2023-12-01", 8, 0, 1.5))
	got, err := Aggregate(tbl, model.Seasonal)
	if err != nil {
		t.Fatal(err)
	}
	r := got.Row(0)
	if r.Key.Season != model.Winter || r.Key.Year != 2023 {
		t.Errorf("Dec 1 2023 -> %s %d, want Winter 2023", r.Key.Season, r.Key.Year)
	}
}

func TestAggregate_WeeklyUsesCalendarYear(t *testing.T) {
	// 2024-12-30 and 2024-12-31 fall in ISO week 1 of 2025; 2025-01-01 too.
	tbl := mustTable(t,
		reading(t, "2024-12-29", 0, 0, 1), // ISO 2024-W52
		reading(t, "2024-12-30", 0, 0, 2),
		reading(t, "2024-12-31", 0, 0, 3),
		reading(t, "2025-01-01", 0, 0, 4),
	)
	got, err := Aggregate(tbl, model.Weekly)
	if err != nil {
		t.Fatal(err)
	}
	type wk struct{ year, week int }
	rows := map[wk]float64{}
	for _, r := range got.Rows() {
		rows[wk{r.Key.Year, r.Key.Week}] = r.EnergyKWh
	}
	want := map[wk]float64{{2024, 52}: 1, {2024, 1}: 5, {2025, 1}: 4}
	if len(rows) != len(want) {
		t.Fatalf("weekly rows = %v, want %v", rows, want)
	}
	for k, v := range want {
		if rows[k] != v {
			t.Errorf("week %+v = %v, want %v", k, rows[k], v)
		}
	}
}

func TestAggregate_Yearly(t *testing.T) {
	tbl := mustTable(t,
		reading(t, "2023-12-31", 23, 45, 0.5),
		reading(t, "2024-01-01", 0, 0, 0.75),
		reading(t, "2024-07-01", 0, 0, 0.25),
	)
	got, err := Aggregate(tbl, model.Yearly)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 2 || got.Row(0).EnergyKWh != 0.5 || got.Row(1).EnergyKWh != 1 {
		t.Errorf("yearly = %+v", got.Rows())
	}
	if cols := got.Columns(); len(cols) != 2 || cols[0] != "Year" || cols[1] != model.EnergyColumn {
		t.Errorf("Columns = %v", cols)
	}
}

func TestAggregate_Unsupported(t *testing.T) {
	tbl := mustTable(t, reading(t, "2024-01-01", 0, 0, 1))
	_, err := Aggregate(tbl, model.Granularity("decade"))
	if !errors.Is(err, ErrUnsupportedGranularity) {
		t.Fatalf("err = %v, want ErrUnsupportedGranularity", err)
	}
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity(" Monthly ")
	if err != nil || g != model.Monthly {
		t.Errorf("ParseGranularity(Monthly) = %q, %v", g, err)
	}
	if _, err := ParseGranularity("hour_of_day"); !errors.Is(err, ErrUnsupportedGranularity) {
		t.Errorf("profile kind should not parse as a granularity, err = %v", err)
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	tbl := mustTable(t,
		reading(t, "2024-03-01", 10, 0, 0.1234),
		reading(t, "2024-03-02", 10, 0, 0.5678),
	)
	before := tbl.Readings()
	for _, g := range model.PrimaryGranularities() {
		if _, err := Aggregate(tbl, g); err != nil {
			t.Fatal(err)
		}
	}
	after := tbl.Readings()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("reading %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}
