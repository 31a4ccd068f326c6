package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"
	"github.com/theirongolddev/powerlytics/internal/store"
)

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true", "-f", "a.csv"})
	want := []string{"serve", "--addr", ":9000", "-f", "a.csv"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.pid")
	if err := writePID(path, 4242); err != nil {
		t.Fatal(err)
	}
	pid, err := readPID(path)
	if err != nil {
		t.Fatal(err)
	}
	if pid != 4242 {
		t.Errorf("readPID = %d, want 4242", pid)
	}

	if err := os.WriteFile(path, []byte("garbage\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readPID(path); err == nil {
		t.Error("readPID accepted a non-numeric pid")
	}

	if _, err := readPID(filepath.Join(t.TempDir(), "missing.pid")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("readPID(missing) err = %v, want ErrNotExist", err)
	}
}

func TestStateFileRoundTrip(t *testing.T) {
	path := statePath(filepath.Join(t.TempDir(), "serve.pid"))
	in := serverRuntimeState{
		PID:       7,
		Addr:      "127.0.0.1:9999",
		StartedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Paths:     []string{"/data/meter.csv"},
	}
	if err := writeState(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := readState(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.PID != in.PID || out.Addr != in.Addr || !out.StartedAt.Equal(in.StartedAt) || len(out.Paths) != 1 {
		t.Errorf("readState = %+v, want %+v", out, in)
	}
}

func TestEnsureServerNotRunningClearsStalePID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.pid")
	if err := ensureServerNotRunning(path); err != nil {
		t.Fatalf("no pid file: %v", err)
	}

	if err := writePID(path, os.Getpid()); err != nil {
		t.Fatal(err)
	}
	if err := ensureServerNotRunning(path); err == nil {
		t.Error("live pid should be reported as running")
	}
}

func TestProcessAliveSelf(t *testing.T) {
	if !processAlive(os.Getpid()) {
		t.Error("processAlive(self) = false")
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct{ in, want string }{
		{"abcdefghijklmnopqrstuvwxyz", "abcdefgh...wxyz"},
		{"abcdefgh", "abcd..."},
		{"abc", "****"},
	}
	for _, tt := range tests {
		if got := maskToken(tt.in); got != tt.want {
			t.Errorf("maskToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func testSet(t *testing.T) *model.AggregationSet {
	t.Helper()
	var readings []model.Reading
	for d := 0; d < 3; d++ {
		date := model.NewDate(2025, time.January, 6+d)
		readings = append(readings,
			model.Reading{Date: date, Time: model.NewClock(1, 0, 0), EnergyKWh: 0.5},
			model.Reading{Date: date, Time: model.NewClock(13, 0, 0), EnergyKWh: 1.5},
		)
	}
	table, err := model.NewReadingTable(readings)
	if err != nil {
		t.Fatal(err)
	}
	set, err := pipeline.Build(table)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func TestExportCSVDispatch(t *testing.T) {
	set := testSet(t)

	tests := []struct {
		which  string
		header string
		lines  int
	}{
		{"daily", "Year,Date,energy_kwh", 4},
		{"Monthly", "Year,Month,energy_kwh", 2},
		{"hour-of-day", "Hour,avg_energy_kwh", 3},
		{"day_of_week", "DayOfWeek,avg_energy_kwh", 4},
	}
	for _, tt := range tests {
		t.Run(tt.which, func(t *testing.T) {
			var buf bytes.Buffer
			if err := exportCSV(&buf, set, tt.which); err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if lines[0] != tt.header {
				t.Errorf("header = %q, want %q", lines[0], tt.header)
			}
			if len(lines) != tt.lines {
				t.Errorf("got %d lines, want %d:\n%s", len(lines), tt.lines, buf.String())
			}
		})
	}

	var buf bytes.Buffer
	if err := exportCSV(&buf, set, "fortnightly"); !errors.Is(err, pipeline.ErrUnsupportedGranularity) {
		t.Errorf("exportCSV(fortnightly) err = %v, want ErrUnsupportedGranularity", err)
	}
}

func TestExportJSONIncludesProfiles(t *testing.T) {
	var buf bytes.Buffer
	if err := exportJSON(&buf, testSet(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"granularity": "yearly"`, `"kind": "hour_of_day"`, `"kind": "day_of_week"`} {
		if !strings.Contains(out, want) {
			t.Errorf("json export missing %s", want)
		}
	}
}

func TestClearCacheForgetsNamedFiles(t *testing.T) {
	dir := t.TempDir()
	c, err := store.Open(filepath.Join(dir, "readings.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	a, b := filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")
	day := model.NewDate(2024, time.March, 1)
	for _, p := range []string{a, b} {
		if err := c.SaveReadings(p, store.FileInfo{MtimeNs: 1}, []model.Reading{{Date: day, EnergyKWh: 1}}); err != nil {
			t.Fatal(err)
		}
	}

	if err := clearCache(c, []string{a}); err != nil {
		t.Fatal(err)
	}
	tracked, err := c.GetTrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tracked[a]; ok || len(tracked) != 1 {
		t.Errorf("tracked after forgetting a = %v, want only b", tracked)
	}

	if err := clearCache(c, nil); err != nil {
		t.Fatal(err)
	}
	if tracked, _ = c.GetTrackedFiles(); len(tracked) != 0 {
		t.Errorf("tracked after clear = %d files, want 0", len(tracked))
	}
}

func TestSeasonRows(t *testing.T) {
	rows := []model.RollupRow{
		{Key: model.RollupKey{Year: 2023, Season: model.Winter}, EnergyKWh: 10},
		{Key: model.RollupKey{Year: 2023, Season: model.Summer}, EnergyKWh: 4},
		{Key: model.RollupKey{Year: 2024, Season: model.Winter}, EnergyKWh: 12},
	}

	got, err := seasonRows(rows, model.Seasonal, "WINTER")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Key.Year != 2023 || got[1].Key.Year != 2024 {
		t.Errorf("winter rows = %+v", got)
	}

	if got, _ := seasonRows(rows, model.Seasonal, ""); len(got) != 3 {
		t.Errorf("no season kept %d rows, want 3", len(got))
	}
	if _, err := seasonRows(rows, model.Seasonal, "monsoon"); err == nil {
		t.Error("unknown season should fail")
	}
	if _, err := seasonRows(rows, model.Monthly, "winter"); err == nil {
		t.Error("season on the monthly rollup should fail")
	}
}
