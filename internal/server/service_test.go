package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/charmbracelet/log"

	"github.com/theirongolddev/powerlytics/internal/export"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"
)

// newTestServer serves 4 days (2024-12-30 .. 2025-01-02) with two 1 kWh
// readings per day, at 00:00 and 06:00.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	var rs []model.Reading
	start := model.NewDate(2024, time.December, 30)
	for i := 0; i < 4; i++ {
		d := start.AddDate(0, 0, i)
		rs = append(rs,
			model.Reading{Date: d, Time: model.NewClock(0, 0, 0), EnergyKWh: 1},
			model.Reading{Date: d, Time: model.NewClock(6, 0, 0), EnergyKWh: 1},
		)
	}
	table, err := model.NewReadingTable(rs)
	if err != nil {
		t.Fatalf("NewReadingTable: %v", err)
	}
	set, err := pipeline.Build(table)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	svc, err := New(Config{Table: table, Set: set, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(svc.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, v any) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decoding %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestNewRequiresData(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New with no data succeeded, want error")
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Fatalf("healthz = %d %q, want 200 \"ok\\n\"", resp.StatusCode, body)
	}
}

func TestSummary(t *testing.T) {
	ts := newTestServer(t)
	var doc summaryDoc
	if code := get(t, ts, "/v1/summary", &doc); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if doc.Data.Records != 8 {
		t.Errorf("records = %d, want 8", doc.Data.Records)
	}
	if doc.Data.Days != 4 {
		t.Errorf("days = %d, want 4", doc.Data.Days)
	}
	if doc.Data.FirstDate != "2024-12-30" || doc.Data.LastDate != "2025-01-02" {
		t.Errorf("range = %s..%s, want 2024-12-30..2025-01-02", doc.Data.FirstDate, doc.Data.LastDate)
	}
	if len(doc.Levels) != 6 {
		t.Errorf("levels = %d, want 6", len(doc.Levels))
	}
}

func TestRollupIndex(t *testing.T) {
	ts := newTestServer(t)
	var doc map[string][]string
	get(t, ts, "/v1/rollups", &doc)
	if got := doc["granularities"]; len(got) != 6 || got[0] != "hourly" || got[5] != "yearly" {
		t.Fatalf("granularities = %v, want hourly..yearly", got)
	}
}

func TestRollup(t *testing.T) {
	ts := newTestServer(t)

	var all export.RollupDoc
	if code := get(t, ts, "/v1/rollups/daily", &all); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if len(all.Rows) != 4 {
		t.Fatalf("daily rows = %d, want 4", len(all.Rows))
	}
	if all.Rows[0].Date != "2024-12-30" || all.Rows[0].EnergyKWh != 2 {
		t.Errorf("first row = %+v, want 2024-12-30 with 2 kWh", all.Rows[0])
	}

	var filtered export.RollupDoc
	get(t, ts, "/v1/rollups/daily?start=2025-01-01", &filtered)
	if len(filtered.Rows) != 2 {
		t.Errorf("filtered daily rows = %d, want 2", len(filtered.Rows))
	}

	var yearly export.RollupDoc
	get(t, ts, "/v1/rollups/YEARLY", &yearly)
	if yearly.Granularity != "yearly" || len(yearly.Rows) != 2 {
		t.Errorf("yearly = %s with %d rows, want yearly with 2", yearly.Granularity, len(yearly.Rows))
	}
}

func TestProfiles(t *testing.T) {
	ts := newTestServer(t)

	var hod export.ProfileDoc
	if code := get(t, ts, "/v1/profiles/hour-of-day", &hod); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if len(hod.Rows) != 2 {
		t.Fatalf("hour-of-day rows = %d, want 2", len(hod.Rows))
	}
	if hod.Rows[1].Hour == nil || *hod.Rows[1].Hour != 6 || hod.Rows[1].AvgEnergyKWh != 1 || hod.Rows[1].Samples != 4 {
		t.Errorf("06:00 bucket = %+v, want hour 6, avg 1, 4 samples", hod.Rows[1])
	}

	var dow export.ProfileDoc
	get(t, ts, "/v1/profiles/day-of-week?years=2025", &dow)
	if len(dow.Rows) != 2 {
		t.Fatalf("day-of-week rows = %d, want 2", len(dow.Rows))
	}
	if dow.Rows[0].DayOfWeek != "Wednesday" || dow.Rows[1].DayOfWeek != "Thursday" {
		t.Errorf("days = %s, %s, want Wednesday, Thursday", dow.Rows[0].DayOfWeek, dow.Rows[1].DayOfWeek)
	}
	if dow.Rows[0].AvgEnergyKWh != 2 {
		t.Errorf("Wednesday avg = %v, want 2", dow.Rows[0].AvgEnergyKWh)
	}
}

func TestErrorStatus(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		path string
		want int
	}{
		{"/v1/rollups/decade", http.StatusBadRequest},
		{"/v1/rollups/daily?start=30/12/2024", http.StatusBadRequest},
		{"/v1/rollups/daily?start=2025-02-01&end=2025-01-01", http.StatusBadRequest},
		{"/v1/rollups/daily?start=2026-01-01", http.StatusNotFound},
		{"/v1/profiles/weekly", http.StatusBadRequest},
		{"/v1/profiles/hour-of-day?years=abc", http.StatusBadRequest},
		{"/v1/profiles/day-of-week?years=2019", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var doc errorDoc
			if code := get(t, ts, tt.path, &doc); code != tt.want {
				t.Fatalf("status = %d, want %d", code, tt.want)
			}
			if doc.Error == "" {
				t.Error("error body is empty")
			}
		})
	}
}

func TestParseYears(t *testing.T) {
	got, err := parseYears(" 2023, 2024 ")
	if err != nil {
		t.Fatalf("parseYears: %v", err)
	}
	if len(got) != 2 || got[0] != 2023 || got[1] != 2024 {
		t.Fatalf("years = %v, want [2023 2024]", got)
	}
	if got, _ := parseYears(""); got != nil {
		t.Fatalf("empty years = %v, want nil", got)
	}
}
