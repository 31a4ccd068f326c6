package components

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/powerlytics/internal/cli"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestSplitWidthSumsToWidth(t *testing.T) {
	for _, total := range []int{80, 81, 119, 180} {
		widths := SplitWidth(total, 4)
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != total {
			t.Errorf("SplitWidth(%d, 4) sums to %d", total, sum)
		}
		if widths[0]-widths[3] > 1 {
			t.Errorf("SplitWidth(%d, 4) = %v, uneven by more than 1", total, widths)
		}
	}
	if SplitWidth(10, 0) != nil {
		t.Error("SplitWidth(10, 0) should be nil")
	}
}

func TestJoinPanelsMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := Panel("Short", "Content", 22)
	tallCard := Panel("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	lines := strings.Split(JoinPanels(tallCard, shortCard), "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i, line := range lines {
		if got, want := lipgloss.Width(line), 44; got != want {
			t.Errorf("line %d width = %d, want %d", i, got, want)
		}
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	theme.SetActive("flexoki-dark")
	for active := range Tabs {
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1 // separators

		bar := RenderTabBar(active, 0)
		if got := lipgloss.Width(bar); got != want {
			t.Errorf("active=%d: tab bar width = %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('f'); got != 2 {
		t.Errorf("TabIdxByKey('f') = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestHBars(t *testing.T) {
	theme.SetActive("flexoki-dark")
	rows := []HBar{
		{Label: "Monday", Value: 10, Text: "10.000"},
		{Label: "Tue", Value: 5, Text: "5.000"},
		{Label: "Wed", Value: 0, Text: "0.000"},
	}
	out := HBars(rows, theme.Active.Blue, theme.Active.Orange, 40)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	for i, line := range lines {
		if got := lipgloss.Width(line); got != 40 {
			t.Errorf("line %d width = %d, want 40", i, got)
		}
	}
	if strings.Count(lines[0], "█") <= strings.Count(lines[1], "█") {
		t.Error("peak row should be longer than half-value row")
	}
	if strings.Contains(lines[2], "█") {
		t.Error("zero row should draw no bar")
	}
	if HBars(nil, theme.Active.Blue, theme.Active.Orange, 40) != "" {
		t.Error("HBars(nil) should be empty")
	}
}

func TestColorForShare(t *testing.T) {
	th := theme.Active
	tests := []struct {
		share float64
		want  lipgloss.Color
	}{
		{0.05, th.Green},
		{0.25, th.Yellow},
		{0.35, th.Orange},
		{0.9, th.Red},
	}
	for _, tt := range tests {
		if got := ColorForShare(tt.share); got != string(tt.want) {
			t.Errorf("ColorForShare(%v) = %s, want %s", tt.share, got, tt.want)
		}
	}
}

func TestProgressBarClamps(t *testing.T) {
	if got := ProgressBar(1.7, 10); !strings.Contains(got, "100%") {
		t.Errorf("ProgressBar(1.7) = %q, want 100%%", got)
	}
	if got := ProgressBar(-1, 10); !strings.Contains(got, "0%") {
		t.Errorf("ProgressBar(-1) = %q, want 0%%", got)
	}
}

func TestSparkline(t *testing.T) {
	if Sparkline(nil, theme.Active.Blue) != "" {
		t.Error("Sparkline(nil) should be empty")
	}
	got := Sparkline([]float64{0, 1, 2, 4}, theme.Active.Blue)
	if !strings.Contains(got, "▁") || !strings.Contains(got, "█") {
		t.Errorf("Sparkline = %q, want lowest and highest blocks", got)
	}
	// A flat series sits mid-height rather than on the floor.
	if got := Sparkline([]float64{3, 3, 3}, theme.Active.Blue); !strings.Contains(got, "▅▅▅") {
		t.Errorf("flat Sparkline = %q, want mid blocks", got)
	}
}

func TestMetricRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	row := MetricRow([]Metric{
		{Label: "Energy", Value: "12.500 kWh", Detail: "over 3 days", Tint: theme.Active.Blue},
		{Label: "Readings", Value: "72"},
	}, 61)
	for i, line := range strings.Split(row, "\n") {
		if got := lipgloss.Width(line); got != 61 {
			t.Errorf("line %d width = %d, want 61", i, got)
		}
	}
	if MetricRow(nil, 40) != "" {
		t.Error("MetricRow(nil) should be empty")
	}
}

func TestRollupColumns(t *testing.T) {
	th := theme.Active
	seasonal := []model.RollupRow{
		{Key: model.RollupKey{Year: 2023, Season: model.Autumn}, EnergyKWh: 4},
		{Key: model.RollupKey{Year: 2024, Season: model.Winter}, EnergyKWh: 9},
		{Key: model.RollupKey{Year: 2024, Season: model.Spring}, EnergyKWh: 5},
	}
	cols := RollupColumns(seasonal, model.Seasonal)
	wantLabels := []string{"2023", "2024", "Spr"}
	wantColors := []lipgloss.Color{th.SeasonColor(int(model.Autumn)), th.SeasonColor(int(model.Winter)), th.SeasonColor(int(model.Spring))}
	for i, c := range cols {
		if c.Label != wantLabels[i] {
			t.Errorf("col %d label = %q, want %q", i, c.Label, wantLabels[i])
		}
		if c.Color != wantColors[i] {
			t.Errorf("col %d color = %s, want %s", i, c.Color, wantColors[i])
		}
	}

	day := func(m time.Month, d int) model.RollupRow {
		return model.RollupRow{Key: model.RollupKey{Year: 2024, Date: model.NewDate(2024, m, d)}, EnergyKWh: 1}
	}
	daily := RollupColumns([]model.RollupRow{day(1, 30), day(1, 31), day(2, 1)}, model.Daily)
	if daily[0].Label != "Jan" || daily[1].Label != "31" || daily[2].Label != "Feb" {
		t.Errorf("daily labels = %q %q %q, want Jan 31 Feb", daily[0].Label, daily[1].Label, daily[2].Label)
	}
	if daily[0].Color != "" {
		t.Error("daily columns should use the chart color")
	}
}

func TestHourColumns(t *testing.T) {
	p := model.NewProfile(model.HourOfDay, []model.ProfileRow{
		{Hour: 0, AvgEnergyKWh: 1, Samples: 1},
		{Hour: 12, AvgEnergyKWh: 3, Samples: 1},
	})
	cols := HourColumns(p)
	if len(cols) != 24 {
		t.Fatalf("columns = %d, want 24", len(cols))
	}
	if cols[0].KWh != 1 || cols[12].KWh != 3 || cols[5].KWh != 0 {
		t.Errorf("columns 0/5/12 = %v/%v/%v, want 1/0/3", cols[0].KWh, cols[5].KWh, cols[12].KWh)
	}
	if cols[7].Label != "07" {
		t.Errorf("label 7 = %q, want 07", cols[7].Label)
	}
}

func TestEnergyChart(t *testing.T) {
	theme.SetActive("flexoki-dark")
	cols := []Column{{Label: "Mon", KWh: 2}, {Label: "Tue", KWh: 7.25}, {Label: "Wed", KWh: 0}}
	out := EnergyChart(cols, theme.Active.Blue, 40, 8)
	lines := strings.Split(out, "\n")
	// 8 bar rows, the axis, tick labels and the peak line.
	if len(lines) != 11 {
		t.Fatalf("lines = %d, want 11:\n%s", len(lines), out)
	}
	barWidth := lipgloss.Width(lines[0])
	for i := 1; i <= 8; i++ {
		if got := lipgloss.Width(lines[i]); got != barWidth {
			t.Errorf("line %d width = %d, want %d", i, got, barWidth)
		}
	}
	if barWidth > 40 {
		t.Errorf("chart width %d exceeds 40", barWidth)
	}
	if !strings.Contains(lines[0], "10") || !strings.Contains(lines[4], "5") {
		t.Errorf("axis labels missing: %q / %q", lines[0], lines[4])
	}
	if !strings.Contains(lines[9], "Mon") || !strings.Contains(lines[9], "Wed") {
		t.Errorf("tick line = %q", lines[9])
	}
	if want := "peak Tue " + cli.FormatKWh(7.25); !strings.Contains(lines[10], want) {
		t.Errorf("peak line = %q, want %q", lines[10], want)
	}

	if EnergyChart(nil, theme.Active.Blue, 40, 8) != "" {
		t.Error("EnergyChart(nil) should be empty")
	}
	if got := EnergyChart(cols, theme.Active.Blue, 10, 8); strings.Contains(got, "\n") {
		t.Error("narrow chart should fall back to a sparkline")
	}
}

func TestFoldKeepsPeaks(t *testing.T) {
	var cols []Column
	for i := 0; i < 100; i++ {
		cols = append(cols, Column{KWh: float64(i % 10)})
	}
	cols[57].KWh = 50
	got := fold(cols, 20)
	if len(got) > 20 {
		t.Fatalf("fold = %d columns, want <= 20", len(got))
	}
	peak := 0.0
	for _, c := range got {
		peak = max(peak, c.KWh)
	}
	if peak != 50 {
		t.Errorf("folded peak = %v, want 50", peak)
	}
	if len(fold(cols[:5], 20)) != 5 {
		t.Error("fold should leave short series alone")
	}
}

func TestAxisScale(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 1},
		{0.0004, 0.0005},
		{1, 1},
		{7.25, 10},
		{13, 20},
		{2000, 2000},
		{4100, 5000},
	}
	for _, tt := range tests {
		if got := axisCeiling(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("axisCeiling(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for in, want := range map[float64]string{0.5: "0.5", 2.5: "2.5", 5000: "5000", 20000: "20M"} {
		if got := axisLabel(in); got != want {
			t.Errorf("axisLabel(%v) = %q, want %q", in, got, want)
		}
	}
}
