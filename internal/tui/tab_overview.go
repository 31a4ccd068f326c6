package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/powerlytics/internal/cli"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/tui/components"
	"github.com/theirongolddev/powerlytics/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// maxOverviewDays bounds the daily chart to the most recent days.
const maxOverviewDays = 90

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	var rows []model.RollupRow
	if a.daily != nil {
		rows = a.daily.Rows()
	}

	// Row 1: metric cards over the scoped daily rollup
	total, peak := 0.0, model.RollupRow{}
	for _, r := range rows {
		total += r.EnergyKWh
		if r.EnergyKWh > peak.EnergyKWh {
			peak = r
		}
	}
	perDay := 0.0
	if len(rows) > 0 {
		perDay = total / float64(len(rows))
	}

	fourth := components.Metric{
		Label:  "Years",
		Value:  fmt.Sprintf("%d", len(a.summary.Years)),
		Detail: cli.FormatDateRange(a.summary.FirstDate, a.summary.LastDate, a.summary.Days),
	}
	if tariff := a.opts.Tariff; tariff.HasRates() {
		cost := 0.0
		for _, r := range rows {
			c, _ := tariff.CostAt(r.Key.Date, r.EnergyKWh)
			cost += c
		}
		fourth = components.Metric{
			Label:  "Est. Cost",
			Value:  cli.FormatCost(tariff.Currency, cost),
			Detail: cli.FormatCost(tariff.Currency, cost/float64(max(len(rows), 1))) + "/day",
			Tint:   t.Yellow,
		}
	}

	cards := []components.Metric{
		{Label: "Energy", Value: cli.FormatKWh(total), Detail: fmt.Sprintf("over %d days", len(rows)), Tint: t.Blue},
		{Label: "Daily Avg", Value: cli.FormatKWh(perDay), Detail: "peak " + cli.FormatDate(peak.Key.Date) + " " + cli.FormatKWh(peak.EnergyKWh)},
		{Label: "Readings", Value: cli.FormatNumber(int64(a.summary.Records)), Detail: fmt.Sprintf("%d dropped · %d duplicate", a.data.DroppedRows, a.summary.Duplicates)},
		fourth,
	}
	b.WriteString(components.MetricRow(cards, cw))
	b.WriteString("\n")

	// Row 2: daily energy chart
	if len(rows) > 0 {
		recent := rows
		if len(recent) > maxOverviewDays {
			recent = recent[len(recent)-maxOverviewDays:]
		}
		b.WriteString(components.Panel(
			fmt.Sprintf("Daily Energy (last %dd, kWh)", len(recent)),
			components.EnergyChart(components.RollupColumns(recent, model.Daily), t.Blue, components.PanelInnerWidth(cw), 10),
			cw,
		))
		b.WriteString("\n")
	} else {
		b.WriteString(components.Panel("Daily Energy", "No readings in the selected range.", cw))
		b.WriteString("\n")
	}

	// Row 3: aggregation levels + monthly trend
	halves := components.SplitWidth(cw, 2)

	var levels strings.Builder
	fmt.Fprintf(&levels, "%-10s %7s %12s %10s %10s\n", "Level", "Rows", "Total kWh", "Mean", "Peak")
	for _, ls := range a.levels {
		fmt.Fprintf(&levels, "%-10s %7s %12s %10s %10s\n",
			ls.Level,
			cli.FormatNumber(int64(ls.Records)),
			cli.FormatEnergy(ls.Total),
			cli.FormatEnergy(ls.Mean),
			cli.FormatEnergy(ls.Max),
		)
	}
	levelsCard := components.Panel("Aggregation Levels", strings.TrimRight(levels.String(), "\n"), halves[0])

	var trend strings.Builder
	if monthly, ok := a.data.Set.Get(model.Monthly); ok && monthly.Len() > 0 {
		vals := make([]float64, monthly.Len())
		for i := range vals {
			vals[i] = monthly.Row(i).EnergyKWh
		}
		first, last := monthly.Row(0), monthly.Row(monthly.Len()-1)
		trend.WriteString(components.Sparkline(vals, t.Accent))
		trend.WriteString("\n")
		fmt.Fprintf(&trend, "%s .. %s", first.Key.Label(model.Monthly), last.Key.Label(model.Monthly))
	}
	for _, peakOf := range []struct {
		g    model.Granularity
		name string
	}{{model.Seasonal, "season"}, {model.Yearly, "year"}} {
		g := peakOf.g
		tbl, ok := a.data.Set.Get(g)
		if !ok || tbl.Len() == 0 {
			continue
		}
		best := tbl.Row(0)
		for _, r := range tbl.Rows() {
			if r.EnergyKWh > best.EnergyKWh {
				best = r
			}
		}
		label := best.Key.Label(g)
		if g == model.Seasonal {
			label = lipgloss.NewStyle().
				Foreground(t.SeasonColor(int(best.Key.Season))).
				Background(t.Surface).
				Render(label)
		}
		fmt.Fprintf(&trend, "\nPeak %s: %s (%s)", peakOf.name, label, cli.FormatKWh(best.EnergyKWh))
	}
	trendCard := components.Panel("Monthly Trend", trend.String(), halves[1])

	if a.isCompactLayout() {
		b.WriteString(levelsCard)
		b.WriteString("\n")
		b.WriteString(trendCard)
	} else {
		b.WriteString(components.JoinPanels(levelsCard, trendCard))
	}

	return b.String()
}
