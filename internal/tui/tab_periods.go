package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/powerlytics/internal/cli"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"
	"github.com/theirongolddev/powerlytics/internal/tui/components"
	"github.com/theirongolddev/powerlytics/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// periodLevels are the rollups browsable on the Periods tab.
var periodLevels = []model.Granularity{
	model.Monthly,
	model.Seasonal,
	model.Yearly,
	model.Weekly,
	model.Daily,
}

// periodsState tracks the selected granularity and row scroll offset.
type periodsState struct {
	level  int
	offset int
}

func (p *periodsState) cycle(step int) {
	p.level = (p.level + step + len(periodLevels)) % len(periodLevels)
	p.offset = 0
}

func (p *periodsState) scroll(step int, t *model.RollupTable) {
	p.offset += step
	p.clamp(t)
}

func (p *periodsState) clamp(t *model.RollupTable) {
	n := 0
	if t != nil {
		n = t.Len()
	}
	p.offset = min(max(p.offset, 0), max(n-1, 0))
}

// periodTable returns the selected rollup scoped to the date range, or nil
// when nothing falls inside it.
func (a App) periodTable() *model.RollupTable {
	if a.data == nil {
		return nil
	}
	t, ok := a.data.Set.Get(periodLevels[a.periods.level])
	if !ok {
		return nil
	}
	if a.opts.Range.IsZero() {
		return t
	}
	scoped, err := pipeline.FilterRollup(t, a.opts.Range)
	if err != nil {
		return nil
	}
	return scoped
}

func (a App) renderPeriodsTab(cw, contentH int) string {
	t := theme.Active
	g := periodLevels[a.periods.level]

	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var picker strings.Builder
	for i, lvl := range periodLevels {
		if i > 0 {
			picker.WriteString(dimStyle.Render("  "))
		}
		if i == a.periods.level {
			picker.WriteString(selStyle.Render("[" + string(lvl) + "]"))
		} else {
			picker.WriteString(dimStyle.Render(string(lvl)))
		}
	}
	picker.WriteString(dimStyle.Render("   g/G switch, j/k scroll"))

	tbl := a.periodTable()
	if tbl == nil || tbl.Len() == 0 {
		return components.Panel("Periods", picker.String()+"\n\nNo "+string(g)+" rows in the selected range.", cw)
	}

	var b strings.Builder
	b.WriteString(components.Panel("Periods", picker.String(), cw))
	b.WriteString("\n")

	rows := tbl.Rows()
	total := tbl.Total()

	// Chart is only readable for short series.
	chartH := 0
	if len(rows) <= 60 {
		chartH = 8
		b.WriteString(components.Panel(
			fmt.Sprintf("%s energy (kWh)", strings.ToUpper(string(g[:1]))+string(g[1:])),
			components.EnergyChart(components.RollupColumns(rows, g), t.Blue, components.PanelInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
		chartH += 5 // border, title, axis labels, peak line
	}

	// Share list fills what is left of the content area.
	visible := max(contentH-chartH-6, 3)
	start := a.periods.offset
	end := min(start+visible, len(rows))

	labelW := 0
	for _, r := range rows {
		labelW = max(labelW, len(r.Key.Label(g)))
	}
	innerW := components.PanelInnerWidth(cw)
	barW := max(innerW-labelW-32, 10)

	var list strings.Builder
	for i := start; i < end; i++ {
		r := rows[i]
		share := 0.0
		if total > 0 {
			share = r.EnergyKWh / total
		}
		detail := cli.FormatKWh(r.EnergyKWh)
		if tariff := a.opts.Tariff; tariff.HasRates() {
			if cost, ok := tariff.CostAt(r.Key.Start(g), r.EnergyKWh); ok {
				detail += "  " + cli.FormatCost(tariff.Currency, cost)
			}
		}
		list.WriteString(components.ShareBar(r.Key.Label(g), share, truncStr(detail, 28), labelW, barW))
		if i < end-1 {
			list.WriteString("\n")
		}
	}

	title := fmt.Sprintf("Share of %s  (%d-%d of %d)", cli.FormatKWh(total), start+1, end, len(rows))
	b.WriteString(components.Panel(title, list.String(), cw))
	return b.String()
}
