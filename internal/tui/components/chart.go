package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/powerlytics/internal/cli"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as one row of block characters scaled between
// the series minimum and maximum, so a baseload does not flatten the trend.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}

	runes := make([]rune, len(values))
	for i, v := range values {
		idx := len(sparkBlocks) / 2
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1)))
		}
		runes[i] = sparkBlocks[idx]
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(string(runes))
}

// Column is one bar of an EnergyChart.
type Column struct {
	Label string
	KWh   float64
	// Color overrides the chart color for this bar.
	Color lipgloss.Color
}

// RollupColumns turns chronological rollup rows into chart columns with
// short axis labels. A label carries the year only where the year changes.
// Seasonal bars take their season's color.
func RollupColumns(rows []model.RollupRow, g model.Granularity) []Column {
	t := theme.Active
	cols := make([]Column, len(rows))
	for i, r := range rows {
		k := r.Key
		newYear := i == 0 || rows[i-1].Key.Year != k.Year
		c := Column{KWh: r.EnergyKWh}
		switch g {
		case model.Hourly:
			c.Label = fmt.Sprintf("%02d", k.Hour)
			if i == 0 || !rows[i-1].Key.Date.Equal(k.Date) {
				c.Label = k.Date.Format("Jan 2")
			}
		case model.Daily:
			c.Label = strconv.Itoa(k.Date.Day())
			if i == 0 || rows[i-1].Key.Date.Month() != k.Date.Month() {
				c.Label = k.Date.Format("Jan")
			}
		case model.Weekly:
			c.Label = fmt.Sprintf("W%d", k.Week)
		case model.Monthly:
			c.Label = k.Month.String()[:3]
		case model.Seasonal:
			c.Label = k.Season.String()[:3]
			c.Color = t.SeasonColor(int(k.Season))
		default:
			c.Label = strconv.Itoa(k.Year)
			newYear = false
		}
		if newYear && g != model.Hourly && g != model.Daily {
			c.Label = strconv.Itoa(k.Year)
		}
		cols[i] = c
	}
	return cols
}

// HourColumns lays an hour-of-day profile over 24 columns. Hours without
// data stay at zero.
func HourColumns(p *model.Profile) []Column {
	cols := make([]Column, 24)
	for h := range cols {
		cols[h].Label = fmt.Sprintf("%02d", h)
	}
	if p == nil {
		return cols
	}
	for _, r := range p.Rows() {
		if r.Hour >= 0 && r.Hour < 24 {
			cols[r.Hour].KWh = r.AvgEnergyKWh
		}
	}
	return cols
}

// EnergyChart draws columns as vertical bars over a kWh axis labelled at
// zero, half and full scale. The tallest bar is drawn in the highlight
// color unless it carries its own. A footer names the peak column.
func EnergyChart(cols []Column, color lipgloss.Color, width, height int) string {
	if len(cols) == 0 {
		return ""
	}
	if width < 16 || height < 4 {
		vals := make([]float64, len(cols))
		for i, c := range cols {
			vals[i] = c.KWh
		}
		return Sparkline(vals, color)
	}
	t := theme.Active

	peakCol := cols[0]
	for _, c := range cols {
		if c.KWh > peakCol.KWh {
			peakCol = c
		}
	}
	top := axisCeiling(peakCol.KWh)
	rows := height &^ 1

	axisW := max(len(axisLabel(top)), len(axisLabel(top/2)), 3)
	plotW := width - axisW - 1
	cols = fold(cols, plotW)
	n := len(cols)

	gap := 1
	barW := (plotW - (n - 1)) / n
	if barW < 1 {
		gap, barW = 0, max(plotW/n, 1)
	}
	barW = min(barW, 5)
	if n == 1 {
		gap = 0
	}

	surface := lipgloss.NewStyle().Background(t.Surface)
	axis := surface.Foreground(t.TextDim)
	styles := make([]lipgloss.Style, n)
	for i, c := range cols {
		fg := color
		switch {
		case c.Color != "":
			fg = c.Color
		case c.KWh == peakCol.KWh && c.KWh > 0:
			fg = t.Orange
		}
		styles[i] = surface.Foreground(fg)
	}

	var b strings.Builder
	for row := rows; row >= 1; row-- {
		lo := top * float64(row-1) / float64(rows)
		span := top / float64(rows)

		label := ""
		switch row {
		case rows:
			label = axisLabel(top)
		case rows / 2:
			label = axisLabel(top / 2)
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s┤", axisW, label)))

		for i, c := range cols {
			if i > 0 && gap > 0 {
				b.WriteString(surface.Render(" "))
			}
			cell := " "
			if fill := (c.KWh - lo) / span; fill >= 1 {
				cell = "█"
			} else if fill > 0 {
				cell = string(sparkBlocks[min(int(fill*float64(len(sparkBlocks))), len(sparkBlocks)-1)])
			}
			b.WriteString(styles[i].Render(strings.Repeat(cell, barW)))
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + (n-1)*gap
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", axisLen))))
	if ticks := tickLine(cols, barW+gap, axisLen); ticks != "" {
		b.WriteString("\n")
		b.WriteString(axis.Render(strings.Repeat(" ", axisW+1) + ticks))
	}
	b.WriteString("\n")
	b.WriteString(axis.Render(fmt.Sprintf("%*s peak %s %s", axisW, "", peakCol.Label, cli.FormatKWh(peakCol.KWh))))
	return b.String()
}

// fold merges neighbouring columns until they fit width cells, keeping the
// largest value of each group so peaks survive. Labels come from the
// group's first column.
func fold(cols []Column, width int) []Column {
	if len(cols) <= width || width < 1 {
		return cols
	}
	per := (len(cols) + width - 1) / width
	out := make([]Column, 0, width)
	for i := 0; i < len(cols); i += per {
		group := cols[i:min(i+per, len(cols))]
		c := group[0]
		for _, g := range group[1:] {
			if g.KWh > c.KWh {
				c.KWh, c.Color = g.KWh, g.Color
			}
		}
		out = append(out, c)
	}
	return out
}

// tickLine writes column labels under their bars, skipping any that would
// collide with the previous one.
func tickLine(cols []Column, pitch, width int) string {
	line := []rune(strings.Repeat(" ", width))
	next := 0
	placed := false
	for i, c := range cols {
		pos := i * pitch
		lbl := []rune(c.Label)
		if len(lbl) == 0 || pos < next || pos+len(lbl) > width {
			continue
		}
		copy(line[pos:], lbl)
		next = pos + len(lbl) + 1
		placed = true
	}
	if !placed {
		return ""
	}
	return strings.TrimRight(string(line), " ")
}

// axisCeiling rounds v up to 1, 2 or 5 times a power of ten.
func axisCeiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*mag*(1+1e-9) {
			return m * mag
		}
	}
	return 10 * mag
}

// axisLabel prints a kWh tick value, switching to MWh from 10,000 kWh.
func axisLabel(kwh float64) string {
	if kwh >= 10_000 {
		return strconv.FormatFloat(kwh/1000, 'f', -1, 32) + "M"
	}
	return strconv.FormatFloat(kwh, 'f', -1, 32)
}

// HBar is one labelled row of HBars.
type HBar struct {
	Label string
	Value float64
	Text  string // value as displayed to the right of the bar
}

// HBars renders labelled horizontal bars scaled to the largest value.
// The peak row is drawn in highlight, the rest in color.
func HBars(rows []HBar, color, highlight lipgloss.Color, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		textW = max(textW, lipgloss.Width(r.Text))
		peak = max(peak, r.Value)
	}
	barW := width - labelW - textW - 2
	if barW < 4 {
		barW = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, r := range rows {
		style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
		if r.Value == peak && peak > 0 {
			style = style.Foreground(highlight)
		}
		cells := 0
		if peak > 0 && r.Value > 0 {
			cells = min(max(int(r.Value/peak*float64(barW)), 1), barW)
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, r.Label)))
		b.WriteString(spaceStyle.Render(" "))
		b.WriteString(style.Render(strings.Repeat("█", cells)))
		b.WriteString(spaceStyle.Render(strings.Repeat(" ", barW-cells+1)))
		b.WriteString(textStyle.Render(fmt.Sprintf("%*s", textW, r.Text)))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
