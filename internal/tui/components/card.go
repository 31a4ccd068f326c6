// Package components provides reusable TUI widgets for the powerlytics dashboard.
package components

import (
	"github.com/theirongolddev/powerlytics/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// SplitWidth divides total into n column widths that add up to total.
// Leading columns take the remainder.
func SplitWidth(total, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = total / n
		if i < total%n {
			widths[i]++
		}
	}
	return widths
}

// panelStyle is the rounded box every panel and metric is drawn in.
// outer includes the border.
func panelStyle(outer int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(max(outer-2, 10)).
		Padding(0, 1)
}

// Metric is one headline figure of the overview, e.g. total energy or the
// estimated bill for the selected range.
type Metric struct {
	Label  string
	Value  string
	Detail string
	// Tint colors the value. Empty means primary text.
	Tint lipgloss.Color
}

func (m Metric) render(outer int) string {
	t := theme.Active
	tint := m.Tint
	if tint == "" {
		tint = t.TextPrimary
	}
	body := lipgloss.NewStyle().Foreground(t.TextMuted).Render(m.Label) + "\n" +
		lipgloss.NewStyle().Foreground(tint).Bold(true).Render(m.Value)
	if m.Detail != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Render(m.Detail)
	}
	return panelStyle(outer).Render(body)
}

// MetricRow lays metrics out side by side across totalWidth.
func MetricRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := SplitWidth(totalWidth, len(metrics))
	boxes := make([]string, len(metrics))
	for i, m := range metrics {
		boxes[i] = m.render(widths[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// Panel draws body in a titled box of the given outer width.
func Panel(title, body string, outer int) string {
	if title != "" {
		body = lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Bold(true).Render(title) + "\n" + body
	}
	return panelStyle(outer).Render(body)
}

// JoinPanels places rendered panels next to each other, top aligned.
func JoinPanels(panels ...string) string {
	if len(panels) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

// PanelInnerWidth is the text width available inside a Panel.
func PanelInnerWidth(outer int) int {
	return max(outer-4, 10)
}
