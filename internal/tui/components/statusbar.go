package components

import (
	"fmt"

	"github.com/theirongolddev/powerlytics/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. info is shown after the
// key hints, loadTime on the right.
func RenderStatusBar(width int, info string, loadTime string, refreshing bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [r]eload  [q]uit"
	if info != "" {
		left += "  │ " + info
	}
	right := ""
	switch {
	case refreshing:
		right = "reloading… "
	case loadTime != "":
		right = fmt.Sprintf("loaded in %s ", loadTime)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return style.Render(left + fmt.Sprintf("%*s", padding, "") + right)
}
