package cmd

import (
	"fmt"

	"github.com/theirongolddev/powerlytics/internal/tui"
	"github.com/theirongolddev/powerlytics/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Without a forced profile lipgloss may pick Ascii and drop all backgrounds.
	lipgloss.SetColorProfile(termenv.TrueColor)

	r, err := dateRange()
	if err != nil {
		return err
	}

	app := tui.NewApp(tui.Options{
		Paths:   dataPaths(),
		Parse:   parseOptions(),
		NoCache: flagNoCache || cfg.General.NoCache,
		Range:   r,
		Years:   flagYears,
		Tariff:  cfg.Tariff,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
