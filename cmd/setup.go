package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/powerlytics/internal/config"
	"github.com/theirongolddev/powerlytics/internal/source"
	"github.com/theirongolddev/powerlytics/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	vals := tui.NewSetupValues(cfg)
	form := tui.NewSetupForm(0, &vals)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if err := tui.ApplySetup(&cfg, vals, time.Now()); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	if files, err := source.ScanPaths(cfg.General.DataPaths); err == nil && len(files) > 0 {
		fmt.Printf("  Found %d export files.\n", len(files))
	}
	fmt.Println("  Run `powerlytics setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
