package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/powerlytics/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if len(cfg.General.DataPaths) > 0 {
		fmt.Printf("    Data paths: %s\n", strings.Join(cfg.General.DataPaths, ", "))
	} else {
		fmt.Println("    Data paths: not configured")
	}
	fmt.Printf("    No cache:   %v\n", cfg.General.NoCache)
	fmt.Println()

	fmt.Println("  [Parsing]")
	fmt.Printf("    Skip rows:   %d\n", cfg.Parsing.SkipRows)
	fmt.Printf("    Date layout: %s\n", cfg.Parsing.DateLayout)
	fmt.Printf("    Time layout: %s\n", cfg.Parsing.TimeLayout)
	fmt.Printf("    Separator:   %q\n", cfg.Parsing.CommaRune())
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level: %s\n", cfg.Logging.Level)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Influx]")
	if cfg.Influx.URL != "" {
		fmt.Printf("    URL:    %s\n", cfg.Influx.URL)
		fmt.Printf("    Org:    %s\n", cfg.Influx.Org)
		fmt.Printf("    Bucket: %s\n", cfg.Influx.Bucket)
	} else {
		fmt.Println("    URL:    not configured")
	}
	if tok := config.InfluxToken(cfg); tok != "" {
		fmt.Printf("    Token:  %s\n", maskToken(tok))
	} else {
		fmt.Println("    Token:  not configured")
	}
	fmt.Println()

	fmt.Println("  [Tariff]")
	fmt.Printf("    Currency: %s\n", cfg.Tariff.Currency)
	if !cfg.Tariff.HasRates() {
		fmt.Println("    Rates:    not set")
	}
	for _, r := range cfg.Tariff.Rates {
		from := r.EffectiveFrom
		if from == "" {
			from = "always"
		}
		fmt.Printf("    %-10s %s%g/kWh\n", from, cfg.Tariff.Currency, r.PricePerKWh)
	}
	fmt.Println()

	fmt.Println("  Run `powerlytics setup` to reconfigure.")
	return nil
}

func maskToken(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
