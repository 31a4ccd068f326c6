package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/powerlytics/internal/cli"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagLast   int
	flagSeason string
)

var rollupCmd = &cobra.Command{
	Use:   "rollup <granularity>",
	Short: "Rollup table for any granularity (hourly, daily, weekly, monthly, seasonal, yearly)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		g, err := pipeline.ParseGranularity(args[0])
		if err != nil {
			return err
		}
		return runRollup(g)
	},
}

var rollupShort = map[model.Granularity]string{
	model.Hourly:   "Energy per hour (date, hour)",
	model.Daily:    "Energy per day",
	model.Weekly:   "Energy per ISO week",
	model.Monthly:  "Energy per month",
	model.Seasonal: "Energy per season",
	model.Yearly:   "Energy per year",
}

func init() {
	rollupCmd.Flags().IntVar(&flagLast, "last", 0, "Show only the last N rows (0 = all)")
	rollupCmd.Flags().StringVar(&flagSeason, "season", "", "Seasonal rollup only: keep one season across years")
	rootCmd.AddCommand(rollupCmd)

	for _, g := range model.PrimaryGranularities() {
		c := &cobra.Command{
			Use:   string(g),
			Short: rollupShort[g],
			RunE: func(_ *cobra.Command, _ []string) error {
				return runRollup(g)
			},
		}
		c.Flags().IntVar(&flagLast, "last", 0, "Show only the last N rows (0 = all)")
		if g == model.Seasonal {
			c.Flags().StringVar(&flagSeason, "season", "", "Keep one season across years (winter, spring, summer, autumn)")
		}
		rootCmd.AddCommand(c)
	}
}

func runRollup(g model.Granularity) error {
	ds, err := loadData()
	if err != nil {
		return err
	}
	t, err := scopedRollup(ds.Set, g)
	if err != nil {
		return err
	}

	rows, err := seasonRows(t.Rows(), g, flagSeason)
	if err != nil {
		return err
	}
	if flagLast > 0 && len(rows) > flagLast {
		rows = rows[len(rows)-flagLast:]
	}

	title := strings.ToUpper(string(g)) + " ENERGY"
	if r, _ := dateRange(); !r.IsZero() {
		title += "  " + r.String()
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	withCost := cfg.Tariff.HasRates()
	headers := make([]string, 0, 4)
	headers = append(headers, "Period", "kWh", "Share")
	if withCost {
		headers = append(headers, "Cost")
	}

	total := t.Total()
	var costTotal float64
	out := make([][]string, 0, len(rows)+2)
	for _, r := range rows {
		share := 0.0
		if total > 0 {
			share = r.EnergyKWh / total
		}
		line := []string{r.Key.Label(g), cli.FormatEnergy(r.EnergyKWh), cli.FormatPercent(share)}
		if withCost {
			c, _ := cfg.Tariff.CostAt(r.Key.Start(g), r.EnergyKWh)
			line = append(line, cli.FormatCost(cfg.Tariff.Currency, c))
		}
		out = append(out, line)
	}

	footer := []string{fmt.Sprintf("Total (%d rows)", t.Len()), cli.FormatEnergy(total), ""}
	if withCost {
		for _, r := range t.Rows() {
			c, _ := cfg.Tariff.CostAt(r.Key.Start(g), r.EnergyKWh)
			costTotal += c
		}
		footer = append(footer, cli.FormatCost(cfg.Tariff.Currency, costTotal))
	}
	out = append(out, cli.SeparatorRow, footer)

	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: out}))

	if g != model.Hourly && len(rows) > 1 {
		vals := make([]float64, len(rows))
		for i, r := range rows {
			vals[i] = r.EnergyKWh
		}
		fmt.Printf("\n  Trend  %s\n", cli.RenderSparkline(vals))
	}
	return nil
}

// seasonRows keeps the rows of one named season. An empty name keeps all
// rows; a name on any level other than seasonal is an error.
func seasonRows(rows []model.RollupRow, g model.Granularity, name string) ([]model.RollupRow, error) {
	if name == "" {
		return rows, nil
	}
	if g != model.Seasonal {
		return nil, fmt.Errorf("--season applies to the seasonal rollup, not %s", g)
	}
	season, ok := model.ParseSeason(name)
	if !ok {
		return nil, fmt.Errorf("unknown season %q (want winter, spring, summer or autumn)", name)
	}
	var out []model.RollupRow
	for _, r := range rows {
		if r.Key.Season == season {
			out = append(out, r)
		}
	}
	return out, nil
}
