package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/powerlytics/internal/cli"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Dataset overview and per-level aggregation summary",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}

	s := pipeline.DescribeTable(ds.Load.Table)

	fmt.Println()
	fmt.Println(cli.RenderTitle("ELECTRICITY USAGE  " + cli.FormatDateRange(s.FirstDate, s.LastDate, s.Days)))
	fmt.Println()

	rows := [][]string{
		{"Readings", cli.FormatNumber(int64(s.Records))},
		{"Files", fmt.Sprintf("%d of %d parsed", ds.Load.ParsedFiles, ds.Load.TotalFiles)},
		{"Dropped Rows", cli.FormatNumber(int64(ds.Load.DroppedRows))},
		{"Duplicate Rows", cli.FormatNumber(int64(s.Duplicates))},
		cli.SeparatorRow,
		{"Total Energy", cli.FormatKWh(s.TotalKWh)},
		{"Mean Reading", cli.FormatKWh(s.MeanKWh)},
		{"Max Reading", cli.FormatKWh(s.MaxKWh)},
		{"Min Reading", cli.FormatKWh(s.MinKWh)},
	}
	if s.Days > 0 {
		rows = append(rows, []string{"Energy/day", cli.FormatKWh(s.TotalKWh / float64(s.Days))})
	}
	if cfg.Tariff.HasRates() {
		if daily, ok := ds.Set.Get(model.Daily); ok {
			cost := 0.0
			for _, r := range daily.Rows() {
				c, _ := cfg.Tariff.CostAt(r.Key.Date, r.EnergyKWh)
				cost += c
			}
			rows = append(rows, cli.SeparatorRow, []string{"Cost (est)", cli.FormatCost(cfg.Tariff.Currency, cost)})
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Println()

	levelRows := make([][]string, 0, ds.Set.Len())
	for _, ls := range pipeline.SummarizeSet(ds.Set) {
		levelRows = append(levelRows, []string{
			ls.Level,
			cli.FormatNumber(int64(ls.Records)),
			cli.FormatEnergy(ls.Total),
			cli.FormatEnergy(ls.Mean),
			cli.FormatEnergy(ls.Max),
			cli.FormatEnergy(ls.Min),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Aggregation Levels (kWh)",
		Headers: []string{"Level", "Rows", "Total", "Mean", "Max", "Min"},
		Rows:    levelRows,
	}))

	if n := len(ds.Load.FileErrors); n > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d files could not be parsed\n", n)
	}
	return nil
}
