package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/powerlytics/internal/cli"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"

	"github.com/spf13/cobra"
)

var hourOfDayCmd = &cobra.Command{
	Use:     "hour-of-day",
	Aliases: []string{"hod"},
	Short:   "Average energy per hour of day",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runProfile(model.HourOfDay)
	},
}

var dayOfWeekCmd = &cobra.Command{
	Use:     "day-of-week",
	Aliases: []string{"dow"},
	Short:   "Average daily energy per day of week",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runProfile(model.DayOfWeekKind)
	},
}

func init() {
	rootCmd.AddCommand(hourOfDayCmd)
	rootCmd.AddCommand(dayOfWeekCmd)
}

// profileFilter builds the profile filter from --start/--end/--years.
func profileFilter() (pipeline.ProfileFilter, error) {
	r, err := dateRange()
	if err != nil {
		return pipeline.ProfileFilter{}, err
	}
	return pipeline.ProfileFilter{Range: r, Years: flagYears}, nil
}

func runProfile(kind model.ProfileKind) error {
	ds, err := loadData()
	if err != nil {
		return err
	}
	f, err := profileFilter()
	if err != nil {
		return err
	}
	p, err := pipeline.ComputeProfile(ds.Set, kind, f)
	if err != nil {
		return err
	}

	title := "AVERAGE ENERGY BY HOUR OF DAY"
	if kind == model.DayOfWeekKind {
		title = "AVERAGE ENERGY BY DAY OF WEEK"
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title + scopeSuffix(f)))
	fmt.Println()

	bars := make([]cli.Bar, 0, p.Len())
	for _, r := range p.Rows() {
		bars = append(bars, cli.Bar{Label: p.Label(r), Value: r.AvgEnergyKWh})
	}
	fmt.Print(cli.RenderBarChart("", bars, 40, func(v float64) string {
		return cli.FormatEnergy(v) + " kWh"
	}))

	sum := pipeline.SummarizeProfile(p)
	peak := bars[0]
	for _, b := range bars {
		if b.Value > peak.Value {
			peak = b
		}
	}
	fmt.Printf("\n  Peak: %s (%s kWh)   Mean: %s kWh   Buckets: %d\n\n",
		peak.Label, cli.FormatEnergy(peak.Value), cli.FormatEnergy(sum.Mean), sum.Records)
	return nil
}

func scopeSuffix(f pipeline.ProfileFilter) string {
	var parts []string
	if !f.Range.IsZero() {
		parts = append(parts, f.Range.String())
	}
	if len(f.Years) > 0 {
		ys := make([]string, len(f.Years))
		for i, y := range f.Years {
			ys[i] = strconv.Itoa(y)
		}
		parts = append(parts, "years "+strings.Join(ys, ","))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " │ ")
}
