package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/powerlytics/internal/cli"
	"github.com/theirongolddev/powerlytics/internal/pipeline"
	"github.com/theirongolddev/powerlytics/internal/tui/components"
	"github.com/theirongolddev/powerlytics/internal/tui/theme"
)

func profileMessage(err error) string {
	if errors.Is(err, pipeline.ErrEmptyResult) {
		return "No data for the selected range and years."
	}
	return err.Error()
}

func (a App) renderProfilesTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	years := a.data.Table.Years()
	scope := "all years"
	if a.yearIdx > 0 && a.yearIdx <= len(years) {
		scope = fmt.Sprintf("%d", years[a.yearIdx-1])
	}
	b.WriteString(components.Panel("Profiles",
		fmt.Sprintf("Average energy per bucket, %s.  y cycles years, Y resets.", scope), cw))
	b.WriteString("\n")

	// Hour of day: 24 columns, buckets without data stay at zero.
	var hourBody string
	if a.hourErr != nil {
		hourBody = profileMessage(a.hourErr)
	} else {
		sum := pipeline.SummarizeProfile(a.hourly)
		hourBody = components.EnergyChart(components.HourColumns(a.hourly), t.Blue, components.PanelInnerWidth(cw), 10) +
			fmt.Sprintf("\nlow %s kWh · mean %s kWh", cli.FormatEnergy(sum.Min), cli.FormatEnergy(sum.Mean))
	}
	b.WriteString(components.Panel("Hour of Day (avg kWh per hour)", hourBody, cw))
	b.WriteString("\n")

	var dayBody string
	if a.dayErr != nil {
		dayBody = profileMessage(a.dayErr)
	} else {
		var bars []components.HBar
		for _, r := range a.weekday.Rows() {
			bars = append(bars, components.HBar{
				Label: r.Day.String(),
				Value: r.AvgEnergyKWh,
				Text:  fmt.Sprintf("%s kWh  n=%d", cli.FormatEnergy(r.AvgEnergyKWh), r.Samples),
			})
		}
		dayBody = components.HBars(bars, t.Accent, t.Orange, components.PanelInnerWidth(cw))
	}
	b.WriteString(components.Panel("Day of Week (avg kWh per day)", dayBody, cw))

	return b.String()
}
