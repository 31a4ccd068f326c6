package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/powerlytics/internal/config"
	"github.com/theirongolddev/powerlytics/internal/export"
	"github.com/theirongolddev/powerlytics/internal/model"
	"github.com/theirongolddev/powerlytics/internal/pipeline"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagExportFormat      string
	flagExportOut         string
	flagExportGranularity string

	flagInfluxURL     string
	flagInfluxOrg     string
	flagInfluxBucket  string
	flagInfluxMeter   string
	flagInfluxTimeout time.Duration
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export rollups and profiles as JSON or CSV",
	Long: "JSON exports every rollup plus both profiles. CSV exports one table,\n" +
		"chosen with --granularity (a rollup level, hour-of-day or day-of-week).",
	RunE: runExport,
}

var exportInfluxCmd = &cobra.Command{
	Use:   "influx",
	Short: "Write every rollup to an InfluxDB v2 bucket",
	RunE:  runExportInflux,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "json", "Output format: json or csv")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&flagExportGranularity, "granularity", "daily", "Table to export as CSV")

	exportInfluxCmd.Flags().StringVar(&flagInfluxURL, "url", "", "InfluxDB URL (default from config)")
	exportInfluxCmd.Flags().StringVar(&flagInfluxOrg, "org", "", "InfluxDB organization (default from config)")
	exportInfluxCmd.Flags().StringVar(&flagInfluxBucket, "bucket", "", "InfluxDB bucket (default from config)")
	exportInfluxCmd.Flags().StringVar(&flagInfluxMeter, "meter", "", "Optional meter tag added to every point")
	exportInfluxCmd.Flags().DurationVar(&flagInfluxTimeout, "timeout", 30*time.Second, "Overall write timeout")

	exportCmd.AddCommand(exportInfluxCmd)
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if flagExportOut != "" {
		f, err := os.Create(flagExportOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOut, err)
		}
		defer f.Close()
		w = f
	}

	switch strings.ToLower(flagExportFormat) {
	case "json":
		err = exportJSON(w, ds.Set)
	case "csv":
		err = exportCSV(w, ds.Set, flagExportGranularity)
	default:
		return fmt.Errorf("unknown export format %q (want json or csv)", flagExportFormat)
	}
	if err != nil {
		return err
	}
	if flagExportOut != "" {
		log.Info("export written", "path", flagExportOut, "format", flagExportFormat)
	}
	return nil
}

func exportJSON(w io.Writer, set *model.AggregationSet) error {
	f, err := profileFilter()
	if err != nil {
		return err
	}

	var profiles []*model.Profile
	for _, kind := range []model.ProfileKind{model.HourOfDay, model.DayOfWeekKind} {
		p, err := pipeline.ComputeProfile(set, kind, f)
		if err != nil {
			// An empty filter window still exports the rollups.
			log.Warn("profile skipped", "kind", kind, "err", err)
			continue
		}
		profiles = append(profiles, p)
	}

	if err := export.WriteJSON(w, export.NewSetDoc(set, profiles, time.Now())); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}

func exportCSV(w io.Writer, set *model.AggregationSet, which string) error {
	switch strings.ReplaceAll(strings.ToLower(which), "_", "-") {
	case "hour-of-day":
		return exportProfileCSV(w, set, model.HourOfDay)
	case "day-of-week":
		return exportProfileCSV(w, set, model.DayOfWeekKind)
	}

	g, err := pipeline.ParseGranularity(which)
	if err != nil {
		return err
	}
	t, err := scopedRollup(set, g)
	if err != nil {
		return err
	}
	if err := export.WriteRollupCSV(w, t); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func exportProfileCSV(w io.Writer, set *model.AggregationSet, kind model.ProfileKind) error {
	f, err := profileFilter()
	if err != nil {
		return err
	}
	p, err := pipeline.ComputeProfile(set, kind, f)
	if err != nil {
		return err
	}
	if err := export.WriteProfileCSV(w, p); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func influxConfig() export.InfluxConfig {
	ic := export.InfluxConfig{
		URL:    cfg.Influx.URL,
		Token:  config.InfluxToken(cfg),
		Org:    cfg.Influx.Org,
		Bucket: cfg.Influx.Bucket,
		Meter:  flagInfluxMeter,
	}
	if flagInfluxURL != "" {
		ic.URL = flagInfluxURL
	}
	if flagInfluxOrg != "" {
		ic.Org = flagInfluxOrg
	}
	if flagInfluxBucket != "" {
		ic.Bucket = flagInfluxBucket
	}
	return ic
}

func runExportInflux(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, flagInfluxTimeout)
	defer cancel()

	ic := influxConfig()
	sink, err := export.NewInfluxSink(ctx, ic)
	if err != nil {
		return err
	}
	defer sink.Close()

	n, err := sink.WriteSet(ctx, ds.Set)
	if err != nil {
		log.Error("influx write failed", "written", n, "err", err)
		return err
	}
	log.Info("rollups written to influxdb", "points", n, "bucket", ic.Bucket, "measurement", export.RollupMeasurement)
	return nil
}
