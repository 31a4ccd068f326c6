package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/theirongolddev/powerlytics/internal/model"
)

// RollupMeasurement is the InfluxDB measurement rollup points are written to.
const RollupMeasurement = "energy_rollup"

// InfluxConfig locates the target bucket.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
	Meter  string // optional meter tag
}

func (c InfluxConfig) validate() error {
	var missing []error
	if c.URL == "" {
		missing = append(missing, errors.New("url"))
	}
	if c.Org == "" {
		missing = append(missing, errors.New("org"))
	}
	if c.Bucket == "" {
		missing = append(missing, errors.New("bucket"))
	}
	if len(missing) > 0 {
		return fmt.Errorf("influx config missing: %w", errors.Join(missing...))
	}
	return nil
}

// InfluxSink writes rollups to an InfluxDB v2 bucket.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	meter    string
}

// NewInfluxSink connects to InfluxDB and verifies it is healthy.
func NewInfluxSink(ctx context.Context, cfg InfluxConfig) (*InfluxSink, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	if _, err := client.Health(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to influxdb at %s: %w", cfg.URL, err)
	}

	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		meter:    cfg.Meter,
	}, nil
}

// WriteSet writes every rollup of set and returns the number of points.
func (s *InfluxSink) WriteSet(ctx context.Context, set *model.AggregationSet) (int, error) {
	total := 0
	for _, g := range set.Granularities() {
		t, _ := set.Get(g)
		points := RollupPoints(t, s.meter)
		if len(points) == 0 {
			continue
		}
		if err := s.writeAPI.WritePoint(ctx, points...); err != nil {
			return total, fmt.Errorf("writing %s points: %w", g, err)
		}
		total += len(points)
	}
	return total, nil
}

// Close closes the InfluxDB client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

// RollupPoints converts t into one point per row, stamped at the start of
// the row's period (the hour itself for hourly rows).
func RollupPoints(t *model.RollupTable, meter string) []*write.Point {
	g := t.Granularity()
	points := make([]*write.Point, 0, t.Len())
	for _, r := range t.Rows() {
		tags := map[string]string{
			"granularity": string(g),
			"period":      r.Key.Label(g),
		}
		if meter != "" {
			tags["meter"] = meter
		}
		if g == model.Seasonal {
			tags["season"] = r.Key.Season.String()
		}

		ts := r.Key.Start(g)
		if g == model.Hourly {
			ts = ts.Add(time.Duration(r.Key.Hour) * time.Hour)
		}

		points = append(points, write.NewPoint(
			RollupMeasurement,
			tags,
			map[string]interface{}{
				"energy_kwh": r.EnergyKWh,
				"year":       r.Key.Year,
			},
			ts,
		))
	}
	return points
}
