package sinks

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/gridstudy/core/results"
	"github.com/kilianp07/gridstudy/core/simulation"
)

// InfluxConfig locates the bucket result points are written to.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	// BatchSize bounds the number of points per write request.
	BatchSize int `json:"batch_size"`
}

// InfluxSink writes one point per (result table, element, step). The
// measurement is the result table, the field the result variable, and the
// timestamp the study date plus the step's time of day.
type InfluxSink struct {
	client    influxdb2.Client
	writeAPI  api.WriteAPIBlocking
	batchSize int
}

// NewInfluxSink creates a sink configured for the given endpoint.
func NewInfluxSink(cfg InfluxConfig) (*InfluxSink, error) {
	if cfg.URL == "" || cfg.Bucket == "" {
		return nil, errors.New("influx sink: url and bucket are required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 10 * time.Second}))
	return &InfluxSink{
		client:    client,
		writeAPI:  client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		batchSize: cfg.BatchSize,
	}, nil
}

// Write sends the run's samples. Missing samples are skipped.
func (s *InfluxSink) Write(ctx context.Context, run results.Run, tables simulation.Results) error {
	batch := make([]*write.Point, 0, s.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := s.writeAPI.WritePoint(ctx, batch...)
		batch = batch[:0]
		return err
	}
	for _, t := range tables {
		for step, tod := range t.Frame.Index {
			ts := tod.On(run.Date)
			for c, element := range t.Frame.Columns {
				v := t.Frame.Values[c][step]
				if math.IsNaN(v) {
					continue
				}
				p := write.NewPointWithMeasurement(t.Selector.Table).
					AddTag("run_id", run.ID).
					AddTag("element", element).
					AddTag("study", run.Name).
					AddField(t.Selector.Field, v).
					SetTime(ts)
				batch = append(batch, p)
				if len(batch) == s.batchSize {
					if err := flush(); err != nil {
						return err
					}
				}
			}
		}
	}
	return flush()
}

// Close closes the client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}
