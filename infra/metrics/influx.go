package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/gridstudy/core/metrics"
	"github.com/kilianp07/gridstudy/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket run events are written to.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxRecorder writes study run events to an InfluxDB instance using the
// official client.
type InfluxRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
	now      func() time.Time
}

// NewInfluxRecorder creates a recorder configured for the given endpoint.
func NewInfluxRecorder(cfg InfluxConfig) *InfluxRecorder {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-recorder"),
		now:      time.Now,
	}
}

// NewInfluxRecorderWithFallback pings the InfluxDB instance and returns a
// NopRecorder if the health check fails.
func NewInfluxRecorderWithFallback(cfg InfluxConfig) coremetrics.Recorder {
	rec := NewInfluxRecorder(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := rec.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			rec.log.Errorf("influx health check error: %v", err)
		} else {
			rec.log.Errorf("influx health status: %s", health.Status)
		}
		rec.client.Close()
		return coremetrics.NopRecorder{}
	}
	return rec
}

// RecordStep writes one point per solved step.
func (r *InfluxRecorder) RecordStep(ev coremetrics.StepEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("study_step").
		AddTag("run_id", ev.RunID).
		AddTag("converged", strconv.FormatBool(ev.Converged)).
		AddTag("component", "simulation").
		AddField("step", ev.Step).
		AddField("time_of_day", ev.Time.String()).
		AddField("solve_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(r.now())
	return r.writeAPI.WritePoint(ctx, p)
}

// RecordBinding writes the outcome of one profile binding.
func (r *InfluxRecorder) RecordBinding(ev coremetrics.BindingEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("profile_binding").
		AddTag("class", ev.Class).
		AddTag("variable", ev.Variable).
		AddTag("component", "binding").
		AddField("bound", ev.Bound).
		AddField("unmapped", ev.Unmapped).
		AddField("time_mismatch", ev.TimeMismatch).
		SetTime(r.now())
	return r.writeAPI.WritePoint(ctx, p)
}

// RecordPersistFailure writes a failed destination.
func (r *InfluxRecorder) RecordPersistFailure(ev coremetrics.PersistFailureEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	errStr := ""
	if ev.Err != nil {
		errStr = ev.Err.Error()
	}
	ts := ev.Time
	if ts.IsZero() {
		ts = r.now()
	}
	p := write.NewPointWithMeasurement("persist_failure").
		AddTag("target", ev.Target).
		AddTag("component", "persistence").
		AddField("error", errStr).
		SetTime(ts)
	return r.writeAPI.WritePoint(ctx, p)
}

// Flush closes the client once the run is over.
func (r *InfluxRecorder) Flush() error {
	r.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
