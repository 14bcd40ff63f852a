package sinks

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/gridstudy/core/results"
	"github.com/kilianp07/gridstudy/core/simulation"
)

// HTMLConfig selects where the HTML report is written.
type HTMLConfig struct {
	Folder string `json:"folder"`
}

// HTMLSink renders every result table as an interactive line chart on one
// page, <folder>/<run name>.html.
type HTMLSink struct {
	folder string
}

// NewHTMLSink returns an HTML report sink.
func NewHTMLSink(cfg HTMLConfig) *HTMLSink {
	if cfg.Folder == "" {
		cfg.Folder = simulation.DefaultFolder
	}
	return &HTMLSink{folder: cfg.Folder}
}

// Path returns the report file of run.
func (s *HTMLSink) Path(run results.Run) string {
	return filepath.Join(s.folder, reportName(run)+".html")
}

// Write renders the report.
func (s *HTMLSink) Write(_ context.Context, run results.Run, tables simulation.Results) error {
	page := components.NewPage()
	for _, t := range tables {
		page.AddCharts(lineChart(run, t))
	}
	if err := os.MkdirAll(s.folder, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.folder, err)
	}
	f, err := os.Create(s.Path(run))
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}

// Close is a no-op.
func (s *HTMLSink) Close() error { return nil }

func lineChart(run results.Run, t simulation.ResultTable) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: t.Key(), Subtitle: run.Name}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: t.Selector.Field}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	xAxis := make([]string, len(t.Frame.Index))
	for i, tod := range t.Frame.Index {
		xAxis[i] = tod.String()
	}
	line.SetXAxis(xAxis)
	for c, name := range t.Frame.Columns {
		data := make([]opts.LineData, len(t.Frame.Index))
		for i, v := range t.Frame.Values[c] {
			// null leaves a gap in the line
			if math.IsNaN(v) {
				data[i] = opts.LineData{Value: nil}
				continue
			}
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(name, data)
	}
	return line
}

func reportName(run results.Run) string {
	if run.Name != "" {
		return run.Name
	}
	return run.ID
}
