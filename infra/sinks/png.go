package sinks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/kilianp07/gridstudy/core/results"
	"github.com/kilianp07/gridstudy/core/simulation"
)

// PNGConfig sets the folder and size of the rendered plots.
type PNGConfig struct {
	Folder   string  `json:"folder"`
	WidthCM  float64 `json:"width_cm"`
	HeightCM float64 `json:"height_cm"`
}

// PNGSink renders one plot per result table to
// <folder>/<run name>/<table key>.png. The x axis is the hour of the day.
type PNGSink struct {
	cfg PNGConfig
}

// NewPNGSink returns a PNG plot sink. The default size is 24x12 cm.
func NewPNGSink(cfg PNGConfig) *PNGSink {
	if cfg.Folder == "" {
		cfg.Folder = simulation.DefaultFolder
	}
	if cfg.WidthCM <= 0 {
		cfg.WidthCM = 24
	}
	if cfg.HeightCM <= 0 {
		cfg.HeightCM = 12
	}
	return &PNGSink{cfg: cfg}
}

// Dir returns the folder the plots of run are written to.
func (s *PNGSink) Dir(run results.Run) string {
	return filepath.Join(s.cfg.Folder, reportName(run))
}

// Write renders every table.
func (s *PNGSink) Write(_ context.Context, run results.Run, tables simulation.Results) error {
	dir := s.Dir(run)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	var errs []error
	for _, t := range tables {
		p, err := s.plot(t)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Key(), err))
			continue
		}
		path := filepath.Join(dir, t.Key()+".png")
		if err := p.Save(vg.Length(s.cfg.WidthCM)*vg.Centimeter, vg.Length(s.cfg.HeightCM)*vg.Centimeter, path); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

func (s *PNGSink) plot(t simulation.ResultTable) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = t.Key()
	p.X.Label.Text = "Hour"
	p.Y.Label.Text = t.Selector.Field
	p.Add(plotter.NewGrid())

	var lines []interface{}
	for c, name := range t.Frame.Columns {
		var xys plotter.XYs
		for i, v := range t.Frame.Values[c] {
			if math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: t.Frame.Index[i].Duration().Hours(), Y: v})
		}
		if len(xys) == 0 {
			continue
		}
		lines = append(lines, name, xys)
	}
	if len(lines) > 0 {
		if err := plotutil.AddLinePoints(p, lines...); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Close is a no-op.
func (s *PNGSink) Close() error { return nil }
