package sinks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kilianp07/gridstudy/core/results"
	"github.com/kilianp07/gridstudy/core/simulation"
	"github.com/kilianp07/gridstudy/core/timeseries"
	"github.com/kilianp07/gridstudy/pkg/export"
)

// File formats handled by FileSink.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// FileConfig selects the folder exported tables are written to.
type FileConfig struct {
	Folder string `json:"folder"`
}

// FileSink writes one document per result table under
// <folder>/<run name>/<table key>.<format>.
type FileSink struct {
	folder string
	format string
	encode func(io.Writer, *timeseries.Frame) error
}

// NewFileSink returns a sink for the csv or json format.
func NewFileSink(cfg FileConfig, format string) (*FileSink, error) {
	s := &FileSink{folder: cfg.Folder, format: format}
	switch format {
	case FormatCSV:
		s.encode = export.WriteCSV
	case FormatJSON:
		s.encode = export.WriteJSON
	default:
		return nil, fmt.Errorf("file sink: unsupported format %q", format)
	}
	if s.folder == "" {
		s.folder = simulation.DefaultFolder
	}
	return s, nil
}

// Dir returns the folder the tables of run are written to.
func (s *FileSink) Dir(run results.Run) string {
	name := run.Name
	if name == "" {
		name = run.ID
	}
	return filepath.Join(s.folder, name)
}

// Write exports every table of the run.
func (s *FileSink) Write(_ context.Context, run results.Run, tables simulation.Results) error {
	dir := s.Dir(run)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	var errs []error
	for _, t := range tables {
		path := filepath.Join(dir, t.Key()+"."+s.format)
		if err := s.writeFile(path, t.Frame); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

func (s *FileSink) writeFile(path string, f *timeseries.Frame) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return s.encode(out, f)
}

// Close is a no-op.
func (s *FileSink) Close() error { return nil }
