// Package results defines where the result tables of a study run go once
// the simulation is over. Every destination implements Sink; MultiSink fans a
// run out to several of them.
package results

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/gridstudy/core/simulation"
)

// Run identifies the study run the tables belong to.
type Run struct {
	ID   string
	Name string
	// Date is the calendar day the time-of-day index is anchored to when a
	// sink needs absolute timestamps.
	Date time.Time
}

// Sink receives the result tables of a run.
type Sink interface {
	Write(ctx context.Context, run Run, tables simulation.Results) error
	Close() error
}

// NopSink discards every run.
type NopSink struct{}

func (NopSink) Write(context.Context, Run, simulation.Results) error { return nil }
func (NopSink) Close() error                                         { return nil }

// Named pairs a sink with the name it is reported under.
type Named struct {
	Name string
	Sink Sink
}

// MultiSink forwards a run to every sink. A failing sink does not stop the
// others; the errors are joined.
type MultiSink struct {
	Sinks []Named
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Named) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// Write forwards the run to all sinks.
func (m *MultiSink) Write(ctx context.Context, run Run, tables simulation.Results) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.Sink.Write(ctx, run, tables); err != nil {
			errs = append(errs, &SinkError{Name: s.Name, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.Sink.Close(); err != nil {
			errs = append(errs, &SinkError{Name: s.Name, Err: err})
		}
	}
	return errors.Join(errs...)
}

// SinkError reports the sink a failure came from.
type SinkError struct {
	Name string
	Err  error
}

func (e *SinkError) Error() string { return "sink " + e.Name + ": " + e.Err.Error() }
func (e *SinkError) Unwrap() error { return e.Err }
