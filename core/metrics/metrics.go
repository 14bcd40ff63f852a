package metrics

import (
	"time"

	"github.com/kilianp07/gridstudy/core/timeseries"
)

// StepEvent describes one solved time step.
type StepEvent struct {
	RunID     string
	Step      int
	Time      timeseries.TimeOfDay
	Converged bool
	Duration  time.Duration
}

// BindingEvent describes the outcome of binding one profile variable.
type BindingEvent struct {
	Class        string
	Variable     string
	Bound        int
	Unmapped     int
	TimeMismatch bool
}

// PersistFailureEvent records a result destination that could not be
// written.
type PersistFailureEvent struct {
	Target string
	Err    error
	Time   time.Time
}

// Recorder records study run events for observability purposes.
type Recorder interface {
	RecordStep(ev StepEvent) error
	RecordBinding(ev BindingEvent) error
	RecordPersistFailure(ev PersistFailureEvent) error
}

// NopRecorder implements Recorder with no-op methods.
type NopRecorder struct{}

func (NopRecorder) RecordStep(StepEvent) error                     { return nil }
func (NopRecorder) RecordBinding(BindingEvent) error               { return nil }
func (NopRecorder) RecordPersistFailure(PersistFailureEvent) error { return nil }
