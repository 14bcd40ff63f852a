package metrics

import "errors"

// Flusher is implemented by recorders that buffer their output until the
// run is over.
type Flusher interface {
	Flush() error
}

// Flush flushes r when it buffers its output.
func Flush(r Recorder) error {
	if f, ok := r.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// MultiRecorder fans events out to multiple recorders.
type MultiRecorder struct {
	Recorders []Recorder
}

// NewMultiRecorder creates a MultiRecorder with the provided recorders.
func NewMultiRecorder(recs ...Recorder) *MultiRecorder {
	return &MultiRecorder{Recorders: recs}
}

// RecordStep forwards the event to all recorders, returning the first error
// encountered.
func (m *MultiRecorder) RecordStep(ev StepEvent) error {
	for _, r := range m.Recorders {
		if err := r.RecordStep(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordBinding forwards binding events.
func (m *MultiRecorder) RecordBinding(ev BindingEvent) error {
	for _, r := range m.Recorders {
		if err := r.RecordBinding(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordPersistFailure forwards persistence failures.
func (m *MultiRecorder) RecordPersistFailure(ev PersistFailureEvent) error {
	for _, r := range m.Recorders {
		if err := r.RecordPersistFailure(ev); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every buffering recorder.
func (m *MultiRecorder) Flush() error {
	var errs []error
	for _, r := range m.Recorders {
		if err := Flush(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
