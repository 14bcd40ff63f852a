package metrics

import "testing"

// TestMultiRecorder ensures events are forwarded to all recorders.

type countRecorder struct {
	count   int
	flushed bool
}

func (r *countRecorder) RecordStep(StepEvent) error {
	r.count++
	return nil
}

func (r *countRecorder) RecordBinding(BindingEvent) error {
	r.count++
	return nil
}

func (r *countRecorder) RecordPersistFailure(PersistFailureEvent) error {
	r.count++
	return nil
}

func (r *countRecorder) Flush() error {
	r.flushed = true
	return nil
}

func TestMultiRecorder(t *testing.T) {
	r1 := &countRecorder{}
	r2 := &countRecorder{}
	m := NewMultiRecorder(r1, r2, NopRecorder{})
	if err := m.RecordStep(StepEvent{Step: 1, Converged: true}); err != nil {
		t.Fatalf("record step: %v", err)
	}
	if err := m.RecordBinding(BindingEvent{Class: "load"}); err != nil {
		t.Fatalf("record binding: %v", err)
	}
	if err := m.RecordPersistFailure(PersistFailureEvent{Target: "xlsx"}); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if r1.count != 3 || r2.count != 3 {
		t.Fatalf("expected 3 events per recorder, got %d and %d", r1.count, r2.count)
	}
	if err := Flush(m); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if !r1.flushed || !r2.flushed {
		t.Fatalf("expected both recorders flushed")
	}
}
