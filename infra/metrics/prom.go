package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/gridstudy/core/metrics"
)

// DefaultNamespace prefixes every collector name.
const DefaultNamespace = "gridstudy"

// PromConfig configures a PromRecorder.
type PromConfig struct {
	Namespace string `json:"namespace"`
	// Textfile, when set, receives the collected metrics in the text
	// exposition format on Flush, for the node exporter textfile collector.
	Textfile string `json:"textfile"`
}

// PromRecorder records study run events in Prometheus collectors.
type PromRecorder struct {
	steps        *prometheus.CounterVec
	solve        prometheus.Histogram
	unmapped     *prometheus.CounterVec
	timeMismatch prometheus.Counter
	persist      *prometheus.CounterVec

	gatherer prometheus.Gatherer
	textfile string
}

// NewPromRecorder registers the study collectors on reg. A nil registry is
// replaced by a fresh one.
func NewPromRecorder(cfg PromConfig, reg *prometheus.Registry) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	r := &PromRecorder{
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "steps_total",
			Help:      "Time steps solved, by convergence",
		}, []string{"converged"}),
		solve: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "solve_duration_seconds",
			Help:      "Time spent in the solver per step",
			Buckets:   prometheus.DefBuckets,
		}),
		unmapped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "unmapped_equipment_total",
			Help:      "Equipment left on its static value when binding profiles",
		}, []string{"class", "variable"}),
		timeMismatch: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "time_index_mismatch_total",
			Help:      "Profiles bound with a time index differing from the common one",
		}),
		persist: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "persist_failures_total",
			Help:      "Result destinations that could not be written",
		}, []string{"target"}),
		gatherer: reg,
		textfile: cfg.Textfile,
	}
	for _, c := range []prometheus.Collector{r.steps, r.solve, r.unmapped, r.timeMismatch, r.persist} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RecordStep counts the step and observes its solve duration.
func (r *PromRecorder) RecordStep(ev coremetrics.StepEvent) error {
	r.steps.WithLabelValues(strconv.FormatBool(ev.Converged)).Inc()
	r.solve.Observe(ev.Duration.Seconds())
	return nil
}

// RecordBinding counts unmapped equipment and time index mismatches.
func (r *PromRecorder) RecordBinding(ev coremetrics.BindingEvent) error {
	r.unmapped.WithLabelValues(ev.Class, ev.Variable).Add(float64(ev.Unmapped))
	if ev.TimeMismatch {
		r.timeMismatch.Inc()
	}
	return nil
}

// RecordPersistFailure counts a failed destination.
func (r *PromRecorder) RecordPersistFailure(ev coremetrics.PersistFailureEvent) error {
	r.persist.WithLabelValues(ev.Target).Inc()
	return nil
}

// Flush writes the textfile when one is configured.
func (r *PromRecorder) Flush() error {
	if r.textfile == "" {
		return nil
	}
	return prometheus.WriteToTextfile(r.textfile, r.gatherer)
}
