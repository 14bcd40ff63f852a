// Package simulation drives the external power-flow solver across the
// common time index of a prepared network and harvests the logged result
// variables as time-indexed tables.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/gridstudy/core/logger"
	"github.com/kilianp07/gridstudy/core/metrics"
	"github.com/kilianp07/gridstudy/core/monitoring"
	"github.com/kilianp07/gridstudy/core/network"
	"github.com/kilianp07/gridstudy/core/timeseries"
)

// DefaultFolder receives the result workbook when Options.Folder is empty.
const DefaultFolder = "output"

var (
	// ErrNoTimeIndex is returned when no profile was bound to the network.
	ErrNoTimeIndex = errors.New("network has no time index")
	// ErrDiverged is returned when a step does not converge and the run is
	// not allowed to continue.
	ErrDiverged = errors.New("power flow did not converge")
)

// Options controls one run.
type Options struct {
	// OutputName is the workbook base name; empty disables persistence.
	OutputName string
	Folder     string
	// ContinueOnDivergence records a diverged step as NaN instead of
	// aborting the run.
	ContinueOnDivergence bool
	RunID                string
}

// StepReport is the outcome of one time step.
type StepReport struct {
	Step      int                  `json:"step" yaml:"step"`
	Time      timeseries.TimeOfDay `json:"time" yaml:"time"`
	Converged bool                 `json:"converged" yaml:"converged"`
	Error     string               `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report summarises a run.
type Report struct {
	RunID    string        `json:"run_id" yaml:"run_id"`
	Started  time.Time     `json:"started" yaml:"started"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Steps    []StepReport  `json:"steps" yaml:"steps"`
	// Workbook is the persisted workbook path, empty when persistence was
	// not requested or failed.
	Workbook string `json:"workbook,omitempty" yaml:"workbook,omitempty"`
}

// Diverged returns the steps that did not converge.
func (r *Report) Diverged() []int {
	var out []int
	for _, s := range r.Steps {
		if !s.Converged {
			out = append(out, s.Step)
		}
	}
	return out
}

// Runner runs time-series studies against a Solver.
type Runner struct {
	solver    Solver
	persister Persister
	log       logger.Logger
	rec       metrics.Recorder
	now       func() time.Time
}

// NewRunner returns a Runner. persister may be nil when results are never
// persisted; log and rec fall back to no-op implementations.
func NewRunner(solver Solver, persister Persister, log logger.Logger, rec metrics.Recorder) *Runner {
	if log == nil {
		log = nopLogger{}
	}
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Runner{solver: solver, persister: persister, log: log, rec: rec, now: time.Now}
}

// Run solves every step of net.TimeIndex in order. Each step applies the
// registered controllers, solves the network and logs the configured result
// variables. Persistence failures are logged and swallowed; the results are
// returned regardless.
func (r *Runner) Run(ctx context.Context, net *network.Network, opts Options) (Results, *Report, error) {
	if len(net.TimeIndex) == 0 {
		return nil, nil, ErrNoTimeIndex
	}
	if net.Output == nil {
		if err := ConfigureOutput(net); err != nil {
			return nil, nil, err
		}
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	rep := &Report{RunID: opts.RunID, Started: r.now()}
	log := r.log.With("run_id", opts.RunID)

	steps := len(net.TimeIndex)
	var collectors []*collector
	for _, sel := range net.Output.Selectors {
		if sel.Table == network.ParametersKey {
			continue
		}
		collectors = append(collectors, newCollector(sel, steps))
	}

	for step, tod := range net.TimeIndex {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		if err := net.ApplyControllers(step); err != nil {
			return nil, rep, fmt.Errorf("step %d (%s): %w", step, tod, err)
		}
		start := r.now()
		res, err := r.solver.Solve(ctx, StepInput{Step: step, Time: tod, Network: net})
		elapsed := r.now().Sub(start)
		if err == nil && !res.Converged {
			err = ErrDiverged
		}
		sr := StepReport{Step: step, Time: tod, Converged: err == nil}
		_ = r.rec.RecordStep(metrics.StepEvent{RunID: opts.RunID, Step: step, Time: tod, Converged: sr.Converged, Duration: elapsed})
		if err != nil {
			sr.Error = err.Error()
			rep.Steps = append(rep.Steps, sr)
			if !opts.ContinueOnDivergence {
				return nil, rep, fmt.Errorf("step %d (%s): %w", step, tod, err)
			}
			log.Warnf("step %d (%s) diverged: %v", step, tod, err)
			continue
		}
		rep.Steps = append(rep.Steps, sr)
		for _, c := range collectors {
			c.record(step, res)
		}
		log.Debugw("step solved", map[string]any{"step": step, "time": tod.String(), "elapsed": elapsed.String()})
	}

	results := make(Results, 0, len(collectors))
	for _, c := range collectors {
		results = append(results, c.table(net))
	}
	rep.Duration = r.now().Sub(rep.Started)
	log.Infof("simulation finished: %d steps, %d diverged, %d result tables", steps, len(rep.Diverged()), len(results))

	if opts.OutputName != "" {
		rep.Workbook = r.persist(log, results, opts)
	}
	return results, rep, nil
}

// persist writes the results workbook and returns its path, or "" when
// writing failed.
func (r *Runner) persist(log logger.Logger, results Results, opts Options) string {
	folder := opts.Folder
	if folder == "" {
		folder = DefaultFolder
	}
	path := filepath.Join(folder, opts.OutputName+".xlsx")
	fail := func(op string, err error) string {
		log.Errorf("%s %s: %v; results were not saved, check the output folder and that the file is not open elsewhere", op, path, err)
		_ = r.rec.RecordPersistFailure(metrics.PersistFailureEvent{Target: "xlsx", Err: err, Time: r.now()})
		monitoring.CaptureException(err, map[string]string{"operation": op, "path": path})
		return ""
	}
	if r.persister == nil {
		return fail("write results", errors.New("no persister configured"))
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fail("create output folder", err)
	}
	if err := r.persister.Persist(path, results); err != nil {
		return fail("write results", err)
	}
	log.Infof("results written to %s", path)
	return path
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
func (n nopLogger) With(string, any) logger.Logger {
	return n
}
