// Package app wires the configured solver, sinks and recorders around the
// study pipeline: load the network and profiles, bind, simulate, persist.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/gridstudy/app/plugins"
	"github.com/kilianp07/gridstudy/config"
	"github.com/kilianp07/gridstudy/core/binding"
	coremetrics "github.com/kilianp07/gridstudy/core/metrics"
	"github.com/kilianp07/gridstudy/core/monitoring"
	"github.com/kilianp07/gridstudy/core/network"
	"github.com/kilianp07/gridstudy/core/profile"
	"github.com/kilianp07/gridstudy/core/results"
	"github.com/kilianp07/gridstudy/core/simulation"
	"github.com/kilianp07/gridstudy/infra/logger"
	inframon "github.com/kilianp07/gridstudy/infra/monitoring"
	"github.com/kilianp07/gridstudy/infra/xlsx"
)

// Service runs the study described by a configuration.
type Service struct {
	cfg    *config.Config
	solver simulation.Solver
	closer func() error
	sink   results.Sink
	rec    coremetrics.Recorder
	log    logger.Logger
	now    func() time.Time
}

// New creates a Service from the configuration, starting the solver and
// opening every sink.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("study")
	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)

	rec, err := coremetrics.NewRecorder(cfg.Metrics.Recorders)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	sink, err := results.NewSink(cfg.Sinks)
	if err != nil {
		_ = coremetrics.Flush(rec)
		return nil, fmt.Errorf("sinks: %w", err)
	}
	solver, err := plugins.NewSolver(cfg.Solver)
	if err != nil {
		_ = sink.Close()
		_ = coremetrics.Flush(rec)
		return nil, err
	}
	svc := NewWithComponents(cfg, solver, sink, rec, log)
	svc.closer = solver.Close
	return svc, nil
}

// NewWithComponents assembles a Service from already built parts. sink and
// rec may be nil.
func NewWithComponents(cfg *config.Config, solver simulation.Solver, sink results.Sink, rec coremetrics.Recorder, log logger.Logger) *Service {
	if sink == nil {
		sink = results.NopSink{}
	}
	if rec == nil {
		rec = coremetrics.NopRecorder{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{cfg: cfg, solver: solver, sink: sink, rec: rec, log: log, now: time.Now}
}

// Run executes the study once. Load, binding and simulation errors abort the
// run; sink and summary failures are logged and reported but do not.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	study := s.cfg.Study
	net, err := xlsx.LoadNetwork(study.Network)
	if err != nil {
		return nil, s.fail("load network", err)
	}
	s.log.Infof("network %s loaded: %d equipment classes", net.Name, len(net.Classes()))

	sets, err := xlsx.LoadProfiles(study.Profiles)
	if err != nil {
		return nil, s.fail("load profiles", err)
	}

	sum := &Summary{Network: net.Name, Study: s.studyName(net)}
	for _, class := range s.classes(net, sets) {
		rep, err := binding.Bind(net, class, sets[class], s.log.With("class", class))
		if err != nil {
			return nil, s.fail("bind profiles", err)
		}
		sum.Bindings = append(sum.Bindings, s.recordBinding(rep)...)
	}

	if err := simulation.ConfigureOutput(net, study.Results...); err != nil {
		return nil, s.fail("configure output", err)
	}

	runner := simulation.NewRunner(s.solver, xlsx.Writer{}, s.log, s.rec)
	tables, rep, runErr := runner.Run(ctx, net, simulation.Options{
		OutputName:           study.OutputName,
		Folder:               study.Folder,
		ContinueOnDivergence: study.ContinueOnDivergence,
	})
	sum.Run = rep
	if runErr != nil {
		sum.Error = runErr.Error()
		s.writeSummary(sum)
		s.flush()
		return sum, s.fail("simulation", runErr)
	}
	sum.Tables = tables.Keys()

	run := results.Run{ID: rep.RunID, Name: sum.Study, Date: study.StudyDate(s.now())}
	sum.Date = run.Date.Format(config.DateLayout)
	if err := s.sink.Write(ctx, run, tables); err != nil {
		sum.SinkErrors = s.sinkFailures(err)
	}
	s.writeSummary(sum)
	s.flush()
	return sum, nil
}

// Close stops the solver and closes the sinks.
func (s *Service) Close() error {
	var errs []error
	if s.closer != nil {
		errs = append(errs, s.closer())
	}
	errs = append(errs, s.sink.Close())
	return errors.Join(errs...)
}

// classes returns the equipment classes to bind: the configured ones, or
// every profile sheet naming a network class.
func (s *Service) classes(net *network.Network, sets map[string]profile.Set) []string {
	var out []string
	if len(s.cfg.Study.Classes) > 0 {
		for _, c := range s.cfg.Study.Classes {
			if _, ok := sets[c]; !ok {
				s.log.Warnf("no profile sheet for class %s", c)
				continue
			}
			out = append(out, c)
		}
		return out
	}
	for c := range sets {
		if _, ok := net.Table(c); !ok {
			s.log.Warnf("profile sheet %s names no equipment class, skipped", c)
			continue
		}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (s *Service) recordBinding(rep *binding.Report) []BindingSummary {
	variables := make([]string, 0, len(rep.Bound))
	for v := range rep.Bound {
		variables = append(variables, v)
	}
	sort.Strings(variables)
	out := make([]BindingSummary, 0, len(variables))
	for _, v := range variables {
		ev := coremetrics.BindingEvent{
			Class:        rep.Class,
			Variable:     v,
			Bound:        len(rep.Bound[v]),
			Unmapped:     len(rep.Unmapped[v]),
			TimeMismatch: rep.TimeMismatch,
		}
		if err := s.rec.RecordBinding(ev); err != nil {
			s.log.Warnf("record binding: %v", err)
		}
		out = append(out, BindingSummary{
			Class: ev.Class, Variable: ev.Variable,
			Bound: ev.Bound, Unmapped: ev.Unmapped, TimeMismatch: ev.TimeMismatch,
		})
	}
	return out
}

// sinkFailures logs, records and reports every failed sink.
func (s *Service) sinkFailures(err error) []string {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		target := "sink"
		var se *results.SinkError
		if errors.As(e, &se) {
			target = se.Name
		}
		s.log.Errorf("write results to %s: %v", target, e)
		_ = s.rec.RecordPersistFailure(coremetrics.PersistFailureEvent{Target: target, Err: e, Time: s.now()})
		monitoring.CaptureException(e, map[string]string{"operation": "sink", "target": target})
		out = append(out, e.Error())
	}
	return out
}

func (s *Service) studyName(net *network.Network) string {
	if s.cfg.Study.OutputName != "" {
		return s.cfg.Study.OutputName
	}
	return net.Name
}

func (s *Service) fail(op string, err error) error {
	monitoring.CaptureException(err, map[string]string{"operation": op})
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) flush() {
	if err := coremetrics.Flush(s.rec); err != nil {
		s.log.Warnf("flush metrics: %v", err)
	}
	monitoring.Flush(2 * time.Second)
}

// writeSummary writes <folder>/<study>.summary.<format>. Failures are
// logged only.
func (s *Service) writeSummary(sum *Summary) {
	format := s.cfg.Study.Summary
	if format == "none" || format == "" {
		return
	}
	var data []byte
	var err error
	if format == "json" {
		data, err = json.MarshalIndent(sum, "", "  ")
	} else {
		data, err = yaml.Marshal(sum)
	}
	if err != nil {
		s.log.Errorf("encode summary: %v", err)
		return
	}
	path := SummaryPath(s.cfg.Study, sum.Study)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.log.Errorf("create %s: %v", filepath.Dir(path), err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Errorf("write summary %s: %v", path, err)
		return
	}
	s.log.Infof("summary written to %s", path)
}
