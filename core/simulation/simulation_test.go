package simulation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridstudy/core/binding"
	"github.com/kilianp07/gridstudy/core/network"
	"github.com/kilianp07/gridstudy/core/profile"
	"github.com/kilianp07/gridstudy/core/sheet"
	"github.com/kilianp07/gridstudy/core/timeseries"
	"github.com/kilianp07/gridstudy/infra/logger"
)

func studyNetwork(t *testing.T) *network.Network {
	t.Helper()
	net, err := network.FromSheets("two-bus", []sheet.Sheet{
		{Name: "bus", Rows: [][]string{
			{"idx", "name", "vn_kv"},
			{"0", "Grid", "20"},
			{"1", "Feeder", "20"},
		}},
		{Name: "line", Rows: [][]string{
			{"idx", "name", "from_bus", "to_bus", "length_km"},
			{"0", "Cable", "0", "1", "2"},
		}},
		{Name: "load", Rows: [][]string{
			{"idx", "name", "bus", "p_mw", "profile_mapping"},
			{"0", "Bakery", "1", "0", "1"},
		}},
	})
	require.NoError(t, err)

	profiles, err := profile.Load([]sheet.Sheet{{Name: "load", Rows: [][]string{
		{"profile", "1"},
		{"time", "P [MW]"},
		{"00:00", "1.0"},
		{"06:00", "2.0"},
		{"12:00", "1.5"},
		{"18:00", "1.0"},
	}}})
	require.NoError(t, err)
	_, err = binding.Bind(net, "load", profiles["load"], logger.NopLogger{})
	require.NoError(t, err)
	return net
}

// feederSolver drops the feeder voltage by 1% per MW of the load on it.
func feederSolver(seen *[]float64) Solver {
	return SolverFunc(func(_ context.Context, in StepInput) (StepResult, error) {
		load, _ := in.Network.Table("load")
		p, _ := load.Get(0, "p_mw").AsFloat()
		*seen = append(*seen, p)
		return StepResult{Converged: true, Tables: map[string]map[int64]map[string]float64{
			"res_bus":  {0: {"vm_pu": 1.0}, 1: {"vm_pu": 1 - 0.01*p}},
			"res_line": {0: {"loading_percent": 10 * p}},
			"res_load": {0: {"p_mw": p}},
		}}, nil
	})
}

type fakePersister struct {
	path   string
	tables Results
	err    error
}

func (f *fakePersister) Persist(path string, tables Results) error {
	f.path = path
	f.tables = tables
	return f.err
}

func TestRunEndToEnd(t *testing.T) {
	net := studyNetwork(t)
	require.NoError(t, ConfigureOutput(net, "res_load.p_mw"))

	var seen []float64
	p := &fakePersister{}
	folder := filepath.Join(t.TempDir(), "out")
	results, rep, err := NewRunner(feederSolver(&seen), p, logger.NopLogger{}, nil).
		Run(context.Background(), net, Options{OutputName: "study", Folder: folder, RunID: "r1"})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 1.5, 1}, seen, "controllers feed every step in order")
	assert.Equal(t, []string{"res_bus.vm_pu", "res_line.loading_percent", "res_load.p_mw", "res_trafo.loading_percent"}, results.Keys())

	vm, ok := results.Get("res_bus.vm_pu")
	require.True(t, ok)
	assert.Equal(t, []timeseries.TimeOfDay{
		timeseries.Clock(0, 0, 0), timeseries.Clock(6, 0, 0), timeseries.Clock(12, 0, 0), timeseries.Clock(18, 0, 0),
	}, vm.Index)
	assert.Equal(t, []string{"Grid", "Feeder"}, vm.Columns)
	feeder, _ := vm.Column("Feeder")
	assert.InDeltaSlice(t, []float64{0.99, 0.98, 0.985, 0.99}, feeder, 1e-12)

	load, _ := results.Get("res_load.p_mw")
	assert.Equal(t, []string{"Bakery"}, load.Columns)
	assert.Equal(t, 4, load.Len())

	trafo, _ := results.Get("res_trafo.loading_percent")
	assert.Empty(t, trafo.Columns)

	assert.Equal(t, "r1", rep.RunID)
	assert.Len(t, rep.Steps, 4)
	assert.Empty(t, rep.Diverged())
	assert.Equal(t, filepath.Join(folder, "study.xlsx"), rep.Workbook)
	assert.Equal(t, rep.Workbook, p.path)
	assert.Equal(t, results, p.tables)
	assert.DirExists(t, folder)
}

func TestRunShorterProfileCompletes(t *testing.T) {
	net := studyNetwork(t)
	short, err := profile.Load([]sheet.Sheet{{Name: "load", Rows: [][]string{
		{"profile", "1"},
		{"time", "P [MW]"},
		{"00:00", "3.0"},
		{"06:00", "4.0"},
	}}})
	require.NoError(t, err)
	rep, err := binding.Bind(net, "load", short["load"], logger.NopLogger{})
	require.NoError(t, err)
	require.True(t, rep.TimeMismatch)

	var seen []float64
	results, run, err := NewRunner(feederSolver(&seen), nil, logger.NopLogger{}, nil).
		Run(context.Background(), net, Options{RunID: "short"})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4, 4, 4}, seen, "records keep their last value past the profile end")
	assert.Len(t, run.Steps, 4)
	load, _ := results.Get("res_load.p_mw")
	assert.Equal(t, 4, load.Len())
}

func TestRunPersistenceFailureIsSwallowed(t *testing.T) {
	net := studyNetwork(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	var seen []float64
	rec := logger.NewRecorder()
	p := &fakePersister{}
	results, rep, err := NewRunner(feederSolver(&seen), p, rec, nil).
		Run(context.Background(), net, Options{OutputName: "study", Folder: filepath.Join(blocker, "out")})
	require.NoError(t, err)

	require.Len(t, results, 3)
	vm, _ := results.Get("res_bus.vm_pu")
	assert.Equal(t, 4, vm.Len())
	assert.Empty(t, rep.Workbook)
	assert.Empty(t, p.path, "nothing is written when the folder cannot be created")

	errs := rec.Entries("error")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "create output folder")
	assert.Contains(t, errs[0].Message, blocker)
}

func TestRunPersisterErrorIsSwallowed(t *testing.T) {
	net := studyNetwork(t)
	var seen []float64
	rec := logger.NewRecorder()
	p := &fakePersister{err: errors.New("file is locked")}
	results, rep, err := NewRunner(feederSolver(&seen), p, rec, nil).
		Run(context.Background(), net, Options{OutputName: "study", Folder: t.TempDir()})
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Empty(t, rep.Workbook)
	assert.True(t, rec.Contains("error", "file is locked"))
}

func TestRunDivergence(t *testing.T) {
	diverging := SolverFunc(func(_ context.Context, in StepInput) (StepResult, error) {
		if in.Step == 2 {
			return StepResult{Converged: false}, nil
		}
		return StepResult{Converged: true, Tables: map[string]map[int64]map[string]float64{
			"res_bus": {0: {"vm_pu": 1}},
		}}, nil
	})

	_, rep, err := NewRunner(diverging, nil, nil, nil).Run(context.Background(), studyNetwork(t), Options{})
	assert.ErrorIs(t, err, ErrDiverged)
	assert.Equal(t, []int{2}, rep.Diverged())

	results, rep, err := NewRunner(diverging, nil, nil, nil).
		Run(context.Background(), studyNetwork(t), Options{ContinueOnDivergence: true})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, rep.Diverged())
	vm, _ := results.Get("res_bus.vm_pu")
	col, _ := vm.Column("Grid")
	assert.Equal(t, 1.0, col[1])
	assert.True(t, math.IsNaN(col[2]))
}

func TestRunRequiresTimeIndex(t *testing.T) {
	_, _, err := NewRunner(SolverFunc(nil), nil, nil, nil).Run(context.Background(), network.New("n"), Options{})
	assert.ErrorIs(t, err, ErrNoTimeIndex)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var seen []float64
	_, _, err := NewRunner(feederSolver(&seen), nil, nil, nil).Run(ctx, studyNetwork(t), Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, seen)
}

func TestRunSkipsParameters(t *testing.T) {
	net := studyNetwork(t)
	net.Output = &network.OutputWriter{Selectors: []network.Selector{
		{Table: network.ParametersKey, Field: "max_iteration"},
		{Table: "res_bus", Field: "vm_pu"},
	}}
	var seen []float64
	results, _, err := NewRunner(feederSolver(&seen), nil, nil, nil).Run(context.Background(), net, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"res_bus.vm_pu"}, results.Keys())
}

func TestConfigureOutput(t *testing.T) {
	net := network.New("n")
	require.NoError(t, ConfigureOutput(net))
	assert.Equal(t, []string{"res_bus.vm_pu", "res_line.loading_percent", "res_trafo.loading_percent"}, net.Output.Keys())

	require.NoError(t, ConfigureOutput(net, "res_sgen.p_mw, res_bus.va_degree", "res_trafo.loading_percent"))
	assert.Equal(t, []string{
		"res_bus.vm_pu", "res_line.loading_percent", "res_sgen.p_mw", "res_bus.va_degree", "res_trafo.loading_percent",
	}, net.Output.Keys())

	assert.Error(t, ConfigureOutput(net, "vm_pu"))
}
