package simulation

import (
	"context"

	"github.com/kilianp07/gridstudy/core/network"
	"github.com/kilianp07/gridstudy/core/timeseries"
)

// StepInput is what the solver receives for one time step. Network is
// encoded as its equipment tables on the wire.
type StepInput struct {
	Step    int                  `json:"step"`
	Time    timeseries.TimeOfDay `json:"time"`
	Network *network.Network     `json:"tables"`
}

// StepResult is the solver's answer for one time step. Tables is keyed by
// result table (res_bus), then equipment index, then field (vm_pu).
type StepResult struct {
	Converged bool                                    `json:"converged"`
	Tables    map[string]map[int64]map[string]float64 `json:"results"`
}

// Solver computes the power flow of the network at one time step. The
// network tables already hold the step's controller values.
type Solver interface {
	Solve(ctx context.Context, in StepInput) (StepResult, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, in StepInput) (StepResult, error)

func (f SolverFunc) Solve(ctx context.Context, in StepInput) (StepResult, error) {
	return f(ctx, in)
}

// Persister writes the result tables of a run to path.
type Persister interface {
	Persist(path string, tables Results) error
}
