// Package plugins maps configuration type names onto the solver, sink and
// metrics implementations shipped with gridstudy.
package plugins

import (
	"io"

	"github.com/kilianp07/gridstudy/core/factory"
	"github.com/kilianp07/gridstudy/core/simulation"
)

// Solver is a power-flow solver holding resources until Close.
type Solver interface {
	simulation.Solver
	io.Closer
}

var solvers = factory.NewRegistry[Solver]("solver")

// RegisterSolver adds a solver factory identified by name.
func RegisterSolver(name string, f factory.Factory[Solver]) error {
	return solvers.Register(name, f)
}

// SolverTypes lists the registered solver types.
func SolverTypes() []string { return solvers.Types() }

// NewSolver creates the solver described by cfg.
func NewSolver(cfg factory.ModuleConfig) (Solver, error) {
	return solvers.Create(cfg)
}
