// Package solver holds the JSON wire format shared by the solver adapters.
// A request is a simulation.StepInput; the network travels as its equipment
// tables. A response carries the convergence flag, the result tables and an
// optional error message.
package solver

import (
	"errors"

	"github.com/kilianp07/gridstudy/core/simulation"
)

// Response is the solver's answer on the wire.
type Response struct {
	Converged bool                                     `json:"converged"`
	Results   map[string]map[int64]map[string]float64 `json:"results"`
	Error     string                                   `json:"error,omitempty"`
}

// StepResult converts the response. A non-empty Error is returned as an
// error.
func (r Response) StepResult() (simulation.StepResult, error) {
	if r.Error != "" {
		return simulation.StepResult{}, errors.New(r.Error)
	}
	return simulation.StepResult{Converged: r.Converged, Tables: r.Results}, nil
}
