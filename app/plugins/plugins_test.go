package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridstudy/core/factory"
	coremetrics "github.com/kilianp07/gridstudy/core/metrics"
	"github.com/kilianp07/gridstudy/core/results"
)

func TestBuiltinsRegistered(t *testing.T) {
	assert.Equal(t, []string{"exec", "http"}, SolverTypes())
	assert.Contains(t, results.SinkTypes(), "sqlite")
	assert.Contains(t, coremetrics.RecorderTypes(), "prometheus")
}

func TestNewHTTPSolver(t *testing.T) {
	s, err := NewSolver(factory.ModuleConfig{Type: "HTTP", Conf: map[string]any{"url": "http://localhost:9/solve", "timeout_seconds": "5"}})
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestNewSolverErrors(t *testing.T) {
	_, err := NewSolver(factory.ModuleConfig{Type: "exec"})
	assert.ErrorContains(t, err, "command is required")

	_, err = NewSolver(factory.ModuleConfig{Type: "pandapower"})
	assert.ErrorContains(t, err, "unknown solver type")
}
