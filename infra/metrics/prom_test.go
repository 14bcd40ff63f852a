package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/gridstudy/core/metrics"
)

func TestPromRecorder(t *testing.T) {
	rec, err := NewPromRecorder(PromConfig{}, nil)
	require.NoError(t, err)

	require.NoError(t, rec.RecordStep(coremetrics.StepEvent{Step: 0, Converged: true, Duration: 20 * time.Millisecond}))
	require.NoError(t, rec.RecordStep(coremetrics.StepEvent{Step: 1, Converged: true, Duration: 30 * time.Millisecond}))
	require.NoError(t, rec.RecordStep(coremetrics.StepEvent{Step: 2, Converged: false}))
	require.NoError(t, rec.RecordBinding(coremetrics.BindingEvent{Class: "load", Variable: "p_mw", Unmapped: 2, TimeMismatch: true}))
	require.NoError(t, rec.RecordPersistFailure(coremetrics.PersistFailureEvent{Target: "xlsx"}))

	expected := `
# HELP gridstudy_steps_total Time steps solved, by convergence
# TYPE gridstudy_steps_total counter
gridstudy_steps_total{converged="false"} 1
gridstudy_steps_total{converged="true"} 2
`
	assert.NoError(t, testutil.CollectAndCompare(rec.steps, strings.NewReader(expected)))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.unmapped.WithLabelValues("load", "p_mw")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.timeMismatch))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.persist.WithLabelValues("xlsx")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.solve))
}

func TestPromRecorderTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridstudy.prom")
	rec, err := NewPromRecorder(PromConfig{Namespace: "study", Textfile: path}, nil)
	require.NoError(t, err)
	require.NoError(t, rec.RecordStep(coremetrics.StepEvent{Converged: true}))
	require.NoError(t, coremetrics.Flush(rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `study_steps_total{converged="true"} 1`)
}
