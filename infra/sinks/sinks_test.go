package sinks

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridstudy/core/network"
	"github.com/kilianp07/gridstudy/core/results"
	"github.com/kilianp07/gridstudy/core/simulation"
	"github.com/kilianp07/gridstudy/core/timeseries"
)

func testRun() results.Run {
	return results.Run{ID: "run-1", Name: "winter", Date: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)}
}

func testTables(t *testing.T) simulation.Results {
	t.Helper()
	idx := []timeseries.TimeOfDay{timeseries.Clock(0, 0, 0), timeseries.Clock(6, 0, 0), timeseries.Clock(12, 0, 0)}
	vm := timeseries.NewFrame(idx)
	require.NoError(t, vm.AddColumn("Grid", []float64{1, 1, 1}))
	require.NoError(t, vm.AddColumn("Feeder", []float64{0.99, 0.98, math.NaN()}))
	line := timeseries.NewFrame(idx)
	require.NoError(t, line.AddColumn("Cable", []float64{10, 20, 15}))
	return simulation.Results{
		{Selector: network.Selector{Table: "res_bus", Field: "vm_pu"}, Frame: vm},
		{Selector: network.Selector{Table: "res_line", Field: "loading_percent"}, Frame: line},
	}
}
