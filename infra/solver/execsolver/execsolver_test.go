package execsolver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridstudy/core/network"
	"github.com/kilianp07/gridstudy/core/simulation"
	"github.com/kilianp07/gridstudy/core/timeseries"
	"github.com/kilianp07/gridstudy/infra/logger"
)

// TestHelperProcess is the fake solver launched by the tests below. It
// answers every request with the load's p_mw as the feeder voltage drop and
// fails on step 3.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GS_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("GS_HELPER_HANG") == "1" {
		time.Sleep(time.Hour)
	}
	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 1<<20), 1<<20)
	for in.Scan() {
		var req struct {
			Step   int                                    `json:"step"`
			Time   string                                 `json:"time"`
			Tables map[string]map[string]map[string]any `json:"tables"`
		}
		if err := json.Unmarshal(in.Bytes(), &req); err != nil {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
			continue
		}
		if req.Step == 3 {
			fmt.Println(`{"error":"singular jacobian"}`)
			continue
		}
		p, _ := req.Tables["load"]["0"]["p_mw"].(float64)
		fmt.Printf(`{"converged":true,"results":{"res_bus":{"1":{"vm_pu":%g}}}}`+"\n", 1-0.01*p)
	}
	os.Exit(0)
}

func helperConfig() Config {
	return Config{
		Command: os.Args[0],
		Args:    []string{"-test.run=TestHelperProcess", "--"},
		Env:     []string{"GS_WANT_HELPER_PROCESS=1"},
	}
}

func stepInput(step int, p float64) simulation.StepInput {
	net := network.New("n")
	load := network.NewTable("load", "p_mw")
	load.Insert(0, network.Row{"p_mw": network.Float(p)})
	net.SetTable(load)
	return simulation.StepInput{Step: step, Time: timeseries.Clock(step, 0, 0), Network: net}
}

func TestSolveOverStdio(t *testing.T) {
	s, err := Start(helperConfig(), logger.NopLogger{})
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), stepInput(0, 2))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	v, ok := res.Tables["res_bus"][1]["vm_pu"]
	require.True(t, ok)
	assert.InDelta(t, 0.98, v, 1e-12)

	_, err = s.Solve(context.Background(), stepInput(3, 1))
	assert.EqualError(t, err, "singular jacobian")

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, err = s.Solve(context.Background(), stepInput(1, 1))
	assert.Error(t, err)
}

func TestSolveHonoursCancelledContext(t *testing.T) {
	s, err := Start(helperConfig(), logger.NopLogger{})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Solve(ctx, stepInput(0, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveKillsHungProcessOnCancel(t *testing.T) {
	cfg := helperConfig()
	cfg.Env = append(cfg.Env, "GS_HELPER_HANG=1")
	s, err := Start(cfg, logger.NopLogger{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = s.Solve(ctx, stepInput(0, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)

	_, err = s.Solve(context.Background(), stepInput(1, 1))
	assert.EqualError(t, err, "solver process closed")
	assert.NoError(t, s.Close())
}

func TestStartValidation(t *testing.T) {
	_, err := Start(Config{}, logger.NopLogger{})
	assert.Error(t, err)
	_, err = Start(Config{Command: "/nonexistent/solver"}, logger.NopLogger{})
	assert.Error(t, err)
}
