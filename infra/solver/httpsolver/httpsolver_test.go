package httpsolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridstudy/auth"
	"github.com/kilianp07/gridstudy/core/network"
	"github.com/kilianp07/gridstudy/core/simulation"
	"github.com/kilianp07/gridstudy/core/timeseries"
	"github.com/kilianp07/gridstudy/infra/logger"
)

func input() simulation.StepInput {
	net := network.New("n")
	bus := network.NewTable("bus", "name", "vn_kv")
	bus.Insert(0, network.Row{"name": network.String("Grid"), "vn_kv": network.Float(20)})
	net.SetTable(bus)
	return simulation.StepInput{Step: 2, Time: timeseries.Clock(0, 30, 0), Network: net}
}

func TestSolvePostsStep(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"converged":true,"results":{"res_bus":{"0":{"vm_pu":1.02}}}}`))
	}))
	defer srv.Close()

	s, err := New(Config{URL: srv.URL}, logger.NopLogger{})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	res, err := s.Solve(context.Background(), input())
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 1.02, res.Tables["res_bus"][0]["vm_pu"])

	assert.Equal(t, 2.0, got["step"])
	assert.Equal(t, "00:30:00", got["time"])
	tables := got["tables"].(map[string]any)
	bus := tables["bus"].(map[string]any)["0"].(map[string]any)
	assert.Equal(t, "Grid", bus["name"])
}

func TestSolveErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/down":
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		case "/garbage":
			_, _ = w.Write([]byte("not json"))
		default:
			_, _ = w.Write([]byte(`{"error":"islanded bus 3"}`))
		}
	}))
	defer srv.Close()

	for path, want := range map[string]string{
		"/down":    "maintenance",
		"/garbage": "decode step 2",
		"/solve":   "islanded bus 3",
	} {
		s, err := New(Config{URL: srv.URL + path}, logger.NopLogger{})
		require.NoError(t, err)
		_, err = s.Solve(context.Background(), input())
		require.Error(t, err, path)
		assert.Contains(t, err.Error(), want)
	}

	_, err := New(Config{}, logger.NopLogger{})
	assert.Error(t, err)
}

func TestSolveWithClientCredentials(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	var authz string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"converged":false}`))
	}))
	defer srv.Close()

	s, err := New(Config{URL: srv.URL, Auth: &auth.Conf{ClientID: "gs", ClientSecret: "x", TokenURL: tokenSrv.URL}}, logger.NopLogger{})
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), input())
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, "Bearer abc", authz)
}
