// Package httpsolver calls a remote solver service: every step is POSTed as
// JSON and answered with the step's result tables.
package httpsolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/gridstudy/auth"
	"github.com/kilianp07/gridstudy/core/logger"
	"github.com/kilianp07/gridstudy/core/simulation"
	"github.com/kilianp07/gridstudy/infra/solver"
)

// Config describes the remote solver endpoint.
type Config struct {
	URL            string     `json:"url"`
	TimeoutSeconds int        `json:"timeout_seconds"`
	Auth           *auth.Conf `json:"auth"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.URL == "" {
		return errors.New("http solver: url is required")
	}
	return nil
}

// Solver posts steps to the remote service.
type Solver struct {
	client *http.Client
	url    string
	creds  *auth.ClientCred
	log    logger.Logger
}

// New returns a Solver for cfg.
func New(cfg Config, log logger.Logger) (*Solver, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		url:    cfg.URL,
		log:    log,
	}
	if cfg.Auth.Enabled() {
		s.creds = auth.NewClientCred(*cfg.Auth)
	}
	return s, nil
}

// Solve posts one step.
func (s *Solver) Solve(ctx context.Context, in simulation.StepInput) (simulation.StepResult, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return simulation.StepResult{}, fmt.Errorf("encode step %d: %w", in.Step, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return simulation.StepResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.creds != nil {
		if err := s.creds.SetAuthHeader(req); err != nil {
			return simulation.StepResult{}, err
		}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return simulation.StepResult{}, fmt.Errorf("post step %d: %w", in.Step, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return simulation.StepResult{}, fmt.Errorf("solver returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	var out solver.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return simulation.StepResult{}, fmt.Errorf("decode step %d: %w", in.Step, err)
	}
	s.log.Debugf("step %d solved remotely (converged=%t)", in.Step, out.Converged)
	return out.StepResult()
}

// Close releases idle connections.
func (s *Solver) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
