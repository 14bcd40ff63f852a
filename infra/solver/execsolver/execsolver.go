// Package execsolver runs the solver as a child process and talks to it with
// one JSON document per line over stdin and stdout.
package execsolver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/kilianp07/gridstudy/core/logger"
	"github.com/kilianp07/gridstudy/core/simulation"
	"github.com/kilianp07/gridstudy/infra/solver"
)

// Config describes the solver command.
type Config struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
	Dir     string   `json:"dir"`
	// Env entries ("KEY=value") are appended to the current environment.
	Env []string `json:"env"`
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Command == "" {
		return errors.New("exec solver: command is required")
	}
	return nil
}

// Solver is a running solver process. Solve calls are serialised.
type Solver struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	dec    *json.Decoder
	log    logger.Logger
	closed bool
}

// Start launches the solver process. The process lives until Close.
func Start(cfg Config, log logger.Logger) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Dir = cfg.Dir
	cmd.Env = append(os.Environ(), cfg.Env...)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start solver %s: %w", cfg.Command, err)
	}
	log.Infof("solver process %s started (pid %d)", cfg.Command, cmd.Process.Pid)
	return &Solver{
		cmd:   cmd,
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		dec:   json.NewDecoder(bufio.NewReader(stdout)),
		log:   log,
	}, nil
}

type reply struct {
	resp solver.Response
	err  error
}

// Solve sends one step and waits for its answer. When ctx ends first the
// process is killed and the solver cannot be used again.
func (s *Solver) Solve(ctx context.Context, in simulation.StepInput) (simulation.StepResult, error) {
	if err := ctx.Err(); err != nil {
		return simulation.StepResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return simulation.StepResult{}, errors.New("solver process closed")
	}
	if err := s.enc.Encode(in); err != nil {
		return simulation.StepResult{}, fmt.Errorf("send step %d: %w", in.Step, err)
	}
	done := make(chan reply, 1)
	go func() {
		var r reply
		r.err = s.dec.Decode(&r.resp)
		done <- r
	}()
	select {
	case r := <-done:
		if r.err != nil {
			return simulation.StepResult{}, fmt.Errorf("read step %d: %w", in.Step, r.err)
		}
		return r.resp.StepResult()
	case <-ctx.Done():
		s.kill()
		return simulation.StepResult{}, fmt.Errorf("step %d: %w", in.Step, ctx.Err())
	}
}

// kill stops the process. Wait closes stdout, which releases the pending
// Decode.
func (s *Solver) kill() {
	s.closed = true
	_ = s.stdin.Close()
	if err := s.cmd.Process.Kill(); err != nil {
		s.log.Warnf("kill solver process: %v", err)
	}
	_ = s.cmd.Wait()
	s.log.Warnf("solver process %d killed on cancellation", s.cmd.Process.Pid)
}

// Close ends the solver's input and waits for the process to exit.
func (s *Solver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.stdin.Close(); err != nil {
		s.log.Warnf("close solver stdin: %v", err)
	}
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("solver process: %w", err)
	}
	return nil
}
