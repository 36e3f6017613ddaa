package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Status is the outcome of a command execution
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

type Config struct {
	Command string
	Args    []string
	Dir     string        // working directory; empty means the current one
	Env     []string      // extra KEY=VALUE pairs appended to the inherited environment
	Timeout time.Duration // 0 means no timeout
}

// CommandLine returns the command and its arguments joined by spaces
func (c *Config) CommandLine() string {
	return strings.Join(append([]string{c.Command}, c.Args...), " ")
}

type Result struct {
	Command       string
	Status        Status
	ExitCode      int
	Stdout        string
	Stderr        string
	ExecutionTime int64 // milliseconds
}

// Succeeded reports whether the command exited with code 0
func (r *Result) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Execute runs the command to completion and captures its output.
// A non-zero exit code is reported through Result, not as an error;
// an error means the command could not be started at all.
func Execute(ctx context.Context, config *Config) (*Result, error) {
	if config.Command == "" {
		return nil, fmt.Errorf("no command configured")
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	cmd.Dir = config.Dir
	if len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	startTime := time.Now()
	err := cmd.Run()
	executionTime := time.Since(startTime).Milliseconds()

	result := &Result{
		Command:       config.CommandLine(),
		Status:        StatusSuccess,
		Stdout:        stdout.String(),
		Stderr:        stderr.String(),
		ExecutionTime: executionTime,
	}

	if err == nil {
		return result, nil
	}

	if config.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.Status = StatusTimeout
		result.ExitCode = -1
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.Status = StatusFailed
		result.ExitCode = exitErr.ExitCode() // -1 when killed by a signal
		return result, nil
	}

	return nil, fmt.Errorf("failed to start command %s: %w", config.Command, err)
}
