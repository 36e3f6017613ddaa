package output

import (
	"time"

	"github.com/zinc-sig/syncd/internal/runner"
)

const (
	MessageSyncSucceeded = "Sync completed successfully."
	MessageSyncFailed    = "Sync failed."
)

// Response is the body returned by the sync endpoint
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewResponse maps a sync outcome to the response body
func NewResponse(success bool) *Response {
	if success {
		return &Response{Success: true, Message: MessageSyncSucceeded}
	}
	return &Response{Success: false, Message: MessageSyncFailed}
}

// Report is the full record of one sync run
type Report struct {
	RunID         string    `json:"run_id"`
	Command       string    `json:"command"`
	Dir           string    `json:"dir,omitempty"`
	Status        string    `json:"status"`
	Success       bool      `json:"success"`
	ExitCode      int       `json:"exit_code"`
	ExecutionTime int64     `json:"execution_time"`
	Timeout       *int64    `json:"timeout,omitempty"` // in milliseconds
	Stdout        string    `json:"stdout"`
	Stderr        string    `json:"stderr"`
	Error         string    `json:"error,omitempty"` // set when the command could not be started
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`

	// Archive locations (only when an upload provider is configured)
	StdoutObject string `json:"stdout_object,omitempty"`
	StderrObject string `json:"stderr_object,omitempty"`

	// Webhook status (only in local output, not sent to webhook)
	WebhookSent  bool   `json:"webhook_sent,omitempty"`
	WebhookError string `json:"webhook_error,omitempty"`
}

// NewReport builds a report from an execution. result is nil when the
// command could not be started, in which case runErr is recorded instead.
func NewReport(runID string, config *runner.Config, result *runner.Result, runErr error, startedAt, finishedAt time.Time) *Report {
	report := &Report{
		RunID:      runID,
		Command:    config.CommandLine(),
		Dir:        config.Dir,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}

	if config.Timeout > 0 {
		timeoutMs := config.Timeout.Milliseconds()
		report.Timeout = &timeoutMs
	}

	if result == nil {
		report.Status = string(runner.StatusFailed)
		report.ExitCode = -1
		if runErr != nil {
			report.Error = runErr.Error()
		}
		return report
	}

	report.Status = string(result.Status)
	report.Success = result.Succeeded()
	report.ExitCode = result.ExitCode
	report.ExecutionTime = result.ExecutionTime
	report.Stdout = result.Stdout
	report.Stderr = result.Stderr
	return report
}
