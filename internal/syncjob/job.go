// Package syncjob runs the external sync command once and follows up on
// the outcome: console summary, optional output archive, optional webhook.
package syncjob

import (
	"bytes"
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/zinc-sig/syncd/internal/output"
	"github.com/zinc-sig/syncd/internal/runner"
	"github.com/zinc-sig/syncd/internal/upload"
)

// Notifier delivers a run report somewhere else
type Notifier interface {
	Send(ctx context.Context, payload any) error
	URL() string
}

// Job holds everything needed to run a sync. It keeps no state between
// runs and is safe for concurrent use.
type Job struct {
	config   *runner.Config
	logger   *log.Logger
	archiver upload.Provider
	notifier Notifier
}

type Option func(*Job)

// WithArchiver uploads each run's captured output through provider
func WithArchiver(provider upload.Provider) Option {
	return func(j *Job) { j.archiver = provider }
}

// WithNotifier sends each run's report through notifier
func WithNotifier(notifier Notifier) Option {
	return func(j *Job) { j.notifier = notifier }
}

func New(config *runner.Config, logger *log.Logger, opts ...Option) *Job {
	j := &Job{config: config, logger: logger}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run executes the sync command to completion. Failures of any kind are
// reported through the returned report, never as an error.
func (j *Job) Run(ctx context.Context) *output.Report {
	runID := uuid.NewString()

	var summary bytes.Buffer
	runner.PrintPreExecution(&summary, j.config)

	startedAt := time.Now()
	result, err := runner.Execute(ctx, j.config)
	finishedAt := time.Now()

	if err != nil {
		j.logger.Printf("[SYNC] Run %s could not start: %v\n%s", runID, err, summary.String())
	} else {
		runner.PrintPostExecution(&summary, result)
		j.logger.Printf("[SYNC] Run %s finished\n%s", runID, summary.String())
	}

	report := output.NewReport(runID, j.config, result, err, startedAt, finishedAt)

	if j.archiver != nil && result != nil {
		j.archive(ctx, report)
	}
	if j.notifier != nil {
		j.notify(ctx, report)
	}

	return report
}

func (j *Job) archive(ctx context.Context, report *output.Report) {
	archived, err := upload.Archive(ctx, j.archiver, report.RunID, report.Stdout, report.Stderr)
	if err != nil {
		j.logger.Printf("[UPLOAD] Error: %v", err)
		return
	}
	report.StdoutObject = archived.Stdout
	report.StderrObject = archived.Stderr
	j.logger.Printf("[UPLOAD] Archived run %s to %s", report.RunID, archived.Stdout)
}

func (j *Job) notify(ctx context.Context, report *output.Report) {
	j.logger.Printf("[WEBHOOK] Sending run %s to %s", report.RunID, j.notifier.URL())

	payload := *report
	payload.WebhookSent = false
	payload.WebhookError = ""

	if err := j.notifier.Send(ctx, &payload); err != nil {
		j.logger.Printf("[WEBHOOK] Error: %v", err)
		report.WebhookSent = false
		report.WebhookError = err.Error()
		return
	}
	report.WebhookSent = true
}
