package helpers

import (
	"io"
	"log"

	"github.com/zinc-sig/syncd/internal/config"
	"github.com/zinc-sig/syncd/internal/runner"
	"github.com/zinc-sig/syncd/internal/syncjob"
)

// NewJob wires the configured archiver and webhook into a sync job.
// Verbose mode prints the upload configuration to w and lets the webhook
// client log its retries.
func NewJob(cfg *config.Config, rc *runner.Config, logger *log.Logger, verbose bool, w io.Writer) (*syncjob.Job, error) {
	var opts []syncjob.Option

	archiver, err := NewArchiver(cfg.Upload)
	if err != nil {
		return nil, err
	}
	if archiver != nil {
		if verbose {
			PrintUploadInfo(w, archiver, cfg.Upload.Options)
		}
		opts = append(opts, syncjob.WithArchiver(archiver))
	}

	var clientLogger *log.Logger
	if verbose {
		clientLogger = logger
	}
	client, err := NewWebhookClient(cfg.Webhook, clientLogger)
	if err != nil {
		return nil, err
	}
	if client != nil {
		opts = append(opts, syncjob.WithNotifier(client))
	}

	return syncjob.New(rc, logger, opts...), nil
}
