package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zinc-sig/syncd/cmd/helpers"
	"github.com/zinc-sig/syncd/internal/server"
)

func newServeCmd() *cobra.Command {
	flags := &helpers.Flags{}

	serveCmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve the sync endpoint over HTTP",
		Long: `Start the HTTP server. Every GET /sync-transactions runs the configured
sync command to completion and answers with {"success", "message"}.

Configuration is read from built-in defaults, the --config YAML file,
SYNCD_* environment variables, --set overrides and finally explicit flags.`,
		Example: `  syncd serve
  syncd serve --port 8080 --dir ./exporter --timeout 10m
  syncd serve -c syncd.yaml --set sync.command=./export.sh --webhook-url https://hooks.example.com/sync`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, flags)
		},
	}

	helpers.SetupSourceFlags(serveCmd, &flags.Source)
	helpers.SetupServerFlags(serveCmd, &flags.Server)
	helpers.SetupWebhookFlags(serveCmd, &flags.Webhook)
	helpers.SetupUploadFlags(serveCmd, &flags.Upload)

	return serveCmd
}

func serve(cmd *cobra.Command, flags *helpers.Flags) error {
	cfg, err := helpers.LoadConfig(cmd, flags)
	if err != nil {
		return err
	}

	rc, err := helpers.RunnerConfig(cfg, nil)
	if err != nil {
		return err
	}

	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	job, err := helpers.NewJob(cfg, rc, logger, flags.Source.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Printf("[SYNC] GET %s runs %q in %s", server.SyncPath, rc.CommandLine(), rc.Dir)
	if cfg.Webhook.Enabled() {
		logger.Printf("[WEBHOOK] Reports go to %s", cfg.Webhook.URL)
	}

	return server.New(job, logger).ListenAndServe(ctx, cfg.Server.Addr())
}
