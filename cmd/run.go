package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zinc-sig/syncd/cmd/helpers"
)

var errSyncFailed = errors.New("sync failed")

func newRunCmd() *cobra.Command {
	flags := &helpers.Flags{}

	runCmd := &cobra.Command{
		Use:   "run [flags] [-- <command> [args...]]",
		Short: "Run the sync once and print the run report",
		Long: `Run the sync command once, exactly as the HTTP endpoint would, and print
the run report as JSON. The exit status is 1 when the sync failed.

A command given after '--' replaces the configured sync command.`,
		Example: `  syncd run
  syncd run --timeout 30s -- ./export.sh --since yesterday
  syncd run --webhook-url https://hooks.example.com/sync --upload-provider minio --upload-config-kv bucket=sync-logs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, flags, args)
		},
	}

	helpers.SetupSourceFlags(runCmd, &flags.Source)
	helpers.SetupWebhookFlags(runCmd, &flags.Webhook)
	helpers.SetupUploadFlags(runCmd, &flags.Upload)

	return runCmd
}

func runOnce(cmd *cobra.Command, flags *helpers.Flags, args []string) error {
	if len(args) > 0 && cmd.ArgsLenAtDash() != 0 {
		return fmt.Errorf("command separator '--' is required")
	}

	cfg, err := helpers.LoadConfig(cmd, flags)
	if err != nil {
		return err
	}

	rc, err := helpers.RunnerConfig(cfg, args)
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

	report := job.Run(ctx)

	jsonOutput, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonOutput))

	if !report.Success {
		return errSyncFailed
	}
	return nil
}
