package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the syncd command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "syncd",
		Short: "An HTTP trigger for the transaction sync job",
		Long: `syncd exposes a single endpoint that runs the transaction sync command
and reports whether it succeeded.

Each GET /sync-transactions starts the configured command, waits for it to
exit and answers 200 on success or 500 on failure. Run reports can be posted
to a webhook and the captured output archived to object storage.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRunCmd())
	return rootCmd
}

func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
