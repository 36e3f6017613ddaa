package runner

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// PrintPreExecution prints command details before execution
func PrintPreExecution(w io.Writer, config *Config) {
	dir := config.Dir
	if dir == "" {
		dir = "."
	}

	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Sync Command Execution Details")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Command: %s\n", config.CommandLine())
	fmt.Fprintf(w, "Dir:     %s\n", dir)
	if config.Timeout > 0 {
		fmt.Fprintf(w, "Timeout: %s\n", config.Timeout)
	}
	fmt.Fprintln(w, "----------------------------------------")
}

// PrintPostExecution prints execution results and the captured output after
// command completion. Stdout is shown for successful runs, stderr otherwise.
func PrintPostExecution(w io.Writer, result *Result) {
	fmt.Fprintln(w, "Execution Results:")
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "Status:         %s\n", result.Status)
	fmt.Fprintf(w, "Exit Code:      %d\n", result.ExitCode)
	fmt.Fprintf(w, "Execution Time: %s s\n", Seconds(result.ExecutionTime))
	fmt.Fprintln(w, "----------------------------------------")
	if result.Succeeded() {
		fmt.Fprintln(w, "Output:")
		fmt.Fprintln(w, result.Stdout)
	} else {
		fmt.Fprintln(w, "Error:")
		fmt.Fprintln(w, result.Stderr)
	}
	fmt.Fprintln(w, "========================================")
}

// Seconds renders a millisecond duration as seconds with three decimals
func Seconds(ms int64) string {
	return decimal.New(ms, -3).StringFixed(3)
}
