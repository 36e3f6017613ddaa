package upload

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Archived holds the locations of one run's uploaded output
type Archived struct {
	Stdout string
	Stderr string
}

// Archive uploads the captured stdout and stderr of a sync run as
// <runID>/stdout.txt and <runID>/stderr.txt.
func Archive(ctx context.Context, provider Provider, runID, stdout, stderr string) (*Archived, error) {
	if runID == "" {
		return nil, fmt.Errorf("archive: run id is required")
	}

	stdoutPath := path.Join(runID, "stdout.txt")
	if err := provider.Upload(ctx, strings.NewReader(stdout), stdoutPath); err != nil {
		return nil, fmt.Errorf("archive stdout: %w", err)
	}

	stderrPath := path.Join(runID, "stderr.txt")
	if err := provider.Upload(ctx, strings.NewReader(stderr), stderrPath); err != nil {
		return nil, fmt.Errorf("archive stderr: %w", err)
	}

	return &Archived{
		Stdout: provider.Location(stdoutPath),
		Stderr: provider.Location(stderrPath),
	}, nil
}
