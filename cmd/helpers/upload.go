package helpers

import (
	"fmt"
	"io"

	"github.com/zinc-sig/syncd/internal/config"
	"github.com/zinc-sig/syncd/internal/upload"
)

// NewArchiver creates and configures the upload provider, or returns nil
// when none is configured
func NewArchiver(cfg config.UploadConfig) (upload.Provider, error) {
	provider, err := upload.Setup(cfg.Provider, cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to set up upload provider: %w", err)
	}
	return provider, nil
}

// PrintUploadInfo prints the archive configuration in verbose mode
func PrintUploadInfo(w io.Writer, provider upload.Provider, options map[string]any) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Upload Configuration")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Provider:       %s\n", provider.Name())

	if provider.Name() == "minio" {
		if endpoint, ok := options["endpoint"]; ok {
			fmt.Fprintf(w, "Endpoint:       %v\n", endpoint)
		}
		if bucket, ok := options["bucket"]; ok {
			fmt.Fprintf(w, "Bucket:         %v\n", bucket)
		}
		if prefix, ok := options["prefix"]; ok && prefix != "" {
			fmt.Fprintf(w, "Prefix:         %v\n", prefix)
		}
	}

	fmt.Fprintf(w, "Objects:        %s\n", provider.Location("<run-id>/{stdout,stderr}.txt"))
	fmt.Fprintln(w, "----------------------------------------")
}
