package helpers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zinc-sig/syncd/internal/config"
	"github.com/zinc-sig/syncd/internal/runner"
)

// LoadConfig loads the layered configuration. Flags the user set
// explicitly are applied last and win over every other source.
func LoadConfig(cmd *cobra.Command, flags *Flags) (*config.Config, error) {
	set := append([]string(nil), flags.Source.Set...)
	set = append(set, flagOverrides(cmd)...)
	for _, kv := range flags.Upload.ConfigKV {
		if !strings.Contains(kv, "=") {
			return nil, fmt.Errorf("invalid upload config %q: expected key=value", kv)
		}
		set = append(set, "upload."+kv)
	}

	cfg, err := config.Load(config.LoadOptions{
		File: flags.Source.ConfigFile,
		Set:  set,
	})
	if err != nil {
		return nil, err
	}

	headers, err := ParseHeaders(flags.Webhook.Headers)
	if err != nil {
		return nil, err
	}
	if len(headers) > 0 {
		if cfg.Webhook.Headers == nil {
			cfg.Webhook.Headers = map[string]string{}
		}
		for name, value := range headers {
			cfg.Webhook.Headers[name] = value
		}
	}

	return cfg, nil
}

func flagOverrides(cmd *cobra.Command) []string {
	var set []string
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		set = append(set, key+"="+flag.Value.String())
	}
	return set
}

// ParseHeaders parses "Name: value" header flags
func ParseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid webhook header %q: expected 'Name: value'", v)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// RunnerConfig builds the command configuration. A non-empty command
// overrides the configured command and its arguments.
func RunnerConfig(cfg *config.Config, command []string) (*runner.Config, error) {
	timeout, err := cfg.Sync.Timeout()
	if err != nil {
		return nil, err
	}

	rc := &runner.Config{
		Command: cfg.Sync.Command,
		Args:    cfg.Sync.Args,
		Dir:     cfg.Sync.Dir,
		Env:     cfg.Sync.Env,
		Timeout: timeout,
	}
	if len(command) > 0 {
		rc.Command = command[0]
		rc.Args = command[1:]
	}
	return rc, nil
}
