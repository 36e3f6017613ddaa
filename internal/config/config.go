// Package config loads the layered syncd configuration: built-in defaults,
// an optional YAML file, SYNCD_* environment variables and section.key=value
// overrides, in increasing order of precedence.
package config

import (
	"bytes"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of configuration environment variables
const EnvPrefix = "SYNCD"

// Defaults match the production deployment: the transaction exporter is a
// .NET project run from its own directory, served on localhost:4000.
const (
	DefaultHost              = "localhost"
	DefaultPort              = 4000
	DefaultCommand           = "dotnet"
	DefaultDir               = "."
	DefaultWebhookMethod     = "POST"
	DefaultWebhookAuthType   = "none"
	DefaultWebhookTimeout    = 30 * time.Second
	DefaultWebhookRetries    = 3
	DefaultWebhookRetryDelay = 1 * time.Second
)

// DefaultArgs is the argument list passed to DefaultCommand
var DefaultArgs = []string{"run", "get-all-transactions"}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Sync    SyncConfig    `yaml:"sync"`
	Webhook WebhookConfig `yaml:"webhook"`
	Upload  UploadConfig  `yaml:"upload"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type SyncConfig struct {
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args"`
	Dir        string   `yaml:"dir"`
	Env        []string `yaml:"env"`     // extra KEY=VALUE pairs
	RawTimeout string   `yaml:"timeout"` // e.g. "5m"; empty or 0 means no timeout
}

// Timeout returns the parsed sync timeout, 0 when none is configured
func (s SyncConfig) Timeout() (time.Duration, error) {
	if s.RawTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.RawTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid sync.timeout duration: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("sync.timeout must not be negative")
	}
	return d, nil
}

type WebhookConfig struct {
	URL           string            `yaml:"url"`
	Method        string            `yaml:"method"`
	Headers       map[string]string `yaml:"headers"`
	AuthType      string            `yaml:"auth_type"`
	AuthToken     string            `yaml:"auth_token"`
	RawTimeout    string            `yaml:"timeout"`
	Retries       int               `yaml:"retries"`
	RawRetryDelay string            `yaml:"retry_delay"`
}

// Enabled reports whether a webhook URL is configured
func (w WebhookConfig) Enabled() bool {
	return w.URL != ""
}

// Timeout returns the total webhook timeout including retries
func (w WebhookConfig) Timeout() (time.Duration, error) {
	return parsePositiveDuration("webhook.timeout", w.RawTimeout, DefaultWebhookTimeout)
}

// RetryDelay returns the initial delay between webhook retries
func (w WebhookConfig) RetryDelay() (time.Duration, error) {
	return parsePositiveDuration("webhook.retry_delay", w.RawRetryDelay, DefaultWebhookRetryDelay)
}

// UploadConfig selects the archive provider. All other keys of the
// upload section are handed to the provider as its configuration.
type UploadConfig struct {
	Provider string         `yaml:"provider"`
	Options  map[string]any `yaml:",inline"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Sync: SyncConfig{
			Command: DefaultCommand,
			Args:    append([]string(nil), DefaultArgs...),
			Dir:     DefaultDir,
		},
		Webhook: WebhookConfig{
			Method:        DefaultWebhookMethod,
			AuthType:      DefaultWebhookAuthType,
			RawTimeout:    DefaultWebhookTimeout.String(),
			Retries:       DefaultWebhookRetries,
			RawRetryDelay: DefaultWebhookRetryDelay.String(),
		},
	}
}

// LoadOptions names the configuration sources
type LoadOptions struct {
	File      string   // optional YAML file
	Set       []string // section.key=value overrides
	EnvPrefix string   // defaults to EnvPrefix
}

// Load layers defaults, file, environment and overrides, then validates
func Load(opts LoadOptions) (*Config, error) {
	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = EnvPrefix
	}

	base, err := toTree(Default())
	if err != nil {
		return nil, err
	}
	layers := []map[string]any{base}

	if opts.File != "" {
		fileTree, err := ParseFile(opts.File)
		if err != nil {
			return nil, err
		}
		layers = append(layers, fileTree)
	}

	envTree, err := ParseEnvWithPrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	layers = append(layers, envTree)

	setTree, err := ParseSet(opts.Set)
	if err != nil {
		return nil, fmt.Errorf("parsing overrides: %w", err)
	}
	layers = append(layers, setTree)

	merged := Merge(layers...)
	normalizeArgs(merged)
	dropStaleArgs(merged, layers)

	cfg, err := fromTree(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail at request time
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Sync.Command == "" {
		return fmt.Errorf("sync.command is required")
	}
	for _, kv := range c.Sync.Env {
		if !strings.Contains(kv, "=") {
			return fmt.Errorf("sync.env entry %q must be KEY=VALUE", kv)
		}
	}
	if _, err := c.Sync.Timeout(); err != nil {
		return err
	}
	if c.Webhook.Enabled() {
		if _, err := c.Webhook.Timeout(); err != nil {
			return err
		}
		if _, err := c.Webhook.RetryDelay(); err != nil {
			return err
		}
		if c.Webhook.Retries < 0 {
			return fmt.Errorf("webhook.retries must not be negative")
		}
	}
	return nil
}

func toTree(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	tree := map[string]any{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return tree, nil
}

func fromTree(tree map[string]any) (*Config, error) {
	data, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// normalizeArgs accepts sync.args given as one string, as it is from the
// environment or a --set override, and splits it on whitespace.
func normalizeArgs(tree map[string]any) {
	sync, ok := tree["sync"].(map[string]any)
	if !ok {
		return
	}
	if s, ok := sync["args"].(string); ok {
		sync["args"] = strings.Fields(s)
	}
	if s, ok := sync["env"].(string); ok {
		sync["env"] = strings.Fields(s)
	}
}

// dropStaleArgs clears sync.args when the layer that chose the command is
// above every layer that gave args: the args belonged to another command.
func dropStaleArgs(merged map[string]any, layers []map[string]any) {
	commandAt, argsAt := -1, -1
	for i, layer := range layers {
		sync, ok := layer["sync"].(map[string]any)
		if !ok {
			continue
		}
		if _, ok := sync["command"]; ok {
			commandAt = i
		}
		if _, ok := sync["args"]; ok {
			argsAt = i
		}
	}
	if commandAt <= argsAt {
		return
	}
	if sync, ok := merged["sync"].(map[string]any); ok {
		delete(sync, "args")
	}
}

func parsePositiveDuration(name, raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return d, nil
}
