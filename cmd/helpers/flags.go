package helpers

import (
	"github.com/spf13/cobra"
	"github.com/zinc-sig/syncd/internal/config"
)

// SourceFlags holds the flags shared by every command
type SourceFlags struct {
	ConfigFile string
	Set        []string
	Verbose    bool
	Dir        string
	Timeout    string
}

// ServerFlags holds the listen address flags
type ServerFlags struct {
	Host string
	Port int
}

// WebhookFlags holds webhook-related flags
type WebhookFlags struct {
	URL        string
	Method     string
	Headers    []string // "Name: value"
	AuthType   string
	AuthToken  string
	Timeout    string
	Retries    int
	RetryDelay string
}

// UploadFlags holds upload-related flags
type UploadFlags struct {
	Provider string
	ConfigKV []string
}

// Flags is the complete flag set of a command
type Flags struct {
	Source  SourceFlags
	Server  ServerFlags
	Webhook WebhookFlags
	Upload  UploadFlags
}

// flagKeys maps flag names to the configuration key they override
var flagKeys = map[string]string{
	"host":                "server.host",
	"port":                "server.port",
	"dir":                 "sync.dir",
	"timeout":             "sync.timeout",
	"webhook-url":         "webhook.url",
	"webhook-method":      "webhook.method",
	"webhook-auth-type":   "webhook.auth_type",
	"webhook-auth-token":  "webhook.auth_token",
	"webhook-timeout":     "webhook.timeout",
	"webhook-retries":     "webhook.retries",
	"webhook-retry-delay": "webhook.retry_delay",
	"upload-provider":     "upload.provider",
}

// SetupSourceFlags adds configuration source flags to a command
func SetupSourceFlags(cmd *cobra.Command, flags *SourceFlags) {
	cmd.Flags().StringVarP(&flags.ConfigFile, "config", "c", "", "Path to a YAML configuration file")
	cmd.Flags().StringArrayVar(&flags.Set, "set", nil, "Override a configuration value, e.g. sync.timeout=5m or webhook.headers.X-Token=abc (can be used multiple times)")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log webhook retries and upload details")
	cmd.Flags().StringVarP(&flags.Dir, "dir", "d", config.DefaultDir, "Working directory of the sync command")
	cmd.Flags().StringVarP(&flags.Timeout, "timeout", "t", "", "Sync timeout duration (e.g., 30s, 5m); empty or 0 for none")
}

// SetupServerFlags adds listen address flags to a command
func SetupServerFlags(cmd *cobra.Command, flags *ServerFlags) {
	cmd.Flags().StringVar(&flags.Host, "host", config.DefaultHost, "Address to listen on")
	cmd.Flags().IntVarP(&flags.Port, "port", "p", config.DefaultPort, "Port to listen on")
}

// SetupWebhookFlags adds webhook-related flags to a command
func SetupWebhookFlags(cmd *cobra.Command, flags *WebhookFlags) {
	cmd.Flags().StringVar(&flags.URL, "webhook-url", "", "Webhook URL to send run reports to")
	cmd.Flags().StringVar(&flags.Method, "webhook-method", config.DefaultWebhookMethod, "HTTP method to use: GET, POST, PUT, PATCH, DELETE")
	cmd.Flags().StringArrayVar(&flags.Headers, "webhook-header", nil, "Extra webhook header as 'Name: value' (can be used multiple times)")
	cmd.Flags().StringVar(&flags.AuthType, "webhook-auth-type", config.DefaultWebhookAuthType, "Authentication type: none, bearer, api-key")
	cmd.Flags().StringVar(&flags.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	cmd.Flags().IntVar(&flags.Retries, "webhook-retries", config.DefaultWebhookRetries, "Maximum webhook retry attempts (0 = no retries)")
	cmd.Flags().StringVar(&flags.RetryDelay, "webhook-retry-delay", config.DefaultWebhookRetryDelay.String(), "Initial delay between webhook retries")
	cmd.Flags().StringVar(&flags.Timeout, "webhook-timeout", config.DefaultWebhookTimeout.String(), "Total timeout for webhook including retries")
}

// SetupUploadFlags adds upload-related flags to a command
func SetupUploadFlags(cmd *cobra.Command, flags *UploadFlags) {
	cmd.Flags().StringVar(&flags.Provider, "upload-provider", "", "Archive provider for captured output (e.g., minio)")
	cmd.Flags().StringArrayVar(&flags.ConfigKV, "upload-config-kv", nil, "Upload config key=value pairs (can be used multiple times)")
}
