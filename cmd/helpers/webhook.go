package helpers

import (
	"log"
	"time"

	"github.com/zinc-sig/syncd/internal/config"
	"github.com/zinc-sig/syncd/internal/webhook"
)

// NewWebhookClient converts the webhook section into a client. It returns
// nil when no webhook URL is configured.
func NewWebhookClient(cfg config.WebhookConfig, logger *log.Logger) (*webhook.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	retryDelay, err := cfg.RetryDelay()
	if err != nil {
		return nil, err
	}

	webhookConfig := &webhook.Config{
		URL:       cfg.URL,
		Method:    cfg.Method,
		Headers:   cfg.Headers,
		Timeout:   timeout,
		AuthType:  cfg.AuthType,
		AuthToken: cfg.AuthToken,
	}
	if err := webhookConfig.Validate(); err != nil {
		return nil, err
	}

	retryConfig := &webhook.RetryConfig{
		MaxRetries:   cfg.Retries,
		InitialDelay: retryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	return webhook.NewClient(webhookConfig, retryConfig, logger), nil
}
