package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// Client delivers sync reports to a webhook endpoint. It holds no per-send
// state and may be shared between concurrent runs.
type Client struct {
	httpClient  *http.Client
	config      *Config
	retryConfig *RetryConfig
	logger      *log.Logger // nil keeps the client quiet
}

func NewClient(config *Config, retryConfig *RetryConfig, logger *log.Logger) *Client {
	if config.Method == "" {
		config.Method = http.MethodPost
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		config:      config,
		retryConfig: retryConfig,
		logger:      logger,
	}
}

// URL returns the configured endpoint
func (c *Client) URL() string {
	return c.config.URL
}

// Send encodes payload as JSON and delivers it, retrying transport errors
// and transient statuses within the overall timeout.
func (c *Client) Send(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	onRetry := func(n int, delay time.Duration) {
		c.logf("[WEBHOOK] Retry %d/%d after %v", n, c.retryConfig.MaxRetries, delay)
	}

	var status int
	err = retry(ctx, c.retryConfig, onRetry, func() error {
		var sendErr error
		status, sendErr = c.deliver(ctx, body)
		return sendErr
	})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !isRetryableStatus(statusErr.Code) {
			c.logf("[WEBHOOK] Non-retryable status %d, giving up", statusErr.Code)
		}
		return err
	}

	c.logf("[WEBHOOK] Successfully sent (status: %d)", status)
	return nil
}

// deliver performs one request. A response outside 2xx is a *StatusError.
func (c *Client) deliver(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, c.config.Method, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain response body to reuse connection
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &StatusError{Code: resp.StatusCode}
	}
	return resp.StatusCode, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	switch c.config.AuthType {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	case AuthAPIKey:
		req.Header.Set("X-API-Key", c.config.AuthToken)
	}
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
