package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/zinc-sig/uplink/internal/output"
)

// Client posts upload results to the application callback
type Client struct {
	httpClient  *http.Client
	config      *Config
	retryConfig *RetryConfig
	log         zerolog.Logger
}

// NewClient creates a new webhook client
func NewClient(config *Config, retryConfig *RetryConfig, log zerolog.Logger) *Client {
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
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // Per-request timeout
		},
		config:      config,
		retryConfig: retryConfig,
		log:         log.With().Str("component", "webhook").Str("url", config.URL).Logger(),
	}
}

// Notify sends the result to the callback, retrying retryable failures.
// The local-only webhook fields are stripped from the payload.
func (c *Client) Notify(ctx context.Context, result *output.Result) error {
	payload := *result
	payload.WebhookSent = false
	payload.WebhookError = ""

	body, err := json.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(attempt, c.retryConfig)
			c.log.Debug().
				Int("attempt", attempt).
				Int("max_retries", c.retryConfig.MaxRetries).
				Dur("delay", delay).
				Msg("retrying webhook")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("webhook timeout after %d attempts: %w", attempt, ctx.Err())
			}
		}

		statusCode, err := c.send(ctx, body)
		if err == nil && statusCode >= 200 && statusCode < 300 {
			c.log.Debug().Int("status", statusCode).Msg("webhook delivered")
			return nil
		}

		if err != nil {
			lastErr = fmt.Errorf("attempt %d failed: %w", attempt+1, err)
		} else {
			lastErr = fmt.Errorf("attempt %d failed with status %d", attempt+1, statusCode)
		}

		if statusCode > 0 && !isRetryableStatus(statusCode) {
			c.log.Debug().Int("status", statusCode).Msg("non-retryable webhook status, giving up")
			return lastErr
		}
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", c.retryConfig.MaxRetries+1, lastErr)
}

func (c *Client) send(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, c.config.Method, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	switch c.config.AuthType {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	case "api-key":
		req.Header.Set("X-API-Key", c.config.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain response body to reuse connection
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
