package helpers

import (
	"fmt"
	"time"

	"github.com/zinc-sig/uplink/cmd/config"
	"github.com/zinc-sig/uplink/internal/settings"
	"github.com/zinc-sig/uplink/internal/webhook"
)

// WebhookPrefix is the environment prefix for webhook configuration
const WebhookPrefix = "UPLINK_WEBHOOK"

// BuildWebhookConfig builds webhook configuration from all sources.
// Precedence: env < file < json < kv < direct flags
func BuildWebhookConfig(cfg *config.WebhookConfig) (map[string]any, error) {
	webhookConf, err := settings.Build(
		WebhookPrefix,
		cfg.Config,
		cfg.ConfigKV,
		cfg.ConfigFile,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}

	// Explicit flag values win when they differ from the flag defaults
	if cfg.URL != "" {
		webhookConf["url"] = cfg.URL
	}
	if cfg.Method != "" && cfg.Method != "POST" {
		webhookConf["method"] = cfg.Method
	}
	if cfg.AuthType != "" && cfg.AuthType != "none" {
		webhookConf["auth_type"] = cfg.AuthType
	}
	if cfg.AuthToken != "" {
		webhookConf["auth_token"] = cfg.AuthToken
	}
	if cfg.Timeout != "" && cfg.Timeout != "30s" {
		webhookConf["timeout"] = cfg.Timeout
	}
	if cfg.Retries != 3 {
		webhookConf["retries"] = cfg.Retries
	}
	if cfg.RetryDelay != "" && cfg.RetryDelay != "1s" {
		webhookConf["retry_delay"] = cfg.RetryDelay
	}

	return webhookConf, nil
}

// ParseWebhookConfig converts the built webhook config map to webhook structures.
// Both results are nil when no URL is configured.
func ParseWebhookConfig(cfg *config.WebhookConfig) (*webhook.Config, *webhook.RetryConfig, error) {
	configMap, err := BuildWebhookConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	url, _ := configMap["url"].(string)
	if url == "" {
		return nil, nil, nil
	}

	timeout, err := durationValue(configMap, "timeout", 30*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook timeout duration: %w", err)
	}

	retryDelay, err := durationValue(configMap, "retry_delay", 1*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook retry delay: %w", err)
	}

	method, _ := configMap["method"].(string)
	if method == "" {
		method = "POST"
	}

	authType, _ := configMap["auth_type"].(string)
	if authType == "" {
		authType = "none"
	}
	authToken, _ := configMap["auth_token"].(string)

	// JSON numbers arrive as float64, kv and flags as int
	maxRetries := 3
	switch r := configMap["retries"].(type) {
	case int:
		maxRetries = r
	case float64:
		maxRetries = int(r)
	}

	var headers map[string]string
	if raw, ok := configMap["headers"].(map[string]any); ok {
		headers = make(map[string]string, len(raw))
		for k, v := range raw {
			headers[k] = fmt.Sprint(v)
		}
	}

	webhookConfig := &webhook.Config{
		URL:       url,
		Method:    method,
		Headers:   headers,
		Timeout:   timeout,
		AuthType:  authType,
		AuthToken: authToken,
	}

	retryConfig := &webhook.RetryConfig{
		MaxRetries:   maxRetries,
		InitialDelay: retryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	return webhookConfig, retryConfig, nil
}

func durationValue(configMap map[string]any, key string, defaultValue time.Duration) (time.Duration, error) {
	raw, ok := configMap[key].(string)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(raw)
}
