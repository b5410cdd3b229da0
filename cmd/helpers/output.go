package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/zinc-sig/uplink/internal/logger"
	"github.com/zinc-sig/uplink/internal/output"
	"github.com/zinc-sig/uplink/internal/webhook"
)

// OutputJSON marshals and prints the result as a single JSON line
func OutputJSON(w io.Writer, result *output.Result) error {
	jsonOutput, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonOutput))
	return err
}

// OutputJSONAndWebhook notifies the webhook when configured, then prints the result.
// A failed notification is recorded on the result and never fails the command.
func OutputJSONAndWebhook(ctx context.Context, w io.Writer, result *output.Result, webhookConfig *webhook.Config, retryConfig *webhook.RetryConfig) error {
	if webhookConfig != nil && webhookConfig.URL != "" {
		client := webhook.NewClient(webhookConfig, retryConfig, logger.Log)

		logger.Log.Debug().Str("url", webhookConfig.URL).Msg("sending webhook")

		if err := client.Notify(ctx, result); err != nil {
			logger.Log.Error().Err(err).Msg("webhook failed")
			result.WebhookSent = false
			result.WebhookError = err.Error()
		} else {
			result.WebhookSent = true
		}
	}

	return OutputJSON(w, result)
}
