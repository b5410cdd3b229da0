package helpers

import (
	"github.com/spf13/cobra"
	"github.com/zinc-sig/uplink/cmd/config"
)

// SetupUploadFlags adds provider selection and credential flags to a command
func SetupUploadFlags(cmd *cobra.Command, cfg *config.UploadConfig) {
	cmd.Flags().StringVar(&cfg.Provider, "provider", "", "Storage provider: aws, azure, minio or mock (default $"+ProviderEnv+", then mock)")
	cmd.Flags().StringVar(&cfg.Config, "upload-config", "", "Credentials/config as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "upload-config-kv", nil, "Config key=value pairs, dotted keys nest (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "upload-config-file", "", "Path to JSON file containing credentials/config")
}

// SetupContextFlags adds context-related flags to a command
func SetupContextFlags(cmd *cobra.Command, cfg *config.ContextConfig) {
	cmd.Flags().StringVar(&cfg.JSON, "context", "", "Context data as JSON object")
	cmd.Flags().StringArrayVar(&cfg.KV, "context-kv", nil, "Context key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.File, "context-file", "", "Path to JSON file containing context data")
}

// SetupCommonFlags adds persistent flags shared by every command
func SetupCommonFlags(cmd *cobra.Command, flags *config.CommonFlags) {
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging on stderr")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error (ignored with --verbose)")
	cmd.PersistentFlags().BoolVar(&flags.DryRun, "dry-run", false, "Print the resolved configuration without contacting storage")
	cmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", "", "Load environment variables from a dotenv file first")
}

// SetupWebhookFlags adds webhook-related flags to a command
func SetupWebhookFlags(cmd *cobra.Command, cfg *config.WebhookConfig) {
	// Direct configuration flags
	cmd.Flags().StringVar(&cfg.URL, "webhook-url", "", "Callback URL notified with the upload result")
	cmd.Flags().StringVar(&cfg.Method, "webhook-method", "POST", "HTTP method to use: GET, POST, PUT, PATCH, DELETE")
	cmd.Flags().StringVar(&cfg.AuthType, "webhook-auth-type", "none", "Authentication type: none, bearer, api-key")
	cmd.Flags().StringVar(&cfg.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	cmd.Flags().IntVar(&cfg.Retries, "webhook-retries", 3, "Maximum webhook retry attempts (0 = no retries)")
	cmd.Flags().StringVar(&cfg.RetryDelay, "webhook-retry-delay", "1s", "Initial delay between webhook retries")
	cmd.Flags().StringVar(&cfg.Timeout, "webhook-timeout", "30s", "Total timeout for webhook including retries")

	// Alternative configuration methods
	cmd.Flags().StringVar(&cfg.Config, "webhook-config", "", "Webhook configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "webhook-config-kv", nil, "Webhook config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "webhook-config-file", "", "Path to JSON file containing webhook configuration")
}
