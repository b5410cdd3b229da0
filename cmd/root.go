package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zinc-sig/uplink/cmd/config"
	"github.com/zinc-sig/uplink/cmd/helpers"
	"github.com/zinc-sig/uplink/internal/logger"
)

// NewRootCmd builds the command tree with fresh flag state
func NewRootCmd() *cobra.Command {
	common := &config.CommonFlags{}

	rootCmd := &cobra.Command{
		Use:   "uplink",
		Short: "Upload attachments to cloud object storage",
		Long: `Uplink uploads a file to the configured storage provider under a caller-chosen
object name and prints a JSON result describing the outcome.

Supported providers are aws (presigned POST), azure (SAS block blob), minio
(static credentials) and mock. An unknown provider falls back to mock.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if common.EnvFile != "" {
				if err := godotenv.Load(common.EnvFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", common.EnvFile, err)
				}
			}
			switch {
			case common.Verbose:
				logger.SetVerbose(true)
			case common.LogLevel != "":
				logger.SetLevel(common.LogLevel)
			default:
				logger.SetVerbose(false)
			}
			return nil
		},
	}

	helpers.SetupCommonFlags(rootCmd, common)

	rootCmd.AddCommand(newUploadCmd(common))
	rootCmd.AddCommand(newDownloadURLCmd(common))

	return rootCmd
}

func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
