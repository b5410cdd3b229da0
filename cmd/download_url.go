package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zinc-sig/uplink/cmd/config"
	"github.com/zinc-sig/uplink/cmd/helpers"
	"github.com/zinc-sig/uplink/internal/upload"
)

func newDownloadURLCmd(common *config.CommonFlags) *cobra.Command {
	var (
		objectName string
		uploadCfg  config.UploadConfig
	)

	downloadURLCmd := &cobra.Command{
		Use:   "download-url --object-name <name> [flags]",
		Short: "Print the signed download URL of a stored blob",
		Long: `Print the SAS-signed URL of a blob in the configured Azure container.
No request is made to the storage account. Only the azure provider is supported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := helpers.ResolveProvider(&uploadCfg)
			if !strings.EqualFold(strings.TrimSpace(provider), "azure") {
				return fmt.Errorf("download-url is only supported by the azure provider, got %q", provider)
			}

			uploader, uploadConf, err := helpers.SetupUploader(&uploadCfg, objectName)
			if err != nil {
				return err
			}

			if common.DryRun {
				helpers.PrintUploadInfo(cmd.OutOrStdout(), uploader, uploadConf, "", objectName, true)
				return nil
			}

			azure, ok := uploader.(*upload.AzureUploader)
			if !ok {
				return fmt.Errorf("provider %s cannot sign download urls", uploader.Name())
			}

			url, err := azure.DownloadURL(objectName)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), url)
			return err
		},
	}

	downloadURLCmd.Flags().StringVar(&objectName, "object-name", "", "Name of the stored blob (required)")
	_ = downloadURLCmd.MarkFlagRequired("object-name")

	helpers.SetupUploadFlags(downloadURLCmd, &uploadCfg)

	return downloadURLCmd
}
