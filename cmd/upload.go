package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zinc-sig/uplink/cmd/config"
	"github.com/zinc-sig/uplink/cmd/helpers"
)

func newUploadCmd(common *config.CommonFlags) *cobra.Command {
	var (
		localPath  string
		objectName string
		uploadCfg  config.UploadConfig
		contextCfg config.ContextConfig
		webhookCfg config.WebhookConfig
	)

	uploadCmd := &cobra.Command{
		Use:   "upload --file <path> [flags]",
		Short: "Upload a file and print the result as JSON",
		Long: `Upload a local file to the selected provider under the given object name.

The provider comes from --provider or $CLOUD_PROVIDER. Credentials are layered from
$UPLINK_UPLOAD_CONFIG, --upload-config-file, --upload-config and --upload-config-kv,
later sources overriding earlier ones.

The JSON result is printed even when the upload fails; the exit code is then 1.`,
		Example: `  uplink upload --provider aws --file report.pdf \
    --upload-config '{"url":"https://bucket.s3.amazonaws.com","fields":{"key":"abc"}}'
  uplink upload --provider azure --file report.pdf --object-name report-42.pdf \
    --upload-config-kv account_name=acct --upload-config-kv container_name=docs \
    --upload-config-kv token="$SAS_TOKEN"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if objectName == "" {
				objectName = uuid.NewString()
			}

			uploader, uploadConf, err := helpers.SetupUploader(&uploadCfg, objectName)
			if err != nil {
				return err
			}

			ctxData, err := helpers.BuildContext(&contextCfg)
			if err != nil {
				return err
			}

			webhookConfig, retryConfig, err := helpers.ParseWebhookConfig(&webhookCfg)
			if err != nil {
				return err
			}

			if common.DryRun {
				helpers.PrintUploadInfo(cmd.OutOrStdout(), uploader, uploadConf, localPath, objectName, true)
				helpers.PrintContextInfo(cmd.OutOrStdout(), ctxData, true)
				return nil
			}

			if common.Verbose {
				helpers.PrintUploadInfo(cmd.ErrOrStderr(), uploader, uploadConf, localPath, objectName, false)
			}

			result := helpers.UploadFile(cmd.Context(), uploader, localPath, "", objectName)
			if ctxData != nil {
				result.Context = ctxData
			}

			if err := helpers.OutputJSONAndWebhook(cmd.Context(), cmd.OutOrStdout(), result, webhookConfig, retryConfig); err != nil {
				return err
			}

			if !result.OK {
				return fmt.Errorf("upload of %s failed: %s", localPath, result.Error)
			}
			return nil
		},
	}

	uploadCmd.Flags().StringVarP(&localPath, "file", "f", "", "Local file to upload (required)")
	uploadCmd.Flags().StringVar(&objectName, "object-name", "", "Object name to store the file under (default random UUID)")
	_ = uploadCmd.MarkFlagRequired("file")

	helpers.SetupUploadFlags(uploadCmd, &uploadCfg)
	helpers.SetupContextFlags(uploadCmd, &contextCfg)
	helpers.SetupWebhookFlags(uploadCmd, &webhookCfg)

	return uploadCmd
}
