package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

// AzureContentType is stored on every blob regardless of the payload
const AzureContentType = "application/pdf"

// AzureUploader implements the Uploader interface for SAS-authorized block blobs
type AzureUploader struct {
	objectName    string
	containerName string
	client        *container.Client
}

// NewAzureUploader creates a new AzureUploader bound to objectName
func NewAzureUploader(objectName string) *AzureUploader {
	return &AzureUploader{objectName: objectName}
}

// Name returns the provider name
func (a *AzureUploader) Name() string {
	return "azure"
}

// Configure sets up the container client from the storage account, container and SAS token
func (a *AzureUploader) Configure(config map[string]any) error {
	accountName, ok := getStringValue(config, "account_name")
	if !ok {
		return fmt.Errorf("azure: account_name is required")
	}

	containerName, ok := getStringValue(config, "container_name")
	if !ok {
		return fmt.Errorf("azure: container_name is required")
	}

	token, ok := getStringValue(config, "token")
	if !ok {
		return fmt.Errorf("azure: token is required")
	}
	token = strings.TrimPrefix(token, "?")

	serviceURL := getStringValueWithDefault(config, "service_url",
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName))
	serviceURL = strings.TrimRight(serviceURL, "/")

	// One attempt per upload; the SDK would otherwise retry transient failures.
	options := &container.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: -1},
		},
	}

	containerURL := fmt.Sprintf("%s/%s?%s", serviceURL, containerName, token)
	client, err := container.NewClientWithNoCredential(containerURL, options)
	if err != nil {
		return fmt.Errorf("azure: failed to create client: %w", err)
	}

	a.containerName = containerName
	a.client = client
	return nil
}

// Upload creates or overwrites the block blob with the file contents
func (a *AzureUploader) Upload(ctx context.Context, file File) Result {
	if a.client == nil {
		return failure(fmt.Errorf("azure: uploader not configured"))
	}

	data, err := io.ReadAll(file.Body)
	if err != nil {
		return failure(fmt.Errorf("azure: failed to read %s: %w", file.Name, err))
	}

	_, err = a.client.NewBlockBlobClient(a.objectName).Upload(ctx,
		streaming.NopCloser(bytes.NewReader(data)),
		&blockblob.UploadOptions{
			HTTPHeaders: &blob.HTTPHeaders{
				BlobContentType: to.Ptr(AzureContentType),
			},
			Metadata: map[string]*string{
				"filename": to.Ptr(Escape(file.Name)),
			},
		})
	if err != nil {
		return failure(fmt.Errorf("azure: failed to upload %s to container %s: %w", a.objectName, a.containerName, err))
	}

	return success(a.objectName)
}

// DownloadURL returns the SAS-signed url of a stored blob. No request is made.
func (a *AzureUploader) DownloadURL(objectName string) (string, error) {
	if a.client == nil {
		return "", fmt.Errorf("azure: uploader not configured")
	}
	if objectName == "" {
		return "", fmt.Errorf("azure: object name is required")
	}
	return a.client.NewBlobClient(objectName).URL(), nil
}
