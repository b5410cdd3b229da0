package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioUploader implements the Uploader interface for MinIO/S3 storage with static credentials
type MinioUploader struct {
	client     *minio.Client
	objectName string
	bucket     string
	prefix     string
}

// NewMinioUploader creates a new MinioUploader bound to objectName
func NewMinioUploader(objectName string) *MinioUploader {
	return &MinioUploader{objectName: objectName}
}

// Name returns the provider name
func (m *MinioUploader) Name() string {
	return "minio"
}

// Configure sets up the MinIO client with the given configuration.
// No request is made; a missing bucket surfaces on Upload.
func (m *MinioUploader) Configure(config map[string]any) error {
	rawEndpoint, ok := getStringValue(config, "endpoint")
	if !ok {
		return fmt.Errorf("minio: endpoint is required")
	}

	accessKey, ok := getStringValue(config, "access_key")
	if !ok {
		return fmt.Errorf("minio: access_key is required")
	}

	secretKey, ok := getStringValue(config, "secret_key")
	if !ok {
		return fmt.Errorf("minio: secret_key is required")
	}

	bucket, ok := getStringValue(config, "bucket")
	if !ok {
		return fmt.Errorf("minio: bucket is required")
	}

	// Optional configuration with defaults
	secure := getBoolValue(config, "secure", true)
	region := getStringValueWithDefault(config, "region", "us-east-1")
	prefix := getStringValueWithDefault(config, "prefix", "")

	endpoint, secure, err := parseEndpoint(rawEndpoint, secure)
	if err != nil {
		return err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:      credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:     secure,
		Region:     region,
		MaxRetries: 1,
	})
	if err != nil {
		return fmt.Errorf("minio: failed to create client: %w", err)
	}

	m.client = client
	m.bucket = bucket
	m.prefix = prefix
	return nil
}

// parseEndpoint strips an http:// or https:// scheme, which then decides secure
func parseEndpoint(endpoint string, secure bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, secure, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("minio: invalid endpoint URL %q", endpoint)
	}

	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("minio: invalid endpoint URL %q: unsupported scheme %s", endpoint, u.Scheme)
	}
}

// ObjectKey returns the key the bound object name is stored under
func (m *MinioUploader) ObjectKey() string {
	if m.prefix == "" {
		return m.objectName
	}
	return path.Join(m.prefix, m.objectName)
}

// Upload puts the file contents into the bucket
func (m *MinioUploader) Upload(ctx context.Context, file File) Result {
	if m.client == nil {
		return failure(fmt.Errorf("minio: uploader not configured"))
	}

	data, err := io.ReadAll(file.Body)
	if err != nil {
		return failure(fmt.Errorf("minio: failed to read %s: %w", file.Name, err))
	}

	objectName := m.ObjectKey()
	_, err = m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mimetype.Detect(data).String(),
		UserMetadata: map[string]string{
			"filename": Escape(file.Name),
		},
	})
	if err != nil {
		return failure(fmt.Errorf("minio: failed to upload to %s: %w", objectName, err))
	}

	return success(m.objectName)
}
