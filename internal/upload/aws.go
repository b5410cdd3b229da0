package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"

	"github.com/gabriel-vasile/mimetype"
)

// FilenameMetadataField carries the original filename in a presigned POST
const FilenameMetadataField = "x-amz-meta-filename"

// AwsUploader implements the Uploader interface for presigned POST uploads
type AwsUploader struct {
	httpClient *http.Client
	objectName string
	url        string
	fields     map[string]string
}

// NewAwsUploader creates a new AwsUploader bound to objectName
func NewAwsUploader(objectName string) *AwsUploader {
	return &AwsUploader{
		httpClient: &http.Client{},
		objectName: objectName,
	}
}

// Name returns the provider name
func (a *AwsUploader) Name() string {
	return "aws"
}

// Configure reads the presigned POST descriptor: the form action url and its fixed fields
func (a *AwsUploader) Configure(config map[string]any) error {
	url, ok := getStringValue(config, "url")
	if !ok {
		return fmt.Errorf("aws: url is required")
	}

	fields, ok := getStringMap(config, "fields")
	if !ok {
		return fmt.Errorf("aws: fields is required")
	}

	a.url = url
	a.fields = fields
	return nil
}

// Upload posts the file as multipart form data to the presigned url
func (a *AwsUploader) Upload(ctx context.Context, file File) Result {
	if a.url == "" {
		return failure(fmt.Errorf("aws: uploader not configured"))
	}

	data, err := io.ReadAll(file.Body)
	if err != nil {
		return failure(fmt.Errorf("aws: failed to read %s: %w", file.Name, err))
	}

	body, contentType, err := a.buildForm(file.Name, data)
	if err != nil {
		return failure(fmt.Errorf("aws: failed to build form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, body)
	if err != nil {
		return failure(fmt.Errorf("aws: failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return failure(fmt.Errorf("aws: failed to upload to %s: %w", a.url, err))
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(fmt.Errorf("aws: upload to %s failed with status %d", a.url, resp.StatusCode))
	}

	return success(a.objectName)
}

// buildForm writes the descriptor fields, the filename metadata and finally the
// file part. S3 ignores every field that follows the file.
func (a *AwsUploader) buildForm(filename string, data []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	keys := make([]string, 0, len(a.fields))
	for k := range a.fields {
		if k == FilenameMetadataField || k == "file" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := writer.WriteField(k, a.fields[k]); err != nil {
			return nil, "", err
		}
	}
	if err := writer.WriteField(FilenameMetadataField, filename); err != nil {
		return nil, "", err
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "file",
		"filename": filename,
	}))
	header.Set("Content-Type", mimetype.Detect(data).String())

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
