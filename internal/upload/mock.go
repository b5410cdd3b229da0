package upload

import "context"

// MockUploader is a no-op uploader for tests and local development
type MockUploader struct {
	objectName string
}

// NewMockUploader creates a new MockUploader bound to objectName
func NewMockUploader(objectName string) *MockUploader {
	return &MockUploader{objectName: objectName}
}

// Name returns the provider name
func (m *MockUploader) Name() string {
	return MockProviderName
}

// Configure accepts any configuration
func (m *MockUploader) Configure(config map[string]any) error {
	return nil
}

// Upload reports success without touching the file
func (m *MockUploader) Upload(ctx context.Context, file File) Result {
	return success(m.objectName)
}
