package upload

import (
	"fmt"
	"strings"
)

// MockProviderName is the selector the factory falls back to
const MockProviderName = "mock"

// ProviderFactory creates a new uploader bound to objectName
type ProviderFactory func(objectName string) Uploader

// Registry holds all available upload providers
var Registry = make(map[string]ProviderFactory)

// RegisterProvider registers a new upload provider
func RegisterProvider(name string, factory ProviderFactory) {
	Registry[normalizeSelector(name)] = factory
}

// NewUploader creates and configures the uploader registered under selector.
// An empty or unknown selector silently yields the mock uploader. An error is
// only returned when a known provider rejects its configuration or is given
// no object name.
func NewUploader(selector string, config map[string]any, objectName string) (Uploader, error) {
	factory, ok := Registry[normalizeSelector(selector)]
	if !ok {
		factory = Registry[MockProviderName]
	}

	uploader := factory(objectName)
	if uploader.Name() != MockProviderName && strings.TrimSpace(objectName) == "" {
		return nil, fmt.Errorf("failed to configure %s uploader: object name is required", uploader.Name())
	}
	if err := uploader.Configure(config); err != nil {
		return nil, fmt.Errorf("failed to configure %s uploader: %w", uploader.Name(), err)
	}
	return uploader, nil
}

// IsRegistered reports whether selector names a registered provider
func IsRegistered(selector string) bool {
	_, ok := Registry[normalizeSelector(selector)]
	return ok
}

func normalizeSelector(selector string) string {
	return strings.ToLower(strings.TrimSpace(selector))
}

// init registers all built-in providers
func init() {
	RegisterProvider(MockProviderName, func(objectName string) Uploader {
		return NewMockUploader(objectName)
	})
	RegisterProvider("aws", func(objectName string) Uploader {
		return NewAwsUploader(objectName)
	})
	RegisterProvider("azure", func(objectName string) Uploader {
		return NewAzureUploader(objectName)
	})
	RegisterProvider("minio", func(objectName string) Uploader {
		return NewMinioUploader(objectName)
	})
}
