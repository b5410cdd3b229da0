package upload

import (
	"context"
	"io"
)

// File is a payload handed to an uploader together with its original filename
type File struct {
	Name string
	Body io.Reader
}

// Result is the outcome of a single upload.
// ObjectName is only set when OK is true; Err is only set when OK is false.
type Result struct {
	OK         bool
	ObjectName string
	Err        error
}

func success(objectName string) Result {
	return Result{OK: true, ObjectName: objectName}
}

func failure(err error) Result {
	return Result{Err: err}
}

// Uploader defines the interface for file upload providers
type Uploader interface {
	// Upload sends the file to the backend under the object name bound at construction.
	// Backend, transport and read failures are reported through the Result.
	Upload(ctx context.Context, file File) Result

	// Configure sets up the uploader with the given credentials and settings
	Configure(config map[string]any) error

	// Name returns the provider name
	Name() string
}
