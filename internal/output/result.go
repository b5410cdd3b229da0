package output

import "github.com/zinc-sig/uplink/internal/upload"

type Result struct {
	Provider   string `json:"provider"`
	File       string `json:"file"`
	ObjectName string `json:"object_name"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	Size       int64  `json:"size"`
	UploadTime int64  `json:"upload_time"` // in milliseconds
	Context    any    `json:"context,omitempty"`

	// Webhook status (only in local output, not sent to webhook)
	WebhookSent  bool   `json:"webhook_sent,omitempty"`
	WebhookError string `json:"webhook_error,omitempty"`
}

// FromUpload converts an upload outcome into the printed result.
// ObjectName is the requested name, so failed uploads still say what was attempted.
func FromUpload(provider, file, objectName string, size, uploadTime int64, res upload.Result) *Result {
	result := &Result{
		Provider:   provider,
		File:       file,
		ObjectName: objectName,
		OK:         res.OK,
		Size:       size,
		UploadTime: uploadTime,
	}
	if res.OK && res.ObjectName != "" {
		result.ObjectName = res.ObjectName
	}
	if res.Err != nil {
		result.Error = res.Err.Error()
	}
	return result
}
