package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/zinc-sig/uplink/internal/output"
)

func TestUploadCommand_WithWebhook(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "report.pdf", "%PDF-1.4")

	payloads := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("Expected bearer auth header, got %q", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read body: %v", err)
		}
		payloads <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	stdout, _, err := executeCommand(t,
		"upload",
		"--file", path,
		"--object-name", "report-42.pdf",
		"--webhook-url", server.URL,
		"--webhook-auth-type", "bearer",
		"--webhook-auth-token", "secret-token",
		"--webhook-retries", "0",
	)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	result := parseResult(t, stdout)
	if !result.WebhookSent {
		t.Errorf("Expected webhook_sent=true, got error %q", result.WebhookError)
	}

	var body []byte
	select {
	case body = <-payloads:
	default:
		t.Fatal("Expected the webhook to be called")
	}

	var payload output.Result
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Failed to unmarshal payload: %v", err)
	}
	if payload.ObjectName != "report-42.pdf" || !payload.OK {
		t.Errorf("Unexpected webhook payload: %+v", payload)
	}
	if strings.Contains(string(body), "webhook_sent") {
		t.Errorf("Webhook payload should not carry webhook status: %s", body)
	}
}

func TestUploadCommand_WebhookFailureDoesNotFailUpload(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "report.pdf", "%PDF-1.4")

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	stdout, _, err := executeCommand(t,
		"upload",
		"--file", path,
		"--webhook-url", server.URL,
		"--webhook-retries", "2",
		"--webhook-retry-delay", "1ms",
	)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	result := parseResult(t, stdout)
	if !result.OK {
		t.Errorf("Expected upload to succeed, got %q", result.Error)
	}
	if result.WebhookSent {
		t.Error("Expected webhook_sent=false")
	}
	if !strings.Contains(result.WebhookError, "status 400") {
		t.Errorf("Expected status 400 in webhook error, got %q", result.WebhookError)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected a single attempt for a non-retryable status, got %d", got)
	}
}

func TestUploadCommand_WebhookRetriesServerErrors(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "report.pdf", "%PDF-1.4")

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	stdout, _, err := executeCommand(t,
		"upload",
		"--file", path,
		"--webhook-config-kv", "url="+server.URL,
		"--webhook-config-kv", "retries=3",
		"--webhook-config-kv", "retry_delay=1ms",
	)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	if result := parseResult(t, stdout); !result.WebhookSent {
		t.Errorf("Expected webhook_sent=true after retries, got error %q", result.WebhookError)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
}
