package helpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zinc-sig/uplink/cmd/config"
	"github.com/zinc-sig/uplink/internal/upload"
)

func TestResolveProvider(t *testing.T) {
	t.Setenv(ProviderEnv, "azure")

	if got := ResolveProvider(&config.UploadConfig{Provider: "aws"}); got != "aws" {
		t.Errorf("Expected flag to win, got %s", got)
	}
	if got := ResolveProvider(&config.UploadConfig{}); got != "azure" {
		t.Errorf("Expected %s fallback, got %s", ProviderEnv, got)
	}
}

func TestBuildUploadConfig_AzureEnvironment(t *testing.T) {
	t.Setenv("UPLINK_UPLOAD_CONFIG", "")
	t.Setenv(AzureAccountEnv, "envacct")
	t.Setenv(ContainerNameEnv, "envdocs")

	conf, err := BuildUploadConfig(&config.UploadConfig{
		ConfigKV: []string{"account_name=flagacct"},
	}, "Azure")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if conf["account_name"] != "flagacct" {
		t.Errorf("Expected explicit account_name to win, got %v", conf["account_name"])
	}
	if conf["container_name"] != "envdocs" {
		t.Errorf("Expected container_name from env, got %v", conf["container_name"])
	}

	conf, err = BuildUploadConfig(&config.UploadConfig{}, "aws")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := conf["container_name"]; ok {
		t.Error("Azure variables should only apply to the azure provider")
	}
}

func TestBuildUploadConfig_InvalidJSON(t *testing.T) {
	t.Setenv("UPLINK_UPLOAD_CONFIG", "")

	_, err := BuildUploadConfig(&config.UploadConfig{Config: "{not json"}, "aws")
	if err == nil || !strings.Contains(err.Error(), "failed to build upload config") {
		t.Errorf("Expected build error, got %v", err)
	}
}

func TestUploadFile_OpenFailure(t *testing.T) {
	uploader := upload.NewMockUploader("obj")
	missing := filepath.Join(t.TempDir(), "missing.pdf")

	result := UploadFile(context.Background(), uploader, missing, "", "obj")
	if result.OK {
		t.Fatal("Expected failure for a missing file")
	}
	if result.ObjectName != "obj" || result.Provider != "mock" {
		t.Errorf("Unexpected result: %+v", result)
	}
	if !strings.Contains(result.Error, "failed to open") {
		t.Errorf("Expected open error, got %q", result.Error)
	}
}

func TestSetupUploader_KeepsCredentialSpelling(t *testing.T) {
	t.Setenv("UPLINK_UPLOAD_CONFIG", "")

	fields := make(chan map[string][]string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Expected multipart body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fields <- r.MultipartForm.Value
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "a.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}

	uploader, _, err := SetupUploader(&config.UploadConfig{
		Provider: "aws",
		Config:   `{"fields": {"x-amz-date": 1e5}}`,
		ConfigKV: []string{
			"url=" + server.URL,
			"fields.key=007",
			"fields.acl=1.50",
		},
	}, "007")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result := UploadFile(context.Background(), uploader, path, "", "007")
	if !result.OK {
		t.Fatalf("Expected upload to succeed, got %q", result.Error)
	}

	got := <-fields
	want := map[string]string{"key": "007", "acl": "1.50", "x-amz-date": "1e5"}
	for name, value := range want {
		if len(got[name]) != 1 || got[name][0] != value {
			t.Errorf("Expected field %s=%s, got %v", name, value, got[name])
		}
	}
}

func TestSetupUploader_AzureContainerSpelling(t *testing.T) {
	t.Setenv("UPLINK_UPLOAD_CONFIG", "")
	t.Setenv(AzureAccountEnv, "")
	t.Setenv(ContainerNameEnv, "")

	uploader, _, err := SetupUploader(&config.UploadConfig{
		Provider: "azure",
		ConfigKV: []string{"account_name=acct", "container_name=007", "token=sv=1"},
	}, "obj")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	azure, ok := uploader.(*upload.AzureUploader)
	if !ok {
		t.Fatalf("Expected azure uploader, got %T", uploader)
	}
	url, err := azure.DownloadURL("obj")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if want := "https://acct.blob.core.windows.net/007/obj?sv=1"; url != want {
		t.Errorf("Expected %s, got %s", want, url)
	}
}
