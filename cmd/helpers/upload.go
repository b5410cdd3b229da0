package helpers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zinc-sig/uplink/cmd/config"
	"github.com/zinc-sig/uplink/internal/logger"
	"github.com/zinc-sig/uplink/internal/output"
	"github.com/zinc-sig/uplink/internal/settings"
	"github.com/zinc-sig/uplink/internal/upload"
)

// Environment variables consulted when flags and config sources leave a value unset
const (
	ProviderEnv      = "CLOUD_PROVIDER"
	AzureAccountEnv  = "AZURE_ACCOUNT_NAME"
	ContainerNameEnv = "AZURE_CONTAINER_NAME"
)

// ResolveProvider returns the provider selector from the flag or CLOUD_PROVIDER
func ResolveProvider(cfg *config.UploadConfig) string {
	if cfg.Provider != "" {
		return cfg.Provider
	}
	return os.Getenv(ProviderEnv)
}

// BuildUploadConfig builds upload configuration from all sources.
// Values are kept verbatim since signed descriptor fields must not be rewritten.
func BuildUploadConfig(cfg *config.UploadConfig, provider string) (map[string]any, error) {
	uploadConf, err := settings.BuildRaw(
		settings.DefaultPrefix,
		cfg.Config,
		cfg.ConfigKV,
		cfg.ConfigFile,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}

	if strings.EqualFold(strings.TrimSpace(provider), "azure") {
		fillFromEnv(uploadConf, "account_name", AzureAccountEnv)
		fillFromEnv(uploadConf, "container_name", ContainerNameEnv)
	}

	return uploadConf, nil
}

func fillFromEnv(conf map[string]any, key, env string) {
	if _, ok := conf[key]; ok {
		return
	}
	if val := os.Getenv(env); val != "" {
		conf[key] = val
	}
}

// SetupUploader resolves the provider, builds its configuration and creates the uploader
func SetupUploader(cfg *config.UploadConfig, objectName string) (upload.Uploader, map[string]any, error) {
	provider := ResolveProvider(cfg)
	if provider != "" && !upload.IsRegistered(provider) {
		logger.Log.Warn().Str("provider", provider).Msg("unknown provider, falling back to mock")
	}

	uploadConf, err := BuildUploadConfig(cfg, provider)
	if err != nil {
		return nil, nil, err
	}

	uploader, err := upload.NewUploader(provider, uploadConf, objectName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create uploader: %w", err)
	}

	return uploader, uploadConf, nil
}

// UploadFile opens localPath and hands it to the uploader.
// Failing to open the file is reported the same way as a failed upload.
func UploadFile(ctx context.Context, uploader upload.Uploader, localPath, filename, objectName string) *output.Result {
	if filename == "" {
		filename = filepath.Base(localPath)
	}

	log := logger.Log.With().
		Str("provider", uploader.Name()).
		Str("file", localPath).
		Str("object_name", objectName).
		Logger()

	file, err := os.Open(localPath)
	if err != nil {
		res := upload.Result{Err: fmt.Errorf("failed to open %s for upload: %w", localPath, err)}
		log.Error().Err(res.Err).Msg("upload failed")
		return output.FromUpload(uploader.Name(), localPath, objectName, 0, 0, res)
	}
	defer func() { _ = file.Close() }()

	var size int64
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}

	log.Debug().Int64("size", size).Msg("starting upload")

	start := time.Now()
	res := uploader.Upload(ctx, upload.File{Name: filename, Body: file})
	elapsed := time.Since(start).Milliseconds()

	if res.OK {
		log.Info().Int64("upload_time_ms", elapsed).Msg("uploaded")
	} else {
		log.Error().Err(res.Err).Int64("upload_time_ms", elapsed).Msg("upload failed")
	}

	return output.FromUpload(uploader.Name(), localPath, objectName, size, elapsed, res)
}

// PrintUploadInfo prints upload configuration in verbose/dry-run mode with secrets masked
func PrintUploadInfo(w io.Writer, uploader upload.Uploader, conf map[string]any, localPath, objectName string, dryRun bool) {
	header := "Upload Configuration"
	if dryRun {
		header = "Upload Configuration (DRY RUN)"
	}

	_, _ = fmt.Fprintln(w, "========================================")
	_, _ = fmt.Fprintln(w, header)
	_, _ = fmt.Fprintln(w, "========================================")
	_, _ = fmt.Fprintf(w, "Provider:       %s\n", uploader.Name())
	_, _ = fmt.Fprintf(w, "File:           %s\n", localPath)
	_, _ = fmt.Fprintf(w, "Object Name:    %s\n", objectName)

	masked := settings.Mask(conf)
	for _, key := range settings.Keys(masked) {
		_, _ = fmt.Fprintf(w, "  %-14s %v\n", key+":", masked[key])
	}

	_, _ = fmt.Fprintln(w, "----------------------------------------")
}
