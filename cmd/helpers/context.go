package helpers

import (
	"fmt"

	"github.com/zinc-sig/uplink/cmd/config"
	"github.com/zinc-sig/uplink/internal/settings"
)

// BuildContext builds caller context data from the context flags.
// The environment is not consulted. An empty result is returned as nil.
func BuildContext(cfg *config.ContextConfig) (map[string]any, error) {
	ctxData, err := settings.Build("", cfg.JSON, cfg.KV, cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to build context: %w", err)
	}
	if len(ctxData) == 0 {
		return nil, nil
	}
	return ctxData, nil
}
