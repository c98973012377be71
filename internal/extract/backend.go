// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pdiddy/litreview/internal/container"
	"github.com/pdiddy/litreview/pkg/types"
)

const noFallback = "none"

// New builds the configured extractor chain: the primary backend, an
// optional fallback, and the cache when c is non-nil.
func New(ctx context.Context, cfg types.ExtractionConfig, gcfg types.GROBIDConfig, c Cache, logger *slog.Logger) (Extractor, error) {
	ex, err := backend(ctx, cfg.Backend, gcfg, logger)
	if err != nil {
		return nil, err
	}

	if fb := cfg.Fallback; fb != "" && fb != noFallback && fb != cfg.Backend {
		secondary, err := backend(ctx, fb, gcfg, logger)
		if err != nil {
			return nil, fmt.Errorf("fallback backend: %w", err)
		}
		ex = WithFallback(ex, secondary, logger)
	}

	if c != nil {
		ex = WithCache(ex, c, logger)
	}
	return ex, nil
}

func backend(ctx context.Context, name types.ExtractionBackend, gcfg types.GROBIDConfig, logger *slog.Logger) (Extractor, error) {
	switch name {
	case types.BackendGROBID:
		return NewGROBID(gcfg, logger), nil
	case types.BackendNative:
		return NewNative(), nil
	case types.BackendMarkitdown:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return NewMarkitdown(ctx, rt)
	default:
		return nil, fmt.Errorf("unknown extraction backend %q", name)
	}
}
