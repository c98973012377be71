// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores extracted PaperRecords between runs so unchanged
// PDFs are not sent through extraction again. Records are keyed by the
// extraction backend and the SHA-256 of the file.
package cache

import (
	"context"
	"fmt"

	"github.com/pdiddy/litreview/pkg/types"
)

// Store is a record cache. It satisfies extract.Cache.
type Store interface {
	Get(ctx context.Context, key string) (*types.PaperRecord, bool, error)
	Put(ctx context.Context, key string, rec *types.PaperRecord) error
	Close() error
}

// Open returns the store selected by cfg.Backend, or nil when caching is
// disabled.
func Open(ctx context.Context, cfg types.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "", types.CacheNone:
		return nil, nil
	case types.CacheSQLite:
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.CacheRedis:
		r, err := NewRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
