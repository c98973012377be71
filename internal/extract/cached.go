// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"log/slog"

	"github.com/pdiddy/litreview/pkg/types"
)

// Cache stores extracted records keyed by backend and file content hash.
// Implementations live in internal/cache.
type Cache interface {
	Get(ctx context.Context, key string) (*types.PaperRecord, bool, error)
	Put(ctx context.Context, key string, rec *types.PaperRecord) error
}

type cached struct {
	inner Extractor
	cache Cache
	log   *slog.Logger
}

// WithCache returns an Extractor that serves records for unchanged files
// from c. Cache errors are logged and never fail a paper.
func WithCache(inner Extractor, c Cache, logger *slog.Logger) Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &cached{inner: inner, cache: c, log: logger}
}

func (c *cached) Name() string { return c.inner.Name() }

// CacheKey builds the cache key for a file hash under a backend name.
func CacheKey(backend, hash string) string {
	return backend + ":" + hash
}

func (c *cached) Extract(ctx context.Context, paperID, path string) (*types.PaperRecord, error) {
	hash, err := HashFile(path)
	if err != nil {
		return nil, fail(types.FailureUnreadable, path, err)
	}
	key := CacheKey(c.inner.Name(), hash)

	rec, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.log.Warn("cache lookup failed", "paper", paperID, "error", err)
	case ok:
		c.log.Debug("cache hit", "paper", paperID, "hash", hash)
		rec.ID = paperID
		rec.SourcePath = path
		rec.Hash = hash
		return rec, nil
	}

	rec, err = c.inner.Extract(ctx, paperID, path)
	if err != nil {
		return nil, err
	}
	rec.Hash = hash
	if err := c.cache.Put(ctx, key, rec); err != nil {
		c.log.Warn("cache store failed", "paper", paperID, "error", err)
	}
	return rec, nil
}
