// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: minio-access-key, minio-secret-key, redis-password, crossref-mailto.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// Key file names.
const (
	MinioAccessKey = "minio-access-key"
	MinioSecretKey = "minio-secret-key"
	RedisPassword  = "redis-password"
	CrossRefMailto = "crossref-mailto"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply copies secrets into cfg for every credential that is still empty.
// Values set through the config file or environment win.
func Apply(secrets map[string]string, cfg *types.Config) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = secrets[key]
		}
	}
	fill(&cfg.Output.Minio.AccessKey, MinioAccessKey)
	fill(&cfg.Output.Minio.SecretKey, MinioSecretKey)
	fill(&cfg.Extraction.Cache.RedisPassword, RedisPassword)
	fill(&cfg.Enrich.Mailto, CrossRefMailto)
}
