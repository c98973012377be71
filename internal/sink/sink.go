// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink stores rendered report files: in a local directory, in a
// MinIO bucket, or both.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives report files by name.
type Sink interface {
	// Write stores data under name, replacing any previous content.
	Write(ctx context.Context, name string, data []byte) error

	// Location describes where files end up, for progress output.
	Location() string
}

// Dir writes files into a local directory.
type Dir struct {
	path string
}

// NewDir returns a Sink writing into path, creating it on first write.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

func (d *Dir) Location() string { return d.path }

// Write writes data to a temporary file and renames it into place so a
// partially written report never replaces a complete one.
func (d *Dir) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	dst := filepath.Join(d.path, name)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

type multi []Sink

// Multi returns a Sink that writes every file to each of sinks in order.
// All sinks are attempted; their errors are joined.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) Write(ctx context.Context, name string, data []byte) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, name, data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Location(), err))
		}
	}
	return errors.Join(errs...)
}

func (m multi) Location() string {
	locs := make([]string, len(m))
	for i, s := range m {
		locs[i] = s.Location()
	}
	return strings.Join(locs, ", ")
}

var contentTypes = map[string]string{
	".json": "application/json",
	".md":   "text/markdown; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".yaml": "application/yaml",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ContentType returns the MIME type stored with a report file.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
