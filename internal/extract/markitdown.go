// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/litreview/internal/container"
	"github.com/pdiddy/litreview/pkg/types"
)

const imageMarkitdown = "markitdown:latest"

// Markitdown extracts papers by piping them through the markitdown
// container image and structuring the Markdown it produces. It depends on
// a container.Runtime (docker or podman) injected at construction time.
type Markitdown struct {
	runtime container.Runtime
}

// NewMarkitdown creates a backend that uses the given container runtime to
// run the markitdown image. It verifies that the image exists locally
// before returning.
func NewMarkitdown(ctx context.Context, rt container.Runtime) (*Markitdown, error) {
	if err := rt.ImageExists(ctx, imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &Markitdown{runtime: rt}, nil
}

// Name implements Extractor.
func (m *Markitdown) Name() string { return string(types.BackendMarkitdown) }

// Extract implements Extractor.
func (m *Markitdown) Extract(ctx context.Context, paperID, path string) (*types.PaperRecord, error) {
	if _, err := preflight(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fail(types.FailureUnreadable, path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, imageMarkitdown, f, &out); err != nil {
		if ctx.Err() != nil {
			return nil, ctxFailure(ctx, path)
		}
		return nil, fail(types.FailureUnreadable, path, fmt.Errorf("converting with markitdown: %w", err))
	}

	md := out.String()
	if strings.TrimSpace(md) == "" {
		return nil, fail(types.FailureEmpty, path, ErrNoText)
	}

	rec := parseMarkdown(md)
	if !rec.HasText() {
		rec.FullText = strings.TrimSpace(md)
	}
	rec.ID = paperID
	rec.SourcePath = path
	rec.Backend = m.Name()
	return rec, nil
}
