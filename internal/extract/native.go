// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/litreview/pkg/types"
)

// Native extracts text in-process with a pure-Go PDF reader. It needs no
// service but recovers less structure than GROBID: sections come from
// heading-like lines and the bibliography from numbered entries.
type Native struct{}

// NewNative returns the in-process backend.
func NewNative() *Native { return &Native{} }

// Name implements Extractor.
func (n *Native) Name() string { return string(types.BackendNative) }

// Extract implements Extractor.
func (n *Native) Extract(ctx context.Context, paperID, path string) (*types.PaperRecord, error) {
	if _, err := preflight(path); err != nil {
		return nil, err
	}

	text, err := readPDFText(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctxFailure(ctx, path)
		}
		return nil, fail(types.FailureUnreadable, path, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fail(types.FailureEmpty, path, ErrNoText)
	}

	rec := parsePlain(text)
	rec.ID = paperID
	rec.SourcePath = path
	rec.Backend = n.Name()
	return rec, nil
}

// readPDFText returns the plain text of every page. The reader panics on
// some malformed inputs; those surface as errors.
func readPDFText(ctx context.Context, path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
