// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/pkg/types"
)

const (
	grobidAlivePath    = "/api/isalive"
	grobidFulltextPath = "/api/processFulltextDocument"
	grobidMaxRetries   = 3
	maxErrorBody       = 512
)

// GROBID extracts papers through a GROBID service's fulltext endpoint.
type GROBID struct {
	baseURL     string
	client      *http.Client
	consolidate bool
	delay       time.Duration
	log         *slog.Logger
}

// NewGROBID creates a client for the service at cfg.URL.
func NewGROBID(cfg types.GROBIDConfig, logger *slog.Logger) *GROBID {
	if logger == nil {
		logger = slog.Default()
	}
	return &GROBID{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		client:      &http.Client{Timeout: cfg.Timeout},
		consolidate: cfg.ConsolidateHeader,
		delay:       cfg.RequestDelay,
		log:         logger,
	}
}

// Name implements Extractor.
func (g *GROBID) Name() string { return string(types.BackendGROBID) }

// Alive checks the service's liveness endpoint.
func (g *GROBID) Alive(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+grobidAlivePath, nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode != http.StatusOK || !strings.EqualFold(strings.TrimSpace(string(body)), "true") {
		return fmt.Errorf("%w: %s is not alive (HTTP %d)", ErrService, g.baseURL, resp.StatusCode)
	}
	return nil
}

// WaitAlive polls Alive until it succeeds or ctx ends.
func (g *GROBID) WaitAlive(ctx context.Context, interval time.Duration) error {
	for {
		err := g.Alive(ctx)
		if err == nil {
			return nil
		}
		g.log.Debug("waiting for grobid", "url", g.baseURL, "error", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", g.baseURL, ctx.Err())
		case <-time.After(interval):
		}
	}
}

// Extract implements Extractor.
func (g *GROBID) Extract(ctx context.Context, paperID, path string) (*types.PaperRecord, error) {
	if _, err := preflight(path); err != nil {
		return nil, err
	}

	body, contentType, err := g.form(path)
	if err != nil {
		return nil, fail(types.FailureUnreadable, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+grobidFulltextPath, bytes.NewReader(body))
	if err != nil {
		return nil, fail(types.FailureUnreadable, path, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/xml")

	resp, err := httputil.DoWithRetry(ctx, g.client, req, grobidMaxRetries)
	g.pause(ctx)
	if err != nil {
		var ne net.Error
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return nil, fail(types.FailureTimeout, path, err)
		}
		return nil, fail(types.FailureUnreadable, path, fmt.Errorf("%w: %v", ErrService, err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return nil, fail(types.FailureEmpty, path, ErrNoText)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fail(types.FailureUnreadable, path,
			fmt.Errorf("%w: HTTP %d: %s", ErrService, resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	rec, err := ParseTEI(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctxFailure(ctx, path)
		}
		return nil, fail(types.FailureUnreadable, path, err)
	}
	if !rec.HasText() {
		return nil, fail(types.FailureEmpty, path, ErrNoText)
	}

	rec.ID = paperID
	rec.SourcePath = path
	rec.Backend = g.Name()
	g.log.Debug("grobid extracted paper",
		"paper", paperID, "sections", len(rec.Sections), "references", len(rec.References))
	return rec, nil
}

// form builds the multipart request body carrying the PDF.
func (g *GROBID) form(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("input", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	consolidate := "0"
	if g.consolidate {
		consolidate = "1"
	}
	if err := w.WriteField("consolidateHeader", consolidate); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// pause applies the configured delay between requests.
func (g *GROBID) pause(ctx context.Context) {
	if g.delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(g.delay):
	}
}
