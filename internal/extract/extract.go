// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns PDF files into PaperRecords. The primary backend is
// a GROBID service; a native text extractor and a containerized markitdown
// converter serve as alternatives. Backends compose through WithFallback
// and WithCache.
package extract

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// Sentinel errors wrapped inside a Failure.
var (
	// ErrInvalidPDF reports a file that is not a structurally valid PDF.
	ErrInvalidPDF = errors.New("not a valid PDF")

	// ErrNoText reports a document from which no text could be recovered.
	ErrNoText = errors.New("document has no extractable text")

	// ErrService reports a GROBID service that could not be reached or
	// answered with an unexpected status.
	ErrService = errors.New("extraction service error")
)

// Extractor turns one PDF into a PaperRecord. Implementations must be safe
// for concurrent use.
type Extractor interface {
	// Name identifies the backend in logs and cache keys.
	Name() string

	// Extract reads the PDF at path and returns its record with ID set to
	// paperID. Errors are *Failure values.
	Extract(ctx context.Context, paperID, path string) (*types.PaperRecord, error)
}

// Failure is a per-paper extraction error carrying its failure kind.
type Failure struct {
	Kind string
	Path string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Kind, filepath.Base(f.Path), f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

func fail(kind, path string, err error) *Failure {
	return &Failure{Kind: kind, Path: path, Err: err}
}

// Kind classifies an extraction error. Deadline errors are parse timeouts;
// anything else without an explicit kind is an unreadable file.
func Kind(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return types.FailureTimeout
	}
	return types.FailureUnreadable
}

// ctxFailure converts a context error into a timeout failure.
func ctxFailure(ctx context.Context, path string) *Failure {
	return fail(types.FailureTimeout, path, ctx.Err())
}

var idCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// PaperID derives a stable identifier from a PDF file name.
func PaperID(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	id := strings.Trim(idCleanRe.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if id == "" {
		return "paper"
	}
	return id
}

// AssignIDs returns a unique paper ID for each path, index for index,
// adding numeric suffixes when two file names collapse to the same
// identifier. Paths are processed in the order given.
func AssignIDs(paths []string) []string {
	ids := make([]string, len(paths))
	used := make(map[string]bool, len(paths))
	for i, p := range paths {
		base := PaperID(p)
		id := base
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		used[id] = true
		ids[i] = id
	}
	return ids
}

// HashFile returns the hex SHA-256 of a file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// fallback tries a secondary backend when the primary cannot process a
// paper for reasons other than a broken file or a timeout.
type fallback struct {
	primary   Extractor
	secondary Extractor
	log       *slog.Logger
}

// WithFallback returns an Extractor that retries failed papers on
// secondary. Invalid PDFs and timeouts are not retried.
func WithFallback(primary, secondary Extractor, logger *slog.Logger) Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &fallback{primary: primary, secondary: secondary, log: logger}
}

func (f *fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

func (f *fallback) Extract(ctx context.Context, paperID, path string) (*types.PaperRecord, error) {
	rec, err := f.primary.Extract(ctx, paperID, path)
	if err == nil {
		return rec, nil
	}
	if ctx.Err() != nil || errors.Is(err, ErrInvalidPDF) || Kind(err) == types.FailureTimeout {
		return nil, err
	}

	f.log.Warn("primary extractor failed, trying fallback",
		"paper", paperID, "primary", f.primary.Name(), "fallback", f.secondary.Name(), "error", err)
	rec, ferr := f.secondary.Extract(ctx, paperID, path)
	if ferr != nil {
		return nil, ferr
	}
	return rec, nil
}
