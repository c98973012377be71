// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litreview/pkg/types"
)

// fakeExtractor returns canned records or errors per path.
type fakeExtractor struct {
	name  string
	recs  map[string]*types.PaperRecord
	errs  map[string]error
	calls int32
}

func (f *fakeExtractor) Name() string { return f.name }

func (f *fakeExtractor) Extract(_ context.Context, paperID, path string) (*types.PaperRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	r := *f.recs[path]
	r.ID = paperID
	r.Backend = f.name
	return &r, nil
}

// memCache is an in-memory Cache.
type memCache struct {
	data   map[string]types.PaperRecord
	getErr error
	puts   int
}

func newMemCache() *memCache { return &memCache{data: map[string]types.PaperRecord{}} }

func (m *memCache) Get(_ context.Context, key string) (*types.PaperRecord, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	r, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return &r, true, nil
}

func (m *memCache) Put(_ context.Context, key string, rec *types.PaperRecord) error {
	m.puts++
	m.data[key] = *rec
	return nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPaperID(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"papers/Smith 2020 - Micro Robots.pdf", "smith-2020-micro-robots"},
		{"A.B.pdf", "a-b"},
		{"__.pdf", "paper"},
		{"/abs/path/already-clean.pdf", "already-clean"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, PaperID(tt.path))
		})
	}
}

func TestAssignIDs(t *testing.T) {
	paths := []string{"a/x.pdf", "b/x.pdf", "c/X.pdf", "d/x-2.pdf", "a/x.pdf"}
	ids := AssignIDs(paths)
	assert.Equal(t, []string{"x", "x-2", "x-3", "x-2-2", "x-4"}, ids)
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"explicit failure", fail(types.FailureEmpty, "p.pdf", ErrNoText), types.FailureEmpty},
		{"wrapped failure", fmt.Errorf("outer: %w", fail(types.FailureTimeout, "p.pdf", errors.New("slow"))), types.FailureTimeout},
		{"deadline", context.DeadlineExceeded, types.FailureTimeout},
		{"anything else", errors.New("boom"), types.FailureUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestFailureError(t *testing.T) {
	err := fail(types.FailureUnreadable, "/tmp/in/paper.pdf", ErrInvalidPDF)
	assert.Equal(t, "unreadable_file: paper.pdf: not a valid PDF", err.Error())
	assert.ErrorIs(t, err, ErrInvalidPDF)
}

func TestHashFile(t *testing.T) {
	a := writeFile(t, "a.pdf", "same")
	b := writeFile(t, "b.pdf", "same")
	c := writeFile(t, "c.pdf", "different")

	ha, err := HashFile(a)
	require.NoError(t, err)
	hb, err := HashFile(b)
	require.NoError(t, err)
	hc, err := HashFile(c)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)
	assert.Len(t, ha, 64)

	_, err = HashFile(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestWithFallback(t *testing.T) {
	rec := &types.PaperRecord{Title: "Recovered"}

	tests := []struct {
		name          string
		primaryErr    error
		wantSecondary bool
		wantKind      string
	}{
		{
			name:          "service error falls back",
			primaryErr:    fail(types.FailureUnreadable, "p.pdf", ErrService),
			wantSecondary: true,
		},
		{
			name:          "empty document falls back",
			primaryErr:    fail(types.FailureEmpty, "p.pdf", ErrNoText),
			wantSecondary: true,
		},
		{
			name:       "invalid pdf does not fall back",
			primaryErr: fail(types.FailureUnreadable, "p.pdf", ErrInvalidPDF),
			wantKind:   types.FailureUnreadable,
		},
		{
			name:       "timeout does not fall back",
			primaryErr: fail(types.FailureTimeout, "p.pdf", context.DeadlineExceeded),
			wantKind:   types.FailureTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &fakeExtractor{name: "grobid", errs: map[string]error{"p.pdf": tt.primaryErr}}
			secondary := &fakeExtractor{name: "native", recs: map[string]*types.PaperRecord{"p.pdf": rec}}
			ex := WithFallback(primary, secondary, nil)
			assert.Equal(t, "grobid+native", ex.Name())

			got, err := ex.Extract(context.Background(), "p", "p.pdf")
			if tt.wantSecondary {
				require.NoError(t, err)
				assert.Equal(t, "Recovered", got.Title)
				assert.Equal(t, "native", got.Backend)
				assert.Equal(t, int32(1), secondary.calls)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, Kind(err))
			assert.Equal(t, int32(0), secondary.calls)
		})
	}
}

func TestWithCache(t *testing.T) {
	path := writeFile(t, "paper.pdf", "%PDF-1.4 content")
	inner := &fakeExtractor{name: "grobid", recs: map[string]*types.PaperRecord{
		path: {Title: "Cached Paper", Abstract: "Text."},
	}}
	mc := newMemCache()
	ex := WithCache(inner, mc, nil)

	first, err := ex.Extract(context.Background(), "one", path)
	require.NoError(t, err)
	assert.Equal(t, "one", first.ID)
	assert.NotEmpty(t, first.Hash)
	assert.Equal(t, 1, mc.puts)

	second, err := ex.Extract(context.Background(), "two", path)
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.calls, "second extraction is served from the cache")
	assert.Equal(t, "two", second.ID)
	assert.Equal(t, "Cached Paper", second.Title)
	assert.Equal(t, first.Hash, second.Hash)

	_, ok := mc.data[CacheKey("grobid", first.Hash)]
	assert.True(t, ok)
}

func TestWithCacheLookupErrorStillExtracts(t *testing.T) {
	path := writeFile(t, "paper.pdf", "bytes")
	inner := &fakeExtractor{name: "native", recs: map[string]*types.PaperRecord{path: {Title: "T"}}}
	mc := newMemCache()
	mc.getErr = errors.New("cache down")

	rec, err := WithCache(inner, mc, nil).Extract(context.Background(), "p", path)
	require.NoError(t, err)
	assert.Equal(t, "T", rec.Title)
	assert.Equal(t, int32(1), inner.calls)
}

func TestWithCacheMissingFile(t *testing.T) {
	inner := &fakeExtractor{name: "native"}
	_, err := WithCache(inner, newMemCache(), nil).Extract(context.Background(), "p", filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.Equal(t, types.FailureUnreadable, Kind(err))
	assert.Equal(t, int32(0), inner.calls)
}

func TestNewUnknownBackend(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Extraction.Backend = "ocr"
	_, err := New(context.Background(), cfg.Extraction, cfg.GROBID, nil, nil)
	assert.Error(t, err)
}

func TestNewChain(t *testing.T) {
	cfg := types.DefaultConfig()
	ex, err := New(context.Background(), cfg.Extraction, cfg.GROBID, newMemCache(), nil)
	require.NoError(t, err)
	assert.Equal(t, "grobid+native", ex.Name())

	cfg.Extraction.Fallback = "none"
	ex, err = New(context.Background(), cfg.Extraction, cfg.GROBID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "grobid", ex.Name())
}
