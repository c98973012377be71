// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litreview/internal/container"
	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/pkg/types"
)

// stubPreflight accepts every file so tests need no real PDFs.
func stubPreflight(t *testing.T) {
	t.Helper()
	old := preflight
	preflight = func(string) (int, error) { return 1, nil }
	t.Cleanup(func() { preflight = old })
}

func grobidServer(t *testing.T, fulltext http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(grobidAlivePath, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("true"))
	})
	mux.HandleFunc(grobidFulltextPath, fulltext)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func grobidConfig(url string) types.GROBIDConfig {
	cfg := types.DefaultConfig().GROBID
	cfg.URL = url
	cfg.Timeout = 2 * time.Second
	return cfg
}

func TestGROBIDExtract(t *testing.T) {
	stubPreflight(t)
	path := writeFile(t, "paper.pdf", "%PDF-1.4 payload")

	var gotFile, gotConsolidate string
	ts := grobidServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, _, err := r.FormFile("input")
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		gotFile = string(b)
		gotConsolidate = r.FormValue("consolidateHeader")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(sampleTEI))
	})

	g := NewGROBID(grobidConfig(ts.URL+"/"), nil)
	require.NoError(t, g.Alive(context.Background()))

	rec, err := g.Extract(context.Background(), "doe-2021", path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 payload", gotFile)
	assert.Equal(t, "0", gotConsolidate)
	assert.Equal(t, "doe-2021", rec.ID)
	assert.Equal(t, path, rec.SourcePath)
	assert.Equal(t, "grobid", rec.Backend)
	assert.Equal(t, "Magnetic Microrobots & Drug Delivery", rec.Title)
	assert.Len(t, rec.References, 2)
}

func TestGROBIDConsolidateHeader(t *testing.T) {
	stubPreflight(t)
	path := writeFile(t, "paper.pdf", "%PDF")

	tests := []struct {
		name        string
		consolidate bool
		want        string
	}{
		{name: "default off", want: "0"},
		{name: "on", consolidate: true, want: "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			ts := grobidServer(t, func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseMultipartForm(1<<20))
				got = r.FormValue("consolidateHeader")
				_, _ = w.Write([]byte(sampleTEI))
			})

			cfg := grobidConfig(ts.URL)
			if tt.consolidate {
				cfg.ConsolidateHeader = true
			}
			_, err := NewGROBID(cfg, nil).Extract(context.Background(), "p", path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGROBIDExtractStatuses(t *testing.T) {
	stubPreflight(t)
	path := writeFile(t, "paper.pdf", "%PDF")

	tests := []struct {
		name     string
		status   int
		body     string
		wantKind string
		wantErr  error
	}{
		{name: "no content", status: http.StatusNoContent, wantKind: types.FailureEmpty, wantErr: ErrNoText},
		{name: "server error", status: http.StatusInternalServerError, body: "[BAD_INPUT_DATA]", wantKind: types.FailureUnreadable, wantErr: ErrService},
		{name: "empty TEI", status: http.StatusOK, body: "<TEI/>", wantKind: types.FailureEmpty, wantErr: ErrNoText},
		{name: "not xml", status: http.StatusOK, body: "<TEI><unclosed>", wantKind: types.FailureUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := grobidServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := NewGROBID(grobidConfig(ts.URL), nil).Extract(context.Background(), "p", path)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, Kind(err))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGROBIDRetriesBusyService(t *testing.T) {
	stubPreflight(t)
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = old })

	path := writeFile(t, "paper.pdf", "%PDF-1.4 retry")
	var calls int32
	ts := grobidServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _ = w.Write([]byte(sampleTEI))
	})

	rec, err := NewGROBID(grobidConfig(ts.URL), nil).Extract(context.Background(), "p", path)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.NotEmpty(t, rec.Sections)
}

func TestGROBIDTimeout(t *testing.T) {
	stubPreflight(t)
	path := writeFile(t, "paper.pdf", "%PDF")
	release := make(chan struct{})
	ts := grobidServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewGROBID(grobidConfig(ts.URL), nil).Extract(ctx, "p", path)
	require.Error(t, err)
	assert.Equal(t, types.FailureTimeout, Kind(err))
}

func TestGROBIDRequestDelay(t *testing.T) {
	stubPreflight(t)
	path := writeFile(t, "paper.pdf", "%PDF")
	ts := grobidServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleTEI))
	})

	cfg := grobidConfig(ts.URL)
	cfg.RequestDelay = 30 * time.Millisecond
	start := time.Now()
	_, err := NewGROBID(cfg, nil).Extract(context.Background(), "p", path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), cfg.RequestDelay)
}

func TestGROBIDUnreachable(t *testing.T) {
	stubPreflight(t)
	path := writeFile(t, "paper.pdf", "%PDF")
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	g := NewGROBID(grobidConfig(url), nil)
	assert.ErrorIs(t, g.Alive(context.Background()), ErrService)

	_, err := g.Extract(context.Background(), "p", path)
	require.Error(t, err)
	assert.Equal(t, types.FailureUnreadable, Kind(err))
	assert.ErrorIs(t, err, ErrService)
}

func TestGROBIDNotAlive(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("false"))
	}))
	defer ts.Close()

	g := NewGROBID(grobidConfig(ts.URL), nil)
	assert.ErrorIs(t, g.Alive(context.Background()), ErrService)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, g.WaitAlive(ctx, 5*time.Millisecond), context.DeadlineExceeded)
}

func TestPreflightRejectsNonPDF(t *testing.T) {
	path := writeFile(t, "notes.pdf", "this is plain text, not a PDF")
	_, err := Preflight(path)
	require.Error(t, err)
	assert.Equal(t, types.FailureUnreadable, Kind(err))
	assert.ErrorIs(t, err, ErrInvalidPDF)
}

func TestNativeRejectsNonPDF(t *testing.T) {
	path := writeFile(t, "notes.pdf", "plain text")
	_, err := NewNative().Extract(context.Background(), "notes", path)
	require.Error(t, err)
	assert.Equal(t, types.FailureUnreadable, Kind(err))
}

// fakeRuntime is a container.Runtime that writes canned markdown.
type fakeRuntime struct {
	out      string
	runErr   error
	imageErr error
}

var _ container.Runtime = (*fakeRuntime)(nil)

func (f *fakeRuntime) Name() string                              { return "docker" }
func (f *fakeRuntime) Available(context.Context) bool            { return true }
func (f *fakeRuntime) ImageExists(context.Context, string) error { return f.imageErr }
func (f *fakeRuntime) Pull(context.Context, string) error        { return nil }
func (f *fakeRuntime) Stop(context.Context, string) error        { return nil }

func (f *fakeRuntime) Start(context.Context, string, string, int) error { return nil }

func (f *fakeRuntime) Running(context.Context, string) (bool, error) { return false, nil }

func (f *fakeRuntime) Run(_ context.Context, _ string, stdin io.Reader, stdout io.Writer) error {
	if f.runErr != nil {
		return f.runErr
	}
	_, _ = io.Copy(io.Discard, stdin)
	_, err := io.Copy(stdout, bytes.NewBufferString(f.out))
	return err
}

func TestMarkitdownExtract(t *testing.T) {
	stubPreflight(t)
	path := writeFile(t, "tweezers.pdf", "%PDF")

	m, err := NewMarkitdown(context.Background(), &fakeRuntime{out: markdownPaper})
	require.NoError(t, err)

	rec, err := m.Extract(context.Background(), "tweezers", path)
	require.NoError(t, err)
	assert.Equal(t, "markitdown", rec.Backend)
	assert.Equal(t, "tweezers", rec.ID)
	assert.Equal(t, "Acoustic Tweezers for Cell Sorting", rec.Title)
}

func TestMarkitdownFailures(t *testing.T) {
	stubPreflight(t)
	path := writeFile(t, "p.pdf", "%PDF")

	_, err := NewMarkitdown(context.Background(), &fakeRuntime{imageErr: errors.New("missing")})
	assert.Error(t, err)

	m, err := NewMarkitdown(context.Background(), &fakeRuntime{out: "  \n"})
	require.NoError(t, err)
	_, err = m.Extract(context.Background(), "p", path)
	assert.Equal(t, types.FailureEmpty, Kind(err))

	m, err = NewMarkitdown(context.Background(), &fakeRuntime{runErr: errors.New("exit 1")})
	require.NoError(t, err)
	_, err = m.Extract(context.Background(), "p", path)
	assert.Equal(t, types.FailureUnreadable, Kind(err))
}
