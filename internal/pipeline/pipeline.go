// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a review: it extracts and normalizes papers in
// parallel, then builds the corpus snapshot, aggregates topic signals,
// and assembles the analytical record on a single goroutine.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/litreview/internal/aggregate"
	"github.com/pdiddy/litreview/internal/extract"
	"github.com/pdiddy/litreview/internal/normalize"
	"github.com/pdiddy/litreview/internal/record"
	"github.com/pdiddy/litreview/internal/signal"
	"github.com/pdiddy/litreview/pkg/types"
)

// Enricher fills missing metadata of an extracted record.
type Enricher interface {
	Enrich(ctx context.Context, rec *types.PaperRecord) (bool, error)
}

// Options configures a run.
type Options struct {
	Extractor extract.Extractor

	// Enricher is optional.
	Enricher Enricher

	// Workers bounds parallel extraction; values below 1 mean 1.
	Workers int

	// PaperTimeout bounds each extraction; zero disables the limit.
	PaperTimeout time.Duration

	Signals  types.SignalConfig
	Analysis types.AnalysisConfig

	Logger *slog.Logger

	// Progress receives one line per paper and a batch summary. Nil
	// discards them.
	Progress io.Writer
}

// BatchResult holds the outcome of extracting a batch of PDFs.
type BatchResult struct {
	// Papers holds the extracted records ordered by paper id.
	Papers []types.PaperRecord

	// Units holds the normalized units of Papers, in the same order.
	Units []signal.PaperUnits

	// Failures lists excluded papers ordered by paper id.
	Failures []types.PaperFailure

	// Skipped counts malformed segments dropped by the normalizer.
	Skipped int
}

// Total returns the number of PDFs processed.
func (r BatchResult) Total() int {
	return len(r.Papers) + len(r.Failures)
}

// HasFailures reports whether any paper failed.
func (r BatchResult) HasFailures() bool {
	return len(r.Failures) > 0
}

// slot is the private result of one worker.
type slot struct {
	rec     *types.PaperRecord
	units   []types.NormalizedUnit
	skipped int
	failure *types.PaperFailure
}

// ExtractBatch extracts and normalizes every path with at most
// opts.Workers papers in flight. A path given more than once is processed
// once. Per-paper failures are recorded and never abort the batch; only
// cancellation of ctx does.
func ExtractBatch(ctx context.Context, paths []string, opts Options) (BatchResult, error) {
	log := logger(opts)
	w := progress(opts.Progress)
	paths = uniquePaths(paths, log)
	ids := extract.AssignIDs(paths)
	slots := make([]slot, len(paths))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := processPaper(ctx, ids[i], path, opts, log)
			if err != nil {
				return err
			}
			slots[i] = s
			if s.failure != nil {
				fmt.Fprintf(w, "failed:    %s (%s)\n", s.failure.PaperID, s.failure.Kind)
			} else {
				fmt.Fprintf(w, "extracted: %s (%s, %d units)\n", s.rec.ID, s.rec.Backend, len(s.units))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	for _, s := range slots {
		if s.failure != nil {
			result.Failures = append(result.Failures, *s.failure)
			continue
		}
		result.Papers = append(result.Papers, *s.rec)
		result.Units = append(result.Units, signal.PaperUnits{PaperID: s.rec.ID, Units: s.units})
		result.Skipped += s.skipped
	}
	sort.Slice(result.Papers, func(i, j int) bool { return result.Papers[i].ID < result.Papers[j].ID })
	sort.Slice(result.Units, func(i, j int) bool { return result.Units[i].PaperID < result.Units[j].PaperID })
	sort.Slice(result.Failures, func(i, j int) bool { return result.Failures[i].PaperID < result.Failures[j].PaperID })

	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d failed (total: %d)\n",
		len(result.Papers), len(result.Failures), result.Total())
	return result, nil
}

// processPaper runs one paper through extraction, enrichment, and
// normalization. The returned error is non-nil only when ctx is done.
func processPaper(ctx context.Context, id, path string, opts Options, log *slog.Logger) (slot, error) {
	pctx := ctx
	if opts.PaperTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, opts.PaperTimeout)
		defer cancel()
	}

	start := time.Now()
	rec, err := opts.Extractor.Extract(pctx, id, path)
	if err != nil {
		if ctx.Err() != nil {
			return slot{}, ctx.Err()
		}
		kind := extract.Kind(err)
		log.Warn("paper excluded", "paper", id, "kind", kind, "error", err)
		return slot{failure: &types.PaperFailure{PaperID: id, Path: path, Kind: kind, Message: err.Error()}}, nil
	}
	rec.ID = id
	if rec.SourcePath == "" {
		rec.SourcePath = path
	}
	log.Debug("paper extracted", "paper", id, "backend", rec.Backend, "sections", len(rec.Sections), "elapsed", time.Since(start))

	if opts.Enricher != nil {
		changed, err := opts.Enricher.Enrich(ctx, rec)
		switch {
		case err != nil:
			log.Warn("enrichment failed", "paper", id, "error", err)
		case changed:
			log.Debug("paper enriched", "paper", id)
		}
	}

	res := normalize.Normalize(rec)
	return slot{rec: rec, units: res.Units, skipped: res.Skipped}, nil
}

// Analyze runs a full review over paths and returns the record together
// with the batch it was built from. An error is returned when ctx is done,
// the analysis settings are invalid, or the record violates an invariant.
func Analyze(ctx context.Context, paths []string, opts Options) (*types.AnalyticalRecord, BatchResult, error) {
	log := logger(opts)

	batch, err := ExtractBatch(ctx, paths, opts)
	if err != nil {
		return nil, BatchResult{}, err
	}

	sx := signal.NewExtractor(opts.Signals)
	signals, _ := sx.ExtractAll(batch.Units)
	log.Info("signals extracted", "papers", len(batch.Papers), "signals", len(signals))

	agg, err := aggregate.Aggregate(signals, len(batch.Papers), opts.Analysis)
	if err != nil {
		return nil, batch, fmt.Errorf("aggregating signals: %w", err)
	}

	rec, err := record.Build(record.Input{
		Papers:      batch.Papers,
		Aggregation: agg,
		Diagnostics: types.Diagnostics{
			Submitted:       batch.Total(),
			Failures:        batch.Failures,
			SkippedSegments: batch.Skipped,
		},
	})
	if err != nil {
		return nil, batch, fmt.Errorf("building record: %w", err)
	}
	for _, warn := range rec.Diagnostics.Warnings {
		log.Warn(warn)
	}
	return rec, batch, nil
}

// uniquePaths drops repeated paths, keeping the first occurrence.
func uniquePaths(paths []string, log *slog.Logger) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		key := filepath.Clean(p)
		if seen[key] {
			log.Warn("duplicate input ignored", "path", p)
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func logger(opts Options) *slog.Logger {
	if opts.Logger == nil {
		return slog.Default().With("stage", "pipeline")
	}
	return opts.Logger.With("stage", "pipeline")
}

// lockedWriter serializes progress lines written by concurrent workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func progress(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return &lockedWriter{w: w}
}
