// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/cache"
	"github.com/pdiddy/litreview/internal/enrich"
	"github.com/pdiddy/litreview/internal/extract"
	"github.com/pdiddy/litreview/internal/pipeline"
	"github.com/pdiddy/litreview/internal/render"
	"github.com/pdiddy/litreview/internal/sink"
	"github.com/pdiddy/litreview/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Analyze a batch of PDFs and write the literature review",
	Long: `Analyze extracts every PDF, normalizes its text, clusters topic signals
across the corpus into research trends, technical innovations, challenges, and
future directions, and writes the report.

Paths may be PDF files or directories of PDFs. With no paths, the configured
input directory (default input/) is used. Papers that cannot be extracted are
excluded and listed in the report diagnostics; the run still succeeds.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("backend", "", "extraction backend: grobid, native, or markitdown")
	analyzeCmd.Flags().String("fallback", "", "backend tried when the primary cannot read a paper, or none")
	analyzeCmd.Flags().Int("workers", 0, "papers extracted in parallel")
	analyzeCmd.Flags().Duration("paper-timeout", 0, "time limit for extracting one paper")
	analyzeCmd.Flags().String("input-dir", "", "directory scanned when no paths are given")
	analyzeCmd.Flags().String("output-dir", "", "directory the reports are written to")
	analyzeCmd.Flags().StringSlice("format", nil, "report formats: markdown, json, html, yaml, xlsx")
	analyzeCmd.Flags().String("title", "", "report title")
	analyzeCmd.Flags().Float64("threshold", 0, "similarity threshold for clustering, in (0, 1]")
	analyzeCmd.Flags().Int("max-clusters", 0, "maximum clusters per dimension (0 keeps the configured value)")
	analyzeCmd.Flags().String("cache", "", "extraction cache: sqlite, redis, or none")
	analyzeCmd.Flags().Bool("crossref", false, "fill missing metadata from CrossRef for papers with a DOI")

	rootCmd.AddCommand(analyzeCmd)
}

// analyzeFlags maps analyze and extract flags to config keys.
var analyzeFlags = map[string]string{
	"backend":       "extraction.backend",
	"fallback":      "extraction.fallback",
	"workers":       "extraction.workers",
	"paper-timeout": "extraction.paper_timeout",
	"input-dir":     "extraction.input_dir",
	"cache":         "extraction.cache.backend",
	"crossref":      "enrich.crossref",
	"output-dir":    "output.dir",
	"format":        "output.formats",
	"title":         "output.title",
	"threshold":     "analysis.similarity_threshold",
	"max-clusters":  "analysis.max_clusters_per_dimension",
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := bindFlags(cmd, analyzeFlags); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Analysis.Validate(); err != nil {
		return err
	}
	if err := render.ValidateFormats(cfg.Output.Formats); err != nil {
		return err
	}

	paths, err := resolveInputs(args, cfg.Extraction.InputDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		slog.Warn("no PDFs found; writing an empty review", "input_dir", cfg.Extraction.InputDir)
	}

	manifest := pipeline.NewManifest(cfg, paths)
	opts, closeFn, err := pipelineOptions(ctx, &cfg, len(paths) > 0)
	if err != nil {
		return err
	}
	defer closeFn()

	rec, _, err := pipeline.Analyze(ctx, paths, opts)
	if err != nil {
		return err
	}

	out, err := outputSink(ctx, cfg.Output, manifest.RunID)
	if err != nil {
		return err
	}
	written, err := pipeline.Publish(ctx, rec, cfg.Output.Formats, render.Options{Title: cfg.Output.Title}, out)
	if err != nil {
		return err
	}

	manifest.Finish(opts.Extractor.Name(), rec.Diagnostics)
	manifest.Outputs = written
	if err := pipeline.WriteManifest(ctx, manifest, out); err != nil {
		return err
	}

	fmt.Printf("\nAnalyzed %d of %d submitted papers. Reports written to %s: %s\n",
		rec.Diagnostics.Analyzed, rec.Diagnostics.Submitted, out.Location(), strings.Join(written, ", "))
	return nil
}

// pipelineOptions builds the extractor chain, cache, and enricher from cfg.
// When checkService is set and the primary backend is GROBID, the service
// must be reachable, or the fallback backend takes over. The returned
// function releases the cache.
func pipelineOptions(ctx context.Context, cfg *types.Config, checkService bool) (pipeline.Options, func(), error) {
	noop := func() {}
	logger := slog.Default()

	if checkService && cfg.Extraction.Backend == types.BackendGROBID {
		g := extract.NewGROBID(cfg.GROBID, logger)
		if err := g.Alive(ctx); err != nil {
			fb := cfg.Extraction.Fallback
			if fb == "" || fb == "none" {
				return pipeline.Options{}, noop, fmt.Errorf("GROBID is not reachable at %s (run \"litreview grobid start\"): %w", cfg.GROBID.URL, err)
			}
			slog.Warn("GROBID is not reachable; using the fallback backend", "url", cfg.GROBID.URL, "fallback", fb, "error", err)
			cfg.Extraction.Backend = fb
			cfg.Extraction.Fallback = "none"
		}
	}

	store, err := cache.Open(ctx, cfg.Extraction.Cache)
	if err != nil {
		slog.Warn("extraction cache unavailable; continuing without it", "backend", cfg.Extraction.Cache.Backend, "error", err)
		store = nil
	}
	closeFn := noop
	var c extract.Cache
	if store != nil {
		c = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				slog.Warn("closing cache", "error", err)
			}
		}
	}

	ex, err := extract.New(ctx, cfg.Extraction, cfg.GROBID, c, logger)
	if err != nil {
		closeFn()
		return pipeline.Options{}, noop, err
	}

	opts := pipeline.Options{
		Extractor:    ex,
		Workers:      cfg.Extraction.Workers,
		PaperTimeout: cfg.Extraction.PaperTimeout,
		Signals:      cfg.Signals,
		Analysis:     cfg.Analysis,
		Logger:       logger,
		Progress:     os.Stdout,
	}
	if cfg.Enrich.CrossRef {
		opts.Enricher = enrich.New(cfg.Enrich, logger)
	}
	return opts, closeFn, nil
}

// outputSink returns the local output directory, plus the MinIO bucket
// when an endpoint is configured.
func outputSink(ctx context.Context, cfg types.OutputConfig, runID string) (sink.Sink, error) {
	dir := sink.NewDir(cfg.Dir)
	if cfg.Minio.Endpoint == "" {
		return dir, nil
	}
	m, err := sink.NewMinio(ctx, cfg.Minio, runID)
	if err != nil {
		return nil, err
	}
	return sink.Multi(dir, m), nil
}

// resolveInputs expands args into a sorted, de-duplicated list of PDF
// paths. Directories contribute the PDFs directly inside them. With no
// args, inputDir is scanned; a missing inputDir yields no paths.
func resolveInputs(args []string, inputDir string) ([]string, error) {
	if len(args) == 0 {
		if _, err := os.Stat(inputDir); os.IsNotExist(err) {
			return nil, nil
		}
		args = []string{inputDir}
	}

	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				add(filepath.Join(arg, e.Name()))
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}
