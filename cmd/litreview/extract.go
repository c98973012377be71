// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litreview/internal/pipeline"
	"github.com/pdiddy/litreview/internal/sink"
)

var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Extract PDFs into PaperRecord YAML files",
	Long: `Extract runs only the extraction stage: each PDF becomes a PaperRecord
(title, authors, year, abstract, labeled sections, references) written as
<paper-id>.yaml under the records directory. Useful for checking what a
backend recovers before running a full analysis.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("backend", "", "extraction backend: grobid, native, or markitdown")
	extractCmd.Flags().String("fallback", "", "backend tried when the primary cannot read a paper, or none")
	extractCmd.Flags().Int("workers", 0, "papers extracted in parallel")
	extractCmd.Flags().Duration("paper-timeout", 0, "time limit for extracting one paper")
	extractCmd.Flags().String("input-dir", "", "directory scanned when no paths are given")
	extractCmd.Flags().String("cache", "", "extraction cache: sqlite, redis, or none")
	extractCmd.Flags().Bool("crossref", false, "fill missing metadata from CrossRef for papers with a DOI")
	extractCmd.Flags().String("records-dir", "", "directory for record files (default <output-dir>/records)")

	rootCmd.AddCommand(extractCmd)
}

var extractFlags = map[string]string{
	"backend":       "extraction.backend",
	"fallback":      "extraction.fallback",
	"workers":       "extraction.workers",
	"paper-timeout": "extraction.paper_timeout",
	"input-dir":     "extraction.input_dir",
	"cache":         "extraction.cache.backend",
	"crossref":      "enrich.crossref",
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := bindFlags(cmd, extractFlags); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths, err := resolveInputs(args, cfg.Extraction.InputDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDFs found in %s", cfg.Extraction.InputDir)
	}

	opts, closeFn, err := pipelineOptions(ctx, &cfg, true)
	if err != nil {
		return err
	}
	defer closeFn()

	batch, err := pipeline.ExtractBatch(ctx, paths, opts)
	if err != nil {
		return err
	}

	recordsDir, _ := cmd.Flags().GetString("records-dir")
	if recordsDir == "" {
		recordsDir = filepath.Join(cfg.Output.Dir, "records")
	}
	out := sink.NewDir(recordsDir)
	for i := range batch.Papers {
		p := &batch.Papers[i]
		data, err := yaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", p.ID, err)
		}
		if err := out.Write(ctx, p.ID+".yaml", data); err != nil {
			return err
		}
	}
	fmt.Printf("Wrote %d record(s) to %s\n", len(batch.Papers), out.Location())

	if batch.HasFailures() {
		return fmt.Errorf("%d paper(s) failed extraction", len(batch.Failures))
	}
	return nil
}
