// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/pipeline"
	"github.com/pdiddy/litreview/internal/render"
	"github.com/pdiddy/litreview/internal/sink"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Re-render reports from a saved JSON record",
	Long: `Report reads a literature_review.json written by analyze and renders it
again in the requested formats, without extracting or clustering anything.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("record", "", "record file (default <output-dir>/literature_review.json)")
	reportCmd.Flags().String("output-dir", "", "directory the reports are written to")
	reportCmd.Flags().StringSlice("format", nil, "report formats: markdown, json, html, yaml, xlsx")
	reportCmd.Flags().String("title", "", "report title")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := bindFlags(cmd, map[string]string{
		"output-dir": "output.dir",
		"format":     "output.formats",
		"title":      "output.title",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := render.ValidateFormats(cfg.Output.Formats); err != nil {
		return err
	}

	recordPath, _ := cmd.Flags().GetString("record")
	if recordPath == "" {
		name, _ := render.FileName(render.FormatJSON)
		recordPath = filepath.Join(cfg.Output.Dir, name)
	}
	f, err := os.Open(recordPath)
	if err != nil {
		return fmt.Errorf("opening record: %w", err)
	}
	defer f.Close()

	rec, err := render.ReadJSON(f)
	if err != nil {
		return err
	}

	out := sink.NewDir(cfg.Output.Dir)
	written, err := pipeline.Publish(ctx, rec, cfg.Output.Formats, render.Options{Title: cfg.Output.Title}, out)
	if err != nil {
		return err
	}
	fmt.Printf("Reports written to %s: %s\n", out.Location(), strings.Join(written, ", "))
	return nil
}
