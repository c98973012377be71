// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/litreview/pkg/types"
)

const (
	sheetOverview = "Overview"
	sheetMinor    = "Minor Observations"
	sheetPapers   = "Papers"
	sheetFailures = "Failures"
)

var clusterHeader = []any{"Label", "Importance", "Members", "Representative Paper", "Dominant Section", "Papers", "Phrases"}

// XLSX renders the record as a workbook: an overview sheet, one sheet per
// dimension, minor observations, papers, and failures.
func XLSX(rec *types.AnalyticalRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetOverview); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	o := rec.Overview
	d := rec.Diagnostics
	overview := [][]any{
		{"Field", "Value"},
		{"Total papers", o.TotalPapers},
		{"Submitted papers", d.Submitted},
		{"Time period", o.TimePeriod},
		{"Research field", o.ResearchField},
		{"Total references", rec.ReferenceAnalysis.TotalReferences},
		{"Average references per paper", rec.ReferenceAnalysis.AveragePerPaper},
		{"Failures", len(d.Failures)},
		{"Skipped segments", d.SkippedSegments},
		{"Truncated clusters", d.TruncatedClusters},
	}
	if err := writeRows(f, sheetOverview, overview, bold); err != nil {
		return nil, err
	}

	for _, dim := range types.Dimensions {
		if err := writeClusterSheet(f, dimensionTitles[dim], rec.Dimension(dim), bold); err != nil {
			return nil, err
		}
	}
	if err := writeClusterSheet(f, sheetMinor, rec.MinorObservations, bold); err != nil {
		return nil, err
	}

	papers := [][]any{{"ID", "Title", "Year", "Authors", "Abstract"}}
	for _, p := range rec.Papers {
		papers = append(papers, []any{p.ID, p.Title, p.Year, strings.Join(p.Authors, "; "), p.Abstract})
	}
	if err := addSheet(f, sheetPapers, papers, bold); err != nil {
		return nil, err
	}

	failures := [][]any{{"Paper ID", "Path", "Kind", "Message"}}
	for _, fl := range d.Failures {
		failures = append(failures, []any{fl.PaperID, fl.Path, fl.Kind, fl.Message})
	}
	if err := addSheet(f, sheetFailures, failures, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeClusterSheet(f *excelize.File, name string, entries []types.ClusterEntry, style int) error {
	rows := [][]any{clusterHeader}
	for _, e := range entries {
		rows = append(rows, []any{
			e.Label,
			e.Importance,
			e.MemberCount,
			e.RepresentativePaperID,
			e.DominantSection,
			strings.Join(e.Papers, ", "),
			strings.Join(e.Phrases, ", "),
		})
	}
	return addSheet(f, name, rows, style)
}

func addSheet(f *excelize.File, name string, rows [][]any, style int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows, style)
}

// writeRows writes rows from A1 down and styles the first row as a header.
func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	return nil
}
