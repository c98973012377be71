// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns an AnalyticalRecord into report files. Every
// renderer is a pure function of the record and options, so the same
// record always renders to the same bytes.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litreview/pkg/types"
)

// Report formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatHTML     = "html"
	FormatYAML     = "yaml"
	FormatXLSX     = "xlsx"
)

// fileNames maps each format to the file it is written to.
var fileNames = map[string]string{
	FormatMarkdown: "comprehensive_report.md",
	FormatJSON:     "literature_review.json",
	FormatHTML:     "comprehensive_report.html",
	FormatYAML:     "literature_review.yaml",
	FormatXLSX:     "literature_review.xlsx",
}

// Options carries presentation settings that are not part of the record.
type Options struct {
	// Title heads the Markdown and HTML reports.
	Title string
}

func (o Options) title() string {
	if o.Title == "" {
		return "Literature Review"
	}
	return o.Title
}

// FileName returns the output file name for format.
func FileName(format string) (string, error) {
	name, ok := fileNames[format]
	if !ok {
		return "", fmt.Errorf("unknown report format %q", format)
	}
	return name, nil
}

// ValidateFormats checks that every entry names a known format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := FileName(f); err != nil {
			return err
		}
	}
	return nil
}

// Render produces the report bytes for one format.
func Render(format string, rec *types.AnalyticalRecord, opts Options) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return Markdown(rec, opts), nil
	case FormatJSON:
		return JSON(rec)
	case FormatHTML:
		return HTML(rec, opts)
	case FormatYAML:
		return YAML(rec)
	case FormatXLSX:
		return XLSX(rec)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// JSON encodes the record with two-space indentation. Non-ASCII text and
// HTML characters are written as-is.
func JSON(rec *types.AnalyticalRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadJSON decodes a record previously written by JSON.
func ReadJSON(r io.Reader) (*types.AnalyticalRecord, error) {
	var rec types.AnalyticalRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &rec, nil
}

// YAML encodes the record as YAML.
func YAML(rec *types.AnalyticalRecord) ([]byte, error) {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}
	return data, nil
}
