// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/litreview/pkg/types"
)

func sampleRecord() *types.AnalyticalRecord {
	return &types.AnalyticalRecord{
		Overview: types.Overview{
			TotalPapers:   2,
			TimePeriod:    "2021-2023",
			ResearchField: "magnetic microrobots",
		},
		ResearchTrends: []types.ClusterEntry{{
			Label:                 "magnetic microrobots",
			Importance:            1.25,
			RepresentativePaperID: "doe-2021",
			MemberCount:           2,
			DominantSection:       types.SectionAbstract,
			Papers:                []string{"doe-2021", "lee-2023"},
			Phrases:               []string{"magnetic microrobots", "magnetic microrobot"},
		}},
		TechnicalInnovations: []types.ClusterEntry{
			{
				Label:                 "helical swimmer",
				Importance:            0.8,
				RepresentativePaperID: "lee-2023",
				MemberCount:           1,
				DominantSection:       types.SectionResults,
				Papers:                []string{"lee-2023"},
			},
			{
				Label:                 "soft lithography",
				Importance:            0.5,
				RepresentativePaperID: "doe-2021",
				MemberCount:           1,
				DominantSection:       types.SectionMethods,
				Papers:                []string{"doe-2021"},
			},
		},
		Challenges:        []types.ClusterEntry{},
		FutureDirections:  []types.ClusterEntry{},
		MinorObservations: []types.ClusterEntry{},
		ReferenceAnalysis: types.ReferenceAnalysis{
			TotalReferences:  5,
			AveragePerPaper:  2.5,
			CommonReferences: []string{"Helical swimmers in viscous fluids"},
		},
		Papers: []types.PaperSummary{
			{ID: "doe-2021", Title: "Steering | Control", Year: 2021, Authors: []string{"Jane Doe"}, Abstract: "A."},
			{ID: "lee-2023", Title: "Helical Swimmers", Year: 2023, Authors: []string{"Kim Lee", "Ann Park"}, Abstract: "B."},
		},
		Diagnostics: types.Diagnostics{
			Submitted: 3,
			Analyzed:  2,
			Failures: []types.PaperFailure{
				{PaperID: "broken", Path: "input/broken.pdf", Kind: types.FailureUnreadable, Message: "not a valid PDF"},
			},
			FailuresByKind: map[string]int{types.FailureUnreadable: 1},
			Warnings:       []string{},
		},
	}
}

func emptyRecord() *types.AnalyticalRecord {
	return &types.AnalyticalRecord{
		Overview:             types.Overview{TimePeriod: "unspecified", ResearchField: "unknown"},
		ResearchTrends:       []types.ClusterEntry{},
		TechnicalInnovations: []types.ClusterEntry{},
		Challenges:           []types.ClusterEntry{},
		FutureDirections:     []types.ClusterEntry{},
		MinorObservations:    []types.ClusterEntry{},
		ReferenceAnalysis:    types.ReferenceAnalysis{CommonReferences: []string{}},
		Papers:               []types.PaperSummary{},
		Diagnostics: types.Diagnostics{
			Failures:       []types.PaperFailure{},
			FailuresByKind: map[string]int{},
			Warnings:       []string{"no papers were analyzed"},
		},
	}
}

var outline = []string{
	"## 1. 摘要 / Summary",
	"## 2. Overview",
	"## 3. Research Trends",
	"## 4. Technical Innovations",
	"## 5. Results Analysis",
	"## 6. Challenges",
	"## 7. Future Directions",
	"## 8. Conclusion",
}

func assertOutline(t *testing.T, md string) {
	t.Helper()
	last := -1
	for _, h := range outline {
		i := strings.Index(md, h)
		require.GreaterOrEqual(t, i, 0, "missing heading %q", h)
		assert.Greater(t, i, last, "heading %q out of order", h)
		last = i
	}
}

func TestMarkdown(t *testing.T) {
	md := string(Markdown(sampleRecord(), Options{Title: "Microrobot Review"}))

	assert.True(t, strings.HasPrefix(md, "# Microrobot Review\n"))
	assertOutline(t, md)
	assert.Contains(t, md, "This report analyzed 2 of 3 submitted papers published 2021-2023")
	assert.Contains(t, md, "The dominant theme is **magnetic microrobots**.")
	assert.Contains(t, md, "- Excluded papers: 1 (unreadable_file: 1)")
	assert.Contains(t, md, "| doe-2021 | Steering \\| Control | 2021 | Jane Doe |")
	assert.Contains(t, md, "### 3.1 magnetic microrobots")
	assert.Contains(t, md, "- Related phrases: magnetic microrobots, magnetic microrobot")
	assert.Contains(t, md, "### 4.2 soft lithography")
	assert.Contains(t, md, "- Representative paper: Helical Swimmers (lee-2023)")
	assert.Contains(t, md, "- Total references: 5")
	assert.Contains(t, md, "  - Helical swimmers in viscous fluids")
	assert.Contains(t, md, "1. The strongest research trend is **magnetic microrobots**, shared by 2 of 2 papers.")
	assert.Contains(t, md, "2. The leading technical innovation is **helical swimmer**")
}

func TestMarkdownResultsAnalysisUsesResultsSections(t *testing.T) {
	md := string(Markdown(sampleRecord(), Options{}))
	results := md[strings.Index(md, "## 5. Results Analysis"):strings.Index(md, "## 6. Challenges")]

	assert.Contains(t, results, "**helical swimmer** (0.800)")
	assert.NotContains(t, results, "soft lithography")
}

func TestMarkdownEscapesExtractedText(t *testing.T) {
	rec := sampleRecord()
	rec.Overview.ResearchField = "*bold* #tag"
	rec.ResearchTrends[0].Label = "C# _under_ <b>"

	md := string(Markdown(rec, Options{}))
	assert.Contains(t, md, "The dominant theme is **\\*bold\\* \\#tag**.")
	assert.Contains(t, md, "- Research field: \\*bold\\* \\#tag")
	assert.Contains(t, md, "### 3.1 C\\# \\_under\\_ \\<b\\>")

	page, err := HTML(rec, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(page), "C# _under_ &lt;b&gt;")
	assert.NotContains(t, string(page), "<em>under</em>")
	assert.NotContains(t, string(page), "<b>")
}

func TestMarkdownEmptyRecord(t *testing.T) {
	md := string(Markdown(emptyRecord(), Options{}))

	assert.True(t, strings.HasPrefix(md, "# Literature Review\n"))
	assertOutline(t, md)
	assert.Contains(t, md, "This report analyzed 0 of 0 submitted papers and groups")
	assert.Contains(t, md, "No paper could be analyzed")
	assert.Equal(t, 4, strings.Count(md, "_No themes were found for this dimension._"))
	assert.Contains(t, md, "- no papers were analyzed")
	assert.Contains(t, md, "No conclusion can be drawn without analyzed papers.")
}

func TestMarkdownDeterministic(t *testing.T) {
	assert.Equal(t, Markdown(sampleRecord(), Options{}), Markdown(sampleRecord(), Options{}))
}

func TestJSONRoundTrip(t *testing.T) {
	rec := sampleRecord()
	rec.ResearchTrends[0].Label = "drug <delivery> & release"

	data, err := JSON(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_papers": 2`)
	assert.Contains(t, string(data), `"drug <delivery> & release"`)

	got, err := ReadJSON(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestReadJSONInvalid(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestYAML(t *testing.T) {
	data, err := YAML(sampleRecord())
	require.NoError(t, err)
	assert.Contains(t, string(data), "total_papers: 2")
	assert.Contains(t, string(data), "research_field: magnetic microrobots")
}

func TestHTML(t *testing.T) {
	data, err := HTML(sampleRecord(), Options{Title: "Review & Notes"})
	require.NoError(t, err)
	page := string(data)

	assert.True(t, strings.HasPrefix(page, "<!doctype html>"))
	assert.Contains(t, page, "<title>Review &amp; Notes</title>")
	assert.Contains(t, page, "<h2>1. 摘要 / Summary</h2>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<strong>magnetic microrobots</strong>")
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sampleRecord())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Overview",
		"Research Trends",
		"Technical Innovations",
		"Challenges",
		"Future Directions",
		"Minor Observations",
		"Papers",
		"Failures",
	}, f.GetSheetList())

	rows, err := f.GetRows("Technical Innovations")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Label", rows[0][0])
	assert.Equal(t, "helical swimmer", rows[1][0])
	assert.Equal(t, "soft lithography", rows[2][0])

	rows, err = f.GetRows("Papers")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Kim Lee; Ann Park", rows[2][3])

	rows, err = f.GetRows("Failures")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, types.FailureUnreadable, rows[1][2])
}

func TestRenderFormats(t *testing.T) {
	for _, format := range []string{FormatMarkdown, FormatJSON, FormatHTML, FormatYAML, FormatXLSX} {
		t.Run(format, func(t *testing.T) {
			data, err := Render(format, emptyRecord(), Options{})
			require.NoError(t, err)
			assert.NotEmpty(t, data)

			name, err := FileName(format)
			require.NoError(t, err)
			assert.NotEmpty(t, name)
		})
	}

	_, err := Render("pdf", emptyRecord(), Options{})
	assert.Error(t, err)
	assert.Error(t, ValidateFormats([]string{"json", "pdf"}))
	assert.NoError(t, ValidateFormats([]string{"json", "markdown"}))
}

func TestFileNames(t *testing.T) {
	name, err := FileName(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "literature_review.json", name)

	name, err = FileName(FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "comprehensive_report.md", name)
}
