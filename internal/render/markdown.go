// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

var dimensionTitles = map[types.Dimension]string{
	types.DimensionTrends:      "Research Trends",
	types.DimensionInnovations: "Technical Innovations",
	types.DimensionChallenges:  "Challenges",
	types.DimensionFuture:      "Future Directions",
}

// conclusionPhrases introduce the top cluster of each dimension in the
// conclusion.
var conclusionPhrases = map[types.Dimension]string{
	types.DimensionTrends:      "The strongest research trend is",
	types.DimensionInnovations: "The leading technical innovation is",
	types.DimensionChallenges:  "The most cited challenge is",
	types.DimensionFuture:      "The most frequent future direction is",
}

// Markdown renders the eight-section report.
func Markdown(rec *types.AnalyticalRecord, opts Options) []byte {
	titles := paperTitles(rec)
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escape(opts.title()))

	b.WriteString("## 1. 摘要 / Summary\n\n")
	writeSummary(&b, rec)

	b.WriteString("## 2. Overview\n\n")
	writeOverview(&b, rec)

	b.WriteString("## 3. Research Trends\n\n")
	writeClusters(&b, "3", rec.ResearchTrends, titles)

	b.WriteString("## 4. Technical Innovations\n\n")
	writeClusters(&b, "4", rec.TechnicalInnovations, titles)

	b.WriteString("## 5. Results Analysis\n\n")
	writeResults(&b, rec, titles)

	b.WriteString("## 6. Challenges\n\n")
	writeClusters(&b, "6", rec.Challenges, titles)

	b.WriteString("## 7. Future Directions\n\n")
	writeClusters(&b, "7", rec.FutureDirections, titles)

	b.WriteString("## 8. Conclusion\n\n")
	writeConclusion(&b, rec)

	return []byte(b.String())
}

func writeSummary(b *strings.Builder, rec *types.AnalyticalRecord) {
	d := rec.Diagnostics
	fmt.Fprintf(b, "This report analyzed %d of %d submitted papers", d.Analyzed, d.Submitted)
	if rec.Overview.TimePeriod != "" && rec.Overview.TimePeriod != "unspecified" {
		fmt.Fprintf(b, " published %s", rec.Overview.TimePeriod)
	}
	b.WriteString(" and groups their topics into research trends, technical innovations, challenges and future directions.")
	if rec.Overview.ResearchField != "" && rec.Overview.ResearchField != "unknown" {
		fmt.Fprintf(b, " The dominant theme is **%s**.", escape(rec.Overview.ResearchField))
	}
	b.WriteString("\n\n")
	if d.Analyzed == 0 {
		b.WriteString("No paper could be analyzed, so the sections below are empty.\n\n")
	}
}

func writeOverview(b *strings.Builder, rec *types.AnalyticalRecord) {
	o := rec.Overview
	d := rec.Diagnostics
	fmt.Fprintf(b, "- Papers analyzed: %d of %d submitted\n", o.TotalPapers, d.Submitted)
	fmt.Fprintf(b, "- Time period: %s\n", o.TimePeriod)
	fmt.Fprintf(b, "- Research field: %s\n", escape(o.ResearchField))
	if len(d.Failures) > 0 {
		fmt.Fprintf(b, "- Excluded papers: %d (%s)\n", len(d.Failures), kindTally(d.FailuresByKind))
	}
	b.WriteString("\n")

	if len(rec.Papers) > 0 {
		b.WriteString("| ID | Title | Year | Authors |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, p := range rec.Papers {
			year := ""
			if p.Year > 0 {
				year = fmt.Sprintf("%d", p.Year)
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
				cell(p.ID), cell(p.Title), year, cell(strings.Join(p.Authors, "; ")))
		}
		b.WriteString("\n")
	}

	if len(d.Failures) > 0 {
		b.WriteString("Excluded papers:\n\n")
		for _, f := range d.Failures {
			fmt.Fprintf(b, "- `%s` (%s): %s\n", f.PaperID, f.Kind, f.Message)
		}
		b.WriteString("\n")
	}

	if len(d.Warnings) > 0 {
		b.WriteString("Warnings:\n\n")
		for _, w := range d.Warnings {
			fmt.Fprintf(b, "- %s\n", w)
		}
		b.WriteString("\n")
	}
}

// writeClusters renders the entries of one dimension as numbered
// subsections under the given section number.
func writeClusters(b *strings.Builder, section string, entries []types.ClusterEntry, titles map[string]string) {
	if len(entries) == 0 {
		b.WriteString("_No themes were found for this dimension._\n\n")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(b, "### %s.%d %s\n\n", section, i+1, escape(e.Label))
		writeEntry(b, e, titles)
	}
}

func writeEntry(b *strings.Builder, e types.ClusterEntry, titles map[string]string) {
	fmt.Fprintf(b, "- Importance: %.3f\n", e.Importance)
	fmt.Fprintf(b, "- Representative paper: %s\n", paperRef(e.RepresentativePaperID, titles))
	fmt.Fprintf(b, "- Papers (%d): %s\n", len(e.Papers), strings.Join(e.Papers, ", "))
	if e.DominantSection != "" {
		fmt.Fprintf(b, "- Mostly found in: %s\n", e.DominantSection)
	}
	if len(e.Phrases) > 1 {
		fmt.Fprintf(b, "- Related phrases: %s\n", escape(strings.Join(e.Phrases, ", ")))
	}
	b.WriteString("\n")
}

// writeResults lists the innovations that come mainly from results and
// discussion sections, then the bibliography statistics.
func writeResults(b *strings.Builder, rec *types.AnalyticalRecord, titles map[string]string) {
	b.WriteString("### 5.1 Experimental Findings\n\n")
	var found int
	for _, e := range rec.TechnicalInnovations {
		if e.DominantSection != types.SectionResults && e.DominantSection != types.SectionDiscussion {
			continue
		}
		found++
		fmt.Fprintf(b, "- **%s** (%.3f), reported by %s\n", escape(e.Label), e.Importance, paperRef(e.RepresentativePaperID, titles))
	}
	if found == 0 {
		b.WriteString("_No innovation theme is dominated by results sections._\n")
	}
	b.WriteString("\n")

	ra := rec.ReferenceAnalysis
	b.WriteString("### 5.2 Reference Analysis\n\n")
	fmt.Fprintf(b, "- Total references: %d\n", ra.TotalReferences)
	fmt.Fprintf(b, "- Average per paper: %.1f\n", ra.AveragePerPaper)
	if len(ra.CommonReferences) == 0 {
		b.WriteString("- Common references: none\n\n")
		return
	}
	b.WriteString("- Common references:\n")
	for _, r := range ra.CommonReferences {
		fmt.Fprintf(b, "  - %s\n", escape(r))
	}
	b.WriteString("\n")
}

func writeConclusion(b *strings.Builder, rec *types.AnalyticalRecord) {
	if rec.Overview.TotalPapers == 0 {
		b.WriteString("No conclusion can be drawn without analyzed papers.\n")
		return
	}
	fmt.Fprintf(b, "Across %d analyzed papers:\n\n", rec.Overview.TotalPapers)
	n := 0
	for _, d := range types.Dimensions {
		entries := rec.Dimension(d)
		if len(entries) == 0 {
			continue
		}
		n++
		fmt.Fprintf(b, "%d. %s **%s**, shared by %d of %d papers.\n",
			n, conclusionPhrases[d], escape(entries[0].Label), len(entries[0].Papers), rec.Overview.TotalPapers)
	}
	if n == 0 {
		b.WriteString("No theme passed the clustering thresholds.\n")
	}
	if k := len(rec.MinorObservations); k > 0 {
		fmt.Fprintf(b, "\n%d minor observations were set aside as single-paper themes.\n", k)
	}
}

func paperTitles(rec *types.AnalyticalRecord) map[string]string {
	titles := make(map[string]string, len(rec.Papers))
	for _, p := range rec.Papers {
		titles[p.ID] = p.Title
	}
	return titles
}

func paperRef(id string, titles map[string]string) string {
	if t, ok := titles[id]; ok && t != "" {
		return fmt.Sprintf("%s (%s)", escape(t), id)
	}
	return id
}

func kindTally(byKind map[string]int) string {
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s: %d", k, byKind[k])
	}
	return strings.Join(parts, ", ")
}

// markdownEscaper backslash-escapes punctuation that Markdown reads as
// markup.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"#", `\#`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
	"~", `\~`,
	"&", `\&`,
)

// escape makes extracted text render literally in Markdown.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

// cell escapes text for a Markdown table cell.
func cell(s string) string {
	return strings.ReplaceAll(escape(s), "\n", " ")
}
