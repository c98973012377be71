// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record assembles the AnalyticalRecord, the renderer-independent
// result of a review run, from the analyzed papers and the aggregation
// result. Build is pure: the same input always yields an equal record.
package record

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/litreview/internal/aggregate"
	"github.com/pdiddy/litreview/pkg/types"
)

// ErrInvariant reports a record that would reference papers or clusters
// that do not exist. It is fatal for the run.
var ErrInvariant = errors.New("record: invariant violation")

const (
	// TimePeriodUnspecified is used when no paper has a known year.
	TimePeriodUnspecified = "unspecified"
	// FieldUnknown is used when there are no clusters.
	FieldUnknown = "unknown"

	untitled          = "Unknown Title"
	noAbstract        = "No abstract available"
	abstractMaxRunes  = 500
	maxPhrasesPerItem = 5
)

// Input holds everything the builder needs.
type Input struct {
	// Papers is the analyzed corpus in any order.
	Papers []types.PaperRecord

	// Aggregation is the clustering result for Papers.
	Aggregation aggregate.Result

	// Diagnostics carries the run's failure tally; Analyzed and the
	// aggregation counters are filled in by Build.
	Diagnostics types.Diagnostics
}

// Build validates the aggregation against the corpus and assembles the
// record. It returns an error wrapping ErrInvariant when a cluster is empty
// or references a paper outside the corpus.
func Build(in Input) (*types.AnalyticalRecord, error) {
	papers := make([]types.PaperRecord, len(in.Papers))
	copy(papers, in.Papers)
	sort.Slice(papers, func(i, j int) bool { return papers[i].ID < papers[j].ID })

	ids := make(map[string]bool, len(papers))
	for _, p := range papers {
		ids[p.ID] = true
	}

	rec := &types.AnalyticalRecord{}
	var top *types.ThemeCluster
	for _, d := range types.Dimensions {
		clusters := in.Aggregation.Clusters[d]
		entries := make([]types.ClusterEntry, 0, len(clusters))
		for i := range clusters {
			c := &clusters[i]
			if err := validate(c, ids); err != nil {
				return nil, err
			}
			if c.Dimension != "" && c.Dimension != d {
				return nil, fmt.Errorf("%w: cluster %q assigned to %s but listed under %s",
					ErrInvariant, c.Label, c.Dimension, d)
			}
			entries = append(entries, entry(c))
			if top == nil || c.Importance > top.Importance ||
				(c.Importance == top.Importance && c.Label < top.Label) {
				top = c
			}
		}
		rec.SetDimension(d, entries)
	}

	rec.MinorObservations = make([]types.ClusterEntry, 0, len(in.Aggregation.Minor))
	for i := range in.Aggregation.Minor {
		c := &in.Aggregation.Minor[i]
		if err := validate(c, ids); err != nil {
			return nil, err
		}
		rec.MinorObservations = append(rec.MinorObservations, entry(c))
	}

	rec.Overview = types.Overview{
		TotalPapers:   len(papers),
		TimePeriod:    timePeriod(papers),
		ResearchField: FieldUnknown,
	}
	if top != nil {
		rec.Overview.ResearchField = top.Label
	}

	rec.ReferenceAnalysis = referenceAnalysis(papers)
	rec.Papers = summaries(papers)
	rec.Diagnostics = diagnostics(in.Diagnostics, len(papers), in.Aggregation)
	return rec, nil
}

// validate checks that a cluster has members and that every paper it
// names belongs to the corpus.
func validate(c *types.ThemeCluster, ids map[string]bool) error {
	if len(c.Members) == 0 {
		return fmt.Errorf("%w: cluster %q has no members", ErrInvariant, c.Label)
	}
	if !ids[c.RepresentativePaperID] {
		return fmt.Errorf("%w: cluster %q representative paper %q is not in the corpus",
			ErrInvariant, c.Label, c.RepresentativePaperID)
	}
	for _, m := range c.Members {
		if !ids[m.PaperID] {
			return fmt.Errorf("%w: cluster %q member paper %q is not in the corpus",
				ErrInvariant, c.Label, m.PaperID)
		}
	}
	return nil
}

func entry(c *types.ThemeCluster) types.ClusterEntry {
	var phrases []string
	seen := make(map[string]bool)
	for _, m := range c.Members {
		if len(phrases) == maxPhrasesPerItem {
			break
		}
		key := strings.ToLower(m.Phrase)
		if seen[key] {
			continue
		}
		seen[key] = true
		phrases = append(phrases, m.Phrase)
	}
	return types.ClusterEntry{
		Label:                 c.Label,
		Importance:            c.Importance,
		RepresentativePaperID: c.RepresentativePaperID,
		MemberCount:           len(c.Members),
		DominantSection:       c.DominantSection,
		Papers:                c.PaperIDs,
		Phrases:               phrases,
	}
}

// timePeriod returns "min-max" over the known publication years.
func timePeriod(papers []types.PaperRecord) string {
	lo, hi := 0, 0
	for _, p := range papers {
		if p.Year <= 0 {
			continue
		}
		if lo == 0 || p.Year < lo {
			lo = p.Year
		}
		if p.Year > hi {
			hi = p.Year
		}
	}
	if lo == 0 {
		return TimePeriodUnspecified
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}

// referenceAnalysis counts bibliography entries and finds the references
// cited by every paper. Common references need at least two papers.
func referenceAnalysis(papers []types.PaperRecord) types.ReferenceAnalysis {
	ra := types.ReferenceAnalysis{CommonReferences: []string{}}
	if len(papers) == 0 {
		return ra
	}

	var common map[string]string
	for i, p := range papers {
		ra.TotalReferences += len(p.References)
		refs := make(map[string]string, len(p.References))
		for _, r := range p.References {
			if key := refKey(r); key != "" {
				if _, ok := refs[key]; !ok {
					refs[key] = strings.TrimSpace(r)
				}
			}
		}
		if i == 0 {
			common = refs
			continue
		}
		for key := range common {
			if _, ok := refs[key]; !ok {
				delete(common, key)
			}
		}
	}
	ra.AveragePerPaper = math.Round(float64(ra.TotalReferences)/float64(len(papers))*100) / 100

	if len(papers) > 1 {
		for _, title := range common {
			ra.CommonReferences = append(ra.CommonReferences, title)
		}
		sort.Strings(ra.CommonReferences)
	}
	return ra
}

// refKey folds a reference title for comparison across papers.
func refKey(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.Trim(title, " .,;:\"'"))), " ")
}

func summaries(papers []types.PaperRecord) []types.PaperSummary {
	out := make([]types.PaperSummary, 0, len(papers))
	for _, p := range papers {
		s := types.PaperSummary{
			ID:       p.ID,
			Title:    strings.TrimSpace(p.Title),
			Year:     p.Year,
			Authors:  p.Authors,
			Abstract: truncate(strings.TrimSpace(p.Abstract), abstractMaxRunes),
		}
		if s.Title == "" {
			s.Title = untitled
		}
		if s.Abstract == "" {
			s.Abstract = noAbstract
		}
		if s.Authors == nil {
			s.Authors = []string{}
		}
		out = append(out, s)
	}
	return out
}

// truncate shortens s to limit runes, appending "..." when cut.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

func diagnostics(in types.Diagnostics, analyzed int, agg aggregate.Result) types.Diagnostics {
	d := types.Diagnostics{
		Submitted:         in.Submitted,
		Analyzed:          analyzed,
		Failures:          make([]types.PaperFailure, len(in.Failures)),
		FailuresByKind:    make(map[string]int),
		SkippedSegments:   in.SkippedSegments,
		TruncatedClusters: agg.Truncated,
		Warnings:          []string{},
	}
	copy(d.Failures, in.Failures)
	sort.SliceStable(d.Failures, func(i, j int) bool { return d.Failures[i].PaperID < d.Failures[j].PaperID })
	for _, f := range d.Failures {
		d.FailuresByKind[f.Kind]++
	}
	if floor := analyzed + len(d.Failures); d.Submitted < floor {
		d.Submitted = floor
	}
	d.Warnings = append(d.Warnings, in.Warnings...)
	d.Warnings = append(d.Warnings, agg.Warnings...)
	return d
}
