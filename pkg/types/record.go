// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Failure kinds reported for papers excluded from the corpus.
const (
	FailureUnreadable = "unreadable_file"
	FailureTimeout    = "parse_timeout"
	FailureEmpty      = "empty_document"
)

// Overview summarizes the analyzed corpus.
type Overview struct {
	// TotalPapers is the number of papers that were successfully analyzed.
	TotalPapers int `json:"total_papers" yaml:"total_papers"`

	// TimePeriod is "YYYY-YYYY" over the known publication years, or
	// "unspecified" when no year is known.
	TimePeriod string `json:"time_period" yaml:"time_period"`

	// ResearchField is the label of the most important cluster, or "unknown".
	ResearchField string `json:"research_field" yaml:"research_field"`
}

// ClusterEntry is the serialized form of a ThemeCluster.
type ClusterEntry struct {
	Label                 string   `json:"label" yaml:"label"`
	Importance            float64  `json:"importance" yaml:"importance"`
	RepresentativePaperID string   `json:"representative_paper_id" yaml:"representative_paper_id"`
	MemberCount           int      `json:"member_count" yaml:"member_count"`
	DominantSection       string   `json:"dominant_section,omitempty" yaml:"dominant_section,omitempty"`
	Papers                []string `json:"papers,omitempty" yaml:"papers,omitempty"`
	Phrases               []string `json:"phrases,omitempty" yaml:"phrases,omitempty"`
}

// ReferenceAnalysis summarizes bibliography usage across the corpus.
type ReferenceAnalysis struct {
	TotalReferences  int      `json:"total_references" yaml:"total_references"`
	AveragePerPaper  float64  `json:"avg_references_per_paper" yaml:"avg_references_per_paper"`
	CommonReferences []string `json:"common_references" yaml:"common_references"`
}

// PaperSummary is the short description of one analyzed paper.
type PaperSummary struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Year     int      `json:"year,omitempty" yaml:"year,omitempty"`
	Authors  []string `json:"authors" yaml:"authors"`
	Abstract string   `json:"abstract" yaml:"abstract"`
}

// PaperFailure records one paper that was excluded from the corpus.
type PaperFailure struct {
	PaperID string `json:"paper_id" yaml:"paper_id"`
	Path    string `json:"path" yaml:"path"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Diagnostics reports how the run went, independent of its findings.
type Diagnostics struct {
	// Submitted is the number of PDFs handed to the run.
	Submitted int `json:"submitted" yaml:"submitted"`

	// Analyzed is the number of papers that made it into the corpus.
	Analyzed int `json:"analyzed" yaml:"analyzed"`

	// Failures lists excluded papers ordered by paper id.
	Failures []PaperFailure `json:"failures" yaml:"failures"`

	// FailuresByKind tallies Failures by kind.
	FailuresByKind map[string]int `json:"failures_by_kind" yaml:"failures_by_kind"`

	// SkippedSegments counts malformed segments dropped by the normalizer.
	SkippedSegments int `json:"skipped_segments" yaml:"skipped_segments"`

	// TruncatedClusters counts clusters cut by the per-dimension limit.
	TruncatedClusters int `json:"truncated_clusters" yaml:"truncated_clusters"`

	// Warnings holds corpus-level warnings such as an empty signal set.
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// AnalyticalRecord is the renderer-independent result of a review run.
// Its JSON form is the machine-readable report.
type AnalyticalRecord struct {
	Overview             Overview          `json:"overview" yaml:"overview"`
	ResearchTrends       []ClusterEntry    `json:"research_trends" yaml:"research_trends"`
	TechnicalInnovations []ClusterEntry    `json:"technical_innovations" yaml:"technical_innovations"`
	Challenges           []ClusterEntry    `json:"challenges" yaml:"challenges"`
	FutureDirections     []ClusterEntry    `json:"future_directions" yaml:"future_directions"`
	MinorObservations    []ClusterEntry    `json:"minor_observations" yaml:"minor_observations"`
	ReferenceAnalysis    ReferenceAnalysis `json:"reference_analysis" yaml:"reference_analysis"`
	Papers               []PaperSummary    `json:"papers" yaml:"papers"`
	Diagnostics          Diagnostics       `json:"diagnostics" yaml:"diagnostics"`
}

// Dimension returns the entries of the named dimension.
func (r *AnalyticalRecord) Dimension(d Dimension) []ClusterEntry {
	switch d {
	case DimensionTrends:
		return r.ResearchTrends
	case DimensionInnovations:
		return r.TechnicalInnovations
	case DimensionChallenges:
		return r.Challenges
	case DimensionFuture:
		return r.FutureDirections
	}
	return nil
}

// SetDimension replaces the entries of the named dimension.
func (r *AnalyticalRecord) SetDimension(d Dimension, entries []ClusterEntry) {
	switch d {
	case DimensionTrends:
		r.ResearchTrends = entries
	case DimensionInnovations:
		r.TechnicalInnovations = entries
	case DimensionChallenges:
		r.Challenges = entries
	case DimensionFuture:
		r.FutureDirections = entries
	}
}
