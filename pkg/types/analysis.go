// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NormalizedUnit is one cleaned sentence of a paper, tagged with the
// section it came from. Units live only for the duration of a run.
type NormalizedUnit struct {
	// PaperID identifies the paper the unit was taken from.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Section is the canonical label of the source section.
	Section string `json:"section" yaml:"section"`

	// Text is the display form of the sentence.
	Text string `json:"text" yaml:"text"`

	// Norm is the case-folded matching form of Text.
	Norm string `json:"norm" yaml:"norm"`

	// Index is the position of the unit within its paper.
	Index int `json:"index" yaml:"index"`
}

// TopicSignal is a candidate theme phrase found in one paper together with
// its relevance within that paper relative to the corpus.
type TopicSignal struct {
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Phrase is the display form of the first occurrence.
	Phrase string `json:"phrase" yaml:"phrase"`

	// Key is the normalized form used for matching across papers.
	Key string `json:"key" yaml:"key"`

	// Score is the tf·idf relevance of the phrase in its paper.
	Score float64 `json:"score" yaml:"score"`

	// Section is the label of the section holding most occurrences.
	Section string `json:"section" yaml:"section"`

	// Order is the index of the phrase's first occurrence in the paper.
	Order int `json:"order" yaml:"order"`
}

// Dimension is one of the four fixed analytical axes of a review.
type Dimension string

const (
	DimensionTrends      Dimension = "research_trends"
	DimensionInnovations Dimension = "technical_innovations"
	DimensionChallenges  Dimension = "challenges"
	DimensionFuture      Dimension = "future_directions"
)

// Dimensions lists the analytical dimensions in report order.
var Dimensions = []Dimension{
	DimensionTrends,
	DimensionInnovations,
	DimensionChallenges,
	DimensionFuture,
}

// Valid reports whether d is one of the four fixed dimensions.
func (d Dimension) Valid() bool {
	switch d {
	case DimensionTrends, DimensionInnovations, DimensionChallenges, DimensionFuture:
		return true
	}
	return false
}

// ThemeCluster groups topic signals from one or more papers under a label.
type ThemeCluster struct {
	// Label is the display phrase of the representative signal.
	Label string `json:"label" yaml:"label"`

	// Members holds the clustered signals ordered by paper id, then by
	// extraction order.
	Members []TopicSignal `json:"members" yaml:"members"`

	// RepresentativePaperID is the paper of the highest scoring member.
	RepresentativePaperID string `json:"representative_paper_id" yaml:"representative_paper_id"`

	// Importance is the sum of member scores divided by the corpus size.
	Importance float64 `json:"importance" yaml:"importance"`

	// Dimension is the axis the cluster was assigned to.
	Dimension Dimension `json:"dimension" yaml:"dimension"`

	// DominantSection is the section label contributing the most members.
	DominantSection string `json:"dominant_section" yaml:"dominant_section"`

	// PaperIDs lists the distinct papers contributing members, sorted.
	PaperIDs []string `json:"paper_ids" yaml:"paper_ids"`
}
