// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litreview/internal/aggregate"
	"github.com/pdiddy/litreview/pkg/types"
)

func cluster(label string, d types.Dimension, importance float64, papers ...string) types.ThemeCluster {
	c := types.ThemeCluster{
		Label:                 label,
		Dimension:             d,
		Importance:            importance,
		RepresentativePaperID: papers[0],
		PaperIDs:              papers,
	}
	for _, p := range papers {
		c.Members = append(c.Members, types.TopicSignal{PaperID: p, Phrase: label, Key: label})
	}
	return c
}

func aggregation(clusters ...types.ThemeCluster) aggregate.Result {
	res := aggregate.Result{Clusters: map[types.Dimension][]types.ThemeCluster{}}
	for _, d := range types.Dimensions {
		res.Clusters[d] = []types.ThemeCluster{}
	}
	for _, c := range clusters {
		res.Clusters[c.Dimension] = append(res.Clusters[c.Dimension], c)
	}
	return res
}

func TestBuildOverview(t *testing.T) {
	papers := []types.PaperRecord{
		{ID: "c", Year: 2023},
		{ID: "a", Year: 2022},
		{ID: "b", Year: 2023},
	}
	agg := aggregation(
		cluster("drug delivery", types.DimensionTrends, 0.4, "a", "b"),
		cluster("magnetic steering", types.DimensionInnovations, 0.7, "c"),
		cluster("biofouling", types.DimensionChallenges, 0.7, "b"),
	)

	rec, err := Build(Input{Papers: papers, Aggregation: agg})
	require.NoError(t, err)

	assert.Equal(t, 3, rec.Overview.TotalPapers)
	assert.Equal(t, "2022-2023", rec.Overview.TimePeriod)
	// Importance ties resolve by label.
	assert.Equal(t, "biofouling", rec.Overview.ResearchField)
	require.Len(t, rec.ResearchTrends, 1)
	assert.Equal(t, 2, rec.ResearchTrends[0].MemberCount)
	assert.Equal(t, []string{"a", "b"}, rec.ResearchTrends[0].Papers)
	assert.Equal(t, []string{"a", "b", "c"}, []string{rec.Papers[0].ID, rec.Papers[1].ID, rec.Papers[2].ID})
}

func TestBuildEmptyCorpus(t *testing.T) {
	rec, err := Build(Input{Aggregation: aggregation()})
	require.NoError(t, err)

	assert.Equal(t, 0, rec.Overview.TotalPapers)
	assert.Equal(t, TimePeriodUnspecified, rec.Overview.TimePeriod)
	assert.Equal(t, FieldUnknown, rec.Overview.ResearchField)
	for _, d := range types.Dimensions {
		assert.NotNil(t, rec.Dimension(d))
		assert.Empty(t, rec.Dimension(d))
	}
	assert.NotNil(t, rec.MinorObservations)
	assert.NotNil(t, rec.Papers)
	assert.NotNil(t, rec.ReferenceAnalysis.CommonReferences)
	assert.NotNil(t, rec.Diagnostics.Warnings)
}

func TestBuildSingleYear(t *testing.T) {
	rec, err := Build(Input{
		Papers:      []types.PaperRecord{{ID: "a", Year: 2021}, {ID: "b"}},
		Aggregation: aggregation(),
	})
	require.NoError(t, err)
	assert.Equal(t, "2021-2021", rec.Overview.TimePeriod)
}

func TestBuildInvariantViolations(t *testing.T) {
	papers := []types.PaperRecord{{ID: "a"}}

	tests := []struct {
		name string
		agg  aggregate.Result
	}{
		{
			name: "representative outside corpus",
			agg:  aggregation(cluster("ghost", types.DimensionTrends, 0.2, "zz")),
		},
		{
			name: "member outside corpus",
			agg:  aggregation(cluster("mixed", types.DimensionTrends, 0.2, "a", "zz")),
		},
		{
			name: "empty cluster",
			agg: aggregation(types.ThemeCluster{
				Label: "empty", Dimension: types.DimensionTrends, RepresentativePaperID: "a",
			}),
		},
		{
			name: "cluster listed under the wrong dimension",
			agg: func() aggregate.Result {
				res := aggregation()
				res.Clusters[types.DimensionFuture] = []types.ThemeCluster{
					cluster("misplaced", types.DimensionChallenges, 0.2, "a"),
				}
				return res
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Build(Input{Papers: papers, Aggregation: tt.agg})
			assert.Nil(t, rec)
			assert.True(t, errors.Is(err, ErrInvariant), "got %v", err)
		})
	}
}

func TestBuildIdempotent(t *testing.T) {
	in := Input{
		Papers: []types.PaperRecord{
			{ID: "b", Year: 2020, Title: "B", References: []string{"Shared Work", "Only B"}},
			{ID: "a", Year: 2019, Title: "A", References: []string{"shared work."}},
		},
		Aggregation: aggregation(cluster("swarm control", types.DimensionInnovations, 0.3, "a", "b")),
		Diagnostics: types.Diagnostics{
			Submitted: 3,
			Failures:  []types.PaperFailure{{PaperID: "x", Kind: types.FailureTimeout}},
		},
	}
	first, err := Build(in)
	require.NoError(t, err)
	second, err := Build(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildDiagnostics(t *testing.T) {
	papers := []types.PaperRecord{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}, {ID: "p4"}}
	agg := aggregation()
	agg.Truncated = 2
	agg.Warnings = []string{aggregate.WarnNoSignals}

	rec, err := Build(Input{
		Papers:      papers,
		Aggregation: agg,
		Diagnostics: types.Diagnostics{
			Submitted:       5,
			SkippedSegments: 7,
			Failures: []types.PaperFailure{
				{PaperID: "p5", Kind: types.FailureUnreadable, Message: "not a PDF"},
			},
		},
	})
	require.NoError(t, err)

	d := rec.Diagnostics
	assert.Equal(t, 5, d.Submitted)
	assert.Equal(t, 4, d.Analyzed)
	assert.Equal(t, 4, rec.Overview.TotalPapers)
	assert.Equal(t, map[string]int{types.FailureUnreadable: 1}, d.FailuresByKind)
	assert.Equal(t, 7, d.SkippedSegments)
	assert.Equal(t, 2, d.TruncatedClusters)
	assert.Equal(t, []string{aggregate.WarnNoSignals}, d.Warnings)
}

func TestBuildSubmittedFloor(t *testing.T) {
	rec, err := Build(Input{
		Papers:      []types.PaperRecord{{ID: "a"}},
		Aggregation: aggregation(),
		Diagnostics: types.Diagnostics{Failures: []types.PaperFailure{{PaperID: "b", Kind: types.FailureEmpty}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Diagnostics.Submitted)
}

func TestReferenceAnalysis(t *testing.T) {
	papers := []types.PaperRecord{
		{ID: "a", References: []string{"Shared Work", "Another Shared", "Only A"}},
		{ID: "b", References: []string{"shared   work.", "ANOTHER SHARED"}},
		{ID: "c", References: []string{"Shared Work", "Another shared", "Only C", "More C"}},
	}
	ra := referenceAnalysis(papers)
	assert.Equal(t, 9, ra.TotalReferences)
	assert.Equal(t, 3.0, ra.AveragePerPaper)
	assert.Equal(t, []string{"Another Shared", "Shared Work"}, ra.CommonReferences)

	single := referenceAnalysis(papers[:1])
	assert.Empty(t, single.CommonReferences)
	assert.Equal(t, 3, single.TotalReferences)
}

func TestSummaries(t *testing.T) {
	long := strings.Repeat("x", 600)
	got := summaries([]types.PaperRecord{
		{ID: "a", Abstract: long},
		{ID: "b", Title: "  Titled  ", Abstract: "Short."},
	})
	require.Len(t, got, 2)
	assert.Equal(t, untitled, got[0].Title)
	assert.Equal(t, strings.Repeat("x", 500)+"...", got[0].Abstract)
	assert.NotNil(t, got[0].Authors)
	assert.Equal(t, "Titled", got[1].Title)
	assert.Equal(t, "Short.", got[1].Abstract)

	empty := summaries([]types.PaperRecord{{ID: "c"}})
	assert.Equal(t, noAbstract, empty[0].Abstract)
}

func TestEntryPhrases(t *testing.T) {
	c := types.ThemeCluster{
		Label:                 "Drug Delivery",
		RepresentativePaperID: "a",
		Importance:            0.333333,
		Members: []types.TopicSignal{
			{PaperID: "a", Phrase: "Drug Delivery"},
			{PaperID: "b", Phrase: "drug delivery"},
			{PaperID: "c", Phrase: "targeted drug delivery"},
		},
	}
	e := entry(&c)
	assert.Equal(t, []string{"Drug Delivery", "targeted drug delivery"}, e.Phrases)
	assert.Equal(t, 3, e.MemberCount)
	assert.Equal(t, 0.333333, e.Importance)
}
