// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AnalysisConfig)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*AnalysisConfig) {}},
		{
			name:    "zero threshold",
			mutate:  func(c *AnalysisConfig) { c.SimilarityThreshold = 0 },
			wantErr: "similarity_threshold",
		},
		{
			name:    "threshold above one",
			mutate:  func(c *AnalysisConfig) { c.SimilarityThreshold = 1.5 },
			wantErr: "similarity_threshold",
		},
		{
			name:    "negative floor",
			mutate:  func(c *AnalysisConfig) { c.MinorObservationFloor = -0.1 },
			wantErr: "minor_observation_floor",
		},
		{
			name:    "negative max clusters",
			mutate:  func(c *AnalysisConfig) { c.MaxClustersPerDimension = -1 },
			wantErr: "max_clusters_per_dimension",
		},
		{
			name: "unknown dimension in rule table",
			mutate: func(c *AnalysisConfig) {
				c.DimensionRuleTable = RuleTable{"methods": "methodology"}
			},
			wantErr: "unknown dimension",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig().Analysis
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAnalysisConfigRulesOverride(t *testing.T) {
	cfg := DefaultConfig().Analysis
	cfg.DimensionRuleTable = RuleTable{
		SectionDiscussion: DimensionChallenges,
		"appendix":        DimensionInnovations,
	}

	rules := cfg.Rules()
	assert.Equal(t, DimensionChallenges, rules[SectionDiscussion])
	assert.Equal(t, DimensionInnovations, rules["appendix"])
	assert.Equal(t, DimensionFuture, rules[SectionConclusion])

	// The default table is rebuilt on every call.
	assert.Equal(t, DimensionInnovations, DefaultRuleTable()[SectionDiscussion])
}

func TestRecordDimensionAccessors(t *testing.T) {
	var rec AnalyticalRecord
	for i, d := range Dimensions {
		rec.SetDimension(d, []ClusterEntry{{Label: string(d), MemberCount: i + 1}})
	}
	for i, d := range Dimensions {
		got := rec.Dimension(d)
		if assert.Len(t, got, 1) {
			assert.Equal(t, string(d), got[0].Label)
			assert.Equal(t, i+1, got[0].MemberCount)
		}
	}
	assert.Nil(t, rec.Dimension("unknown"))
	assert.False(t, Dimension("unknown").Valid())
}
