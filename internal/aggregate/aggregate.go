// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate clusters topic signals across papers and assigns each
// cluster to one of the four analytical dimensions.
//
// Clustering is a single greedy pass over signals in a stable order (paper
// id, then extraction order): a signal joins the first cluster whose seed
// is at least SimilarityThreshold similar to it, otherwise it seeds a new
// cluster. The result depends only on the input and the configuration.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// Warning texts reported for degenerate corpora.
const (
	WarnNoSignals = "no topic signals were extracted from the corpus"
	WarnAllPruned = "every theme cluster fell below the minor observation floor"
	WarnNoPapers  = "no papers were analyzed"
)

// defaultDivisor replaces a zero corpus size when computing importance.
const defaultDivisor = 1

// importanceScale is the precision importance is rounded to before
// clusters are ranked, so ranking and serialized values agree.
const importanceScale = 1e6

// Result is the outcome of aggregation.
type Result struct {
	// Clusters holds the clusters of each dimension ordered by importance
	// desc, then label. Every dimension is present, possibly empty.
	Clusters map[types.Dimension][]types.ThemeCluster

	// Minor holds single-signal clusters demoted below the floor.
	Minor []types.ThemeCluster

	// Truncated counts clusters dropped by MaxClustersPerDimension.
	Truncated int

	// Warnings holds corpus-level warnings.
	Warnings []string
}

// Aggregate clusters signals for a corpus of corpusSize papers.
func Aggregate(signals []types.TopicSignal, corpusSize int, cfg types.AnalysisConfig) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Clusters: make(map[types.Dimension][]types.ThemeCluster, len(types.Dimensions))}
	for _, d := range types.Dimensions {
		res.Clusters[d] = []types.ThemeCluster{}
	}
	res.Minor = []types.ThemeCluster{}

	if corpusSize == 0 {
		res.Warnings = append(res.Warnings, WarnNoPapers)
	}
	if len(signals) == 0 {
		res.Warnings = append(res.Warnings, WarnNoSignals)
		return res, nil
	}

	rules := cfg.Rules()
	kept := 0
	for _, members := range cluster(signals, cfg.SimilarityThreshold) {
		c := finalize(members, corpusSize, rules)
		if len(c.Members) == 1 && c.Importance < cfg.MinorObservationFloor {
			res.Minor = append(res.Minor, c)
			continue
		}
		res.Clusters[c.Dimension] = append(res.Clusters[c.Dimension], c)
		kept++
	}
	if kept == 0 {
		res.Warnings = append(res.Warnings, WarnAllPruned)
	}

	limit := cfg.MaxClustersPerDimension
	for _, d := range types.Dimensions {
		cs := res.Clusters[d]
		sortClusters(cs)
		if limit > 0 && len(cs) > limit {
			res.Truncated += len(cs) - limit
			cs = cs[:limit]
		}
		res.Clusters[d] = cs
	}
	sortClusters(res.Minor)
	if limit > 0 && len(res.Minor) > limit {
		res.Minor = res.Minor[:limit]
	}
	return res, nil
}

// cluster runs the greedy single pass and returns the members of each
// cluster in creation order.
func cluster(signals []types.TopicSignal, threshold float64) [][]types.TopicSignal {
	ordered := make([]types.TopicSignal, len(signals))
	copy(ordered, signals)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PaperID < ordered[j].PaperID
	})

	type building struct {
		seed    map[string]bool
		members []types.TopicSignal
	}
	var clusters []*building
	for _, s := range ordered {
		toks := tokenSet(s.Key)
		var target *building
		for _, c := range clusters {
			if jaccard(toks, c.seed) >= threshold {
				target = c
				break
			}
		}
		if target == nil {
			target = &building{seed: toks}
			clusters = append(clusters, target)
		}
		target.members = append(target.members, s)
	}

	out := make([][]types.TopicSignal, len(clusters))
	for i, c := range clusters {
		out[i] = c.members
	}
	return out
}

// finalize derives the label, representative, importance, and dimension of
// a cluster from its members.
func finalize(members []types.TopicSignal, corpusSize int, rules types.RuleTable) types.ThemeCluster {
	rep := members[0]
	var sum float64
	papers := make(map[string]bool)
	sections := make(map[string]int)
	sectionFirst := make(map[string]int)
	for i, m := range members {
		sum += m.Score
		papers[m.PaperID] = true
		sections[m.Section]++
		if _, ok := sectionFirst[m.Section]; !ok {
			sectionFirst[m.Section] = i
		}
		if better(m, rep) {
			rep = m
		}
	}

	divisor := corpusSize
	if divisor <= 0 {
		divisor = defaultDivisor
	}

	ids := make([]string, 0, len(papers))
	for id := range papers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	dominant := ""
	for s, n := range sections {
		if dominant == "" || n > sections[dominant] ||
			(n == sections[dominant] && sectionFirst[s] < sectionFirst[dominant]) {
			dominant = s
		}
	}

	return types.ThemeCluster{
		Label:                 rep.Phrase,
		Members:               members,
		RepresentativePaperID: rep.PaperID,
		Importance:            math.Round(sum/float64(divisor)*importanceScale) / importanceScale,
		Dimension:             Evaluate(rules, sections),
		DominantSection:       dominant,
		PaperIDs:              ids,
	}
}

// better reports whether a should represent a cluster instead of b.
func better(a, b types.TopicSignal) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.PaperID != b.PaperID {
		return a.PaperID < b.PaperID
	}
	return a.Order < b.Order
}

// Evaluate picks the dimension for a cluster from the section distribution
// of its members. Each member votes for the dimension its section maps to;
// unmapped sections vote for research trends. A tie for the most votes
// resolves to research trends.
func Evaluate(rules types.RuleTable, sections map[string]int) types.Dimension {
	votes := make(map[types.Dimension]int, len(types.Dimensions))
	for section, n := range sections {
		d, ok := rules[section]
		if !ok || !d.Valid() {
			d = types.DimensionTrends
		}
		votes[d] += n
	}

	best, bestVotes, tied := types.DimensionTrends, 0, false
	for _, d := range types.Dimensions {
		switch n := votes[d]; {
		case n > bestVotes:
			best, bestVotes, tied = d, n, false
		case n == bestVotes && n > 0:
			tied = true
		}
	}
	if tied {
		return types.DimensionTrends
	}
	return best
}

// Similarity returns the Jaccard similarity of the token sets of two
// signal keys.
func Similarity(a, b string) float64 {
	return jaccard(tokenSet(a), tokenSet(b))
}

func tokenSet(key string) map[string]bool {
	set := make(map[string]bool)
	for _, f := range strings.Fields(key) {
		set[f] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

// sortClusters orders clusters by importance desc, then label, then
// representative paper.
func sortClusters(cs []types.ThemeCluster) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Importance != cs[j].Importance {
			return cs[i].Importance > cs[j].Importance
		}
		if cs[i].Label != cs[j].Label {
			return cs[i].Label < cs[j].Label
		}
		return cs[i].RepresentativePaperID < cs[j].RepresentativePaperID
	})
}
