// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// headingNumberRe matches leading section numbering such as "2.", "3.1",
// "IV." or "A." in front of a heading.
var headingNumberRe = regexp.MustCompile(`^\s*(?:\d+(?:\.\d+)*|[IVXivx]+|[A-H])[.):]?\s+`)

// labelRules map heading keywords to section labels. Rules are tried in
// order, so "Results and discussion" is a results section and "Conclusions
// and future work" is future work.
var labelRules = []struct {
	label    string
	keywords []string
}{
	{types.SectionReferences, []string{"reference", "bibliograph", "works cited"}},
	{types.SectionAcknowledgments, []string{"acknowledg", "funding"}},
	{types.SectionAbstract, []string{"abstract"}},
	{types.SectionFutureWork, []string{"future work", "future direction", "future research", "outlook", "perspective", "prospect"}},
	{types.SectionLimitations, []string{"limitation", "challenge", "open problem", "open issue", "drawback", "threats to validity"}},
	{types.SectionConclusion, []string{"conclusion", "concluding", "summary"}},
	{types.SectionMethods, []string{"method", "material", "experimental section", "fabrication", "synthesis", "setup", "procedure", "approach", "design"}},
	{types.SectionResults, []string{"result", "experiment", "evaluation", "performance", "finding", "characteri"}},
	{types.SectionDiscussion, []string{"discussion"}},
	{types.SectionIntroduction, []string{"introduction"}},
	{types.SectionBackground, []string{"background", "related work", "literature review", "preliminar", "state of the art", "overview"}},
}

// LabelSection maps a section heading to a section label. Headings that
// match no rule are labeled body.
func LabelSection(heading string) string {
	h := strings.ToLower(strings.TrimSpace(headingNumberRe.ReplaceAllString(heading, "")))
	if h == "" {
		return types.SectionBody
	}
	for _, rule := range labelRules {
		for _, kw := range rule.keywords {
			if strings.Contains(h, kw) {
				return rule.label
			}
		}
	}
	return types.SectionBody
}
