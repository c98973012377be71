// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litreview/pkg/types"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "numeric reference markers",
			in:   "Micromotors were reported [1], [2, 5] and later refined [3-7].",
			want: "Micromotors were reported, and later refined.",
		},
		{
			name: "author-year markers",
			in:   "Propulsion was studied (Smith et al., 2020) in detail (Brown and Lee 2019; Wu, 2021a).",
			want: "Propulsion was studied in detail.",
		},
		{
			name: "page furniture lines",
			in:   "First line of text\nPage 3 of 12\n14\nCopyright 2021 Elsevier\nsecond line continues",
			want: "First line of text second line continues",
		},
		{
			name: "hyphenation across line breaks",
			in:   "targeted drug de-\nlivery systems",
			want: "targeted drug delivery systems",
		},
		{
			name: "urls and dois",
			in:   "Code is at https://github.com/x/y and doi:10.1000/xyz123 online.",
			want: "Code is at and online.",
		},
		{
			name: "NFKC folds ligatures and full-width forms",
			in:   "ﬁnite element ＡＢＣ",
			want: "finite element ABC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clean(tt.in))
		})
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "simple sentences",
			in:   "The first sentence. The second one! A third?",
			want: []string{"The first sentence.", "The second one!", "A third?"},
		},
		{
			name: "abbreviations do not split",
			in:   "As shown by Smith et al. in Fig. 3 the effect holds, e.g. for small particles. Next sentence here.",
			want: []string{
				"As shown by Smith et al. in Fig. 3 the effect holds, e.g. for small particles.",
				"Next sentence here.",
			},
		},
		{
			name: "decimals and initials",
			in:   "The speed was 3.5 um/s according to J. Wang. It doubled.",
			want: []string{"The speed was 3.5 um/s according to J. Wang.", "It doubled."},
		},
		{
			name: "lowercase continuation is not a boundary",
			in:   "values near approx. five percent. Done.",
			want: []string{"values near approx. five percent.", "Done."},
		},
		{
			name: "ideographic full stop",
			in:   "微型马达。药物递送。",
			want: []string{"微型马达。", "药物递送。"},
		},
		{name: "empty", in: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSentences(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	p := &types.PaperRecord{
		ID:       "paper-a",
		Title:    "Light Driven Micromotors for Targeted Drug Delivery",
		Abstract: "We present light driven micromotors [1]. They move through viscous fluids.",
		Sections: []types.Section{
			{Label: types.SectionAbstract, Text: "Duplicate abstract text that should be ignored here."},
			{Label: types.SectionMethods, Text: "Janus particles were fabricated by sputtering platinum."},
			{Label: types.SectionResults, Text: "12.5 3.4 7.7 9.9 | 1.1 2.2 3.3"},
			{Label: types.SectionReferences, Text: "Smith J. Micromotors review. Nature, 2019."},
			{Label: "", Text: "Unlabelled paragraphs fall back to the body label."},
		},
	}

	res := Normalize(p)

	require.Len(t, res.Units, 5)
	assert.Equal(t, 1, res.Skipped, "numeric table row is malformed")

	wantSections := []string{
		types.SectionTitle,
		types.SectionAbstract,
		types.SectionAbstract,
		types.SectionMethods,
		types.SectionBody,
	}
	for i, u := range res.Units {
		assert.Equal(t, "paper-a", u.PaperID)
		assert.Equal(t, i, u.Index)
		assert.Equal(t, wantSections[i], u.Section, "unit %d", i)
		assert.Equal(t, strings.ToLower(u.Text), u.Norm)
		assert.NotContains(t, u.Text, "[1]")
	}
	assert.Equal(t, "We present light driven micromotors.", res.Units[1].Text)
}

func TestNormalizeFullTextFallback(t *testing.T) {
	p := &types.PaperRecord{
		ID:       "raw",
		FullText: "Acoustic propulsion enables deep tissue access. Magnetic guidance adds steering.",
	}
	res := Normalize(p)
	require.Len(t, res.Units, 2)
	for _, u := range res.Units {
		assert.Equal(t, types.SectionBody, u.Section)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(&types.PaperRecord{ID: "empty"}).Units)
	assert.Empty(t, Normalize(nil).Units)
}

func TestNormalizeInvalidUTF8(t *testing.T) {
	p := &types.PaperRecord{ID: "bad", Abstract: "Enzyme powered \xff\xfe nanomotors swim in urea solutions."}
	res := Normalize(p)
	require.Len(t, res.Units, 1)
	assert.Equal(t, "Enzyme powered nanomotors swim in urea solutions.", res.Units[0].Text)
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"two-word title", "Helical Swimmers", false},
		{"sentence", "Magnetic microrobots reach the tumour site.", false},
		{"too few letters", "Fig. 3b", true},
		{"numeric row", "12.5 13.1 14.8 15.2 16.0 abc", true},
		{"run-on", strings.Repeat("microrobot ", 200), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, malformed(tt.in))
		})
	}
}
