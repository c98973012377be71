// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns a PaperRecord into clean sentence-level units,
// each tagged with the section it came from. Reference markers, page
// headers, URLs, and similar boilerplate are removed; every unit keeps a
// display form and a case-folded matching form.
//
// Normalize is a pure function and safe to call from parallel workers.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/litreview/pkg/types"
)

const (
	// minLetters is the minimum number of letters a unit must carry.
	minLetters = 10
	// minLetterRatio rejects segments dominated by digits and symbols
	// (tables, equations, extraction debris).
	minLetterRatio = 0.5
	// maxUnitRunes rejects run-on segments where sentence boundaries were lost.
	maxUnitRunes = 1500
)

// Result holds the units of one paper and the number of segments dropped
// as malformed.
type Result struct {
	Units   []types.NormalizedUnit
	Skipped int
}

var (
	// numericRefRe matches numeric reference markers: [1], [2, 5], [3-7].
	numericRefRe = regexp.MustCompile(`\[\s*\d+(?:\s*[-–,;]\s*\d+)*\s*\]`)

	// authorYearRefRe matches parenthesized author-year markers such as
	// (Smith et al., 2020) or (Brown and Lee 2019; Wu, 2021a).
	authorYearRefRe = regexp.MustCompile(`\(\s*[A-Z][^()]{0,120}?(?:19|20)\d{2}[a-z]?\s*\)`)

	urlRe = regexp.MustCompile(`(?i)\bhttps?://\S+|\bwww\.\S+`)
	doiRe = regexp.MustCompile(`(?i)\b(?:doi:\s*)?10\.\d{4,9}/\S+`)

	// pageLineRe matches whole lines that are page furniture: page numbers,
	// "Page 3 of 12", copyright notices.
	pageLineRe = regexp.MustCompile(`(?im)^[ \t]*(?:page[ \t]+\d+(?:[ \t]+of[ \t]+\d+)?|\d+[ \t]+of[ \t]+\d+|\d{1,4}|(?:©|\(c\)|copyright\b).*|.*all rights reserved\.?)[ \t]*$`)

	// hyphenBreakRe joins words hyphenated across a line break.
	hyphenBreakRe = regexp.MustCompile(`(\p{L})-[ \t]*\n[ \t]*(\p{Ll})`)

	spaceBeforePunctRe = regexp.MustCompile(`\s+([.,;:!?])`)
	spaceRe            = regexp.MustCompile(`\s+`)
)

// skipSections lists section labels that never produce units.
var skipSections = map[string]bool{
	types.SectionReferences:      true,
	types.SectionAcknowledgments: true,
}

// Normalize cleans and splits the text of p into units. A paper with no
// text yields zero units.
func Normalize(p *types.PaperRecord) Result {
	var res Result
	if p == nil {
		return res
	}
	folder := cases.Fold()

	add := func(label, text string) {
		for _, sentence := range splitSentences(clean(text)) {
			if malformed(sentence) {
				res.Skipped++
				continue
			}
			res.Units = append(res.Units, types.NormalizedUnit{
				PaperID: p.ID,
				Section: label,
				Text:    sentence,
				Norm:    folder.String(sentence),
				Index:   len(res.Units),
			})
		}
	}

	if p.Title != "" {
		add(types.SectionTitle, p.Title)
	}
	if p.Abstract != "" {
		add(types.SectionAbstract, p.Abstract)
	}
	for _, s := range p.Sections {
		if skipSections[s.Label] {
			continue
		}
		if s.Label == types.SectionAbstract && p.Abstract != "" {
			continue
		}
		label := s.Label
		if label == "" {
			label = types.SectionBody
		}
		add(label, s.Text)
	}
	if len(p.Sections) == 0 && p.FullText != "" {
		add(types.SectionBody, p.FullText)
	}
	return res
}

// clean applies Unicode normalization and strips boilerplate from text.
func clean(text string) string {
	text = strings.ToValidUTF8(text, "")
	text = norm.NFKC.String(text)
	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")
	text = pageLineRe.ReplaceAllString(text, "")
	text = numericRefRe.ReplaceAllString(text, " ")
	text = authorYearRefRe.ReplaceAllString(text, " ")
	text = urlRe.ReplaceAllString(text, " ")
	text = doiRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	text = spaceBeforePunctRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// abbreviations end in a period without ending the sentence.
var abbreviations = map[string]bool{
	"al": true, "e.g": true, "i.e": true, "fig": true, "figs": true,
	"eq": true, "eqs": true, "vs": true, "cf": true, "ref": true,
	"refs": true, "approx": true, "resp": true, "no": true, "dr": true,
	"sec": true, "tab": true, "ca": true,
}

// splitSentences splits text at sentence terminators. A period ends a
// sentence only when followed by whitespace and a word that does not start
// in lower case, and when it does not close an abbreviation or an initial.
func splitSentences(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	var out []string
	start := 0
	emit := func(end int) {
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '。' {
			emit(i + 1)
			start = i + 1
			continue
		}
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if r == '.' && isAbbreviation(runes[start:i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j < len(runes) && unicode.IsLower(runes[j]) {
			continue
		}
		emit(i + 1)
		start = j
		i = j - 1
	}
	emit(len(runes))
	return out
}

// isAbbreviation reports whether the word ending seg is a known
// abbreviation or a single capital initial.
func isAbbreviation(seg []rune) bool {
	i := len(seg)
	for i > 0 && !unicode.IsSpace(seg[i-1]) {
		i--
	}
	word := strings.TrimLeft(string(seg[i:]), "([\"'")
	if word == "" {
		return false
	}
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsUpper(r)
	}
	return abbreviations[strings.ToLower(word)]
}

// malformed reports whether a segment is too short, too long, or not
// mostly text.
func malformed(s string) bool {
	var letters, total int
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < minLetters || total > maxUnitRunes {
		return true
	}
	return float64(letters)/float64(total) < minLetterRatio
}
