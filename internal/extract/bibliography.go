// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// bibMarkerRe matches the marker opening a numbered bibliography entry:
	// "[12] ..." or "12. ...".
	bibMarkerRe = regexp.MustCompile(`^\s*(?:\[(\d+)\]|(\d+)\.)\s+`)

	// authorBlockRe matches an author section like "Smith, A. and Jones, B."
	// or "Brown, T. et al." at the start of a bibliography entry, capturing
	// the author block so it can be separated from the title that follows.
	authorBlockRe = regexp.MustCompile(
		`^((?:[A-Z][a-z]+(?:,\s+[A-Z]\.?)?(?:,?\s+(?:and|&)\s+)?)+(?:\s*et\s+al\.)?)\s*[.]?\s+(.+)$`,
	)

	// initialRe matches single-letter author initials like "A." or "B." so
	// they are not mistaken for sentence ends.
	initialRe = regexp.MustCompile(`\b([A-Z])\.`)

	// yearRe matches a 4-digit year.
	yearRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
)

const minReferenceTitle = 8

// referenceTitles splits the text of a references section into entries
// and returns the title of each. Numbered entries may wrap across lines;
// without numbering each paragraph is one entry.
func referenceTitles(body string) []string {
	var titles []string
	for _, raw := range bibEntries(body) {
		if t := entryTitle(raw); len(t) >= minReferenceTitle {
			titles = append(titles, t)
		}
	}
	return titles
}

func bibEntries(body string) []string {
	lines := strings.Split(body, "\n")
	numbered := false
	for _, l := range lines {
		if bibMarkerRe.MatchString(l) {
			numbered = true
			break
		}
	}

	var entries []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			entries = append(entries, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, l := range lines {
		l = strings.TrimSpace(l)
		switch {
		case l == "":
			if !numbered {
				flush()
			}
		case numbered && bibMarkerRe.MatchString(l):
			flush()
			cur = append(cur, bibMarkerRe.ReplaceAllString(l, ""))
		case numbered && len(cur) == 0:
			// Text before the first numbered entry.
		default:
			cur = append(cur, l)
		}
	}
	flush()
	return entries
}

// entryTitle picks the title out of a raw bibliography entry: the first
// sentence after the author block, or the first sentence when no author
// block is recognized.
func entryTitle(raw string) string {
	raw = strings.Join(strings.Fields(raw), " ")
	if m := authorBlockRe.FindStringSubmatch(raw); m != nil {
		raw = m[2]
	}
	parts := splitOnPeriods(raw)
	if len(parts) == 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(parts[0]), `"“”`)
}

// splitOnPeriods splits a bibliography entry into segments at period
// boundaries without splitting on common abbreviations (et al., e.g., i.e.)
// or single-letter initials.
func splitOnPeriods(text string) []string {
	safe := strings.ReplaceAll(text, "et al.", "et al\x00")
	safe = strings.ReplaceAll(safe, "e.g.", "e\x00g\x00")
	safe = strings.ReplaceAll(safe, "i.e.", "i\x00e\x00")
	safe = initialRe.ReplaceAllString(safe, "${1}\x00")

	var result []string
	for _, p := range strings.Split(safe, ". ") {
		p = strings.ReplaceAll(p, "\x00", ".")
		p = strings.TrimSpace(strings.TrimRight(p, "."))
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// firstYear returns the first plausible publication year in text, or 0.
func firstYear(text string) int {
	m := yearRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	y, _ := strconv.Atoi(m[1])
	return y
}
