// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/litreview/pkg/types"
)

// block is a run of text under one heading.
type block struct {
	heading string
	body    string
}

var (
	doiRe            = regexp.MustCompile(`\b10\.\d{4,9}/[^\s"<>]+`)
	inlineAbstractRe = regexp.MustCompile(`^(?i:abstract)(?:\s*[-—–:.]\s*|\s+)(\S.{19,})$`)
)

const (
	maxHeadingRunes = 60
	maxHeadingWords = 4
	yearSearchRunes = 3000
)

// assemble builds a record from a title and headed blocks. Abstract blocks
// become the abstract, reference blocks become the bibliography, and the
// rest become labeled sections.
func assemble(title string, blocks []block) *types.PaperRecord {
	rec := &types.PaperRecord{Title: strings.TrimSpace(title)}
	for _, b := range blocks {
		body := strings.TrimSpace(b.body)
		label := types.SectionBody
		if b.heading != "" {
			label = LabelSection(b.heading)
		}
		switch label {
		case types.SectionAbstract:
			if body != "" {
				rec.Abstract = strings.TrimSpace(rec.Abstract + "\n\n" + body)
			}
		case types.SectionReferences:
			rec.References = append(rec.References, referenceTitles(b.body)...)
		default:
			if body == "" {
				continue
			}
			rec.Sections = append(rec.Sections, types.Section{Label: label, Heading: b.heading, Text: body})
		}
	}
	return rec
}

// parsePlain structures raw page text: the first title-like line is the
// title, short capitalized lines naming a known section start new blocks,
// and the year and DOI come from the text itself.
func parsePlain(text string) *types.PaperRecord {
	var (
		blocks []block
		cur    block
		body   []string
		title  string
		begun  bool
	)
	flush := func() {
		cur.body = strings.Join(body, "\n")
		if cur.heading != "" || strings.TrimSpace(cur.body) != "" {
			blocks = append(blocks, cur)
		}
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		l := strings.TrimSpace(line)
		if l == "" {
			body = append(body, "")
			continue
		}
		if m := inlineAbstractRe.FindStringSubmatch(l); m != nil {
			begun = true
			flush()
			cur = block{heading: "Abstract"}
			body = append(body, m[1])
			continue
		}
		if !begun {
			begun = true
			if titleLike(l) {
				title = l
				continue
			}
		}
		if isPlainHeading(l) {
			flush()
			cur = block{heading: l}
			continue
		}
		body = append(body, l)
	}
	flush()

	rec := assemble(title, blocks)
	rec.Year = firstYear(prefix(text, yearSearchRunes))
	rec.DOI = findDOI(text)
	rec.FullText = strings.TrimSpace(text)
	return rec
}

// parseMarkdown structures markitdown output using its heading lines. A
// level-one heading before any section is the title.
func parseMarkdown(md string) *types.PaperRecord {
	title := ""
	var blocks []block
	for _, sec := range chunkByHeadings(md) {
		if sec.level == 1 && title == "" && len(blocks) == 0 {
			title = sec.heading
			if strings.TrimSpace(sec.body) != "" {
				blocks = append(blocks, block{body: sec.body})
			}
			continue
		}
		blocks = append(blocks, block{heading: sec.heading, body: sec.body})
	}

	rec := assemble(title, blocks)
	rec.Year = firstYear(prefix(md, yearSearchRunes))
	rec.DOI = findDOI(md)
	return rec
}

// titleLike reports whether a line could be a paper title.
func titleLike(l string) bool {
	n := len(strings.Fields(l))
	if n < 3 || n > 30 || strings.Contains(l, "@") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(l)
	return unicode.IsUpper(r)
}

// isPlainHeading reports whether a line of extracted text is a section
// heading: short, capitalized, without terminal punctuation, and naming a
// known section.
func isPlainHeading(l string) bool {
	if utf8.RuneCountInString(l) > maxHeadingRunes {
		return false
	}
	numbered := headingNumberRe.MatchString(l)
	stripped := strings.TrimSpace(headingNumberRe.ReplaceAllString(l, ""))
	if stripped == "" {
		return false
	}
	if last, _ := utf8.DecodeLastRuneInString(stripped); strings.ContainsRune(".,;:", last) {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(stripped); !unicode.IsUpper(r) {
		return false
	}
	if !numbered && len(strings.Fields(stripped)) > maxHeadingWords {
		return false
	}
	return LabelSection(stripped) != types.SectionBody
}

func findDOI(text string) string {
	return strings.TrimRight(doiRe.FindString(text), ".,;)]")
}

func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

type mdSection struct {
	level   int
	heading string
	body    string
}

// chunkByHeadings splits Markdown into sections at ATX heading lines. Each
// section carries the heading text, its level, and the body up to the next
// heading. Page markers (<!-- page 3 -->) are dropped.
func chunkByHeadings(content string) []mdSection {
	var sections []mdSection
	var cur mdSection
	var bodyLines []string

	flush := func() {
		cur.body = strings.Join(bodyLines, "\n")
		if cur.heading != "" || strings.TrimSpace(cur.body) != "" {
			sections = append(sections, cur)
		}
		bodyLines = nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if _, ok := parsePageMarker(trimmed); ok {
			continue
		}

		if level := headingLevel(trimmed); level > 0 {
			flush()
			cur = mdSection{level: level, heading: stripHeadingPrefix(trimmed)}
			continue
		}

		bodyLines = append(bodyLines, line)
	}

	flush()
	return sections
}

// headingLevel returns the ATX level of a heading line, or 0.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || n >= len(line) || line[n] != ' ' {
		return 0
	}
	return n
}

// stripHeadingPrefix removes the leading # characters, emphasis markers,
// and whitespace.
func stripHeadingPrefix(line string) string {
	return strings.Trim(strings.TrimSpace(strings.TrimLeft(line, "#")), "*_ ")
}

// parsePageMarker extracts the page number from an HTML comment like <!-- page 3 -->.
func parsePageMarker(line string) (int, bool) {
	if !strings.HasPrefix(line, "<!-- page ") || !strings.HasSuffix(line, " -->") {
		return 0, false
	}
	inner := strings.TrimPrefix(line, "<!-- page ")
	inner = strings.TrimSuffix(inner, " -->")
	var page int
	if _, err := fmt.Sscanf(inner, "%d", &page); err != nil {
		return 0, false
	}
	return page, true
}
