// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// TEI document structure as produced by GROBID's fulltext service. Only
// the elements the engine uses are mapped.
type teiDoc struct {
	Header struct {
		FileDesc struct {
			Titles          []teiNode `xml:"titleStmt>title"`
			PublicationDate teiDate   `xml:"publicationStmt>date"`
			Source          struct {
				Authors []teiAuthor `xml:"analytic>author"`
				Dates   []teiDate   `xml:"monogr>imprint>date"`
				IDNos   []teiIDNo   `xml:"idno"`
			} `xml:"sourceDesc>biblStruct"`
		} `xml:"fileDesc"`
		Abstract teiNode `xml:"profileDesc>abstract"`
	} `xml:"teiHeader"`
	Body struct {
		Divs []teiDiv `xml:"div"`
	} `xml:"text>body"`
	Back struct {
		Bibl []teiBibl `xml:"div>listBibl>biblStruct"`
	} `xml:"text>back"`
}

// teiNode captures an element's raw content so inline markup can be
// flattened into text.
type teiNode struct {
	Inner string `xml:",innerxml"`
}

type teiAuthor struct {
	Forenames []string `xml:"persName>forename"`
	Surname   string   `xml:"persName>surname"`
}

type teiDate struct {
	Type string `xml:"type,attr"`
	When string `xml:"when,attr"`
	Text string `xml:",chardata"`
}

type teiIDNo struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type teiDiv struct {
	Head  teiNode   `xml:"head"`
	Paras []teiNode `xml:"p"`
}

type teiBibl struct {
	Analytic []teiNode `xml:"analytic>title"`
	Monogr   []teiNode `xml:"monogr>title"`
}

var (
	// bibrRefRe matches GROBID's inline bibliography pointers, which are
	// dropped along with their marker text.
	bibrRefRe = regexp.MustCompile(`(?s)<ref\b[^>]*type="bibr"[^>]*>.*?</ref>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
	punctGap  = regexp.MustCompile(`\s+([.,;:!?)])`)
)

// ParseTEI converts a GROBID TEI document into a PaperRecord. ID,
// SourcePath, and Backend are left for the caller.
func ParseTEI(r io.Reader) (*types.PaperRecord, error) {
	var doc teiDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding TEI: %w", err)
	}

	fd := &doc.Header.FileDesc
	rec := &types.PaperRecord{
		Title:    firstText(fd.Titles),
		Abstract: flatten(doc.Header.Abstract.Inner),
	}

	for _, a := range fd.Source.Authors {
		name := strings.TrimSpace(strings.Join(append(trimAll(a.Forenames), strings.TrimSpace(a.Surname)), " "))
		if name != "" {
			rec.Authors = append(rec.Authors, name)
		}
	}

	dates := append([]teiDate{}, fd.Source.Dates...)
	dates = append(dates, fd.PublicationDate)
	for _, d := range dates {
		if y := firstYear(d.When + " " + d.Text); y > 0 {
			rec.Year = y
			break
		}
	}

	for _, id := range fd.Source.IDNos {
		if strings.EqualFold(id.Type, "DOI") {
			rec.DOI = strings.TrimSpace(id.Value)
			break
		}
	}

	label := types.SectionBody
	for _, div := range doc.Body.Divs {
		heading := flatten(div.Head.Inner)
		if heading != "" {
			label = LabelSection(heading)
		}
		var paras []string
		for _, p := range div.Paras {
			if t := flatten(p.Inner); t != "" {
				paras = append(paras, t)
			}
		}
		if len(paras) == 0 {
			continue
		}
		if label == types.SectionAbstract && rec.Abstract == "" {
			rec.Abstract = strings.Join(paras, "\n\n")
			continue
		}
		rec.Sections = append(rec.Sections, types.Section{
			Label:   label,
			Heading: heading,
			Text:    strings.Join(paras, "\n\n"),
		})
	}

	for _, b := range doc.Back.Bibl {
		title := firstText(b.Analytic)
		if title == "" {
			title = firstText(b.Monogr)
		}
		if title != "" {
			rec.References = append(rec.References, title)
		}
	}
	return rec, nil
}

// flatten strips markup from inner XML and collapses whitespace.
func flatten(inner string) string {
	s := bibrRefRe.ReplaceAllString(inner, "")
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return punctGap.ReplaceAllString(strings.Join(strings.Fields(s), " "), "$1")
}

func firstText(nodes []teiNode) string {
	for _, n := range nodes {
		if t := flatten(n.Inner); t != "" {
			return t
		}
	}
	return ""
}

func trimAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
