// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Canonical section labels assigned by the extraction backends. The
// dimension rule table keys on these values.
const (
	SectionTitle        = "title"
	SectionAbstract     = "abstract"
	SectionIntroduction = "introduction"
	SectionBackground   = "background"
	SectionMethods      = "methods"
	SectionResults      = "results"
	SectionDiscussion   = "discussion"
	SectionLimitations  = "limitations"
	SectionConclusion   = "conclusion"
	SectionFutureWork   = "future_work"
	SectionBody         = "body"

	// Sections with these labels carry no analyzable content.
	SectionReferences      = "references"
	SectionAcknowledgments = "acknowledgments"
)

// Section is one headed block of a paper's body text.
type Section struct {
	// Label is the canonical section label (e.g. "methods", "results").
	Label string `json:"label" yaml:"label"`

	// Heading is the heading text as it appears in the paper.
	Heading string `json:"heading,omitempty" yaml:"heading,omitempty"`

	// Text is the section body.
	Text string `json:"text" yaml:"text"`
}

// PaperRecord is the structured content of one PDF as returned by an
// extraction backend. A record is immutable once produced.
type PaperRecord struct {
	// ID is a slug derived from the PDF filename, unique within a run.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title. Empty when the backend could not find one.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year; 0 means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// DOI is the digital object identifier, when the backend found one.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Sections holds the body in document order.
	Sections []Section `json:"sections" yaml:"sections"`

	// FullText is the raw text of the paper, used when no sections were found.
	FullText string `json:"full_text,omitempty" yaml:"full_text,omitempty"`

	// References lists the titles of bibliography entries.
	References []string `json:"references,omitempty" yaml:"references,omitempty"`

	// SourcePath is the local path of the PDF this record was extracted from.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// Hash is the hex SHA-256 of the PDF bytes.
	Hash string `json:"hash,omitempty" yaml:"hash,omitempty"`

	// Backend names the extraction backend that produced the record.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
}

// HasText reports whether the record carries any analyzable text.
func (p *PaperRecord) HasText() bool {
	if p.Abstract != "" || p.FullText != "" {
		return true
	}
	for _, s := range p.Sections {
		if s.Text != "" {
			return true
		}
	}
	return false
}
