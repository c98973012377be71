// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich fills metadata gaps in extracted records from the
// CrossRef works API. Fields the extractor already found are never
// overwritten.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/pkg/types"
)

// crossrefAPIBase is a variable so tests can point it at a local server.
var crossrefAPIBase = "https://api.crossref.org/works/"

const (
	userAgent  = "litreview/1.0"
	maxRetries = 3
)

var markupRe = regexp.MustCompile(`<[^>]+>`)

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	Title    []string         `json:"title"`
	Abstract string           `json:"abstract"`
	Author   []crossrefAuthor `json:"author"`
	Issued   crossrefDate     `json:"issued"`
	Created  crossrefDate     `json:"created"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

func (d crossrefDate) year() int {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return d.DateParts[0][0]
	}
	return 0
}

// Enricher looks up records by DOI.
type Enricher struct {
	client *http.Client
	agent  string
	log    *slog.Logger
}

// New creates an Enricher. When cfg.Mailto is set it is sent in the
// User-Agent so requests use CrossRef's polite pool.
func New(cfg types.EnrichConfig, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	agent := userAgent
	if cfg.Mailto != "" {
		agent = fmt.Sprintf("%s (mailto:%s)", userAgent, cfg.Mailto)
	}
	return &Enricher{
		client: &http.Client{Timeout: cfg.Timeout},
		agent:  agent,
		log:    logger,
	}
}

// Enrich fills missing title, authors, year, and abstract of rec from
// CrossRef. Records without a DOI, or with nothing missing, are left
// untouched without a request. It reports whether any field changed.
func (e *Enricher) Enrich(ctx context.Context, rec *types.PaperRecord) (bool, error) {
	doi := strings.TrimSpace(rec.DOI)
	if doi == "" || !needsEnrichment(rec) {
		return false, nil
	}

	work, err := e.fetch(ctx, doi)
	if err != nil {
		return false, err
	}

	changed := false
	if rec.Title == "" && len(work.Title) > 0 {
		rec.Title = strings.TrimSpace(work.Title[0])
		changed = true
	}
	if len(rec.Authors) == 0 {
		for _, a := range work.Author {
			name := strings.TrimSpace(a.Given + " " + a.Family)
			if name == "" {
				name = strings.TrimSpace(a.Name)
			}
			if name != "" {
				rec.Authors = append(rec.Authors, name)
				changed = true
			}
		}
	}
	if rec.Year == 0 {
		if y := work.Issued.year(); y > 0 {
			rec.Year = y
			changed = true
		} else if y := work.Created.year(); y > 0 {
			rec.Year = y
			changed = true
		}
	}
	if rec.Abstract == "" && work.Abstract != "" {
		rec.Abstract = stripMarkup(work.Abstract)
		changed = rec.Abstract != "" || changed
	}

	if changed {
		e.log.Debug("enriched record from crossref", "paper", rec.ID, "doi", doi)
	}
	return changed, nil
}

func needsEnrichment(rec *types.PaperRecord) bool {
	return rec.Title == "" || len(rec.Authors) == 0 || rec.Year == 0 || rec.Abstract == ""
}

// fetch retrieves the CrossRef work for a DOI.
func (e *Enricher) fetch(ctx context.Context, doi string) (*crossrefWork, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefAPIBase+doi, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.agent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, e.client, req, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CrossRef API returned HTTP %d for %s", resp.StatusCode, doi)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing CrossRef response: %w", err)
	}
	return &cr.Message, nil
}

// stripMarkup removes JATS tags from a CrossRef abstract and collapses
// whitespace.
func stripMarkup(s string) string {
	s = markupRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
