// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package signal extracts topic signals from normalized units. Candidate
// phrases are maximal runs of content words between stopwords and
// punctuation; each candidate is scored by its frequency within the paper
// weighted by its inverse document frequency across the corpus.
//
// Document frequencies come from a Corpus snapshot that is built once,
// after every paper has been normalized, and is read-only afterwards.
package signal

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/pdiddy/litreview/pkg/types"
)

// PaperUnits is the normalized content of one paper.
type PaperUnits struct {
	PaperID string
	Units   []types.NormalizedUnit
}

// Extractor finds and scores candidate phrases.
type Extractor struct {
	cfg  types.SignalConfig
	stop map[string]bool
}

// NewExtractor creates an Extractor, filling unset limits with defaults.
func NewExtractor(cfg types.SignalConfig) *Extractor {
	def := types.DefaultConfig().Signals
	if cfg.MinWords <= 0 {
		cfg.MinWords = def.MinWords
	}
	if cfg.MaxWords <= 0 {
		cfg.MaxWords = def.MaxWords
	}
	if cfg.MaxWords < cfg.MinWords {
		cfg.MaxWords = cfg.MinWords
	}
	if cfg.MinTokenLen <= 0 {
		cfg.MinTokenLen = def.MinTokenLen
	}
	if cfg.MaxSignalsPerPaper <= 0 {
		cfg.MaxSignalsPerPaper = def.MaxSignalsPerPaper
	}

	stop := make(map[string]bool, len(englishStopwords)+len(academicStopwords)+len(cfg.ExtraStopwords))
	for _, list := range [][]string{englishStopwords, academicStopwords, cfg.ExtraStopwords} {
		for _, w := range list {
			stop[strings.ToLower(strings.TrimSpace(w))] = true
		}
	}
	return &Extractor{cfg: cfg, stop: stop}
}

// Corpus is an immutable document-frequency snapshot of the analyzed papers.
type Corpus struct {
	docFreq map[string]int
	papers  int
}

// BuildCorpus counts, for every candidate key, the number of papers that
// contain it.
func (e *Extractor) BuildCorpus(papers []PaperUnits) *Corpus {
	c := &Corpus{docFreq: make(map[string]int), papers: len(papers)}
	folder := cases.Fold()
	for _, p := range papers {
		seen := make(map[string]bool)
		for _, cand := range e.candidates(p.Units, folder) {
			if seen[cand.key] {
				continue
			}
			seen[cand.key] = true
			c.docFreq[cand.key]++
		}
	}
	return c
}

// Papers returns the number of papers in the snapshot.
func (c *Corpus) Papers() int { return c.papers }

// DocFreq returns the number of papers containing key.
func (c *Corpus) DocFreq(key string) int { return c.docFreq[key] }

// IDF returns the smoothed inverse document frequency of key.
func (c *Corpus) IDF(key string) float64 {
	return math.Log(float64(1+c.papers)/float64(1+c.docFreq[key])) + 1
}

// phraseStats accumulates the occurrences of one key within a paper.
type phraseStats struct {
	display      string
	count        int
	first        int
	sections     map[string]int
	sectionFirst map[string]int
}

// Signals scores the candidates of one paper against the corpus snapshot.
// Signals are ordered by score, ties by first occurrence, and truncated to
// the configured maximum. A paper with no units yields no signals.
func (e *Extractor) Signals(p PaperUnits, c *Corpus) []types.TopicSignal {
	cands := e.candidates(p.Units, cases.Fold())
	if len(cands) == 0 {
		return nil
	}

	stats := make(map[string]*phraseStats)
	for _, cand := range cands {
		st, ok := stats[cand.key]
		if !ok {
			st = &phraseStats{
				display:      cand.display,
				first:        cand.order,
				sections:     make(map[string]int),
				sectionFirst: make(map[string]int),
			}
			stats[cand.key] = st
		}
		st.count++
		if _, ok := st.sectionFirst[cand.section]; !ok {
			st.sectionFirst[cand.section] = cand.order
		}
		st.sections[cand.section]++
	}

	total := float64(len(cands))
	signals := make([]types.TopicSignal, 0, len(stats))
	for key, st := range stats {
		tf := float64(st.count) / total
		signals = append(signals, types.TopicSignal{
			PaperID: p.PaperID,
			Phrase:  st.display,
			Key:     key,
			Score:   tf * c.IDF(key),
			Section: st.dominantSection(),
			Order:   st.first,
		})
	}

	sort.Slice(signals, func(i, j int) bool {
		if signals[i].Score != signals[j].Score {
			return signals[i].Score > signals[j].Score
		}
		return signals[i].Order < signals[j].Order
	})
	if len(signals) > e.cfg.MaxSignalsPerPaper {
		signals = signals[:e.cfg.MaxSignalsPerPaper]
	}
	return signals
}

// ExtractAll builds the corpus snapshot from papers and returns the signals
// of every paper, in paper order.
func (e *Extractor) ExtractAll(papers []PaperUnits) ([]types.TopicSignal, *Corpus) {
	corpus := e.BuildCorpus(papers)
	var all []types.TopicSignal
	for _, p := range papers {
		all = append(all, e.Signals(p, corpus)...)
	}
	return all, corpus
}

// dominantSection returns the section holding most occurrences, ties by
// earliest occurrence.
func (st *phraseStats) dominantSection() string {
	best := ""
	for section, n := range st.sections {
		if best == "" || n > st.sections[best] ||
			(n == st.sections[best] && st.sectionFirst[section] < st.sectionFirst[best]) {
			best = section
		}
	}
	return best
}

// candidate is one occurrence of a candidate phrase.
type candidate struct {
	key     string
	display string
	section string
	order   int
}

// candidates returns the candidate occurrences of units in document order.
func (e *Extractor) candidates(units []types.NormalizedUnit, folder cases.Caser) []candidate {
	var out []candidate
	for _, u := range units {
		norm := u.Norm
		if norm == "" {
			norm = folder.String(u.Text)
		}
		keyToks := tokenize(norm)
		dispToks := tokenize(u.Text)
		if len(dispToks) != len(keyToks) {
			dispToks = keyToks
		}

		var run []int
		flush := func() {
			for start := 0; start < len(run); start += e.cfg.MaxWords {
				end := min(start+e.cfg.MaxWords, len(run))
				if end-start < e.cfg.MinWords {
					continue
				}
				keys := make([]string, 0, end-start)
				disp := make([]string, 0, end-start)
				for _, idx := range run[start:end] {
					keys = append(keys, stem(keyToks[idx].text))
					disp = append(disp, dispToks[idx].text)
				}
				out = append(out, candidate{
					key:     strings.Join(keys, " "),
					display: strings.Join(disp, " "),
					section: u.Section,
					order:   len(out),
				})
			}
			run = run[:0]
		}

		for i, tok := range keyToks {
			if tok.breakBefore {
				flush()
			}
			if !e.isContent(tok.text) {
				flush()
				continue
			}
			run = append(run, i)
		}
		flush()
	}
	return out
}

// isContent reports whether a folded token can be part of a phrase.
func (e *Extractor) isContent(tok string) bool {
	if e.stop[tok] || len([]rune(tok)) < e.cfg.MinTokenLen {
		return false
	}
	for _, r := range tok {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// token is a word together with whether punctuation separates it from the
// previous word.
type token struct {
	text        string
	breakBefore bool
}

// tokenize splits s into words of letters, digits, inner hyphens, and
// apostrophes. Any other non-space rune marks a phrase boundary.
func tokenize(s string) []token {
	var toks []token
	var b strings.Builder
	pendingBreak := false
	flush := func() {
		if b.Len() == 0 {
			return
		}
		w := strings.Trim(b.String(), "-'")
		if w != "" {
			toks = append(toks, token{text: w, breakBefore: pendingBreak})
			pendingBreak = false
		}
		b.Reset()
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\'':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			pendingBreak = true
		}
	}
	flush()
	return toks
}

// stem strips common English plural endings so that singular and plural
// forms share a key.
func stem(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 3 && strings.HasSuffix(w, "s") &&
		!strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is"):
		return w[:len(w)-1]
	}
	return w
}
