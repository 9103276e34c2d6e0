// Package parse segments normalized release text into entries.
package parse

import (
	"iter"
	"log/slog"
	"strings"
	"time"

	"DocketWatch/internal/domain"
)

// Parser turns NormalizedText into a lazy sequence of entries.
type Parser struct {
	logger *slog.Logger
}

// New builds a Parser.
func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger.With("component", "parser")}
}

// Parse locates the first entry boundary and returns a Sequence positioned
// on it. A non-empty text without any boundary is a ParseError of kind
// ErrNoEntries; an empty text yields an empty Sequence.
func (p *Parser) Parse(text domain.NormalizedText) (*Sequence, error) {
	s := &Sequence{text: text, vocab: vocabularyFor(text.Category), next: -1}
	if len(text.Lines) == 0 {
		return s, nil
	}

	first := -1
	for i := range text.Lines {
		if s.opensEntry(i) {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, &domain.ParseError{Kind: domain.ErrNoEntries, Source: text.Source, Lines: len(text.Lines)}
	}

	s.next = s.pullBack(first, 0)
	s.preamble = text.Lines[:s.next]
	if d, ok := preambleDate(s.preamble); ok {
		s.releaseDate = d
	} else {
		s.releaseDate = text.Date
	}
	for _, line := range s.preamble {
		s.noteHeading(line.Text)
	}

	p.logger.Debug("release segmented",
		"source", text.Source,
		"category", text.Category,
		"preamble_lines", len(s.preamble),
	)
	return s, nil
}

// Sequence yields entries in document order. It is single-use: entries
// handed out by Next or All are not produced again.
type Sequence struct {
	text        domain.NormalizedText
	vocab       []phrase
	preamble    []domain.Line
	releaseDate time.Time
	section     string
	next        int
}

// Preamble returns the lines preceding the first entry.
func (s *Sequence) Preamble() []domain.Line {
	return s.preamble
}

// Next returns the following entry, or false once the text is exhausted.
func (s *Sequence) Next() (domain.Entry, bool) {
	lines := s.text.Lines
	if s.next < 0 || s.next >= len(lines) {
		return domain.Entry{}, false
	}

	start := s.next
	head := start
	for head < len(lines) && s.isSectionHeading(lines[head].Text) {
		s.noteHeading(lines[head].Text)
		head++
	}
	if head >= len(lines) {
		s.next = -1
		return s.build(start, len(lines)-1, head), true
	}

	bannerOpened := isBanner(lines[head].Text)
	docketSeen := false
	end := len(lines) - 1
	s.next = -1
	for i := head + 1; i < len(lines); i++ {
		if bannerOpened && !docketSeen && docketLineExpr.MatchString(lines[i].Text) {
			docketSeen = true
			continue
		}
		if s.opensEntry(i) {
			s.next = s.pullBack(i, head+1)
			end = s.next - 1
			break
		}
	}

	entry := s.build(start, end, head)
	for i := head; i <= end; i++ {
		s.noteHeading(lines[i].Text)
	}
	return entry, true
}

// All ranges over the remaining entries.
func (s *Sequence) All() iter.Seq[domain.Entry] {
	return func(yield func(domain.Entry) bool) {
		for {
			entry, ok := s.Next()
			if !ok || !yield(entry) {
				return
			}
		}
	}
}

func (s *Sequence) opensEntry(i int) bool {
	text := s.text.Lines[i].Text
	if isBanner(text) {
		return true
	}
	switch s.text.Category {
	case domain.CategoryOrder:
		return orderCaseExpr.MatchString(text)
	default:
		return docketLineExpr.MatchString(text)
	}
}

// pullBack extends a boundary upward over the section headings directly
// above it, never past floor.
func (s *Sequence) pullBack(i, floor int) int {
	for i > floor && s.isSectionHeading(s.text.Lines[i-1].Text) {
		i--
	}
	return i
}

func (s *Sequence) isSectionHeading(text string) bool {
	return s.text.Category == domain.CategoryOrder && isHeading(text)
}

func (s *Sequence) noteHeading(text string) {
	if s.isSectionHeading(text) {
		s.section = text
	}
}

func (s *Sequence) build(start, end, head int) domain.Entry {
	lines := s.text.Lines[start : end+1]
	entry := domain.Entry{
		Category: s.text.Category,
		Source:   s.text.Source,
		Section:  s.section,
		Span:     domain.Span{First: start, Last: end},
		Text:     s.text.Join(start, end),
	}

	body := make([]string, 0, len(lines))
	for _, line := range lines {
		if s.isSectionHeading(line.Text) || isBanner(line.Text) {
			continue
		}
		body = append(body, line.Text)
	}
	flat := strings.Join(body, " ")

	if d, ok := entryDate(lines, flat); ok {
		entry.Date = d
	} else {
		entry.Date = s.releaseDate
	}

	var rawDocket string
	if head <= end {
		if m := orderCaseExpr.FindStringSubmatch(s.text.Lines[head].Text); m != nil && s.text.Category == domain.CategoryOrder {
			rawDocket = m[1]
			entry.CaseName = normalizeCaseName(m[2])
		}
	}
	for _, line := range lines {
		if rawDocket != "" && entry.CaseName != "" {
			break
		}
		if m := docketLineExpr.FindStringSubmatch(line.Text); m != nil {
			if rawDocket == "" {
				rawDocket = m[1]
			}
			if entry.CaseName == "" {
				entry.CaseName = captionFromDocketLine(m[2])
			}
			continue
		}
		if entry.CaseName == "" && captionLine(line.Text) {
			entry.CaseName = normalizeCaseName(line.Text)
		}
	}
	if rawDocket != "" {
		entry.Docket = normalizeDocket(rawDocket, entry.Date)
	}

	entry.Author = findAuthor(lines)
	entry.Joiners = findJoiners(flat)
	entry.Recusals = findRecusals(flat)
	entry.LowerCourt = findLowerCourt(lines)
	entry.Disposition = findDisposition(flat)

	if action, ok := findAction(s.vocab, flat); ok {
		entry.ActionType = action
	} else if entry.Section != "" {
		entry.ActionType = titleCaser.String(strings.ToLower(entry.Section))
	} else if action, ok := findAction(genericVocabulary, flat); ok {
		entry.ActionType = action
	} else {
		entry.ActionType = domain.ActionUnclassified
	}

	return entry
}
