package extract

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"DocketWatch/internal/domain"
)

// titleScanDepth bounds how many non-empty leading lines may precede the
// release title block.
const titleScanDepth = 40

var titleExprs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^SUPREME COURT OF THE UNITED STATES$`),
	regexp.MustCompile(`^\(?ORDER LIST`),
	regexp.MustCompile(`^MISCELLANEOUS ORDERS?`),
	regexp.MustCompile(`^(MONDAY|TUESDAY|WEDNESDAY|THURSDAY|FRIDAY|SATURDAY|SUNDAY), [A-Z]+ \d{1,2}, \d{4}$`),
	regexp.MustCompile(`^\((Slip|Bench) Opinion\)`),
	regexp.MustCompile(`^Cite as:`),
	regexp.MustCompile(`OCTOBER TERM, \d{4}`),
}

// Extractor turns fetched documents into NormalizedText.
type Extractor struct {
	rules  []Rule
	logger *slog.Logger
}

// New builds an Extractor. Without explicit rules DefaultRules applies.
func New(logger *slog.Logger, rules ...Rule) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Extractor{rules: rules, logger: logger.With("component", "extractor")}
}

// Extract decodes the release, checks for a title block and applies the
// layout rules. Any failure is an ExtractError of kind ErrCorrupt.
func (e *Extractor) Extract(release domain.Release) (domain.NormalizedText, error) {
	out := domain.NormalizedText{
		Category: release.Category,
		Source:   release.Source,
		Date:     release.Date,
	}

	if len(bytes.TrimSpace(release.Content)) == 0 {
		return out, domain.Corrupt(release.Source, errors.New("empty document"))
	}

	raw, err := decode(release)
	if err != nil {
		return out, domain.Corrupt(release.Source, err)
	}

	cleaner := newCleaner()
	pages := make([][]domain.Line, len(raw))
	ordinal := 0
	for p, rows := range raw {
		for _, row := range rows {
			ordinal++
			pages[p] = append(pages[p], domain.Line{
				Ordinal: ordinal,
				Page:    p + 1,
				Text:    cleanLine(cleaner, row),
			})
		}
	}

	if !hasTitleBlock(pages) {
		return out, domain.Corrupt(release.Source, errors.New("no title block in leading lines"))
	}

	for _, rule := range e.rules {
		pages = rule.Apply(pages)
	}

	var lines []domain.Line
	for _, page := range pages {
		lines = append(lines, page...)
	}
	lines = joinHyphenated(lines)
	if len(lines) == 0 {
		return out, domain.Corrupt(release.Source, errors.New("no text after layout normalization"))
	}

	e.logger.Debug("document normalized",
		"source", release.Source,
		"pages", len(raw),
		"raw_lines", ordinal,
		"lines", len(lines),
	)

	out.Lines = lines
	return out, nil
}

func hasTitleBlock(pages [][]domain.Line) bool {
	checked := 0
	for _, page := range pages {
		for _, line := range page {
			if line.Text == "" {
				continue
			}
			for _, expr := range titleExprs {
				if expr.MatchString(line.Text) {
					return true
				}
			}
			checked++
			if checked >= titleScanDepth {
				return false
			}
		}
	}
	return false
}

func decode(release domain.Release) ([][]string, error) {
	contentType := strings.ToLower(release.ContentType)
	content := release.Content

	switch {
	case bytes.HasPrefix(content, []byte("%PDF-")) || strings.Contains(contentType, "pdf"):
		return readPDF(content)
	case strings.Contains(contentType, "html") || looksLikeHTML(content):
		return readHTML(content)
	default:
		return readText(content)
	}
}

func looksLikeHTML(content []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(content))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

// readText splits plain text into pages on form feeds.
func readText(content []byte) ([][]string, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("text is not valid utf-8")
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	var pages [][]string
	for _, page := range strings.Split(text, "\f") {
		pages = append(pages, strings.Split(page, "\n"))
	}
	return pages, nil
}
