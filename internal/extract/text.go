package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newCleaner folds compatibility forms (PDF ligatures such as "ﬁ"), maps
// typographic dashes and quotes onto ASCII and drops control characters.
// Transformers are stateful, so each extraction builds its own.
func newCleaner() transform.Transformer {
	return transform.Chain(
		norm.NFKC,
		runes.Map(asciiPunct),
		runes.Remove(runes.Predicate(unicode.IsControl)),
	)
}

func asciiPunct(r rune) rune {
	switch r {
	case '\t':
		return ' '
	case '‐', '‑', '‒', '–', '—', '―', '−':
		return '-'
	case '‘', '’', '‛':
		return '\''
	case '“', '”', '‟':
		return '"'
	default:
		return r
	}
}

func cleanLine(t transform.Transformer, raw string) string {
	out, _, err := transform.String(t, raw)
	if err != nil {
		out = raw
	}
	return strings.Join(strings.Fields(out), " ")
}
