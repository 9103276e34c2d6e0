package parse

import (
	"regexp"
	"slices"
	"strings"

	"DocketWatch/internal/domain"
)

var (
	joinClauseExpr  = regexp.MustCompile(`\b(?:with\s+whom|in\s+which)\s+(.+?)\s+(?:joins?|joined)\b`)
	tookNoPartExpr  = regexp.MustCompile(`\btook\s+no\s+part\b`)
	sentenceEndExpr = regexp.MustCompile(`[a-z0-9)]\.\s+`)
	justiceNameExpr = regexp.MustCompile(`THE CHIEF JUSTICE|CHIEF JUSTICE ([A-Z][A-Z'\-]+)|JUSTICE ([A-Z][A-Z'\-]+)|\b([A-Z][A-Z'\-]{2,})\b(,\s*C\.\s*J\.)?`)

	lowerCourtExpr  = regexp.MustCompile(`^ON (?:PETITION FOR )?(?:A )?WRITS? OF CERTIORARI (?:BEFORE JUDGMENT )?TO (?:THE )?(.+)$|^ON APPEAL FROM (?:THE )?(.+)$`)
	dispositionExpr = regexp.MustCompile(`(?i)\b(?:judgments?|decisions?|orders?)\b[^.]{0,160}?\b(?:is|are)\s+(affirmed|reversed|vacated)\b([^.]{0,80})`)
	remandedExpr    = regexp.MustCompile(`(?i)\bremanded\b`)
)

// Bare capitalized words that are never surnames in attribution clauses.
var notSurname = map[string]bool{"AND": true, "JJ": true, "THE": true, "PER": true, "CURIAM": true, "JUSTICE": true, "CHIEF": true}

// justicesIn lists the justices named in clause in the form used for
// Entry.Author: "JUSTICE KAGAN", "CHIEF JUSTICE ROBERTS" or "CHIEF JUSTICE".
// Bare surnames ("THOMAS, ALITO, JJ.") are only read when bare is set.
func justicesIn(clause string, bare bool) []string {
	var out []string
	for _, m := range justiceNameExpr.FindAllStringSubmatch(clause, -1) {
		var name string
		switch {
		case m[0] == "THE CHIEF JUSTICE":
			name = "CHIEF JUSTICE"
		case m[1] != "":
			name = "CHIEF JUSTICE " + m[1]
		case m[2] != "":
			name = "JUSTICE " + m[2]
		case !bare || notSurname[m[3]]:
			continue
		case m[4] != "":
			name = "CHIEF JUSTICE " + m[3]
		default:
			name = "JUSTICE " + m[3]
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// findJoiners reads the first "with whom ... join" or "in which ... joined"
// clause.
func findJoiners(flat string) []string {
	m := joinClauseExpr.FindStringSubmatch(flat)
	if m == nil {
		return nil
	}
	return justicesIn(m[1], true)
}

// findRecusals reads the subjects of every "took no part" sentence.
func findRecusals(flat string) []string {
	var out []string
	for _, loc := range tookNoPartExpr.FindAllStringIndex(flat, -1) {
		subject := flat[:loc[0]]
		if ends := sentenceEndExpr.FindAllStringIndex(subject, -1); len(ends) > 0 {
			subject = subject[ends[len(ends)-1][1]:]
		}
		for _, name := range justicesIn(subject, false) {
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}

// findLowerCourt reads the court below from the "ON WRIT OF CERTIORARI TO"
// line, following one continuation line when the name wraps.
func findLowerCourt(lines []domain.Line) string {
	for i, line := range lines {
		m := lowerCourtExpr.FindStringSubmatch(line.Text)
		if m == nil {
			continue
		}
		court := m[1]
		if court == "" {
			court = m[2]
		}
		if wraps(court) && i+1 < len(lines) && isUpper(lines[i+1].Text) {
			court += " " + lines[i+1].Text
		}
		return strings.Trim(court, " ,;:")
	}
	return ""
}

func wraps(text string) bool {
	for _, suffix := range []string{" FOR", " OF", " THE", " TO", ","} {
		if strings.HasSuffix(text, suffix) {
			return true
		}
	}
	return false
}

func isUpper(text string) bool {
	return text != "" && strings.ToUpper(text) == text && !docketLineExpr.MatchString(text)
}

// findDisposition reports how the judgment below was disposed of, e.g.
// "Reversed" or "Vacated and Remanded".
func findDisposition(flat string) string {
	m := dispositionExpr.FindStringSubmatch(flat)
	if m == nil {
		return ""
	}
	out := titleCaser.String(strings.ToLower(m[1]))
	if remandedExpr.MatchString(m[2]) {
		out += " and Remanded"
	}
	return out
}
