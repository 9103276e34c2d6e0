package extract

import (
	"regexp"
	"strings"

	"DocketWatch/internal/domain"
)

// Rule is one named layout normalization step. Rules run in order over the
// page-grouped lines and may only drop lines; they never reorder or rewrite.
type Rule struct {
	Name  string
	Apply func(pages [][]domain.Line) [][]domain.Line
}

// DefaultRules covers the court's order-list and opinion templates.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "blank-lines", Apply: dropBlank},
		{Name: "page-numbers", Apply: dropPageNumbers},
		{Name: "slip-running-heads", Apply: dropSlipHeads},
		{Name: "repeated-running-heads", Apply: dropRepeatedHeads},
	}
}

var (
	pageNumberExpr = regexp.MustCompile(`^-?\s*\d{1,4}\s*-?$`)
	slipHeadExpr   = regexp.MustCompile(`^(Cite as:\s*\d+\s*U\.\s*S\.|\((Slip|Bench) Opinion\))`)
	headDigitsExpr = regexp.MustCompile(`^\d+\s+|\s+\d+$`)

	// Lines that start entries or releases are never treated as running heads.
	structuralExpr = regexp.MustCompile(`^(SUPREME COURT OF THE UNITED STATES$|No(s)?\.\s|\d{2}-[A-Z]?\d+|\d{1,3},?\s*ORIG\.|(MONDAY|TUESDAY|WEDNESDAY|THURSDAY|FRIDAY|SATURDAY|SUNDAY),)`)
)

const headDepth = 2

func filterPages(pages [][]domain.Line, keep func(page [][]domain.Line, p, i int) bool) [][]domain.Line {
	out := make([][]domain.Line, len(pages))
	for p, lines := range pages {
		kept := make([]domain.Line, 0, len(lines))
		for i, line := range lines {
			if keep(pages, p, i) {
				kept = append(kept, line)
			}
		}
		out[p] = kept
	}
	return out
}

func dropBlank(pages [][]domain.Line) [][]domain.Line {
	return filterPages(pages, func(pg [][]domain.Line, p, i int) bool {
		return strings.TrimSpace(pg[p][i].Text) != ""
	})
}

func dropPageNumbers(pages [][]domain.Line) [][]domain.Line {
	return filterPages(pages, func(pg [][]domain.Line, p, i int) bool {
		last := len(pg[p]) - 1
		if i != 0 && i != last {
			return true
		}
		return !pageNumberExpr.MatchString(pg[p][i].Text)
	})
}

func dropSlipHeads(pages [][]domain.Line) [][]domain.Line {
	return filterPages(pages, func(pg [][]domain.Line, p, i int) bool {
		if i > headDepth {
			return true
		}
		return !slipHeadExpr.MatchString(pg[p][i].Text)
	})
}

// dropRepeatedHeads removes lines that sit at the top of two or more pages
// once their page numbers are stripped, such as "2 SMITH v. JONES" and
// "Opinion of the Court".
func dropRepeatedHeads(pages [][]domain.Line) [][]domain.Line {
	seen := make(map[string]int)
	for _, lines := range pages {
		onPage := make(map[string]bool)
		for i := 0; i < len(lines) && i < headDepth; i++ {
			if key := headKey(lines[i].Text); key != "" && !onPage[key] {
				onPage[key] = true
				seen[key]++
			}
		}
	}

	return filterPages(pages, func(pg [][]domain.Line, p, i int) bool {
		if i >= headDepth {
			return true
		}
		key := headKey(pg[p][i].Text)
		return key == "" || seen[key] < 2
	})
}

func headKey(text string) string {
	text = strings.TrimSpace(text)
	if structuralExpr.MatchString(text) {
		return ""
	}
	return strings.TrimSpace(headDigitsExpr.ReplaceAllString(text, ""))
}

var hyphenTailExpr = regexp.MustCompile(`[A-Za-z]-$`)

// joinHyphenated merges "ap-" / "peals" line breaks. The merged line keeps the
// ordinal and page of its first half.
func joinHyphenated(lines []domain.Line) []domain.Line {
	out := make([]domain.Line, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		for i+1 < len(lines) && hyphenTailExpr.MatchString(line.Text) && startsLower(lines[i+1].Text) {
			line.Text = line.Text[:len(line.Text)-1] + lines[i+1].Text
			i++
		}
		out = append(out, line)
	}
	return out
}

func startsLower(text string) bool {
	return text != "" && text[0] >= 'a' && text[0] <= 'z'
}
