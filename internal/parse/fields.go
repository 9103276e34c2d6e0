package parse

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"DocketWatch/internal/domain"
)

const docketPattern = `\d{2}(?:-|[A-Z])\d{1,5}|\d{1,3},?\s*(?i:orig)\.`

var (
	bannerExpr     = regexp.MustCompile(`^SUPREME COURT OF THE UNITED STATES$`)
	orderCaseExpr  = regexp.MustCompile(`^(` + docketPattern + `)\s+(.+\sV\.\s.+|IN RE\s.+)$`)
	docketLineExpr = regexp.MustCompile(`^Nos?\.\s+(` + docketPattern + `)(.*)$`)
	origExpr       = regexp.MustCompile(`^(\d{1,3}),?\s*(?i:orig)\.$`)
	headingExpr    = regexp.MustCompile(`^(CERTIORARI|ORDERS? IN PENDING CASES|HABEAS CORPUS|MANDAMUS|PROHIBITION|REHEARINGS?|ATTORNEY DISCIPLINE|APPEALS?|ORIGINAL|MISCELLANEOUS ORDERS?|STAYS?|APPLICATIONS?)\b[A-Z ,\-]*$`)

	weekdayDateExpr = regexp.MustCompile(`^(?:MONDAY|TUESDAY|WEDNESDAY|THURSDAY|FRIDAY|SATURDAY|SUNDAY),\s+([A-Z]+\s+\d{1,2},\s+\d{4})$`)
	decidedExpr     = regexp.MustCompile(`\bDecided\s+([A-Z][a-z]+\.?\s+\d{1,2},\s+\d{4})`)
	bracketDateExpr = regexp.MustCompile(`^\[([A-Z][a-z]+\s+\d{1,2},\s+\d{4})\]$`)

	authorExpr    = regexp.MustCompile(`^(?:Statement of )?(THE CHIEF JUSTICE|CHIEF JUSTICE [A-Z][A-Z'\-]+|JUSTICE [A-Z][A-Z'\-]+)(?:,|\s+(?:delivered|announced|filed|respecting|dissenting|concurring)\b)`)
	perCuriamExpr = regexp.MustCompile(`(?i)^per curiam\.?$`)

	caseSplitExpr  = regexp.MustCompile(`[,.]?\s+(?:Decided|Argued)\b`)
	captionExpr    = regexp.MustCompile(`(?i)\sv\.\s|^IN RE\s`)
	partyRoleExpr  = regexp.MustCompile(`,\s*(?:PETITIONERS?|RESPONDENTS?|APPELLANTS?|APPELLEES?)\b`)
	upperVersusExp = regexp.MustCompile(`\sV\.\s`)
)

var titleCaser = cases.Title(language.English)

func isBanner(text string) bool  { return bannerExpr.MatchString(text) }
func isHeading(text string) bool { return headingExpr.MatchString(text) && !orderCaseExpr.MatchString(text) }

// normalizeDocket maps dash variants to a hyphen and original-jurisdiction
// numbers ("143, Orig.") to the term-prefixed form ("22O143").
func normalizeDocket(raw string, date time.Time) string {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "–", "-"))
	if m := origExpr.FindStringSubmatch(raw); m != nil {
		term := ""
		if !date.IsZero() {
			term = domain.TermYear(date)
		}
		return term + "O" + m[1]
	}
	return strings.ToUpper(raw)
}

func normalizeCaseName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	name = partyRoleExpr.ReplaceAllString(name, "")
	name = upperVersusExp.ReplaceAllString(name, " v. ")
	return strings.Trim(name, " ,;:")
}

// parseLongDate accepts "June 1, 2023" and "JUNE 1, 2023".
func parseLongDate(value string) (time.Time, bool) {
	value = strings.Join(strings.Fields(strings.ReplaceAll(value, ".", "")), " ")
	value = titleCaser.String(strings.ToLower(value))
	for _, layout := range []string{"January 2, 2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func preambleDate(lines []domain.Line) (time.Time, bool) {
	for _, line := range lines {
		if m := weekdayDateExpr.FindStringSubmatch(line.Text); m != nil {
			if t, ok := parseLongDate(m[1]); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func entryDate(lines []domain.Line, flat string) (time.Time, bool) {
	if m := decidedExpr.FindStringSubmatch(flat); m != nil {
		if t, ok := parseLongDate(m[1]); ok {
			return t, true
		}
	}
	for _, line := range lines {
		if m := bracketDateExpr.FindStringSubmatch(line.Text); m != nil {
			if t, ok := parseLongDate(m[1]); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func findAuthor(lines []domain.Line) string {
	for _, line := range lines {
		if perCuriamExpr.MatchString(line.Text) {
			return "PER CURIAM"
		}
		if m := authorExpr.FindStringSubmatch(line.Text); m != nil {
			if m[1] == "THE CHIEF JUSTICE" {
				return "CHIEF JUSTICE"
			}
			return m[1]
		}
	}
	return ""
}

// captionFromDocketLine reads "No. 21-123, Smith v. Jones, Decided ..." style
// lines where the case name follows the docket.
func captionFromDocketLine(rest string) string {
	rest = strings.TrimLeft(rest, " ,.;:")
	if loc := caseSplitExpr.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]]
	}
	if !captionExpr.MatchString(rest) {
		return ""
	}
	return normalizeCaseName(rest)
}

// captionLine reports whether text looks like an all-caps caption such as
// "SMITH, PETITIONER v. JONES".
func captionLine(text string) bool {
	if !captionExpr.MatchString(text) || docketLineExpr.MatchString(text) {
		return false
	}
	folded := strings.ReplaceAll(text, " v. ", " V. ")
	return strings.ToUpper(folded) == folded
}
