package parse

import (
	"regexp"

	"DocketWatch/internal/domain"
)

// phrase is one recognizable action keyword. Action is the canonical text
// stored on the entry.
type phrase struct {
	Action  string
	Pattern *regexp.Regexp
}

func p(action, expr string) phrase {
	return phrase{Action: action, Pattern: regexp.MustCompile(`(?i)` + expr)}
}

const (
	cert          = `certiorari`
	dissentDenial = `dissent(s|ing)?\s+from\s+(the\s+)?denial\b`
)

var orderVocabulary = []phrase{
	p("Certiorari Granted, Judgment Vacated and Remanded", cert+`\s+(is|are)\s+granted\.?\s+the\s+judgments?\s+(is|are)\s+vacated`),
	p("Certiorari Granted", cert+`\s+(is|are)\s+granted`),
	p("Certiorari Denied", cert+`\s+(is|are)\s+denied`),
	p("Certiorari Dismissed", cert+`\s+(is|are)\s+dismissed`),
	p("Habeas Corpus Denied", `habeas\s+corpus\s+(is|are)\s+denied`),
	p("Mandamus Denied", `mandamus\s+(is|are)\s+denied`),
	p("Rehearing Denied", `rehearings?\s+(is|are)\s+denied`),
	p("Application Granted", `application\b[^.]{0,160}?\b(is|are)\s+granted`),
	p("Application Denied", `application\b[^.]{0,160}?\b(is|are)\s+denied`),
	p("Motion Granted", `motions?\b[^.]{0,200}?\b(is|are)\s+granted`),
	p("Motion Denied", `motions?\b[^.]{0,200}?\b(is|are)\s+denied`),
	p("Invitation to the Solicitor General", `solicitor\s+general\s+is\s+invited`),
	p("Dissenting from the Denial of Certiorari", `dissent(s|ing)?\s+from\s+(the\s+)?denial\s+of\s+(the\s+petition\s+for\s+a\s+writ\s+of\s+)?`+cert),
	p("Dissent from Denial", dissentDenial),
	p("Statement Respecting the Denial of Certiorari", `statement\s+of\s+justice\s+[a-z]+\s+respecting\s+(the\s+)?denial\s+of\s+(the\s+petition\s+for\s+a\s+writ\s+of\s+)?`+cert),
	p("Per Curiam", `\bper\s+curiam\b`),
}

var slipVocabulary = []phrase{
	p("Per Curiam", `\bper\s+curiam\b`),
	p("Opinion of the Court", `delivered\s+the\s+opinion\s+of\s+the\s+court`),
	p("Plurality Opinion", `announced\s+the\s+judgment\s+of\s+the\s+court`),
	p("Dismissed as Improvidently Granted", `dismissed\s+as\s+improvidently\s+granted`),
	p("Concurring in Part and Dissenting in Part", `concurring\s+in\s+part\s+and\s+dissenting\s+in\s+part`),
	p("Concurring", `\bconcurring\b`),
	p("Dissenting", `\bdissenting\b`),
}

var relatingVocabulary = []phrase{
	p("Dissenting from the Denial of Certiorari", `dissent(s|ing)?\s+from\s+(the\s+)?denial\s+of\s+(the\s+petition\s+for\s+a\s+writ\s+of\s+)?`+cert),
	p("Dissent from Denial", dissentDenial),
	p("Concurring in the Denial of Certiorari", `concurring\s+in\s+(the\s+)?denial\s+of\s+(the\s+petition\s+for\s+a\s+writ\s+of\s+)?`+cert),
	p("Statement Respecting the Denial of Certiorari", `(statement\s+of\s+justice\s+[a-z]+\s+)?respecting\s+(the\s+)?denial\s+of\s+(the\s+petition\s+for\s+a\s+writ\s+of\s+)?`+cert),
	p("Dissenting from the Grant of the Application", `dissenting\s+from\s+(the\s+)?grant\s+of\s+(the\s+)?application`),
	p("Dissenting from the Denial of the Application", `dissenting\s+from\s+(the\s+)?denial\s+of\s+(the\s+)?application`),
	p("Statement", `\bstatement\s+of\s+justice\b`),
	p("Concurring", `\bconcurring\b`),
	p("Dissenting", `\bdissenting\b`),
}

// genericVocabulary holds the bare disposition words. They name an action only
// when no category phrase or section heading does.
var genericVocabulary = []phrase{
	p("Granted", `\bgranted\b`),
	p("Denied", `\bdenied\b`),
}

func vocabularyFor(c domain.Category) []phrase {
	switch c {
	case domain.CategoryOrder:
		return orderVocabulary
	case domain.CategorySlip:
		return slipVocabulary
	case domain.CategoryRelating:
		return relatingVocabulary
	default:
		return nil
	}
}

// findAction returns the leftmost phrase in body, preferring the longest
// match when several start at the same offset.
func findAction(vocab []phrase, body string) (string, bool) {
	best, start, length := "", -1, 0
	for _, ph := range vocab {
		loc := ph.Pattern.FindStringIndex(body)
		if loc == nil {
			continue
		}
		n := loc[1] - loc[0]
		if start == -1 || loc[0] < start || (loc[0] == start && n > length) {
			best, start, length = ph.Action, loc[0], n
		}
	}
	return best, start >= 0
}
