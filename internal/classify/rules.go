package classify

import (
	"regexp"

	"DocketWatch/internal/domain"
)

// Rule maps a keyword phrase to a sub-kind for one category. Pattern is
// matched case-insensitively against the action type followed by the entry
// text.
type Rule struct {
	Category domain.Category
	Phrase   string
	Pattern  *regexp.Regexp
	SubKind  string
}

func rule(c domain.Category, phrase, expr, subKind string) Rule {
	return Rule{Category: c, Phrase: phrase, Pattern: regexp.MustCompile(`(?im)` + expr), SubKind: subKind}
}

const (
	denialOfCert  = `denial\s+of\s+(the\s+petition\s+for\s+a\s+writ\s+of\s+)?certiorari`
	dissentDenial = `dissent(s|ing)?\s+from\s+(the\s+)?denial\b`
)

// DefaultRules is the rule table for order lists, slip opinions and opinions
// relating to orders.
func DefaultRules() []Rule {
	const (
		order    = domain.CategoryOrder
		slip     = domain.CategorySlip
		relating = domain.CategoryRelating
	)
	return []Rule{
		rule(order, "dissenting from the denial of certiorari", `dissent(ing|s)?\s+from\s+(the\s+)?`+denialOfCert, "Dissent from Denial of Certiorari"),
		rule(order, "certiorari granted judgment vacated and remanded", `certiorari\s+(is\s+|are\s+)?granted[\s\S]{0,40}?judgments?\s+(is\s+|are\s+)?vacated|summary\s+dispositions?`, "Summary Disposition"),
		rule(order, "invitation to the solicitor general", `solicitor\s+general\s+is\s+invited|invitation\s+to\s+the\s+solicitor\s+general`, "Invitation to Solicitor General"),
		rule(order, "writ of habeas corpus denied", `habeas\s+corpus\s+(is\s+|are\s+)?denied`, "Habeas Corpus Denied"),
		rule(order, "writ of mandamus denied", `mandamus\s+(is\s+|are\s+)?denied`, "Mandamus Denied"),
		rule(order, "certiorari dismissed", `certiorari\s+(is\s+|are\s+)?dismissed`, "Certiorari Dismissed"),
		rule(order, "certiorari granted", `certiorari\s+(is\s+|are\s+)?granted`, "Certiorari Granted"),
		rule(order, "certiorari denied", `certiorari\s+(is\s+|are\s+)?denied`, "Certiorari Denied"),
		rule(order, "rehearing denied", `rehearings?\s+(is\s+|are\s+)?denied`, "Rehearing Denied"),
		rule(order, "application granted", `(application|stay)\b[^.]{0,160}?\bgranted`, "Application Granted"),
		rule(order, "application denied", `(application|stay)\b[^.]{0,160}?\bdenied`, "Application Denied"),
		rule(order, "statement respecting the denial of certiorari", `respecting\s+(the\s+)?`+denialOfCert, "Statement Respecting Denial of Certiorari"),
		rule(order, "dissent from denial", dissentDenial, "Dissent from Denial"),
		rule(order, "motion granted", `motions?\b[^.]{0,200}?\b((is|are)\s+)?granted`, "Motion Granted"),
		rule(order, "motion denied", `motions?\b[^.]{0,200}?\b((is|are)\s+)?denied`, "Motion Denied"),
		rule(order, "per curiam", `^per\s+curiam\b`, "Per Curiam"),
		rule(order, "granted", `\bgranted\b`, "Granted"),
		rule(order, "denied", `\bdenied\b`, "Denied"),

		rule(slip, "dismissed as improvidently granted", `dismissed\s+as\s+improvidently\s+granted`, "Dismissed as Improvidently Granted"),
		rule(slip, "announced the judgment of the court", `announced\s+the\s+judgment\s+of\s+the\s+court|^plurality\s+opinion$`, "Plurality Opinion"),
		rule(slip, "delivered the opinion of the court", `delivered\s+the\s+opinion\s+of\s+the\s+court|^opinion\s+of\s+the\s+court$`, "Opinion of the Court"),
		rule(slip, "concurring in part and dissenting in part", `concurring\s+in\s+part\s+and\s+dissenting\s+in\s+part`, "Concurrence in Part and Dissent in Part"),
		rule(slip, "per curiam reversal", `^per\s+curiam\b[\s\S]*\b(is|are)\s+reversed\b`, "Per Curiam Reversal"),
		rule(slip, "per curiam", `^per\s+curiam\b`, "Per Curiam"),
		rule(slip, "concurring", `\bconcurring\b`, "Concurrence"),
		rule(slip, "dissenting", `\bdissenting\b`, "Dissent"),
		rule(slip, "granted", `\bgranted\b`, "Granted"),
		rule(slip, "denied", `\bdenied\b`, "Denied"),

		rule(relating, "dissenting from the denial of certiorari", `dissent(ing|s)?\s+from\s+(the\s+)?`+denialOfCert, "Dissent from Denial of Certiorari"),
		rule(relating, "dissent from denial", dissentDenial, "Dissent from Denial"),
		rule(relating, "concurring in the denial of certiorari", `concurring\s+in\s+(the\s+)?`+denialOfCert, "Concurrence in Denial of Certiorari"),
		rule(relating, "statement respecting the denial of certiorari", `respecting\s+(the\s+)?`+denialOfCert, "Statement Respecting Denial of Certiorari"),
		rule(relating, "dissenting from the grant of the application", `dissenting\s+from\s+(the\s+)?grant\s+of\s+(the\s+)?application`, "Dissent from Grant of Application"),
		rule(relating, "dissenting from the denial of the application", `dissenting\s+from\s+(the\s+)?denial\s+of\s+(the\s+)?application`, "Dissent from Denial of Application"),
		rule(relating, "statement", `\bstatement\s+of\s+justice\b|^statement$`, "Statement"),
		rule(relating, "concurring", `\bconcurring\b`, "Concurrence"),
		rule(relating, "dissenting", `\bdissenting\b`, "Dissent"),
		rule(relating, "granted", `\bgranted\b`, "Granted"),
		rule(relating, "denied", `\bdenied\b`, "Denied"),
	}
}
