package domain

import "time"

// ActionUnclassified is assigned when no keyword phrase is recognized.
const ActionUnclassified = "Unclassified"

// SubKindOther is the fallback classification for every category.
const SubKindOther = "Other"

// Span addresses an inclusive range of NormalizedText.Lines indices.
type Span struct {
	First int
	Last  int
}

// Entry is a single case action segmented from a release.
type Entry struct {
	Category    Category
	Source      string
	Docket      string
	CaseName    string
	ActionType  string
	Date        time.Time
	Section     string
	Author      string
	Joiners     []string
	Recusals    []string
	LowerCourt  string
	// Disposition of the judgment below, e.g. "Reversed and Remanded".
	Disposition string
	Span        Span
	Text        string
}

// HasDocket reports whether a docket number was extracted.
func (e Entry) HasDocket() bool {
	return e.Docket != ""
}

// ClassifiedEntry is an Entry enriched with its release kind and sub-kind.
type ClassifiedEntry struct {
	Entry
	Kind    Category
	SubKind string
}
