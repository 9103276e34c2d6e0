// Package classify assigns a release kind and sub-kind to parsed entries.
package classify

import (
	"slices"
	"strings"

	"DocketWatch/internal/domain"
)

// Classifier evaluates an ordered rule table. It is pure and safe for
// concurrent use.
type Classifier struct {
	rules   map[domain.Category][]Rule
	allowed map[domain.Category]map[string]bool
}

// New builds a Classifier. Without explicit rules DefaultRules applies.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	c := &Classifier{
		rules:   make(map[domain.Category][]Rule),
		allowed: make(map[domain.Category]map[string]bool),
	}
	for _, r := range rules {
		c.rules[r.Category] = append(c.rules[r.Category], r)
		if c.allowed[r.Category] == nil {
			c.allowed[r.Category] = map[string]bool{domain.SubKindOther: true}
		}
		c.allowed[r.Category][r.SubKind] = true
	}
	for category := range c.rules {
		slices.SortStableFunc(c.rules[category], bySpecificity)
	}
	return c
}

// bySpecificity orders phrases with more words first, then longer phrases.
func bySpecificity(a, b Rule) int {
	if wa, wb := len(strings.Fields(a.Phrase)), len(strings.Fields(b.Phrase)); wa != wb {
		return wb - wa
	}
	return len(b.Phrase) - len(a.Phrase)
}

// Classify returns the entry with its category as kind and the sub-kind of
// the most specific matching rule, or "Other".
func (c *Classifier) Classify(entry domain.Entry) domain.ClassifiedEntry {
	out := domain.ClassifiedEntry{Entry: entry, Kind: entry.Category, SubKind: domain.SubKindOther}

	subject := entry.ActionType + "\n" + entry.Text
	for _, r := range c.rules[entry.Category] {
		if r.Pattern.MatchString(subject) {
			out.SubKind = r.SubKind
			break
		}
	}
	return out
}

// Allowed reports whether subKind is registered for category.
func (c *Classifier) Allowed(category domain.Category, subKind string) bool {
	return c.allowed[category][subKind]
}

// SubKinds lists the sub-kinds registered for category, "Other" included.
func (c *Classifier) SubKinds(category domain.Category) []string {
	out := make([]string, 0, len(c.allowed[category]))
	for k := range c.allowed[category] {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
