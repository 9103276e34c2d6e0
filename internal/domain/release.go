package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category identifies which docket stream a release belongs to.
type Category string

const (
	CategoryOrder    Category = "ORDER"
	CategorySlip     Category = "SLIP"
	CategoryRelating Category = "RELATING"
)

// Categories lists every supported stream in a stable order.
func Categories() []Category {
	return []Category{CategoryOrder, CategorySlip, CategoryRelating}
}

// ParseCategory accepts the enum value or the CLI selector names.
func ParseCategory(value string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "order", "orders":
		return CategoryOrder, nil
	case "slip", "slips", "slipopinion", "slip-opinions":
		return CategorySlip, nil
	case "relating", "relatingtoorders", "relating-to-orders":
		return CategoryRelating, nil
	default:
		return "", fmt.Errorf("unknown category %q", value)
	}
}

// Release is one fetched document. It is immutable once built by the fetcher.
type Release struct {
	Category    Category
	RetrievedAt time.Time
	Content     []byte
	ContentType string
	Source      string

	// Listing metadata, best-effort.
	Title  string
	Date   time.Time
	Docket string
}

// Line is a physical line of normalized text.
type Line struct {
	Ordinal int
	Page    int
	Text    string
}

// NormalizedText is the extractor's output: plain lines in document order.
type NormalizedText struct {
	Category Category
	Source   string
	Date     time.Time
	Lines    []Line
}

// Join returns the text of lines [first, last] separated by newlines.
func (n NormalizedText) Join(first, last int) string {
	if first < 0 || last >= len(n.Lines) || first > last {
		return ""
	}
	var b strings.Builder
	for i := first; i <= last; i++ {
		if i > first {
			b.WriteByte('\n')
		}
		b.WriteString(n.Lines[i].Text)
	}
	return b.String()
}
