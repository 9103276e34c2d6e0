package scanner

import (
	"context"
	"fmt"

	"DocketWatch/internal/domain"
)

// Request selects which release of a category to fetch.
type Request struct {
	Category domain.Category
	// Index selects the Nth most recent listing item; 0 is the newest.
	Index int
	// URL fetches a specific document instead of walking the listing.
	URL string
	// Term overrides the two-digit term year derived from the clock.
	Term string
}

// Scanner is a per-category fetch strategy.
type Scanner interface {
	Category() domain.Category
	Fetch(ctx context.Context, req Request) (domain.Release, error)
}

// Registry keeps a mapping from categories to their fetch strategies.
type Registry struct {
	scanners map[domain.Category]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[domain.Category]Scanner{}}
}

// Register adds or replaces a strategy.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[domain.Category]Scanner{}
	}
	r.scanners[scanner.Category()] = scanner
}

// Resolve returns the strategy for a category or an error if it is absent.
func (r *Registry) Resolve(category domain.Category) (Scanner, error) {
	if scanner, ok := r.scanners[category]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("no scanner registered for %s", category)
}
