package court

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"DocketWatch/internal/domain"
	"DocketWatch/internal/scanner"
)

var (
	listingDateExpr = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2}\b`)
	docketExpr      = regexp.MustCompile(`\b\d{2}[-A-Z]\d{1,5}\b|\b\d{1,3},?\s*Orig\.?`)
	orderFileExpr   = regexp.MustCompile(`^(\d{6})z`)
	opinionFileExpr = regexp.MustCompile(`^(\d{2}[-a-zA-Z]\d{1,5})_`)
)

// item is one linked document on a listing page.
type item struct {
	Date   time.Time
	Title  string
	Docket string
	URL    string
}

func parseListingDate(text string) (time.Time, bool) {
	match := listingDateExpr.FindString(text)
	if match == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("1/2/06", match)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// pick returns the index-th item or a NotFound error.
func pick(items []item, index int, listingURL string) (item, error) {
	if index < 0 || index >= len(items) {
		return item{}, domain.NotFound(listingURL, fmt.Errorf("index %d outside listing of %d", index, len(items)))
	}
	return items[index], nil
}

func termFor(req scanner.Request, now func() time.Time) string {
	if req.Term != "" {
		return req.Term
	}
	return domain.TermYear(now())
}

// describeURL recovers listing metadata encoded in a document file name, e.g.
// 060523zor_3e04.pdf (order date) or 21-123_abcd.pdf (docket).
func describeURL(docURL string) item {
	it := item{URL: docURL}
	name := path.Base(docURL)
	if m := orderFileExpr.FindStringSubmatch(name); m != nil {
		if parsed, err := time.Parse("010206", m[1]); err == nil {
			it.Date = parsed
		}
	}
	if m := opinionFileExpr.FindStringSubmatch(name); m != nil {
		it.Docket = strings.ToUpper(m[1])
	}
	return it
}

func fetchItem(ctx context.Context, c *Client, category domain.Category, it item, now time.Time) (domain.Release, error) {
	body, contentType, err := c.Download(ctx, it.URL)
	if err != nil {
		return domain.Release{}, err
	}
	return domain.Release{
		Category:    category,
		RetrievedAt: now,
		Content:     body,
		ContentType: contentType,
		Source:      it.URL,
		Title:       it.Title,
		Date:        it.Date,
		Docket:      it.Docket,
	}, nil
}
