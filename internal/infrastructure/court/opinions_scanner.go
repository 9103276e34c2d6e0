package court

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"DocketWatch/internal/domain"
	"DocketWatch/internal/scanner"
)

// OpinionsScanner walks an opinions table (slip opinions or opinions
// relating to orders). Rows carry the date, docket and a linked case name,
// newest first.
type OpinionsScanner struct {
	client   *Client
	category domain.Category
	section  string
	now      func() time.Time
	logger   *slog.Logger
}

// NewSlipOpinionsScanner builds the slip opinion strategy.
func NewSlipOpinionsScanner(client *Client, logger *slog.Logger) *OpinionsScanner {
	return &OpinionsScanner{client: client, category: domain.CategorySlip, section: "slipopinion", now: client.Now, logger: logger}
}

// NewRelatingOpinionsScanner builds the opinions-relating-to-orders strategy.
func NewRelatingOpinionsScanner(client *Client, logger *slog.Logger) *OpinionsScanner {
	return &OpinionsScanner{client: client, category: domain.CategoryRelating, section: "relatingtoorders", now: client.Now, logger: logger}
}

// Category identifies the strategy inside the registry.
func (s *OpinionsScanner) Category() domain.Category {
	return s.category
}

// Fetch downloads the requested opinion release.
func (s *OpinionsScanner) Fetch(ctx context.Context, req scanner.Request) (domain.Release, error) {
	if req.URL != "" {
		return fetchItem(ctx, s.client, s.category, describeURL(req.URL), s.now().UTC())
	}

	listingURL := fmt.Sprintf("%s/opinions/%s/%s", s.client.BaseURL(), s.section, termFor(req, s.now))
	doc, err := s.client.Page(ctx, listingURL)
	if err != nil {
		return domain.Release{}, err
	}

	items := s.extractItems(doc)
	s.debug("opinions listing", "url", listingURL, "items", len(items))

	it, err := pick(items, req.Index, listingURL)
	if err != nil {
		return domain.Release{}, err
	}
	return fetchItem(ctx, s.client, s.category, it, s.now().UTC())
}

func (s *OpinionsScanner) extractItems(doc *goquery.Document) []item {
	var items []item

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a[href$='.pdf']").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		resolved, err := s.client.Resolve(href)
		if err != nil {
			s.debug("skip opinion link", "href", href, "error", err)
			return
		}

		it := item{Title: strings.TrimSpace(link.Text()), URL: resolved}
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())
			if it.Date.IsZero() {
				if parsed, ok := parseListingDate(text); ok {
					it.Date = parsed
					return
				}
			}
			if it.Docket == "" && cell.Find("a").Length() == 0 {
				if m := docketExpr.FindString(text); m != "" && m == text {
					it.Docket = m
				}
			}
		})
		items = append(items, it)
	})

	return items
}

func (s *OpinionsScanner) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
