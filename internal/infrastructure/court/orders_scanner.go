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

// OrdersScanner walks the "orders of the court" listing. The first
// div.column2 holds the current term's releases as alternating date and
// linked-title spans, newest first.
type OrdersScanner struct {
	client *Client
	now    func() time.Time
	logger *slog.Logger
}

// NewOrdersScanner wires the shared court client.
func NewOrdersScanner(client *Client, logger *slog.Logger) *OrdersScanner {
	return &OrdersScanner{client: client, now: client.Now, logger: logger}
}

// Category identifies the strategy inside the registry.
func (o *OrdersScanner) Category() domain.Category {
	return domain.CategoryOrder
}

// Fetch downloads the requested order release.
func (o *OrdersScanner) Fetch(ctx context.Context, req scanner.Request) (domain.Release, error) {
	if req.URL != "" {
		return fetchItem(ctx, o.client, domain.CategoryOrder, describeURL(req.URL), o.now().UTC())
	}

	listingURL := fmt.Sprintf("%s/orders/ordersofthecourt/%s", o.client.BaseURL(), termFor(req, o.now))
	doc, err := o.client.Page(ctx, listingURL)
	if err != nil {
		return domain.Release{}, err
	}

	items := o.extractItems(doc)
	o.debug("orders listing", "url", listingURL, "items", len(items))

	it, err := pick(items, req.Index, listingURL)
	if err != nil {
		return domain.Release{}, err
	}
	return fetchItem(ctx, o.client, domain.CategoryOrder, it, o.now().UTC())
}

func (o *OrdersScanner) extractItems(doc *goquery.Document) []item {
	var (
		items    []item
		lastDate time.Time
	)

	doc.Find("div.column2").First().Find("span").Each(func(_ int, span *goquery.Selection) {
		link := span.Find("a[href]").First()
		if link.Length() == 0 {
			if parsed, ok := parseListingDate(span.Text()); ok {
				lastDate = parsed
			}
			return
		}

		href, _ := link.Attr("href")
		resolved, err := o.client.Resolve(href)
		if err != nil {
			o.debug("skip order link", "href", href, "error", err)
			return
		}
		items = append(items, item{
			Date:  lastDate,
			Title: strings.TrimSpace(link.Text()),
			URL:   resolved,
		})
	})

	return items
}

func (o *OrdersScanner) debug(msg string, args ...interface{}) {
	if o.logger != nil {
		o.logger.Debug(msg, args...)
	}
}
