package court

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"DocketWatch/internal/domain"
)

const (
	// DefaultBaseURL is the court's public website.
	DefaultBaseURL   = "https://www.supremecourt.gov"
	defaultUserAgent = "DocketWatch/1.0"
	maxDocumentBytes = 64 << 20
)

// Client downloads listing pages and documents, mapping failures onto the
// fetch error taxonomy. It never retries.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	location  *time.Location
}

// NewClient wires an HTTP client; nil gets a client bounded by timeout.
func NewClient(client *http.Client, baseURL, userAgent string, timeout time.Duration) *Client {
	if client == nil {
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{http: client, baseURL: strings.TrimSuffix(baseURL, "/"), userAgent: userAgent}
}

// SetLocation fixes the timezone Now reports in, which decides the default
// term near the October boundary. Nil means UTC.
func (c *Client) SetLocation(loc *time.Location) *Client {
	c.location = loc
	return c
}

// Now returns the current time in the client's timezone.
func (c *Client) Now() time.Time {
	if c.location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.location)
}

// BaseURL returns the site root used to resolve listing links.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Resolve turns a listing href into an absolute URL.
func (c *Client) Resolve(href string) (string, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base url %s: %w", c.baseURL, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid link %s: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Page fetches and parses an HTML listing.
func (c *Client) Page(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, domain.Unavailable(pageURL, fmt.Errorf("parse listing: %w", err))
	}
	return doc, nil
}

// Download returns a document body and its content type.
func (c *Client) Download(ctx context.Context, docURL string) ([]byte, string, error) {
	resp, err := c.get(ctx, docURL)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, "", domain.Unavailable(docURL, fmt.Errorf("read body: %w", err))
	}
	if len(body) == 0 {
		return nil, "", domain.Unavailable(docURL, errors.New("empty body"))
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, domain.Unavailable(target, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.Unavailable(target, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		resp.Body.Close()
		return nil, domain.NotFound(target, fmt.Errorf("court returned %s", resp.Status))
	default:
		resp.Body.Close()
		return nil, domain.Unavailable(target, fmt.Errorf("court returned %s", resp.Status))
	}
}
