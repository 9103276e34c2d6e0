package court

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"DocketWatch/internal/domain"
	"DocketWatch/internal/scanner"
)

const ordersListing = `
<html><body>
<div class="column2">
  <div>
    <span>06/05/23</span><span><a href="/orders/courtorders/060523zor_3e04.pdf">Order List</a></span>
    <span>06/02/23</span><span><a href="/orders/courtorders/060223zr_4g15.pdf">Miscellaneous Order</a></span>
  </div>
</div>
<div class="column2"><span>older</span></div>
</body></html>`

const slipListing = `
<html><body>
<table>
  <tr><th>R-</th><th>Date</th><th>Docket</th><th>Name</th></tr>
  <tr><td>71</td><td>6/01/23</td><td>21-123</td><td><a href="/opinions/22pdf/21-123_a1b2.pdf">Smith v. Jones</a></td></tr>
  <tr><td>70</td><td>5/30/23</td><td>21-99</td><td><a href="/opinions/22pdf/21-99_c3d4.pdf">Doe v. Roe</a></td></tr>
</table>
</body></html>`

func newCourtServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/orders/ordersofthecourt/22", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ordersListing))
	})
	mux.HandleFunc("/opinions/slipopinion/22", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(slipListing))
	})
	mux.HandleFunc("/opinions/relatingtoorders/22", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/orders/courtorders/060523zor_3e04.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 order list"))
	})
	mux.HandleFunc("/opinions/22pdf/21-123_a1b2.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 slip"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestOrdersScannerFetch(t *testing.T) {
	t.Parallel()

	server := newCourtServer(t)
	client := NewClient(server.Client(), server.URL, "", 0)
	sc := NewOrdersScanner(client, nil)

	release, err := sc.Fetch(context.Background(), scanner.Request{Category: domain.CategoryOrder, Term: "22"})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if release.Title != "Order List" {
		t.Fatalf("unexpected title: %s", release.Title)
	}
	if release.Date.Format("2006-01-02") != "2023-06-05" {
		t.Fatalf("unexpected date: %v", release.Date)
	}
	if release.Source != server.URL+"/orders/courtorders/060523zor_3e04.pdf" {
		t.Fatalf("unexpected source: %s", release.Source)
	}
	if release.ContentType != "application/pdf" || len(release.Content) == 0 {
		t.Fatalf("unexpected content: %q %d bytes", release.ContentType, len(release.Content))
	}
	if release.Category != domain.CategoryOrder {
		t.Fatalf("unexpected category: %s", release.Category)
	}
}

func TestOrdersScannerIndexOutOfRange(t *testing.T) {
	t.Parallel()

	server := newCourtServer(t)
	sc := NewOrdersScanner(NewClient(server.Client(), server.URL, "", 0), nil)

	_, err := sc.Fetch(context.Background(), scanner.Request{Category: domain.CategoryOrder, Term: "22", Index: 5})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrdersScannerMissingDocument(t *testing.T) {
	t.Parallel()

	server := newCourtServer(t)
	sc := NewOrdersScanner(NewClient(server.Client(), server.URL, "", 0), nil)

	// second listing item has no handler and 404s
	_, err := sc.Fetch(context.Background(), scanner.Request{Category: domain.CategoryOrder, Term: "22", Index: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSlipScannerFetch(t *testing.T) {
	t.Parallel()

	server := newCourtServer(t)
	sc := NewSlipOpinionsScanner(NewClient(server.Client(), server.URL, "", 0), nil)

	release, err := sc.Fetch(context.Background(), scanner.Request{Category: domain.CategorySlip, Term: "22"})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if release.Title != "Smith v. Jones" {
		t.Fatalf("unexpected title: %s", release.Title)
	}
	if release.Docket != "21-123" {
		t.Fatalf("unexpected docket: %s", release.Docket)
	}
	if release.Date.Format("2006-01-02") != "2023-06-01" {
		t.Fatalf("unexpected date: %v", release.Date)
	}
}

func TestRelatingScannerUnavailable(t *testing.T) {
	t.Parallel()

	server := newCourtServer(t)
	sc := NewRelatingOpinionsScanner(NewClient(server.Client(), server.URL, "", 0), nil)

	_, err := sc.Fetch(context.Background(), scanner.Request{Category: domain.CategoryRelating, Term: "22"})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClientTimeoutIsUnavailable(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client := NewClient(&http.Client{Timeout: 50 * time.Millisecond}, server.URL, "", 0)
	_, _, err := client.Download(context.Background(), server.URL+"/slow.pdf")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFetchByURL(t *testing.T) {
	t.Parallel()

	server := newCourtServer(t)
	sc := NewSlipOpinionsScanner(NewClient(server.Client(), server.URL, "", 0), nil)

	release, err := sc.Fetch(context.Background(), scanner.Request{
		Category: domain.CategorySlip,
		URL:      server.URL + "/opinions/22pdf/21-123_a1b2.pdf",
	})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if release.Docket != "21-123" {
		t.Fatalf("unexpected docket from url: %s", release.Docket)
	}
}

func TestSourceResolvesStrategy(t *testing.T) {
	t.Parallel()

	server := newCourtServer(t)
	client := NewClient(server.Client(), server.URL, "", 0)
	src := NewSource(NewDefaultRegistry(client, nil), nil)

	release, err := src.Fetch(context.Background(), scanner.Request{Category: domain.CategorySlip, Term: "22"})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if release.Category != domain.CategorySlip {
		t.Fatalf("unexpected category: %s", release.Category)
	}
}

func TestTermFollowsClientLocation(t *testing.T) {
	t.Parallel()

	instant := time.Date(2023, time.October, 2, 3, 0, 0, 0, time.UTC)
	eastern := time.FixedZone("EST", -5*60*60)

	if got := termFor(scanner.Request{}, func() time.Time { return instant }); got != "23" {
		t.Fatalf("utc term: got %s, want 23", got)
	}
	if got := termFor(scanner.Request{}, func() time.Time { return instant.In(eastern) }); got != "22" {
		t.Fatalf("eastern term: got %s, want 22", got)
	}

	client := NewClient(nil, "", "", 0).SetLocation(eastern)
	if loc := client.Now().Location(); loc != eastern {
		t.Fatalf("client now location: %v", loc)
	}
	if loc := NewClient(nil, "", "", 0).Now().Location(); loc != time.UTC {
		t.Fatalf("default location: %v", loc)
	}
}
