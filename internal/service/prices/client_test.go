package prices

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/battuto/EtfManager/pkg/cache"
)

func TestParseEuroAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"€113,45", 113.45, false},
		{"1.234,56", 1234.56, false},
		{" € 99,10 ", 99.10, false},
		{"not a price", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseEuroAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("parse %q = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFindISIN(t *testing.T) {
	if isin, ok := FindISIN("vwce"); !ok || isin != "IE00BK5BQT80" {
		t.Fatalf("expected mapped ISIN, got %q/%v", isin, ok)
	}
	if isin, ok := FindISIN("IE00B4L5Y983"); !ok || isin != "IE00B4L5Y983" {
		t.Fatalf("12-char input must pass through, got %q/%v", isin, ok)
	}
	if _, ok := FindISIN("UNKNOWN"); ok {
		t.Fatalf("unknown ticker must not resolve")
	}
	if _, ok := FindISIN(""); ok {
		t.Fatalf("empty ticker must not resolve")
	}
}

func newQuoteServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCurrentPrice(t *testing.T) {
	srv := newQuoteServer(t,
		`<html><div class="YMlKec fxKbKc">€113,45</div></html>`, http.StatusOK)

	mem := cache.NewMemoryCache()
	client := NewClient(mem, WithEndpoints(srv.URL, ""), WithRetries(0))

	price, ok := client.CurrentPrice(context.Background(), "VWCE")
	if !ok {
		t.Fatalf("expected price")
	}
	if price != 113.45 {
		t.Fatalf("expected 113.45, got %v", price)
	}

	// Second read is served from the cache.
	cached, ok := client.CurrentPrice(context.Background(), "VWCE")
	if !ok || cached != price {
		t.Fatalf("expected cached price, got %v/%v", cached, ok)
	}
}

func TestCurrentPriceAbsent(t *testing.T) {
	srv := newQuoteServer(t, `<html><div>no quote here</div></html>`, http.StatusOK)
	client := NewClient(nil, WithEndpoints(srv.URL, ""), WithRetries(0))

	if _, ok := client.CurrentPrice(context.Background(), "VWCE"); ok {
		t.Fatalf("missing quote element must resolve to absence")
	}
}

func TestCurrentPriceServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(nil, WithEndpoints(srv.URL, ""), WithRetries(2))

	if _, ok := client.CurrentPrice(context.Background(), "VWCE"); ok {
		t.Fatalf("server error must resolve to absence")
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 1 attempt + 2 retries, got %d calls", got)
	}
}

func TestHistoricalSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("valuesType"); got != "MARKET_VALUE" {
			t.Errorf("expected MARKET_VALUE, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"series":[
            {"date":"2026-03-08","value":{"raw":100.5}},
            {"date":"2026-03-09","value":{"raw":101.2}}
        ]}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(nil, WithEndpoints("", srv.URL), WithRetries(0))

	from := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	series, ok := client.HistoricalSeries(context.Background(), "VWCE", from, to)
	if !ok {
		t.Fatalf("expected series")
	}
	if series.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", series.Len())
	}
	if series.Values[0] != 100.5 || series.Values[1] != 101.2 {
		t.Fatalf("unexpected values %v", series.Values)
	}
	if !series.Dates[0].Equal(from) {
		t.Fatalf("unexpected first date %v", series.Dates[0])
	}
}

func TestHistoricalSeriesUnknownTicker(t *testing.T) {
	client := NewClient(nil, WithRetries(0))
	from := time.Now().AddDate(0, 0, -30)
	if _, ok := client.HistoricalSeries(context.Background(), "ZZZZ", from, time.Now()); ok {
		t.Fatalf("unmapped ticker must resolve to absence without a request")
	}
}

func TestHistoricalSeriesEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"series":[]}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(nil, WithEndpoints("", srv.URL), WithRetries(0))
	from := time.Now().AddDate(0, 0, -30)
	if _, ok := client.HistoricalSeries(context.Background(), "VWCE", from, time.Now()); ok {
		t.Fatalf("empty series must resolve to absence")
	}
}
