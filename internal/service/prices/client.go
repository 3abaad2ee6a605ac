package prices

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
	domrepo "github.com/battuto/EtfManager/internal/domain/repository"
	"github.com/battuto/EtfManager/internal/service/ratelimit"
	"github.com/battuto/EtfManager/pkg/cache"
	xhttp "github.com/battuto/EtfManager/pkg/http"
	applogger "github.com/battuto/EtfManager/pkg/logger"
	"github.com/battuto/EtfManager/pkg/util"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// quotePattern extracts the quote text from the Google Finance page.
var quotePattern = regexp.MustCompile(`<div class="YMlKec fxKbKc[^"]*">([^<]+)</div>`)

// Option configures Client.
type Option func(*Client)

// Client fetches current and historical ETF prices from external web
// sources. It implements repository.PriceSource: every failure resolves to
// absence, never to a transport error or a zero price.
type Client struct {
	http       *xhttp.Client
	cache      cache.Service
	metrics    domrepo.Metrics
	l          *applogger.Logger
	quoteURL   string
	historyURL string
	locale     string
	currency   string
	maxRetries int
	quoteTTL   time.Duration
	historyTTL time.Duration
	timeout    time.Duration
	limiter    *ratelimit.Limiter
	burst      float64
	refillRate float64
}

var _ domrepo.PriceSource = (*Client)(nil)

// NewClient creates a price source client.
func NewClient(c cache.Service, opts ...Option) *Client {
	client := &Client{
		cache:      c,
		quoteURL:   "https://www.google.com/finance/quote",
		historyURL: "https://www.justetf.com/api/etfs",
		locale:     "it",
		currency:   "EUR",
		maxRetries: 2,
		quoteTTL:   5 * time.Minute,
		historyTTL: time.Hour,
		timeout:    10 * time.Second,
		limiter:    ratelimit.New(),
		burst:      20,
		refillRate: 5,
	}
	for _, opt := range opts {
		opt(client)
	}
	client.http = xhttp.NewClient(xhttp.WithTimeout(client.timeout))
	return client
}

// WithEndpoints overrides the quote and history base URLs.
func WithEndpoints(quoteURL, historyURL string) Option {
	return func(c *Client) {
		if quoteURL != "" {
			c.quoteURL = quoteURL
		}
		if historyURL != "" {
			c.historyURL = historyURL
		}
	}
}

// WithMarket sets locale and currency for the history API.
func WithMarket(locale, currency string) Option {
	return func(c *Client) {
		if locale != "" {
			c.locale = locale
		}
		if currency != "" {
			c.currency = currency
		}
	}
}

// WithRetries bounds retry attempts on timeouts and server errors.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithTTLs sets cache lifetimes for quotes and history.
func WithTTLs(quote, history time.Duration) Option {
	return func(c *Client) {
		if quote > 0 {
			c.quoteTTL = quote
		}
		if history > 0 {
			c.historyTTL = history
		}
	}
}

// WithFetchTimeout sets the per-request timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit tunes the per-source token bucket for outbound fetches.
func WithRateLimit(burst, refillPerSec float64) Option {
	return func(c *Client) {
		if burst > 0 {
			c.burst = burst
		}
		if refillPerSec > 0 {
			c.refillRate = refillPerSec
		}
	}
}

// WithMetrics injects the metrics recorder.
func WithMetrics(m domrepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.l = l }
}

// CurrentPrice returns the live quote for a ticker. ok is false when the
// quote cannot be fetched or parsed.
func (c *Client) CurrentPrice(ctx context.Context, ticker string) (float64, bool) {
	ticker = util.NormalizeTicker(ticker)
	if ticker == "" {
		return 0, false
	}

	key := cache.GenerateKey("price:quote", ticker)
	if c.cache != nil {
		var cached float64
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			c.recordCache("quote", "hit")
			return cached, true
		}
		c.recordCache("quote", "miss")
	}

	price, ok := c.fetchQuote(ctx, ticker)
	if !ok {
		c.recordFetch("quote", "failure")
		return 0, false
	}
	c.recordFetch("quote", "success")
	if c.metrics != nil {
		c.metrics.RecordLastPrice(ticker, price)
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, price, c.quoteTTL)
	}
	return price, true
}

// HistoricalSeries returns the historical market value series of a ticker
// over [from, to]. ok is false when no real data is available; the caller
// decides whether to fall back to a simulated series.
func (c *Client) HistoricalSeries(ctx context.Context, ticker string, from, to time.Time) (*models.PriceSeries, bool) {
	ticker = util.NormalizeTicker(ticker)
	isin, ok := FindISIN(ticker)
	if !ok {
		c.warn("no ISIN mapping for ticker", ticker, nil)
		return nil, false
	}

	key := cache.GenerateKeyWithParams("price:history", isin,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if c.cache != nil {
		if cached, err := cache.GetTyped[models.PriceSeries](ctx, c.cache, key); err == nil && cached.Len() > 0 {
			c.recordCache("history", "hit")
			return &cached, true
		}
		c.recordCache("history", "miss")
	}

	series, ok := c.fetchHistory(ctx, ticker, isin, from, to)
	if !ok {
		c.recordFetch("history", "failure")
		return nil, false
	}
	c.recordFetch("history", "success")

	if c.cache != nil {
		_ = cache.SetTyped(ctx, c.cache, key, *series, c.historyTTL)
	}
	return series, true
}

func (c *Client) fetchQuote(ctx context.Context, ticker string) (float64, bool) {
	if !c.allow("quote") {
		c.warn("quote fetch rate limited", ticker, nil)
		return 0, false
	}
	url := fmt.Sprintf("%s/%s:BIT?hl=%s", c.quoteURL, ticker, c.locale)

	var body []byte
	if err := c.sendWithRetry(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     url,
		Headers: map[string]string{"User-Agent": userAgent},
	}, &body); err != nil {
		c.warn("quote fetch failed", ticker, err)
		return 0, false
	}

	match := quotePattern.FindSubmatch(body)
	if match == nil {
		c.warn("no quote found in page", ticker, nil)
		return 0, false
	}

	price, err := parseEuroAmount(string(match[1]))
	if err != nil {
		c.warn("invalid quote text", ticker, err)
		return 0, false
	}
	return price, true
}

// historyResponse mirrors the justETF performance-chart payload.
type historyResponse struct {
	Series []struct {
		Date  string `json:"date"`
		Value struct {
			Raw float64 `json:"raw"`
		} `json:"value"`
	} `json:"series"`
}

func (c *Client) fetchHistory(ctx context.Context, ticker, isin string, from, to time.Time) (*models.PriceSeries, bool) {
	if !c.allow("history") {
		c.warn("history fetch rate limited", ticker, nil)
		return nil, false
	}
	url := fmt.Sprintf("%s/%s/performance-chart", c.historyURL, isin)

	var resp historyResponse
	if err := c.sendWithRetry(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     url,
		Headers: map[string]string{"User-Agent": userAgent},
		QueryParams: map[string][]string{
			"locale":           {c.locale},
			"currency":         {c.currency},
			"valuesType":       {"MARKET_VALUE"},
			"reduceData":       {"false"},
			"includeDividends": {"false"},
			"features":         {"DIVIDENDS"},
			"dateFrom":         {from.Format("2006-01-02")},
			"dateTo":           {to.Format("2006-01-02")},
		},
	}, &resp); err != nil {
		c.warn("history fetch failed", ticker, err)
		return nil, false
	}

	if len(resp.Series) == 0 {
		c.warn("history response empty", ticker, nil)
		return nil, false
	}

	series := &models.PriceSeries{
		Ticker: ticker,
		Dates:  make([]time.Time, 0, len(resp.Series)),
		Values: make([]float64, 0, len(resp.Series)),
		Source: models.SourceReal,
	}
	for _, point := range resp.Series {
		d, err := time.Parse("2006-01-02", point.Date)
		if err != nil {
			continue
		}
		series.Dates = append(series.Dates, util.Day(d))
		series.Values = append(series.Values, point.Value.Raw)
	}
	if series.Len() == 0 {
		return nil, false
	}
	return series, true
}

// sendWithRetry retries timeouts and 5xx responses up to maxRetries times.
func (c *Client) sendWithRetry(ctx context.Context, opts *xhttp.RequestOptions, dest interface{}) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err = c.http.SendAndParse(ctx, opts, dest)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
	}
	return err
}

func isRetryable(err error) bool {
	msg := err.Error()
	if strings.Contains(msg, "Client.Timeout") || strings.Contains(msg, "context deadline exceeded") {
		return true
	}
	// 5xx responses surface as "unexpected status 5xx: body".
	return strings.Contains(msg, "unexpected status 5")
}

// parseEuroAmount converts an Italian-locale money string to a float:
// strips the euro sign, drops thousands separators, and converts the
// decimal comma.
func parseEuroAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	return strconv.ParseFloat(s, 64)
}

// allow consumes one token from the per-source fetch bucket.
func (c *Client) allow(source string) bool {
	if c.limiter == nil {
		return true
	}
	return c.limiter.Allow(source, c.burst, c.refillRate)
}

func (c *Client) recordFetch(source, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordPriceFetch(source, outcome)
	}
}

func (c *Client) recordCache(kind, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(kind, outcome)
	}
}

func (c *Client) warn(msg, ticker string, err error) {
	if c.l == nil {
		return
	}
	fields := []applogger.Field{applogger.String("ticker", ticker)}
	if err != nil {
		fields = append(fields, applogger.Error(err))
	}
	c.l.Warn(msg, fields...)
}
