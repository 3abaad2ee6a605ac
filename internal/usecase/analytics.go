package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/battuto/EtfManager/internal/analytics"
	"github.com/battuto/EtfManager/internal/domain/models"
	domrepo "github.com/battuto/EtfManager/internal/domain/repository"
	applogger "github.com/battuto/EtfManager/pkg/logger"
	"github.com/battuto/EtfManager/pkg/util"
)

// Analytics orchestrates the portfolio analytics engine: it pulls
// transactions from the store, fans out price fetches, falls back to
// simulated series per ticker, and feeds the aligned result into the
// statistics calculators.
type Analytics struct {
	store        domrepo.TransactionStore
	prices       domrepo.PriceSource
	metrics      domrepo.Metrics
	l            *applogger.Logger
	riskFreeRate float64
	now          func() time.Time
}

func NewAnalytics(store domrepo.TransactionStore, prices domrepo.PriceSource, metrics domrepo.Metrics, l *applogger.Logger, riskFreeRate float64) *Analytics {
	return &Analytics{
		store:        store,
		prices:       prices,
		metrics:      metrics,
		l:            l,
		riskFreeRate: riskFreeRate,
		now:          time.Now,
	}
}

// Valuation computes the current portfolio snapshot with live prices.
func (a *Analytics) Valuation(ctx context.Context, portfolioID int64) (*models.ValuationResult, error) {
	defer a.observe("valuation", time.Now())

	positions, err := a.store.GetAggregatedPositions(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return analytics.Valuation(nil, nil), nil
	}

	prices := a.fetchCurrentPrices(ctx, tickersOf(positions))
	return analytics.Valuation(positions, prices), nil
}

// Historical computes the aligned portfolio value series over a trailing
// day window, with the today anchor appended.
func (a *Analytics) Historical(ctx context.Context, portfolioID int64, days int) (*models.HistoricalResult, error) {
	defer a.observe("historical", time.Now())

	aligned, _, err := a.alignedSeries(ctx, portfolioID, days)
	if err != nil {
		return nil, err
	}
	return &models.HistoricalResult{
		Dates:          util.FormatDMYAll(aligned.Dates),
		Values:         aligned.Values,
		InvestedValues: aligned.InvestedValues,
		Sources:        aligned.Sources,
	}, nil
}

// Volatility computes volatility statistics over the aligned series.
// A nil metrics result with a non-nil message means insufficient data.
func (a *Analytics) Volatility(ctx context.Context, portfolioID int64, days int) (*models.VolatilityMetrics, *models.InsufficientData, error) {
	defer a.observe("volatility", time.Now())

	aligned, _, err := a.alignedSeries(ctx, portfolioID, days)
	if err != nil {
		return nil, nil, err
	}
	vol, ok := analytics.Volatility(aligned.Values, a.riskFreeRate)
	if !ok {
		return nil, &models.InsufficientData{Message: "Insufficient data for volatility analysis"}, nil
	}
	return vol, nil, nil
}

// Risk computes the full risk metrics. riskFreeRate overrides the
// configured default when non-nil.
func (a *Analytics) Risk(ctx context.Context, portfolioID int64, days int, riskFreeRate *float64) (*models.RiskMetrics, *models.InsufficientData, error) {
	defer a.observe("risk", time.Now())

	rate := a.riskFreeRate
	if riskFreeRate != nil {
		rate = *riskFreeRate
	}

	aligned, _, err := a.alignedSeries(ctx, portfolioID, days)
	if err != nil {
		return nil, nil, err
	}
	risk, ok := analytics.Risk(aligned.Values, rate)
	if !ok {
		return nil, &models.InsufficientData{Message: "Insufficient data for risk analysis"}, nil
	}
	return risk, nil, nil
}

// Correlation builds the pairwise correlation matrix across the
// portfolio's tickers over a trailing day window. Simulated data is not
// substituted here: only tickers with real history participate.
func (a *Analytics) Correlation(ctx context.Context, portfolioID int64, days int) (*models.CorrelationResult, error) {
	defer a.observe("correlation", time.Now())

	tickers, err := a.store.GetDistinctTickers(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if len(tickers) < analytics.MinCorrelationPositions {
		return &models.CorrelationResult{
			Tickers:           []string{},
			CorrelationMatrix: map[string]map[string]float64{},
			Message:           "At least 2 ETFs are required for correlation analysis",
		}, nil
	}

	to := util.Day(a.now())
	from := to.AddDate(0, 0, -days)

	series := make(map[string]*models.PriceSeries, len(tickers))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			if s, ok := a.prices.HistoricalSeries(ctx, ticker, from, to); ok {
				mu.Lock()
				series[ticker] = s
				mu.Unlock()
			}
		}(ticker)
	}
	wg.Wait()

	if len(series) < analytics.MinCorrelationPositions {
		return &models.CorrelationResult{
			Tickers:           []string{},
			CorrelationMatrix: map[string]map[string]float64{},
			Message:           "Insufficient historical data for correlation analysis",
		}, nil
	}
	return analytics.Correlation(series), nil
}

// Rebalance emits prioritized buy/sell actions against target allocations;
// an empty target map defaults to equal weight.
func (a *Analytics) Rebalance(ctx context.Context, portfolioID int64, targets map[string]float64) (*models.RebalanceResult, *models.InsufficientData, error) {
	defer a.observe("rebalance", time.Now())

	valuation, err := a.Valuation(ctx, portfolioID)
	if err != nil {
		return nil, nil, err
	}
	if len(valuation.Allocations) == 0 {
		return nil, &models.InsufficientData{Message: "No investments found in portfolio"}, nil
	}

	current := make(map[string]float64, len(valuation.Allocations))
	for _, alloc := range valuation.Allocations {
		current[alloc.Ticker] = alloc.Allocation
	}
	return analytics.Rebalance(current, targets, valuation.TotalValue), nil, nil
}

// alignedSeries resolves the day window, fetches per-ticker history with
// simulated fallback, aligns onto one axis and appends the today anchor.
func (a *Analytics) alignedSeries(ctx context.Context, portfolioID int64, days int) (*models.AlignedSeries, []models.Transaction, error) {
	positions, err := a.store.GetAggregatedPositions(ctx, portfolioID)
	if err != nil {
		return nil, nil, err
	}
	transactions, err := a.store.GetRawTransactions(ctx, portfolioID)
	if err != nil {
		return nil, nil, err
	}
	if len(positions) == 0 {
		return &models.AlignedSeries{
			Dates:          []time.Time{},
			Values:         []float64{},
			InvestedValues: []float64{},
		}, nil, nil
	}

	first, hasFirst, err := a.store.FirstBuyDate(ctx, portfolioID)
	if err != nil {
		return nil, nil, err
	}
	window := analytics.ResolveWindow(days, first, hasFirst, a.now())

	today := util.Day(a.now())
	from := today.AddDate(0, 0, -window)

	// Per-ticker fan-out; one ticker's failure falls back to a simulated
	// series instead of failing the request.
	series := make(map[string]*models.PriceSeries, len(positions))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, pos := range positions {
		wg.Add(1)
		go func(pos models.AggregatedPosition) {
			defer wg.Done()
			s, ok := a.prices.HistoricalSeries(ctx, pos.Ticker, from, today)
			if !ok {
				s = analytics.Simulate(pos.Ticker, window, pos.WeightedAvgBuyPrice, today)
				if a.l != nil {
					a.l.Warn("using simulated series",
						applogger.String("ticker", pos.Ticker),
						applogger.Int("days", window),
					)
				}
			}
			mu.Lock()
			series[pos.Ticker] = s
			mu.Unlock()
		}(pos)
	}
	wg.Wait()

	aligned := analytics.Align(transactions, series)
	livePrices := a.fetchCurrentPrices(ctx, tickersOf(positions))
	analytics.AppendAnchor(aligned, today, transactions, livePrices)

	return aligned, transactions, nil
}

// fetchCurrentPrices fans out live quote fetches and joins partial
// results; missing quotes are simply absent from the map.
func (a *Analytics) fetchCurrentPrices(ctx context.Context, tickers []string) map[string]float64 {
	prices := make(map[string]float64, len(tickers))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			if price, ok := a.prices.CurrentPrice(ctx, ticker); ok {
				mu.Lock()
				prices[ticker] = price
				mu.Unlock()
			}
		}(ticker)
	}
	wg.Wait()
	return prices
}

func tickersOf(positions []models.AggregatedPosition) []string {
	out := make([]string, len(positions))
	for i, pos := range positions {
		out[i] = pos.Ticker
	}
	return out
}

func (a *Analytics) observe(op string, start time.Time) {
	if a.metrics != nil {
		a.metrics.RecordLatency(op, time.Since(start).Seconds())
	}
}
