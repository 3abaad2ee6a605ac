package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newAnalyticsForTest(t *testing.T, store *fakeTxStore, prices *fakePrices, now time.Time) *Analytics {
	t.Helper()
	a := NewAnalytics(store, prices, nopMetrics{}, newTestLogger(t), 0.02)
	a.now = func() time.Time { return now }
	return a
}

func TestValuationWithLivePrices(t *testing.T) {
	store := newFakeTxStore(
		models.Transaction{PortfolioID: 1, Ticker: "VWCE", Shares: 10, BuyPrice: 100, BuyDate: day(2025, 1, 10)},
		models.Transaction{PortfolioID: 1, Ticker: "SWDA", Shares: 5, BuyPrice: 80, BuyDate: day(2025, 2, 10)},
	)
	prices := &fakePrices{quotes: map[string]float64{"VWCE": 110, "SWDA": 90}}
	a := newAnalyticsForTest(t, store, prices, day(2025, 6, 1))

	result, err := a.Valuation(context.Background(), 1)
	if err != nil {
		t.Fatalf("valuation: %v", err)
	}
	if result.TotalInvested != 1400 {
		t.Errorf("total invested = %v, want 1400", result.TotalInvested)
	}
	if result.TotalValue != 1550 {
		t.Errorf("total value = %v, want 1550", result.TotalValue)
	}
	if len(result.Allocations) != 2 {
		t.Fatalf("allocations = %d, want 2", len(result.Allocations))
	}
}

func TestHistoricalSimulatedFallback(t *testing.T) {
	store := newFakeTxStore(
		models.Transaction{PortfolioID: 1, Ticker: "VWCE", Shares: 10, BuyPrice: 100, BuyDate: day(2025, 1, 10)},
	)
	// No history available: the engine must fall back to a simulated series.
	prices := &fakePrices{quotes: map[string]float64{"VWCE": 110}}
	a := newAnalyticsForTest(t, store, prices, day(2025, 6, 1))

	result, err := a.Historical(context.Background(), 1, 30)
	if err != nil {
		t.Fatalf("historical: %v", err)
	}
	if result.Sources["VWCE"] != models.SourceSimulated {
		t.Errorf("source = %q, want simulated", result.Sources["VWCE"])
	}
	if len(result.Dates) == 0 || len(result.Dates) != len(result.Values) {
		t.Fatalf("dates/values mismatch: %d vs %d", len(result.Dates), len(result.Values))
	}
	if len(result.InvestedValues) != len(result.Values) {
		t.Fatalf("invested series length = %d, want %d", len(result.InvestedValues), len(result.Values))
	}
	for i, v := range result.Values {
		if v < 0 {
			t.Errorf("value[%d] = %v, want >= 0", i, v)
		}
	}
}

func TestHistoricalRealSeriesWithAnchor(t *testing.T) {
	now := day(2025, 6, 10)
	store := newFakeTxStore(
		models.Transaction{PortfolioID: 1, Ticker: "VWCE", Shares: 10, BuyPrice: 100, BuyDate: day(2025, 6, 1)},
	)
	prices := &fakePrices{
		quotes: map[string]float64{"VWCE": 115},
		series: map[string]*models.PriceSeries{
			"VWCE": {
				Ticker: "VWCE",
				Dates:  []time.Time{day(2025, 6, 5), day(2025, 6, 8)},
				Values: []float64{105, 110},
				Source: models.SourceReal,
			},
		},
	}
	a := newAnalyticsForTest(t, store, prices, now)

	result, err := a.Historical(context.Background(), 1, 30)
	if err != nil {
		t.Fatalf("historical: %v", err)
	}
	// Two history points plus the today anchor.
	if len(result.Dates) != 3 {
		t.Fatalf("dates = %v, want 3 entries", result.Dates)
	}
	if got := result.Dates[2]; got != "10/06/2025" {
		t.Errorf("anchor date = %q, want 10/06/2025", got)
	}
	if got := result.Values[2]; got != 1150 {
		t.Errorf("anchor value = %v, want 1150", got)
	}
	if result.Sources["VWCE"] != models.SourceReal {
		t.Errorf("source = %q, want real", result.Sources["VWCE"])
	}
}

func TestCorrelationRequiresTwoTickers(t *testing.T) {
	store := newFakeTxStore(
		models.Transaction{PortfolioID: 1, Ticker: "VWCE", Shares: 10, BuyPrice: 100, BuyDate: day(2025, 1, 10)},
	)
	a := newAnalyticsForTest(t, store, &fakePrices{}, day(2025, 6, 1))

	result, err := a.Correlation(context.Background(), 1, 90)
	if err != nil {
		t.Fatalf("correlation: %v", err)
	}
	if result.Message != "At least 2 ETFs are required for correlation analysis" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestCorrelationInsufficientHistory(t *testing.T) {
	store := newFakeTxStore(
		models.Transaction{PortfolioID: 1, Ticker: "VWCE", Shares: 10, BuyPrice: 100, BuyDate: day(2025, 1, 10)},
		models.Transaction{PortfolioID: 1, Ticker: "SWDA", Shares: 5, BuyPrice: 80, BuyDate: day(2025, 2, 10)},
	)
	// History resolves for only one of the two tickers.
	prices := &fakePrices{
		series: map[string]*models.PriceSeries{
			"VWCE": {
				Ticker: "VWCE",
				Dates:  []time.Time{day(2025, 5, 1), day(2025, 5, 2)},
				Values: []float64{100, 101},
				Source: models.SourceReal,
			},
		},
	}
	a := newAnalyticsForTest(t, store, prices, day(2025, 6, 1))

	result, err := a.Correlation(context.Background(), 1, 90)
	if err != nil {
		t.Fatalf("correlation: %v", err)
	}
	if result.Message != "Insufficient historical data for correlation analysis" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestRebalanceEmptyPortfolio(t *testing.T) {
	a := newAnalyticsForTest(t, newFakeTxStore(), &fakePrices{}, day(2025, 6, 1))

	_, insufficient, err := a.Rebalance(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("rebalance: %v", err)
	}
	if insufficient == nil || insufficient.Message != "No investments found in portfolio" {
		t.Errorf("insufficient = %+v", insufficient)
	}
}

func TestRiskRateOverride(t *testing.T) {
	store := newFakeTxStore(
		models.Transaction{PortfolioID: 1, Ticker: "VWCE", Shares: 10, BuyPrice: 100, BuyDate: day(2025, 1, 10)},
	)
	a := newAnalyticsForTest(t, store, &fakePrices{quotes: map[string]float64{"VWCE": 110}}, day(2025, 6, 1))

	override := 0.05
	risk, insufficient, err := a.Risk(context.Background(), 1, 365, &override)
	if err != nil {
		t.Fatalf("risk: %v", err)
	}
	if insufficient != nil {
		t.Fatalf("unexpected insufficient data: %+v", insufficient)
	}
	if risk.RiskFreeRate != 0.05 {
		t.Errorf("risk free rate = %v, want 0.05", risk.RiskFreeRate)
	}
}
