package usecase

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
	applogger "github.com/battuto/EtfManager/pkg/logger"
)

func newTestLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

// fakeTxStore is an in-memory TransactionStore.
type fakeTxStore struct {
	portfolios map[int64]*models.Portfolio
	txs        []models.Transaction
	nextID     int64
}

func newFakeTxStore(txs ...models.Transaction) *fakeTxStore {
	s := &fakeTxStore{
		portfolios: map[int64]*models.Portfolio{
			1: {ID: 1, Name: "Main Portfolio"},
		},
	}
	for _, t := range txs {
		s.nextID++
		t.ID = s.nextID
		s.txs = append(s.txs, t)
	}
	return s
}

func (s *fakeTxStore) GetPortfolio(_ context.Context, id int64) (*models.Portfolio, error) {
	p, ok := s.portfolios[id]
	if !ok {
		return nil, fmt.Errorf("portfolio %d not found", id)
	}
	return p, nil
}

func (s *fakeTxStore) GetAggregatedPositions(_ context.Context, portfolioID int64) ([]models.AggregatedPosition, error) {
	byTicker := make(map[string]*models.AggregatedPosition)
	for _, t := range s.txs {
		if t.PortfolioID != portfolioID {
			continue
		}
		pos, ok := byTicker[t.Ticker]
		if !ok {
			pos = &models.AggregatedPosition{Ticker: t.Ticker, FirstBuyDate: t.BuyDate}
			byTicker[t.Ticker] = pos
		}
		pos.TotalShares += t.Shares
		pos.TotalCost += t.Shares * t.BuyPrice
		if t.BuyDate.Before(pos.FirstBuyDate) {
			pos.FirstBuyDate = t.BuyDate
		}
	}
	tickers := make([]string, 0, len(byTicker))
	for ticker := range byTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	out := make([]models.AggregatedPosition, 0, len(tickers))
	for _, ticker := range tickers {
		pos := byTicker[ticker]
		if pos.TotalShares > 0 {
			pos.WeightedAvgBuyPrice = pos.TotalCost / pos.TotalShares
		}
		out = append(out, *pos)
	}
	return out, nil
}

func (s *fakeTxStore) GetRawTransactions(_ context.Context, portfolioID int64) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range s.txs {
		if t.PortfolioID == portfolioID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTxStore) GetDistinctTickers(_ context.Context, portfolioID int64) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.txs {
		if t.PortfolioID == portfolioID && !seen[t.Ticker] {
			seen[t.Ticker] = true
			out = append(out, t.Ticker)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *fakeTxStore) FirstBuyDate(_ context.Context, portfolioID int64) (time.Time, bool, error) {
	var first time.Time
	found := false
	for _, t := range s.txs {
		if t.PortfolioID != portfolioID {
			continue
		}
		if !found || t.BuyDate.Before(first) {
			first = t.BuyDate
			found = true
		}
	}
	return first, found, nil
}

func (s *fakeTxStore) GetTransaction(_ context.Context, id int64) (*models.Transaction, error) {
	for _, t := range s.txs {
		if t.ID == id {
			out := t
			return &out, nil
		}
	}
	return nil, fmt.Errorf("transaction %d not found", id)
}

func (s *fakeTxStore) GetTransactionsByTicker(_ context.Context, portfolioID int64, ticker string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range s.txs {
		if t.PortfolioID == portfolioID && t.Ticker == ticker {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BuyDate.After(out[j].BuyDate) })
	return out, nil
}

func (s *fakeTxStore) AddTransaction(_ context.Context, t *models.Transaction) (int64, error) {
	s.nextID++
	t.ID = s.nextID
	s.txs = append(s.txs, *t)
	return t.ID, nil
}

func (s *fakeTxStore) UpdateTransaction(_ context.Context, t *models.Transaction) error {
	for i := range s.txs {
		if s.txs[i].ID == t.ID {
			s.txs[i] = *t
			return nil
		}
	}
	return fmt.Errorf("transaction %d not found", t.ID)
}

func (s *fakeTxStore) DeleteTransaction(_ context.Context, id int64) error {
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %d not found", id)
}

func (s *fakeTxStore) MoveTransaction(_ context.Context, id, targetPortfolioID int64) error {
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs[i].PortfolioID = targetPortfolioID
			return nil
		}
	}
	return fmt.Errorf("transaction %d not found", id)
}

// fakePrices serves canned quotes and history.
type fakePrices struct {
	quotes map[string]float64
	series map[string]*models.PriceSeries
}

func (f *fakePrices) CurrentPrice(_ context.Context, ticker string) (float64, bool) {
	price, ok := f.quotes[ticker]
	return price, ok
}

func (f *fakePrices) HistoricalSeries(_ context.Context, ticker string, _, _ time.Time) (*models.PriceSeries, bool) {
	s, ok := f.series[ticker]
	return s, ok
}

// fakeAlertStore is an in-memory AlertStore.
type fakeAlertStore struct {
	alerts map[int64]*models.Alert
	nextID int64
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{alerts: make(map[int64]*models.Alert)}
}

func (s *fakeAlertStore) CreateAlert(_ context.Context, a *models.Alert) (int64, error) {
	s.nextID++
	copied := *a
	copied.ID = s.nextID
	s.alerts[copied.ID] = &copied
	return copied.ID, nil
}

func (s *fakeAlertStore) GetAlert(_ context.Context, id int64) (*models.Alert, error) {
	a, ok := s.alerts[id]
	if !ok {
		return nil, fmt.Errorf("alert %d not found", id)
	}
	out := *a
	return &out, nil
}

func (s *fakeAlertStore) ListAlerts(_ context.Context, portfolioID int64) ([]models.Alert, error) {
	var out []models.Alert
	for _, a := range s.alerts {
		if a.PortfolioID == portfolioID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeAlertStore) ListActiveAlerts(_ context.Context) ([]models.Alert, error) {
	var out []models.Alert
	for _, a := range s.alerts {
		if a.Active {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeAlertStore) MarkTriggered(_ context.Context, id int64, at time.Time) error {
	a, ok := s.alerts[id]
	if !ok {
		return fmt.Errorf("alert %d not found", id)
	}
	a.LastTriggeredAt = &at
	return nil
}

func (s *fakeAlertStore) SetActive(_ context.Context, id int64, active bool) error {
	a, ok := s.alerts[id]
	if !ok {
		return fmt.Errorf("alert %d not found", id)
	}
	a.Active = active
	return nil
}

func (s *fakeAlertStore) DeleteAlert(_ context.Context, id int64) error {
	if _, ok := s.alerts[id]; !ok {
		return fmt.Errorf("alert %d not found", id)
	}
	delete(s.alerts, id)
	return nil
}

// nopMetrics discards all recordings.
type nopMetrics struct{}

func (nopMetrics) RecordPriceFetch(string, string)  {}
func (nopMetrics) RecordCacheLookup(string, string) {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordLastPrice(string, float64)  {}
func (nopMetrics) RecordAlertFired(string)          {}
func (nopMetrics) RecordLatency(string, float64)    {}
