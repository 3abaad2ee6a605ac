package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
)

func newAlertsForTest(t *testing.T, store *fakeAlertStore, txStore *fakeTxStore, prices *fakePrices, now time.Time) *Alerts {
	t.Helper()
	analytics := newAnalyticsForTest(t, txStore, prices, now)
	a := NewAlerts(store, analytics, prices, nopMetrics{}, newTestLogger(t), 24*time.Hour)
	a.now = func() time.Time { return now }
	return a
}

func TestCreateAlertDefaultMessage(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateAlertRequest
		want string
	}{
		{
			name: "price target above",
			req:  models.CreateAlertRequest{PortfolioID: 1, Ticker: "VWCE", Type: models.AlertPriceTarget, Condition: models.ConditionAbove, Threshold: 120},
			want: "Price target exceeded: €120 for VWCE",
		},
		{
			name: "price target below",
			req:  models.CreateAlertRequest{PortfolioID: 1, Ticker: "VWCE", Type: models.AlertPriceTarget, Condition: models.ConditionBelow, Threshold: 90.5},
			want: "Price target reached: €90.5 for VWCE",
		},
		{
			name: "performance",
			req:  models.CreateAlertRequest{PortfolioID: 1, Type: models.AlertPerformance, Condition: models.ConditionAbove, Threshold: 10},
			want: "Portfolio performance above 10%",
		},
		{
			name: "portfolio value",
			req:  models.CreateAlertRequest{PortfolioID: 1, Type: models.AlertPortfolioValue, Condition: models.ConditionBelow, Threshold: 5000},
			want: "Portfolio value below €5000",
		},
		{
			name: "rebalance",
			req:  models.CreateAlertRequest{PortfolioID: 1, Type: models.AlertRebalance, Condition: models.ConditionAbove, Threshold: 5},
			want: "Portfolio rebalance reminder",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newAlertsForTest(t, newFakeAlertStore(), newFakeTxStore(), &fakePrices{}, day(2025, 6, 1))
			alert, err := u.Create(context.Background(), &tt.req)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if alert.Message != tt.want {
				t.Errorf("message = %q, want %q", alert.Message, tt.want)
			}
			if !alert.Active {
				t.Error("new alert should be active")
			}
		})
	}
}

func TestCreateAlertInvalidCombination(t *testing.T) {
	u := newAlertsForTest(t, newFakeAlertStore(), newFakeTxStore(), &fakePrices{}, day(2025, 6, 1))

	_, err := u.Create(context.Background(), &models.CreateAlertRequest{
		PortfolioID: 1, Type: models.AlertPortfolioValue, Condition: models.ConditionChangePercent, Threshold: 10,
	})
	if err == nil {
		t.Error("expected error for change_percent on portfolio_value")
	}

	_, err = u.Create(context.Background(), &models.CreateAlertRequest{
		PortfolioID: 1, Type: models.AlertPriceTarget, Condition: models.ConditionAbove, Threshold: 10,
	})
	if err == nil {
		t.Error("expected error for price_target without ticker")
	}
}

func TestCheckPriceTargetAlert(t *testing.T) {
	store := newFakeAlertStore()
	prices := &fakePrices{quotes: map[string]float64{"VWCE": 125}}
	u := newAlertsForTest(t, store, newFakeTxStore(), prices, day(2025, 6, 1))

	if _, err := u.Create(context.Background(), &models.CreateAlertRequest{
		PortfolioID: 1, Ticker: "VWCE", Type: models.AlertPriceTarget, Condition: models.ConditionAbove, Threshold: 120,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	triggered, checked, err := u.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if checked != 1 {
		t.Errorf("checked = %d, want 1", checked)
	}
	if len(triggered) != 1 {
		t.Fatalf("triggered = %d, want 1", len(triggered))
	}
	if triggered[0].Value != 125 {
		t.Errorf("value = %v, want 125", triggered[0].Value)
	}
}

func TestCheckRetriggerSuppression(t *testing.T) {
	store := newFakeAlertStore()
	prices := &fakePrices{quotes: map[string]float64{"VWCE": 125}}
	now := day(2025, 6, 1)
	u := newAlertsForTest(t, store, newFakeTxStore(), prices, now)

	if _, err := u.Create(context.Background(), &models.CreateAlertRequest{
		PortfolioID: 1, Ticker: "VWCE", Type: models.AlertPriceTarget, Condition: models.ConditionAbove, Threshold: 120,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	triggered, _, err := u.Check(context.Background())
	if err != nil || len(triggered) != 1 {
		t.Fatalf("first check: %v, triggered %d", err, len(triggered))
	}

	// Within the suppression window: nothing fires.
	u.now = func() time.Time { return now.Add(12 * time.Hour) }
	triggered, _, err = u.Check(context.Background())
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if len(triggered) != 0 {
		t.Errorf("triggered = %d inside suppression window, want 0", len(triggered))
	}

	// Past the window the alert fires again.
	u.now = func() time.Time { return now.Add(25 * time.Hour) }
	triggered, _, err = u.Check(context.Background())
	if err != nil {
		t.Fatalf("third check: %v", err)
	}
	if len(triggered) != 1 {
		t.Errorf("triggered = %d past suppression window, want 1", len(triggered))
	}
}

func TestCheckPortfolioValueAlert(t *testing.T) {
	txStore := newFakeTxStore(
		models.Transaction{PortfolioID: 1, Ticker: "VWCE", Shares: 10, BuyPrice: 100, BuyDate: day(2025, 1, 10)},
	)
	prices := &fakePrices{quotes: map[string]float64{"VWCE": 120}}
	u := newAlertsForTest(t, newFakeAlertStore(), txStore, prices, day(2025, 6, 1))

	if _, err := u.Create(context.Background(), &models.CreateAlertRequest{
		PortfolioID: 1, Type: models.AlertPortfolioValue, Condition: models.ConditionAbove, Threshold: 1000,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	triggered, _, err := u.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(triggered) != 1 || triggered[0].Value != 1200 {
		t.Fatalf("triggered = %+v, want one at 1200", triggered)
	}
}

func TestCheckPerformanceChangePercent(t *testing.T) {
	txStore := newFakeTxStore(
		models.Transaction{PortfolioID: 1, Ticker: "VWCE", Shares: 10, BuyPrice: 100, BuyDate: day(2025, 1, 10)},
	)
	// Value dropped 15 percent: |−15| >= 10 fires.
	prices := &fakePrices{quotes: map[string]float64{"VWCE": 85}}
	u := newAlertsForTest(t, newFakeAlertStore(), txStore, prices, day(2025, 6, 1))

	if _, err := u.Create(context.Background(), &models.CreateAlertRequest{
		PortfolioID: 1, Type: models.AlertPerformance, Condition: models.ConditionChangePercent, Threshold: 10,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	triggered, _, err := u.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(triggered) != 1 {
		t.Fatalf("triggered = %d, want 1", len(triggered))
	}
	if triggered[0].Value != -15 {
		t.Errorf("value = %v, want -15", triggered[0].Value)
	}
}

func TestCheckRebalanceAlert(t *testing.T) {
	// 60/40 split against an implicit equal-weight target: max deviation 10pp.
	txStore := newFakeTxStore(
		models.Transaction{PortfolioID: 1, Ticker: "VWCE", Shares: 6, BuyPrice: 100, BuyDate: day(2025, 1, 10)},
		models.Transaction{PortfolioID: 1, Ticker: "SWDA", Shares: 4, BuyPrice: 100, BuyDate: day(2025, 1, 10)},
	)
	prices := &fakePrices{quotes: map[string]float64{"VWCE": 100, "SWDA": 100}}
	u := newAlertsForTest(t, newFakeAlertStore(), txStore, prices, day(2025, 6, 1))

	if _, err := u.Create(context.Background(), &models.CreateAlertRequest{
		PortfolioID: 1, Type: models.AlertRebalance, Condition: models.ConditionAbove, Threshold: 5,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	triggered, _, err := u.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(triggered) != 1 {
		t.Fatalf("triggered = %d, want 1", len(triggered))
	}
	if triggered[0].Value != 10 {
		t.Errorf("max deviation = %v, want 10", triggered[0].Value)
	}
}

func TestCheckSkipsUnavailablePrice(t *testing.T) {
	u := newAlertsForTest(t, newFakeAlertStore(), newFakeTxStore(), &fakePrices{}, day(2025, 6, 1))

	if _, err := u.Create(context.Background(), &models.CreateAlertRequest{
		PortfolioID: 1, Ticker: "VWCE", Type: models.AlertPriceTarget, Condition: models.ConditionAbove, Threshold: 120,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	triggered, checked, err := u.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if checked != 1 || len(triggered) != 0 {
		t.Errorf("checked = %d, triggered = %d; want 1 checked, 0 triggered", checked, len(triggered))
	}
}

func TestDisableAndDelete(t *testing.T) {
	store := newFakeAlertStore()
	u := newAlertsForTest(t, store, newFakeTxStore(), &fakePrices{}, day(2025, 6, 1))

	alert, err := u.Create(context.Background(), &models.CreateAlertRequest{
		PortfolioID: 1, Ticker: "VWCE", Type: models.AlertPriceTarget, Condition: models.ConditionAbove, Threshold: 120,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := u.Disable(context.Background(), alert.ID); err != nil {
		t.Fatalf("disable: %v", err)
	}
	active, err := u.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active = %d after disable, want 0", len(active))
	}

	if err := u.Delete(context.Background(), alert.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, err := u.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("alerts = %d after delete, want 0", len(all))
	}
}
