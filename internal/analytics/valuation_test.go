package analytics

import (
	"testing"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
)

func position(ticker string, shares, avgPrice float64) models.AggregatedPosition {
	return models.AggregatedPosition{
		Ticker:              ticker,
		TotalShares:         shares,
		WeightedAvgBuyPrice: avgPrice,
		TotalCost:           shares * avgPrice,
		FirstBuyDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestValuation(t *testing.T) {
	positions := []models.AggregatedPosition{
		position("VWCE", 10, 100),
		position("SWDA", 5, 80),
	}
	prices := map[string]float64{"VWCE": 110, "SWDA": 90}

	got := Valuation(positions, prices)

	if !almostEqual(got.TotalInvested, 1400) {
		t.Fatalf("expected invested 1400, got %v", got.TotalInvested)
	}
	if !almostEqual(got.TotalValue, 1550) {
		t.Fatalf("expected value 1550, got %v", got.TotalValue)
	}
	if !almostEqual(got.Profit, 150) {
		t.Fatalf("expected profit 150, got %v", got.Profit)
	}
	if !almostEqual(got.ProfitPercent, 150.0/1400*100) {
		t.Fatalf("unexpected profit percent %v", got.ProfitPercent)
	}
	if len(got.Allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(got.Allocations))
	}
	if !almostEqual(got.Allocations[0].Allocation, 1100.0/1550*100) {
		t.Fatalf("unexpected allocation %v", got.Allocations[0].Allocation)
	}
}

func TestValuationMissingPrice(t *testing.T) {
	positions := []models.AggregatedPosition{
		position("VWCE", 10, 100),
		position("NOPX", 5, 80),
	}
	prices := map[string]float64{"VWCE": 110}

	got := Valuation(positions, prices)

	// Unpriced position: cost counted in invested, value excluded from total.
	if !almostEqual(got.TotalInvested, 1400) {
		t.Fatalf("expected invested 1400, got %v", got.TotalInvested)
	}
	if !almostEqual(got.TotalValue, 1100) {
		t.Fatalf("expected value 1100, got %v", got.TotalValue)
	}
	for _, alloc := range got.Allocations {
		if alloc.Ticker == "NOPX" {
			if alloc.CurrentValue != nil {
				t.Fatalf("missing price must yield nil current value")
			}
			if alloc.Allocation != 0 {
				t.Fatalf("missing price must yield zero allocation")
			}
		}
	}
	// Priced position carries the full allocation.
	if !almostEqual(got.Allocations[0].Allocation, 100) {
		t.Fatalf("expected 100%% allocation, got %v", got.Allocations[0].Allocation)
	}
}

func TestValuationEmpty(t *testing.T) {
	got := Valuation(nil, nil)
	if got.TotalInvested != 0 || got.TotalValue != 0 || len(got.Allocations) != 0 {
		t.Fatalf("empty portfolio must yield zero valuation")
	}
}

func TestDiversification(t *testing.T) {
	tests := []struct {
		name      string
		fractions []float64
		want      float64
	}{
		{"single position", []float64{1}, 0},
		{"four equal positions", []float64{0.25, 0.25, 0.25, 0.25}, 75},
		{"two equal positions", []float64{0.5, 0.5}, 50},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Diversification(tt.fractions); !almostEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDiversificationBounds(t *testing.T) {
	vectors := [][]float64{
		{0.6, 0.4},
		{0.9, 0.05, 0.05},
		{0.2, 0.2, 0.2, 0.2, 0.2},
	}
	for _, fractions := range vectors {
		got := Diversification(fractions)
		if got < 0 || got >= 100 {
			t.Fatalf("diversification %v outside [0,100) for %v", got, fractions)
		}
	}
}
