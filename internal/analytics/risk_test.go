package analytics

import (
	"math"
	"testing"
)

func TestMaxDrawdown(t *testing.T) {
	// Peak 120 at index 1, trough 90 at index 3: drawdown 0.25 over 2 periods.
	values := []float64{100, 120, 110, 90, 115}
	dd, period := MaxDrawdown(values)
	if !almostEqual(dd, 0.25) {
		t.Fatalf("expected 0.25, got %v", dd)
	}
	if period != 2 {
		t.Fatalf("expected period 2, got %d", period)
	}
}

func TestMaxDrawdownMonotonicRise(t *testing.T) {
	dd, period := MaxDrawdown([]float64{1, 2, 3, 4})
	if dd != 0 || period != 0 {
		t.Fatalf("rising series has no drawdown, got %v/%d", dd, period)
	}
}

func TestMaxDrawdownBounds(t *testing.T) {
	series := [][]float64{
		{100, 50, 100, 25},
		{10, 9, 8, 7, 6},
		{5, 5, 5},
	}
	for _, values := range series {
		dd, _ := MaxDrawdown(values)
		if dd < 0 || dd >= 1 {
			t.Fatalf("drawdown %v outside [0,1) for %v", dd, values)
		}
	}
}

func TestValueAtRisk95(t *testing.T) {
	// 20 returns sorted ascending: index floor(20*0.05) = 1.
	returns := make([]float64, 20)
	for i := range returns {
		returns[i] = float64(i) - 10
	}
	if got := ValueAtRisk95(returns); !almostEqual(got, -9) {
		t.Fatalf("expected -9, got %v", got)
	}
}

func TestVolatilityInsufficientData(t *testing.T) {
	if _, ok := Volatility([]float64{100}, 0.02); ok {
		t.Fatalf("single point must not be computable")
	}
	if _, ok := Risk(nil, 0.02); ok {
		t.Fatalf("empty series must not be computable")
	}
}

func TestVolatilityConstantSeries(t *testing.T) {
	vol, ok := Volatility([]float64{100, 100, 100}, 0.02)
	if !ok {
		t.Fatalf("expected computable")
	}
	if vol.AnnualizedVolatility != 0 {
		t.Fatalf("constant series has zero volatility, got %v", vol.AnnualizedVolatility)
	}
	// Zero volatility must not divide: Sharpe is defined as 0.
	if vol.SharpeRatio != 0 {
		t.Fatalf("expected sharpe 0 at zero volatility, got %v", vol.SharpeRatio)
	}
}

func TestVolatilityMetrics(t *testing.T) {
	values := []float64{100, 110, 99, 108.9}
	vol, ok := Volatility(values, 0.02)
	if !ok {
		t.Fatalf("expected computable")
	}

	// Returns are +10%, -10%, +10%.
	if vol.TotalReturns != 3 || vol.PositiveReturns != 2 || vol.NegativeReturns != 1 {
		t.Fatalf("unexpected return counts: %d/%d/%d",
			vol.TotalReturns, vol.PositiveReturns, vol.NegativeReturns)
	}

	wantMean := (0.1 - 0.1 + 0.1) / 3
	if !almostEqual(vol.AverageDailyReturn, wantMean) {
		t.Fatalf("expected mean %v, got %v", wantMean, vol.AverageDailyReturn)
	}
	if !almostEqual(vol.AnnualizedReturn, wantMean*TradingDaysPerYear) {
		t.Fatalf("unexpected annualized return %v", vol.AnnualizedReturn)
	}

	wantDaily := PopStdDev([]float64{0.1, -0.1, 0.1})
	if !almostEqual(vol.DailyVolatility, wantDaily) {
		t.Fatalf("expected daily vol %v, got %v", wantDaily, vol.DailyVolatility)
	}
	if !almostEqual(vol.AnnualizedVolatility, wantDaily*math.Sqrt(TradingDaysPerYear)) {
		t.Fatalf("unexpected annualized vol %v", vol.AnnualizedVolatility)
	}
}

func TestRiskRatios(t *testing.T) {
	values := []float64{100, 110, 99, 108.9, 103.455}
	riskFree := 0.02
	risk, ok := Risk(values, riskFree)
	if !ok {
		t.Fatalf("expected computable")
	}

	// Downside deviation uses negative returns only.
	downside := math.Sqrt((0.1*0.1+0.05*0.05)/2) * math.Sqrt(TradingDaysPerYear)
	wantSortino := (risk.AnnualizedReturn - riskFree) / downside
	if !almostEqual(risk.SortinoRatio, wantSortino) {
		t.Fatalf("expected sortino %v, got %v", wantSortino, risk.SortinoRatio)
	}

	if risk.MaxDrawdown == 0 {
		t.Fatalf("expected nonzero drawdown")
	}
	wantCalmar := risk.AnnualizedReturn / math.Abs(risk.MaxDrawdown)
	if !almostEqual(risk.CalmarRatio, wantCalmar) {
		t.Fatalf("expected calmar %v, got %v", wantCalmar, risk.CalmarRatio)
	}
	if risk.RiskFreeRate != riskFree {
		t.Fatalf("expected risk-free rate echoed back")
	}
}

func TestRiskNoNegativeReturns(t *testing.T) {
	risk, ok := Risk([]float64{100, 101, 102, 103}, 0.02)
	if !ok {
		t.Fatalf("expected computable")
	}
	if risk.SortinoRatio != 0 {
		t.Fatalf("no negative returns must yield sortino 0, got %v", risk.SortinoRatio)
	}
	if risk.CalmarRatio != 0 {
		t.Fatalf("zero drawdown must yield calmar 0, got %v", risk.CalmarRatio)
	}
}

func TestInterpretationBands(t *testing.T) {
	if got := SharpeInterpretation(2.5); got != "Excellent - Return much higher than risk" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := SharpeInterpretation(-0.5); got != "Negative - Return below risk-free rate" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := VolatilityInterpretation(0.05); got != "Very Low - Stable portfolio" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := VolatilityInterpretation(0.5); got != "Very High - Very volatile portfolio" {
		t.Fatalf("unexpected label %q", got)
	}
}
