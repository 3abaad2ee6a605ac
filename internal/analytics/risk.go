package analytics

import (
	"math"
	"sort"

	"github.com/battuto/EtfManager/internal/domain/models"
)

// TradingDaysPerYear is the annualization basis for daily statistics.
const TradingDaysPerYear = 252

// MaxDrawdown scans a value series tracking the running peak and returns
// the deepest peak-to-trough decline as a fraction of the peak, together
// with the number of periods between that peak and the trough.
func MaxDrawdown(values []float64) (float64, int) {
	if len(values) == 0 {
		return 0, 0
	}

	maxDD := 0.0
	maxPeriod := 0
	peak := values[0]
	peakIndex := 0

	for i := 1; i < len(values); i++ {
		if values[i] > peak {
			peak = values[i]
			peakIndex = i
			continue
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - values[i]) / peak
		if dd > maxDD {
			maxDD = dd
			maxPeriod = i - peakIndex
		}
	}

	return maxDD, maxPeriod
}

// ValueAtRisk95 returns the historical 5th-percentile daily return.
func ValueAtRisk95(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)
	return sorted[int(math.Floor(float64(len(sorted))*0.05))]
}

// Volatility computes volatility statistics from an aligned value series.
// ok is false when fewer than two points are available.
func Volatility(values []float64, riskFreeRate float64) (*models.VolatilityMetrics, bool) {
	if len(values) < 2 {
		return nil, false
	}

	returns := DailyReturns(values)
	avgReturn := Mean(returns)
	dailyVol := PopStdDev(returns)

	annualizedReturn := avgReturn * TradingDaysPerYear
	annualizedVol := dailyVol * math.Sqrt(TradingDaysPerYear)

	maxDD, ddPeriod := MaxDrawdown(values)

	sharpe := 0.0
	if annualizedVol > 0 {
		sharpe = (annualizedReturn - riskFreeRate) / annualizedVol
	}

	positive, negative := 0, 0
	for _, r := range returns {
		switch {
		case r > 0:
			positive++
		case r < 0:
			negative++
		}
	}

	return &models.VolatilityMetrics{
		DailyVolatility:      dailyVol,
		AnnualizedVolatility: annualizedVol,
		AnnualizedReturn:     annualizedReturn,
		SharpeRatio:          sharpe,
		ValueAtRisk95:        ValueAtRisk95(returns),
		MaxDrawdown:          maxDD,
		MaxDrawdownDays:      ddPeriod,
		TotalReturns:         len(returns),
		PositiveReturns:      positive,
		NegativeReturns:      negative,
		AverageDailyReturn:   avgReturn,
		Interpretation: models.VolatilityInterpretation{
			Volatility: VolatilityInterpretation(annualizedVol),
			Sharpe:     SharpeInterpretation(sharpe),
		},
	}, true
}

// Risk extends Volatility with Sortino and Calmar ratios. ok is false when
// fewer than two points are available.
func Risk(values []float64, riskFreeRate float64) (*models.RiskMetrics, bool) {
	vol, ok := Volatility(values, riskFreeRate)
	if !ok {
		return nil, false
	}

	returns := DailyReturns(values)

	// Downside deviation over negative returns only, annualized.
	var downSum float64
	downCount := 0
	for _, r := range returns {
		if r < 0 {
			downSum += r * r
			downCount++
		}
	}
	downsideVol := 0.0
	if downCount > 0 {
		downsideVol = math.Sqrt(downSum/float64(downCount)) * math.Sqrt(TradingDaysPerYear)
	}

	sortino := 0.0
	if downsideVol > 0 {
		sortino = (vol.AnnualizedReturn - riskFreeRate) / downsideVol
	}

	calmar := 0.0
	if vol.MaxDrawdown != 0 {
		calmar = vol.AnnualizedReturn / math.Abs(vol.MaxDrawdown)
	}

	return &models.RiskMetrics{
		DailyVolatility:      vol.DailyVolatility,
		AnnualizedVolatility: vol.AnnualizedVolatility,
		AnnualizedReturn:     vol.AnnualizedReturn,
		SharpeRatio:          vol.SharpeRatio,
		SortinoRatio:         sortino,
		CalmarRatio:          calmar,
		ValueAtRisk95:        vol.ValueAtRisk95,
		MaxDrawdown:          vol.MaxDrawdown,
		MaxDrawdownDays:      vol.MaxDrawdownDays,
		TotalReturns:         vol.TotalReturns,
		PositiveReturns:      vol.PositiveReturns,
		NegativeReturns:      vol.NegativeReturns,
		AverageDailyReturn:   vol.AverageDailyReturn,
		RiskFreeRate:         riskFreeRate,
		Bands: models.SharpeBands{
			Excellent:  vol.SharpeRatio > 2,
			Good:       vol.SharpeRatio > 1,
			Acceptable: vol.SharpeRatio > 0.5,
			Poor:       vol.SharpeRatio <= 0.5,
		},
		Interpretation: models.RiskInterpretation{
			Sharpe:     SharpeInterpretation(vol.SharpeRatio),
			Sortino:    SortinoInterpretation(sortino),
			Volatility: VolatilityInterpretation(vol.AnnualizedVolatility),
		},
	}, true
}

// SharpeInterpretation maps a Sharpe ratio to a descriptive label.
func SharpeInterpretation(ratio float64) string {
	switch {
	case ratio > 2:
		return "Excellent - Return much higher than risk"
	case ratio > 1:
		return "Good - Return higher than risk"
	case ratio > 0.5:
		return "Acceptable - Moderate return vs risk"
	case ratio > 0:
		return "Low - Minimal return vs risk"
	default:
		return "Negative - Return below risk-free rate"
	}
}

// SortinoInterpretation maps a Sortino ratio to a descriptive label.
func SortinoInterpretation(ratio float64) string {
	switch {
	case ratio > 2:
		return "Excellent downside risk control"
	case ratio > 1:
		return "Good downside risk control"
	case ratio > 0.5:
		return "Moderate downside risk control"
	default:
		return "Limited downside risk control"
	}
}

// VolatilityInterpretation maps annualized volatility to a descriptive label.
func VolatilityInterpretation(vol float64) string {
	switch {
	case vol < 0.1:
		return "Very Low - Stable portfolio"
	case vol < 0.15:
		return "Low - Relatively stable portfolio"
	case vol < 0.25:
		return "Moderate - Normal ETF volatility"
	case vol < 0.35:
		return "High - Quite volatile portfolio"
	default:
		return "Very High - Very volatile portfolio"
	}
}
