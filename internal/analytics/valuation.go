package analytics

import (
	"github.com/battuto/EtfManager/internal/domain/models"
)

// Valuation aggregates positions into the current portfolio snapshot.
// Positions without a current price keep a nil CurrentValue and are
// excluded from totalValue, while their cost still counts toward
// totalInvested.
func Valuation(positions []models.AggregatedPosition, prices map[string]float64) *models.ValuationResult {
	result := &models.ValuationResult{
		Allocations: []models.Allocation{},
	}
	if len(positions) == 0 {
		return result
	}

	type valued struct {
		pos   models.AggregatedPosition
		value *float64
	}

	valuedPositions := make([]valued, 0, len(positions))
	for _, pos := range positions {
		result.TotalInvested += pos.TotalCost
		var value *float64
		if price, ok := prices[pos.Ticker]; ok {
			v := price * pos.TotalShares
			value = &v
			result.TotalValue += v
		}
		valuedPositions = append(valuedPositions, valued{pos: pos, value: value})
	}

	result.Profit = result.TotalValue - result.TotalInvested
	if result.TotalInvested > 0 {
		result.ProfitPercent = result.Profit / result.TotalInvested * 100
	}

	allocationFractions := make([]float64, 0, len(valuedPositions))
	for _, vp := range valuedPositions {
		alloc := models.Allocation{
			Ticker:       vp.pos.Ticker,
			CurrentValue: vp.value,
			Invested:     vp.pos.TotalCost,
		}
		if vp.value != nil && result.TotalValue > 0 {
			alloc.Allocation = *vp.value / result.TotalValue * 100
			allocationFractions = append(allocationFractions, *vp.value/result.TotalValue)
		}
		result.Allocations = append(result.Allocations, alloc)
	}

	result.Metrics = models.ValuationMetrics{
		Diversification: Diversification(allocationFractions),
		Positions:       len(positions),
	}
	return result
}

// Diversification is the inverse Herfindahl-Hirschman index of allocation
// fractions, scaled to 0-100. A single fully-allocated position yields 0;
// N equal positions yield 100*(1-1/N).
func Diversification(fractions []float64) float64 {
	if len(fractions) == 0 {
		return 0
	}
	hhi := 0.0
	for _, f := range fractions {
		hhi += f * f
	}
	return (1 - hhi) * 100
}
