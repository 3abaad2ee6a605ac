package analytics

import (
	"math"
	"sort"

	"github.com/battuto/EtfManager/internal/domain/models"
)

// Allocation deviations of 1 percentage point or less are ignored as noise;
// deviations above 5 points are flagged high priority.
const (
	rebalanceThreshold    = 1.0
	highPriorityThreshold = 5.0
)

// Rebalance compares current against target allocations (percent) and emits
// prioritized buy/sell recommendations. An empty target map defaults to
// equal weight across current tickers.
func Rebalance(current map[string]float64, targets map[string]float64, totalValue float64) *models.RebalanceResult {
	tickers := make([]string, 0, len(current))
	for ticker := range current {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	if len(targets) == 0 {
		targets = make(map[string]float64, len(tickers))
		equal := 100.0 / float64(len(tickers))
		for _, ticker := range tickers {
			targets[ticker] = equal
		}
	}

	recommendations := []models.RebalanceRecommendation{}
	for _, ticker := range tickers {
		currentAlloc := current[ticker]
		targetAlloc := targets[ticker]
		difference := targetAlloc - currentAlloc
		if math.Abs(difference) <= rebalanceThreshold {
			continue
		}

		currentValue := currentAlloc / 100 * totalValue
		targetValue := targetAlloc / 100 * totalValue
		valueChange := targetValue - currentValue

		action := models.ActionSell
		if valueChange > 0 {
			action = models.ActionBuy
		}
		priority := models.PriorityMedium
		if math.Abs(difference) > highPriorityThreshold {
			priority = models.PriorityHigh
		}

		recommendations = append(recommendations, models.RebalanceRecommendation{
			Ticker:            ticker,
			CurrentAllocation: currentAlloc,
			TargetAllocation:  targetAlloc,
			Difference:        difference,
			CurrentValue:      currentValue,
			TargetValue:       targetValue,
			ValueChange:       valueChange,
			Action:            action,
			Priority:          priority,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Priority != recommendations[j].Priority {
			return recommendations[i].Priority == models.PriorityHigh
		}
		return math.Abs(recommendations[i].Difference) > math.Abs(recommendations[j].Difference)
	})

	summary := models.RebalanceSummary{TotalAdjustments: len(recommendations)}
	for _, rec := range recommendations {
		if rec.Priority == models.PriorityHigh {
			summary.HighPriority++
		} else {
			summary.MediumPriority++
		}
	}

	return &models.RebalanceResult{
		Recommendations:     recommendations,
		TotalPortfolioValue: totalValue,
		RebalanceNeeded:     len(recommendations) > 0,
		Summary:             summary,
	}
}
