package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/battuto/EtfManager/internal/domain/models"
)

// MinCorrelationPositions is the smallest number of tickers with usable
// historical data for a correlation matrix.
const MinCorrelationPositions = 2

// Correlation builds the pairwise Pearson correlation matrix over the
// given per-ticker price series. Fewer than two usable series produce a
// message result instead of a matrix. The matrix is symmetric with an
// exact 1 diagonal.
func Correlation(series map[string]*models.PriceSeries) *models.CorrelationResult {
	tickers := make([]string, 0, len(series))
	for ticker, s := range series {
		if s.Len() > 0 {
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)

	if len(tickers) < MinCorrelationPositions {
		return &models.CorrelationResult{
			Tickers:           []string{},
			CorrelationMatrix: map[string]map[string]float64{},
			Message:           "At least 2 ETFs are required for correlation analysis",
		}
	}

	matrix := make(map[string]map[string]float64, len(tickers))
	for _, a := range tickers {
		matrix[a] = make(map[string]float64, len(tickers))
		for _, b := range tickers {
			if a == b {
				matrix[a][b] = 1
				continue
			}
			matrix[a][b] = Pearson(series[a].Values, series[b].Values)
		}
	}

	return &models.CorrelationResult{
		Tickers:           tickers,
		CorrelationMatrix: matrix,
		Analysis:          analyzeMatrix(matrix, tickers),
	}
}

func analyzeMatrix(matrix map[string]map[string]float64, tickers []string) *models.CorrelationAnalysis {
	pairs := make([]models.CorrelationPair, 0, len(tickers)*(len(tickers)-1)/2)
	for i := 0; i < len(tickers); i++ {
		for j := i + 1; j < len(tickers); j++ {
			r := matrix[tickers[i]][tickers[j]]
			pairs = append(pairs, models.CorrelationPair{
				Pair:        fmt.Sprintf("%s-%s", tickers[i], tickers[j]),
				Correlation: r,
				Level:       CorrelationLevel(r),
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].Correlation) > math.Abs(pairs[j].Correlation)
	})

	sum := 0.0
	for _, p := range pairs {
		sum += math.Abs(p.Correlation)
	}

	analysis := &models.CorrelationAnalysis{
		AverageCorrelation: sum / float64(len(pairs)),
		CorrelationPairs:   pairs,
	}
	if len(pairs) > 0 {
		analysis.HighestCorrelation = &pairs[0]
		analysis.LowestCorrelation = &pairs[len(pairs)-1]
	}
	return analysis
}

// CorrelationLevel maps an absolute correlation to a descriptive label.
func CorrelationLevel(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs > 0.8:
		return "Very High"
	case abs > 0.6:
		return "High"
	case abs > 0.4:
		return "Moderate"
	case abs > 0.2:
		return "Low"
	default:
		return "Very Low"
	}
}
