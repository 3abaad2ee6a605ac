package models

// Allocation is a single position's share of the current portfolio value,
// expressed in percent.
type Allocation struct {
	Ticker       string   `json:"ticker"`
	Allocation   float64  `json:"allocation"`
	CurrentValue *float64 `json:"currentValue"`
	Invested     float64  `json:"invested"`
}

// ValuationResult is the current snapshot of a portfolio.
type ValuationResult struct {
	TotalInvested float64          `json:"totalInvested"`
	TotalValue    float64          `json:"totalValue"`
	Profit        float64          `json:"profit"`
	ProfitPercent float64          `json:"profitPercent"`
	Allocations   []Allocation     `json:"allocations"`
	Metrics       ValuationMetrics `json:"metrics"`
}

// ValuationMetrics carries derived portfolio-level indicators.
type ValuationMetrics struct {
	Diversification float64 `json:"diversification"`
	Positions       int     `json:"positions"`
}

// HistoricalResult is the presentation form of an AlignedSeries with
// dd/mm/yyyy date strings.
type HistoricalResult struct {
	Dates          []string                `json:"dates"`
	Values         []float64               `json:"values"`
	InvestedValues []float64               `json:"investedValues"`
	Sources        map[string]SeriesSource `json:"sources,omitempty"`
}

// VolatilityInterpretation holds descriptive labels for volatility metrics.
type VolatilityInterpretation struct {
	Volatility string `json:"volatility"`
	Sharpe     string `json:"sharpe"`
}

// VolatilityMetrics holds return/volatility statistics derived from an
// aligned series. All ratios use a zero denominator guard yielding 0.
type VolatilityMetrics struct {
	DailyVolatility      float64                  `json:"dailyVolatility"`
	AnnualizedVolatility float64                  `json:"annualizedVolatility"`
	AnnualizedReturn     float64                  `json:"annualizedReturn"`
	SharpeRatio          float64                  `json:"sharpeRatio"`
	ValueAtRisk95        float64                  `json:"valueAtRisk95"`
	MaxDrawdown          float64                  `json:"maxDrawdown"`
	MaxDrawdownDays      int                      `json:"maxDrawdownDays"`
	TotalReturns         int                      `json:"totalReturns"`
	PositiveReturns      int                      `json:"positiveReturns"`
	NegativeReturns      int                      `json:"negativeReturns"`
	AverageDailyReturn   float64                  `json:"averageDailyReturn"`
	Interpretation       VolatilityInterpretation `json:"interpretation"`
}

// SharpeBands flags which quality band the Sharpe ratio falls into.
type SharpeBands struct {
	Excellent  bool `json:"excellent"`
	Good       bool `json:"good"`
	Acceptable bool `json:"acceptable"`
	Poor       bool `json:"poor"`
}

// RiskInterpretation holds descriptive labels for risk metrics.
type RiskInterpretation struct {
	Sharpe     string `json:"sharpe"`
	Sortino    string `json:"sortino"`
	Volatility string `json:"volatility"`
}

// RiskMetrics extends VolatilityMetrics with risk-adjusted return ratios.
type RiskMetrics struct {
	DailyVolatility      float64            `json:"dailyVolatility"`
	AnnualizedVolatility float64            `json:"annualizedVolatility"`
	AnnualizedReturn     float64            `json:"annualizedReturn"`
	SharpeRatio          float64            `json:"sharpeRatio"`
	SortinoRatio         float64            `json:"sortinoRatio"`
	CalmarRatio          float64            `json:"calmarRatio"`
	ValueAtRisk95        float64            `json:"valueAtRisk95"`
	MaxDrawdown          float64            `json:"maxDrawdown"`
	MaxDrawdownDays      int                `json:"maxDrawdownDays"`
	TotalReturns         int                `json:"totalReturns"`
	PositiveReturns      int                `json:"positiveReturns"`
	NegativeReturns      int                `json:"negativeReturns"`
	AverageDailyReturn   float64            `json:"averageDailyReturn"`
	RiskFreeRate         float64            `json:"riskFreeRate"`
	Bands                SharpeBands        `json:"riskMetrics"`
	Interpretation       RiskInterpretation `json:"interpretation"`
}

// InsufficientData is the structured "not computable" result used when a
// statistic lacks the data points or positions it requires.
type InsufficientData struct {
	Message string `json:"message"`
}

// CorrelationPair is one off-diagonal entry of the correlation matrix.
type CorrelationPair struct {
	Pair        string  `json:"pair"`
	Correlation float64 `json:"correlation"`
	Level       string  `json:"level"`
}

// CorrelationAnalysis summarizes the pairwise correlations sorted by
// absolute strength.
type CorrelationAnalysis struct {
	HighestCorrelation *CorrelationPair  `json:"highestCorrelation"`
	LowestCorrelation  *CorrelationPair  `json:"lowestCorrelation"`
	AverageCorrelation float64           `json:"averageCorrelation"`
	CorrelationPairs   []CorrelationPair `json:"correlationPairs"`
}

// CorrelationResult is the full pairwise Pearson correlation view.
type CorrelationResult struct {
	Tickers           []string                      `json:"tickers"`
	CorrelationMatrix map[string]map[string]float64 `json:"correlationMatrix"`
	Analysis          *CorrelationAnalysis          `json:"analysis,omitempty"`
	Message           string                        `json:"message,omitempty"`
}

// Rebalance actions and priorities.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"

	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
)

// RebalanceRecommendation is one prioritized buy/sell action.
type RebalanceRecommendation struct {
	Ticker            string  `json:"ticker"`
	CurrentAllocation float64 `json:"currentAllocation"`
	TargetAllocation  float64 `json:"targetAllocation"`
	Difference        float64 `json:"difference"`
	CurrentValue      float64 `json:"currentValue"`
	TargetValue       float64 `json:"targetValue"`
	ValueChange       float64 `json:"valueChange"`
	Action            string  `json:"action"`
	Priority          string  `json:"priority"`
}

// RebalanceSummary counts recommendations per priority tier.
type RebalanceSummary struct {
	TotalAdjustments int `json:"totalAdjustments"`
	HighPriority     int `json:"highPriority"`
	MediumPriority   int `json:"mediumPriority"`
}

// RebalanceResult is the output of the rebalancing recommender.
type RebalanceResult struct {
	Recommendations     []RebalanceRecommendation `json:"recommendations"`
	TotalPortfolioValue float64                   `json:"totalPortfolioValue"`
	RebalanceNeeded     bool                      `json:"rebalanceNeeded"`
	Summary             RebalanceSummary          `json:"summary"`
}
