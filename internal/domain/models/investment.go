package models

import "time"

// Transaction is a single recorded buy of an ETF within a portfolio.
// Multiple transactions per ticker are kept as purchase history, never merged.
type Transaction struct {
	ID          int64     `json:"id"`
	PortfolioID int64     `json:"portfolioId"`
	Ticker      string    `json:"ticker"`
	Shares      float64   `json:"shares"`
	BuyPrice    float64   `json:"buyPrice"`
	BuyDate     time.Time `json:"-"`
	CreatedAt   time.Time `json:"-"`
}

// AggregatedPosition is the derived per-ticker view of a portfolio.
// Recomputed from transactions on every request, never persisted.
type AggregatedPosition struct {
	Ticker              string
	TotalShares         float64
	WeightedAvgBuyPrice float64
	TotalCost           float64
	FirstBuyDate        time.Time
}

// Portfolio groups transactions under a user-chosen name.
type Portfolio struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"-"`
}

// PositionView is a current-price enriched position for the investments list.
// CurrentPrice and CurrentValue are nil when no quote is available; such
// positions are excluded from portfolio totals rather than counted as zero.
type PositionView struct {
	Ticker         string   `json:"ticker"`
	Shares         float64  `json:"shares"`
	AvgBuyPrice    float64  `json:"avgBuyPrice"`
	Invested       float64  `json:"invested"`
	CurrentPrice   *float64 `json:"currentPrice"`
	CurrentValue   *float64 `json:"currentValue"`
	Profit         *float64 `json:"profit"`
	ProfitPercent  *float64 `json:"profitPercent"`
	Allocation     *float64 `json:"allocation"`
	FirstBuyDate   string   `json:"firstBuyDate"`
	Transactions   int      `json:"transactions"`
}

// PurchaseRecord is one historical buy enriched with deviation from the
// current market price.
type PurchaseRecord struct {
	ID               int64    `json:"id"`
	Shares           float64  `json:"shares"`
	BuyPrice         float64  `json:"buyPrice"`
	BuyDate          string   `json:"buyDate"`
	Cost             float64  `json:"cost"`
	Deviation        *float64 `json:"deviation"`
	DeviationPercent *float64 `json:"deviationPercent"`
}

// PurchaseHistory is the full buy history of one ticker in a portfolio.
type PurchaseHistory struct {
	Ticker       string           `json:"ticker"`
	CurrentPrice *float64         `json:"currentPrice"`
	Purchases    []PurchaseRecord `json:"purchases"`
	TotalShares  float64          `json:"totalShares"`
	TotalCost    float64          `json:"totalCost"`
}
