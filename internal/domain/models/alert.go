package models

import "time"

// Alert types.
const (
	AlertPriceTarget    = "price_target"
	AlertPerformance    = "performance"
	AlertPortfolioValue = "portfolio_value"
	AlertRebalance      = "rebalance"
)

// Alert conditions.
const (
	ConditionAbove         = "above"
	ConditionBelow         = "below"
	ConditionChangePercent = "change_percent"
)

// AlertTypes lists the supported alert types with their conditions.
var AlertTypes = map[string][]string{
	AlertPriceTarget:    {ConditionAbove, ConditionBelow},
	AlertPerformance:    {ConditionAbove, ConditionBelow, ConditionChangePercent},
	AlertPortfolioValue: {ConditionAbove, ConditionBelow},
	AlertRebalance:      {ConditionAbove},
}

// Alert is a user-defined watch condition evaluated periodically.
// Ticker is empty for portfolio-level alert types.
type Alert struct {
	ID              int64      `json:"id"`
	PortfolioID     int64      `json:"portfolioId"`
	Ticker          string     `json:"ticker,omitempty"`
	Type            string     `json:"type"`
	Condition       string     `json:"condition"`
	Threshold       float64    `json:"threshold"`
	Message         string     `json:"message,omitempty"`
	Active          bool       `json:"active"`
	LastTriggeredAt *time.Time `json:"lastTriggeredAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// TriggeredAlert pairs an alert with the observed value that fired it.
type TriggeredAlert struct {
	Alert   Alert   `json:"alert"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}
