package models

// Requests for alert HTTP endpoints.

type CreateAlertRequest struct {
	PortfolioID int64   `json:"portfolioId" default:"1" validate:"gt=0"`
	Ticker      string  `json:"ticker" validate:"omitempty,min=1,max=12"`
	Type        string  `json:"type" validate:"required,oneof=price_target performance portfolio_value rebalance"`
	Condition   string  `json:"condition" validate:"required,oneof=above below change_percent"`
	Threshold   float64 `json:"threshold" validate:"required"`
	Message     string  `json:"message" validate:"omitempty,max=500"`
}

type ListAlertsRequest struct {
	PortfolioID int64 `param:"portfolioId" validate:"required,gt=0"`
}

type AlertIDRequest struct {
	AlertID int64 `param:"alertId" validate:"required,gt=0"`
}
