package models

// Requests for analytics HTTP endpoints. Defined in domain for consistency and reuse.

type ValuationRequest struct {
	PortfolioID int64 `param:"portfolioId" validate:"required,gt=0"`
}

type HistoricalRequest struct {
	PortfolioID int64 `param:"portfolioId" validate:"required,gt=0"`
	Days        int   `query:"days" default:"30" validate:"gte=1,lte=3650"`
}

type VolatilityRequest struct {
	PortfolioID int64 `param:"portfolioId" validate:"required,gt=0"`
	Days        int   `query:"days" default:"252" validate:"gte=1,lte=3650"`
}

type RiskRequest struct {
	PortfolioID  int64    `param:"portfolioId" validate:"required,gt=0"`
	Days         int      `query:"days" default:"365" validate:"gte=1,lte=3650"`
	RiskFreeRate *float64 `query:"riskFreeRate" validate:"omitempty,gte=0,lte=1"`
}

type CorrelationRequest struct {
	PortfolioID int64 `param:"portfolioId" validate:"required,gt=0"`
	Days        int   `query:"days" default:"90" validate:"gte=1,lte=3650"`
}

type RebalanceRequest struct {
	PortfolioID       int64              `param:"portfolioId" validate:"required,gt=0"`
	TargetAllocations map[string]float64 `json:"targetAllocations" validate:"omitempty,dive,gte=0,lte=100"`
}
