package models

// Requests for investment HTTP endpoints.

type ListInvestmentsRequest struct {
	PortfolioID int64 `param:"portfolioId" validate:"required,gt=0"`
}

type PurchaseHistoryRequest struct {
	PortfolioID int64  `param:"portfolioId" validate:"required,gt=0"`
	Ticker      string `param:"ticker" validate:"required,min=1,max=12"`
}

type CreateInvestmentRequest struct {
	PortfolioID int64   `json:"portfolioId" default:"1" validate:"gt=0"`
	Ticker      string  `json:"ticker" validate:"required,min=1,max=12"`
	Shares      float64 `json:"shares" validate:"required,gt=0"`
	BuyPrice    float64 `json:"buyPrice" validate:"required,gt=0"`
	BuyDate     string  `json:"buyDate" validate:"required"`
}

type UpdateInvestmentRequest struct {
	ID       int64   `param:"id" validate:"required,gt=0"`
	Shares   float64 `json:"shares" validate:"required,gt=0"`
	BuyPrice float64 `json:"buyPrice" validate:"required,gt=0"`
	BuyDate  string  `json:"buyDate" validate:"required"`
}

type DeleteInvestmentRequest struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

type MoveInvestmentRequest struct {
	ID                int64 `param:"id" validate:"required,gt=0"`
	TargetPortfolioID int64 `json:"targetPortfolioId" validate:"required,gt=0"`
}

type ExportCSVRequest struct {
	PortfolioID int64 `param:"portfolioId" validate:"required,gt=0"`
}

type ImportCSVRequest struct {
	PortfolioID int64 `param:"portfolioId" validate:"required,gt=0"`
}

// CSVImportResult reports per-row outcomes of a CSV import.
type CSVImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
