package repository

import (
	"context"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
)

// TransactionStore holds raw buy transactions grouped by portfolio.
// The analytics engine only reads; the investments surface also writes.
type TransactionStore interface {
	GetPortfolio(ctx context.Context, id int64) (*models.Portfolio, error)
	GetAggregatedPositions(ctx context.Context, portfolioID int64) ([]models.AggregatedPosition, error)
	GetRawTransactions(ctx context.Context, portfolioID int64) ([]models.Transaction, error)
	GetDistinctTickers(ctx context.Context, portfolioID int64) ([]string, error)
	FirstBuyDate(ctx context.Context, portfolioID int64) (time.Time, bool, error)

	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	GetTransactionsByTicker(ctx context.Context, portfolioID int64, ticker string) ([]models.Transaction, error)
	AddTransaction(ctx context.Context, t *models.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	MoveTransaction(ctx context.Context, id, targetPortfolioID int64) error
}

// PriceSource supplies current and historical prices for a ticker.
// Absence (fetch failure, unknown ticker) is reported via the bool, never
// as a zero price and never as a transport error.
type PriceSource interface {
	CurrentPrice(ctx context.Context, ticker string) (float64, bool)
	HistoricalSeries(ctx context.Context, ticker string, from, to time.Time) (*models.PriceSeries, bool)
}

// AlertStore persists user-defined alerts.
type AlertStore interface {
	CreateAlert(ctx context.Context, a *models.Alert) (int64, error)
	GetAlert(ctx context.Context, id int64) (*models.Alert, error)
	ListAlerts(ctx context.Context, portfolioID int64) ([]models.Alert, error)
	ListActiveAlerts(ctx context.Context) ([]models.Alert, error)
	MarkTriggered(ctx context.Context, id int64, at time.Time) error
	SetActive(ctx context.Context, id int64, active bool) error
	DeleteAlert(ctx context.Context, id int64) error
}

// Metrics records operational counters and gauges.
type Metrics interface {
	RecordPriceFetch(source, outcome string)
	RecordCacheLookup(kind, outcome string)
	RecordError(kind string)
	RecordLastPrice(ticker string, price float64)
	RecordAlertFired(alertType string)
	RecordLatency(op string, seconds float64)
}
