package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
	applogger "github.com/battuto/EtfManager/pkg/logger"
	pkgsqlite "github.com/battuto/EtfManager/pkg/sqlite"
	"github.com/battuto/EtfManager/pkg/util"
)

// buy_date is stored as an ISO date string (yyyy-mm-dd).
const isoDate = "2006-01-02"

// SQLiteTransactionStore implements TransactionStore backed by SQLite.
type SQLiteTransactionStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewSQLiteTransactionStore(client *pkgsqlite.Client) *SQLiteTransactionStore {
	return &SQLiteTransactionStore{db: client.DB()}
}

// SetLogger injects a structured logger.
func (s *SQLiteTransactionStore) SetLogger(l *applogger.Logger) { s.l = l }

// Init applies the schema.
func (s *SQLiteTransactionStore) Init(ctx context.Context, client *pkgsqlite.Client) error {
	return client.InitSchema(ctx, SchemaStatements())
}

func (s *SQLiteTransactionStore) GetPortfolio(ctx context.Context, id int64) (*models.Portfolio, error) {
	const q = `SELECT id, name, COALESCE(description, '') FROM portfolios WHERE id = ?`
	var p models.Portfolio
	err := s.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name, &p.Description)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("portfolio %d not found", id)
	}
	if err != nil {
		s.logError("portfolio query error", id, err)
		return nil, fmt.Errorf("get portfolio: %w", err)
	}
	return &p, nil
}

func (s *SQLiteTransactionStore) GetAggregatedPositions(ctx context.Context, portfolioID int64) ([]models.AggregatedPosition, error) {
	const q = `
        SELECT ticker,
               SUM(shares) AS total_shares,
               SUM(shares * buy_price) / SUM(shares) AS avg_buy_price,
               SUM(shares * buy_price) AS total_cost,
               MIN(buy_date) AS first_buy_date
        FROM investments
        WHERE portfolio_id = ?
        GROUP BY ticker
        ORDER BY ticker ASC
    `
	rows, err := s.db.QueryContext(ctx, q, portfolioID)
	if err != nil {
		s.logError("aggregated positions query error", portfolioID, err)
		return nil, fmt.Errorf("aggregated positions: %w", err)
	}
	defer rows.Close()

	out := make([]models.AggregatedPosition, 0, 16)
	for rows.Next() {
		var pos models.AggregatedPosition
		var firstBuy string
		if err := rows.Scan(&pos.Ticker, &pos.TotalShares, &pos.WeightedAvgBuyPrice, &pos.TotalCost, &firstBuy); err != nil {
			s.logError("aggregated positions scan error", portfolioID, err)
			return nil, fmt.Errorf("scan position: %w", err)
		}
		pos.FirstBuyDate = util.ParseDateDefault(firstBuy, time.Time{})
		out = append(out, pos)
	}
	return out, rows.Err()
}

func (s *SQLiteTransactionStore) GetRawTransactions(ctx context.Context, portfolioID int64) ([]models.Transaction, error) {
	const q = `
        SELECT id, portfolio_id, ticker, shares, buy_price, buy_date
        FROM investments
        WHERE portfolio_id = ?
        ORDER BY buy_date ASC, id ASC
    `
	rows, err := s.db.QueryContext(ctx, q, portfolioID)
	if err != nil {
		s.logError("raw transactions query error", portfolioID, err)
		return nil, fmt.Errorf("raw transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (s *SQLiteTransactionStore) GetDistinctTickers(ctx context.Context, portfolioID int64) ([]string, error) {
	const q = `SELECT DISTINCT ticker FROM investments WHERE portfolio_id = ? ORDER BY ticker ASC`
	rows, err := s.db.QueryContext(ctx, q, portfolioID)
	if err != nil {
		s.logError("distinct tickers query error", portfolioID, err)
		return nil, fmt.Errorf("distinct tickers: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, 16)
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		out = append(out, ticker)
	}
	return out, rows.Err()
}

// FirstBuyDate returns the earliest buy date in the portfolio; ok is false
// when the portfolio has no transactions.
func (s *SQLiteTransactionStore) FirstBuyDate(ctx context.Context, portfolioID int64) (time.Time, bool, error) {
	const q = `SELECT MIN(buy_date) FROM investments WHERE portfolio_id = ?`
	var first sql.NullString
	if err := s.db.QueryRowContext(ctx, q, portfolioID).Scan(&first); err != nil {
		s.logError("first buy date query error", portfolioID, err)
		return time.Time{}, false, fmt.Errorf("first buy date: %w", err)
	}
	if !first.Valid || first.String == "" {
		return time.Time{}, false, nil
	}
	t, err := util.ParseDate(first.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("first buy date: %w", err)
	}
	return t, true, nil
}

func (s *SQLiteTransactionStore) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	const q = `
        SELECT id, portfolio_id, ticker, shares, buy_price, buy_date
        FROM investments
        WHERE id = ?
    `
	var tx models.Transaction
	var buyDate string
	err := s.db.QueryRowContext(ctx, q, id).Scan(&tx.ID, &tx.PortfolioID, &tx.Ticker, &tx.Shares, &tx.BuyPrice, &buyDate)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	tx.BuyDate = util.ParseDateDefault(buyDate, time.Time{})
	return &tx, nil
}

func (s *SQLiteTransactionStore) GetTransactionsByTicker(ctx context.Context, portfolioID int64, ticker string) ([]models.Transaction, error) {
	const q = `
        SELECT id, portfolio_id, ticker, shares, buy_price, buy_date
        FROM investments
        WHERE portfolio_id = ? AND ticker = ?
        ORDER BY buy_date ASC, id ASC
    `
	rows, err := s.db.QueryContext(ctx, q, portfolioID, ticker)
	if err != nil {
		s.logError("ticker transactions query error", portfolioID, err)
		return nil, fmt.Errorf("ticker transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (s *SQLiteTransactionStore) AddTransaction(ctx context.Context, t *models.Transaction) (int64, error) {
	const q = `
        INSERT INTO investments (portfolio_id, ticker, shares, buy_price, buy_date)
        VALUES (?, ?, ?, ?, ?)
    `
	res, err := s.db.ExecContext(ctx, q, t.PortfolioID, t.Ticker, t.Shares, t.BuyPrice, t.BuyDate.Format(isoDate))
	if err != nil {
		s.logError("insert transaction error", t.PortfolioID, err)
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteTransactionStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	const q = `
        UPDATE investments
        SET shares = ?, buy_price = ?, buy_date = ?
        WHERE id = ?
    `
	res, err := s.db.ExecContext(ctx, q, t.Shares, t.BuyPrice, t.BuyDate.Format(isoDate), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, t.ID)
}

func (s *SQLiteTransactionStore) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM investments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, id)
}

func (s *SQLiteTransactionStore) MoveTransaction(ctx context.Context, id, targetPortfolioID int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE investments SET portfolio_id = ? WHERE id = ?`, targetPortfolioID, id)
	if err != nil {
		return fmt.Errorf("move transaction: %w", err)
	}
	return requireRow(res, id)
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	out := make([]models.Transaction, 0, 32)
	for rows.Next() {
		var tx models.Transaction
		var buyDate string
		if err := rows.Scan(&tx.ID, &tx.PortfolioID, &tx.Ticker, &tx.Shares, &tx.BuyPrice, &buyDate); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.BuyDate = util.ParseDateDefault(buyDate, time.Time{})
		out = append(out, tx)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("transaction %d not found", id)
	}
	return nil
}

func (s *SQLiteTransactionStore) logError(msg string, portfolioID int64, err error) {
	if s.l != nil {
		s.l.Error(msg,
			applogger.Int64("portfolio_id", portfolioID),
			applogger.Error(err),
		)
	}
}
