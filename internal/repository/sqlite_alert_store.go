package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
	applogger "github.com/battuto/EtfManager/pkg/logger"
	pkgsqlite "github.com/battuto/EtfManager/pkg/sqlite"
)

// SQLiteAlertStore implements AlertStore backed by SQLite.
type SQLiteAlertStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewSQLiteAlertStore(client *pkgsqlite.Client) *SQLiteAlertStore {
	return &SQLiteAlertStore{db: client.DB()}
}

// SetLogger injects a structured logger.
func (s *SQLiteAlertStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *SQLiteAlertStore) CreateAlert(ctx context.Context, a *models.Alert) (int64, error) {
	const q = `
        INSERT INTO alerts (portfolio_id, ticker, alert_type, condition_type, threshold_value, message, is_active)
        VALUES (?, ?, ?, ?, ?, ?, 1)
    `
	res, err := s.db.ExecContext(ctx, q, a.PortfolioID, a.Ticker, a.Type, a.Condition, a.Threshold, a.Message)
	if err != nil {
		if s.l != nil {
			s.l.Error("insert alert error", applogger.Error(err))
		}
		return 0, fmt.Errorf("insert alert: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteAlertStore) GetAlert(ctx context.Context, id int64) (*models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, selectAlerts+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	defer rows.Close()

	alerts, err := scanAlerts(rows)
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 {
		return nil, fmt.Errorf("alert %d not found", id)
	}
	return &alerts[0], nil
}

func (s *SQLiteAlertStore) ListAlerts(ctx context.Context, portfolioID int64) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, selectAlerts+` WHERE portfolio_id = ? ORDER BY created_at DESC`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

func (s *SQLiteAlertStore) ListActiveAlerts(ctx context.Context) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, selectAlerts+` WHERE is_active = 1 ORDER BY portfolio_id ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

func (s *SQLiteAlertStore) MarkTriggered(ctx context.Context, id int64, at time.Time) error {
	const q = `UPDATE alerts SET last_triggered = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, q, at.UTC().Format(time.RFC3339), id); err != nil {
		return fmt.Errorf("mark triggered: %w", err)
	}
	return nil
}

func (s *SQLiteAlertStore) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE alerts SET is_active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("set alert active: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("alert %d not found", id)
	}
	return nil
}

func (s *SQLiteAlertStore) DeleteAlert(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("alert %d not found", id)
	}
	return nil
}

const selectAlerts = `
    SELECT id, portfolio_id, COALESCE(ticker, ''), alert_type, condition_type,
           threshold_value, COALESCE(message, ''), is_active, created_at, last_triggered
    FROM alerts`

func scanAlerts(rows *sql.Rows) ([]models.Alert, error) {
	out := make([]models.Alert, 0, 16)
	for rows.Next() {
		var a models.Alert
		var active int
		var createdAt string
		var lastTriggered sql.NullString
		if err := rows.Scan(&a.ID, &a.PortfolioID, &a.Ticker, &a.Type, &a.Condition,
			&a.Threshold, &a.Message, &active, &createdAt, &lastTriggered); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Active = active != 0
		a.CreatedAt = parseStoredTime(createdAt)
		if lastTriggered.Valid && lastTriggered.String != "" {
			t := parseStoredTime(lastTriggered.String)
			a.LastTriggeredAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// parseStoredTime accepts both RFC3339 and SQLite's CURRENT_TIMESTAMP format.
func parseStoredTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
