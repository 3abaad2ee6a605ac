package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
	domrepo "github.com/battuto/EtfManager/internal/domain/repository"
	applogger "github.com/battuto/EtfManager/pkg/logger"
	"github.com/battuto/EtfManager/pkg/util"
)

// Alerts manages watch conditions on prices and portfolio state. The
// periodic check evaluates every active alert; a fired alert is suppressed
// for retriggerWait before it can fire again.
type Alerts struct {
	store         domrepo.AlertStore
	analytics     *Analytics
	prices        domrepo.PriceSource
	metrics       domrepo.Metrics
	l             *applogger.Logger
	retriggerWait time.Duration
	now           func() time.Time
}

func NewAlerts(store domrepo.AlertStore, analytics *Analytics, prices domrepo.PriceSource, metrics domrepo.Metrics, l *applogger.Logger, retriggerWait time.Duration) *Alerts {
	return &Alerts{
		store:         store,
		analytics:     analytics,
		prices:        prices,
		metrics:       metrics,
		l:             l,
		retriggerWait: retriggerWait,
		now:           time.Now,
	}
}

// Create validates the type and condition combination and persists the
// alert. An empty message gets a generated default.
func (u *Alerts) Create(ctx context.Context, req *models.CreateAlertRequest) (*models.Alert, error) {
	defer u.observe("alerts_create", time.Now())

	conditions, ok := models.AlertTypes[req.Type]
	if !ok {
		return nil, fmt.Errorf("unknown alert type %q", req.Type)
	}
	if !contains(conditions, req.Condition) {
		return nil, fmt.Errorf("condition %q is not valid for alert type %q", req.Condition, req.Type)
	}
	if req.Type == models.AlertPriceTarget && req.Ticker == "" {
		return nil, fmt.Errorf("alert type %q requires a ticker", req.Type)
	}

	a := &models.Alert{
		PortfolioID: req.PortfolioID,
		Ticker:      util.NormalizeTicker(req.Ticker),
		Type:        req.Type,
		Condition:   req.Condition,
		Threshold:   req.Threshold,
		Message:     req.Message,
		Active:      true,
	}
	if a.Message == "" {
		a.Message = defaultMessage(a)
	}
	id, err := u.store.CreateAlert(ctx, a)
	if err != nil {
		return nil, err
	}
	a.ID = id
	u.l.Info("alert created",
		applogger.Int64("id", id),
		applogger.String("type", a.Type),
		applogger.Float64("threshold", a.Threshold))
	return a, nil
}

// List returns all alerts of a portfolio, active and inactive.
func (u *Alerts) List(ctx context.Context, portfolioID int64) ([]models.Alert, error) {
	return u.store.ListAlerts(ctx, portfolioID)
}

// ListActive returns every active alert across all portfolios.
func (u *Alerts) ListActive(ctx context.Context) ([]models.Alert, error) {
	return u.store.ListActiveAlerts(ctx)
}

// Disable deactivates an alert without deleting it.
func (u *Alerts) Disable(ctx context.Context, id int64) error {
	return u.store.SetActive(ctx, id, false)
}

// Delete removes an alert.
func (u *Alerts) Delete(ctx context.Context, id int64) error {
	return u.store.DeleteAlert(ctx, id)
}

// Types describes the supported alert types and their conditions.
func (u *Alerts) Types() map[string][]string {
	return models.AlertTypes
}

// Check evaluates every active alert once and returns the ones that
// fired, along with the number of alerts checked. Alerts that fired
// within the retrigger window are skipped.
func (u *Alerts) Check(ctx context.Context) ([]models.TriggeredAlert, int, error) {
	defer u.observe("alerts_check", time.Now())

	alerts, err := u.store.ListActiveAlerts(ctx)
	if err != nil {
		return nil, 0, err
	}

	var triggered []models.TriggeredAlert
	for _, a := range alerts {
		if a.LastTriggeredAt != nil && u.now().Sub(*a.LastTriggeredAt) < u.retriggerWait {
			continue
		}
		value, fired, err := u.evaluate(ctx, &a)
		if err != nil {
			u.l.Warn("alert evaluation failed",
				applogger.Int64("id", a.ID),
				applogger.Error(err))
			if u.metrics != nil {
				u.metrics.RecordError("alert_evaluation")
			}
			continue
		}
		if !fired {
			continue
		}
		if err := u.store.MarkTriggered(ctx, a.ID, u.now()); err != nil {
			u.l.Error("mark triggered failed", applogger.Int64("id", a.ID), applogger.Error(err))
			continue
		}
		if u.metrics != nil {
			u.metrics.RecordAlertFired(a.Type)
		}
		u.l.Info("alert fired",
			applogger.Int64("id", a.ID),
			applogger.String("type", a.Type),
			applogger.Float64("value", value),
			applogger.String("message", a.Message))
		triggered = append(triggered, models.TriggeredAlert{Alert: a, Value: value, Message: a.Message})
	}
	return triggered, len(alerts), nil
}

// evaluate resolves the observed value for an alert and applies its
// condition. The bool reports whether the alert fired.
func (u *Alerts) evaluate(ctx context.Context, a *models.Alert) (float64, bool, error) {
	switch a.Type {
	case models.AlertPriceTarget:
		price, ok := u.prices.CurrentPrice(ctx, a.Ticker)
		if !ok {
			return 0, false, fmt.Errorf("no price available for %s", a.Ticker)
		}
		return price, compare(a.Condition, price, a.Threshold), nil

	case models.AlertPortfolioValue:
		valuation, err := u.analytics.Valuation(ctx, a.PortfolioID)
		if err != nil {
			return 0, false, err
		}
		return valuation.TotalValue, compare(a.Condition, valuation.TotalValue, a.Threshold), nil

	case models.AlertPerformance:
		valuation, err := u.analytics.Valuation(ctx, a.PortfolioID)
		if err != nil {
			return 0, false, err
		}
		pct := valuation.ProfitPercent
		if a.Condition == models.ConditionChangePercent {
			return pct, abs(pct) >= a.Threshold, nil
		}
		return pct, compare(a.Condition, pct, a.Threshold), nil

	case models.AlertRebalance:
		result, insufficient, err := u.analytics.Rebalance(ctx, a.PortfolioID, nil)
		if err != nil {
			return 0, false, err
		}
		if insufficient != nil {
			return 0, false, nil
		}
		var maxDev float64
		for _, rec := range result.Recommendations {
			if d := abs(rec.Difference); d > maxDev {
				maxDev = d
			}
		}
		return maxDev, maxDev >= a.Threshold, nil
	}
	return 0, false, fmt.Errorf("unknown alert type %q", a.Type)
}

func compare(condition string, value, threshold float64) bool {
	switch condition {
	case models.ConditionAbove:
		return value > threshold
	case models.ConditionBelow:
		return value < threshold
	}
	return false
}

func defaultMessage(a *models.Alert) string {
	tickerText := ""
	if a.Ticker != "" {
		tickerText = " for " + a.Ticker
	}
	threshold := strconv.FormatFloat(a.Threshold, 'f', -1, 64)
	switch a.Type {
	case models.AlertPriceTarget:
		verb := "reached"
		if a.Condition == models.ConditionAbove {
			verb = "exceeded"
		}
		return fmt.Sprintf("Price target %s: €%s%s", verb, threshold, tickerText)
	case models.AlertPerformance:
		return fmt.Sprintf("Portfolio performance %s %s%%", a.Condition, threshold)
	case models.AlertPortfolioValue:
		return fmt.Sprintf("Portfolio value %s €%s", a.Condition, threshold)
	case models.AlertRebalance:
		return "Portfolio rebalance reminder"
	}
	return fmt.Sprintf("Alert %s %s%s", a.Condition, threshold, tickerText)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (u *Alerts) observe(op string, start time.Time) {
	if u.metrics != nil {
		u.metrics.RecordLatency(op, time.Since(start).Seconds())
	}
}

// AlertCheckJob adapts the alert check to the scheduler's job contract.
type AlertCheckJob struct {
	alerts *Alerts
}

func NewAlertCheckJob(alerts *Alerts) *AlertCheckJob {
	return &AlertCheckJob{alerts: alerts}
}

func (j *AlertCheckJob) Name() string { return "alert-check" }

func (j *AlertCheckJob) Run(ctx context.Context) error {
	triggered, checked, err := j.alerts.Check(ctx)
	if err != nil {
		return fmt.Errorf("alert check: %w", err)
	}
	j.alerts.l.Debug("alert check run",
		applogger.Int("checked", checked),
		applogger.Int("triggered", len(triggered)))
	return nil
}
