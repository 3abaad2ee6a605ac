package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
	domrepo "github.com/battuto/EtfManager/internal/domain/repository"
	applogger "github.com/battuto/EtfManager/pkg/logger"
	"github.com/battuto/EtfManager/pkg/util"
)

// csvHeader is the column layout of portfolio exports. Imports accept the
// first four columns and ignore the derived ones.
var csvHeader = []string{"Ticker", "Shares", "Buy_Price", "Buy_Date", "Current_Price", "Current_Value", "Profit_Loss", "Percent_Change"}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Investments manages the transaction ledger: listing positions enriched
// with live prices, purchase history per ticker, CRUD on single buys, and
// CSV export/import of a whole portfolio.
type Investments struct {
	store   domrepo.TransactionStore
	prices  domrepo.PriceSource
	metrics domrepo.Metrics
	l       *applogger.Logger
	now     func() time.Time
}

func NewInvestments(store domrepo.TransactionStore, prices domrepo.PriceSource, metrics domrepo.Metrics, l *applogger.Logger) *Investments {
	return &Investments{
		store:   store,
		prices:  prices,
		metrics: metrics,
		l:       l,
		now:     time.Now,
	}
}

// List returns the aggregated positions of a portfolio enriched with
// current prices. Positions without a quote keep nil price fields and are
// excluded from allocation percentages.
func (u *Investments) List(ctx context.Context, portfolioID int64) ([]models.PositionView, error) {
	defer u.observe("investments_list", time.Now())

	positions, err := u.store.GetAggregatedPositions(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	txs, err := u.store.GetRawTransactions(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	txCount := make(map[string]int, len(positions))
	for _, t := range txs {
		txCount[t.Ticker]++
	}

	prices := u.fetchPrices(ctx, positions)

	views := make([]models.PositionView, 0, len(positions))
	var totalValue float64
	for _, pos := range positions {
		v := models.PositionView{
			Ticker:       pos.Ticker,
			Shares:       pos.TotalShares,
			AvgBuyPrice:  pos.WeightedAvgBuyPrice,
			Invested:     pos.TotalCost,
			FirstBuyDate: util.FormatDMY(pos.FirstBuyDate),
			Transactions: txCount[pos.Ticker],
		}
		if price, ok := prices[pos.Ticker]; ok {
			value := price * pos.TotalShares
			profit := value - pos.TotalCost
			v.CurrentPrice = &price
			v.CurrentValue = &value
			v.Profit = &profit
			if pos.TotalCost > 0 {
				pct := profit / pos.TotalCost * 100
				v.ProfitPercent = &pct
			}
			totalValue += value
		}
		views = append(views, v)
	}

	if totalValue > 0 {
		for i := range views {
			if views[i].CurrentValue != nil {
				alloc := *views[i].CurrentValue / totalValue * 100
				views[i].Allocation = &alloc
			}
		}
	}
	return views, nil
}

// History returns every recorded buy of a ticker with deviation from the
// current market price, newest first.
func (u *Investments) History(ctx context.Context, portfolioID int64, ticker string) (*models.PurchaseHistory, error) {
	defer u.observe("investments_history", time.Now())

	ticker = util.NormalizeTicker(ticker)
	txs, err := u.store.GetTransactionsByTicker(ctx, portfolioID, ticker)
	if err != nil {
		return nil, err
	}

	hist := &models.PurchaseHistory{
		Ticker:    ticker,
		Purchases: make([]models.PurchaseRecord, 0, len(txs)),
	}

	price, priceOK := u.prices.CurrentPrice(ctx, ticker)
	if priceOK {
		hist.CurrentPrice = &price
	}

	for _, t := range txs {
		rec := models.PurchaseRecord{
			ID:       t.ID,
			Shares:   t.Shares,
			BuyPrice: t.BuyPrice,
			BuyDate:  util.FormatDMY(t.BuyDate),
			Cost:     t.BuyPrice * t.Shares,
		}
		if priceOK {
			dev := t.BuyPrice - price
			rec.Deviation = &dev
			if price > 0 {
				devPct := dev / price * 100
				rec.DeviationPercent = &devPct
			}
		}
		hist.TotalShares += t.Shares
		hist.TotalCost += rec.Cost
		hist.Purchases = append(hist.Purchases, rec)
	}
	return hist, nil
}

// Add records a new buy transaction.
func (u *Investments) Add(ctx context.Context, req *models.CreateInvestmentRequest) (*models.Transaction, error) {
	defer u.observe("investments_add", time.Now())

	buyDate, err := util.ParseDate(req.BuyDate)
	if err != nil {
		return nil, fmt.Errorf("invalid buy date %q: %w", req.BuyDate, err)
	}
	t := &models.Transaction{
		PortfolioID: req.PortfolioID,
		Ticker:      util.NormalizeTicker(req.Ticker),
		Shares:      req.Shares,
		BuyPrice:    req.BuyPrice,
		BuyDate:     buyDate,
	}
	id, err := u.store.AddTransaction(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	u.l.Info("investment added",
		applogger.Int64("id", id),
		applogger.String("ticker", t.Ticker),
		applogger.Float64("shares", t.Shares))
	return t, nil
}

// Update replaces shares, price and date of an existing transaction.
func (u *Investments) Update(ctx context.Context, req *models.UpdateInvestmentRequest) (*models.Transaction, error) {
	defer u.observe("investments_update", time.Now())

	existing, err := u.store.GetTransaction(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("transaction %d not found", req.ID)
	}
	buyDate, err := util.ParseDate(req.BuyDate)
	if err != nil {
		return nil, fmt.Errorf("invalid buy date %q: %w", req.BuyDate, err)
	}
	existing.Shares = req.Shares
	existing.BuyPrice = req.BuyPrice
	existing.BuyDate = buyDate
	if err := u.store.UpdateTransaction(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a single transaction.
func (u *Investments) Delete(ctx context.Context, id int64) error {
	defer u.observe("investments_delete", time.Now())
	return u.store.DeleteTransaction(ctx, id)
}

// Move reassigns a transaction to another portfolio.
func (u *Investments) Move(ctx context.Context, id, targetPortfolioID int64) error {
	defer u.observe("investments_move", time.Now())
	return u.store.MoveTransaction(ctx, id, targetPortfolioID)
}

// ExportCSV streams the portfolio as CSV and returns the suggested
// download filename. The output starts with a UTF-8 BOM so spreadsheet
// tools pick up the encoding.
func (u *Investments) ExportCSV(ctx context.Context, portfolioID int64, w io.Writer) (string, error) {
	defer u.observe("investments_export", time.Now())

	portfolio, err := u.store.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return "", err
	}
	positions, err := u.store.GetAggregatedPositions(ctx, portfolioID)
	if err != nil {
		return "", err
	}
	prices := u.fetchPrices(ctx, positions)

	if _, err := w.Write([]byte("\uFEFF")); err != nil {
		return "", err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return "", err
	}
	for _, pos := range positions {
		currentPrice, currentValue := "N/A", "N/A"
		profitLoss, percentChange := "0.00", "0.00"
		if price, ok := prices[pos.Ticker]; ok {
			value := price * pos.TotalShares
			profit := value - pos.TotalCost
			currentPrice = fmt.Sprintf("%.2f", price)
			currentValue = fmt.Sprintf("%.2f", value)
			profitLoss = fmt.Sprintf("%.2f", profit)
			if pos.TotalCost > 0 {
				percentChange = fmt.Sprintf("%.2f", profit/pos.TotalCost*100)
			}
		}
		row := []string{
			pos.Ticker,
			strconv.FormatFloat(pos.TotalShares, 'f', -1, 64),
			fmt.Sprintf("%.2f", pos.WeightedAvgBuyPrice),
			pos.FirstBuyDate.Format("2006-01-02"),
			currentPrice,
			currentValue,
			profitLoss,
			percentChange,
		}
		if err := cw.Write(row); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}

	name := filenameSanitizer.ReplaceAllString(portfolio.Name, "_")
	filename := fmt.Sprintf("portfolio_%s_%s.csv", name, u.now().UTC().Format("2006-01-02"))
	return filename, nil
}

// ImportCSV reads transactions from a CSV stream. The header row is
// skipped; only the first four columns are used. Rows that fail to parse
// are collected as errors without aborting the import.
func (u *Investments) ImportCSV(ctx context.Context, portfolioID int64, r io.Reader) (*models.CSVImportResult, error) {
	defer u.observe("investments_import", time.Now())

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	result := &models.CSVImportResult{}
	rowNum := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if rowNum == 1 && isHeaderRow(record) {
			continue
		}
		if len(record) < 4 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Invalid format", rowNum))
			continue
		}

		ticker := util.NormalizeTicker(record[0])
		shares, sharesErr := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		buyPrice, priceErr := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		buyDate, dateErr := util.ParseDate(strings.TrimSpace(record[3]))
		switch {
		case ticker == "":
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Required fields missing", rowNum))
			continue
		case sharesErr != nil || shares <= 0:
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Invalid shares value", rowNum))
			continue
		case priceErr != nil || buyPrice <= 0:
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Invalid buy price", rowNum))
			continue
		case dateErr != nil:
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Invalid date format", rowNum))
			continue
		}

		_, err = u.store.AddTransaction(ctx, &models.Transaction{
			PortfolioID: portfolioID,
			Ticker:      ticker,
			Shares:      shares,
			BuyPrice:    buyPrice,
			BuyDate:     buyDate,
		})
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Imported++
	}

	u.l.Info("csv import finished",
		applogger.Int64("portfolio_id", portfolioID),
		applogger.Int("imported", result.Imported),
		applogger.Int("skipped", result.Skipped))
	return result, nil
}

func isHeaderRow(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "ticker")
}

func (u *Investments) fetchPrices(ctx context.Context, positions []models.AggregatedPosition) map[string]float64 {
	out := make(map[string]float64, len(positions))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, pos := range positions {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			if price, ok := u.prices.CurrentPrice(ctx, ticker); ok {
				mu.Lock()
				out[ticker] = price
				mu.Unlock()
			}
		}(pos.Ticker)
	}
	wg.Wait()
	return out
}

func (u *Investments) observe(op string, start time.Time) {
	if u.metrics != nil {
		u.metrics.RecordLatency(op, time.Since(start).Seconds())
	}
}
