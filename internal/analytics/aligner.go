package analytics

import (
	"sort"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
	"github.com/battuto/EtfManager/pkg/util"
)

// Trailing window limits for historical analysis.
const (
	MinWindowDays = 7
	MaxWindowDays = 3650
	// Requests above one year switch to MAX mode which extends the window
	// back to 30 days before the first transaction.
	maxModeThreshold = 365
)

// ResolveWindow clamps a requested day window. Requests above one year are
// resolved against the portfolio's first buy date; hasFirst reports whether
// one exists.
func ResolveWindow(requested int, firstBuy time.Time, hasFirst bool, now time.Time) int {
	if requested <= maxModeThreshold {
		if requested < MinWindowDays {
			return MinWindowDays
		}
		return requested
	}

	if !hasFirst {
		return maxModeThreshold
	}

	from := util.Day(firstBuy).AddDate(0, 0, -30)
	days := util.DaysBetween(from, util.Day(now))
	if days < MinWindowDays {
		return MinWindowDays
	}
	if days > MaxWindowDays {
		return MaxWindowDays
	}
	return days
}

// Align merges per-ticker price series onto one common ascending date axis
// and computes the portfolio value and invested capital for each axis date.
// Shares bought after an axis date do not contribute to that date. A ticker
// without a price observation at an exact axis date is omitted from that
// date's total, never counted as zero.
func Align(transactions []models.Transaction, series map[string]*models.PriceSeries) *models.AlignedSeries {
	aligned := &models.AlignedSeries{
		Dates:          []time.Time{},
		Values:         []float64{},
		InvestedValues: []float64{},
		Sources:        map[string]models.SeriesSource{},
	}
	if len(transactions) == 0 || len(series) == 0 {
		return aligned
	}

	// Union of all per-ticker dates, normalized to UTC midnight.
	prices := make(map[string]map[time.Time]float64, len(series))
	seen := make(map[time.Time]struct{})
	for ticker, s := range series {
		if s == nil {
			continue
		}
		aligned.Sources[ticker] = s.Source
		byDate := make(map[time.Time]float64, len(s.Dates))
		for i, d := range s.Dates {
			day := util.Day(d)
			byDate[day] = s.Values[i]
			seen[day] = struct{}{}
		}
		prices[ticker] = byDate
	}

	axis := make([]time.Time, 0, len(seen))
	for d := range seen {
		axis = append(axis, d)
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i].Before(axis[j]) })

	for _, d := range axis {
		var value, invested float64
		shares := make(map[string]float64)
		for _, tx := range transactions {
			if util.Day(tx.BuyDate).After(d) {
				continue
			}
			shares[tx.Ticker] += tx.Shares
			invested += tx.Shares * tx.BuyPrice
		}
		for ticker, n := range shares {
			if byDate, ok := prices[ticker]; ok {
				if price, ok := byDate[d]; ok {
					value += n * price
				}
			}
		}
		aligned.Dates = append(aligned.Dates, d)
		aligned.Values = append(aligned.Values, value)
		aligned.InvestedValues = append(aligned.InvestedValues, invested)
	}

	return aligned
}

// AppendAnchor appends an up-to-date point for today when the axis does not
// already end there, valuing today's aggregated shares at the given live
// prices. Tickers without a live price are omitted from the anchor value.
func AppendAnchor(aligned *models.AlignedSeries, today time.Time, transactions []models.Transaction, livePrices map[string]float64) {
	today = util.Day(today)
	if n := len(aligned.Dates); n > 0 && aligned.Dates[n-1].Equal(today) {
		return
	}

	var value, invested float64
	shares := make(map[string]float64)
	for _, tx := range transactions {
		shares[tx.Ticker] += tx.Shares
		invested += tx.Shares * tx.BuyPrice
	}
	for ticker, n := range shares {
		if price, ok := livePrices[ticker]; ok {
			value += n * price
		}
	}

	aligned.Dates = append(aligned.Dates, today)
	aligned.Values = append(aligned.Values, value)
	aligned.InvestedValues = append(aligned.InvestedValues, invested)
}
