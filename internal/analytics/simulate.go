package analytics

import (
	"math"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
	"github.com/battuto/EtfManager/pkg/util"
)

// Simulate generates a deterministic placeholder price series for a ticker
// whose real historical data is unavailable. The same ticker and day count
// always produce the same series. Each day's price is the anchor price
// scaled by a pseudo-random factor inside a variance band of at most +-10%
// that narrows linearly to zero at the final day, so the series converges
// to the anchor.
func Simulate(ticker string, days int, anchorPrice float64, today time.Time) *models.PriceSeries {
	if days < 1 {
		days = 1
	}
	today = util.Day(today)

	series := &models.PriceSeries{
		Ticker: ticker,
		Dates:  make([]time.Time, 0, days+1),
		Values: make([]float64, 0, days+1),
		Source: models.SourceSimulated,
	}

	tickerSeed := 0
	for _, r := range ticker {
		tickerSeed += int(r)
	}

	for i := days; i >= 0; i-- {
		seed := float64(i + tickerSeed)
		x := math.Sin(seed) * 10000
		pseudoRandom := x - math.Floor(x)
		variance := 1 + (pseudoRandom*0.2-0.1)*(float64(i)/float64(days))

		series.Dates = append(series.Dates, today.AddDate(0, 0, -i))
		series.Values = append(series.Values, anchorPrice*variance)
	}

	return series
}
