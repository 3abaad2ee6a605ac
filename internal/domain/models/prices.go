package models

import "time"

// SeriesSource distinguishes genuine market data from the deterministic
// simulated fallback.
type SeriesSource string

const (
	SourceReal      SeriesSource = "real"
	SourceSimulated SeriesSource = "simulated"
)

// PriceSeries is an ordered per-ticker historical price series.
// Dates and Values are parallel and Dates are strictly ascending.
type PriceSeries struct {
	Ticker string
	Dates  []time.Time
	Values []float64
	Source SeriesSource
}

// Len returns the number of observations.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Dates)
}

// AlignedSeries is the portfolio value history on a common date axis.
// Dates, Values and InvestedValues are parallel; Dates are strictly
// ascending with no duplicates.
type AlignedSeries struct {
	Dates          []time.Time
	Values         []float64
	InvestedValues []float64
	Sources        map[string]SeriesSource
}

// Len returns the number of axis points.
func (s *AlignedSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Dates)
}
