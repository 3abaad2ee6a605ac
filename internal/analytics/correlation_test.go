package analytics

import (
	"testing"
	"time"

	"github.com/battuto/EtfManager/internal/domain/models"
)

func priceSeries(ticker string, values ...float64) *models.PriceSeries {
	s := &models.PriceSeries{Ticker: ticker, Source: models.SourceReal}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		s.Dates = append(s.Dates, base.AddDate(0, 0, i))
		s.Values = append(s.Values, v)
	}
	return s
}

func TestCorrelationRequiresTwoTickers(t *testing.T) {
	got := Correlation(map[string]*models.PriceSeries{
		"VWCE": priceSeries("VWCE", 100, 101, 102),
	})
	if got.Message == "" {
		t.Fatalf("expected a message result for a single ticker")
	}
	if len(got.CorrelationMatrix) != 0 {
		t.Fatalf("expected empty matrix")
	}
}

func TestCorrelationMatrixSymmetry(t *testing.T) {
	series := map[string]*models.PriceSeries{
		"AAA": priceSeries("AAA", 100, 102, 101, 105, 104),
		"BBB": priceSeries("BBB", 50, 51, 49, 53, 52),
		"CCC": priceSeries("CCC", 10, 9, 11, 8, 12),
	}

	got := Correlation(series)
	if got.Message != "" {
		t.Fatalf("unexpected message %q", got.Message)
	}
	for _, a := range got.Tickers {
		if got.CorrelationMatrix[a][a] != 1 {
			t.Fatalf("diagonal must be exactly 1 for %s", a)
		}
		for _, b := range got.Tickers {
			if got.CorrelationMatrix[a][b] != got.CorrelationMatrix[b][a] {
				t.Fatalf("matrix must be symmetric for %s/%s", a, b)
			}
			if r := got.CorrelationMatrix[a][b]; r < -1-1e-9 || r > 1+1e-9 {
				t.Fatalf("correlation %v outside [-1,1]", r)
			}
		}
	}
}

func TestCorrelationLengthMismatch(t *testing.T) {
	series := map[string]*models.PriceSeries{
		"AAA": priceSeries("AAA", 100, 102, 101),
		"BBB": priceSeries("BBB", 50, 51),
	}

	got := Correlation(series)
	if got.CorrelationMatrix["AAA"]["BBB"] != 0 {
		t.Fatalf("length mismatch must yield 0, got %v", got.CorrelationMatrix["AAA"]["BBB"])
	}
}

func TestCorrelationAnalysis(t *testing.T) {
	series := map[string]*models.PriceSeries{
		"AAA": priceSeries("AAA", 1, 2, 3, 4),
		"BBB": priceSeries("BBB", 2, 4, 6, 8),
		"CCC": priceSeries("CCC", 5, 5.1, 4.9, 5.2),
	}

	got := Correlation(series)
	analysis := got.Analysis
	if analysis == nil {
		t.Fatalf("expected analysis")
	}
	if len(analysis.CorrelationPairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(analysis.CorrelationPairs))
	}
	if analysis.HighestCorrelation == nil || analysis.HighestCorrelation.Pair != "AAA-BBB" {
		t.Fatalf("expected AAA-BBB as strongest pair, got %+v", analysis.HighestCorrelation)
	}
	if !almostEqual(analysis.HighestCorrelation.Correlation, 1) {
		t.Fatalf("expected perfect correlation, got %v", analysis.HighestCorrelation.Correlation)
	}
	if analysis.HighestCorrelation.Level != "Very High" {
		t.Fatalf("unexpected level %q", analysis.HighestCorrelation.Level)
	}
}

func TestCorrelationLevel(t *testing.T) {
	tests := []struct {
		r    float64
		want string
	}{
		{0.95, "Very High"},
		{-0.7, "High"},
		{0.5, "Moderate"},
		{-0.3, "Low"},
		{0.1, "Very Low"},
	}
	for _, tt := range tests {
		if got := CorrelationLevel(tt.r); got != tt.want {
			t.Fatalf("CorrelationLevel(%v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}
