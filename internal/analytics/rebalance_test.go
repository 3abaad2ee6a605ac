package analytics

import (
	"testing"

	"github.com/battuto/EtfManager/internal/domain/models"
)

func TestRebalanceEqualWeightDefault(t *testing.T) {
	current := map[string]float64{"AAA": 60, "BBB": 40}

	got := Rebalance(current, nil, 10000)

	if !got.RebalanceNeeded {
		t.Fatalf("expected rebalance needed")
	}
	if len(got.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(got.Recommendations))
	}
	for _, rec := range got.Recommendations {
		if rec.Priority != models.PriorityHigh {
			t.Fatalf("|10pp| deviation must be high priority, got %q", rec.Priority)
		}
		switch rec.Ticker {
		case "AAA":
			if rec.Action != models.ActionSell {
				t.Fatalf("overweight AAA must be SELL, got %q", rec.Action)
			}
			if !almostEqual(rec.ValueChange, -1000) {
				t.Fatalf("expected value change -1000, got %v", rec.ValueChange)
			}
		case "BBB":
			if rec.Action != models.ActionBuy {
				t.Fatalf("underweight BBB must be BUY, got %q", rec.Action)
			}
		default:
			t.Fatalf("unexpected ticker %q", rec.Ticker)
		}
	}
	if got.Summary.HighPriority != 2 || got.Summary.TotalAdjustments != 2 {
		t.Fatalf("unexpected summary %+v", got.Summary)
	}
}

func TestRebalanceThresholdIgnoresNoise(t *testing.T) {
	current := map[string]float64{"AAA": 50.5, "BBB": 49.5}

	got := Rebalance(current, nil, 10000)

	if got.RebalanceNeeded || len(got.Recommendations) != 0 {
		t.Fatalf("deviations within 1pp must be ignored, got %+v", got.Recommendations)
	}
}

func TestRebalancePriorityTiers(t *testing.T) {
	current := map[string]float64{"AAA": 53, "BBB": 47}

	got := Rebalance(current, nil, 10000)

	if len(got.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(got.Recommendations))
	}
	for _, rec := range got.Recommendations {
		if rec.Priority != models.PriorityMedium {
			t.Fatalf("3pp deviation must be medium priority, got %q", rec.Priority)
		}
	}
	if got.Summary.MediumPriority != 2 {
		t.Fatalf("unexpected summary %+v", got.Summary)
	}
}

func TestRebalanceExplicitTargets(t *testing.T) {
	current := map[string]float64{"AAA": 30, "BBB": 30, "CCC": 40}
	targets := map[string]float64{"AAA": 50, "BBB": 28, "CCC": 22}

	got := Rebalance(current, targets, 10000)

	// AAA +20pp and CCC -18pp are high priority, BBB -2pp is medium;
	// high priority sorts first, then descending absolute difference.
	if len(got.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(got.Recommendations))
	}
	if got.Recommendations[0].Ticker != "AAA" || got.Recommendations[1].Ticker != "CCC" {
		t.Fatalf("unexpected order: %q then %q",
			got.Recommendations[0].Ticker, got.Recommendations[1].Ticker)
	}
	if got.Recommendations[2].Ticker != "BBB" || got.Recommendations[2].Priority != models.PriorityMedium {
		t.Fatalf("expected BBB last as medium, got %+v", got.Recommendations[2])
	}
}
