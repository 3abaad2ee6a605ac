package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// PopStdDev returns the population standard deviation, 0 for an empty slice.
func PopStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sd := math.Sqrt(stat.PopVariance(xs, nil))
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}

// Pearson returns the Pearson correlation coefficient of two series.
// Mismatched lengths, empty input or zero variance yield 0, never NaN.
func Pearson(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// DailyReturns computes simple relative differences between consecutive
// values. A previous value of zero or below yields a 0 return for that
// step instead of NaN/Inf.
func DailyReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev <= 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (values[i]-prev)/prev)
	}
	return returns
}
