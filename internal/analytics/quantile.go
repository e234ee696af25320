package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Quantile returns the q quantile of values using linear interpolation between the
// closest ranks. NaN is returned for an empty input or q outside [0, 1].
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 || q < 0 || q > 1 || math.IsNaN(q) {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	h := float64(len(sorted)-1) * q
	lo := math.Floor(h)
	hi := math.Ceil(h)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

// Mean returns the arithmetic mean, or NaN for an empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
