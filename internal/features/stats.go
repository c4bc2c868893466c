package features

import (
	"math"
	"sort"
)

// SeriesStats summarizes one resampled series at one cadence.
type SeriesStats struct {
	Mean   float64
	Median float64
	Std    float64
}

func summarize(series []float64) SeriesStats {
	return SeriesStats{
		Mean:   mean(series),
		Median: median(series),
		Std:    sampleStd(series),
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// sampleStd is the Bessel-corrected standard deviation. Series with fewer
// than two observations have no defined deviation; 0.0 keeps the feature
// vector dense instead of propagating nulls.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
