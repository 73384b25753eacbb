// Package stats provides the numeric helpers shared by the behavior
// analysis components.
package stats

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean of values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the median of values. The input is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// WeightedMean calculates sum(value*weight) / sum(weight).
// Returns 0 when total weight is 0.
func WeightedMean(values, weights []float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return 0
	}
	var num, den float64
	for i, v := range values {
		num += v * weights[i]
		den += weights[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Stddev calculates sample standard deviation (n-1 denominator).
func Stddev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// Percentile uses linear interpolation. sorted must be pre-sorted ASC and
// p is a fraction (0.75 = 75th percentile).
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// CircularMeanHours averages hour-of-day values on the 24-hour circle via
// sine/cosine components. Hours {23, 1} average to 0, not 12. The result is
// in [0, 24). Returns 0 for empty input.
func CircularMeanHours(hours []float64) float64 {
	if len(hours) == 0 {
		return 0
	}

	var sinSum, cosSum float64
	for _, h := range hours {
		angle := h / 24 * 2 * math.Pi
		sinSum += math.Sin(angle)
		cosSum += math.Cos(angle)
	}

	// All points cancel out: no meaningful mean direction.
	if math.Abs(sinSum) < 1e-12 && math.Abs(cosSum) < 1e-12 {
		return 0
	}

	mean := math.Atan2(sinSum, cosSum) / (2 * math.Pi) * 24
	if mean < 0 {
		mean += 24
	}
	return mean
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
