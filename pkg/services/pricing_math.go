package services

import (
	"math"
	"sort"
)

// calculateMean returns the arithmetic mean of values, or 0 for an empty slice.
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateStandardDeviation returns the population standard deviation.
// The population formula (divide by n, not n-1) keeps the definition
// deterministic across callers.
func calculateStandardDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := calculateMean(values)
	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)))
}

// percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks (inclusive method).
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// calculateMedian returns the 50th percentile of values.
func calculateMedian(values []float64) float64 {
	return percentile(values, 50)
}

// percentChange returns the percentage change from oldValue to newValue,
// or 0 when oldValue is 0.
func percentChange(newValue, oldValue float64) float64 {
	if oldValue == 0 {
		return 0
	}
	return (newValue - oldValue) / oldValue * 100
}
