package aggregate

import "sort"

// Mean is the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Median is the middle value of the distribution, 0 for an empty slice.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := sortedCopy(xs)
	return quantileSorted(sorted, 0.5)
}

// Quantile computes the q-th quantile (0..1) with linear interpolation
// between closest ranks. Returns 0 for an empty slice.
func Quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return quantileSorted(sortedCopy(xs), q)
}

// TrimOutliersIQR drops values outside [Q1-1.5*IQR, Q3+1.5*IQR]. With fewer
// than 4 observations the quartiles are too unstable to trust, so the input
// comes back untrimmed.
func TrimOutliersIQR(xs []float64) []float64 {
	if len(xs) < 4 {
		return sortedCopy(xs)
	}
	sorted := sortedCopy(xs)
	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr

	kept := sorted[:0]
	for _, x := range sorted {
		if x >= lo && x <= hi {
			kept = append(kept, x)
		}
	}
	return kept
}

// RobustMean is the mean after IQR outlier trimming. When trimming would
// discard everything, the plain mean of the full distribution is used
// instead, so the result is always defined for non-empty input.
func RobustMean(xs []float64) float64 {
	kept := TrimOutliersIQR(xs)
	if len(kept) == 0 {
		return Mean(xs)
	}
	return Mean(kept)
}

func sortedCopy(xs []float64) []float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return sorted
}

// quantileSorted interpolates linearly on an already sorted slice.
func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(pos)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
