package utils

import "math"

// RoundPercent returns part/total as a whole percentage, halves rounding up.
// A zero total yields 0.
func RoundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(total) + 0.5))
}

// RoundMean returns the mean of values rounded half up, or 0 for no values.
func RoundMean(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Floor(float64(sum)/float64(len(values)) + 0.5))
}
