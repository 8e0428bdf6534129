package analysis

import "math"

func meanOf(nums []float64) float64 {
	var sum float64
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums))
}

// stdDevOf computes the sample standard deviation around the given mean.
func stdDevOf(nums []float64, mean float64) float64 {
	if len(nums) < 2 {
		return 0
	}
	var sum float64
	for _, n := range nums {
		d := n - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(nums)-1))
}
