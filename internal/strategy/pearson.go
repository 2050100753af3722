package strategy

import "math"

// Pearson computes the correlation coefficient between the closes and their
// sequential index 0..N-1, measuring how linearly the series trends over the
// window independent of absolute time units. A flat series returns 0 instead
// of dividing by zero.
func Pearson(closes []float64) float64 {
	n := len(closes)
	if n < 2 {
		return 0
	}

	var sumX float64
	for _, x := range closes {
		sumX += x
	}
	avgX := sumX / float64(n)
	avgY := float64(n-1) / 2

	var sxy, sxx, syy float64
	for i, x := range closes {
		dx := x - avgX
		dy := float64(i) - avgY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	if sxx*syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}
