package sim

import "math"

// Square returns x*x.
func Square(x float64) float64 {
	return x * x
}

// AngleDist returns how far the angle o (radians) is from zero around the
// circle, in [0, π].
func AngleDist(o float64) float64 {
	r := math.Mod(math.Abs(o), 2*math.Pi)
	if r > math.Pi {
		return 2*math.Pi - r
	}
	return r
}

// PartialMax returns the index of the largest element of items under less,
// or -1 when items is empty. The first of equal maxima wins, and an element
// that is not greater than the current maximum (such as NaN) never replaces
// it.
func PartialMax[T any](items []T, less func(a, b T) bool) int {
	best := -1
	for i := range items {
		if best < 0 || less(items[best], items[i]) {
			best = i
		}
	}
	return best
}
