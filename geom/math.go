package geom

import "math"

// ClampF64 constrains x to stay within the range [lo, hi].
func ClampF64(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}
