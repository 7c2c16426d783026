package simulation

// Drift moves value by a uniform step in [-delta, +delta) and clamps the
// result into [lo, hi].
func Drift(src RandomSource, value, delta, lo, hi float64) float64 {
	change := (src.Float64() - 0.5) * delta * 2
	return clamp(value+change, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
