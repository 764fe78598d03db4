package pattern

import "math/rand"

// Grain builds uncorrelated per-pixel randomness. Unlike every other
// pattern it is intentionally non-deterministic: successive renders of a
// grain layer differ, and it does not tile.
func Grain() Field {
	return func(_, _ float64) float64 {
		return rand.Float64()
	}
}
