package pattern

import "math"

// Field evaluates one tileable pattern at normalized coordinates. Inputs
// are wrapped into [0,1) first, so sampling u=1 returns exactly the value
// at u=0. Every Field is a pure function of its inputs and the parameters
// it was built from.
type Field func(u, v float64) float64

// latticeSize is the wrap modulus of cell-based patterns. Pixel
// coordinates are scaled by this same modulus, which keeps the lattice
// exactly periodic even for fractional scale values.
func latticeSize(scale float64) int {
	n := int(math.Ceil(scale))
	if n < 1 {
		n = 1
	}
	return n
}

func wrapCell(c, n int) int {
	c %= n
	if c < 0 {
		c += n
	}
	return c
}

func wrap01(x float64) float64 {
	x = math.Mod(x, 1.0)
	if x < 0 {
		x += 1
	}
	return x
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
