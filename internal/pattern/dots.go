package pattern

import (
	"math"

	"github.com/MeKo-Tech/texforge/internal/layer"
	"github.com/MeKo-Tech/texforge/internal/noise"
)

// dotEdgeWidth is the soft-edge ramp of a dot in cell units.
const dotEdgeWidth = 0.05

// Dots builds a point-pattern field. Each lattice cell draws, in fixed
// order from its cell seed: an emission value (suppressed while it stays
// below the mask threshold), a jittered position, and a radius scaled down
// by the size variation. A pixel takes the maximum coverage of any disc
// containing it; discs overlap by max, not addition, so clusters do not
// over-brighten.
func Dots(p layer.DotsParams) Field {
	seed := uint32(p.Seed)
	cells := latticeSize(p.Scale)
	jitter := clamp01(p.Jitter)
	baseSize := math.Max(0, p.DotBaseSize)
	sizeVariation := clamp01(p.SizeVariation)
	maskThreshold := clamp01(p.MaskThreshold)
	n := float64(cells)

	return func(u, v float64) float64 {
		px := wrap01(u) * n
		py := wrap01(v) * n
		cellX := int(math.Floor(px))
		cellY := int(math.Floor(py))

		val := 0.0
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx := cellX + dx
				ny := cellY + dy
				rng := noise.NewSequence(noise.CellSeed(seed, wrapCell(nx, cells), wrapCell(ny, cells)))

				emit := rng.Next()
				jx := rng.Next()
				jy := rng.Next()
				size := rng.Next()
				if emit < maskThreshold {
					continue
				}

				fx := float64(nx) + 0.5 + (jx-0.5)*jitter
				fy := float64(ny) + 0.5 + (jy-0.5)*jitter
				radius := baseSize / 2 * (1 - size*sizeVariation)
				if radius <= 0 {
					continue
				}

				d := math.Hypot(px-fx, py-fy)
				if c := coverage(d, radius); c > val {
					val = c
				}
			}
		}
		return val
	}
}

// coverage is 1 well inside the disc, 0 outside, with a linear ramp of
// dotEdgeWidth at the rim.
func coverage(dist, radius float64) float64 {
	switch {
	case dist >= radius:
		return 0
	case dist <= radius-dotEdgeWidth:
		return 1
	default:
		return (radius - dist) / dotEdgeWidth
	}
}
