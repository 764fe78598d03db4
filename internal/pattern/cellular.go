package pattern

import (
	"math"

	"github.com/MeKo-Tech/texforge/internal/layer"
	"github.com/MeKo-Tech/texforge/internal/noise"
)

// Cellular builds a Worley distance field. Each lattice cell owns one
// feature point at its center plus a seeded jitter offset; the field value
// is the distance to the nearest feature point over the 3×3 cell
// neighborhood, capped at 1. Cell coordinates wrap modulo the lattice
// size, and distances are measured against the unwrapped neighbor
// position, so the field is toroidal.
func Cellular(p layer.CellularParams) Field {
	seed := uint32(p.Seed)
	cells := latticeSize(p.Scale)
	jitter := clamp01(p.Jitter)
	n := float64(cells)

	return func(u, v float64) float64 {
		px := wrap01(u) * n
		py := wrap01(v) * n
		cellX := int(math.Floor(px))
		cellY := int(math.Floor(py))

		minDist := math.MaxFloat64
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx := cellX + dx
				ny := cellY + dy
				fx, fy := featurePoint(seed, nx, ny, cells, jitter)
				if d := math.Hypot(px-fx, py-fy); d < minDist {
					minDist = d
				}
			}
		}
		return math.Min(1, minDist)
	}
}

// featurePoint returns the feature point of lattice cell (cx,cy) in
// unwrapped lattice coordinates. The jitter draws come from the wrapped
// cell's seed, so a cell and its torus images share one point.
func featurePoint(seed uint32, cx, cy, cells int, jitter float64) (float64, float64) {
	rng := noise.NewSequence(noise.CellSeed(seed, wrapCell(cx, cells), wrapCell(cy, cells)))
	fx := float64(cx) + 0.5 + (rng.Next()-0.5)*jitter
	fy := float64(cy) + 0.5 + (rng.Next()-0.5)*jitter
	return fx, fy
}
