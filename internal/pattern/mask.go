package pattern

import (
	"math"

	"github.com/MeKo-Tech/texforge/internal/layer"
)

const (
	// maskRadius is the base radius of circle, square and star masks in
	// tile units.
	maskRadius = 0.35
	// starDepth is how far the star shapes cut into the base radius.
	starDepth = 0.3
	// smoothingEps keeps the soft-edge divisor positive at full hardness.
	smoothingEps = 1e-3
)

// Mask builds a tile-centered radial mask. Coordinates are wrapped into
// [0,1) and re-centered to [-0.5,0.5), which puts the shape at the tile
// center and makes opposite edges meet seamlessly. Circle, square and the
// stars are signed-distance shapes softened by the hardness-derived
// smoothing width; rings bypass the SDF and return a sinusoid of radial
// distance directly.
func Mask(p layer.MaskParams) Field {
	shape := p.Shape
	if !shape.Valid() {
		shape = layer.ShapeCircle
	}
	hardness := clamp01(p.Hardness)
	smoothing := (1-hardness)*0.4 + smoothingEps
	ringCount := p.RingCount
	if ringCount < 1 {
		ringCount = 1
	}

	return func(u, v float64) float64 {
		cx := wrap01(u) - 0.5
		cy := wrap01(v) - 0.5
		dist := math.Hypot(cx, cy)

		if shape == layer.ShapeRings {
			return 0.5 + 0.5*math.Cos(2*math.Pi*float64(ringCount)*dist)
		}

		var sdf float64
		switch shape {
		case layer.ShapeCircle:
			sdf = dist - maskRadius
		case layer.ShapeSquare:
			sdf = math.Max(math.Abs(cx), math.Abs(cy)) - maskRadius
		case layer.ShapeStar4:
			sdf = dist - starRadius(cx, cy, 4)
		case layer.ShapeStar5:
			sdf = dist - starRadius(cx, cy, 5)
		}
		return clamp01(-sdf / smoothing)
	}
}

// starRadius is the star boundary radius along the direction of (cx,cy):
// the base radius with its outer part modulated by cos(angle·points).
func starRadius(cx, cy float64, points int) float64 {
	angle := math.Atan2(cy, cx)
	return maskRadius * (1 - starDepth + starDepth*math.Cos(angle*float64(points)))
}
