package pattern

import (
	"math"

	"github.com/MeKo-Tech/texforge/internal/layer"
)

// Stripes builds a hard-edged vertical bar pattern: the sign of a sine
// over normalized x, thresholded to {0,1}. The scale is rounded to a
// whole number of bar pairs so the pattern always closes at the tile
// boundary.
func Stripes(p layer.StripesParams) Field {
	k := math.Max(1, math.Round(p.Scale))

	return func(u, _ float64) float64 {
		if math.Sin(2*math.Pi*k*wrap01(u)) >= 0 {
			return 1
		}
		return 0
	}
}
