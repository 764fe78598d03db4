package render

import (
	"math"

	"github.com/MeKo-Tech/texforge/internal/layer"
	"github.com/MeKo-Tech/texforge/internal/noise"
)

const (
	// Disjoint sampling offsets decorrelate the X and Y turbulence
	// channels drawn from one noise table.
	turbOffsetU1, turbOffsetV1 = 0.31, 0.17
	turbOffsetU2, turbOffsetV2 = 0.73, 0.51

	// maxWarpStrength caps the displacement magnitude in pixels.
	maxWarpStrength = 200
)

// warpAccumulator resamples the accumulator through a displacement field.
// All reads come from a snapshot taken up front, never from the buffer
// being written, since neighboring output pixels may pull from source
// pixels that have already been overwritten. The warp's opacity blends
// the resampled result against the snapshot.
func warpAccumulator(acc *Buffer, p layer.WarpParams, opacity float64) {
	strength := clampRange(p.Strength, 0, maxWarpStrength)
	if strength == 0 {
		return
	}

	w, h := acc.w, acc.h
	scale := safeScale(p.Scale)
	seed := uint32(p.Seed)

	var tbl *noise.Table
	if p.Type == layer.WarpTurbulence || p.Type == layer.WarpFlow {
		tbl = noise.NewTable(seed)
	}

	snapshot := acc.clone()
	for y := 0; y < h; y++ {
		v := float64(y) / float64(h)
		for x := 0; x < w; x++ {
			u := float64(x) / float64(w)

			var ox, oy float64
			switch p.Type {
			case layer.WarpTurbulence:
				ox = tbl.Raw(u+turbOffsetU1, v+turbOffsetV1, scale) * strength
				oy = tbl.Raw(u+turbOffsetU2, v+turbOffsetV2, scale) * strength
			case layer.WarpSwirl:
				cx := u - 0.5
				cy := v - 0.5
				dist := math.Hypot(cx, cy)
				angle := math.Atan2(cy, cx) + math.Sin(dist*scale*10-float64(seed))
				ox = math.Cos(angle) * strength * dist
				oy = math.Sin(angle) * strength * dist
			case layer.WarpFlow:
				n := tbl.Raw(u, v, scale)
				ox = math.Cos(n*math.Pi) * strength
				oy = math.Sin(n*math.Pi) * strength
			}

			sx := wrapIndex(x+int(math.Round(ox)), w)
			sy := wrapIndex(y+int(math.Round(oy)), h)
			si := snapshot.idx(sx, sy)
			di := acc.idx(x, y)

			acc.r[di] = snapshot.r[di] + (snapshot.r[si]-snapshot.r[di])*opacity
			acc.g[di] = snapshot.g[di] + (snapshot.g[si]-snapshot.g[di])*opacity
			acc.b[di] = snapshot.b[di] + (snapshot.b[si]-snapshot.b[di])*opacity
		}
	}
}
