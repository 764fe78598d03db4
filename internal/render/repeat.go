package render

import (
	"image"
	"image/draw"
)

// Repeat lays img out in an n by n grid. Any discontinuity at tile borders
// becomes visible in the repeated view.
func Repeat(img *image.RGBA, n int) *image.RGBA {
	side := img.Bounds().Dx()
	out := image.NewRGBA(image.Rect(0, 0, side*n, side*n))
	for ty := 0; ty < n; ty++ {
		for tx := 0; tx < n; tx++ {
			rect := image.Rect(tx*side, ty*side, (tx+1)*side, (ty+1)*side)
			draw.Draw(out, rect, img, img.Bounds().Min, draw.Src)
		}
	}
	return out
}
