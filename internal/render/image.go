package render

import (
	"image"
	"math"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"

	"github.com/MeKo-Tech/texforge/internal/layer"
)

// maxTileSide bounds the resampled pattern tile so a near-zero scale
// cannot ask for an absurd intermediate bitmap.
const maxTileSide = 4096

// renderImage fills a buffer by repeating a bitmap so that roughly
// `scale` copies span the output. Unresolved sources render transparent;
// the stack stays valid and a later render picks the bitmap up.
func (r *Renderer) renderImage(p layer.ImageParams, opacity float64, size int) *Buffer {
	buf := newBuffer(size, size)

	if r.images == nil {
		r.log().Debug("No image source configured; rendering transparent layer", "key", p.Source)
		return buf
	}
	src, ok := r.images.Resolve(p.Source)
	if !ok || src == nil {
		r.log().Debug("Image not resolved yet; rendering transparent layer", "key", p.Source)
		return buf
	}

	tile := scaleToTile(src, size, p.Scale)
	if g := toneFilter(p.Invert, p.Contrast, p.Brightness); g != nil {
		filtered := image.NewNRGBA(g.Bounds(tile.Bounds()))
		g.Draw(filtered, tile)
		tile = filtered
	}

	tw := tile.Bounds().Dx()
	th := tile.Bounds().Dy()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := tile.NRGBAAt(wrapIndex(x, tw), wrapIndex(y, th))
			a := float64(c.A) / 255 * opacity
			buf.set(x, y, float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, a)
		}
	}
	return buf
}

// scaleToTile resamples the source bitmap to the pixel size of one
// repetition.
func scaleToTile(src image.Image, size int, scale float64) *image.NRGBA {
	side := int(math.Round(float64(size) / safeScale(scale)))
	if side < 1 {
		side = 1
	}
	if side > maxTileSide {
		side = maxTileSide
	}
	dst := image.NewNRGBA(image.Rect(0, 0, side, side))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// toneFilter maps the layer's color adjustments onto a gift filter chain,
// or nil when every adjustment is neutral.
func toneFilter(invert bool, contrast, brightness float64) *gift.GIFT {
	var filters []gift.Filter
	if invert {
		filters = append(filters, gift.Invert())
	}
	if c := clampRange(contrast, 0.5, 3); c != 1 {
		filters = append(filters, gift.Contrast(float32(clampRange((c-1)*100, -100, 100))))
	}
	if b := clampRange(brightness, -1, 1); b != 0 {
		filters = append(filters, gift.Brightness(float32(b*100)))
	}
	if len(filters) == 0 {
		return nil
	}
	return gift.New(filters...)
}
