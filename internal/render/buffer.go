package render

import (
	"image"
	"math"
)

// Buffer is a planar float64 RGBA image with channels in [0,1]. The
// compositor accumulates in float and quantizes to 8-bit once, so stacked
// blends do not pick up rounding error.
type Buffer struct {
	w int
	h int
	r []float64
	g []float64
	b []float64
	a []float64
}

func newBuffer(w, h int) *Buffer {
	n := w * h
	return &Buffer{
		w: w,
		h: h,
		r: make([]float64, n),
		g: make([]float64, n),
		b: make([]float64, n),
		a: make([]float64, n),
	}
}

// newAccumulator returns an opaque black buffer, the initial state of the
// compositing loop.
func newAccumulator(w, h int) *Buffer {
	f := newBuffer(w, h)
	for i := range f.a {
		f.a[i] = 1
	}
	return f
}

func (f *Buffer) idx(x, y int) int { return y*f.w + x }

// At returns the float channels at (x,y).
func (f *Buffer) At(x, y int) (r, g, b, a float64) {
	i := f.idx(x, y)
	return f.r[i], f.g[i], f.b[i], f.a[i]
}

func (f *Buffer) set(x, y int, r, g, b, a float64) {
	i := f.idx(x, y)
	f.r[i] = r
	f.g[i] = g
	f.b[i] = b
	f.a[i] = a
}

// setGray writes a grayscale value with the given alpha.
func (f *Buffer) setGray(x, y int, v, a float64) {
	f.set(x, y, v, v, v, a)
}

func (f *Buffer) clone() *Buffer {
	c := newBuffer(f.w, f.h)
	copy(c.r, f.r)
	copy(c.g, f.g)
	copy(c.b, f.b)
	copy(c.a, f.a)
	return c
}

// Image quantizes the buffer to an 8-bit RGBA image.
func (f *Buffer) Image() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			i := f.idx(x, y)
			o := out.PixOffset(x, y)
			out.Pix[o+0] = quantize(f.r[i])
			out.Pix[o+1] = quantize(f.g[i])
			out.Pix[o+2] = quantize(f.b[i])
			out.Pix[o+3] = quantize(f.a[i])
		}
	}
	return out
}

func quantize(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
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

func clampRange(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func wrapIndex(x, max int) int {
	x %= max
	if x < 0 {
		x += max
	}
	return x
}
