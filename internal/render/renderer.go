package render

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/MeKo-Tech/texforge/internal/layer"
	"github.com/MeKo-Tech/texforge/internal/noise"
	"github.com/MeKo-Tech/texforge/internal/pattern"
)

// ImageSource resolves decoded bitmaps by opaque content key. Resolve
// reports false while a key is unknown or still being produced; the layer
// then renders transparent and the render can be repeated later.
type ImageSource interface {
	Resolve(key string) (image.Image, bool)
}

// Renderer turns a layer stack into pixels. A Renderer owns no shared
// noise state (each layer builds its own table), so concurrent renders
// just use separate Renderer values.
type Renderer struct {
	images ImageSource
	logger *slog.Logger
}

// NewRenderer creates a renderer. images may be nil when no image-backed
// layers occur; logger may be nil to use the default.
func NewRenderer(images ImageSource, logger *slog.Logger) *Renderer {
	return &Renderer{images: images, logger: logger}
}

// Render composites the layer stack into a size×size RGBA image.
func (r *Renderer) Render(layers []layer.Layer, size int) (*image.RGBA, error) {
	acc, err := r.Composite(layers, size)
	if err != nil {
		return nil, err
	}
	return acc.Image(), nil
}

// Composite runs the full pipeline and returns the float accumulator:
// starting from opaque black, each visible layer is rendered and blended
// in stack order, and warp layers rewrite the accumulator built so far.
func (r *Renderer) Composite(layers []layer.Layer, size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("render size must be positive, got %d", size)
	}

	acc := newAccumulator(size, size)
	for i := range layers {
		l := layers[i]
		if !l.Visible {
			continue
		}
		opacity := clamp01(l.Opacity)
		if opacity == 0 {
			continue
		}

		if p, ok := l.Params.(layer.WarpParams); ok {
			warpAccumulator(acc, p, opacity)
			continue
		}

		src := r.renderLayer(l, size)
		blendInto(acc, src, l.BlendMode)
	}
	return acc, nil
}

// RenderLayer renders a single layer's field into a buffer, without
// compositing. Warp layers have no field of their own and come back
// transparent.
func (r *Renderer) RenderLayer(l layer.Layer, size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("render size must be positive, got %d", size)
	}
	if l.Kind == layer.KindWarp {
		return newBuffer(size, size), nil
	}
	return r.renderLayer(l, size), nil
}

func (r *Renderer) renderLayer(l layer.Layer, size int) *Buffer {
	opacity := clamp01(l.Opacity)

	switch p := l.Params.(type) {
	case layer.NoiseParams:
		return renderField(noiseField(p), newTone(p.Contrast, p.Brightness, p.Invert), opacity, size)
	case layer.CellularParams:
		return renderField(pattern.Cellular(p), newTone(p.Contrast, p.Brightness, p.Invert), opacity, size)
	case layer.DotsParams:
		return renderField(pattern.Dots(p), newTone(p.Contrast, p.Brightness, p.Invert), opacity, size)
	case layer.StripesParams:
		return renderField(pattern.Stripes(p), newTone(p.Contrast, p.Brightness, p.Invert), opacity, size)
	case layer.MaskParams:
		return renderField(pattern.Mask(p), newTone(p.Contrast, p.Brightness, p.Invert), opacity, size)
	case layer.GrainParams:
		return renderField(pattern.Grain(), newTone(p.Contrast, p.Brightness, p.Invert), opacity, size)
	case layer.ImageParams:
		return r.renderImage(p, opacity, size)
	}

	r.log().Warn("Layer has no renderable params; skipping", "kind", l.Kind, "id", l.ID)
	return newBuffer(size, size)
}

// noiseField samples seamless gradient noise, normalized to [0,1]. The
// layer owns its table: reseeding never leaks across layers or renders.
func noiseField(p layer.NoiseParams) pattern.Field {
	tbl := noise.NewTable(uint32(p.Seed))
	scale := safeScale(p.Scale)
	octaves := p.Octaves
	if octaves < 1 {
		octaves = 1
	} else if octaves > 8 {
		octaves = 8
	}
	return func(u, v float64) float64 {
		return clamp01((tbl.FBM(u, v, scale, octaves) + 1) * 0.5)
	}
}

// renderField fills a grayscale buffer from a field, tone-mapped, with
// alpha set to the layer opacity.
func renderField(f pattern.Field, t tone, opacity float64, size int) *Buffer {
	buf := newBuffer(size, size)
	for y := 0; y < size; y++ {
		v := float64(y) / float64(size)
		for x := 0; x < size; x++ {
			u := float64(x) / float64(size)
			buf.setGray(x, y, t.apply(f(u, v)), opacity)
		}
	}
	return buf
}

// blendInto merges a rendered layer buffer into the accumulator. The
// source alpha (layer opacity, scaled by per-pixel bitmap alpha for image
// layers) interpolates between the prior accumulator value and the
// blended value; the accumulator itself stays opaque.
func blendInto(acc, src *Buffer, mode layer.BlendMode) {
	for i := range acc.r {
		f := src.a[i]
		if f <= 0 {
			continue
		}
		acc.r[i] += (blendChannel(mode, src.r[i], acc.r[i]) - acc.r[i]) * f
		acc.g[i] += (blendChannel(mode, src.g[i], acc.g[i]) - acc.g[i]) * f
		acc.b[i] += (blendChannel(mode, src.b[i], acc.b[i]) - acc.b[i]) * f
	}
}

// tone is the per-layer value adjustment: optional inversion, then
// contrast around the midpoint, then brightness, clamped to [0,1].
type tone struct {
	contrast   float64
	brightness float64
	invert     bool
}

func newTone(contrast, brightness float64, invert bool) tone {
	return tone{
		contrast:   clampRange(contrast, 0.5, 3),
		brightness: clampRange(brightness, -1, 1),
		invert:     invert,
	}
}

func (t tone) apply(v float64) float64 {
	if t.invert {
		v = 1 - v
	}
	return clamp01((v-0.5)*t.contrast + 0.5 + t.brightness)
}

// safeScale guards the spatial frequency against non-positive or
// non-finite slider states.
func safeScale(s float64) float64 {
	if s > 0 && !math.IsInf(s, 1) {
		return s
	}
	return 1
}

func (r *Renderer) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
