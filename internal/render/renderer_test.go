package render

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/texforge/internal/layer"
	"github.com/stretchr/testify/require"
)

func TestRenderRejectsNonPositiveSize(t *testing.T) {
	r := NewRenderer(nil, nil)

	_, err := r.Render(nil, 0)
	require.Error(t, err)

	_, err = r.Render(nil, -4)
	require.Error(t, err)

	_, err = r.RenderLayer(layer.New(layer.KindStripes), 0)
	require.Error(t, err)
}

func TestCompositeEmptyStackIsOpaqueBlack(t *testing.T) {
	r := NewRenderer(nil, nil)

	acc, err := r.Composite(nil, 4)
	require.NoError(t, err)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			pr, pg, pb, pa := acc.At(x, y)
			require.Zero(t, pr)
			require.Zero(t, pg)
			require.Zero(t, pb)
			require.Equal(t, 1.0, pa)
		}
	}
}

// TestRenderDeterministicAcrossRenderers renders a stack touching every
// seeded generator twice, on independent renderers, and expects the exact
// same bytes.
func TestRenderDeterministicAcrossRenderers(t *testing.T) {
	stack := []layer.Layer{
		testLayer(layer.KindGradientNoise, layer.BlendNormal, 1, layer.NoiseParams{Scale: 3, Seed: 7, Octaves: 3, Contrast: 1.2}),
		testLayer(layer.KindCellular, layer.BlendMultiply, 0.8, layer.CellularParams{Scale: 4, Seed: 11, Jitter: 1, Contrast: 1}),
		testLayer(layer.KindDots, layer.BlendScreen, 0.6, layer.DotsParams{Scale: 6, Seed: 13, Jitter: 0.5, DotBaseSize: 0.6, SizeVariation: 0.4, Contrast: 1}),
		testLayer(layer.KindStripes, layer.BlendOverlay, 0.4, layer.StripesParams{Scale: 5, Contrast: 1}),
		testLayer(layer.KindMask, layer.BlendSoftLight, 0.7, layer.MaskParams{Shape: layer.ShapeStar5, Hardness: 0.6, Contrast: 1}),
		testLayer(layer.KindWarp, layer.BlendNormal, 1, layer.WarpParams{Type: layer.WarpTurbulence, Strength: 40, Scale: 2, Seed: 17}),
	}

	img1, err := NewRenderer(nil, nil).Render(stack, 32)
	require.NoError(t, err)
	img2, err := NewRenderer(nil, nil).Render(stack, 32)
	require.NoError(t, err)

	require.Equal(t, img1.Pix, img2.Pix)
}

// TestRenderGoldenNoiseTile pins the canonical single-noise-layer render:
// seed 12345, scale 3, 8x8, normal blend, full opacity.
func TestRenderGoldenNoiseTile(t *testing.T) {
	stack := []layer.Layer{
		testLayer(layer.KindGradientNoise, layer.BlendNormal, 1, layer.NoiseParams{Scale: 3, Seed: 12345, Octaves: 1, Contrast: 1}),
	}

	img, err := NewRenderer(nil, nil).Render(stack, 8)
	require.NoError(t, err)

	// The layer is grayscale and fully opaque.
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := img.RGBAAt(x, y)
			require.Equal(t, c.R, c.G, "pixel (%d,%d)", x, y)
			require.Equal(t, c.G, c.B, "pixel (%d,%d)", x, y)
			require.Equal(t, uint8(255), c.A, "pixel (%d,%d)", x, y)
		}
	}

	goldenPath := filepath.Join("testdata", "golden", "noise_seed12345_8x8.png")
	if os.Getenv("UPDATE_GOLDEN") == "1" {
		writeGoldenPNG(t, goldenPath, img)
		return
	}
	if _, err := os.Stat(goldenPath); os.IsNotExist(err) {
		writeGoldenPNG(t, goldenPath, img)
		t.Skipf("golden %s was missing, wrote current output; re-run to compare", goldenPath)
	}
	assertMatchesGolden(t, goldenPath, img)
}

// TestCompositeHalfGrayStack: a white base under a half-opacity black
// layer lands on exactly 50% gray in the float accumulator.
func TestCompositeHalfGrayStack(t *testing.T) {
	white := testLayer(layer.KindGrain, layer.BlendNormal, 1, layer.GrainParams{Contrast: 1, Brightness: 1})
	black := testLayer(layer.KindGrain, layer.BlendNormal, 0.5, layer.GrainParams{Contrast: 1, Brightness: -1})

	acc, err := NewRenderer(nil, nil).Composite([]layer.Layer{white, black}, 8)
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pr, pg, pb, _ := acc.At(x, y)
			require.Equal(t, 0.5, pr, "pixel (%d,%d)", x, y)
			require.Equal(t, 0.5, pg, "pixel (%d,%d)", x, y)
			require.Equal(t, 0.5, pb, "pixel (%d,%d)", x, y)
		}
	}

	c := acc.Image().RGBAAt(3, 3)
	require.Equal(t, uint8(128), c.R)
}

func TestCompositeBlendIdentities(t *testing.T) {
	base := testLayer(layer.KindGradientNoise, layer.BlendNormal, 1, layer.NoiseParams{Scale: 3, Seed: 5, Octaves: 1, Contrast: 1})
	white := testLayer(layer.KindGrain, layer.BlendNormal, 1, layer.GrainParams{Contrast: 1, Brightness: 1})

	r := NewRenderer(nil, nil)

	t.Run("opaque white normal replaces", func(t *testing.T) {
		acc, err := r.Composite([]layer.Layer{base, white}, 16)
		require.NoError(t, err)
		for i := range acc.r {
			require.Equal(t, 1.0, acc.r[i])
			require.Equal(t, 1.0, acc.g[i])
			require.Equal(t, 1.0, acc.b[i])
		}
	})

	t.Run("multiply by white is a no-op", func(t *testing.T) {
		plain, err := r.Composite([]layer.Layer{base}, 16)
		require.NoError(t, err)

		mulWhite := white
		mulWhite.BlendMode = layer.BlendMultiply
		stacked, err := r.Composite([]layer.Layer{base, mulWhite}, 16)
		require.NoError(t, err)

		require.Equal(t, plain.r, stacked.r)
		require.Equal(t, plain.g, stacked.g)
		require.Equal(t, plain.b, stacked.b)
	})

	t.Run("zero opacity is a no-op", func(t *testing.T) {
		plain, err := r.Composite([]layer.Layer{base}, 16)
		require.NoError(t, err)

		noop := testLayer(layer.KindStripes, layer.BlendDifference, 0, layer.StripesParams{Scale: 4, Contrast: 1})
		stacked, err := r.Composite([]layer.Layer{base, noop}, 16)
		require.NoError(t, err)

		require.Equal(t, plain.r, stacked.r)
		require.Equal(t, plain.g, stacked.g)
		require.Equal(t, plain.b, stacked.b)
	})
}

func TestCompositeSkipsHiddenLayers(t *testing.T) {
	white := testLayer(layer.KindGrain, layer.BlendNormal, 1, layer.GrainParams{Contrast: 1, Brightness: 1})
	hidden := testLayer(layer.KindStripes, layer.BlendDifference, 1, layer.StripesParams{Scale: 4, Contrast: 1})
	hidden.Visible = false

	acc, err := NewRenderer(nil, nil).Composite([]layer.Layer{white, hidden}, 8)
	require.NoError(t, err)

	for i := range acc.r {
		require.Equal(t, 1.0, acc.r[i])
	}
}

func TestCompositeWarpChangesResult(t *testing.T) {
	base := testLayer(layer.KindGradientNoise, layer.BlendNormal, 1, layer.NoiseParams{Scale: 3, Seed: 9, Octaves: 1, Contrast: 1})
	warp := testLayer(layer.KindWarp, layer.BlendNormal, 1, layer.WarpParams{Type: layer.WarpTurbulence, Strength: 60, Scale: 2, Seed: 4})

	r := NewRenderer(nil, nil)
	plain, err := r.Render([]layer.Layer{base}, 16)
	require.NoError(t, err)
	warped, err := r.Render([]layer.Layer{base, warp}, 16)
	require.NoError(t, err)

	require.NotEqual(t, plain.Pix, warped.Pix)
}

// TestRenderLayerDotsFullyMasked: maskThreshold 1 suppresses every
// candidate point, leaving the all-zero field.
func TestRenderLayerDotsFullyMasked(t *testing.T) {
	l := testLayer(layer.KindDots, layer.BlendNormal, 1, layer.DotsParams{
		Scale: 8, Seed: 3, Jitter: 0.75, DotBaseSize: 0.5, SizeVariation: 0.5,
		MaskThreshold: 1, Contrast: 1,
	})

	buf, err := NewRenderer(nil, nil).RenderLayer(l, 16)
	require.NoError(t, err)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			pr, pg, pb, pa := buf.At(x, y)
			require.Zero(t, pr, "pixel (%d,%d)", x, y)
			require.Zero(t, pg, "pixel (%d,%d)", x, y)
			require.Zero(t, pb, "pixel (%d,%d)", x, y)
			require.Equal(t, 1.0, pa, "pixel (%d,%d)", x, y)
		}
	}
}

func TestRenderLayerInvertMirrorsValues(t *testing.T) {
	plain := testLayer(layer.KindGradientNoise, layer.BlendNormal, 1, layer.NoiseParams{Scale: 3, Seed: 9, Octaves: 1, Contrast: 1})
	inverted := plain
	p := plain.Params.(layer.NoiseParams)
	p.Invert = true
	inverted.Params = p

	r := NewRenderer(nil, nil)
	a, err := r.RenderLayer(plain, 16)
	require.NoError(t, err)
	b, err := r.RenderLayer(inverted, 16)
	require.NoError(t, err)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			av, _, _, _ := a.At(x, y)
			bv, _, _, _ := b.At(x, y)
			require.InDelta(t, 1-av, bv, 1e-12, "pixel (%d,%d)", x, y)
		}
	}
}

func TestRenderLayerWarpKindIsTransparent(t *testing.T) {
	l := layer.New(layer.KindWarp)

	buf, err := NewRenderer(nil, nil).RenderLayer(l, 8)
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			_, _, _, pa := buf.At(x, y)
			require.Zero(t, pa)
		}
	}
}

func TestToneClampsAndApplies(t *testing.T) {
	tn := newTone(99, -7, false)
	require.Equal(t, 3.0, tn.contrast)
	require.Equal(t, -1.0, tn.brightness)

	tn = newTone(0.1, 4, true)
	require.Equal(t, 0.5, tn.contrast)
	require.Equal(t, 1.0, tn.brightness)
	require.True(t, tn.invert)

	require.Equal(t, 1.0, newTone(3, 0, false).apply(0.9))
	require.Equal(t, 0.0, newTone(3, 0, false).apply(0.1))
	require.InDelta(t, 0.8, newTone(1, 0, true).apply(0.2), 1e-12)
	require.Equal(t, 0.75, newTone(2, 0.25, false).apply(0.5))
}

func TestSafeScaleGuards(t *testing.T) {
	require.Equal(t, 1.0, safeScale(0))
	require.Equal(t, 1.0, safeScale(-2))
	require.Equal(t, 1.0, safeScale(math.Inf(1)))
	require.Equal(t, 1.0, safeScale(math.NaN()))
	require.Equal(t, 2.5, safeScale(2.5))
}

// testLayer builds a visible layer with explicit blend, opacity and
// params, bypassing the per-kind defaults.
func testLayer(kind layer.Kind, mode layer.BlendMode, opacity float64, params layer.Params) layer.Layer {
	l := layer.New(kind)
	l.BlendMode = mode
	l.Opacity = opacity
	l.Params = params
	return l
}

func writeGoldenPNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
}

func assertMatchesGolden(t *testing.T, goldenPath string, actual image.Image) {
	t.Helper()

	f, err := os.Open(goldenPath)
	require.NoError(t, err)
	defer f.Close()

	expected, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, expected.Bounds(), actual.Bounds())

	bounds := expected.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			er, eg, eb, ea := expected.At(x, y).RGBA()
			ar, ag, ab, aa := actual.At(x, y).RGBA()
			if er != ar || eg != ag || eb != ab || ea != aa {
				t.Fatalf("pixel (%d,%d) differs from golden: got RGBA(%d,%d,%d,%d), want RGBA(%d,%d,%d,%d)",
					x, y, ar>>8, ag>>8, ab>>8, aa>>8, er>>8, eg>>8, eb>>8, ea>>8)
			}
		}
	}
}
