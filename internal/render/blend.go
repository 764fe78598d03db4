package render

import (
	"math"

	"github.com/MeKo-Tech/texforge/internal/layer"
)

// blendChannel combines one source channel with the accumulated backdrop
// channel, both in [0,1], using the standard separable blend formulas.
func blendChannel(mode layer.BlendMode, src, dst float64) float64 {
	switch mode {
	case layer.BlendNormal:
		return src
	case layer.BlendMultiply:
		return src * dst
	case layer.BlendScreen:
		return src + dst - src*dst
	case layer.BlendOverlay:
		// Hard light with the operands swapped: the backdrop picks the
		// branch.
		return hardLight(dst, src)
	case layer.BlendDarken:
		return math.Min(src, dst)
	case layer.BlendLighten:
		return math.Max(src, dst)
	case layer.BlendColorDodge:
		return colorDodge(src, dst)
	case layer.BlendColorBurn:
		return colorBurn(src, dst)
	case layer.BlendHardLight:
		return hardLight(src, dst)
	case layer.BlendSoftLight:
		return softLight(src, dst)
	case layer.BlendDifference:
		return math.Abs(src - dst)
	case layer.BlendExclusion:
		return src + dst - 2*src*dst
	}
	return src
}

func hardLight(s, d float64) float64 {
	if s <= 0.5 {
		return 2 * s * d
	}
	return 1 - 2*(1-s)*(1-d)
}

func colorDodge(s, d float64) float64 {
	if d == 0 {
		return 0
	}
	if s >= 1 {
		return 1
	}
	return math.Min(1, d/(1-s))
}

func colorBurn(s, d float64) float64 {
	if d >= 1 {
		return 1
	}
	if s <= 0 {
		return 0
	}
	return 1 - math.Min(1, (1-d)/s)
}

func softLight(s, d float64) float64 {
	if s <= 0.5 {
		return d - (1-2*s)*d*(1-d)
	}
	return d + (2*s-1)*(softLightD(d)-d)
}

func softLightD(x float64) float64 {
	if x <= 0.25 {
		return ((16*x-12)*x + 4) * x
	}
	return math.Sqrt(x)
}
