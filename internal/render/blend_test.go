package render

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/texforge/internal/layer"
)

const blendTol = 1e-12

// TestBlendChannelFormulas checks every mode at hand-computed points.
func TestBlendChannelFormulas(t *testing.T) {
	tests := []struct {
		name string
		mode layer.BlendMode
		src  float64
		dst  float64
		want float64
	}{
		{"normal replaces", layer.BlendNormal, 0.25, 0.75, 0.25},
		{"multiply gray by gray", layer.BlendMultiply, 0.5, 0.5, 0.25},
		{"multiply by white keeps backdrop", layer.BlendMultiply, 1, 0.62, 0.62},
		{"screen gray over gray", layer.BlendScreen, 0.5, 0.5, 0.75},
		{"screen black keeps backdrop", layer.BlendScreen, 0, 0.37, 0.37},
		{"overlay dark backdrop multiplies", layer.BlendOverlay, 0.5, 0.25, 0.25},
		{"overlay light backdrop screens", layer.BlendOverlay, 0.5, 0.75, 0.75},
		{"darken picks min", layer.BlendDarken, 0.3, 0.6, 0.3},
		{"lighten picks max", layer.BlendLighten, 0.3, 0.6, 0.6},
		{"color-dodge divides", layer.BlendColorDodge, 0.5, 0.25, 0.5},
		{"color-dodge white source saturates", layer.BlendColorDodge, 1, 0.25, 1},
		{"color-dodge black backdrop stays black", layer.BlendColorDodge, 1, 0, 0},
		{"color-burn divides", layer.BlendColorBurn, 0.5, 0.75, 0.5},
		{"color-burn black source crushes", layer.BlendColorBurn, 0, 0.75, 0},
		{"color-burn white backdrop stays white", layer.BlendColorBurn, 0, 1, 1},
		{"hard-light dark source multiplies", layer.BlendHardLight, 0.25, 0.5, 0.25},
		{"hard-light light source screens", layer.BlendHardLight, 0.75, 0.5, 0.75},
		{"soft-light mid source is identity", layer.BlendSoftLight, 0.5, 0.37, 0.37},
		{"soft-light dark source", layer.BlendSoftLight, 0.25, 0.5, 0.375},
		{"soft-light polynomial branch", layer.BlendSoftLight, 0.75, 0.2, 0.324},
		{"soft-light sqrt branch", layer.BlendSoftLight, 0.75, 0.36, 0.48},
		{"difference is absolute", layer.BlendDifference, 0.2, 0.7, 0.5},
		{"exclusion gray over gray", layer.BlendExclusion, 0.5, 0.5, 0.5},
		{"unknown mode acts as normal", layer.BlendMode("bogus"), 0.3, 0.9, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := blendChannel(tt.mode, tt.src, tt.dst)
			if math.Abs(got-tt.want) > blendTol {
				t.Errorf("blendChannel(%s, %v, %v) = %v, want %v", tt.mode, tt.src, tt.dst, got, tt.want)
			}
		})
	}
}

// TestBlendChannelRange sweeps every mode over an input grid and checks
// outputs stay within [0,1].
func TestBlendChannelRange(t *testing.T) {
	for _, mode := range allBlendModes() {
		t.Run(string(mode), func(t *testing.T) {
			for si := 0; si <= 10; si++ {
				for di := 0; di <= 10; di++ {
					s := float64(si) / 10
					d := float64(di) / 10
					got := blendChannel(mode, s, d)
					if math.IsNaN(got) || got < 0 || got > 1 {
						t.Fatalf("blendChannel(%s, %v, %v) = %v, out of range", mode, s, d, got)
					}
				}
			}
		})
	}
}

// TestBlendChannelSymmetry: multiply, screen, darken, lighten, difference
// and exclusion are commutative in source and backdrop.
func TestBlendChannelSymmetry(t *testing.T) {
	modes := []layer.BlendMode{
		layer.BlendMultiply,
		layer.BlendScreen,
		layer.BlendDarken,
		layer.BlendLighten,
		layer.BlendDifference,
		layer.BlendExclusion,
	}

	for _, mode := range modes {
		t.Run(string(mode), func(t *testing.T) {
			for si := 0; si <= 10; si++ {
				for di := 0; di <= 10; di++ {
					s := float64(si) / 10
					d := float64(di) / 10
					fwd := blendChannel(mode, s, d)
					rev := blendChannel(mode, d, s)
					if math.Abs(fwd-rev) > blendTol {
						t.Fatalf("blendChannel(%s) not symmetric at (%v, %v): %v vs %v", mode, s, d, fwd, rev)
					}
				}
			}
		})
	}
}

// TestBlendChannelNeutralElements: for several modes a specific source
// value leaves any backdrop unchanged.
func TestBlendChannelNeutralElements(t *testing.T) {
	tests := []struct {
		name string
		mode layer.BlendMode
		src  float64
	}{
		{"multiply white", layer.BlendMultiply, 1},
		{"screen black", layer.BlendScreen, 0},
		{"difference black", layer.BlendDifference, 0},
		{"exclusion black", layer.BlendExclusion, 0},
		{"soft-light mid gray", layer.BlendSoftLight, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for di := 0; di <= 10; di++ {
				d := float64(di) / 10
				got := blendChannel(tt.mode, tt.src, d)
				if math.Abs(got-d) > blendTol {
					t.Fatalf("blendChannel(%s, %v, %v) = %v, want backdrop unchanged", tt.mode, tt.src, d, got)
				}
			}
		})
	}
}

func allBlendModes() []layer.BlendMode {
	return []layer.BlendMode{
		layer.BlendNormal,
		layer.BlendMultiply,
		layer.BlendScreen,
		layer.BlendOverlay,
		layer.BlendDarken,
		layer.BlendLighten,
		layer.BlendColorDodge,
		layer.BlendColorBurn,
		layer.BlendHardLight,
		layer.BlendSoftLight,
		layer.BlendDifference,
		layer.BlendExclusion,
	}
}
