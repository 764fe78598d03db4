package project

import (
	"fmt"

	"github.com/MeKo-Tech/texforge/internal/layer"
)

// presetBuilders maps preset names to constructors. Builders run on every
// request so each copy gets fresh layer IDs.
var presetBuilders = map[string]func() *Project{
	"marble": marblePreset,
	"cells":  cellsPreset,
	"fabric": fabricPreset,
	"polka":  polkaPreset,
	"clouds": cloudsPreset,
}

var presetOrder = []string{"marble", "cells", "fabric", "polka", "clouds"}

// PresetNames lists the built-in projects in display order.
func PresetNames() []string {
	names := make([]string, len(presetOrder))
	copy(names, presetOrder)
	return names
}

// NewPreset builds a fresh copy of the named built-in project.
func NewPreset(name string) (*Project, error) {
	build, ok := presetBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	return build(), nil
}

func marblePreset() *Project {
	p := New("marble")

	base := layer.New(layer.KindGradientNoise)
	base.Params = layer.NoiseParams{Scale: 2, Seed: 41, Octaves: 4, Contrast: 1.4}
	p.AddLayer(base)

	veins := layer.New(layer.KindGradientNoise)
	veins.Name = "Veins"
	veins.BlendMode = layer.BlendSoftLight
	veins.Opacity = 0.8
	veins.Params = layer.NoiseParams{Scale: 5, Seed: 97, Octaves: 2, Contrast: 2.2, Invert: true}
	p.AddLayer(veins)

	swirl := layer.New(layer.KindWarp)
	swirl.Params = layer.WarpParams{Type: layer.WarpSwirl, Strength: 35, Scale: 3, Seed: 7}
	p.AddLayer(swirl)

	grain := layer.New(layer.KindGrain)
	grain.BlendMode = layer.BlendOverlay
	grain.Opacity = 0.06
	grain.Params = layer.GrainParams{Contrast: 1}
	p.AddLayer(grain)

	return p
}

func cellsPreset() *Project {
	p := New("cells")

	base := layer.New(layer.KindCellular)
	base.Params = layer.CellularParams{Scale: 5, Seed: 11, Jitter: 1, Contrast: 1.3}
	p.AddLayer(base)

	sub := layer.New(layer.KindCellular)
	sub.Name = "Fine cells"
	sub.BlendMode = layer.BlendMultiply
	sub.Opacity = 0.7
	sub.Params = layer.CellularParams{Scale: 10, Seed: 29, Jitter: 0.8, Contrast: 1, Invert: true}
	p.AddLayer(sub)

	accents := layer.New(layer.KindDots)
	accents.BlendMode = layer.BlendScreen
	accents.Opacity = 0.5
	accents.Params = layer.DotsParams{
		Scale: 12, Seed: 53, Jitter: 0.9,
		DotBaseSize: 0.4, SizeVariation: 0.6, MaskThreshold: 0.6, Contrast: 1,
	}
	p.AddLayer(accents)

	return p
}

func fabricPreset() *Project {
	p := New("fabric")

	threads := layer.New(layer.KindStripes)
	threads.Params = layer.StripesParams{Scale: 24, Contrast: 1}
	p.AddLayer(threads)

	weave := layer.New(layer.KindGradientNoise)
	weave.Name = "Weave"
	weave.BlendMode = layer.BlendMultiply
	weave.Opacity = 0.85
	weave.Params = layer.NoiseParams{Scale: 8, Seed: 19, Octaves: 3, Contrast: 0.9, Brightness: 0.2}
	p.AddLayer(weave)

	sway := layer.New(layer.KindWarp)
	sway.Params = layer.WarpParams{Type: layer.WarpFlow, Strength: 6, Scale: 4, Seed: 23}
	p.AddLayer(sway)

	grain := layer.New(layer.KindGrain)
	grain.BlendMode = layer.BlendOverlay
	grain.Opacity = 0.12
	grain.Params = layer.GrainParams{Contrast: 1}
	p.AddLayer(grain)

	return p
}

func polkaPreset() *Project {
	p := New("polka")

	paper := layer.New(layer.KindGradientNoise)
	paper.Name = "Paper"
	paper.Params = layer.NoiseParams{Scale: 1, Seed: 5, Octaves: 1, Contrast: 0.5, Brightness: 0.35}
	p.AddLayer(paper)

	dots := layer.New(layer.KindDots)
	dots.Params = layer.DotsParams{
		Scale: 6, Seed: 3, Jitter: 0.4,
		DotBaseSize: 0.7, SizeVariation: 0.3, MaskThreshold: 0.2, Contrast: 1,
	}
	dots.BlendMode = layer.BlendDifference
	p.AddLayer(dots)

	vignette := layer.New(layer.KindMask)
	vignette.BlendMode = layer.BlendMultiply
	vignette.Opacity = 0.4
	vignette.Params = layer.MaskParams{Shape: layer.ShapeCircle, Hardness: 0.2, Contrast: 1, Invert: true}
	p.AddLayer(vignette)

	return p
}

func cloudsPreset() *Project {
	p := New("clouds")

	sky := layer.New(layer.KindImage)
	sky.Params = layer.ImageParams{Source: "builtin:clouds", Scale: 1, Contrast: 1}
	p.AddLayer(sky)

	depth := layer.New(layer.KindGradientNoise)
	depth.Name = "Depth"
	depth.BlendMode = layer.BlendSoftLight
	depth.Opacity = 0.6
	depth.Params = layer.NoiseParams{Scale: 4, Seed: 61, Octaves: 3, Contrast: 1.2}
	p.AddLayer(depth)

	churn := layer.New(layer.KindWarp)
	churn.Params = layer.WarpParams{Type: layer.WarpTurbulence, Strength: 25, Scale: 2, Seed: 31}
	p.AddLayer(churn)

	return p
}
