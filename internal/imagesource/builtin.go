package imagesource

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
)

// BuiltinClouds is the key of the bundled sample bitmap, a soft Perlin
// cloud texture. It gives image layers something to show before any
// upload or generation happened.
const BuiltinClouds = builtinPrefix + "clouds"

const (
	cloudsSize      = 256
	cloudsFrequency = 64
	cloudsSeed      = 1
)

func builtinImage(name string) (image.Image, error) {
	if name == "clouds" {
		return cloudsImage(), nil
	}
	return nil, fmt.Errorf("unknown builtin image %q", name)
}

func cloudsImage() image.Image {
	p := perlin.NewPerlin(2, 2, 3, cloudsSeed)
	img := image.NewNRGBA(image.Rect(0, 0, cloudsSize, cloudsSize))
	for y := 0; y < cloudsSize; y++ {
		for x := 0; x < cloudsSize; x++ {
			n := p.Noise2D(float64(x)/cloudsFrequency, float64(y)/cloudsFrequency)
			v := uint8(math.Round(clamp01((n+1)/2) * 255))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
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
