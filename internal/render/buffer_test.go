package render

import (
	"image/color"
	"testing"
)

func TestNewAccumulatorIsOpaqueBlack(t *testing.T) {
	acc := newAccumulator(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r, g, b, a := acc.At(x, y)
			if r != 0 || g != 0 || b != 0 || a != 1 {
				t.Fatalf("At(%d,%d) = (%v,%v,%v,%v), want opaque black", x, y, r, g, b, a)
			}
		}
	}

	c := acc.Image().RGBAAt(0, 0)
	if c != (color.RGBA{A: 255}) {
		t.Fatalf("Image pixel = %v, want opaque black", c)
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want uint8
	}{
		{"zero", 0, 0},
		{"one", 1, 255},
		{"midpoint rounds up", 0.5, 128},
		{"below midpoint", 0.499, 127},
		{"negative clamps", -0.2, 0},
		{"overshoot clamps", 1.7, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quantize(tt.in); got != tt.want {
				t.Errorf("quantize(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestBufferImagePixels(t *testing.T) {
	buf := newBuffer(2, 2)
	buf.set(0, 0, 1, 0, 0, 1)
	buf.set(1, 0, 0, 1, 0, 0.5)
	buf.setGray(0, 1, 0.5, 1)

	img := buf.Image()
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{R: 255, A: 255}},
		{1, 0, color.RGBA{G: 255, A: 128}},
		{0, 1, color.RGBA{R: 128, G: 128, B: 128, A: 255}},
		{1, 1, color.RGBA{}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	buf := newBuffer(2, 2)
	buf.setGray(1, 1, 0.75, 1)

	cp := buf.clone()
	buf.setGray(1, 1, 0.1, 0.1)

	r, g, b, a := cp.At(1, 1)
	if r != 0.75 || g != 0.75 || b != 0.75 || a != 1 {
		t.Fatalf("clone changed with the original: (%v,%v,%v,%v)", r, g, b, a)
	}
}

func TestWrapIndex(t *testing.T) {
	tests := []struct {
		x, max, want int
	}{
		{0, 8, 0},
		{5, 8, 5},
		{8, 8, 0},
		{9, 8, 1},
		{16, 8, 0},
		{-1, 8, 7},
		{-9, 8, 7},
	}

	for _, tt := range tests {
		if got := wrapIndex(tt.x, tt.max); got != tt.want {
			t.Errorf("wrapIndex(%d, %d) = %d, want %d", tt.x, tt.max, got, tt.want)
		}
	}
}

func TestClampRange(t *testing.T) {
	if got := clampRange(5, 0.5, 3); got != 3 {
		t.Errorf("clampRange(5, 0.5, 3) = %v, want 3", got)
	}
	if got := clampRange(0.1, 0.5, 3); got != 0.5 {
		t.Errorf("clampRange(0.1, 0.5, 3) = %v, want 0.5", got)
	}
	if got := clampRange(1.2, 0.5, 3); got != 1.2 {
		t.Errorf("clampRange(1.2, 0.5, 3) = %v, want 1.2", got)
	}
}
