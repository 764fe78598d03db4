package cmd

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/texforge/internal/project"
)

func TestPNGCompression(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    png.CompressionLevel
		wantErr bool
	}{
		{name: "empty defaults", input: "", want: png.DefaultCompression},
		{name: "default", input: "default", want: png.DefaultCompression},
		{name: "speed", input: "speed", want: png.BestSpeed},
		{name: "best", input: "best", want: png.BestCompression},
		{name: "none", input: "none", want: png.NoCompression},
		{name: "unknown", input: "fastest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pngCompression(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("pngCompression(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("pngCompression(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("pngCompression(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadProjectArg(t *testing.T) {
	t.Run("file and preset conflict", func(t *testing.T) {
		if _, err := loadProjectArg([]string{"some.json"}, "marble"); err == nil {
			t.Error("expected error when both a file and a preset are given")
		}
	})

	t.Run("neither file nor preset", func(t *testing.T) {
		if _, err := loadProjectArg(nil, ""); err == nil {
			t.Error("expected error when no project source is given")
		}
	})

	t.Run("preset", func(t *testing.T) {
		proj, err := loadProjectArg(nil, "marble")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if proj.Name != "marble" {
			t.Errorf("expected preset name marble, got %q", proj.Name)
		}
		if len(proj.Layers) == 0 {
			t.Error("expected preset to have layers")
		}
	})

	t.Run("project file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "test.json")

		proj := project.New("from-file")
		if err := proj.Save(path); err != nil {
			t.Fatalf("failed to save project: %v", err)
		}

		loaded, err := loadProjectArg([]string{path}, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loaded.Name != "from-file" {
			t.Errorf("expected name from-file, got %q", loaded.Name)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := loadProjectArg([]string{"/nonexistent/path.json"}, ""); err == nil {
			t.Error("expected error for missing project file")
		}
	})
}

func TestWritePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.png")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255})
		}
	}

	if err := writePNG(path, img, png.BestSpeed); err != nil {
		t.Fatalf("writePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open written file: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode written PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 4 {
		t.Errorf("expected 4x4 image, got %v", decoded.Bounds())
	}
}
