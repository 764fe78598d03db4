package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/texforge/internal/imagesource"
	"github.com/MeKo-Tech/texforge/internal/project"
	"github.com/MeKo-Tech/texforge/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var renderCmd = &cobra.Command{
	Use:   "render [project-file]",
	Short: "Render a project to a seamless PNG texture",
	Long: `Render a layered project to a seamless PNG texture.

The project is either a JSON file saved by TexForge or one of the built-in
presets (see "texforge presets").`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().String("preset", "", "Render a built-in preset instead of a project file")
	renderCmd.Flags().Int("size", 0, "Override the project's render size in pixels")
	renderCmd.Flags().StringP("out", "o", "", "Output PNG path (default: <output-dir>/<name>.png)")
	renderCmd.Flags().Bool("tiled", false, "Also write a 3x3 tiled preview next to the texture")
	renderCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"render.preset", "preset"},
		{"render.size", "size"},
		{"render.out", "out"},
		{"render.tiled", "tiled"},
		{"render.png_compression", "png-compression"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, renderCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	presetName := viper.GetString("render.preset")
	size := viper.GetInt("render.size")
	outPath := viper.GetString("render.out")
	tiled := viper.GetBool("render.tiled")
	outputDir := viper.GetString("output-dir")
	imagesDir := viper.GetString("images-dir")

	level, err := pngCompression(viper.GetString("render.png_compression"))
	if err != nil {
		return err
	}

	proj, err := loadProjectArg(args, presetName)
	if err != nil {
		return err
	}

	if size <= 0 {
		size = proj.Size
	}

	logger.Info("Starting texture render",
		"name", proj.Name,
		"size", size,
		"layers", len(proj.Layers),
	)

	images := imagesource.NewStore(imagesDir, logger)
	renderer := render.NewRenderer(images, logger)

	start := time.Now()
	img, err := renderer.Render(proj.Layers, size)
	if err != nil {
		return fmt.Errorf("failed to render texture: %w", err)
	}

	if outPath == "" {
		outPath = filepath.Join(outputDir, proj.Name+".png")
	}
	if err := writePNG(outPath, img, level); err != nil {
		return err
	}
	logger.Info("Texture rendered", "path", outPath, "ms", time.Since(start).Milliseconds())

	if tiled {
		tiledPath := strings.TrimSuffix(outPath, ".png") + "_tiled.png"
		if err := writePNG(tiledPath, render.Repeat(img, 3), level); err != nil {
			return err
		}
		logger.Info("Tiled preview written", "path", tiledPath)
	}

	return nil
}

// loadProjectArg resolves the project to render from the positional argument
// or the --preset flag.
func loadProjectArg(args []string, presetName string) (*project.Project, error) {
	switch {
	case len(args) > 0 && presetName != "":
		return nil, fmt.Errorf("pass either a project file or --preset, not both")
	case len(args) > 0:
		return project.Load(args[0])
	case presetName != "":
		return project.NewPreset(presetName)
	default:
		return nil, fmt.Errorf("a project file or --preset is required")
	}
}

// pngCompression maps a compression name to the encoder level.
func pngCompression(name string) (png.CompressionLevel, error) {
	switch name {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	}
	return 0, fmt.Errorf("invalid png compression %q: must be default, speed, best, or none", name)
}

// writePNG encodes img to path, creating parent directories as needed.
func writePNG(path string, img image.Image, level png.CompressionLevel) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	enc := png.Encoder{CompressionLevel: level}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
