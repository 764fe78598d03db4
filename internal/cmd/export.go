package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/MeKo-Tech/texforge/internal/imagesource"
	"github.com/MeKo-Tech/texforge/internal/library"
	"github.com/MeKo-Tech/texforge/internal/project"
	"github.com/MeKo-Tech/texforge/internal/render"
	"github.com/MeKo-Tech/texforge/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// maxExportSize bounds the per-texture resolution for batch exports.
const maxExportSize = 4096

var exportCmd = &cobra.Command{
	Use:   "export [project-file...]",
	Short: "Batch render projects into a folder or texture library",
	Long: `Batch render projects and presets at one or more resolutions.

Output goes to a folder of PNG files or to a single SQLite texture library
that "texforge serve" can serve directly. When several sizes are given,
texture names get a _<size> suffix.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Bool("presets", false, "Include all built-in presets")
	exportCmd.Flags().String("sizes", "512", "Comma-separated render sizes (e.g., \"256,512,1024\")")
	exportCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	exportCmd.Flags().Bool("progress", true, "Show progress bar during batch rendering")
	exportCmd.Flags().Bool("allow-failures", false, "Continue even if some textures fail to render")
	exportCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")

	// Output format flags
	exportCmd.Flags().String("format", "folder", "Output format: folder or library")
	exportCmd.Flags().String("output-file", "", "Texture library path for library format (e.g., textures.db)")
	exportCmd.Flags().String("name", "TexForge", "Library name")
	exportCmd.Flags().String("description", "Seamless procedural textures", "Library description")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"export.presets", "presets"},
		{"export.sizes", "sizes"},
		{"export.workers", "workers"},
		{"export.progress", "progress"},
		{"export.allow_failures", "allow-failures"},
		{"export.png_compression", "png-compression"},
		{"export.format", "format"},
		{"export.output_file", "output-file"},
		{"export.name", "name"},
		{"export.description", "description"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, exportCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	includePresets := viper.GetBool("export.presets")
	sizesStr := viper.GetString("export.sizes")
	workers := viper.GetInt("export.workers")
	showProgress := viper.GetBool("export.progress")
	allowFailures := viper.GetBool("export.allow_failures")
	format := viper.GetString("export.format")
	outputFile := viper.GetString("export.output_file")
	outputDir := viper.GetString("output-dir")
	imagesDir := viper.GetString("images-dir")

	level, err := pngCompression(viper.GetString("export.png_compression"))
	if err != nil {
		return err
	}

	// Validate format
	if format != "folder" && format != "library" {
		return fmt.Errorf("invalid format %q: must be 'folder' or 'library'", format)
	}
	if format == "library" && outputFile == "" {
		return fmt.Errorf("--output-file is required when using --format=library")
	}

	sizes, err := parseSizes(sizesStr)
	if err != nil {
		return fmt.Errorf("invalid sizes: %w", err)
	}

	projects, err := collectProjects(args, includePresets)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		return fmt.Errorf("nothing to export: pass project files or --presets")
	}

	// Default workers to CPU count
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger.Info("Starting batch texture export",
		"projects", len(projects),
		"sizes", sizesStr,
		"total", len(projects)*len(sizes),
		"workers", workers,
		"format", format,
	)

	// Create library writer if needed
	var writer *library.Writer
	if format == "library" {
		metadata := library.Metadata{
			Name:        viper.GetString("export.name"),
			Description: viper.GetString("export.description"),
			Version:     "1.0",
		}
		writer, err = library.New(outputFile, metadata)
		if err != nil {
			return fmt.Errorf("failed to create texture library: %w", err)
		}
		defer writer.Close()

		logger.Info("Texture library created", "path", outputFile)
	}

	renderer := &exportRenderer{
		images:    imagesource.NewStore(imagesDir, logger),
		writer:    writer,
		outputDir: outputDir,
		level:     level,
		suffixed:  len(sizes) > 1,
	}

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received interrupt signal, cancelling...")
		cancel()
	}()

	// Build task list
	tasks := make([]worker.Task, 0, len(projects)*len(sizes))
	for _, proj := range projects {
		for _, size := range sizes {
			tasks = append(tasks, worker.Task{Project: proj, Size: size})
		}
	}

	// Setup progress tracking
	progress := worker.NewProgress(len(tasks), showProgress)

	pool := worker.New(worker.Config{
		Workers:    workers,
		Renderer:   renderer,
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	// Check for failures
	var failedCount int
	for _, r := range results {
		if r.Err != nil {
			failedCount++
			logger.Error("Texture render failed", "name", r.Task.Project.Name, "size", r.Task.Size, "error", r.Err)
		}
	}

	logger.Info(progress.Summary())

	if failedCount > 0 && !allowFailures {
		return fmt.Errorf("%d textures failed to render", failedCount)
	}
	if failedCount > 0 {
		logger.Warn("Some textures failed to render, but continuing due to --allow-failures flag", "failed_count", failedCount)
	}

	if writer != nil {
		logger.Info("Flushing texture library...")
		if err := writer.Flush(); err != nil {
			return fmt.Errorf("failed to flush texture library: %w", err)
		}
		logger.Info("Texture library export complete", "path", outputFile)
	}

	return nil
}

// collectProjects loads the given project files and optionally appends all
// built-in presets.
func collectProjects(args []string, includePresets bool) ([]*project.Project, error) {
	projects := make([]*project.Project, 0, len(args))
	for _, path := range args {
		proj, err := project.Load(path)
		if err != nil {
			return nil, err
		}
		projects = append(projects, proj)
	}

	if includePresets {
		for _, name := range project.PresetNames() {
			proj, err := project.NewPreset(name)
			if err != nil {
				return nil, err
			}
			projects = append(projects, proj)
		}
	}

	return projects, nil
}

// exportRenderer renders one texture per task into the configured
// destination. It implements worker.Renderer.
type exportRenderer struct {
	images    render.ImageSource
	writer    *library.Writer
	outputDir string
	level     png.CompressionLevel
	suffixed  bool
}

func (e *exportRenderer) Render(ctx context.Context, proj *project.Project, size int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	renderer := render.NewRenderer(e.images, logger)
	img, err := renderer.Render(proj.Layers, size)
	if err != nil {
		return "", err
	}

	name := proj.Name
	if e.suffixed {
		name = fmt.Sprintf("%s_%d", proj.Name, size)
	}

	if e.writer != nil {
		var buf bytes.Buffer
		enc := png.Encoder{CompressionLevel: e.level}
		if err := enc.Encode(&buf, img); err != nil {
			return "", fmt.Errorf("failed to encode texture: %w", err)
		}
		projJSON, err := json.Marshal(proj)
		if err != nil {
			return "", fmt.Errorf("failed to marshal project: %w", err)
		}
		if err := e.writer.WriteTexture(name, size, projJSON, buf.Bytes()); err != nil {
			return "", err
		}
		return name, nil
	}

	path := filepath.Join(e.outputDir, name+".png")
	if err := writePNG(path, img, e.level); err != nil {
		return "", err
	}
	return path, nil
}

// parseSizes parses a comma-separated size list like "256,512,1024".
// Duplicates are dropped.
func parseSizes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	seen := make(map[int]bool)

	for i, part := range parts {
		val, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid size at position %d: %w", i, err)
		}
		if val <= 0 {
			return nil, fmt.Errorf("size at position %d must be positive, got %d", i, val)
		}
		if val > maxExportSize {
			return nil, fmt.Errorf("size at position %d exceeds maximum %d", i, maxExportSize)
		}
		if !seen[val] {
			seen[val] = true
			sizes = append(sizes, val)
		}
	}

	return sizes, nil
}
