package cmd

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/texforge/internal/genimg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var genImageCmd = &cobra.Command{
	Use:   "generate-image [prompt...]",
	Short: "Generate a source bitmap from a text prompt",
	Long: `Generate a source bitmap through an OpenAI-compatible images API.

The result is written as PNG into the images directory, where image layers
can pick it up by file name. The API key comes from --api-key or the
OPENAI_API_KEY environment variable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenImage,
}

func init() {
	rootCmd.AddCommand(genImageCmd)

	genImageCmd.Flags().String("api-key", "", "API key (defaults to OPENAI_API_KEY)")
	genImageCmd.Flags().String("model", "", "Image model to request (default: provider default)")
	genImageCmd.Flags().String("image-size", "1024x1024", "Requested image size")
	genImageCmd.Flags().String("base-url", "", "Alternative API base URL for compatible providers")
	genImageCmd.Flags().StringP("out", "o", "", "Output PNG path (default: <images-dir>/generated.png)")
	genImageCmd.Flags().Duration("timeout", 2*time.Minute, "Timeout for the API request")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"generate_image.api_key", "api-key"},
		{"generate_image.model", "model"},
		{"generate_image.image_size", "image-size"},
		{"generate_image.base_url", "base-url"},
		{"generate_image.out", "out"},
		{"generate_image.timeout", "timeout"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, genImageCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runGenImage(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	prompt := strings.Join(args, " ")

	apiKey := viper.GetString("generate_image.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	provider, err := genimg.NewOpenAI(genimg.Config{
		APIKey:  apiKey,
		BaseURL: viper.GetString("generate_image.base_url"),
		Model:   viper.GetString("generate_image.model"),
		Size:    viper.GetString("generate_image.image_size"),
	}, logger)
	if err != nil {
		return err
	}

	timeout := viper.GetDuration("generate_image.timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Generating image", "prompt", prompt)

	img, err := provider.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("image generation failed: %w", err)
	}

	outPath := viper.GetString("generate_image.out")
	if outPath == "" {
		imagesDir := viper.GetString("images-dir")
		if imagesDir == "" {
			imagesDir = "."
		}
		outPath = filepath.Join(imagesDir, "generated.png")
	}

	if err := writePNG(outPath, img, png.DefaultCompression); err != nil {
		return err
	}

	logger.Info("Image written", "path", outPath)
	return nil
}
