package genimg

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
)

// Config selects the endpoint and model for OpenAI-compatible image
// generation. Zero values fall back to the official endpoint with
// DALL·E 3 at 1024x1024.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Size    string
}

// OpenAI generates bitmaps through an OpenAI-compatible images API.
type OpenAI struct {
	client *openai.Client
	model  string
	size   string
	logger *slog.Logger
}

// NewOpenAI creates a provider from the given config. The API key is
// required; everything else has usable defaults.
func NewOpenAI(cfg Config, logger *slog.Logger) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	size := cfg.Size
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(cc),
		model:  model,
		size:   size,
		logger: logger,
	}, nil
}

// Generate requests one image for the prompt and decodes it.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (image.Image, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	o.log().Info("Requesting image generation", "model", o.model, "size", o.size)

	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          o.model,
		N:              1,
		Size:           o.size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoImageData
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image data: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}

	o.log().Info("Image generated", "bounds", img.Bounds())
	return img, nil
}

func (o *OpenAI) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

// Register stores a generated bitmap under a fresh opaque key and returns
// the key for use as a layer's image source.
func Register(reg Registry, img image.Image) string {
	key := "ai:" + uuid.NewString()
	reg.Add(key, img)
	return key
}
