// Package genimg turns text prompts into bitmaps for image-backed
// layers. The pipeline itself never calls out here; callers run a
// provider, register the result under a content key and reference that
// key from a layer.
package genimg

import (
	"context"
	"errors"
	"image"
)

// Sentinel errors for common failure conditions, checked with errors.Is.
var (
	// ErrNoAPIKey indicates no API key was configured for the provider.
	ErrNoAPIKey = errors.New("no API key configured")

	// ErrEmptyPrompt indicates the prompt was empty or whitespace.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrNoImageData indicates the provider answered without any image,
	// typically after a content-policy refusal.
	ErrNoImageData = errors.New("no image data in response")
)

// Provider produces one bitmap for a text prompt, or fails with a
// descriptive error. Failures are not retried here; retry policy belongs
// to the caller.
type Provider interface {
	Generate(ctx context.Context, prompt string) (image.Image, error)
}

// Registry is the slice of the image store a generated bitmap lands in.
type Registry interface {
	Add(key string, img image.Image)
}
