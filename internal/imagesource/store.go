package imagesource

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
)

// Key prefixes. A bare key only ever resolves to an explicitly registered
// bitmap; prefixed keys can be materialized on demand.
const (
	filePrefix    = "file:"
	builtinPrefix = "builtin:"
)

// Store holds decoded bitmaps keyed by opaque content key. Image layers
// reference their bitmap through such a key; the render pipeline never
// decodes anything itself. Keys with a "file:" prefix load lazily from
// disk, "builtin:" keys synthesize their bitmap on first use, and
// anything else must be registered through Add (uploads, generated
// images). A Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	images  map[string]image.Image
	baseDir string
	logger  *slog.Logger
}

// NewStore creates an empty store. Relative "file:" keys resolve against
// baseDir; logger may be nil to use the default.
func NewStore(baseDir string, logger *slog.Logger) *Store {
	return &Store{
		images:  make(map[string]image.Image),
		baseDir: baseDir,
		logger:  logger,
	}
}

// Add registers a decoded bitmap under the given key, replacing any
// previous entry.
func (s *Store) Add(key string, img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[key] = img
}

// Resolve returns the bitmap for key. It reports false while the key is
// unknown or its source cannot be produced yet; a later call retries, so
// a render issued before an upload or generation finished heals on the
// next pass.
func (s *Store) Resolve(key string) (image.Image, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	img, ok := s.images[key]
	s.mu.RUnlock()
	if ok {
		return img, true
	}

	img, err := s.materialize(key)
	if err != nil {
		s.log().Debug("Image key not resolvable", "key", key, "error", err)
		return nil, false
	}
	if img == nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent Resolve may have stored the key in the meantime; the
	// decoded content is identical either way.
	if cached, ok := s.images[key]; ok {
		return cached, true
	}
	s.images[key] = img
	return img, true
}

// materialize produces the bitmap for a prefixed key, or nil when the key
// carries no prefix the store knows how to produce.
func (s *Store) materialize(key string) (image.Image, error) {
	switch {
	case strings.HasPrefix(key, filePrefix):
		return s.loadFile(strings.TrimPrefix(key, filePrefix))
	case strings.HasPrefix(key, builtinPrefix):
		return builtinImage(strings.TrimPrefix(key, builtinPrefix))
	}
	return nil, fmt.Errorf("no registered image for key %q", key)
}

func (s *Store) loadFile(path string) (image.Image, error) {
	if !filepath.IsAbs(path) && s.baseDir != "" {
		path = filepath.Join(s.baseDir, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

func (s *Store) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
