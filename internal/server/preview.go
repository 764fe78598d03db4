// Package server provides the texture preview HTTP server with on-demand
// rendering, a 3x3 tiled seam-inspection view, and library-backed serving.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MeKo-Tech/texforge/internal/library"
	"github.com/MeKo-Tech/texforge/internal/project"
	"github.com/MeKo-Tech/texforge/internal/render"
)

// ErrUnknownTexture is returned when a requested name matches no project
// file, preset, or library entry.
var ErrUnknownTexture = errors.New("unknown texture")

// tiledRepeats is the grid dimension of the tiled seam-inspection view.
const tiledRepeats = 3

// Config configures the preview server.
type Config struct {
	ProjectsDir          string // directory of project JSON files, may be empty
	LibraryPath          string // optional texture library database
	CacheControl         string
	MaxSize              int // upper bound for the ?size= override
	MaxConcurrentRenders int
	RenderTimeout        time.Duration
	DisableCache         bool
}

// Server renders textures on demand and serves them as PNG.
type Server struct {
	images  render.ImageSource
	library *library.Reader
	logger  *slog.Logger
	sem     chan struct{}
	locks   sync.Map
	cache   sync.Map // render key -> encoded PNG
	cfg     Config

	// Status tracking for renders
	activeRenders   atomic.Int32
	totalRendered   atomic.Int64
	totalFailed     atomic.Int64
	currentTextures sync.Map // map[string]time.Time - render key -> start time
}

// Status represents the current state of the preview server.
type Status struct {
	Render RenderStatus `json:"render"`
	Cache  CacheStatus  `json:"cache"`
}

// RenderStatus contains current render operation status.
type RenderStatus struct {
	ActiveRenders   int      `json:"active_renders"`
	TotalRendered   int64    `json:"total_rendered"`
	TotalFailed     int64    `json:"total_failed"`
	CurrentTextures []string `json:"current_textures"`
	MaxConcurrent   int      `json:"max_concurrent"`
}

// CacheStatus contains render cache status.
type CacheStatus struct {
	Entries int  `json:"entries"`
	Enabled bool `json:"enabled"`
}

// TextureInfo identifies one servable texture and where it comes from.
type TextureInfo struct {
	Name   string `json:"name"`
	Source string `json:"source"` // "project", "preset", or "library"
}

// New creates a new preview server. When cfg.LibraryPath is set, the library
// is opened read-only and stored PNGs are served directly when they match
// the requested size.
func New(cfg Config, images render.ImageSource, logger *slog.Logger) (*Server, error) {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 2048
	}
	if cfg.MaxConcurrentRenders <= 0 {
		cfg.MaxConcurrentRenders = 2
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = time.Minute
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}

	var reader *library.Reader
	if cfg.LibraryPath != "" {
		r, err := library.OpenReader(cfg.LibraryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open library: %w", err)
		}
		reader = r
	}

	return &Server{
		images:  images,
		library: reader,
		logger:  logger,
		cfg:     cfg,
		sem:     make(chan struct{}, cfg.MaxConcurrentRenders),
	}, nil
}

// Stop releases server resources.
func (s *Server) Stop() {
	if s.library != nil {
		s.library.Close()
	}
}

// Routes returns a mux with all preview endpoints registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/texture/", s.Handler())
	mux.Handle("/textures", s.ListHandler())
	mux.Handle("/status", s.StatusHandler())
	return mux
}

// Handler returns the HTTP handler for texture requests.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.serveTexture)
}

// Status returns the current state of the preview server.
func (s *Server) Status() Status {
	var current []string
	s.currentTextures.Range(func(key, _ any) bool {
		current = append(current, key.(string))
		return true
	})

	entries := 0
	s.cache.Range(func(_, _ any) bool {
		entries++
		return true
	})

	return Status{
		Render: RenderStatus{
			ActiveRenders:   int(s.activeRenders.Load()),
			TotalRendered:   s.totalRendered.Load(),
			TotalFailed:     s.totalFailed.Load(),
			CurrentTextures: current,
			MaxConcurrent:   s.cfg.MaxConcurrentRenders,
		},
		Cache: CacheStatus{
			Entries: entries,
			Enabled: !s.cfg.DisableCache,
		},
	}
}

// StatusHandler returns an HTTP handler for the status endpoint (JSON).
func (s *Server) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Cache-Control", "no-store")

		if err := json.NewEncoder(w).Encode(s.Status()); err != nil {
			s.log().Error("failed to encode status", "error", err)
			http.Error(w, "failed to encode status", http.StatusInternalServerError)
			return
		}
	})
}

// ListHandler returns an HTTP handler listing every servable texture:
// project files, built-in presets, and library entries.
func (s *Server) ListHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Cache-Control", "no-store")

		textures, err := s.listTextures()
		if err != nil {
			s.log().Error("failed to list textures", "error", err)
			http.Error(w, "failed to list textures", http.StatusInternalServerError)
			return
		}

		if err := json.NewEncoder(w).Encode(map[string][]TextureInfo{"textures": textures}); err != nil {
			s.log().Error("failed to encode texture list", "error", err)
			http.Error(w, "failed to encode texture list", http.StatusInternalServerError)
			return
		}
	})
}

func (s *Server) listTextures() ([]TextureInfo, error) {
	var textures []TextureInfo
	seen := make(map[string]bool)

	if s.cfg.ProjectsDir != "" {
		entries, err := os.ReadDir(s.cfg.ProjectsDir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read projects dir: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".json")
			if !seen[name] {
				seen[name] = true
				textures = append(textures, TextureInfo{Name: name, Source: "project"})
			}
		}
	}

	for _, name := range project.PresetNames() {
		if !seen[name] {
			seen[name] = true
			textures = append(textures, TextureInfo{Name: name, Source: "preset"})
		}
	}

	if s.library != nil {
		summaries, err := s.library.List()
		if err != nil {
			return nil, fmt.Errorf("failed to list library: %w", err)
		}
		for _, summary := range summaries {
			if !seen[summary.Name] {
				seen[summary.Name] = true
				textures = append(textures, TextureInfo{Name: summary.Name, Source: "library"})
			}
		}
	}

	return textures, nil
}

func (s *Server) serveTexture(w http.ResponseWriter, r *http.Request) {
	// Allow browser-based previews to request textures directly.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	name, tiled, ok := parseTexturePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	size, err := sizeFromQuery(r, s.cfg.MaxSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Cache-Control", s.cfg.CacheControl)

	renderKey := fmt.Sprintf("%s_%d", name, size)
	if tiled {
		renderKey += "_tiled"
	}

	if !s.cfg.DisableCache {
		if data, ok := s.cache.Load(renderKey); ok {
			servePNG(w, data.([]byte))
			return
		}
	}

	mu := s.getLock(renderKey)
	mu.Lock()
	defer mu.Unlock()

	if !s.cfg.DisableCache {
		if data, ok := s.cache.Load(renderKey); ok {
			servePNG(w, data.([]byte))
			return
		}
	}

	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-r.Context().Done():
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	s.activeRenders.Add(1)
	s.currentTextures.Store(renderKey, time.Now())

	start := time.Now()
	data, err := s.renderTexture(ctx, name, size, tiled)

	s.activeRenders.Add(-1)
	s.currentTextures.Delete(renderKey)

	if err != nil {
		if errors.Is(err, ErrUnknownTexture) {
			http.Error(w, fmt.Sprintf("texture not found: %s", name), http.StatusNotFound)
			return
		}
		s.totalFailed.Add(1)
		s.log().Error("failed to render texture", "name", name, "size", size, "tiled", tiled, "error", err)
		http.Error(w, fmt.Sprintf("failed to render texture %s: %v", name, err), http.StatusInternalServerError)
		return
	}
	s.totalRendered.Add(1)
	s.log().Info("texture rendered on-demand", "name", name, "size", size, "tiled", tiled, "ms", time.Since(start).Milliseconds())

	if !s.cfg.DisableCache {
		s.cache.Store(renderKey, data)
	}

	servePNG(w, data)
}

// renderTexture produces the encoded PNG for one request. A size of zero
// means the project's own size.
func (s *Server) renderTexture(ctx context.Context, name string, size int, tiled bool) ([]byte, error) {
	proj, stored, err := s.lookupTexture(name, size, tiled)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}

	if size <= 0 {
		size = proj.Size
	}

	// The render itself is atomic, so cancellation is only honored before
	// it starts.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderer := render.NewRenderer(s.images, s.logger)
	img, err := renderer.Render(proj.Layers, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render texture %q: %w", name, err)
	}

	if tiled {
		img = render.Repeat(img, tiledRepeats)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode texture %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// lookupTexture resolves a name to a project, or to pre-encoded PNG bytes
// when the library already holds the texture at the requested size.
// Resolution order: project file, preset, library entry.
func (s *Server) lookupTexture(name string, size int, tiled bool) (*project.Project, []byte, error) {
	if s.cfg.ProjectsDir != "" {
		path := filepath.Join(s.cfg.ProjectsDir, name+".json")
		if fileExists(path) {
			proj, err := project.Load(path)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to load project %q: %w", name, err)
			}
			return proj, nil, nil
		}
	}

	if proj, err := project.NewPreset(name); err == nil {
		return proj, nil, nil
	}

	if s.library != nil {
		entry, err := s.library.ReadTexture(name)
		switch {
		case err == nil:
			if !tiled && (size <= 0 || size == entry.Size) {
				return nil, entry.PNG, nil
			}
			proj, perr := project.FromJSON(entry.Project)
			if perr != nil {
				return nil, nil, fmt.Errorf("failed to parse stored project %q: %w", name, perr)
			}
			return proj, nil, nil
		case !errors.Is(err, library.ErrNotFound):
			return nil, nil, err
		}
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTexture, name)
}

func (s *Server) getLock(key string) *sync.Mutex {
	if v, ok := s.locks.Load(key); ok {
		return v.(*sync.Mutex)
	}
	mu := &sync.Mutex{}
	actual, _ := s.locks.LoadOrStore(key, mu)
	return actual.(*sync.Mutex)
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func servePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(data); err != nil {
		slog.Default().Debug("failed to write response", "error", err)
	}
}

// parseTexturePath parses /texture/{name}.png and /texture/{name}/tiled.png.
func parseTexturePath(requestPath string) (name string, tiled bool, ok bool) {
	rest, found := strings.CutPrefix(requestPath, "/texture/")
	if !found {
		return "", false, false
	}

	switch {
	case strings.HasSuffix(rest, "/tiled.png"):
		name = strings.TrimSuffix(rest, "/tiled.png")
		tiled = true
	case strings.HasSuffix(rest, ".png"):
		name = strings.TrimSuffix(rest, ".png")
	default:
		return "", false, false
	}

	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return "", false, false
	}
	return name, tiled, true
}

// sizeFromQuery reads the ?size= override. Zero means the project's own size.
func sizeFromQuery(r *http.Request, maxSize int) (int, error) {
	q := r.URL.Query().Get("size")
	if q == "" {
		return 0, nil
	}
	size, err := strconv.Atoi(q)
	if err != nil || size <= 0 {
		return 0, fmt.Errorf("invalid size %q", q)
	}
	if size > maxSize {
		return 0, fmt.Errorf("size %d exceeds maximum %d", size, maxSize)
	}
	return size, nil
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	if err != nil {
		return false
	}
	return !st.IsDir()
}
