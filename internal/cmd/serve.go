package cmd

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/MeKo-Tech/texforge/internal/imagesource"
	"github.com/MeKo-Tech/texforge/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve texture previews over HTTP (rendering on-demand)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("projects-dir", "", "Directory containing project files (defaults to --output-dir)")
	serveCmd.Flags().String("library", "", "Texture library to serve pre-rendered textures from")

	serveCmd.Flags().Bool("disable-cache", false, "Always re-render textures instead of caching them in memory")
	serveCmd.Flags().Int("max-size", 2048, "Maximum texture size accepted via ?size=")
	serveCmd.Flags().Int("max-concurrent-renders", runtime.NumCPU(), "Max concurrent renders (default: number of CPUs)")
	serveCmd.Flags().Duration("render-timeout", time.Minute, "Timeout per texture render")
	serveCmd.Flags().String("cache-control", "no-store", "Cache-Control header for served textures")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("serve.addr", "addr")
	mustBind("serve.projects_dir", "projects-dir")
	mustBind("serve.library", "library")
	mustBind("serve.disable_cache", "disable-cache")
	mustBind("serve.max_size", "max-size")
	mustBind("serve.max_concurrent_renders", "max-concurrent-renders")
	mustBind("serve.render_timeout", "render-timeout")
	mustBind("serve.cache_control", "cache-control")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")
	projectsDir := viper.GetString("serve.projects_dir")
	if projectsDir == "" {
		projectsDir = viper.GetString("output-dir")
	}
	libraryPath := viper.GetString("serve.library")
	disableCache := viper.GetBool("serve.disable_cache")
	maxSize := viper.GetInt("serve.max_size")
	maxConc := viper.GetInt("serve.max_concurrent_renders")
	renderTimeout := viper.GetDuration("serve.render_timeout")
	cacheControl := viper.GetString("serve.cache_control")
	imagesDir := viper.GetString("images-dir")

	images := imagesource.NewStore(imagesDir, logger)

	srv, err := server.New(server.Config{
		ProjectsDir:          projectsDir,
		LibraryPath:          libraryPath,
		CacheControl:         cacheControl,
		MaxSize:              maxSize,
		MaxConcurrentRenders: maxConc,
		RenderTimeout:        renderTimeout,
		DisableCache:         disableCache,
	}, images, logger)
	if err != nil {
		return err
	}
	defer srv.Stop()

	mux := srv.Routes()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/textures", http.StatusFound)
	})

	logger.Info("preview server listening",
		"addr", addr,
		"projects_dir", projectsDir,
		"library", libraryPath,
		"max_concurrent_renders", maxConc,
	)

	httpSrv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return httpSrv.ListenAndServe()
}
