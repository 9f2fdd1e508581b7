// Package server implements the HTTP drop zone of `lottieframes serve`.
//
// Browsers create a workspace, upload Lottie files into it, poll the file
// list while frames render, preview individual frames and finally download
// every frame as one ZIP archive. All state lives in a [session.Store].
package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/lottieframes/pkg/session"
)

//go:embed static
var staticFiles embed.FS

// DefaultMaxUploadBytes bounds one upload request.
const DefaultMaxUploadBytes = 64 << 20

// Config configures the server.
type Config struct {
	Store  session.Store
	Logger *log.Logger

	// MaxUploadBytes bounds the body of one upload. Default: DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

// Server serves the drop-zone page and its API.
type Server struct {
	store     session.Store
	logger    *log.Logger
	maxUpload int64
	router    chi.Router
}

// New creates a server. cfg.Store is required.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Server{
		store:     cfg.Store,
		logger:    cfg.Logger,
		maxUpload: cfg.MaxUploadBytes,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	static, _ := fs.Sub(staticFiles, "static")
	r.Get("/", serveIndex(static))
	r.Get("/healthz", s.handleHealth)

	r.Route("/api/workspaces", func(r chi.Router) {
		r.Post("/", s.handleCreateWorkspace)
		r.Route("/{workspaceID}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteWorkspace)
			r.Post("/files", s.handleUpload)
			r.Get("/files", s.handleListFiles)
			r.Get("/files/{fileID}/frames/{frame}", s.handleFrame)
			r.Get("/export.zip", s.handleExport)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		// Export waits for pending renders before writing.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func serveIndex(static fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(static, "index.html")
		if err != nil {
			http.Error(w, "index not found", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	}
}

// requestLogger logs one line per request with the structured logger.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
