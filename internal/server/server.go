// Package server exposes the moodboard pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                      liveness and build version
//	GET  /api/fonts/stylesheet         stylesheet URL and link tag for a font pair
//	POST /api/moodboards               generate a moodboard from {vibe_text, tags}
//	POST /api/moodboards/export        render a moodboard and download it as PDF
//	POST /api/generate-moodboard       fixed fallback board (offline mode only)
//
// Every request gets its own pipeline controller; the cache and HTTP
// client are shared.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/moodmagic/moodmagic/pkg/cache"
	"github.com/moodmagic/moodmagic/pkg/generate"
	"github.com/moodmagic/moodmagic/pkg/httputil"
	"github.com/moodmagic/moodmagic/pkg/moodboard"
	"github.com/moodmagic/moodmagic/pkg/pipeline"
)

const (
	maxBodySize     = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithOffline serves the fixed fallback board instead of calling the
// generation backend.
func WithOffline(offline bool) Option {
	return func(s *Server) { s.offline = offline }
}

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server is the HTTP front end.
type Server struct {
	base    pipeline.Config
	offline bool
	logger  *log.Logger
	router  chi.Router
}

// New creates a server whose per-request pipelines are built from base.
func New(base pipeline.Config, opts ...Option) *Server {
	s := &Server{
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if base.Cache == nil {
		base.Cache = cache.NewNullCache()
	}
	if base.HTTP == nil {
		base.HTTP = httputil.NewClient(base.Cache)
	}
	if base.Logger == nil {
		base.Logger = s.logger
	}
	if s.offline && base.Generator == nil {
		base.Generator = fallbackGenerator{}
	}
	s.base = base
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/fonts/stylesheet", s.stylesheet)

		r.Route("/moodboards", func(r chi.Router) {
			r.Post("/", s.generateBoard)
			r.Post("/export", s.exportBoard)
		})

		if s.offline {
			r.Post("/generate-moodboard", s.fallbackBoard)
		}
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
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "offline", s.offline)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Server) controller() *pipeline.Controller {
	return pipeline.New(s.base)
}

type fallbackGenerator struct{}

func (fallbackGenerator) Generate(_ context.Context, req generate.Request) (moodboard.Moodboard, error) {
	mb, err := moodboard.FromWire(generate.Fallback(req))
	if err != nil {
		return moodboard.Moodboard{}, err
	}
	mb.CreatedAt = time.Now().UTC()
	return mb, nil
}

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
