// Package server serves the drawing page and the JSON API.
//
// Routes:
//
//	GET  /                     drawing page
//	GET  /s/{id}               drawing page prefilled with a snippet
//	POST /api/parse            graph text -> graph JSON and D3 data
//	POST /api/render?format=   graph text -> artifact bytes
//	POST /api/snippets         store graph text, returns its id
//	GET  /api/snippets/{id}    stored snippet
//	GET  /healthz              liveness
//	GET  /metrics              Prometheus metrics
//
// Parse failures are answered with 422 and the error code, so a client can
// show "Error: " + message exactly like the CLI does.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/metrics"
	"github.com/matzehuels/graphtext/pkg/pipeline"
	"github.com/matzehuels/graphtext/pkg/snippet"
	"github.com/matzehuels/graphtext/internal/server/ui"
)

// Defaults for zero Options fields.
const (
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	// Defaults supplies engine, canvas size and formats for requests that
	// leave them out.
	Defaults pipeline.Options

	Runner *pipeline.Runner
	Store  snippet.Store
	Logger *log.Logger
}

// Server holds the router and its dependencies.
type Server struct {
	opts     Options
	runner   *pipeline.Runner
	store    snippet.Store
	logger   *log.Logger
	validate *validator.Validate
	router   chi.Router
}

// New builds a Server. Nil Runner, Store and Logger get in-memory defaults.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = apperrors.MaxTextBytes
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = snippet.NewMemoryStore(0)
	}
	if opts.Defaults.Logger == nil {
		opts.Defaults.Logger = opts.Logger
	}
	opts.Defaults.SetDefaults()

	s := &Server{
		opts:     opts,
		runner:   opts.Runner,
		store:    opts.Store,
		logger:   opts.Logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	// Recoverer sits inside the logger so recovered panics are logged as 500.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", ui.StaticHandler()))

	r.Get("/", s.handleIndex)
	r.Get("/s/{id}", s.handleSnippetPage)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/parse", s.handleParse)
		r.Post("/render", s.handleRender)
		r.Post("/snippets", s.handleCreateSnippet)
		r.Get("/snippets/{id}", s.handleGetSnippet)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, waiting up to ShutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: s.opts.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
