// Package server exposes the arrange and plan pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness probe
//	POST /v1/arrange     arrange a model and return it with new positions
//	POST /v1/plan        plan waypoint paths, committing unless dry_run is set
//	POST /v1/segments    list declared segments
//	GET  /metrics        Prometheus metrics, when a handler is configured
//
// Request bodies carry the model in the model file format under "model".
// Errors are returned as {"error": {"code": ..., "message": ...}}.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stationflow/pkg/arrange"
	"github.com/matzehuels/stationflow/pkg/model"
	"github.com/matzehuels/stationflow/pkg/observability"
	"github.com/matzehuels/stationflow/pkg/pipeline"
)

// DefaultMaxBodyBytes limits request bodies.
const DefaultMaxBodyBytes = 10 << 20

// Options configures a Server.
type Options struct {
	// Layout and Start are the arranger defaults for requests that do not
	// set them.
	Layout arrange.Options
	Start  model.Point

	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	MaxBodyBytes int64
}

// Server handles API requests.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{runner: runner, logger: logger, opts: opts}
}

// Handler returns the router with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/arrange", s.arrange)
		r.Post("/plan", s.plan)
		r.Post("/segments", s.segments)
	})
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := routeLabel(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Info("request",
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"id", middleware.GetReqID(r.Context()))
	})
}

// unmatchedRoute labels requests no route matched. Raw paths are never
// used as labels so scans cannot grow the metric series.
const unmatchedRoute = "unmatched"

func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return unmatchedRoute
}
