// Package api serves timelines over HTTP.
//
// The server holds a read-only snapshot of one dataset and answers layout,
// render and person queries from it. Every request goes through the same
// pipeline Runner as the CLI, so responses are cached by content hash and an
// SVG served here is byte-identical to `chronoline render` output for the same
// options.
//
// # Routes
//
//	GET  /healthz                 liveness and dataset size
//	GET  /api/layout              layout JSON, options from the query string
//	POST /api/layout              layout JSON, options from a JSON body
//	GET  /api/timeline.{format}   rendered timeline (svg, png, pdf, json, txt)
//	GET  /api/persons             persons, filtered by category and country
//	GET  /api/persons/{id}        a single person
//	POST /api/reload              re-read the dataset source
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chronoline/pkg/dataset"
	"github.com/matzehuels/chronoline/pkg/observability"
	"github.com/matzehuels/chronoline/pkg/pipeline"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 1 << 20

// DatasetSource supplies the dataset a Server serves. It is read once at
// startup and again on every reload.
type DatasetSource interface {
	Dataset(ctx context.Context) (*dataset.Dataset, error)
}

// Config configures a Server.
type Config struct {
	// Source supplies the dataset; Name labels it in /healthz.
	Source DatasetSource
	Name   string

	// Runner computes and caches layouts and renders. A runner without a
	// cache is used when nil.
	Runner *pipeline.Runner

	// Defaults are the options a request starts from before its own
	// parameters are applied.
	Defaults pipeline.Options

	Logger *log.Logger
}

// Server is the HTTP API. It is safe for concurrent use.
type Server struct {
	source   DatasetSource
	name     string
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger

	snapshot atomic.Pointer[dataset.Dataset]
	loadedAt atomic.Int64
}

// New creates a server and loads the first dataset snapshot.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("api: missing dataset source")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}

	s := &Server{
		source:   cfg.Source,
		name:     cfg.Name,
		runner:   cfg.Runner,
		defaults: cfg.Defaults,
		logger:   cfg.Logger,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the dataset snapshot with a fresh read of the source.
// Requests in flight keep the snapshot they started with.
func (s *Server) Reload(ctx context.Context) error {
	d, err := s.source.Dataset(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	s.snapshot.Store(d)
	s.loadedAt.Store(time.Now().Unix())
	s.logger.Info("dataset loaded", "source", s.name, "persons", len(d.Persons))
	return nil
}

// Dataset returns the current snapshot.
func (s *Server) Dataset() *dataset.Dataset {
	return s.snapshot.Load()
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withHooks)
	r.Use(withSecurityHeaders)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Post("/layout", s.handleLayoutPost)
		r.Get("/timeline.{format}", s.handleTimeline)
		r.Get("/persons", s.handlePersons)
		r.Get("/persons/{id}", s.handlePerson)
		r.Post("/reload", s.handleReload)
	})
	return r
}

// =============================================================================
// Middleware
// =============================================================================

// withHooks reports every request to the registered HTTP hooks, labelled by
// route pattern rather than raw path.
func withHooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		start := time.Now()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		// Rendered SVGs carry their hover rules in an inline <style>.
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}
