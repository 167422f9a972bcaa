// Package server implements the mutdom web service.
//
// Routes:
//
//	GET  /                           upload form
//	POST /                           upload form submission, HTML result
//	POST /analyze                    JSON API (multipart csv_file or text/csv body)
//	GET  /artifacts/{id}.{format}    rendered output of a previous analysis
//	GET  /health                     liveness
//	GET  /metrics                    Prometheus metrics
//
// Nothing is persisted: analysis results live in the cache until their TTL
// expires.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/mutdom/pkg/cache"
	"github.com/matzehuels/mutdom/pkg/pipeline"
)

// Defaults for Config.
const (
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 10 << 20
	DefaultResultTTL      = cache.TTLResult
	shutdownTimeout       = 10 * time.Second
)

// DefaultFormats are rendered for every analysis.
var DefaultFormats = []string{pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatDOT}

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"join":    strings.Join,
	"percent": func(f float64) float64 { return f * 100 },
}).ParseFS(templateFS, "templates/index.html"))

// Config configures the web service.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	ResultTTL      time.Duration

	// Formats rendered per analysis. PNG and PDF need rsvg-convert on the
	// server.
	Formats []string

	// Defaults holds the analysis ceilings and default display options.
	// Per-request form values override the display options.
	Defaults pipeline.Options

	// Metrics serves /metrics. Defaults to the Prometheus default gatherer.
	Metrics http.Handler
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.ResultTTL <= 0 {
		c.ResultTTL = DefaultResultTTL
	}
	if len(c.Formats) == 0 {
		c.Formats = DefaultFormats
	}
	if c.Metrics == nil {
		c.Metrics = promhttp.Handler()
	}
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	logger  *log.Logger
	router  chi.Router
	started time.Time
}

// New creates a server that runs analyses with runner and stores results in
// the runner's cache.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) (*Server, error) {
	cfg.setDefaults()
	if err := pipeline.ValidateFormats(cfg.Formats); err != nil {
		return nil, err
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = runner.Logger
	}

	s := &Server{
		cfg:     cfg,
		runner:  runner,
		logger:  logger,
		started: time.Now(),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleForm)
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/artifacts/{id}.{format}", s.handleArtifact)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Formats returns the formats rendered for each analysis.
func (s *Server) Formats() []string {
	return append([]string(nil), s.cfg.Formats...)
}

// ListenAndServe serves on the configured address until ctx is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
