package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/AdamBeresnev/knockout-fixture/internal/config"
	"github.com/AdamBeresnev/knockout-fixture/internal/httputil"
	"github.com/AdamBeresnev/knockout-fixture/internal/metrics"
	"github.com/AdamBeresnev/knockout-fixture/internal/middleware"
	"github.com/AdamBeresnev/knockout-fixture/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"
)

type server struct {
	cfg      config.Config
	fixtures *service.FixtureService
	metrics  *metrics.Metrics
	limiter  *middleware.RateLimiter
	version  string
	now      func() time.Time
}

func newServer(cfg config.Config, logger *slog.Logger, m *metrics.Metrics, version string) *server {
	return &server{
		cfg:      cfg,
		fixtures: service.NewFixtureService(logger, m, cfg.MaxParticipants),
		metrics:  m,
		limiter: middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		}),
		version: version,
		now:     time.Now,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics(s.metrics))
	r.Use(compress)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.NotFound(w, "Not found - "+r.URL.Path, nil)
	})
	r.MethodNotAllowed(httputil.MethodNotAllowed)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Handler)
		r.Use(chimiddleware.RequestSize(s.cfg.MaxBodyBytes))

		r.Get("/api", s.handleAPIDocs)
		r.Post("/api/tournaments", s.handleCreateTournament)
		r.Post("/api/tournaments/quick-pdf", s.handleQuickPDF)

		r.Get("/", s.handleForm)
		r.Post("/tournaments", s.handleFormSubmit)
	})

	return r
}

// compress gzips responses for clients that accept it.
func compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
