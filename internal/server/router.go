package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/DhanaAnjana/DocuMind/internal/api"
	"github.com/DhanaAnjana/DocuMind/internal/api/handlers"
	"github.com/DhanaAnjana/DocuMind/internal/api/middleware"
	"github.com/DhanaAnjana/DocuMind/internal/metrics"
)

const defaultMaxBodyBytes int64 = 50 * 1024 * 1024

type RouterConfig struct {
	Logger          *zap.Logger
	MaxBodyBytes    int64
	DocumentHandler *handlers.DocumentHandler
	QueryHandler    *handlers.QueryHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog(log))
	r.Use(metrics.Middleware())
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", cfg.DocumentHandler.Upload)
		r.Get("/", cfg.DocumentHandler.List)
		r.Get("/{id}", cfg.DocumentHandler.Get)
	})

	r.Route("/query", func(r chi.Router) {
		r.Post("/", cfg.QueryHandler.Query)
	})

	return r
}
