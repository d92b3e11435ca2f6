package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Drbrilliant360/courier-insight-ai/internal/audit"
	"github.com/Drbrilliant360/courier-insight-ai/internal/config"
	"github.com/Drbrilliant360/courier-insight-ai/internal/handlers"
	"github.com/Drbrilliant360/courier-insight-ai/internal/ingest"
	"github.com/Drbrilliant360/courier-insight-ai/internal/middleware"
	"github.com/Drbrilliant360/courier-insight-ai/internal/store"
)

// NewRouter wires the HTTP surface. The ingest service is passed in (rather
// than built here) so the caller can wait out background jobs on shutdown.
func NewRouter(cfg config.Config, st *store.Store, ingestor *ingest.Service, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(cfg.Env))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.LimitBodyBytes(cfg.APIMaxBodyBytes))

	auditLogger := audit.NewLogger(st)
	h := handlers.NewServer(cfg, st, ingestor, auditLogger, logger)
	authMW := middleware.AuthMiddleware{Tokens: st}

	api := chi.NewRouter()
	api.Group(func(public chi.Router) {
		public.Get("/health", h.GetHealth)
	})

	api.Group(func(protected chi.Router) {
		protected.Use(authMW.RequireAuth)
		protected.Post("/ingestions", h.PostIngestions)
		protected.Get("/ingestions/{jobId}", h.GetIngestionJob)
		protected.Get("/couriers", h.GetCouriers)
		protected.Get("/orders", h.GetOrders)
		protected.Get("/stats", h.GetStats)
	})

	r.Mount("/api", api)
	return r
}
