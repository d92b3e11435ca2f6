package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Drbrilliant360/courier-insight-ai/internal/audit"
	"github.com/Drbrilliant360/courier-insight-ai/internal/config"
	"github.com/Drbrilliant360/courier-insight-ai/internal/httpx"
	"github.com/Drbrilliant360/courier-insight-ai/internal/ingest"
	"github.com/Drbrilliant360/courier-insight-ai/internal/store"
)

// Ingestor is the ingestion service surface the HTTP layer drives.
type Ingestor interface {
	Ingest(ctx context.Context, req ingest.Request) (ingest.Summary, error)
}

// ReadStore covers the queries the dashboard read endpoints run.
type ReadStore interface {
	GetIngestionJob(ctx context.Context, id uuid.UUID) (store.IngestionJob, error)
	ListCouriersByRating(ctx context.Context, limit int32) ([]store.Courier, error)
	ListRecentOrders(ctx context.Context, limit int32) ([]store.Order, error)
	GetDashboardStats(ctx context.Context) (store.DashboardStats, error)
}

type Server struct {
	Config config.Config
	Store  ReadStore
	Ingest Ingestor
	Audit  *audit.Logger
	Logger *slog.Logger
}

func NewServer(cfg config.Config, readStore ReadStore, ingestor Ingestor, auditLogger *audit.Logger, logger *slog.Logger) *Server {
	return &Server{Config: cfg, Store: readStore, Ingest: ingestor, Audit: auditLogger, Logger: logger}
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
