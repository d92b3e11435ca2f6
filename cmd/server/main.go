package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Drbrilliant360/courier-insight-ai/internal/app"
	"github.com/Drbrilliant360/courier-insight-ai/internal/audit"
	"github.com/Drbrilliant360/courier-insight-ai/internal/config"
	"github.com/Drbrilliant360/courier-insight-ai/internal/db"
	"github.com/Drbrilliant360/courier-insight-ai/internal/ingest"
	"github.com/Drbrilliant360/courier-insight-ai/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)
	ingestor := ingest.NewService(st, st, st, audit.NewLogger(st), logger, cfg.BatchSize, cfg.BackgroundRecords)
	router := app.NewRouter(cfg, st, ingestor, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go func() {
		logger.Info("api_started", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("api server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	// Background ingestion jobs finalize their job records before exit.
	ingestor.Wait()
}
