package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Drbrilliant360/courier-insight-ai/internal/audit"
	"github.com/Drbrilliant360/courier-insight-ai/internal/store"
)

// errorCap bounds how many error messages are kept in job metadata; the
// total count is always recorded.
const errorCap = 10

type AuditLogger interface {
	Log(ctx context.Context, entry audit.Entry) error
}

// Service owns ingestion job lifecycles: it creates the job record, decides
// between synchronous and background execution, and finalizes the record
// exactly once.
type Service struct {
	jobs              JobStore
	coordinator       *Coordinator
	auditLog          AuditLogger
	logger            *slog.Logger
	batchSize         int
	backgroundRecords int

	wg sync.WaitGroup
}

func NewService(couriers CourierStore, orders OrderStore, jobs JobStore, auditLog AuditLogger, logger *slog.Logger, batchSize, backgroundRecords int) *Service {
	return &Service{
		jobs:              jobs,
		coordinator:       NewCoordinator(couriers, orders, jobs, batchSize, logger),
		auditLog:          auditLog,
		logger:            logger,
		batchSize:         batchSize,
		backgroundRecords: backgroundRecords,
	}
}

type Request struct {
	UploadedBy uuid.UUID
	Records    []UploadedRecord
	Filename   string
	FileSize   int64
	Columns    []string
}

type Summary struct {
	JobID      uuid.UUID
	Total      int
	Processed  int
	Errors     int
	Status     string
	Background bool
}

type jobMetadata struct {
	UploadTimestamp     string   `json:"upload_timestamp"`
	Columns             []string `json:"columns"`
	BatchSize           int      `json:"batch_size"`
	ProcessingCompleted string   `json:"processing_completed,omitempty"`
	Errors              []string `json:"errors,omitempty"`
	TotalErrors         int      `json:"total_errors"`
}

// Ingest creates the job record and runs the dataset through the batch
// coordinator. Datasets above the background threshold are acknowledged
// immediately and processed by a supervised goroutine; the persisted job
// record is then the only way to observe completion. An error return is a
// job-level failure: nothing was processed.
func (s *Service) Ingest(ctx context.Context, req Request) (Summary, error) {
	columns := req.Columns
	if len(columns) == 0 {
		columns = CanonicalColumns
	}
	meta := jobMetadata{
		UploadTimestamp: time.Now().UTC().Format(time.RFC3339),
		Columns:         columns,
		BatchSize:       s.batchSize,
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return Summary{}, fmt.Errorf("marshal job metadata: %w", err)
	}

	job, err := s.jobs.CreateIngestionJob(ctx, store.CreateIngestionJobParams{
		UploadedBy:   req.UploadedBy,
		Filename:     req.Filename,
		FileSize:     req.FileSize,
		TotalRecords: int32(len(req.Records)),
		Metadata:     metaJSON,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("store ingestion job: %w", err)
	}

	s.logger.Info("ingestion_started",
		"job_id", job.ID,
		"uploaded_by", req.UploadedBy,
		"filename", req.Filename,
		"file_size", req.FileSize,
		"total_records", len(req.Records),
	)

	if len(req.Records) > s.backgroundRecords {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			// Detached from the request: the job outlives the response.
			s.run(context.Background(), job.ID, req, meta)
		}()
		return Summary{
			JobID:      job.ID,
			Total:      len(req.Records),
			Status:     StatusProcessing,
			Background: true,
		}, nil
	}

	outcome := s.run(ctx, job.ID, req, meta)
	return Summary{
		JobID:     job.ID,
		Total:     len(req.Records),
		Processed: outcome.Processed,
		Errors:    len(outcome.Errors),
		Status:    outcome.Status,
	}, nil
}

func (s *Service) run(ctx context.Context, jobID uuid.UUID, req Request, meta jobMetadata) Outcome {
	outcome := s.coordinator.Run(ctx, jobID, req.Records)

	meta.ProcessingCompleted = time.Now().UTC().Format(time.RFC3339)
	meta.TotalErrors = len(outcome.Errors)
	meta.Errors = outcome.Errors
	if len(meta.Errors) > errorCap {
		meta.Errors = meta.Errors[:errorCap]
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		s.logger.Error("marshal completion metadata", "job_id", jobID, "error", err)
		metaJSON = []byte("{}")
	}
	if err := s.jobs.FinalizeIngestionJob(ctx, jobID, int32(outcome.Processed), outcome.Status, metaJSON); err != nil {
		s.logger.Error("finalize ingestion job", "job_id", jobID, "error", err)
	}

	if s.auditLog != nil {
		actorID := req.UploadedBy
		entityID := jobID
		_ = s.auditLog.Log(ctx, audit.Entry{
			ActorID:    &actorID,
			Action:     "ingest.completed",
			EntityType: "ingestion_job",
			EntityID:   &entityID,
			Metadata: map[string]any{
				"status":    outcome.Status,
				"processed": outcome.Processed,
				"total":     len(req.Records),
				"errors":    len(outcome.Errors),
			},
		})
	}

	s.logger.Info("ingestion_completed",
		"job_id", jobID,
		"status", outcome.Status,
		"processed", outcome.Processed,
		"total", len(req.Records),
		"errors", len(outcome.Errors),
	)
	return outcome
}

// Wait blocks until all background jobs have finalized their job records.
// The server calls it during shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}
