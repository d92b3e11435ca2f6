package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Drbrilliant360/courier-insight-ai/internal/geo"
)

const (
	StatusProcessing          = "processing"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
)

// Outcome aggregates per-record results for one job run. Every input record
// is accounted for exactly once: Processed + len(Errors) == total.
type Outcome struct {
	Processed int
	Errors    []string
	Status    string
}

// Coordinator partitions a dataset into fixed-size batches, processed
// sequentially; records within a batch run concurrently.
type Coordinator struct {
	resolver  courierResolver
	upserter  orderUpserter
	jobs      JobStore
	batchSize int
	logger    *slog.Logger
}

func NewCoordinator(couriers CourierStore, orders OrderStore, jobs JobStore, batchSize int, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		resolver:  courierResolver{couriers: couriers},
		upserter:  orderUpserter{orders: orders},
		jobs:      jobs,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run drives the whole dataset through the per-record pipeline. A failing
// record is recorded and skipped; it never aborts its siblings or the job.
// After each batch the cumulative processed count is persisted, so progress
// is monotonic and batch-ordered.
func (c *Coordinator) Run(ctx context.Context, jobID uuid.UUID, records []UploadedRecord) Outcome {
	col := &collector{}

	for start := 0; start < len(records); start += c.batchSize {
		end := start + c.batchSize
		if end > len(records) {
			end = len(records)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, rec := range records[start:end] {
			rec := rec
			g.Go(func() error {
				c.processRecord(gctx, rec, col)
				return nil
			})
		}
		_ = g.Wait()

		if err := c.jobs.UpdateJobProgress(ctx, jobID, int32(col.processedCount())); err != nil {
			c.logger.Warn("update job progress", "job_id", jobID, "error", err)
		}
	}

	processed, errs := col.snapshot()
	status := StatusCompleted
	if processed != len(records) {
		status = StatusCompletedWithErrors
	}
	return Outcome{Processed: processed, Errors: errs, Status: status}
}

func (c *Coordinator) processRecord(ctx context.Context, rec UploadedRecord, col *collector) {
	norm, err := NormalizeRecord(rec)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidLocation) {
			col.fail(fmt.Sprintf("Invalid location format for order %s", rec.OrderID))
		} else {
			col.fail(fmt.Sprintf("Error processing record %s: %v", rec.OrderID, err))
		}
		return
	}

	courierID, err := c.resolver.resolve(ctx, rec.CourierName)
	if err != nil {
		col.fail(fmt.Sprintf("Failed to create courier %s: %v", rec.CourierName, err))
		return
	}

	if err := c.upserter.upsert(ctx, norm, courierID); err != nil {
		col.fail(err.Error())
		return
	}

	col.success()
}

// collector is the shared mutable state for one job run; concurrent record
// pipelines append to it under the mutex so no update is lost.
type collector struct {
	mu        sync.Mutex
	processed int
	errors    []string
}

func (c *collector) success() {
	c.mu.Lock()
	c.processed++
	c.mu.Unlock()
}

func (c *collector) fail(msg string) {
	c.mu.Lock()
	c.errors = append(c.errors, msg)
	c.mu.Unlock()
}

func (c *collector) processedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processed
}

func (c *collector) snapshot() (int, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processed, append([]string(nil), c.errors...)
}
