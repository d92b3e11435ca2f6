package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/Drbrilliant360/courier-insight-ai/internal/store"
)

// The pipeline consumes narrow slices of the data layer so batch processing
// can be exercised against fakes. *store.Store satisfies all three.

type CourierStore interface {
	GetCourierByName(ctx context.Context, name string) (store.Courier, error)
	CreateCourier(ctx context.Context, params store.CreateCourierParams) (store.Courier, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, params store.OrderParams) (store.Order, error)
	UpdateOrderByNumber(ctx context.Context, params store.OrderParams) (store.Order, error)
}

type JobStore interface {
	CreateIngestionJob(ctx context.Context, params store.CreateIngestionJobParams) (store.IngestionJob, error)
	UpdateJobProgress(ctx context.Context, id uuid.UUID, processed int32) error
	FinalizeIngestionJob(ctx context.Context, id uuid.UUID, processed int32, status string, metadata []byte) error
}
