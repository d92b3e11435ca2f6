package ingest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Drbrilliant360/courier-insight-ai/internal/audit"
	"github.com/Drbrilliant360/courier-insight-ai/internal/store"
)

type fakeCourierStore struct {
	mu       sync.Mutex
	couriers map[string]store.Courier
	creates  int

	// When set, CreateCourier inserts the row but still reports a unique
	// violation, as if a concurrent insert won the race.
	conflictOnCreate bool
}

func newFakeCourierStore() *fakeCourierStore {
	return &fakeCourierStore{couriers: map[string]store.Courier{}}
}

func (f *fakeCourierStore) GetCourierByName(_ context.Context, name string) (store.Courier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.couriers[name]; ok {
		return c, nil
	}
	return store.Courier{}, pgx.ErrNoRows
}

func (f *fakeCourierStore) CreateCourier(_ context.Context, params store.CreateCourierParams) (store.Courier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.couriers[params.Name]; ok {
		return store.Courier{}, &pgconn.PgError{Code: "23505", ConstraintName: store.CourierNameConstraint}
	}
	c := store.Courier{
		ID:          uuid.New(),
		Name:        params.Name,
		Status:      params.Status,
		VehicleType: params.VehicleType,
		Rating:      params.Rating,
	}
	f.couriers[params.Name] = c
	f.creates++
	if f.conflictOnCreate {
		return store.Courier{}, &pgconn.PgError{Code: "23505", ConstraintName: store.CourierNameConstraint}
	}
	return c, nil
}

func (f *fakeCourierStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.couriers)
}

func (f *fakeCourierStore) get(name string) (store.Courier, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.couriers[name]
	return c, ok
}

type fakeOrderStore struct {
	mu      sync.Mutex
	orders  map[string]store.OrderParams
	creates int
	updates int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]store.OrderParams{}}
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, params store.OrderParams) (store.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[params.OrderNumber]; ok {
		return store.Order{}, &pgconn.PgError{Code: "23505", ConstraintName: store.OrderNumberConstraint}
	}
	f.orders[params.OrderNumber] = params
	f.creates++
	return store.Order{ID: uuid.New(), OrderNumber: params.OrderNumber}, nil
}

func (f *fakeOrderStore) UpdateOrderByNumber(_ context.Context, params store.OrderParams) (store.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[params.OrderNumber]; !ok {
		return store.Order{}, pgx.ErrNoRows
	}
	f.orders[params.OrderNumber] = params
	f.updates++
	return store.Order{ID: uuid.New(), OrderNumber: params.OrderNumber}, nil
}

func (f *fakeOrderStore) get(orderNumber string) (store.OrderParams, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.orders[orderNumber]
	return p, ok
}

func (f *fakeOrderStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeJobStore struct {
	mu             sync.Mutex
	createErr      error
	job            store.IngestionJob
	progress       []int32
	finalProcessed int32
	finalStatus    string
	finalMetadata  []byte
	finalized      bool
}

func (f *fakeJobStore) CreateIngestionJob(_ context.Context, params store.CreateIngestionJobParams) (store.IngestionJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return store.IngestionJob{}, f.createErr
	}
	f.job = store.IngestionJob{
		ID:               uuid.New(),
		UploadedBy:       params.UploadedBy,
		Filename:         params.Filename,
		FileSize:         params.FileSize,
		TotalRecords:     params.TotalRecords,
		ProcessingStatus: StatusProcessing,
		Metadata:         params.Metadata,
	}
	return f.job, nil
}

func (f *fakeJobStore) UpdateJobProgress(_ context.Context, _ uuid.UUID, processed int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = append(f.progress, processed)
	return nil
}

func (f *fakeJobStore) FinalizeIngestionJob(_ context.Context, _ uuid.UUID, processed int32, status string, metadata []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalProcessed = processed
	f.finalStatus = status
	f.finalMetadata = metadata
	f.finalized = true
	return nil
}

func (f *fakeJobStore) snapshot() fakeJobStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fakeJobStore{
		job:            f.job,
		progress:       append([]int32(nil), f.progress...),
		finalProcessed: f.finalProcessed,
		finalStatus:    f.finalStatus,
		finalMetadata:  append([]byte(nil), f.finalMetadata...),
		finalized:      f.finalized,
	}
}

type fakeAuditLogger struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (f *fakeAuditLogger) Log(_ context.Context, entry audit.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditLogger) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		actions = append(actions, e.Action)
	}
	return actions
}

func validRecord(orderID, courier, status string) UploadedRecord {
	return UploadedRecord{
		OrderID:          orderID,
		CourierName:      courier,
		PickupLocation:   "-6.7924,39.2083",
		DeliveryLocation: "POINT(39.2612 -6.8235)",
		PickupTime:       "2026-08-01T09:00:00Z",
		DeliveryTime:     "2026-08-01T10:30:00Z",
		Status:           status,
	}
}
