package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCoordinatorProcessesAllBatches(t *testing.T) {
	couriers := newFakeCourierStore()
	orders := newFakeOrderStore()
	jobs := &fakeJobStore{}
	coord := NewCoordinator(couriers, orders, jobs, 2, testLogger())

	records := make([]UploadedRecord, 5)
	for i := range records {
		records[i] = validRecord(fmt.Sprintf("ORD-%d", i+1), "Amina Hassan", "delivered")
	}

	outcome := coord.Run(context.Background(), uuid.New(), records)

	if outcome.Processed != 5 {
		t.Fatalf("processed = %d, want 5", outcome.Processed)
	}
	if len(outcome.Errors) != 0 {
		t.Fatalf("errors = %v, want none", outcome.Errors)
	}
	if outcome.Status != StatusCompleted {
		t.Fatalf("status = %q, want %q", outcome.Status, StatusCompleted)
	}
	if orders.count() != 5 {
		t.Fatalf("stored orders = %d, want 5", orders.count())
	}
	if couriers.count() != 1 {
		t.Fatalf("stored couriers = %d, want 1", couriers.count())
	}

	// One progress write per batch, cumulative and monotonic.
	snap := jobs.snapshot()
	if len(snap.progress) != 3 {
		t.Fatalf("progress writes = %d, want 3", len(snap.progress))
	}
	var prev int32
	for _, p := range snap.progress {
		if p < prev {
			t.Fatalf("progress went backwards: %v", snap.progress)
		}
		prev = p
	}
	if prev != 5 {
		t.Fatalf("final progress = %d, want 5", prev)
	}
}

func TestCoordinatorCreatesCourierWithDefaults(t *testing.T) {
	couriers := newFakeCourierStore()
	orders := newFakeOrderStore()
	coord := NewCoordinator(couriers, orders, &fakeJobStore{}, 1000, testLogger())

	coord.Run(context.Background(), uuid.New(), []UploadedRecord{
		validRecord("ORD-1", "Joseph Mwangi", "pending"),
	})

	c, ok := couriers.get("Joseph Mwangi")
	if !ok {
		t.Fatal("courier was not created")
	}
	if c.Status != "available" || c.VehicleType != "bike" || c.Rating != 5.0 {
		t.Fatalf("courier defaults = %q/%q/%v, want available/bike/5", c.Status, c.VehicleType, c.Rating)
	}
}

func TestCoordinatorReusesExistingCourier(t *testing.T) {
	couriers := newFakeCourierStore()
	orders := newFakeOrderStore()
	coord := NewCoordinator(couriers, orders, &fakeJobStore{}, 1, testLogger())

	outcome := coord.Run(context.Background(), uuid.New(), []UploadedRecord{
		validRecord("ORD-1", "Fatma Ali", "pending"),
		validRecord("ORD-2", "Fatma Ali", "delivered"),
	})

	if outcome.Processed != 2 {
		t.Fatalf("processed = %d, want 2", outcome.Processed)
	}
	if couriers.creates != 1 {
		t.Fatalf("courier creates = %d, want 1", couriers.creates)
	}
}

func TestCoordinatorCourierCreateRaceFallsBackToLookup(t *testing.T) {
	couriers := newFakeCourierStore()
	couriers.conflictOnCreate = true
	orders := newFakeOrderStore()
	coord := NewCoordinator(couriers, orders, &fakeJobStore{}, 1000, testLogger())

	outcome := coord.Run(context.Background(), uuid.New(), []UploadedRecord{
		validRecord("ORD-1", "Amina Hassan", "pending"),
	})

	if outcome.Processed != 1 {
		t.Fatalf("processed = %d, errors = %v, want processed 1", outcome.Processed, outcome.Errors)
	}
}

func TestCoordinatorDuplicateOrderNumberUpdatesExisting(t *testing.T) {
	couriers := newFakeCourierStore()
	orders := newFakeOrderStore()
	coord := NewCoordinator(couriers, orders, &fakeJobStore{}, 2, testLogger())

	bad := validRecord("ORD-2", "Amina Hassan", "pending")
	bad.DeliveryLocation = "not-a-location"

	// Rows one and two share a batch; row three lands in the next batch and
	// hits the already-inserted order number.
	records := []UploadedRecord{
		validRecord("ORD-1", "Amina Hassan", "Delivered"),
		bad,
		validRecord("ORD-1", "Amina Hassan", "In Transit"),
	}

	outcome := coord.Run(context.Background(), uuid.New(), records)

	if outcome.Processed != 2 {
		t.Fatalf("processed = %d, want 2", outcome.Processed)
	}
	if outcome.Status != StatusCompletedWithErrors {
		t.Fatalf("status = %q, want %q", outcome.Status, StatusCompletedWithErrors)
	}
	if len(outcome.Errors) != 1 || outcome.Errors[0] != "Invalid location format for order ORD-2" {
		t.Fatalf("errors = %v", outcome.Errors)
	}
	if orders.count() != 1 {
		t.Fatalf("stored orders = %d, want 1", orders.count())
	}
	if orders.updates != 1 {
		t.Fatalf("updates = %d, want 1", orders.updates)
	}
	final, _ := orders.get("ORD-1")
	if final.Status != "in_transit" {
		t.Fatalf("final status = %q, want in_transit", final.Status)
	}
	if couriers.count() != 1 {
		t.Fatalf("stored couriers = %d, want 1", couriers.count())
	}
}

func TestCoordinatorRecordErrorMessages(t *testing.T) {
	missingCourier := validRecord("ORD-9", "", "pending")
	badStatus := validRecord("ORD-10", "Amina Hassan", "teleported")

	couriers := newFakeCourierStore()
	orders := newFakeOrderStore()
	coord := NewCoordinator(couriers, orders, &fakeJobStore{}, 1, testLogger())

	outcome := coord.Run(context.Background(), uuid.New(), []UploadedRecord{missingCourier, badStatus})

	if outcome.Processed != 0 {
		t.Fatalf("processed = %d, want 0", outcome.Processed)
	}
	if len(outcome.Errors) != 2 {
		t.Fatalf("errors = %v, want 2", outcome.Errors)
	}
	for _, msg := range outcome.Errors {
		if !strings.HasPrefix(msg, "Error processing record ORD-") {
			t.Fatalf("unexpected error message %q", msg)
		}
	}
}
