package ingest

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Drbrilliant360/courier-insight-ai/internal/store"
)

// Defaults applied when a courier name is seen for the first time.
const (
	defaultCourierStatus  = "available"
	defaultCourierVehicle = "bike"
	defaultCourierRating  = 5.0
)

type courierResolver struct {
	couriers CourierStore
}

// resolve returns the courier with the exact given name, creating one with
// default attributes if none exists. Concurrent creates for the same new name
// race on the unique index; the loser re-reads the winner's row.
func (r *courierResolver) resolve(ctx context.Context, name string) (uuid.UUID, error) {
	existing, err := r.couriers.GetCourierByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, err
	}

	created, err := r.couriers.CreateCourier(ctx, store.CreateCourierParams{
		Name:        name,
		Status:      defaultCourierStatus,
		VehicleType: defaultCourierVehicle,
		Rating:      defaultCourierRating,
	})
	if err != nil {
		if store.IsUniqueViolation(err, store.CourierNameConstraint) {
			winner, lookupErr := r.couriers.GetCourierByName(ctx, name)
			if lookupErr == nil {
				return winner.ID, nil
			}
		}
		return uuid.Nil, err
	}
	return created.ID, nil
}
