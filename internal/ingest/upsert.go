package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Drbrilliant360/courier-insight-ai/internal/store"
)

type orderUpserter struct {
	orders OrderStore
}

// upsert creates the order, falling back to an update of the row with the
// same order number when the insert hits the uniqueness constraint. The
// returned error text is the message recorded against the record.
func (u *orderUpserter) upsert(ctx context.Context, norm NormalizedOrder, courierID uuid.UUID) error {
	params := orderParams(norm, courierID)

	if _, err := u.orders.CreateOrder(ctx, params); err != nil {
		if store.IsUniqueViolation(err, store.OrderNumberConstraint) {
			if _, updErr := u.orders.UpdateOrderByNumber(ctx, params); updErr != nil {
				return fmt.Errorf("Failed to update order %s: %v", params.OrderNumber, updErr)
			}
			return nil
		}
		return fmt.Errorf("Failed to create order %s: %v", params.OrderNumber, err)
	}
	return nil
}

func orderParams(norm NormalizedOrder, courierID uuid.UUID) store.OrderParams {
	return store.OrderParams{
		OrderNumber:     norm.OrderNumber,
		CustomerName:    norm.CustomerName,
		CustomerPhone:   norm.CustomerPhone,
		PickupAddress:   norm.PickupAddress,
		PickupLng:       norm.Pickup.Lng,
		PickupLat:       norm.Pickup.Lat,
		DeliveryAddress: norm.DeliveryAddress,
		DeliveryLng:     norm.Delivery.Lng,
		DeliveryLat:     norm.Delivery.Lat,
		Status:          norm.Status,
		// The upload carries one timestamp per event, so estimated and
		// actual are identical at ingestion time.
		EstimatedPickupTime:   norm.PickupTime,
		ActualPickupTime:      norm.PickupTime,
		EstimatedDeliveryTime: norm.DeliveryTime,
		ActualDeliveryTime:    norm.DeliveryTime,
		CourierID:             courierID,
		SpecialInstructions:   norm.SpecialInstructions,
		PriorityLevel:         1,
	}
}
