package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID                    uuid.UUID
	OrderNumber           string
	CustomerName          string
	CustomerPhone         *string
	PickupAddress         string
	PickupLng             float64
	PickupLat             float64
	DeliveryAddress       string
	DeliveryLng           float64
	DeliveryLat           float64
	Status                string
	EstimatedPickupTime   *time.Time
	ActualPickupTime      *time.Time
	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time
	CourierID             *uuid.UUID
	SpecialInstructions   *string
	PriorityLevel         int32
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// OrderParams carries every ingestion-owned order field. The same values are
// used for both the insert and the update-by-order-number fallback.
type OrderParams struct {
	OrderNumber           string
	CustomerName          string
	CustomerPhone         *string
	PickupAddress         string
	PickupLng             float64
	PickupLat             float64
	DeliveryAddress       string
	DeliveryLng           float64
	DeliveryLat           float64
	Status                string
	EstimatedPickupTime   *time.Time
	ActualPickupTime      *time.Time
	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time
	CourierID             uuid.UUID
	SpecialInstructions   *string
	PriorityLevel         int32
}

const orderColumns = `id, order_number, customer_name, customer_phone,
	pickup_address, pickup_lng, pickup_lat,
	delivery_address, delivery_lng, delivery_lat,
	status, estimated_pickup_time, actual_pickup_time,
	estimated_delivery_time, actual_delivery_time,
	courier_id, special_instructions, priority_level, created_at, updated_at`

func (s *Store) CreateOrder(ctx context.Context, params OrderParams) (Order, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO orders (
			order_number, customer_name, customer_phone,
			pickup_address, pickup_lng, pickup_lat,
			delivery_address, delivery_lng, delivery_lat,
			status, estimated_pickup_time, actual_pickup_time,
			estimated_delivery_time, actual_delivery_time,
			courier_id, special_instructions, priority_level
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+orderColumns+`
	`,
		params.OrderNumber, params.CustomerName, params.CustomerPhone,
		params.PickupAddress, params.PickupLng, params.PickupLat,
		params.DeliveryAddress, params.DeliveryLng, params.DeliveryLat,
		params.Status, params.EstimatedPickupTime, params.ActualPickupTime,
		params.EstimatedDeliveryTime, params.ActualDeliveryTime,
		params.CourierID, params.SpecialInstructions, params.PriorityLevel,
	)
	return scanOrder(row)
}

func (s *Store) UpdateOrderByNumber(ctx context.Context, params OrderParams) (Order, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE orders SET
			customer_name = $2,
			customer_phone = $3,
			pickup_address = $4,
			pickup_lng = $5,
			pickup_lat = $6,
			delivery_address = $7,
			delivery_lng = $8,
			delivery_lat = $9,
			status = $10,
			estimated_pickup_time = $11,
			actual_pickup_time = $12,
			estimated_delivery_time = $13,
			actual_delivery_time = $14,
			courier_id = $15,
			special_instructions = $16,
			priority_level = $17,
			updated_at = now()
		WHERE order_number = $1
		RETURNING `+orderColumns+`
	`,
		params.OrderNumber, params.CustomerName, params.CustomerPhone,
		params.PickupAddress, params.PickupLng, params.PickupLat,
		params.DeliveryAddress, params.DeliveryLng, params.DeliveryLat,
		params.Status, params.EstimatedPickupTime, params.ActualPickupTime,
		params.EstimatedDeliveryTime, params.ActualDeliveryTime,
		params.CourierID, params.SpecialInstructions, params.PriorityLevel,
	)
	return scanOrder(row)
}

func (s *Store) ListRecentOrders(ctx context.Context, limit int32) ([]Order, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0, limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

type DashboardStats struct {
	TotalOrders     int64
	DeliveredOrders int64
	ActiveCouriers  int64
	TotalCouriers   int64
}

func (s *Store) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM orders WHERE status IN ('delivered', 'completed')),
			(SELECT count(*) FROM couriers WHERE status IN ('available', 'busy')),
			(SELECT count(*) FROM couriers)
	`).Scan(&stats.TotalOrders, &stats.DeliveredOrders, &stats.ActiveCouriers, &stats.TotalCouriers)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.PickupAddress,
		&o.PickupLng,
		&o.PickupLat,
		&o.DeliveryAddress,
		&o.DeliveryLng,
		&o.DeliveryLat,
		&o.Status,
		&o.EstimatedPickupTime,
		&o.ActualPickupTime,
		&o.EstimatedDeliveryTime,
		&o.ActualDeliveryTime,
		&o.CourierID,
		&o.SpecialInstructions,
		&o.PriorityLevel,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}
