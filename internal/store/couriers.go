package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Courier struct {
	ID               uuid.UUID
	Name             string
	Status           string
	VehicleType      string
	Rating           float64
	TotalDeliveries  int32
	OnTimeDeliveries int32
	Email            *string
	Phone            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateCourierParams struct {
	Name        string
	Status      string
	VehicleType string
	Rating      float64
}

const courierColumns = `id, name, status, vehicle_type, rating, total_deliveries, on_time_deliveries, email, phone, created_at, updated_at`

func (s *Store) GetCourierByName(ctx context.Context, name string) (Courier, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+courierColumns+`
		FROM couriers
		WHERE name = $1
	`, name)
	return scanCourier(row)
}

func (s *Store) CreateCourier(ctx context.Context, params CreateCourierParams) (Courier, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO couriers (name, status, vehicle_type, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING `+courierColumns+`
	`, params.Name, params.Status, params.VehicleType, params.Rating)
	return scanCourier(row)
}

func (s *Store) ListCouriersByRating(ctx context.Context, limit int32) ([]Courier, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+courierColumns+`
		FROM couriers
		ORDER BY rating DESC, total_deliveries DESC, name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list couriers: %w", err)
	}
	defer rows.Close()

	couriers := make([]Courier, 0, limit)
	for rows.Next() {
		courier, err := scanCourier(rows)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, courier)
	}
	return couriers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourier(row rowScanner) (Courier, error) {
	var c Courier
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Status,
		&c.VehicleType,
		&c.Rating,
		&c.TotalDeliveries,
		&c.OnTimeDeliveries,
		&c.Email,
		&c.Phone,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
