// Package store holds the hand-written pgx queries for the three entity
// collections the ingestion pipeline touches, plus API tokens and audit rows.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// Constraint names enforced by migrations; the pipeline's
	// create-or-update fallbacks key off them.
	OrderNumberConstraint = "orders_order_number_uidx"
	CourierNameConstraint = "couriers_name_uidx"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// IsUniqueViolation reports whether err is a Postgres unique violation,
// optionally narrowed to a single constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if constraint == "" || pgErr.ConstraintName == constraint {
			return true
		}
	}
	return false
}
