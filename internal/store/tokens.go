package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type APIToken struct {
	ID         uuid.UUID
	Name       string
	TokenHash  string
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

func (s *Store) GetAPITokenByHash(ctx context.Context, tokenHash string) (APIToken, error) {
	var t APIToken
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, token_hash, created_at, last_used_at
		FROM api_tokens
		WHERE token_hash = $1
	`, tokenHash).Scan(&t.ID, &t.Name, &t.TokenHash, &t.CreatedAt, &t.LastUsedAt)
	return t, err
}

func (s *Store) TouchAPIToken(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE api_tokens SET last_used_at = now() WHERE id = $1
	`, id)
	return err
}

type AuditEntry struct {
	ActorID    *uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	RequestID  *string
	Metadata   []byte
}

func (s *Store) InsertAuditLog(ctx context.Context, entry AuditEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_logs (actor_id, action, entity_type, entity_id, request_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID, entry.RequestID, entry.Metadata)
	return err
}
