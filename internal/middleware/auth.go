package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Drbrilliant360/courier-insight-ai/internal/auth"
	"github.com/Drbrilliant360/courier-insight-ai/internal/store"
)

// TokenStore is the token-lookup slice of the data layer.
type TokenStore interface {
	GetAPITokenByHash(ctx context.Context, tokenHash string) (store.APIToken, error)
	TouchAPIToken(ctx context.Context, id uuid.UUID) error
}

type AuthMiddleware struct {
	Tokens TokenStore
}

// RequireAuth authenticates requests with a bearer API token. The raw token
// never touches the database; lookup is by its sha256 hash.
func (m AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == "" || token == header {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		apiToken, err := m.Tokens.GetAPITokenByHash(r.Context(), auth.HashToken(token))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to verify credentials")
			return
		}

		_ = m.Tokens.TouchAPIToken(r.Context(), apiToken.ID)

		ctx := WithCaller(r.Context(), Caller{TokenID: apiToken.ID, Name: apiToken.Name})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
