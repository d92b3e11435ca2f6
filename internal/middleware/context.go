package middleware

import (
	"context"

	"github.com/google/uuid"
)

// Caller identifies the API token a request authenticated with.
type Caller struct {
	TokenID uuid.UUID
	Name    string
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	callerKey    contextKey = "caller"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	v, ok := ctx.Value(requestIDKey).(string)
	if !ok {
		return ""
	}
	return v
}

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	v, ok := ctx.Value(callerKey).(Caller)
	return v, ok
}
