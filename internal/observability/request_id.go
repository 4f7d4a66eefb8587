package observability

import (
	"context"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// NewRequestID returns a random UUID string.
func NewRequestID() string {
	return uuid.NewString()
}

// RequestIDFromHeader returns the canonical form of an incoming id, or a new
// one when the header is absent or not a UUID.
func RequestIDFromHeader(h string) (id string, reused bool) {
	parsed, err := uuid.Parse(h)
	if err != nil {
		return NewRequestID(), false
	}
	return parsed.String(), true
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns "" when ctx carries no request id.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
