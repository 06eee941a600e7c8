package requestid

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

var (
	invocationOnce sync.Once
	invocationID   string
)

// Generate creates a new unique request ID
func Generate() string {
	return uuid.New().String()
}

// Invocation returns the id shared by every request issued during this process run,
// so server logs can correlate all calls made by one CLI command.
func Invocation() string {
	invocationOnce.Do(func() {
		invocationID = Generate()
	})
	return invocationID
}

// ToContext adds a request ID to the context
func ToContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// FromContext extracts the request ID from the context, falling back to the invocation id.
func FromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		return requestID
	}
	return Invocation()
}
