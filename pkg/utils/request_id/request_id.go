package request_id

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"

	// Header carries the request ID in both directions.
	Header = "X-Request-Id"
)

func With(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func FromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// FromRequest reuses the caller's request ID when present, otherwise a new
// one is generated. The returned context carries the ID.
func FromRequest(r *http.Request) (context.Context, string) {
	if id := r.Header.Get(Header); id != "" && len(id) <= 128 {
		return With(r.Context(), id), id
	}
	return Generate(r.Context())
}

func Generate(ctx context.Context) (context.Context, string) {
	requestID := uuid.New().String()
	return With(ctx, requestID), requestID
}
