package ctxutil

import (
	"context"
)

type ctxKey string

const (
	userKey      ctxKey = "user"
	requestIDKey ctxKey = "request_id"
)

// WithUser stores the authenticated user name in the context.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromCtx extracts the authenticated user name from the context.
// Returns "" and false if the value is missing or empty.
func UserFromCtx(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(userKey).(string)
	if !ok || user == "" {
		return "", false
	}
	return user, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
