package logger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// NewRequestID creates a unique request ID (16 hex chars)
func NewRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns the default logger, tagged with the request ID
// when the context carries one.
func FromContext(ctx context.Context) *slog.Logger {
	l := Default()
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		l = l.With("request_id", requestID)
	}
	return l
}
