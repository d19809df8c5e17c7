package logging

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	elementIDKey ctxKey = iota
	visitorIDKey
	sessionIDKey
)

// WithElementID returns a context with the element ID set.
func WithElementID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, elementIDKey, id)
}

// WithVisitorID returns a context with the visitor ID set.
func WithVisitorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorIDKey, id)
}

// WithSessionID returns a context with the session ID set.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// ElementID extracts the element ID from the context, or "" if absent.
func ElementID(ctx context.Context) string {
	v, _ := ctx.Value(elementIDKey).(string)
	return v
}

// VisitorID extracts the visitor ID from the context, or "" if absent.
func VisitorID(ctx context.Context) string {
	v, _ := ctx.Value(visitorIDKey).(string)
	return v
}

// SessionID extracts the session ID from the context, or "" if absent.
func SessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

// WithIDs sets all three correlation IDs on the context at once.
func WithIDs(ctx context.Context, elementID, visitorID, sessionID string) context.Context {
	ctx = WithElementID(ctx, elementID)
	ctx = WithVisitorID(ctx, visitorID)
	ctx = WithSessionID(ctx, sessionID)
	return ctx
}

// CorrelationHandler wraps an slog.Handler, automatically injecting
// correlation IDs from the context into every log record.
// Use with slog.New(NewCorrelationHandler(inner)) so callers can use
// logger.InfoContext(ctx, ...) and IDs appear automatically.
type CorrelationHandler struct {
	inner slog.Handler
}

// NewCorrelationHandler wraps the given handler with automatic correlation ID injection.
func NewCorrelationHandler(inner slog.Handler) *CorrelationHandler {
	return &CorrelationHandler{inner: inner}
}

func (h *CorrelationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *CorrelationHandler) Handle(ctx context.Context, r slog.Record) error {
	if v := ElementID(ctx); v != "" {
		r.AddAttrs(slog.String("element_id", v))
	}
	if v := VisitorID(ctx); v != "" {
		r.AddAttrs(slog.String("visitor_id", v))
	}
	if v := SessionID(ctx); v != "" {
		r.AddAttrs(slog.String("session_id", v))
	}
	return h.inner.Handle(ctx, r)
}

func (h *CorrelationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *CorrelationHandler) WithGroup(name string) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithGroup(name)}
}
