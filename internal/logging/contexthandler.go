package logging

import (
	"context"
	"log/slog"

	"github.com/mkarvonen/prepdeck/internal/errors"
)

type contextKey int

const slogAttrsKey contextKey = iota

// ContextHandler is a [slog.Handler] that enriches log records with
// [slog.Attr] stored in the context with [WithAttrs].
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler wraps the given handler so that attributes attached to
// the context flow into every log record.
func NewContextHandler(h slog.Handler) ContextHandler {
	return ContextHandler{Handler: h}
}

// Handle adds the context attributes to the record before delegating to the
// underlying handler.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogAttrsKey).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	if err := h.Handler.Handle(ctx, r); err != nil {
		return errors.Wrap(err, "handle log record")
	}
	return nil
}

// WithAttrs attaches [slog.Attr] to the context for [ContextHandler] to pick up.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if existing, ok := ctx.Value(slogAttrsKey).([]slog.Attr); ok {
		attrs = append(existing, attrs...)
	}
	return context.WithValue(ctx, slogAttrsKey, attrs)
}
