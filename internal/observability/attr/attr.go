// Package attr provides slog attribute helpers shared across the pipeline.
package attr

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

type correlationIDKey struct{}

// WithCorrelationID stores a correlation id on the context for later log calls.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// ExtractCorrelationID pulls the correlation id off the context, if present.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok && id != "" {
		return slog.String("correlation_id", id)
	}
	return slog.String("correlation_id", "unknown")
}

// CorrelationIDFromMsg reads the watermill correlation id off a message.
func CorrelationIDFromMsg(msg *message.Message) slog.Attr {
	return slog.String("correlation_id", middleware.MessageCorrelationID(msg))
}

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Float64(key string, value float64) slog.Attr { return slog.Float64(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Error(err error) slog.Attr { return slog.Any("error", err) }

// Stringer logs a value through its String method, covering the enum and
// bit-flag types.
func Stringer(key string, value interface{ String() string }) slog.Attr {
	return slog.String(key, value.String())
}
