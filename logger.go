package edgetrust

import (
	"context"
)

// Logger records diagnostics emitted by Resolver.
//
// Implementations should be safe for concurrent use, as a single Resolver
// instance is typically shared across many goroutines.
//
// The provided context comes from the inbound request and can carry tracing
// metadata (for example, trace or span IDs).
//
// The interface intentionally mirrors slog's ErrorContext and DebugContext
// signatures, so *slog.Logger can be used directly without an adapter.
// Rejection paths log at error level; the optional-override-header
// fallthrough logs at debug level only.
type Logger interface {
	ErrorContext(ctx context.Context, msg string, args ...any)
	DebugContext(ctx context.Context, msg string, args ...any)
}

// noopLogger is the default Logger implementation when logging is not
// explicitly configured.
type noopLogger struct{}

func (noopLogger) ErrorContext(context.Context, string, ...any) {}

func (noopLogger) DebugContext(context.Context, string, ...any) {}
