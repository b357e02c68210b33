package edgetrust

import (
	"context"
	"log/slog"
	"testing"
)

// *slog.Logger satisfies Logger directly; no adapter needed.
var _ Logger = (*slog.Logger)(nil)

type ctxKey struct{}

func TestLogger_ContextPropagates(t *testing.T) {
	logger := &capturedLogger{}
	resolver := mustNewResolver(t,
		WithLogger(logger),
		OverrideHeader("X-Client-IP"),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "request-7")

	req := newTestRequest("10.0.0.1:1234")
	req = req.WithContext(ctx)
	req.Header.Set("X-Client-IP", "203.0.113.7")

	if _, err := resolver.Resolve(req); err == nil {
		t.Fatal("expected rejection for untrusted peer with override header")
	}

	entries := logger.snapshot()
	if len(entries) == 0 {
		t.Fatal("expected log entries")
	}
	for _, entry := range entries {
		if got := entry.ctx.Value(ctxKey{}); got != "request-7" {
			t.Fatalf("log entry context value = %v, want request-7", got)
		}
	}
}

func TestNoopLoggerAndMetricsAreDefaults(t *testing.T) {
	resolver := mustNewResolver(t)

	if _, ok := resolver.config.logger.(noopLogger); !ok {
		t.Fatalf("default logger = %T, want noopLogger", resolver.config.logger)
	}
	if _, ok := resolver.config.metrics.(noopMetrics); !ok {
		t.Fatalf("default metrics = %T, want noopMetrics", resolver.config.metrics)
	}

	// Defaults must be callable without side effects.
	res, err := resolver.Resolve(newTestRequest("10.0.0.1:1234"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !res.Valid() {
		t.Fatal("expected valid resolution with noop observability")
	}
}
