// Package appctx carries request-scoped values through context.
package appctx

import (
	"context"
)

// TraceContext holds request tracing identifiers.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceKey struct{}

// WithTrace adds trace context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// GetTrace returns trace context or nil.
func GetTrace(ctx context.Context) *TraceContext {
	if trace, ok := ctx.Value(traceKey{}).(*TraceContext); ok {
		return trace
	}
	return nil
}
