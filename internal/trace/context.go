package trace

import "context"

type ctxKey struct{}

type spanCtxKey struct{}

// FromContext extracts the Tracer from ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// CurrentSpanID returns the innermost span started with StartSpan, or 0.
func CurrentSpanID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(spanCtxKey{}).(uint64); ok {
		return id
	}
	return 0
}

// StartSpan begins a span under the current one and returns a context
// in which the new span is current.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	span := Begin(FromContext(ctx), scope, name, CurrentSpanID(ctx))
	if span.id == 0 {
		return span, ctx
	}
	return span, context.WithValue(ctx, spanCtxKey{}, span.id)
}
