package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// WithTracer attaches t to ctx. A nil t detaches tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// SpanFromContext returns the span opened by the nearest Start, or nil.
func SpanFromContext(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(spanKey{}).(*Span)
	return s
}

// Start opens a span under the span carried by ctx, on the tracer carried by
// ctx, and returns a context carrying the new span.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	return StartFor(ctx, scope, name, "")
}

// StartFor is Start for a span attributed to unit.
func StartFor(ctx context.Context, scope Scope, name, unit string) (context.Context, *Span) {
	s := BeginFor(FromContext(ctx), SpanFromContext(ctx), scope, name, unit)
	if s == nil {
		return ctx, nil
	}
	return context.WithValue(ctx, spanKey{}, s), s
}
