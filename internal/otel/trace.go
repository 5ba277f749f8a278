package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InvocationSpan is the root span of one fcshctl invocation. The mode and
// outgoing line are recorded at start; the final line (after any
// incremental rewrite) and the outcome are recorded at End. Lock and
// prompt waits are attached as span events rather than child spans — the
// invocation is a single sequential pipeline.
type InvocationSpan struct {
	span trace.Span
}

// StartInvocation starts the root span. Works unconditionally: without a
// registered TracerProvider the returned span is a no-op.
func StartInvocation(ctx context.Context, mode, line string) (context.Context, *InvocationSpan) {
	ctx, span := otel.Tracer(serviceName).Start(ctx, "invocation",
		trace.WithAttributes(
			attribute.String("command.mode", mode),
			attribute.String("command.line", line),
		))
	return ctx, &InvocationSpan{span: span}
}

// LockWaited records how long the invocation waited for the singleton lock.
func (s *InvocationSpan) LockWaited(d time.Duration) {
	s.span.AddEvent("lock.acquired", trace.WithAttributes(
		attribute.Float64("wait_seconds", d.Seconds())))
}

// PromptWaited records how long fcsh took to answer the command.
func (s *InvocationSpan) PromptWaited(d time.Duration) {
	s.span.AddEvent("prompt.seen", trace.WithAttributes(
		attribute.Float64("wait_seconds", d.Seconds())))
}

// End finishes the span with the final outgoing line and the outcome.
func (s *InvocationSpan) End(line, outcome string) {
	s.span.SetAttributes(
		attribute.String("command.line", line),
		attribute.String("outcome", outcome),
	)
	s.span.End()
}
