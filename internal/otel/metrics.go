package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "fcshctl"

// Metrics holds all OTEL metric instruments for fcshctl.
// All instruments are safe for concurrent use and no-op without a
// registered MeterProvider.
type Metrics struct {
	// Commands counts dispatched invocations, partitioned by mode and outcome.
	Commands metric.Int64Counter

	// Compiles counts compile commands, partitioned by outcome and by
	// whether the incremental fast path was taken.
	Compiles metric.Int64Counter

	// LockWait records how long invocations waited for the singleton lock.
	LockWait metric.Float64Histogram

	// PromptWait records how long fcsh took to answer a command.
	PromptWait metric.Float64Histogram
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Commands, err = meter.Int64Counter("commands.total",
		metric.WithDescription("Total fcshctl invocations partitioned by mode and outcome"))
	if err != nil {
		return nil, err
	}

	m.Compiles, err = meter.Int64Counter("compiles.total",
		metric.WithDescription("Total compile commands partitioned by outcome and incremental fast path"))
	if err != nil {
		return nil, err
	}

	m.LockWait, err = meter.Float64Histogram("lock.wait",
		metric.WithDescription("Time spent waiting for the singleton lock"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.PromptWait, err = meter.Float64Histogram("prompt.wait",
		metric.WithDescription("Time from command injection to the fcsh prompt"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCommand records one dispatched invocation.
func (m *Metrics) RecordCommand(ctx context.Context, mode, outcome string) {
	if m == nil {
		return
	}
	m.Commands.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	))
}

// RecordCompile records one compile command.
func (m *Metrics) RecordCompile(ctx context.Context, outcome string, incremental bool) {
	if m == nil {
		return
	}
	m.Compiles.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.Bool("incremental", incremental),
	))
}

// RecordLockWait records time spent acquiring the singleton lock.
func (m *Metrics) RecordLockWait(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.LockWait.Record(ctx, d.Seconds())
}

// RecordPromptWait records the fcsh response time for one command.
func (m *Metrics) RecordPromptWait(ctx context.Context, mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.PromptWait.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("mode", mode)))
}
