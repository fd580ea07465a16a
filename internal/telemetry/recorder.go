package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Recorder records traces, metrics and logs for a particular subsystem.
type Recorder struct {
	name   string
	tracer trace.Tracer
	meter  metric.Meter
	logger *slog.Logger

	errors metric.Int64Counter
}

// Int64Counter returns a new monotonic counter instrument.
//
// It panics if the instrument cannot be created.
func (r *Recorder) Int64Counter(name string, options ...metric.Int64CounterOption) metric.Int64Counter {
	inst, err := r.meter.Int64Counter(name, options...)
	if err != nil {
		panic(err)
	}
	return inst
}

// Int64UpDownCounter returns a new counter instrument that can be increased
// and decreased.
//
// It panics if the instrument cannot be created.
func (r *Recorder) Int64UpDownCounter(name string, options ...metric.Int64UpDownCounterOption) metric.Int64UpDownCounter {
	inst, err := r.meter.Int64UpDownCounter(name, options...)
	if err != nil {
		panic(err)
	}
	return inst
}

// Int64Histogram returns a new histogram instrument.
//
// It panics if the instrument cannot be created.
func (r *Recorder) Int64Histogram(name string, options ...metric.Int64HistogramOption) metric.Int64Histogram {
	inst, err := r.meter.Int64Histogram(name, options...)
	if err != nil {
		panic(err)
	}
	return inst
}

// discardHandler is an [slog.Handler] that drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
