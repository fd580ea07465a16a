package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span represents a single named and timed operation.
type Span struct {
	recorder *Recorder
	ctx      context.Context
	span     trace.Span
	logger   *slog.Logger
}

// StartSpan starts a new span.
func (r *Recorder) StartSpan(
	ctx context.Context,
	name string,
	attrs ...Attr,
) (context.Context, *Span) {
	set := attrSet{
		Namespace: r.name,
		Attrs:     attrs,
	}

	ctx, span := r.tracer.Start(
		ctx,
		name,
		trace.WithAttributes(set.ForSpan()...),
	)

	extra := []slog.Attr{
		slog.String("span_name", name),
	}

	if sc := span.SpanContext(); sc.HasSpanID() {
		extra = append(extra, slog.String("span_id", sc.SpanID().String()))
	}

	return ctx, &Span{
		recorder: r,
		ctx:      ctx,
		span:     span,
		logger:   r.logger.With(set.ForLogger(extra...)...),
	}
}

// End completes the span.
func (s *Span) End() {
	s.span.End()
}

// SetAttributes sets attributes on the span.
//
// They are included in the span itself and in any subsequent log message.
func (s *Span) SetAttributes(attrs ...Attr) {
	set := s.attrs(attrs)
	s.span.SetAttributes(set.ForSpan()...)
	s.logger = s.logger.With(set.ForLogger()...)
}

// Debug logs a debug-level event.
func (s *Span) Debug(message string, attrs ...Attr) {
	s.event(slog.LevelDebug, message, attrs)
}

// Info logs an info-level event.
func (s *Span) Info(message string, attrs ...Attr) {
	s.event(slog.LevelInfo, message, attrs)
}

// Warn logs a warning-level event.
func (s *Span) Warn(message string, attrs ...Attr) {
	s.event(slog.LevelWarn, message, attrs)
}

// Error logs an error-level event, marks the span as failed and increments
// the "errors" counter.
func (s *Span) Error(message string, err error, attrs ...Attr) {
	set := s.attrs(attrs)

	s.span.SetStatus(codes.Error, err.Error())
	s.span.RecordError(err, trace.WithAttributes(set.ForSpan()...))
	s.recorder.errors.Add(s.ctx, 1)

	s.logger.ErrorContext(
		s.ctx,
		message,
		set.ForLogger(slog.String("error", err.Error()))...,
	)
}

func (s *Span) event(level slog.Level, message string, attrs []Attr) {
	if !s.logger.Enabled(s.ctx, level) {
		return
	}

	set := s.attrs(attrs)
	s.span.AddEvent(message, trace.WithAttributes(set.ForSpan()...))
	s.logger.Log(s.ctx, level, message, set.ForLogger()...)
}

func (s *Span) attrs(attrs []Attr) attrSet {
	return attrSet{
		Namespace: s.recorder.name,
		Attrs:     attrs,
	}
}
