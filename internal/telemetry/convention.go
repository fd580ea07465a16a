package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ReadDirection is a measurement option that marks data as read from a
	// store.
	ReadDirection = metric.WithAttributeSet(
		attribute.NewSet(
			attribute.String("direction", "read"),
		),
	)

	// WriteDirection is a measurement option that marks data as written to a
	// store.
	WriteDirection = metric.WithAttributeSet(
		attribute.NewSet(
			attribute.String("direction", "write"),
		),
	)
)
