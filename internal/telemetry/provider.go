package telemetry

import (
	"log/slog"
	"runtime/debug"

	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// Provider provides Recorder instances scoped to particular subsystems.
//
// The zero value discards all telemetry. A nil *Provider is also valid.
type Provider struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Logger         *slog.Logger
	Attrs          []Attr
}

// Recorder returns a new Recorder for the package at the given import path.
//
// name is used as the namespace of every attribute that the recorder emits.
func (p *Provider) Recorder(pkg, name string, attrs ...Attr) *Recorder {
	var (
		tracerProvider trace.TracerProvider = nooptrace.NewTracerProvider()
		meterProvider  metric.MeterProvider = noopmetric.NewMeterProvider()
		logger                              = slog.New(discardHandler{})
	)

	if p != nil {
		if p.TracerProvider != nil {
			tracerProvider = p.TracerProvider
		}
		if p.MeterProvider != nil {
			meterProvider = p.MeterProvider
		}
		if p.Logger != nil {
			logger = p.Logger
		}

		attrs = append(append([]Attr(nil), p.Attrs...), attrs...)
	}

	set := attrSet{
		Namespace: name,
		Attrs:     attrs,
	}

	r := &Recorder{
		name: name,
		tracer: tracerProvider.Tracer(
			pkg,
			trace.WithInstrumentationVersion(moduleVersion),
			trace.WithInstrumentationAttributes(set.ForSpan()...),
		),
		meter: meterProvider.Meter(
			pkg,
			metric.WithInstrumentationVersion(moduleVersion),
			metric.WithInstrumentationAttributes(set.ForSpan()...),
		),
		logger: logger.With(set.ForLogger()...),
	}

	r.errors = r.Int64Counter(
		"errors",
		metric.WithDescription("The number of errors that have occurred."),
		metric.WithUnit("{error}"),
	)

	return r
}

// moduleVersion is the version of this module, as recorded in the build info
// of the binary that imports it.
var moduleVersion = func() string {
	const modulePath = "github.com/dogmatiq/storagekit"

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Path == modulePath && info.Main.Version != "" {
			return info.Main.Version
		}
		for _, dep := range info.Deps {
			if dep.Path == modulePath {
				return dep.Version
			}
		}
	}

	return "unknown"
}()
