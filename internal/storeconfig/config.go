// Package storeconfig opens a [kv.Store] described by environment variables.
package storeconfig

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/dogmatiq/ferrite"
	"github.com/dogmatiq/storagekit/internal/telemetry"
	"go.opentelemetry.io/otel"
)

// FerriteRegistry is a registry of the environment variables used to
// configure a store.
var FerriteRegistry = ferrite.NewRegistry(
	"dogmatiq.storagekit",
	"StorageKit",
	ferrite.WithDocumentationURL("https://github.com/dogmatiq/storagekit#readme"),
)

var (
	// storeDSN is the DSN describing which key/value store to use.
	//
	// DSNs such as "memory:" and "leveldb:///path" have no host, which
	// ferrite's URL variables reject, so it is parsed by [newConfig].
	storeDSN = ferrite.
			String("STORAGEKIT_DSN", "the DSN of the key/value store").
			Optional(ferrite.WithRegistry(FerriteRegistry))

	// storeName distinguishes stores that share a table.
	storeName = ferrite.
			String("STORAGEKIT_STORE_NAME", "the name of the store within a shared table").
			WithDefault("default").
			Optional(ferrite.WithRegistry(FerriteRegistry))

	debugLogging = ferrite.
			Bool("STORAGEKIT_DEBUG", "enable debug logging").
			WithDefault(false).
			Optional(ferrite.WithRegistry(FerriteRegistry))
)

// ErrNoDSN is returned by [FromEnv] when STORAGEKIT_DSN is not set.
var ErrNoDSN = errors.New("no key/value store is configured, set STORAGEKIT_DSN")

// Config describes a key/value store and the telemetry recorded when using it.
type Config struct {
	// DSN describes the driver and its connection parameters.
	DSN *url.URL

	// Name is the name of the store, used by drivers that share a single table
	// between many stores.
	Name string

	// Telemetry is the provider used to instrument the store.
	Telemetry *telemetry.Provider
}

// FromEnv returns the configuration described by the environment.
//
// Logs are written to w as JSON.
func FromEnv(w io.Writer) (Config, error) {
	dsn, ok := storeDSN.Value()
	if !ok {
		return Config{}, ErrNoDSN
	}

	name, _ := storeName.Value()
	debug, _ := debugLogging.Value()

	return newConfig(w, dsn, name, debug)
}

// newConfig returns the configuration described by the given variable values.
func newConfig(w io.Writer, dsn, name string, debug bool) (Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Config{}, fmt.Errorf("STORAGEKIT_DSN is not a valid URL: %w", err)
	}

	if u.Scheme == "" {
		return Config{}, fmt.Errorf("STORAGEKIT_DSN must have a scheme: %q", dsn)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	if w == nil {
		w = os.Stderr
	}

	return Config{
		DSN:  u,
		Name: name,
		Telemetry: &telemetry.Provider{
			TracerProvider: otel.GetTracerProvider(),
			MeterProvider:  otel.GetMeterProvider(),
			Logger: slog.New(
				slog.NewJSONHandler(
					w,
					&slog.HandlerOptions{
						Level: level,
					},
				),
			),
		},
	}, nil
}
