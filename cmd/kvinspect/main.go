// Command kvinspect logs every key stored within a single namespace of a
// key/value store.
//
// The store is configured by the STORAGEKIT_* environment variables. The
// namespace and the number of segments in each key are given by
// KVINSPECT_NAMESPACE and KVINSPECT_SEGMENTS.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dogmatiq/ferrite"
	"github.com/dogmatiq/storagekit/internal/storeconfig"
)

var (
	namespace = ferrite.
			String("KVINSPECT_NAMESPACE", "the namespace to inspect").
			Required(ferrite.WithRegistry(storeconfig.FerriteRegistry))

	segments = ferrite.
			Unsigned[uint16]("KVINSPECT_SEGMENTS", "the number of segments in each key, 0 for a single item").
			WithDefault(1).
			Required(ferrite.WithRegistry(storeconfig.FerriteRegistry))
)

func main() {
	ferrite.Init(ferrite.WithRegistry(storeconfig.FerriteRegistry))

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("inspection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := storeconfig.FromEnv(os.Stderr)
	if err != nil {
		return err
	}

	s, closer, err := cfg.Open(ctx)
	if err != nil {
		return err
	}
	defer closer()

	logger := slog.New(
		slog.NewJSONHandler(
			os.Stdout,
			&slog.HandlerOptions{
				Level: slog.LevelInfo,
			},
		),
	)

	return inspect(
		ctx,
		s,
		[]byte(namespace.Value()),
		int(segments.Value()),
		logger,
	)
}
