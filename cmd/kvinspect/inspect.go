package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/dogmatiq/storagekit/keys"
	"github.com/dogmatiq/storagekit/kv"
)

// inspect logs each key in the namespace ns of s, split into n segments.
//
// Addresses within the namespace's range that cannot be split into n segments
// belong to some other collection and are logged as warnings.
func inspect(
	ctx context.Context,
	s kv.Reader,
	ns []byte,
	n int,
	logger *slog.Logger,
) error {
	logger = logger.With(slog.String("namespace", quote(ns)))

	if n == 0 {
		v, ok, err := s.Get(ctx, ns)
		if err != nil {
			return err
		}

		if !ok {
			logger.Info("item not found")
			return nil
		}

		logger.Info("item", valueAttrs(v)...)
		return nil
	}

	prefix, err := keys.PrefixAddress(ns, n)
	if err != nil {
		return err
	}

	var (
		interval = keys.PrefixInterval(prefix)
		count    int
		foreign  int
	)

	if err := s.Range(
		ctx,
		interval.Start,
		interval.End,
		kv.Ascending,
		func(ctx context.Context, k, v []byte) (bool, error) {
			segs, err := keys.Split(ns, n, k)
			if err != nil {
				foreign++
				logger.Warn(
					"skipped address",
					slog.String("address", quote(k)),
					slog.String("error", err.Error()),
				)
				return true, nil
			}

			count++

			quoted := make([]any, len(segs))
			for i, seg := range segs {
				quoted[i] = slog.String(strconv.Itoa(i), quote(seg))
			}

			logger.Info(
				"entry",
				append(
					[]any{slog.Group("key", quoted...)},
					valueAttrs(v)...,
				)...,
			)

			return true, nil
		},
	); err != nil {
		return err
	}

	logger.Info(
		"inspection complete",
		slog.Int("entries", count),
		slog.Int("skipped", foreign),
	)

	return nil
}

func valueAttrs(v []byte) []any {
	preview := v
	if len(preview) > 64 {
		preview = preview[:64]
	}

	return []any{
		slog.Int("value_size", len(v)),
		slog.String("value", quote(preview)),
	}
}

func quote(b []byte) string {
	return strconv.QuoteToASCII(string(b))
}
