// Package instrumentedkv provides a [kv.Store] decorator that records traces,
// metrics and logs.
package instrumentedkv

import (
	"context"
	"sync"

	"github.com/dogmatiq/storagekit/internal/telemetry"
	"github.com/dogmatiq/storagekit/kv"
	"go.opentelemetry.io/otel/metric"
)

// Store is a decorator that adds instrumentation to a [kv.Store].
type Store struct {
	Next      kv.Store
	Telemetry *telemetry.Provider

	once      sync.Once
	recorder  *telemetry.Recorder
	dataIO    metric.Int64Counter
	pairIO    metric.Int64Counter
	keySize   metric.Int64Histogram
	valueSize metric.Int64Histogram
}

func (s *Store) init() {
	s.once.Do(func() {
		r := s.Telemetry.Recorder(
			"github.com/dogmatiq/storagekit/kv",
			"kv",
			telemetry.Type("driver", s.Next),
			telemetry.String("handle", handleID()),
		)

		s.recorder = r
		s.dataIO = r.Int64Counter(
			"io",
			metric.WithDescription("The cumulative size of the keys and values that have been read and written."),
			metric.WithUnit("By"),
		)
		s.pairIO = r.Int64Counter(
			"pair.io",
			metric.WithDescription("The number of key/value pairs that have been read and written."),
			metric.WithUnit("{pair}"),
		)
		s.keySize = r.Int64Histogram(
			"key.size",
			metric.WithDescription("The sizes of the keys that have been read and written."),
			metric.WithUnit("By"),
		)
		s.valueSize = r.Int64Histogram(
			"value.size",
			metric.WithDescription("The sizes of the values that have been read and written."),
			metric.WithUnit("By"),
		)
	})
}

// Get returns the value associated with k.
func (s *Store) Get(ctx context.Context, k []byte) ([]byte, bool, error) {
	s.init()

	keySize := int64(len(k))

	ctx, span := s.recorder.StartSpan(
		ctx,
		"kv.get",
		keyAttr("key", k),
		telemetry.Int("key_size", keySize),
	)
	defer span.End()

	s.dataIO.Add(ctx, keySize, telemetry.WriteDirection)
	s.keySize.Record(ctx, keySize, telemetry.WriteDirection)

	v, ok, err := s.Next.Get(ctx, k)
	if err != nil {
		span.Error("could not fetch value", err)
		return nil, false, err
	}

	if !ok {
		span.SetAttributes(telemetry.Bool("key_present", false))
		span.Debug("key not found")
		return nil, false, nil
	}

	valueSize := int64(len(v))

	span.SetAttributes(
		telemetry.Bool("key_present", true),
		keyAttr("value", v),
		telemetry.Int("value_size", valueSize),
	)

	s.pairIO.Add(ctx, 1, telemetry.ReadDirection)
	s.dataIO.Add(ctx, valueSize, telemetry.ReadDirection)
	s.valueSize.Record(ctx, valueSize, telemetry.ReadDirection)

	span.Debug("fetched value")

	return v, true, nil
}

// Has returns true if k is present in the store.
func (s *Store) Has(ctx context.Context, k []byte) (bool, error) {
	s.init()

	keySize := int64(len(k))

	ctx, span := s.recorder.StartSpan(
		ctx,
		"kv.has",
		keyAttr("key", k),
		telemetry.Int("key_size", keySize),
	)
	defer span.End()

	s.dataIO.Add(ctx, keySize, telemetry.WriteDirection)
	s.keySize.Record(ctx, keySize, telemetry.WriteDirection)

	ok, err := s.Next.Has(ctx, k)
	if err != nil {
		span.Error("could not check for presence of key", err)
		return false, err
	}

	span.SetAttributes(telemetry.Bool("key_present", ok))
	span.Debug("checked for presence of key")

	return ok, nil
}

// Set associates a value with k.
func (s *Store) Set(ctx context.Context, k, v []byte) error {
	s.init()

	keySize := int64(len(k))
	valueSize := int64(len(v))

	ctx, span := s.recorder.StartSpan(
		ctx,
		"kv.set",
		keyAttr("key", k),
		telemetry.Int("key_size", keySize),
		keyAttr("value", v),
		telemetry.Int("value_size", valueSize),
	)
	defer span.End()

	s.dataIO.Add(ctx, keySize+valueSize, telemetry.WriteDirection)
	s.pairIO.Add(ctx, 1, telemetry.WriteDirection)
	s.keySize.Record(ctx, keySize, telemetry.WriteDirection)
	s.valueSize.Record(ctx, valueSize, telemetry.WriteDirection)

	if err := s.Next.Set(ctx, k, v); err != nil {
		span.Error("could not set key/value pair", err)
		return err
	}

	span.Debug("set key/value pair")

	return nil
}

// Delete removes k from the store.
func (s *Store) Delete(ctx context.Context, k []byte) error {
	s.init()

	keySize := int64(len(k))

	ctx, span := s.recorder.StartSpan(
		ctx,
		"kv.delete",
		keyAttr("key", k),
		telemetry.Int("key_size", keySize),
	)
	defer span.End()

	s.dataIO.Add(ctx, keySize, telemetry.WriteDirection)
	s.keySize.Record(ctx, keySize, telemetry.WriteDirection)

	if err := s.Next.Delete(ctx, k); err != nil {
		span.Error("could not delete key", err)
		return err
	}

	span.Debug("deleted key")

	return nil
}

// Range invokes fn for each key in the half-open interval [start, end).
func (s *Store) Range(
	ctx context.Context,
	start, end []byte,
	o kv.Order,
	fn kv.RangeFunc,
) error {
	s.init()

	ctx, span := s.recorder.StartSpan(
		ctx,
		"kv.range",
		telemetry.If(start != nil, telemetry.Binary("start", start)),
		telemetry.If(end != nil, telemetry.Binary("end", end)),
		telemetry.Stringer("order", o),
	)
	defer span.End()

	var (
		count     int64
		totalSize int64
		brokeLoop bool
	)

	span.Debug("reading key/value pairs")

	err := s.Next.Range(
		ctx,
		start, end,
		o,
		func(ctx context.Context, k, v []byte) (bool, error) {
			count++

			keySize := int64(len(k))
			valueSize := int64(len(v))
			totalSize += keySize + valueSize

			s.dataIO.Add(ctx, keySize+valueSize, telemetry.ReadDirection)
			s.pairIO.Add(ctx, 1, telemetry.ReadDirection)
			s.keySize.Record(ctx, keySize, telemetry.ReadDirection)
			s.valueSize.Record(ctx, valueSize, telemetry.ReadDirection)

			ok, err := fn(ctx, k, v)
			if ok || err != nil {
				return ok, err
			}

			brokeLoop = true
			return false, nil
		},
	)

	span.SetAttributes(
		telemetry.Int("pairs_read", count),
		telemetry.Int("bytes_read", totalSize),
		telemetry.Bool("reached_end", !brokeLoop && err == nil),
	)

	if err != nil {
		span.Error("could not read key/value pairs", err)
		return err
	}

	span.Debug("completed reading key/value pairs")

	return nil
}

// keyAttr returns an attribute containing k if it is short printable ASCII.
func keyAttr(name string, k []byte) telemetry.Attr {
	return telemetry.If(
		isShortASCII(k),
		telemetry.String(name, string(k)),
	)
}

// isShortASCII returns true if k is a non-empty ASCII string short enough that
// it may be included as a telemetry attribute.
func isShortASCII(k []byte) bool {
	if len(k) == 0 || len(k) > 128 {
		return false
	}

	for _, octet := range k {
		if octet < ' ' || octet > '~' {
			return false
		}
	}

	return true
}
