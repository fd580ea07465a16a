package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	. "github.com/dogmatiq/storagekit/internal/telemetry"
	"github.com/dogmatiq/storagekit/internal/test"
)

func newProvider(level slog.Level) (*Provider, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &Provider{
		Logger: slog.New(
			slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}),
		),
		Attrs: []Attr{
			String("store", "<name>"),
		},
	}, buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var recs []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatal(err)
		}
		recs = append(recs, rec)
	}

	return recs
}

func TestSpan(t *testing.T) {
	t.Run("it namespaces attributes by recorder name", func(t *testing.T) {
		p, buf := newProvider(slog.LevelDebug)
		r := p.Recorder("github.com/dogmatiq/storagekit/test", "kv")

		_, span := r.StartSpan(
			context.Background(),
			"kv.get",
			String("key", "<key>"),
			If(false, String("hidden", "<value>")),
		)
		span.SetAttributes(Int("value_size", 3))
		span.Debug("fetched value", Bool("found", true))
		span.End()

		recs := records(t, buf)
		if len(recs) != 1 {
			t.Fatalf("unexpected record count: got %d, want 1", len(recs))
		}

		rec := recs[0]
		test.Expect(t, "unexpected message", rec["msg"], any("fetched value"))
		test.Expect(t, "unexpected store attribute", rec["kv.store"], any("<name>"))
		test.Expect(t, "unexpected key attribute", rec["kv.key"], any("<key>"))
		test.Expect(t, "unexpected size attribute", rec["kv.value_size"], any(float64(3)))
		test.Expect(t, "unexpected found attribute", rec["kv.found"], any(true))
		test.Expect(t, "unexpected span name", rec["span_name"], any("kv.get"))

		if _, ok := rec["kv.hidden"]; ok {
			t.Fatal("did not expect a conditional attribute to be logged")
		}
	})

	t.Run("it suppresses events below the logger's level", func(t *testing.T) {
		p, buf := newProvider(slog.LevelInfo)
		r := p.Recorder("github.com/dogmatiq/storagekit/test", "kv")

		_, span := r.StartSpan(context.Background(), "kv.set")
		span.Debug("set key/value pair")
		span.Info("opened store")
		span.End()

		recs := records(t, buf)
		if len(recs) != 1 {
			t.Fatalf("unexpected record count: got %d, want 1", len(recs))
		}
		test.Expect(t, "unexpected message", recs[0]["msg"], any("opened store"))
	})

	t.Run("it logs errors with the error message", func(t *testing.T) {
		p, buf := newProvider(slog.LevelError)
		r := p.Recorder("github.com/dogmatiq/storagekit/test", "kv")

		_, span := r.StartSpan(context.Background(), "kv.delete")
		span.Error("could not delete key", errors.New("<error>"))
		span.End()

		recs := records(t, buf)
		if len(recs) != 1 {
			t.Fatalf("unexpected record count: got %d, want 1", len(recs))
		}
		test.Expect(t, "unexpected level", recs[0]["level"], any("ERROR"))
		test.Expect(t, "unexpected error", recs[0]["error"], any("<error>"))
	})

	t.Run("it does not require a provider", func(t *testing.T) {
		var p *Provider
		r := p.Recorder("github.com/dogmatiq/storagekit/test", "kv")

		_, span := r.StartSpan(context.Background(), "kv.has")
		span.Info("checked for presence of key")
		span.Error("could not check for presence of key", errors.New("<error>"))
		span.End()
	})
}

func TestBinary(t *testing.T) {
	p, buf := newProvider(slog.LevelDebug)
	r := p.Recorder("github.com/dogmatiq/storagekit/test", "kv")

	_, span := r.StartSpan(
		context.Background(),
		"kv.range",
		Binary("start", []byte("a\x00")),
		Binary("end", bytes.Repeat([]byte{'x'}, 100)),
	)
	span.Info("ranging")
	span.End()

	rec := records(t, buf)[0]
	test.Expect(t, "unexpected start", rec["kv.start"], any(`"a\x00"`))

	if _, ok := rec["kv.end_truncated"]; !ok {
		t.Fatal("expected long binary attributes to be truncated")
	}
}
