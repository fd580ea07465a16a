// Package tlog provides an slog handler that writes to a test's log.
package tlog

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/exp/slices"
)

// New returns a logger that writes every record, at any level, to the test's
// log.
func New(t testing.TB) *slog.Logger {
	return slog.New(&handler{T: t})
}

type handler struct {
	T      testing.TB
	attrs  []slog.Attr
	groups []string
}

func (h *handler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *handler) Handle(_ context.Context, rec slog.Record) error {
	var w strings.Builder

	w.WriteString(rec.Level.String())
	w.WriteString(" ")
	w.WriteString(rec.Message)

	attrs := slices.Clone(h.attrs)
	rec.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	prefix := strings.Join(h.groups, ".")
	if prefix != "" {
		prefix += "."
	}

	for _, a := range attrs {
		w.WriteString("  ")
		w.WriteString(prefix)
		w.WriteString(a.Key)
		w.WriteString("=")
		w.WriteString(a.Value.String())
	}

	h.T.Log(w.String())

	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{
		T:      h.T,
		attrs:  append(slices.Clone(h.attrs), attrs...),
		groups: h.groups,
	}
}

func (h *handler) WithGroup(name string) slog.Handler {
	return &handler{
		T:      h.T,
		attrs:  h.attrs,
		groups: append(slices.Clone(h.groups), name),
	}
}
