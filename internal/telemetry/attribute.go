package telemetry

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/exp/constraints"
)

// Attr is a telemetry attribute. It is recorded as a span attribute and as a
// structured log attribute.
type Attr struct {
	kv attribute.KeyValue
}

// String returns a string attribute.
func String[T ~string](k string, v T) Attr {
	return Attr{attribute.String(k, string(v))}
}

// Stringer returns a string attribute containing v.String().
func Stringer(k string, v fmt.Stringer) Attr {
	return String(k, v.String())
}

// Binary returns a string attribute containing v as a quoted ASCII string.
//
// Values longer than 64 bytes are truncated and the key is suffixed with
// "_truncated".
func Binary(k string, v []byte) Attr {
	if len(v) > 64 {
		v = v[:64]
		k += "_truncated"
	}
	return String(k, strconv.QuoteToASCII(string(v)))
}

// Type returns a string attribute containing the name of v's type, with any
// pointer indirection removed.
func Type(k string, v any) Attr {
	t := reflect.TypeOf(v)
	if t == nil {
		return String(k, "<nil>")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return String(k, t.String())
}

// Bool returns a boolean attribute.
func Bool[T ~bool](k string, v T) Attr {
	return Attr{attribute.Bool(k, bool(v))}
}

// Int returns an integer attribute.
func Int[T constraints.Integer](k string, v T) Attr {
	return Attr{attribute.Int64(k, int64(v))}
}

// Float returns a floating-point attribute.
func Float[T constraints.Float](k string, v T) Attr {
	return Attr{attribute.Float64(k, float64(v))}
}

// Duration returns a string attribute containing v in human readable format.
func Duration(k string, v time.Duration) Attr {
	return String(k, v.String())
}

// If returns attr if cond is true, otherwise it returns an empty attribute
// that is not recorded.
func If(cond bool, attr Attr) Attr {
	if cond {
		return attr
	}
	return Attr{}
}

// Key returns the attribute's key, without any namespace.
func (a Attr) Key() string {
	return string(a.kv.Key)
}

func (a Attr) isEmpty() bool {
	return a.kv.Key == ""
}

// attrSet is a set of attributes that share a namespace.
type attrSet struct {
	Namespace string
	Attrs     []Attr
}

func (s attrSet) key(a Attr) string {
	if s.Namespace == "" {
		return string(a.kv.Key)
	}
	return s.Namespace + "." + string(a.kv.Key)
}

// ForSpan returns the attributes as OpenTelemetry key/value pairs.
func (s attrSet) ForSpan() []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(s.Attrs))

	for _, a := range s.Attrs {
		if a.isEmpty() {
			continue
		}

		kvs = append(kvs, attribute.KeyValue{
			Key:   attribute.Key(s.key(a)),
			Value: a.kv.Value,
		})
	}

	return kvs
}

// ForLogger returns the attributes as arguments to an [slog.Logger].
func (s attrSet) ForLogger(extra ...slog.Attr) []any {
	args := make([]any, 0, len(s.Attrs)+len(extra))

	for _, a := range s.Attrs {
		if a.isEmpty() {
			continue
		}

		args = append(args, slog.Attr{
			Key:   s.key(a),
			Value: asSlogValue(a.kv.Value),
		})
	}

	for _, a := range extra {
		args = append(args, a)
	}

	return args
}

func asSlogValue(v attribute.Value) slog.Value {
	switch v.Type() {
	case attribute.BOOL:
		return slog.BoolValue(v.AsBool())
	case attribute.INT64:
		return slog.Int64Value(v.AsInt64())
	case attribute.FLOAT64:
		return slog.Float64Value(v.AsFloat64())
	case attribute.STRING:
		return slog.StringValue(v.AsString())
	default:
		return slog.StringValue(v.Emit())
	}
}
