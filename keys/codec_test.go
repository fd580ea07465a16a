package keys_test

import (
	"bytes"
	"testing"

	"github.com/dogmatiq/storagekit/internal/test"
	. "github.com/dogmatiq/storagekit/keys"
	"github.com/google/uuid"
	"golang.org/x/exp/constraints"
	"pgregory.net/rapid"
)

// roundTrip checks that values drawn from gen survive encoding and decoding
// with codec, and that encoding preserves their order.
func roundTrip[K any](
	t *testing.T,
	codec Codec[K],
	gen *rapid.Generator[K],
	cmp func(a, b K) int,
) {
	t.Helper()

	rapid.Check(t, func(t *rapid.T) {
		a := gen.Draw(t, "a")
		b := gen.Draw(t, "b")

		segsA, err := codec.Encode(a)
		if err != nil {
			t.Fatal(err)
		}

		if len(segsA) != codec.Segments() {
			t.Fatalf("got %d segment(s), expected %d", len(segsA), codec.Segments())
		}

		got, err := codec.Decode(segsA)
		if err != nil {
			t.Fatal(err)
		}

		test.Expect(t, "unexpected decoded key", got, a)

		if cmp == nil {
			return
		}

		segsB, err := codec.Encode(b)
		if err != nil {
			t.Fatal(err)
		}

		if got, want := bytes.Compare(segsA[0], segsB[0]), cmp(a, b); got != want {
			t.Fatalf(
				"byte order does not match key order for %v and %v: got %d, want %d",
				a,
				b,
				got,
				want,
			)
		}
	})
}

func compareOrdered[T constraints.Integer](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

func TestCodecs(t *testing.T) {
	t.Parallel()

	t.Run("var String", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, String, rapid.String(), nil)
	})

	t.Run("var Bytes", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, Bytes, rapid.SliceOf(rapid.Byte()), nil)
	})

	t.Run("var UUID", func(t *testing.T) {
		t.Parallel()
		roundTrip(
			t,
			UUID,
			rapid.Custom(func(t *rapid.T) uuid.UUID {
				var id uuid.UUID
				copy(id[:], rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(t, "bytes"))
				return id
			}),
			func(a, b uuid.UUID) int {
				return bytes.Compare(a[:], b[:])
			},
		)
	})

	t.Run("var Uint8", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, Uint8, rapid.Uint8(), compareOrdered[uint8])
	})

	t.Run("var Uint16", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, Uint16, rapid.Uint16(), compareOrdered[uint16])
	})

	t.Run("var Uint32", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, Uint32, rapid.Uint32(), compareOrdered[uint32])
	})

	t.Run("var Uint64", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, Uint64, rapid.Uint64(), compareOrdered[uint64])
	})

	t.Run("var Int8", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, Int8, rapid.Int8(), compareOrdered[int8])
	})

	t.Run("var Int16", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, Int16, rapid.Int16(), compareOrdered[int16])
	})

	t.Run("var Int32", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, Int32, rapid.Int32(), compareOrdered[int32])
	})

	t.Run("var Int64", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, Int64, rapid.Int64(), compareOrdered[int64])
	})

	t.Run("var Uint128", func(t *testing.T) {
		t.Parallel()
		roundTrip(
			t,
			Uint128,
			rapid.Custom(func(t *rapid.T) U128 {
				return U128{
					Hi: rapid.Uint64().Draw(t, "hi"),
					Lo: rapid.Uint64().Draw(t, "lo"),
				}
			}),
			U128.Cmp,
		)
	})

	t.Run("var Int128", func(t *testing.T) {
		t.Parallel()
		roundTrip(
			t,
			Int128,
			rapid.Custom(func(t *rapid.T) I128 {
				return I128{
					Hi: rapid.Int64().Draw(t, "hi"),
					Lo: rapid.Uint64().Draw(t, "lo"),
				}
			}),
			I128.Cmp,
		)
	})

	t.Run("func PairOf()", func(t *testing.T) {
		t.Parallel()

		codec := PairOf(String, Int32)

		roundTrip(
			t,
			Codec[Pair[string, int32]](codec),
			rapid.Custom(func(t *rapid.T) Pair[string, int32] {
				return Pair[string, int32]{
					K1: rapid.String().Draw(t, "k1"),
					K2: rapid.Int32().Draw(t, "k2"),
				}
			}),
			nil,
		)
	})

	t.Run("func TripleOf()", func(t *testing.T) {
		t.Parallel()

		codec := TripleOf(Bytes, Uint8, String)

		roundTrip(
			t,
			Codec[Triple[[]byte, uint8, string]](codec),
			rapid.Custom(func(t *rapid.T) Triple[[]byte, uint8, string] {
				return Triple[[]byte, uint8, string]{
					K1: rapid.SliceOf(rapid.Byte()).Draw(t, "k1"),
					K2: rapid.Uint8().Draw(t, "k2"),
					K3: rapid.String().Draw(t, "k3"),
				}
			}),
			nil,
		)
	})
}

func TestIntegerEncoding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		Name string
		Segs func() ([][]byte, error)
		Want []byte
	}{
		{"uint16", func() ([][]byte, error) { return Uint16.Encode(0x0102) }, []byte{0x01, 0x02}},
		{"uint32", func() ([][]byte, error) { return Uint32.Encode(1) }, []byte{0, 0, 0, 1}},
		{"int8 zero", func() ([][]byte, error) { return Int8.Encode(0) }, []byte{0x80}},
		{"int8 minus one", func() ([][]byte, error) { return Int8.Encode(-1) }, []byte{0x7f}},
		{"int8 min", func() ([][]byte, error) { return Int8.Encode(-128) }, []byte{0x00}},
		{"int8 max", func() ([][]byte, error) { return Int8.Encode(127) }, []byte{0xff}},
		{"int32 minus two", func() ([][]byte, error) { return Int32.Encode(-2) }, []byte{0x7f, 0xff, 0xff, 0xfe}},
		{"int64 one", func() ([][]byte, error) { return Int64.Encode(1) }, []byte{0x80, 0, 0, 0, 0, 0, 0, 1}},
		{
			"int128 minus one",
			func() ([][]byte, error) { return Int128.Encode(I128From64(-1)) },
			append([]byte{0x7f}, bytes.Repeat([]byte{0xff}, 15)...),
		},
		{
			"uint128 one",
			func() ([][]byte, error) { return Uint128.Encode(U128From64(1)) },
			append(make([]byte, 15), 1),
		},
	}

	for _, c := range cases {
		c := c

		t.Run(c.Name, func(t *testing.T) {
			t.Parallel()

			segs, err := c.Segs()
			if err != nil {
				t.Fatal(err)
			}

			test.Expect(t, "unexpected encoding", segs, [][]byte{c.Want})
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	t.Run("it returns an error if an integer segment has the wrong length", func(t *testing.T) {
		t.Parallel()

		_, err := Uint32.Decode([][]byte{{1, 2, 3}})

		got := test.ExpectErrorAs[SegmentLengthError](t, err)
		test.Expect(t, "unexpected error", got, SegmentLengthError{Want: 4, Got: 3})

		_, err = Int128.Decode([][]byte{{1}})
		test.ExpectErrorAs[SegmentLengthError](t, err)
	})

	t.Run("it returns an error if a UUID segment has the wrong length", func(t *testing.T) {
		t.Parallel()

		_, err := UUID.Decode([][]byte{make([]byte, 15)})
		test.ExpectErrorAs[SegmentLengthError](t, err)
	})

	t.Run("it returns an error if a string segment is not valid UTF-8", func(t *testing.T) {
		t.Parallel()

		_, err := String.Decode([][]byte{{0xff, 0xfe}})
		test.ExpectErrorAs[InvalidUTF8Error](t, err)
	})

	t.Run("it returns an error if the wrong number of segments is given", func(t *testing.T) {
		t.Parallel()

		_, err := String.Decode(nil)
		test.ExpectErrorAs[SegmentCountError](t, err)

		_, err = PairOf(String, String).Decode([][]byte{[]byte("a")})
		test.ExpectErrorAs[SegmentCountError](t, err)
	})

	t.Run("it reports errors from components of a composite key", func(t *testing.T) {
		t.Parallel()

		_, err := PairOf(String, Uint16).Decode([][]byte{[]byte("a"), {1}})
		test.ExpectErrorAs[SegmentLengthError](t, err)
	})
}

func TestNestedComposite(t *testing.T) {
	t.Parallel()

	codec := PairOf(PairOf(String, Uint8), String)

	if n := codec.Segments(); n != 3 {
		t.Fatalf("unexpected segment count: got %d, want 3", n)
	}

	k := Pair[Pair[string, uint8], string]{
		K1: Pair[string, uint8]{"a", 1},
		K2: "b",
	}

	segs, err := codec.Encode(k)
	if err != nil {
		t.Fatal(err)
	}

	test.Expect(t, "unexpected segments", segs, [][]byte{[]byte("a"), {1}, []byte("b")})

	got, err := codec.Decode(segs)
	if err != nil {
		t.Fatal(err)
	}

	test.Expect(t, "unexpected key", got, k)
}
