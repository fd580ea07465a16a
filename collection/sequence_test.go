package collection_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dogmatiq/storagekit/codec"
	. "github.com/dogmatiq/storagekit/collection"
	"github.com/dogmatiq/storagekit/driver/memory"
	"github.com/dogmatiq/storagekit/internal/test"
	"github.com/dogmatiq/storagekit/kv"
	"pgregory.net/rapid"
)

func collect[T any](
	ctx context.Context,
	t test.FailerT,
	r kv.Reader,
	seq interface {
		Range(context.Context, kv.Reader, kv.Order, func(context.Context, uint64, T) (bool, error)) error
	},
	o kv.Order,
) []T {
	t.Helper()

	var values []T

	if err := seq.Range(
		ctx,
		r,
		o,
		func(_ context.Context, _ uint64, v T) (bool, error) {
			values = append(values, v)
			return true, nil
		},
	); err != nil {
		t.Fatal(err)
	}

	return values
}

func TestAppendStore(t *testing.T) {
	t.Parallel()

	store := NewAppendStore("numbers", codec.Uint64)

	t.Run("it continues indexing after values are popped from the front", func(t *testing.T) {
		t.Parallel()

		ctx := test.Context(t)
		s := &memory.Store{}

		for _, v := range []uint64{10, 20} {
			if _, err := store.PushBack(ctx, s, v); err != nil {
				t.Fatal(err)
			}
		}

		v, ok, err := store.PopFront(ctx, s)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("expected ok to be true")
		}
		test.Expect(t, "unexpected popped value", v, 10)

		test.Expect(
			t,
			"unexpected remaining values",
			collect[uint64](ctx, t, s, store, kv.Ascending),
			[]uint64{20},
		)

		_, ok, err = store.Get(ctx, s, 0)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("did not expect index 0 to be present")
		}

		v, ok, err = store.Get(ctx, s, 1)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("expected index 1 to be present")
		}
		test.Expect(t, "unexpected value", v, 20)

		head, tail, err := store.Bounds(ctx, s)
		if err != nil {
			t.Fatal(err)
		}
		test.Expect(t, "unexpected head", head, 1)
		test.Expect(t, "unexpected tail", tail, 2)
	})

	t.Run("func PushBack()", func(t *testing.T) {
		t.Run("it returns the index of the new value", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t)
			s := &memory.Store{}

			for want := uint64(0); want < 3; want++ {
				got, err := store.PushBack(ctx, s, want*10)
				if err != nil {
					t.Fatal(err)
				}

				test.Expect(t, "unexpected index", got, want)
			}

			n, err := store.Len(ctx, s)
			if err != nil {
				t.Fatal(err)
			}
			test.Expect(t, "unexpected length", n, 3)
		})

		t.Run("it returns an error when the index space is exhausted", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t)
			s := &memory.Store{}

			if err := s.Set(ctx, []byte("numbershead"), codecBytes(math.MaxUint64)); err != nil {
				t.Fatal(err)
			}

			if err := s.Set(ctx, []byte("numberstail"), codecBytes(math.MaxUint64)); err != nil {
				t.Fatal(err)
			}

			_, err := store.PushBack(ctx, s, 1)
			if !errors.Is(err, ErrIndexOverflow) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	})

	t.Run("func PopBack()", func(t *testing.T) {
		t.Run("it returns false when the store is empty", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t)
			s := &memory.Store{}

			_, ok, err := store.PopBack(ctx, s)
			if err != nil {
				t.Fatal(err)
			}
			if ok {
				t.Fatal("expected ok to be false")
			}

			if n := s.Len(); n != 0 {
				t.Fatalf("expected no writes, store has %d key(s)", n)
			}
		})

		t.Run("it removes values in reverse order", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t)
			s := &memory.Store{}

			for _, v := range []uint64{1, 2, 3} {
				if _, err := store.PushBack(ctx, s, v); err != nil {
					t.Fatal(err)
				}
			}

			for _, want := range []uint64{3, 2, 1} {
				got, ok, err := store.PopBack(ctx, s)
				if err != nil {
					t.Fatal(err)
				}
				if !ok {
					t.Fatal("expected ok to be true")
				}
				test.Expect(t, "unexpected value", got, want)
			}

			empty, err := store.IsEmpty(ctx, s)
			if err != nil {
				t.Fatal(err)
			}
			if !empty {
				t.Fatal("expected the store to be empty")
			}
		})
	})

	t.Run("func MustGet()", func(t *testing.T) {
		t.Run("it returns a not-found error for an index outside the bounds", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t)
			s := &memory.Store{}

			if _, err := store.PushBack(ctx, s, 1); err != nil {
				t.Fatal(err)
			}

			_, err := store.MustGet(ctx, s, 1)
			test.ExpectErrorIs(t, err, ErrNotFound)

			v, err := store.MustGet(ctx, s, 0)
			if err != nil {
				t.Fatal(err)
			}
			test.Expect(t, "unexpected value", v, 1)
		})
	})

	t.Run("func Set()", func(t *testing.T) {
		t.Run("it replaces the value at an existing index", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t)
			s := &memory.Store{}

			for _, v := range []uint64{1, 2} {
				if _, err := store.PushBack(ctx, s, v); err != nil {
					t.Fatal(err)
				}
			}

			if err := store.Set(ctx, s, 1, 20); err != nil {
				t.Fatal(err)
			}

			test.Expect(
				t,
				"unexpected values",
				collect[uint64](ctx, t, s, store, kv.Ascending),
				[]uint64{1, 20},
			)
		})

		t.Run("it returns a not-found error for an index outside the bounds", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t)
			s := &memory.Store{}

			err := store.Set(ctx, s, 0, 1)
			test.ExpectErrorIs(t, err, ErrNotFound)

			if n := s.Len(); n != 0 {
				t.Fatalf("expected no writes, store has %d key(s)", n)
			}
		})
	})

	t.Run("func Front() and func Back()", func(t *testing.T) {
		t.Parallel()

		ctx := test.Context(t)
		s := &memory.Store{}

		if _, ok, err := store.Front(ctx, s); err != nil || ok {
			t.Fatalf("unexpected result for an empty store: ok=%t, err=%v", ok, err)
		}

		for _, v := range []uint64{1, 2, 3} {
			if _, err := store.PushBack(ctx, s, v); err != nil {
				t.Fatal(err)
			}
		}

		front, _, err := store.Front(ctx, s)
		if err != nil {
			t.Fatal(err)
		}
		test.Expect(t, "unexpected front", front, 1)

		back, _, err := store.Back(ctx, s)
		if err != nil {
			t.Fatal(err)
		}
		test.Expect(t, "unexpected back", back, 3)
	})

	t.Run("func Range()", func(t *testing.T) {
		t.Run("it visits the values in both orders", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t)
			s := &memory.Store{}

			// Start the indices just below "head", so that the counters sort
			// among the elements.
			start := uint64(0x68656164)<<32 - 1
			if err := s.Set(ctx, []byte("numbershead"), codecBytes(start)); err != nil {
				t.Fatal(err)
			}
			if err := s.Set(ctx, []byte("numberstail"), codecBytes(start)); err != nil {
				t.Fatal(err)
			}

			for _, v := range []uint64{1, 2, 3} {
				if _, err := store.PushBack(ctx, s, v); err != nil {
					t.Fatal(err)
				}
			}

			test.Expect(
				t,
				"unexpected ascending values",
				collect[uint64](ctx, t, s, store, kv.Ascending),
				[]uint64{1, 2, 3},
			)

			test.Expect(
				t,
				"unexpected descending values",
				collect[uint64](ctx, t, s, store, kv.Descending),
				[]uint64{3, 2, 1},
			)
		})

		t.Run("it does not visit anything when the store is empty", func(t *testing.T) {
			t.Parallel()

			ctx := test.Context(t)
			s := &memory.Store{}

			if got := collect[uint64](ctx, t, s, store, kv.Ascending); len(got) != 0 {
				t.Fatalf("unexpected values: %v", got)
			}
		})
	})
}

func TestDequeStore(t *testing.T) {
	t.Parallel()

	deque := NewDequeStore("deque", codec.String)

	t.Run("it behaves like a double-ended queue", func(t *testing.T) {
		t.Parallel()

		rapid.Check(t, func(t *rapid.T) {
			ctx := context.Background()
			s := &memory.Store{}

			var model []string

			t.Repeat(
				map[string]func(*rapid.T){
					"push front": func(t *rapid.T) {
						v := rapid.String().Draw(t, "value")

						if _, err := deque.PushFront(ctx, s, v); err != nil {
							t.Fatal(err)
						}

						model = append([]string{v}, model...)
					},
					"push back": func(t *rapid.T) {
						v := rapid.String().Draw(t, "value")

						if _, err := deque.PushBack(ctx, s, v); err != nil {
							t.Fatal(err)
						}

						model = append(model, v)
					},
					"pop front": func(t *rapid.T) {
						v, ok, err := deque.PopFront(ctx, s)
						if err != nil {
							t.Fatal(err)
						}

						if len(model) == 0 {
							if ok {
								t.Fatal("expected ok to be false")
							}
							return
						}

						test.Expect(t, "unexpected value", v, model[0])
						model = model[1:]
					},
					"pop back": func(t *rapid.T) {
						v, ok, err := deque.PopBack(ctx, s)
						if err != nil {
							t.Fatal(err)
						}

						if len(model) == 0 {
							if ok {
								t.Fatal("expected ok to be false")
							}
							return
						}

						test.Expect(t, "unexpected value", v, model[len(model)-1])
						model = model[:len(model)-1]
					},
					"": func(t *rapid.T) {
						n, err := deque.Len(ctx, s)
						if err != nil {
							t.Fatal(err)
						}

						if n != uint64(len(model)) {
							t.Fatalf("unexpected length: got %d, want %d", n, len(model))
						}

						test.Expect(
							t,
							"unexpected values",
							collect[string](ctx, t, s, deque, kv.Ascending),
							model,
						)
					},
				},
			)
		})
	})

	t.Run("it starts indexing in the middle of the index space", func(t *testing.T) {
		t.Parallel()

		ctx := test.Context(t)
		s := &memory.Store{}

		i, err := deque.PushBack(ctx, s, "<back>")
		if err != nil {
			t.Fatal(err)
		}
		test.Expect(t, "unexpected index", i, 1<<63)

		i, err = deque.PushFront(ctx, s, "<front>")
		if err != nil {
			t.Fatal(err)
		}
		test.Expect(t, "unexpected index", i, 1<<63-1)

		v, ok, err := deque.Get(ctx, s, 1<<63-1)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("expected ok to be true")
		}
		test.Expect(t, "unexpected value", v, "<front>")
	})

	t.Run("it returns an error when the front of the index space is exhausted", func(t *testing.T) {
		t.Parallel()

		ctx := test.Context(t)
		s := &memory.Store{}

		if err := s.Set(ctx, []byte("dequehead"), codecBytes(0)); err != nil {
			t.Fatal(err)
		}

		_, err := deque.PushFront(ctx, s, "<value>")
		if !errors.Is(err, ErrIndexOverflow) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("it can be registered", func(t *testing.T) {
		t.Parallel()

		var r Registry
		if err := r.Register(deque); err != nil {
			t.Fatal(err)
		}
	})
}

func codecBytes(v uint64) []byte {
	data, err := codec.Uint64.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

// failingStore is a [kv.Store] that returns an error from the first write to
// a specific address.
type failingStore struct {
	kv.Store
	addr []byte
	fail func() error
}

func (s *failingStore) Set(ctx context.Context, k, v []byte) error {
	if bytes.Equal(k, s.addr) {
		if err := s.fail(); err != nil {
			return err
		}
	}
	return s.Store.Set(ctx, k, v)
}

func TestAppendStore_tailWriteFailure(t *testing.T) {
	t.Parallel()

	ctx := test.Context(t)
	store := NewAppendStore("letters", codec.String)

	s := &failingStore{
		Store: &memory.Store{},
		addr:  []byte("letterstail"),
		fail:  func() error { return nil },
	}

	if _, err := store.PushBack(ctx, s, "a"); err != nil {
		t.Fatal(err)
	}

	want := errors.New("<error>")
	s.fail = test.FailOnce(want)

	_, err := store.PushBack(ctx, s, "b")
	test.ExpectErrorIs(t, err, want)

	head, tail, err := store.Bounds(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	test.Expect(t, "unexpected head", head, 0)
	test.Expect(t, "unexpected tail", tail, 1)

	v, ok, err := store.Back(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected the sequence to be non-empty")
	}
	test.Expect(t, "unexpected back value", v, "a")

	i, err := store.PushBack(ctx, s, "c")
	if err != nil {
		t.Fatal(err)
	}
	test.Expect(t, "unexpected index", i, 1)

	test.Expect(
		t,
		"unexpected values",
		collect[string](ctx, t, s, store, kv.Ascending),
		[]string{"a", "c"},
	)
}
