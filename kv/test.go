package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// RunTests runs tests that confirm a store implementation behaves correctly.
//
// newStore must return a store that contains no keys.
func RunTests(
	t *testing.T,
	newStore func(t *testing.T) Store,
) {
	t.Run("type Store", func(t *testing.T) {
		t.Run("func Get()", func(t *testing.T) {
			t.Run("it returns false if the key doesn't exist", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				v, ok, err := s.Get(ctx, []byte("<key>"))
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					t.Fatal("expected ok to be false")
				}
				if len(v) != 0 {
					t.Fatal("expected zero-length value")
				}
			})

			t.Run("it returns false if the key has been deleted", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				k := []byte("<key>")

				if err := s.Set(ctx, k, []byte("<value>")); err != nil {
					t.Fatal(err)
				}

				if err := s.Delete(ctx, k); err != nil {
					t.Fatal(err)
				}

				_, ok, err := s.Get(ctx, k)
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					t.Fatal("expected ok to be false")
				}
			})

			t.Run("it returns the value if the key exists", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				for i := 0; i < 5; i++ {
					k := []byte(fmt.Sprintf("<key-%d>", i))
					v := []byte(fmt.Sprintf("<value-%d>", i))

					if err := s.Set(ctx, k, v); err != nil {
						t.Fatal(err)
					}
				}

				for i := 0; i < 5; i++ {
					k := []byte(fmt.Sprintf("<key-%d>", i))
					expect := []byte(fmt.Sprintf("<value-%d>", i))

					actual, ok, err := s.Get(ctx, k)
					if err != nil {
						t.Fatal(err)
					}
					if !ok {
						t.Fatal("expected ok to be true")
					}

					if !bytes.Equal(expect, actual) {
						t.Fatalf(
							"unexpected value, want %q, got %q",
							string(expect),
							string(actual),
						)
					}
				}
			})

			t.Run("it returns true for a key associated with an empty value", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				k := []byte("<key>")

				if err := s.Set(ctx, k, nil); err != nil {
					t.Fatal(err)
				}

				v, ok, err := s.Get(ctx, k)
				if err != nil {
					t.Fatal(err)
				}
				if !ok {
					t.Fatal("expected ok to be true")
				}
				if len(v) != 0 {
					t.Fatalf("expected zero-length value, got %q", string(v))
				}
			})

			t.Run("it does not share memory with the caller", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				k := []byte("<key>")
				v := []byte("<value>")

				if err := s.Set(ctx, k, v); err != nil {
					t.Fatal(err)
				}

				v[0] = 'X'

				actual, _, err := s.Get(ctx, k)
				if err != nil {
					t.Fatal(err)
				}

				if string(actual) != "<value>" {
					t.Fatalf("stored value was modified through the caller's slice: %q", string(actual))
				}
			})
		})

		t.Run("func Has()", func(t *testing.T) {
			t.Run("it returns false if the key doesn't exist", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				ok, err := s.Has(ctx, []byte("<key>"))
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					t.Fatal("expected ok to be false")
				}
			})

			t.Run("it returns true if the key exists", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				k := []byte("<key>")

				if err := s.Set(ctx, k, []byte("<value>")); err != nil {
					t.Fatal(err)
				}

				ok, err := s.Has(ctx, k)
				if err != nil {
					t.Fatal(err)
				}
				if !ok {
					t.Fatal("expected ok to be true")
				}
			})

			t.Run("it returns false if the key has been deleted", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				k := []byte("<key>")

				if err := s.Set(ctx, k, []byte("<value>")); err != nil {
					t.Fatal(err)
				}

				if err := s.Delete(ctx, k); err != nil {
					t.Fatal(err)
				}

				ok, err := s.Has(ctx, k)
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					t.Fatal("expected ok to be false")
				}
			})
		})

		t.Run("func Set()", func(t *testing.T) {
			t.Run("it replaces an existing value", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				k := []byte("<key>")

				if err := s.Set(ctx, k, []byte("<value-1>")); err != nil {
					t.Fatal(err)
				}

				if err := s.Set(ctx, k, []byte("<value-2>")); err != nil {
					t.Fatal(err)
				}

				v, _, err := s.Get(ctx, k)
				if err != nil {
					t.Fatal(err)
				}

				if diff := cmp.Diff("<value-2>", string(v)); diff != "" {
					t.Fatal(diff)
				}
			})
		})

		t.Run("func Delete()", func(t *testing.T) {
			t.Run("it does not return an error if the key doesn't exist", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				if err := s.Delete(ctx, []byte("<key>")); err != nil {
					t.Fatal(err)
				}

				if err := s.Delete(ctx, []byte("<key>")); err != nil {
					t.Fatal(err)
				}
			})

			t.Run("it does not affect other keys", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				if err := s.Set(ctx, []byte("<key>"), []byte("<value>")); err != nil {
					t.Fatal(err)
				}

				if err := s.Set(ctx, []byte("<key>x"), []byte("<value>")); err != nil {
					t.Fatal(err)
				}

				if err := s.Delete(ctx, []byte("<key>")); err != nil {
					t.Fatal(err)
				}

				ok, err := s.Has(ctx, []byte("<key>x"))
				if err != nil {
					t.Fatal(err)
				}
				if !ok {
					t.Fatal("expected ok to be true")
				}
			})
		})

		t.Run("func Range()", func(t *testing.T) {
			// keys exercises byte-wise ordering, including keys that are
			// prefixes of one another and bytes above 0x7f.
			keys := []string{
				"\xff",
				"b",
				"a\x00\x01",
				"\x80",
				"a",
				"\xff\xff",
				"ab",
				"\x7f",
				"b\xff",
				"a\x00",
			}

			sorted := []string{
				"a",
				"a\x00",
				"a\x00\x01",
				"ab",
				"b",
				"b\xff",
				"\x7f",
				"\x80",
				"\xff",
				"\xff\xff",
			}

			populate := func(ctx context.Context, t *testing.T, s Store) {
				t.Helper()

				for _, k := range keys {
					if err := s.Set(ctx, []byte(k), []byte("<value "+k+">")); err != nil {
						t.Fatal(err)
					}
				}
			}

			collect := func(
				ctx context.Context,
				t *testing.T,
				s Store,
				start, end []byte,
				o Order,
			) []string {
				t.Helper()

				var got []string
				if err := s.Range(
					ctx,
					start,
					end,
					o,
					func(ctx context.Context, k, v []byte) (bool, error) {
						if want := "<value " + string(k) + ">"; string(v) != want {
							return false, fmt.Errorf("unexpected value for %q: got %q, want %q", k, v, want)
						}
						got = append(got, string(k))
						return true, nil
					},
				); err != nil {
					t.Fatal(err)
				}

				return got
			}

			t.Run("it visits every key in ascending order", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)
				populate(ctx, t, s)

				got := collect(ctx, t, s, nil, nil, Ascending)

				if diff := cmp.Diff(sorted, got); diff != "" {
					t.Fatal(diff)
				}
			})

			t.Run("it visits every key in descending order", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)
				populate(ctx, t, s)

				got := collect(ctx, t, s, nil, nil, Descending)

				var want []string
				for i := len(sorted) - 1; i >= 0; i-- {
					want = append(want, sorted[i])
				}

				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatal(diff)
				}
			})

			t.Run("it includes the start key and excludes the end key", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)
				populate(ctx, t, s)

				got := collect(ctx, t, s, []byte("a\x00"), []byte("b"), Ascending)
				want := []string{"a\x00", "a\x00\x01", "ab"}

				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatal(diff)
				}

				got = collect(ctx, t, s, []byte("a\x00"), []byte("b"), Descending)
				want = []string{"ab", "a\x00\x01", "a\x00"}

				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatal(diff)
				}
			})

			t.Run("it supports a single unbounded side", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)
				populate(ctx, t, s)

				got := collect(ctx, t, s, []byte("\x80"), nil, Ascending)
				want := []string{"\x80", "\xff", "\xff\xff"}

				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatal(diff)
				}

				got = collect(ctx, t, s, nil, []byte("ab"), Descending)
				want = []string{"a\x00\x01", "a\x00", "a"}

				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatal(diff)
				}
			})

			t.Run("it does not visit anything for an empty interval", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)
				populate(ctx, t, s)

				got := collect(ctx, t, s, []byte("c"), []byte("c"), Ascending)
				if len(got) != 0 {
					t.Fatalf("expected no keys, got %q", got)
				}
			})

			t.Run("it stops iterating if the function returns false", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)
				populate(ctx, t, s)

				called := false
				if err := s.Range(
					ctx,
					nil,
					nil,
					Ascending,
					func(ctx context.Context, k, v []byte) (bool, error) {
						if called {
							return false, errors.New("unexpected call")
						}

						called = true
						return false, nil
					},
				); err != nil {
					t.Fatal(err)
				}
			})

			t.Run("it returns the error returned by the function", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)
				populate(ctx, t, s)

				want := errors.New("<error>")
				err := s.Range(
					ctx,
					nil,
					nil,
					Descending,
					func(ctx context.Context, k, v []byte) (bool, error) {
						return true, want
					},
				)
				if !errors.Is(err, want) {
					t.Fatalf("unexpected error: got %v, want %v", err, want)
				}
			})

			t.Run("it visits many keys", func(t *testing.T) {
				t.Parallel()

				ctx, s := setup(t, newStore)

				prefix := uuid.NewString()
				expect := map[string]string{}

				for n := uint64(0); n < 100; n++ {
					k := fmt.Sprintf("%s-%03d", prefix, n)
					v := fmt.Sprintf("<value-%d>", n)
					if err := s.Set(ctx, []byte(k), []byte(v)); err != nil {
						t.Fatal(err)
					}

					expect[k] = v
				}

				actual := map[string]string{}

				if err := s.Range(
					ctx,
					nil,
					nil,
					Ascending,
					func(ctx context.Context, k, v []byte) (bool, error) {
						actual[string(k)] = string(v)
						return true, nil
					},
				); err != nil {
					t.Fatal(err)
				}

				if diff := cmp.Diff(expect, actual); diff != "" {
					t.Fatal(diff)
				}
			})
		})
	})
}

func setup(
	t *testing.T,
	newStore func(t *testing.T) Store,
) (context.Context, Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)

	return ctx, newStore(t)
}
