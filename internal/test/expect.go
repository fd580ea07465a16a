package test

import (
	"errors"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"google.golang.org/protobuf/testing/protocmp"
)

// Expect compares two values and fails the test if they are different.
func Expect[T any](
	t FailerT,
	failMessage string,
	got, want T,
	transforms ...func(T) T,
) {
	t.Helper()

	for _, fn := range transforms {
		got = fn(got)
		want = fn(want)
	}

	if diff := cmp.Diff(
		want,
		got,
		protocmp.Transform(),
		cmpopts.EquateEmpty(),
		cmpopts.EquateErrors(),
	); diff != "" {
		t.Log(failMessage)
		t.Fatal(diff)
	}
}

// ExpectErrorAs fails the test if err does not match target, as per
// [errors.As].
func ExpectErrorAs[E error](
	t FailerT,
	err error,
) E {
	t.Helper()

	var target E
	if !errors.As(err, &target) {
		t.Fatalf("unexpected error: got %v, want %T", err, target)
	}

	return target
}

// ExpectErrorIs fails the test if err does not match target, as per
// [errors.Is].
func ExpectErrorIs(
	t FailerT,
	err, target error,
) {
	t.Helper()

	if !errors.Is(err, target) {
		t.Fatalf("unexpected error: got %v, want %v", err, target)
	}
}
