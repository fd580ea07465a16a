package test

import (
	"context"
	"time"
)

// DefaultTimeout is the timeout used by [Context].
const DefaultTimeout = 3 * time.Second

// Context returns a context that is cancelled after [DefaultTimeout] or when
// the test completes, whichever is first.
func Context(t TestingT) context.Context {
	ctx, _ := ContextWithTimeout(t, DefaultTimeout)
	return ctx
}

// ContextWithTimeout returns a context that is cancelled when the test completes.
func ContextWithTimeout(
	t TestingT,
	timeout time.Duration,
) (context.Context, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx, cancel
}
