package test

import "sync/atomic"

// FailOnce returns a function that returns err the first time it is called
// and nil on every call after that.
//
// It is typically used to inject a single failure into a store decorator.
func FailOnce(err error) func() error {
	var failed atomic.Bool

	return func() error {
		if failed.CompareAndSwap(false, true) {
			return err
		}
		return nil
	}
}
