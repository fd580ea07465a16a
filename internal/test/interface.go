package test

import (
	"testing"

	"pgregory.net/rapid"
)

// FailerT is the part of [testing.TB] needed to report a failure. It is also
// satisfied by [rapid.T] so that helpers work inside property checks.
type FailerT interface {
	Helper()
	Log(...any)
	Fatal(...any)
	Fatalf(string, ...any)
}

// TestingT is the part of [testing.TB] needed by helpers that register
// cleanup functions.
type TestingT interface {
	FailerT
	Cleanup(func())
}

var (
	_ TestingT = (testing.TB)(nil)
	_ FailerT  = (*rapid.T)(nil)
)
