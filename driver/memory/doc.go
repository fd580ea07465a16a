// Package memory provides an in-memory implementation of [kv.Store].
//
// It is intended for testing and for applications that do not need their
// state to survive a restart.
package memory

import "github.com/dogmatiq/storagekit/kv"

var _ kv.Store = (*Store)(nil)
