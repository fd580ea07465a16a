package collection

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotFound is matched by [NotFoundError] when using [errors.Is].
var ErrNotFound = errors.New("not found")

// ErrIndexOverflow is returned when a value is pushed onto a sequence that has
// exhausted the index space at that end.
var ErrIndexOverflow = errors.New("sequence index overflow")

// NotFoundError indicates that there is no value stored at an address.
type NotFoundError struct {
	Address []byte
	Type    string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found at address %x", e.Type, e.Address)
}

// Is returns true if target is [ErrNotFound].
func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DecodeError indicates that the data stored at an address, or the address
// itself, could not be decoded.
type DecodeError struct {
	Address []byte
	Type    string
	Cause   error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf(
		"unable to decode %s at address %x: %s",
		e.Type,
		e.Address,
		e.Cause,
	)
}

func (e DecodeError) Unwrap() error {
	return e.Cause
}

// EncodeError indicates that a key or value could not be encoded.
type EncodeError struct {
	Type  string
	Cause error
}

func (e EncodeError) Error() string {
	return fmt.Sprintf("unable to encode %s: %s", e.Type, e.Cause)
}

func (e EncodeError) Unwrap() error {
	return e.Cause
}

// typeName returns a human-readable name for T, for use in error messages.
func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
