// Package keys encodes typed keys as ordered byte segments and assembles those
// segments into storage addresses.
//
// An address is built from a namespace and zero or more segments:
//
//   - with no segments the address is the namespace itself
//   - with one segment the address is the namespace followed by the segment
//   - with two or more segments, the namespace and every segment except the
//     last are each preceded by a 2-byte big-endian length
//
// Integers are encoded as fixed-width big-endian values. Signed integers have
// their sign bit flipped so that byte-wise order matches numeric order.
package keys
