package keys

import "fmt"

// SegmentLengthError indicates that a fixed-width segment, such as an integer
// or UUID, did not have the expected number of bytes.
type SegmentLengthError struct {
	Want, Got int
}

func (e SegmentLengthError) Error() string {
	return fmt.Sprintf("segment has length %d, expected %d", e.Got, e.Want)
}

// InvalidUTF8Error indicates that a string segment is not valid UTF-8.
type InvalidUTF8Error struct {
	Segment []byte
}

func (e InvalidUTF8Error) Error() string {
	return fmt.Sprintf("segment is not valid UTF-8: %q", e.Segment)
}

// SegmentTooLongError indicates that a namespace or non-final segment is too
// long for its length to be encoded in 2 bytes.
type SegmentTooLongError struct {
	Length int
}

func (e SegmentTooLongError) Error() string {
	return fmt.Sprintf(
		"segment has length %d, which exceeds the maximum of %d",
		e.Length,
		MaxSegmentLength,
	)
}

// SegmentCountError indicates that a codec was given the wrong number of
// segments to decode.
type SegmentCountError struct {
	Want, Got int
}

func (e SegmentCountError) Error() string {
	return fmt.Sprintf("got %d segment(s), expected %d", e.Got, e.Want)
}

// MalformedAddressError indicates that an address could not be split into
// segments.
type MalformedAddressError struct {
	Address []byte
	Reason  string
}

func (e MalformedAddressError) Error() string {
	return fmt.Sprintf("malformed address %x: %s", e.Address, e.Reason)
}
