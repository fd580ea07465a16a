package keys

// Pair is a composite key made of two components.
type Pair[A, B any] struct {
	K1 A
	K2 B
}

// PairOf returns a codec for pairs of keys.
//
// The pair's segments are those of the first component followed by those of
// the second.
func PairOf[A, B any](a Codec[A], b Codec[B]) PairCodec[A, B] {
	if a == nil || b == nil {
		panic("component codecs must not be nil")
	}
	return PairCodec[A, B]{a, b}
}

// PairCodec is a [Codec] for [Pair] keys.
type PairCodec[A, B any] struct {
	a Codec[A]
	b Codec[B]
}

// Segments returns the total number of segments in a pair.
func (c PairCodec[A, B]) Segments() int {
	return c.a.Segments() + c.b.Segments()
}

// Encode returns the segments that represent k.
func (c PairCodec[A, B]) Encode(k Pair[A, B]) ([][]byte, error) {
	segs, err := c.a.Encode(k.K1)
	if err != nil {
		return nil, err
	}

	tail, err := c.b.Encode(k.K2)
	if err != nil {
		return nil, err
	}

	return append(segs, tail...), nil
}

// Decode returns the pair represented by segs.
func (c PairCodec[A, B]) Decode(segs [][]byte) (Pair[A, B], error) {
	var k Pair[A, B]

	if len(segs) != c.Segments() {
		return k, SegmentCountError{c.Segments(), len(segs)}
	}

	n := c.a.Segments()

	var err error
	if k.K1, err = c.a.Decode(segs[:n]); err != nil {
		return k, err
	}
	if k.K2, err = c.b.Decode(segs[n:]); err != nil {
		return k, err
	}

	return k, nil
}

// Prefix returns the partial key that matches every pair whose first
// component is a.
func (c PairCodec[A, B]) Prefix(a A) Prefix {
	segs, err := c.a.Encode(a)
	return Prefix{segs, err}
}

// Triple is a composite key made of three components.
type Triple[A, B, C any] struct {
	K1 A
	K2 B
	K3 C
}

// TripleOf returns a codec for triples of keys.
func TripleOf[A, B, C any](a Codec[A], b Codec[B], c Codec[C]) TripleCodec[A, B, C] {
	if a == nil || b == nil || c == nil {
		panic("component codecs must not be nil")
	}
	return TripleCodec[A, B, C]{a, b, c}
}

// TripleCodec is a [Codec] for [Triple] keys.
type TripleCodec[A, B, C any] struct {
	a Codec[A]
	b Codec[B]
	c Codec[C]
}

// Segments returns the total number of segments in a triple.
func (c TripleCodec[A, B, C]) Segments() int {
	return c.a.Segments() + c.b.Segments() + c.c.Segments()
}

// Encode returns the segments that represent k.
func (c TripleCodec[A, B, C]) Encode(k Triple[A, B, C]) ([][]byte, error) {
	segs, err := c.Prefix2(k.K1, k.K2).Segments()
	if err != nil {
		return nil, err
	}

	tail, err := c.c.Encode(k.K3)
	if err != nil {
		return nil, err
	}

	return append(segs, tail...), nil
}

// Decode returns the triple represented by segs.
func (c TripleCodec[A, B, C]) Decode(segs [][]byte) (Triple[A, B, C], error) {
	var k Triple[A, B, C]

	if len(segs) != c.Segments() {
		return k, SegmentCountError{c.Segments(), len(segs)}
	}

	i := c.a.Segments()
	j := i + c.b.Segments()

	var err error
	if k.K1, err = c.a.Decode(segs[:i]); err != nil {
		return k, err
	}
	if k.K2, err = c.b.Decode(segs[i:j]); err != nil {
		return k, err
	}
	if k.K3, err = c.c.Decode(segs[j:]); err != nil {
		return k, err
	}

	return k, nil
}

// Prefix returns the partial key that matches every triple whose first
// component is a.
func (c TripleCodec[A, B, C]) Prefix(a A) Prefix {
	segs, err := c.a.Encode(a)
	return Prefix{segs, err}
}

// Prefix2 returns the partial key that matches every triple whose first two
// components are a and b.
func (c TripleCodec[A, B, C]) Prefix2(a A, b B) Prefix {
	segs, err := c.a.Encode(a)
	if err != nil {
		return Prefix{err: err}
	}

	tail, err := c.b.Encode(b)
	if err != nil {
		return Prefix{err: err}
	}

	return Prefix{append(segs, tail...), nil}
}

// Prefix is a partial key: the leading segments of a composite key.
//
// The zero value matches every key.
type Prefix struct {
	segs [][]byte
	err  error
}

// Segments returns the encoded leading segments, or the error that occurred
// while encoding them.
func (p Prefix) Segments() ([][]byte, error) {
	return p.segs, p.err
}
