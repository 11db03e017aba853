// Package wire decouples what a mapper sends or parses from how it is
// encoded or decoded. A Serializable defers encoding until the transport
// boundary needs bytes; a Deserializable defers and memoizes decoding so
// error normalization and success parsing share one parse of the same
// response. Both carry an operation-scoped Context threading side-channel
// metadata from request building to response parsing without global state.
package wire

import (
	"sync"
)

// Context carries auxiliary key/value data computed during request building
// that the response parser needs again (e.g. a shipment id discovered while
// building the request). It is owned by one build/parse cycle and never
// shared across concurrent translations.
type Context map[string]any

// String returns the string value under key, or "" when absent or not a
// string.
func (c Context) String(key string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the int value under key, or 0 when absent or not an int.
func (c Context) Int(key string) int {
	if v, ok := c[key].(int); ok {
		return v
	}
	return 0
}

// Serializable holds a structured payload and the function that turns it
// into wire bytes. Serialize is expected to be invoked exactly once per
// request, by the transport caller.
type Serializable[T any] struct {
	payload T
	encode  func(T) ([]byte, error)
	ctx     Context
}

// NewSerializable wraps a payload with its encoder. An optional context maps
// build-time metadata through to parsing.
func NewSerializable[T any](payload T, encode func(T) ([]byte, error), ctx ...Context) *Serializable[T] {
	s := &Serializable[T]{payload: payload, encode: encode}
	if len(ctx) > 0 {
		s.ctx = ctx[0]
	}
	return s
}

// Payload returns the structured payload without encoding it.
func (s *Serializable[T]) Payload() T { return s.payload }

// Context returns the build-time metadata, nil when none was attached.
func (s *Serializable[T]) Context() Context { return s.ctx }

// Serialize encodes the payload to wire bytes. Encoding failures propagate
// to the caller as translation errors; the envelope never substitutes an
// empty payload.
func (s *Serializable[T]) Serialize() ([]byte, error) {
	return s.encode(s.payload)
}

// Deserializable holds raw response bytes and the function that turns them
// into structured data. Decoding is lazy and memoized per instance: every
// Deserialize call after the first returns the identical result without
// re-parsing.
type Deserializable[T any] struct {
	raw    []byte
	decode func([]byte) (T, error)
	ctx    Context

	once  sync.Once
	value T
	err   error
}

// NewDeserializable wraps raw response bytes with their decoder and the
// context handed over from the request's Serializable.
func NewDeserializable[T any](raw []byte, decode func([]byte) (T, error), ctx ...Context) *Deserializable[T] {
	d := &Deserializable[T]{raw: raw, decode: decode}
	if len(ctx) > 0 {
		d.ctx = ctx[0]
	}
	return d
}

// Raw returns the raw response bytes.
func (d *Deserializable[T]) Raw() []byte { return d.raw }

// Context returns the metadata threaded from request building.
func (d *Deserializable[T]) Context() Context { return d.ctx }

// Deserialize decodes the raw bytes, invoking the decoder at most once.
// Decoding failures are memoized and propagate on every call.
func (d *Deserializable[T]) Deserialize() (T, error) {
	d.once.Do(func() {
		d.value, d.err = d.decode(d.raw)
	})
	return d.value, d.err
}
