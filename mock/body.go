package mock

import (
	"io"
	"sync/atomic"
)

// Interface compliance check.
var _ io.ReadCloser = (*Body)(nil)

// Body is a test double for a response body. ReadFn panics when nil.
// Closes counts Close calls.
type Body struct {
	ReadFn  func(p []byte) (int, error)
	CloseFn func() error

	closes atomic.Int32
}

// Read delegates to ReadFn.
func (b *Body) Read(p []byte) (int, error) {
	return b.ReadFn(p)
}

// Close counts the call and delegates to CloseFn when set.
func (b *Body) Close() error {
	b.closes.Add(1)
	if b.CloseFn == nil {
		return nil
	}
	return b.CloseFn()
}

// Closes returns how many times Close was called.
func (b *Body) Closes() int {
	return int(b.closes.Load())
}

// NewBody returns a Body reading from r.
func NewBody(r io.Reader) *Body {
	return &Body{ReadFn: r.Read}
}
