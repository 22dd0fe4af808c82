// Package mock provides test doubles for norm interfaces using function
// fields.
package mock

import (
	"io"

	"github.com/fwojciec/norm"
)

// Interface compliance check.
var _ norm.Stream = (*Stream)(nil)

// Stream is a test double for norm.Stream.
// NextFn panics when nil to catch missing setup. CloseFn and StateFn are
// nil-safe (no-op and zero value) because test code commonly calls
// defer stream.Close() and these methods rarely need custom behavior.
type Stream struct {
	NextFn  func() (norm.Delta, error)
	StateFn func() norm.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (norm.Delta, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() norm.StreamState {
	if s.StateFn == nil {
		return norm.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Deltas returns a Stream that yields ds in order, then io.EOF.
func Deltas(ds ...norm.Delta) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (norm.Delta, error) {
			if i >= len(ds) {
				return nil, io.EOF
			}
			d := ds[i]
			i++
			return d, nil
		},
	}
}
