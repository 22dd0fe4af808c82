package toolcall

import (
	"fmt"
	"sync/atomic"

	"github.com/fwojciec/norm"
	"github.com/google/uuid"
)

// Interface compliance checks.
var (
	_ norm.IDGenerator = UUIDs{}
	_ norm.IDGenerator = (*Sequence)(nil)
)

// UUIDs generates random "call_<uuid>" identifiers.
type UUIDs struct{}

// NewID returns a fresh identifier.
func (UUIDs) NewID() string {
	return "call_" + uuid.NewString()
}

// Sequence generates deterministic identifiers "<prefix>0", "<prefix>1", ...
type Sequence struct {
	prefix string
	next   atomic.Int64
}

// NewSequence returns a Sequence using prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s%d", s.prefix, s.next.Add(1)-1)
}
