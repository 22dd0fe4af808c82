package norm

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, yielding deltas.
	StreamStateComplete                     // FinishSignal yielded; Next() returns io.EOF.
	StreamStateError                        // Next() returned a non-EOF error.
	StreamStateClosed                       // Close() called before a terminal state.
)

func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateError:
		return "error"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream is a forward-only, pull-based sequence of deltas over one transport
// stream. Cancellation flows through the context the stream was opened with.
//
// Next returns deltas in arrival order. After the single FinishSignal it
// returns io.EOF. Any other error is terminal and is returned again on every
// later call. Close releases the transport; it is safe to call more than once
// and at any point, including before the stream is drained.
//
// A Stream is not safe for concurrent use.
type Stream interface {
	Next() (Delta, error)
	State() StreamState
	Close() error
}
