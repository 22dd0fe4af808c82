package norm

// Record is one event-stream unit dispatched after a blank line. Event and ID
// are empty when the record did not carry them. Data is the newline-join of
// the record's data lines.
type Record struct {
	Event string
	ID    string
	Data  string
}

// RecordReader produces records from a framed byte stream. Next returns
// io.EOF when the stream is exhausted.
type RecordReader interface {
	Next() (Record, error)
}

// Chunk is what a Translator decodes from a single record.
//
// Deltas are yielded in order. Closed lists tool-call indices whose block
// was explicitly closed by this record and is applied after Deltas. Usage is
// the token usage reported by this record, if any. FinishReason is the raw
// vendor finish string, empty when absent. Done marks an explicit
// end-of-stream indicator.
type Chunk struct {
	Deltas       []Delta
	Closed       []int
	Usage        *Usage
	FinishReason string
	Done         bool
}

// Translator decodes vendor payloads into chunks. A translator may keep
// per-stream state and is owned by one session.
type Translator interface {
	Translate(rec Record) (Chunk, error)
}

// Framing identifies how a vendor frames its payloads on the wire.
type Framing int

const (
	FramingSSE    Framing = iota // Blank-line-terminated event records.
	FramingNDJSON                // One JSON document per line.
)

func (f Framing) String() string {
	switch f {
	case FramingSSE:
		return "sse"
	case FramingNDJSON:
		return "ndjson"
	default:
		return "unknown"
	}
}

// ToolCallPolicy selects how tool-call fragments are finalized.
type ToolCallPolicy int

const (
	// EmitOnClose finalizes a tool call when the vendor closes its block.
	// Calls still open at finish are flushed and flagged as Fallback.
	EmitOnClose ToolCallPolicy = iota
	// EmitAtFinish finalizes every tool call when the stream finishes, in
	// ascending index order.
	EmitAtFinish
)

func (p ToolCallPolicy) String() string {
	switch p {
	case EmitOnClose:
		return "emit-on-close"
	case EmitAtFinish:
		return "emit-at-finish"
	default:
		return "unknown"
	}
}

// ArgumentErrorPolicy selects what happens when tool-call arguments fail to
// parse at finalize time.
type ArgumentErrorPolicy int

const (
	// ArgumentErrorReport yields the failure on ToolCallEnd.Err and continues.
	ArgumentErrorReport ArgumentErrorPolicy = iota
	// ArgumentErrorAbort fails the session.
	ArgumentErrorAbort
)

// Grammar describes one vendor's streaming dialect. It is fixed at session
// construction.
type Grammar struct {
	Name           string
	Framing        Framing
	ToolCalls      ToolCallPolicy
	ArgumentErrors ArgumentErrorPolicy
	FinishReasons  FinishReasonTable
	NewTranslator  func() Translator
}
