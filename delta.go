package norm

// Delta is a sealed interface representing one canonical unit of streamed
// output. Deltas are purely semantic. Transport and payload errors come from
// Next()'s error return, not from deltas.
// The unexported marker method prevents external implementations.
type Delta interface {
	delta()
}

// TextDelta represents a text content fragment.
type TextDelta struct {
	Text string
}

func (TextDelta) delta() {}

// ReasoningDelta represents a thinking/reasoning content fragment.
type ReasoningDelta struct {
	Text string
}

func (ReasoningDelta) delta() {}

// ToolCallFragment is a partial piece of a tool invocation. Index is the
// stream-local position of the invocation. ID and Name are empty when the
// vendor did not send them in this fragment. Arguments holds the partial
// argument text.
type ToolCallFragment struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

func (ToolCallFragment) delta() {}

// ToolCallEnd carries one finalized tool invocation.
//
// Fallback is true when the invocation was never closed explicitly and was
// flushed when the stream finished. Err is non-nil when the accumulated
// arguments could not be parsed and the grammar reports such failures instead
// of aborting; Call.Arguments is nil in that case.
type ToolCallEnd struct {
	Index    int
	Call     ToolCall
	Fallback bool
	Err      error
}

func (ToolCallEnd) delta() {}

// FinishSignal is the terminal delta of a session. It is produced exactly
// once and always last.
//
// Truncated is true when the upstream stream ended without ever sending a
// finish indicator and the signal was synthesized.
type FinishSignal struct {
	Reason    FinishReason
	RawReason string
	Usage     *Usage
	Truncated bool
}

func (FinishSignal) delta() {}

// Interface compliance checks.
var (
	_ Delta = TextDelta{}
	_ Delta = ReasoningDelta{}
	_ Delta = ToolCallFragment{}
	_ Delta = ToolCallEnd{}
	_ Delta = FinishSignal{}
)
