package norm

import "encoding/json"

// ToolCall is a finalized tool invocation. Arguments is always valid JSON.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// IDGenerator produces identifiers for tool calls the vendor sent without one.
// Sessions receive it at construction so output stays deterministic under test.
type IDGenerator interface {
	NewID() string
}
