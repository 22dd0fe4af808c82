// Package ollama translates the Ollama /api/chat and /api/generate streams.
//
// Ollama writes one JSON object per line. The last line has "done": true
// and carries the finish reason and token counts. Tool calls arrive whole
// and are finalized when the response finishes.
package ollama

import (
	"encoding/json"

	"github.com/fwojciec/norm"
)

// Name is the grammar name.
const Name = "ollama"

// FinishReasons maps Ollama done reasons.
var FinishReasons = norm.FinishReasonTable{
	"stop":   norm.FinishStop,
	"length": norm.FinishLength,
}

// Grammar returns the Ollama grammar.
func Grammar() norm.Grammar {
	return norm.Grammar{
		Name:           Name,
		Framing:        norm.FramingNDJSON,
		ToolCalls:      norm.EmitAtFinish,
		ArgumentErrors: norm.ArgumentErrorReport,
		FinishReasons:  FinishReasons,
		NewTranslator:  func() norm.Translator { return NewTranslator() },
	}
}

type chatChunk struct {
	Message    *chatMessage `json:"message,omitempty"`
	Response   string       `json:"response,omitempty"`
	Thinking   string       `json:"thinking,omitempty"`
	Done       bool         `json:"done"`
	DoneReason string       `json:"done_reason,omitempty"`
	Error      string       `json:"error,omitempty"`
}

type chatMessage struct {
	Content   string         `json:"content"`
	Thinking  string         `json:"thinking,omitempty"`
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
}

type chatToolCall struct {
	ID       string       `json:"id,omitempty"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Index     *int            `json:"index,omitempty"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}
