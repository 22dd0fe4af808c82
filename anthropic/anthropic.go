// Package anthropic translates the Anthropic Messages API event stream.
//
// Lifecycle of one response:
//
//	message_start → content_block_start → content_block_delta* →
//	content_block_stop → ... → message_delta → message_stop
//
// Tool calls are finalized when their content block closes.
package anthropic

import (
	"github.com/fwojciec/norm"
)

// Name is the grammar name.
const Name = "anthropic"

// FinishReasons maps Anthropic stop reasons.
var FinishReasons = norm.FinishReasonTable{
	"end_turn":                      norm.FinishStop,
	"stop_sequence":                 norm.FinishStop,
	"max_tokens":                    norm.FinishLength,
	"model_context_window_exceeded": norm.FinishLength,
	"tool_use":                      norm.FinishToolCalls,
	"refusal":                       norm.FinishContentFilter,
}

// Grammar returns the Anthropic grammar.
func Grammar() norm.Grammar {
	return norm.Grammar{
		Name:           Name,
		Framing:        norm.FramingSSE,
		ToolCalls:      norm.EmitOnClose,
		ArgumentErrors: norm.ArgumentErrorReport,
		FinishReasons:  FinishReasons,
		NewTranslator:  func() norm.Translator { return NewTranslator() },
	}
}

type sseContentBlockStart struct {
	Type         string          `json:"type"`
	Index        int             `json:"index"`
	ContentBlock sseContentBlock `json:"content_block"`
}

type sseContentBlock struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type sseContentBlockDelta struct {
	Type  string   `json:"type"`
	Index int      `json:"index"`
	Delta sseDelta `json:"delta"`
}

type sseDelta struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
	Thinking    string `json:"thinking,omitempty"`
}

type sseContentBlockStop struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

type sseMessageDelta struct {
	Type  string             `json:"type"`
	Delta sseMessageDeltaVal `json:"delta"`
}

type sseMessageDeltaVal struct {
	StopReason *string `json:"stop_reason"`
}

type sseError struct {
	Type  string         `json:"type"`
	Error sseErrorDetail `json:"error"`
}

type sseErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
