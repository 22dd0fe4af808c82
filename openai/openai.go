// Package openai translates the OpenAI Chat Completions event stream.
//
// Each SSE record carries a chat.completion.chunk object. The stream ends
// with a literal "[DONE]" record. Tool calls never signal an individual
// close, so they are finalized when the response finishes.
package openai

import "github.com/fwojciec/norm"

// Name is the grammar name.
const Name = "openai"

// FinishReasons maps OpenAI finish reasons.
var FinishReasons = norm.FinishReasonTable{
	"stop":           norm.FinishStop,
	"length":         norm.FinishLength,
	"tool_calls":     norm.FinishToolCalls,
	"function_call":  norm.FinishToolCalls,
	"content_filter": norm.FinishContentFilter,
}

// Grammar returns the OpenAI grammar.
func Grammar() norm.Grammar {
	return norm.Grammar{
		Name:           Name,
		Framing:        norm.FramingSSE,
		ToolCalls:      norm.EmitAtFinish,
		ArgumentErrors: norm.ArgumentErrorReport,
		FinishReasons:  FinishReasons,
		NewTranslator:  func() norm.Translator { return NewTranslator() },
	}
}

type chatCompletionChunk struct {
	Choices []chunkChoice `json:"choices"`
	Error   *wireError    `json:"error,omitempty"`
}

type chunkChoice struct {
	Index        int       `json:"index"`
	Delta        wireDelta `json:"delta"`
	FinishReason *string   `json:"finish_reason"`
}

type wireDelta struct {
	Content          string         `json:"content,omitempty"`
	ReasoningContent string         `json:"reasoning_content,omitempty"`
	Reasoning        string         `json:"reasoning,omitempty"`
	ToolCalls        []wireToolCall `json:"tool_calls,omitempty"`
}

type wireToolCall struct {
	Index    int          `json:"index"`
	ID       string       `json:"id,omitempty"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

type wireError struct {
	Type    string `json:"type"`
	Code    any    `json:"code"`
	Message string `json:"message"`
}
