// Package plaintext is the grammar for event streams whose records carry
// bare text. Every record's data is one text fragment. A literal "[DONE]"
// record ends the stream; without it the stream finishes at end of input.
package plaintext

import "github.com/fwojciec/norm"

// Name is the grammar name.
const Name = "plaintext"

// Done is the end-of-stream sentinel.
const Done = "[DONE]"

// Grammar returns the plain text grammar.
func Grammar() norm.Grammar {
	return norm.Grammar{
		Name:           Name,
		Framing:        norm.FramingSSE,
		ToolCalls:      norm.EmitAtFinish,
		ArgumentErrors: norm.ArgumentErrorReport,
		FinishReasons:  norm.FinishReasonTable{},
		NewTranslator:  func() norm.Translator { return Translator{} },
	}
}

var _ norm.Translator = Translator{}

// Translator turns each record into a text delta.
type Translator struct{}

// Translate implements norm.Translator.
func (Translator) Translate(rec norm.Record) (norm.Chunk, error) {
	switch rec.Data {
	case "":
		return norm.Chunk{}, nil
	case Done:
		return norm.Chunk{Done: true}, nil
	}
	return norm.Chunk{Deltas: []norm.Delta{norm.TextDelta{Text: rec.Data}}}, nil
}
