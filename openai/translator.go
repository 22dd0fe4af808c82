package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/usage"
	"github.com/tidwall/gjson"
)

var _ norm.Translator = (*Translator)(nil)

// Translator converts OpenAI chunk records. Only the first choice
// (index 0) is surfaced.
type Translator struct{}

// NewTranslator returns a Translator.
func NewTranslator() *Translator {
	return &Translator{}
}

// Translate implements norm.Translator.
func (t *Translator) Translate(rec norm.Record) (norm.Chunk, error) {
	if strings.TrimSpace(rec.Data) == "[DONE]" {
		return norm.Chunk{Done: true}, nil
	}
	if !norm.IsJSONPayload(rec.Data) {
		return norm.Chunk{}, nil
	}
	data := []byte(rec.Data)
	var chunk chatCompletionChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return norm.Chunk{}, norm.MalformedPayload(Name, "chunk", err)
	}
	if chunk.Error != nil {
		return norm.Chunk{}, providerError(chunk.Error)
	}

	var out norm.Chunk
	if u := gjson.GetBytes(data, "usage"); u.IsObject() {
		out.Usage = usage.OpenAI.NormalizeResult(u)
	}
	for _, c := range chunk.Choices {
		if c.Index != 0 {
			continue
		}
		d := c.Delta
		if r := d.ReasoningContent + d.Reasoning; r != "" {
			out.Deltas = append(out.Deltas, norm.ReasoningDelta{Text: r})
		}
		if d.Content != "" {
			out.Deltas = append(out.Deltas, norm.TextDelta{Text: d.Content})
		}
		for _, tc := range d.ToolCalls {
			out.Deltas = append(out.Deltas, norm.ToolCallFragment{
				Index:     tc.Index,
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
		if c.FinishReason != nil {
			out.FinishReason = *c.FinishReason
		}
	}
	return out, nil
}

func providerError(e *wireError) *norm.ProviderError {
	typ := e.Type
	if typ == "" && e.Code != nil {
		typ = fmt.Sprint(e.Code)
	}
	return &norm.ProviderError{Type: typ, Message: e.Message}
}
