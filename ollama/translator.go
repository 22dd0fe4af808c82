package ollama

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/usage"
)

var _ norm.Translator = (*Translator)(nil)

// Translator converts Ollama stream lines. Tool calls without an explicit
// index are numbered in arrival order.
type Translator struct {
	calls int
}

// NewTranslator returns a Translator for a single response.
func NewTranslator() *Translator {
	return &Translator{}
}

// Translate implements norm.Translator.
func (t *Translator) Translate(rec norm.Record) (norm.Chunk, error) {
	if !norm.IsJSONPayload(rec.Data) {
		return norm.Chunk{}, nil
	}
	data := []byte(rec.Data)
	var c chatChunk
	if err := json.Unmarshal(data, &c); err != nil {
		return norm.Chunk{}, norm.MalformedPayload(Name, "line", err)
	}
	if c.Error != "" {
		return norm.Chunk{}, &norm.ProviderError{Message: c.Error}
	}

	var out norm.Chunk
	thinking, content := c.Thinking, c.Response
	if c.Message != nil {
		thinking += c.Message.Thinking
		content += c.Message.Content
	}
	if thinking != "" {
		out.Deltas = append(out.Deltas, norm.ReasoningDelta{Text: thinking})
	}
	if content != "" {
		out.Deltas = append(out.Deltas, norm.TextDelta{Text: content})
	}
	if c.Message != nil {
		for _, tc := range c.Message.ToolCalls {
			out.Deltas = append(out.Deltas, t.toolCall(tc))
		}
	}
	if c.Done {
		out.Usage = usage.Ollama.Normalize(data)
		out.FinishReason = c.DoneReason
		out.Done = true
	}
	return out, nil
}

func (t *Translator) toolCall(tc chatToolCall) norm.ToolCallFragment {
	index := t.calls
	if tc.Function.Index != nil {
		index = *tc.Function.Index
	}
	t.calls = max(t.calls, index) + 1
	args := string(bytes.TrimSpace(tc.Function.Arguments))
	switch {
	case args == "null":
		args = ""
	case strings.HasPrefix(args, `"`):
		// Some models encode arguments as a JSON string.
		var s string
		if json.Unmarshal([]byte(args), &s) == nil {
			args = s
		}
	}
	return norm.ToolCallFragment{
		Index:     index,
		ID:        tc.ID,
		Name:      tc.Function.Name,
		Arguments: args,
	}
}
