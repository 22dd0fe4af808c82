package anthropic

import (
	"encoding/json"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/usage"
	"github.com/tidwall/gjson"
)

var _ norm.Translator = (*Translator)(nil)

// Translator converts Anthropic SSE records into chunks. It remembers
// the type of every open content block so that only tool_use blocks
// report a close.
type Translator struct {
	blocks map[int]string
}

// NewTranslator returns a Translator for a single response.
func NewTranslator() *Translator {
	return &Translator{blocks: make(map[int]string)}
}

// Translate implements norm.Translator.
func (t *Translator) Translate(rec norm.Record) (norm.Chunk, error) {
	if !norm.IsJSONPayload(rec.Data) {
		return norm.Chunk{}, nil
	}
	data := []byte(rec.Data)
	if err := norm.CheckPayload(Name, data); err != nil {
		return norm.Chunk{}, err
	}
	typ := rec.Event
	if typ == "" {
		typ = gjson.GetBytes(data, "type").String()
	}

	switch typ {
	case "message_start":
		return norm.Chunk{Usage: usage.Anthropic.NormalizeResult(gjson.GetBytes(data, "message.usage"))}, nil

	case "content_block_start":
		var ev sseContentBlockStart
		if err := json.Unmarshal(data, &ev); err != nil {
			return norm.Chunk{}, norm.MalformedPayload(Name, typ, err)
		}
		t.blocks[ev.Index] = ev.ContentBlock.Type
		if ev.ContentBlock.Type != "tool_use" {
			return norm.Chunk{}, nil
		}
		return norm.Chunk{Deltas: []norm.Delta{norm.ToolCallFragment{
			Index: ev.Index,
			ID:    ev.ContentBlock.ID,
			Name:  ev.ContentBlock.Name,
		}}}, nil

	case "content_block_delta":
		var ev sseContentBlockDelta
		if err := json.Unmarshal(data, &ev); err != nil {
			return norm.Chunk{}, norm.MalformedPayload(Name, typ, err)
		}
		return norm.Chunk{Deltas: t.delta(ev)}, nil

	case "content_block_stop":
		var ev sseContentBlockStop
		if err := json.Unmarshal(data, &ev); err != nil {
			return norm.Chunk{}, norm.MalformedPayload(Name, typ, err)
		}
		kind, ok := t.blocks[ev.Index]
		delete(t.blocks, ev.Index)
		if !ok || kind != "tool_use" {
			return norm.Chunk{}, nil
		}
		return norm.Chunk{Closed: []int{ev.Index}}, nil

	case "message_delta":
		var ev sseMessageDelta
		if err := json.Unmarshal(data, &ev); err != nil {
			return norm.Chunk{}, norm.MalformedPayload(Name, typ, err)
		}
		c := norm.Chunk{Usage: usage.Anthropic.NormalizeResult(gjson.GetBytes(data, "usage"))}
		if ev.Delta.StopReason != nil {
			c.FinishReason = *ev.Delta.StopReason
		}
		return c, nil

	case "message_stop":
		return norm.Chunk{Done: true}, nil

	case "error":
		var ev sseError
		if err := json.Unmarshal(data, &ev); err != nil {
			return norm.Chunk{}, norm.MalformedPayload(Name, typ, err)
		}
		return norm.Chunk{}, &norm.ProviderError{Type: ev.Error.Type, Message: ev.Error.Message}

	default:
		// ping and unknown event types.
		return norm.Chunk{}, nil
	}
}

func (t *Translator) delta(ev sseContentBlockDelta) []norm.Delta {
	switch ev.Delta.Type {
	case "text_delta":
		if ev.Delta.Text == "" {
			return nil
		}
		return []norm.Delta{norm.TextDelta{Text: ev.Delta.Text}}
	case "thinking_delta":
		if ev.Delta.Thinking == "" {
			return nil
		}
		return []norm.Delta{norm.ReasoningDelta{Text: ev.Delta.Thinking}}
	case "input_json_delta":
		if _, ok := t.blocks[ev.Index]; !ok {
			t.blocks[ev.Index] = "tool_use"
		}
		return []norm.Delta{norm.ToolCallFragment{Index: ev.Index, Arguments: ev.Delta.PartialJSON}}
	default:
		// signature_delta and citations carry nothing we surface.
		return nil
	}
}
