package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/usage"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

var _ norm.Translator = (*Translator)(nil)

// Translator converts Gemini response records. Only the first candidate is
// surfaced. Function calls are numbered in arrival order.
type Translator struct {
	calls int
}

// NewTranslator returns a Translator for a single response.
func NewTranslator() *Translator {
	return &Translator{}
}

type wireError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
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
	if gjson.GetBytes(data, "error").IsObject() {
		var e wireError
		if err := json.Unmarshal(data, &e); err != nil {
			return norm.Chunk{}, norm.MalformedPayload(Name, "error", err)
		}
		typ := e.Error.Status
		if typ == "" && e.Error.Code != 0 {
			typ = fmt.Sprint(e.Error.Code)
		}
		return norm.Chunk{}, &norm.ProviderError{Type: typ, Message: e.Error.Message}
	}

	var resp genai.GenerateContentResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return norm.Chunk{}, norm.MalformedPayload(Name, "response", err)
	}

	// genai drops zero counts on the floor, so usage is read from the raw
	// payload to keep reported zeros.
	out := norm.Chunk{Usage: usage.Gemini.NormalizeResult(gjson.GetBytes(data, "usageMetadata"))}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return out, nil
	}
	cand := resp.Candidates[0]
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			d, err := t.part(part)
			if err != nil {
				return norm.Chunk{}, err
			}
			if d != nil {
				out.Deltas = append(out.Deltas, d)
			}
		}
	}
	if cand.FinishReason != "" && cand.FinishReason != "FINISH_REASON_UNSPECIFIED" {
		out.FinishReason = string(cand.FinishReason)
	}
	return out, nil
}

func (t *Translator) part(p *genai.Part) (norm.Delta, error) {
	switch {
	case p == nil:
		return nil, nil
	case p.FunctionCall != nil:
		args := []byte("{}")
		if p.FunctionCall.Args != nil {
			var err error
			args, err = json.Marshal(p.FunctionCall.Args)
			if err != nil {
				return nil, fmt.Errorf("gemini: encode arguments for %s: %w", p.FunctionCall.Name, err)
			}
		}
		f := norm.ToolCallFragment{
			Index:     t.calls,
			ID:        p.FunctionCall.ID,
			Name:      p.FunctionCall.Name,
			Arguments: string(args),
		}
		t.calls++
		return f, nil
	case p.Text == "":
		return nil, nil
	case p.Thought:
		return norm.ReasoningDelta{Text: p.Text}, nil
	default:
		return norm.TextDelta{Text: p.Text}, nil
	}
}
