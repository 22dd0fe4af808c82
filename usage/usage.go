// Package usage normalizes vendor token-count vocabularies into norm.Usage.
package usage

import (
	"github.com/fwojciec/norm"
	"github.com/tidwall/gjson"
)

// Fields lists, per canonical side, the gjson paths under which a vendor
// reports token counts. The first path present wins.
type Fields struct {
	Input  []string
	Output []string
	Total  []string
}

// Normalize extracts usage from a raw JSON object. It returns nil when the
// object reports none of the listed fields. Fields that are absent stay nil;
// nothing is zero-filled and no total is derived.
func (f Fields) Normalize(raw []byte) *norm.Usage {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil
	}
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() {
		return nil
	}
	u := norm.Usage{
		InputTokens:  lookup(obj, f.Input),
		OutputTokens: lookup(obj, f.Output),
		TotalTokens:  lookup(obj, f.Total),
	}
	if u.InputTokens == nil && u.OutputTokens == nil && u.TotalTokens == nil {
		return nil
	}
	return &u
}

// NormalizeResult is Normalize for an already-parsed gjson value.
func (f Fields) NormalizeResult(r gjson.Result) *norm.Usage {
	if !r.Exists() {
		return nil
	}
	return f.Normalize([]byte(r.Raw))
}

func lookup(obj gjson.Result, paths []string) *int {
	for _, p := range paths {
		v := obj.Get(p)
		if v.Exists() && v.Type == gjson.Number {
			n := int(v.Int())
			return &n
		}
	}
	return nil
}

// Vendor field tables.
var (
	Anthropic = Fields{
		Input:  []string{"input_tokens"},
		Output: []string{"output_tokens"},
	}
	OpenAI = Fields{
		Input:  []string{"prompt_tokens", "input_tokens"},
		Output: []string{"completion_tokens", "output_tokens"},
		Total:  []string{"total_tokens"},
	}
	Gemini = Fields{
		Input:  []string{"promptTokenCount"},
		Output: []string{"candidatesTokenCount"},
		Total:  []string{"totalTokenCount"},
	}
	Ollama = Fields{
		Input:  []string{"prompt_eval_count"},
		Output: []string{"eval_count"},
	}
)
