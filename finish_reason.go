package norm

// FinishReason indicates why the vendor stopped generating.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishContentFilter FinishReason = "content_filter"
	FinishOther         FinishReason = "other"
)

// FinishReasonTable maps a vendor's finish vocabulary to FinishReason.
type FinishReasonTable map[string]FinishReason

// Normalize returns the canonical reason for raw. Values missing from the
// table, including the empty string, map to FinishOther.
func (t FinishReasonTable) Normalize(raw string) FinishReason {
	if r, ok := t[raw]; ok {
		return r
	}
	return FinishOther
}

// With returns a copy of t with overrides applied on top.
func (t FinishReasonTable) With(overrides map[string]FinishReason) FinishReasonTable {
	out := make(FinishReasonTable, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// ParseFinishReason parses the canonical name of a FinishReason.
func ParseFinishReason(s string) (FinishReason, bool) {
	switch r := FinishReason(s); r {
	case FinishStop, FinishLength, FinishToolCalls, FinishContentFilter, FinishOther:
		return r, true
	}
	return "", false
}
