package norm

// Usage tracks token consumption as reported by the vendor.
//
// Every field is optional: nil means "not reported", which is distinct from a
// reported zero. Vendors that split usage across several payloads are merged
// with Merge.
type Usage struct {
	InputTokens  *int
	OutputTokens *int
	TotalTokens  *int
}

// Merge returns u with every field reported by other laid over it.
// Either side may be nil; the result is nil only when both are.
func (u *Usage) Merge(other *Usage) *Usage {
	if u == nil && other == nil {
		return nil
	}
	var out Usage
	if u != nil {
		out = *u
	}
	if other != nil {
		if other.InputTokens != nil {
			out.InputTokens = other.InputTokens
		}
		if other.OutputTokens != nil {
			out.OutputTokens = other.OutputTokens
		}
		if other.TotalTokens != nil {
			out.TotalTokens = other.TotalTokens
		}
	}
	return &out
}

// Complete returns a copy of u with TotalTokens computed as the sum of both
// sides, but only when both sides are present and the vendor did not supply
// its own total.
func (u *Usage) Complete() *Usage {
	if u == nil {
		return nil
	}
	out := *u
	if out.TotalTokens == nil && out.InputTokens != nil && out.OutputTokens != nil {
		total := *out.InputTokens + *out.OutputTokens
		out.TotalTokens = &total
	}
	return &out
}

// Tokens returns a pointer to n, for building Usage literals.
func Tokens(n int) *int {
	return &n
}
