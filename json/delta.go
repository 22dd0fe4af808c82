// Package json encodes norm deltas and transcripts as JSON.
//
// Deltas are written with a "type" discriminator, one object per line when
// streamed. Optional fields use pointers so absent values stay absent.
// Tool-call arguments are stored as strings to keep their exact bytes.
package json

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/norm"
)

// deltaDTO is the JSON representation of a Delta with a type discriminator.
type deltaDTO struct {
	Type      string    `json:"type"`
	Text      *string   `json:"text,omitempty"`
	Index     *int      `json:"index,omitempty"`
	ID        *string   `json:"id,omitempty"`
	Name      *string   `json:"name,omitempty"`
	Arguments *string   `json:"arguments,omitempty"`
	Fragment  *string   `json:"fragment,omitempty"`
	Fallback  *bool     `json:"fallback,omitempty"`
	Error     *string   `json:"error,omitempty"`
	Raw       *string   `json:"raw,omitempty"`
	Reason    *string   `json:"reason,omitempty"`
	RawReason *string   `json:"raw_reason,omitempty"`
	Usage     *usageDTO `json:"usage,omitempty"`
	Truncated *bool     `json:"truncated,omitempty"`
}

type usageDTO struct {
	InputTokens  *int `json:"input_tokens,omitempty"`
	OutputTokens *int `json:"output_tokens,omitempty"`
	TotalTokens  *int `json:"total_tokens,omitempty"`
}

// MarshalDelta serializes a single delta.
func MarshalDelta(d norm.Delta) ([]byte, error) {
	dto, err := marshalDelta(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dto)
}

// UnmarshalDelta deserializes a single delta.
func UnmarshalDelta(data []byte) (norm.Delta, error) {
	var dto deltaDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal delta: %w", err)
	}
	return unmarshalDelta(dto)
}

func marshalDelta(d norm.Delta) (deltaDTO, error) {
	switch v := d.(type) {
	case norm.TextDelta:
		return deltaDTO{Type: "text", Text: &v.Text}, nil
	case norm.ReasoningDelta:
		return deltaDTO{Type: "reasoning", Text: &v.Text}, nil
	case norm.ToolCallFragment:
		dto := deltaDTO{Type: "tool_call_fragment", Index: &v.Index, Fragment: &v.Arguments}
		if v.ID != "" {
			dto.ID = &v.ID
		}
		if v.Name != "" {
			dto.Name = &v.Name
		}
		return dto, nil
	case norm.ToolCallEnd:
		dto := deltaDTO{Type: "tool_call", Index: &v.Index, ID: &v.Call.ID, Name: &v.Call.Name}
		if v.Fallback {
			dto.Fallback = &v.Fallback
		}
		if v.Err != nil {
			msg := v.Err.Error()
			var argErr *norm.ArgumentsError
			if errors.As(v.Err, &argErr) {
				dto.Raw = &argErr.Raw
				if argErr.Err != nil {
					msg = argErr.Err.Error()
				}
			}
			dto.Error = &msg
			return dto, nil
		}
		args := string(v.Call.Arguments)
		dto.Arguments = &args
		return dto, nil
	case norm.FinishSignal:
		reason := string(v.Reason)
		dto := deltaDTO{Type: "finish", Reason: &reason, Usage: marshalUsage(v.Usage)}
		if v.RawReason != "" {
			dto.RawReason = &v.RawReason
		}
		if v.Truncated {
			dto.Truncated = &v.Truncated
		}
		return dto, nil
	default:
		return deltaDTO{}, fmt.Errorf("unknown delta type: %T", d)
	}
}

func unmarshalDelta(dto deltaDTO) (norm.Delta, error) {
	switch dto.Type {
	case "text":
		return norm.TextDelta{Text: deref(dto.Text)}, nil
	case "reasoning":
		return norm.ReasoningDelta{Text: deref(dto.Text)}, nil
	case "tool_call_fragment":
		return norm.ToolCallFragment{
			Index:     deref(dto.Index),
			ID:        deref(dto.ID),
			Name:      deref(dto.Name),
			Arguments: deref(dto.Fragment),
		}, nil
	case "tool_call":
		end := norm.ToolCallEnd{
			Index:    deref(dto.Index),
			Call:     norm.ToolCall{ID: deref(dto.ID), Name: deref(dto.Name)},
			Fallback: deref(dto.Fallback),
		}
		if dto.Arguments != nil {
			end.Call.Arguments = json.RawMessage(*dto.Arguments)
		}
		if dto.Error != nil {
			end.Err = &norm.ArgumentsError{
				Index: end.Index,
				ID:    end.Call.ID,
				Name:  end.Call.Name,
				Raw:   deref(dto.Raw),
				Err:   errors.New(*dto.Error),
			}
		}
		return end, nil
	case "finish":
		reason, ok := norm.ParseFinishReason(deref(dto.Reason))
		if !ok {
			return nil, fmt.Errorf("unknown finish reason: %q", deref(dto.Reason))
		}
		return norm.FinishSignal{
			Reason:    reason,
			RawReason: deref(dto.RawReason),
			Usage:     unmarshalUsage(dto.Usage),
			Truncated: deref(dto.Truncated),
		}, nil
	default:
		return nil, fmt.Errorf("unknown delta type: %q", dto.Type)
	}
}

func marshalUsage(u *norm.Usage) *usageDTO {
	if u == nil {
		return nil
	}
	return &usageDTO{InputTokens: u.InputTokens, OutputTokens: u.OutputTokens, TotalTokens: u.TotalTokens}
}

func unmarshalUsage(dto *usageDTO) *norm.Usage {
	if dto == nil {
		return nil
	}
	return &norm.Usage{InputTokens: dto.InputTokens, OutputTokens: dto.OutputTokens, TotalTokens: dto.TotalTokens}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
