package norm

import (
	"errors"
	"io"
	"strings"
)

// Result is a fully assembled response.
type Result struct {
	Text      string
	Reasoning string
	ToolCalls []ToolCall
	Finish    FinishSignal
}

// Collect drains s and assembles its deltas into a Result. Tool calls are
// appended in the order they were finalized; calls that ended with an
// argument error are skipped. Collect closes s.
//
// On error Collect returns the partial result assembled so far.
func Collect(s Stream) (Result, error) {
	defer s.Close()

	var (
		res       Result
		text      strings.Builder
		reasoning strings.Builder
	)
	for {
		d, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Text = text.String()
			res.Reasoning = reasoning.String()
			return res, err
		}
		switch d := d.(type) {
		case TextDelta:
			text.WriteString(d.Text)
		case ReasoningDelta:
			reasoning.WriteString(d.Text)
		case ToolCallEnd:
			if d.Err == nil {
				res.ToolCalls = append(res.ToolCalls, d.Call)
			}
		case FinishSignal:
			res.Finish = d
		}
	}
	res.Text = text.String()
	res.Reasoning = reasoning.String()
	return res, nil
}
