package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/sse"
)

// Encoder writes deltas as JSON lines.
type Encoder struct {
	w   io.Writer
	enc *json.Encoder
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Encoder{w: w, enc: enc}
}

// Encode writes d followed by a newline.
func (e *Encoder) Encode(d norm.Delta) error {
	dto, err := marshalDelta(d)
	if err != nil {
		return err
	}
	return e.enc.Encode(dto)
}

// EncodeError writes a terminal error line for a stream that failed.
func (e *Encoder) EncodeError(err error) error {
	msg := err.Error()
	return e.enc.Encode(deltaDTO{Type: "error", Error: &msg})
}

// StreamError is a terminal error line read back by Decoder.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string {
	return "stream failed: " + e.Message
}

// Decoder reads deltas written by Encoder.
type Decoder struct {
	lexer *sse.Lexer
	line  int
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{lexer: sse.NewLexer(r)}
}

// Next returns the next delta, or io.EOF at end of input. Blank lines are
// skipped. An error line is returned as a *StreamError.
func (d *Decoder) Next() (norm.Delta, error) {
	for {
		line, err := d.lexer.Next()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		d.line++
		if line == "" {
			continue
		}
		var dto deltaDTO
		if err := json.Unmarshal([]byte(line), &dto); err != nil {
			return nil, fmt.Errorf("line %d: unmarshal delta: %w", d.line, err)
		}
		if dto.Type == "error" {
			return nil, &StreamError{Message: deref(dto.Error)}
		}
		delta, err := unmarshalDelta(dto)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", d.line, err)
		}
		return delta, nil
	}
}
