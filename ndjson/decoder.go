// Package ndjson frames newline-delimited JSON streams as records, for
// vendors that stream one JSON document per line without event-stream
// framing.
package ndjson

import (
	"errors"
	"io"
	"strings"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/sse"
)

// Interface compliance check.
var _ norm.RecordReader = (*Decoder)(nil)

// Decoder turns every non-blank line into a record whose Data is the line.
type Decoder struct {
	lexer *sse.Lexer
}

// NewDecoder returns a Decoder reading from r. Options are the same as for
// the event-stream lexer.
func NewDecoder(r io.Reader, opts ...sse.Option) *Decoder {
	return &Decoder{lexer: sse.NewLexer(r, opts...)}
}

// Next returns the next record, or io.EOF at end of stream.
func (d *Decoder) Next() (norm.Record, error) {
	for {
		line, err := d.lexer.Next()
		if errors.Is(err, io.EOF) {
			return norm.Record{}, io.EOF
		}
		if err != nil {
			return norm.Record{}, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		return norm.Record{Data: line}, nil
	}
}
