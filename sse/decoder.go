package sse

import (
	"errors"
	"io"
	"strings"

	"github.com/fwojciec/norm"
)

// Interface compliance check.
var _ norm.RecordReader = (*Decoder)(nil)

// Decoder assembles lines into records following the event-stream grammar:
// a blank line dispatches the current record if it carries at least one data
// line, lines starting with ':' are comments, and the field value is
// everything after the first colon with at most one leading space removed.
// Unknown fields and framing noise are ignored.
//
// A record still open when the stream ends is dropped, not flushed.
type Decoder struct {
	lexer *Lexer

	event   string
	id      string
	data    []string
	dropped bool
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{lexer: NewLexer(r, opts...)}
}

// Next returns the next dispatched record, or io.EOF at end of stream.
func (d *Decoder) Next() (norm.Record, error) {
	for {
		line, err := d.lexer.Next()
		if errors.Is(err, io.EOF) {
			d.dropped = len(d.data) > 0
			d.reset()
			return norm.Record{}, io.EOF
		}
		if err != nil {
			return norm.Record{}, err
		}
		if rec, ok := d.feed(line); ok {
			return rec, nil
		}
	}
}

// Dropped reports whether the stream ended while a record with data lines
// was still open. Meaningful after Next returned io.EOF.
func (d *Decoder) Dropped() bool {
	return d.dropped
}

// feed applies one line to the record being built and reports whether it
// completed a record.
func (d *Decoder) feed(line string) (norm.Record, bool) {
	if line == "" {
		if len(d.data) == 0 {
			d.reset()
			return norm.Record{}, false
		}
		rec := norm.Record{
			Event: d.event,
			ID:    d.id,
			Data:  strings.Join(d.data, "\n"),
		}
		d.reset()
		return rec, true
	}
	if line[0] == ':' {
		return norm.Record{}, false
	}

	field, value, found := strings.Cut(line, ":")
	if found {
		value = strings.TrimPrefix(value, " ")
	}
	switch field {
	case "data":
		d.data = append(d.data, value)
	case "event":
		d.event = value
	case "id":
		d.id = value
	}
	return norm.Record{}, false
}

func (d *Decoder) reset() {
	d.event = ""
	d.id = ""
	d.data = d.data[:0]
}
