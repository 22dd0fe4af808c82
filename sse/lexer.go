// Package sse decodes Server-Sent Events byte streams into records.
package sse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxLineSize is the maximum size of a single line (1 MiB). The
// bufio.Scanner default of 64 KiB is too small for long tool-call arguments.
const DefaultMaxLineSize = 1 << 20

// Option configures a Lexer or Decoder.
type Option func(*options)

type options struct {
	maxLineSize int
}

// WithMaxLineSize sets the maximum accepted line length in bytes.
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineSize = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{maxLineSize: DefaultMaxLineSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Lexer splits a byte stream into lines with the terminator stripped.
// Splitting happens on bytes, so a multi-byte character split across two
// reads is reassembled before the line is returned.
type Lexer struct {
	scanner *bufio.Scanner
}

// NewLexer returns a Lexer reading from r.
func NewLexer(r io.Reader, opts ...Option) *Lexer {
	o := buildOptions(opts)
	scanner := bufio.NewScanner(r)
	initial := 64 * 1024
	if initial > o.maxLineSize {
		initial = o.maxLineSize
	}
	scanner.Buffer(make([]byte, 0, initial), o.maxLineSize)
	scanner.Split(scanLines)
	return &Lexer{scanner: scanner}
}

// Next returns the next line. A final line without a terminator is still
// returned. Next returns io.EOF once the source is exhausted and the read
// error unchanged if the source fails.
func (l *Lexer) Next() (string, error) {
	if l.scanner.Scan() {
		return l.scanner.Text(), nil
	}
	if err := l.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return "", fmt.Errorf("sse: %w", err)
		}
		return "", err
	}
	return "", io.EOF
}

// scanLines is bufio.ScanLines without the special casing of a lone
// trailing '\r' at EOF; a CR directly before LF is dropped.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		if b == '\n' {
			return i + 1, dropCR(data[:i]), nil
		}
	}
	if atEOF {
		return len(data), dropCR(data), nil
	}
	return 0, nil, nil
}

func dropCR(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] == '\r' {
		return data[:len(data)-1]
	}
	return data
}
