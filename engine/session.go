// Package engine drives one vendor stream through framing, translation and
// tool-call aggregation, yielding canonical deltas.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"sync"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/ndjson"
	"github.com/fwojciec/norm/sse"
	"github.com/fwojciec/norm/toolcall"
	"github.com/sirupsen/logrus"
)

// Interface compliance check.
var _ norm.Stream = (*Session)(nil)

// Session implements [norm.Stream] over one transport stream.
//
// Deltas are yielded in record arrival order. Exactly one FinishSignal is
// yielded, always last, after which Next returns io.EOF. A session that fails
// or is cancelled yields no FinishSignal.
type Session struct {
	ctx     context.Context
	body    io.ReadCloser
	records norm.RecordReader
	tr      norm.Translator
	agg     *toolcall.Aggregator
	grammar norm.Grammar
	finish  norm.FinishReasonTable
	log     logrus.FieldLogger
	strict  bool

	state     norm.StreamState
	queue     []norm.Delta
	pending   error // surfaced once queue drains
	err       error // terminal error, if any
	usage     *norm.Usage
	rawReason string
	sawReason bool
	ended     bool

	stopCancel func() bool
	closeOnce  sync.Once
	closeErr   error
}

// New opens a session reading body with grammar g. The session owns body and
// closes it exactly once: when the stream completes or fails, when ctx is
// cancelled, or when Close is called.
func New(ctx context.Context, body io.ReadCloser, g norm.Grammar, opts ...Option) (*Session, error) {
	if err := g.Validate(); err != nil {
		body.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}
	cfg := newConfig(opts)

	var lineOpts []sse.Option
	if cfg.maxLineSize > 0 {
		lineOpts = append(lineOpts, sse.WithMaxLineSize(cfg.maxLineSize))
	}
	var records norm.RecordReader
	switch g.Framing {
	case norm.FramingNDJSON:
		records = ndjson.NewDecoder(body, lineOpts...)
	default:
		records = sse.NewDecoder(body, lineOpts...)
	}

	aggOpts := []toolcall.Option{toolcall.WithIDGenerator(cfg.ids)}
	if cfg.repair {
		aggOpts = append(aggOpts, toolcall.WithRepair())
	}

	s := &Session{
		ctx:     ctx,
		body:    body,
		records: records,
		tr:      g.NewTranslator(),
		agg:     toolcall.New(g.ToolCalls, aggOpts...),
		grammar: g,
		finish:  g.FinishReasons.With(cfg.overrides),
		log:     cfg.log.WithField("grammar", g.Name),
		strict:  cfg.strict,
		state:   norm.StreamStateNew,
	}
	// Closing the body unblocks a read suspended on the transport.
	s.stopCancel = context.AfterFunc(ctx, s.release)
	return s, nil
}

// Next returns the next delta. It returns io.EOF after the FinishSignal.
func (s *Session) Next() (norm.Delta, error) {
	switch s.state {
	case norm.StreamStateComplete:
		return nil, io.EOF
	case norm.StreamStateError:
		return nil, s.err
	case norm.StreamStateClosed:
		return nil, norm.ErrStreamClosed
	}

	for {
		if err := s.ctx.Err(); err != nil {
			return nil, s.fail(err)
		}
		if len(s.queue) > 0 {
			d := s.queue[0]
			s.queue = s.queue[1:]
			s.state = norm.StreamStateStreaming
			if _, ok := d.(norm.FinishSignal); ok {
				s.state = norm.StreamStateComplete
				s.shutdown()
			}
			return d, nil
		}
		if s.pending != nil {
			return nil, s.fail(s.pending)
		}
		if s.ended {
			// Ended without a finish signal queued; only reachable when the
			// terminal path already failed.
			s.state = norm.StreamStateComplete
			return nil, io.EOF
		}
		if err := s.step(); err != nil {
			return nil, s.fail(err)
		}
	}
}

// State returns the current stream state.
func (s *Session) State() norm.StreamState {
	return s.state
}

// Close releases the transport. Calling Close before the stream reached a
// terminal state marks it closed; later Next calls return norm.ErrStreamClosed.
func (s *Session) Close() error {
	if s.state != norm.StreamStateComplete && s.state != norm.StreamStateError {
		s.state = norm.StreamStateClosed
	}
	s.shutdown()
	return s.closeErr
}

// All returns an iterator over the remaining deltas. Iteration ends after
// the FinishSignal or after yielding a terminal error. Breaking out of the
// loop closes the session.
func (s *Session) All() iter.Seq2[norm.Delta, error] {
	return func(yield func(norm.Delta, error) bool) {
		defer s.Close()
		for {
			d, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(d, nil) {
				return
			}
		}
	}
}

// step reads and translates one record.
func (s *Session) step() error {
	rec, err := s.records.Next()
	if ctxErr := s.ctx.Err(); err != nil && ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, io.EOF) {
		if d, ok := s.records.(interface{ Dropped() bool }); ok && d.Dropped() {
			s.log.Debug("stream ended inside an unterminated record; partial record dropped")
		}
		return s.end(false)
	}
	if err != nil {
		return err
	}
	if s.state == norm.StreamStateNew {
		s.state = norm.StreamStateStreaming
	}

	chunk, err := s.tr.Translate(rec)
	if err != nil {
		return err
	}
	s.apply(chunk)
	if s.pending != nil {
		return nil
	}
	if chunk.Done {
		return s.end(true)
	}
	return nil
}

// apply queues a chunk's deltas and records its usage and finish reason.
func (s *Session) apply(chunk norm.Chunk) {
	for _, d := range chunk.Deltas {
		if f, ok := d.(norm.ToolCallFragment); ok {
			s.agg.Add(f)
		}
		s.queue = append(s.queue, d)
	}
	for _, index := range chunk.Closed {
		end, ok := s.agg.Close(index)
		if !ok {
			s.log.WithField("index", index).Debug("close for unknown tool call ignored")
			continue
		}
		if !s.enqueueToolCall(end) {
			break
		}
	}
	if chunk.Usage != nil {
		s.usage = s.usage.Merge(chunk.Usage)
	}
	if chunk.FinishReason != "" {
		s.rawReason = chunk.FinishReason
		s.sawReason = true
	}
}

// enqueueToolCall queues a finalized tool call, or records a pending error
// when its arguments failed and the grammar aborts on such failures.
func (s *Session) enqueueToolCall(end norm.ToolCallEnd) bool {
	if end.Err != nil {
		s.log.WithError(end.Err).WithField("index", end.Index).Debug("tool call arguments did not parse")
		if s.grammar.ArgumentErrors == norm.ArgumentErrorAbort {
			s.pending = end.Err
			return false
		}
	}
	s.queue = append(s.queue, end)
	return true
}

// end finalizes the session once input is exhausted. explicit is true when
// the vendor sent an end-of-stream marker.
func (s *Session) end(explicit bool) error {
	if s.pending != nil {
		return nil
	}
	s.ended = true
	s.shutdown()

	truncated := !explicit && !s.sawReason
	if truncated {
		if s.strict {
			return norm.ErrTruncatedStream
		}
		s.log.Debug("stream ended without finish indicator; synthesizing finish")
	}

	ends := s.agg.Finish()
	for _, end := range ends {
		if end.Fallback {
			s.log.WithField("index", end.Index).Debug("tool call closed by fallback at finish")
		}
		if !s.enqueueToolCall(end) {
			return nil
		}
	}

	s.queue = append(s.queue, norm.FinishSignal{
		Reason:    s.finish.Normalize(s.rawReason),
		RawReason: s.rawReason,
		Usage:     s.usage.Complete(),
		Truncated: truncated,
	})
	return nil
}

// fail records a terminal error and releases the transport.
func (s *Session) fail(err error) error {
	s.state = norm.StreamStateError
	s.err = err
	s.queue = nil
	s.shutdown()
	s.log.WithError(err).Debug("stream failed")
	return err
}

// release closes the transport exactly once. It also runs from the
// context's AfterFunc goroutine, so it touches nothing but the body.
func (s *Session) release() {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
}

// shutdown unregisters the cancellation hook and releases the transport.
func (s *Session) shutdown() {
	s.stopCancel()
	s.release()
}
