package engine

import (
	"io"

	"github.com/fwojciec/norm"
	"github.com/sirupsen/logrus"
)

// Option configures a Session.
type Option func(*config)

type config struct {
	ids         norm.IDGenerator
	log         logrus.FieldLogger
	repair      bool
	strict      bool
	maxLineSize int
	overrides   map[string]norm.FinishReason
}

func newConfig(opts []Option) config {
	discard := logrus.New()
	discard.Out = io.Discard
	c := config{log: discard}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithIDGenerator sets the generator for tool calls sent without an ID.
// Default is random UUIDs.
func WithIDGenerator(g norm.IDGenerator) Option {
	return func(c *config) { c.ids = g }
}

// WithLogger sets the logger. Default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithArgumentRepair makes the session attempt to repair malformed tool-call
// argument JSON before reporting it.
func WithArgumentRepair() Option {
	return func(c *config) { c.repair = true }
}

// WithStrictTermination makes a stream that ends without a finish indicator
// fail with norm.ErrTruncatedStream instead of yielding a synthesized
// FinishSignal flagged as Truncated.
func WithStrictTermination() Option {
	return func(c *config) { c.strict = true }
}

// WithMaxLineSize sets the maximum accepted wire line length in bytes.
func WithMaxLineSize(n int) Option {
	return func(c *config) { c.maxLineSize = n }
}

// WithFinishReasons lays overrides over the grammar's finish reason table.
func WithFinishReasons(overrides map[string]norm.FinishReason) Option {
	return func(c *config) { c.overrides = overrides }
}
