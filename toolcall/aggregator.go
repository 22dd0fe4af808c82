// Package toolcall accumulates streamed tool-call fragments into finalized
// tool invocations.
package toolcall

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/fwojciec/norm"
	"github.com/kaptinlin/jsonrepair"
)

// Aggregator accumulates tool-call fragments keyed by their stream-local
// index. It is owned by one session and is not safe for concurrent use.
type Aggregator struct {
	policy   norm.ToolCallPolicy
	ids      norm.IDGenerator
	repair   bool
	builders map[int]*builder
}

// builder tracks the state of one tool call being assembled.
type builder struct {
	id   string
	name string
	args strings.Builder
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithIDGenerator sets the generator used for tool calls that arrive without
// an identifier. Default is UUIDs.
func WithIDGenerator(g norm.IDGenerator) Option {
	return func(a *Aggregator) {
		if g != nil {
			a.ids = g
		}
	}
}

// WithRepair makes finalize attempt to repair malformed argument JSON before
// reporting it as incomplete.
func WithRepair() Option {
	return func(a *Aggregator) { a.repair = true }
}

// New returns an Aggregator applying policy.
func New(policy norm.ToolCallPolicy, opts ...Option) *Aggregator {
	a := &Aggregator{
		policy:   policy,
		ids:      UUIDs{},
		builders: make(map[int]*builder),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Add applies a fragment. A fragment with an unseen index opens a builder;
// later fragments append their argument text. ID and Name are captured from
// whichever fragment carries them.
func (a *Aggregator) Add(f norm.ToolCallFragment) {
	b, ok := a.builders[f.Index]
	if !ok {
		b = &builder{}
		a.builders[f.Index] = b
	}
	if f.ID != "" {
		b.id = f.ID
	}
	if f.Name != "" {
		b.name = f.Name
	}
	b.args.WriteString(f.Arguments)
}

// Close finalizes the builder at index. It reports false when no builder is
// open at index or when the policy finalizes only at finish.
func (a *Aggregator) Close(index int) (norm.ToolCallEnd, bool) {
	if a.policy != norm.EmitOnClose {
		return norm.ToolCallEnd{}, false
	}
	b, ok := a.builders[index]
	if !ok {
		return norm.ToolCallEnd{}, false
	}
	delete(a.builders, index)
	return a.finalize(index, b, false), true
}

// Finish finalizes every open builder in ascending index order. Under
// EmitOnClose the results are flagged as Fallback.
func (a *Aggregator) Finish() []norm.ToolCallEnd {
	if len(a.builders) == 0 {
		return nil
	}
	indices := make([]int, 0, len(a.builders))
	for i := range a.builders {
		indices = append(indices, i)
	}
	slices.Sort(indices)

	fallback := a.policy == norm.EmitOnClose
	out := make([]norm.ToolCallEnd, 0, len(indices))
	for _, i := range indices {
		out = append(out, a.finalize(i, a.builders[i], fallback))
		delete(a.builders, i)
	}
	return out
}

// Open returns the number of builders not yet finalized.
func (a *Aggregator) Open() int {
	return len(a.builders)
}

func (a *Aggregator) finalize(index int, b *builder, fallback bool) norm.ToolCallEnd {
	id := b.id
	if id == "" {
		id = a.ids.NewID()
	}
	end := norm.ToolCallEnd{
		Index:    index,
		Call:     norm.ToolCall{ID: id, Name: b.name},
		Fallback: fallback,
	}

	raw := b.args.String()
	args, err := a.parse(raw)
	if err != nil {
		end.Err = &norm.ArgumentsError{Index: index, ID: id, Name: b.name, Raw: raw, Err: err}
		return end
	}
	end.Call.Arguments = args
	return end
}

// parse validates raw as JSON. An empty buffer defaults to an empty object.
func (a *Aggregator) parse(raw string) (json.RawMessage, error) {
	if strings.TrimSpace(raw) == "" {
		return json.RawMessage(`{}`), nil
	}
	var v any
	err := json.Unmarshal([]byte(raw), &v)
	if err == nil {
		return json.RawMessage(raw), nil
	}
	if !a.repair {
		return nil, err
	}
	repaired, repairErr := jsonrepair.JSONRepair(raw)
	if repairErr != nil || !json.Valid([]byte(repaired)) {
		return nil, err
	}
	return json.RawMessage(repaired), nil
}
