package mock

import "github.com/fwojciec/norm"

// Interface compliance checks.
var (
	_ norm.Translator  = (*Translator)(nil)
	_ norm.IDGenerator = (*IDGenerator)(nil)
)

// Translator is a test double for norm.Translator.
// Set TranslateFn before calling Translate.
type Translator struct {
	TranslateFn func(rec norm.Record) (norm.Chunk, error)
}

// Translate delegates to TranslateFn.
func (t *Translator) Translate(rec norm.Record) (norm.Chunk, error) {
	return t.TranslateFn(rec)
}

// Grammar returns an SSE grammar named "mock" whose translator is t.
func (t *Translator) Grammar(policy norm.ToolCallPolicy) norm.Grammar {
	return norm.Grammar{
		Name:          "mock",
		Framing:       norm.FramingSSE,
		ToolCalls:     policy,
		FinishReasons: norm.FinishReasonTable{"stop": norm.FinishStop},
		NewTranslator: func() norm.Translator { return t },
	}
}

// IDGenerator is a test double for norm.IDGenerator.
type IDGenerator struct {
	NewIDFn func() string
}

// NewID delegates to NewIDFn.
func (g *IDGenerator) NewID() string {
	return g.NewIDFn()
}
