package norm_test

import (
	"testing"

	"github.com/fwojciec/norm"
	"github.com/stretchr/testify/assert"
)

func validGrammar() norm.Grammar {
	return norm.Grammar{
		Name:          "test",
		Framing:       norm.FramingSSE,
		ToolCalls:     norm.EmitOnClose,
		FinishReasons: norm.FinishReasonTable{"done": norm.FinishStop},
		NewTranslator: func() norm.Translator { return nil },
	}
}

func TestGrammar_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validGrammar().Validate())

	tests := []struct {
		name    string
		mutate  func(g *norm.Grammar)
		wantMsg string
	}{
		{"empty name", func(g *norm.Grammar) { g.Name = "" }, "name must not be empty"},
		{"unknown framing", func(g *norm.Grammar) { g.Framing = 7 }, "unknown framing"},
		{"unknown tool call policy", func(g *norm.Grammar) { g.ToolCalls = 7 }, "unknown tool call policy"},
		{"unknown argument error policy", func(g *norm.Grammar) { g.ArgumentErrors = 7 }, "unknown argument error policy"},
		{"nil translator", func(g *norm.Grammar) { g.NewTranslator = nil }, "translator constructor is nil"},
		{"bad table value", func(g *norm.Grammar) {
			g.FinishReasons = norm.FinishReasonTable{"done": "finished"}
		}, `maps to unknown value "finished"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := validGrammar()
			tt.mutate(&g)
			err := g.Validate()
			assert.ErrorIs(t, err, norm.ErrValidation)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}
}
