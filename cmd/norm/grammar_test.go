package main

import (
	"testing"

	"github.com/fwojciec/norm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGrammar_Explicit(t *testing.T) {
	t.Parallel()
	g, err := resolveGrammar("anthropic", "capture.sse")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", g.Name)
}

func TestResolveGrammar_NDJSONExtension(t *testing.T) {
	t.Parallel()
	g, err := resolveGrammar("", "captures/chat.ndjson")
	require.NoError(t, err)
	assert.Equal(t, "ollama", g.Name)
	assert.Equal(t, norm.FramingNDJSON, g.Framing)
}

func TestResolveGrammar_Unknown(t *testing.T) {
	t.Parallel()
	_, err := resolveGrammar("cohere", "capture.sse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown grammar")
}

func TestResolveGrammar_NoneSelected(t *testing.T) {
	t.Parallel()
	_, err := resolveGrammar("", "capture.sse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no grammar selected")
}

func TestGrammars_AllValidate(t *testing.T) {
	t.Parallel()
	for _, name := range grammarNames() {
		g := grammars[name]()
		assert.Equal(t, name, g.Name)
		assert.NoError(t, g.Validate(), name)
	}
}
