package norm_test

import (
	"testing"

	"github.com/fwojciec/norm"
	"github.com/stretchr/testify/assert"
)

func TestStreamState_ZeroValue(t *testing.T) {
	t.Parallel()
	var s norm.StreamState
	assert.Equal(t, norm.StreamStateNew, s, "zero-value StreamState should be StreamStateNew")
}

func TestStreamState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "new", norm.StreamStateNew.String())
	assert.Equal(t, "streaming", norm.StreamStateStreaming.String())
	assert.Equal(t, "complete", norm.StreamStateComplete.String())
	assert.Equal(t, "error", norm.StreamStateError.String())
	assert.Equal(t, "closed", norm.StreamStateClosed.String())
	assert.Equal(t, "unknown", norm.StreamState(42).String())
}

func TestGrammarEnums_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "sse", norm.FramingSSE.String())
	assert.Equal(t, "ndjson", norm.FramingNDJSON.String())
	assert.Equal(t, "emit-on-close", norm.EmitOnClose.String())
	assert.Equal(t, "emit-at-finish", norm.EmitAtFinish.String())
}
