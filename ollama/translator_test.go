package ollama_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/engine"
	"github.com/fwojciec/norm/ollama"
	"github.com/fwojciec/norm/toolcall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, lines ...string) ([]norm.Delta, error) {
	t.Helper()
	body := strings.Join(lines, "\n") + "\n"
	s, err := engine.New(context.Background(), io.NopCloser(strings.NewReader(body)), ollama.Grammar(),
		engine.WithIDGenerator(toolcall.NewSequence("gen_")))
	require.NoError(t, err)
	var out []norm.Delta
	for {
		d, err := s.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
}

func TestGrammar_Validates(t *testing.T) {
	t.Parallel()

	g := ollama.Grammar()
	require.NoError(t, g.Validate())
	assert.Equal(t, norm.FramingNDJSON, g.Framing)
}

func TestTranslate_Chat(t *testing.T) {
	t.Parallel()

	deltas, err := collect(t,
		`{"model":"llama3.2","message":{"role":"assistant","content":"","thinking":"hm"},"done":false}`,
		`{"model":"llama3.2","message":{"role":"assistant","content":"Hi"},"done":false}`,
		``,
		`{"model":"llama3.2","message":{"role":"assistant","content":" there"},"done":false}`,
		`{"model":"llama3.2","message":{"role":"assistant","content":""},"done":true,"done_reason":"stop","prompt_eval_count":26,"eval_count":298}`,
	)

	require.NoError(t, err)
	require.Len(t, deltas, 4)
	assert.Equal(t, norm.ReasoningDelta{Text: "hm"}, deltas[0])
	assert.Equal(t, norm.TextDelta{Text: "Hi"}, deltas[1])
	assert.Equal(t, norm.TextDelta{Text: " there"}, deltas[2])
	finish := deltas[3].(norm.FinishSignal)
	assert.Equal(t, norm.FinishStop, finish.Reason)
	require.NotNil(t, finish.Usage)
	assert.Equal(t, norm.Tokens(26), finish.Usage.InputTokens)
	assert.Equal(t, norm.Tokens(298), finish.Usage.OutputTokens)
	assert.Equal(t, norm.Tokens(324), finish.Usage.TotalTokens)
}

func TestTranslate_Generate(t *testing.T) {
	t.Parallel()

	deltas, err := collect(t,
		`{"response":"The","done":false}`,
		`{"response":"","done":true,"done_reason":"length"}`,
	)

	require.NoError(t, err)
	require.Len(t, deltas, 2)
	assert.Equal(t, norm.TextDelta{Text: "The"}, deltas[0])
	finish := deltas[1].(norm.FinishSignal)
	assert.Equal(t, norm.FinishLength, finish.Reason)
	assert.Nil(t, finish.Usage)
}

func TestTranslate_ToolCalls(t *testing.T) {
	t.Parallel()

	deltas, err := collect(t,
		`{"message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"weather","arguments":{"city":"Paris"}}}]},"done":false}`,
		`{"message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"time","arguments":"{\"tz\":\"CET\"}"}}]},"done":false}`,
		`{"message":{"role":"assistant","content":""},"done":true,"done_reason":"stop"}`,
	)

	require.NoError(t, err)
	require.Len(t, deltas, 5)
	first := deltas[2].(norm.ToolCallEnd)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "gen_0", first.Call.ID)
	assert.Equal(t, "weather", first.Call.Name)
	assert.JSONEq(t, `{"city":"Paris"}`, string(first.Call.Arguments))
	second := deltas[3].(norm.ToolCallEnd)
	assert.Equal(t, 1, second.Index)
	assert.JSONEq(t, `{"tz":"CET"}`, string(second.Call.Arguments))
	assert.IsType(t, norm.FinishSignal{}, deltas[4])
}

func TestTranslate_Error(t *testing.T) {
	t.Parallel()

	deltas, err := collect(t,
		`{"message":{"content":"a"},"done":false}`,
		`{"error":"model runner has unexpectedly stopped"}`,
	)

	assert.Equal(t, []norm.Delta{norm.TextDelta{Text: "a"}}, deltas)
	var perr *norm.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "model runner has unexpectedly stopped", perr.Message)
}

func TestTranslate_MalformedLine(t *testing.T) {
	t.Parallel()

	_, err := collect(t, `{"message":{"content":"a"`)

	assert.ErrorIs(t, err, norm.ErrMalformedPayload)
}
