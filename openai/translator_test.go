package openai_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/engine"
	"github.com/fwojciec/norm/openai"
	"github.com/fwojciec/norm/toolcall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func data(payload string) string {
	return "data: " + payload + "\n\n"
}

func open(t *testing.T, body string, opts ...engine.Option) *engine.Session {
	t.Helper()
	opts = append([]engine.Option{engine.WithIDGenerator(toolcall.NewSequence("gen_"))}, opts...)
	s, err := engine.New(context.Background(), io.NopCloser(strings.NewReader(body)), openai.Grammar(), opts...)
	require.NoError(t, err)
	return s
}

func drain(t *testing.T, s norm.Stream) []norm.Delta {
	t.Helper()
	var out []norm.Delta
	for {
		d, err := s.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, d)
	}
}

func TestTranslate_TextWithTrailingUsage(t *testing.T) {
	t.Parallel()

	body := data(`{"choices":[{"index":0,"delta":{"role":"assistant","content":""},"finish_reason":null}]}`) +
		data(`{"choices":[{"index":0,"delta":{"content":"Hello"},"finish_reason":null}]}`) +
		data(`{"choices":[{"index":0,"delta":{},"finish_reason":"stop"}],"usage":null}`) +
		data(`{"choices":[],"usage":{"prompt_tokens":9,"completion_tokens":3,"total_tokens":12}}`) +
		data(`[DONE]`)

	deltas := drain(t, open(t, body))

	require.Len(t, deltas, 2)
	assert.Equal(t, norm.TextDelta{Text: "Hello"}, deltas[0])
	finish := deltas[1].(norm.FinishSignal)
	assert.Equal(t, norm.FinishStop, finish.Reason)
	require.NotNil(t, finish.Usage)
	assert.Equal(t, norm.Tokens(9), finish.Usage.InputTokens)
	assert.Equal(t, norm.Tokens(3), finish.Usage.OutputTokens)
	assert.Equal(t, norm.Tokens(12), finish.Usage.TotalTokens)
}

func TestTranslate_ToolCallsEmittedAtFinish(t *testing.T) {
	t.Parallel()

	body := data(`{"choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"id":"call_a","type":"function","function":{"name":"search","arguments":""}}]}}]}`) +
		data(`{"choices":[{"index":0,"delta":{"tool_calls":[{"index":1,"function":{"name":"lookup","arguments":"{\"id\":"}}]}}]}`) +
		data(`{"choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"{\"q\":\"go\"}"}}]}}]}`) +
		data(`{"choices":[{"index":0,"delta":{"tool_calls":[{"index":1,"function":{"arguments":"7}"}}]}}]}`) +
		data(`{"choices":[{"index":0,"delta":{},"finish_reason":"tool_calls"}]}`) +
		data(`[DONE]`)

	deltas := drain(t, open(t, body))

	require.Len(t, deltas, 7)
	for _, d := range deltas[:4] {
		assert.IsType(t, norm.ToolCallFragment{}, d)
	}
	first := deltas[4].(norm.ToolCallEnd)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "call_a", first.Call.ID)
	assert.Equal(t, `{"q":"go"}`, string(first.Call.Arguments))
	assert.False(t, first.Fallback)
	second := deltas[5].(norm.ToolCallEnd)
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, "gen_0", second.Call.ID)
	assert.Equal(t, "lookup", second.Call.Name)
	assert.Equal(t, `{"id":7}`, string(second.Call.Arguments))
	finish := deltas[6].(norm.FinishSignal)
	assert.Equal(t, norm.FinishToolCalls, finish.Reason)
	assert.Nil(t, finish.Usage)
}

func TestTranslate_MalformedChunkAbortsAfterValidContent(t *testing.T) {
	t.Parallel()

	body := data(`{"choices":[{"index":0,"delta":{"content":"ok"}}]}`) +
		"data: {broken\n\n" +
		data(`{"choices":[{"index":0,"delta":{"content":"never"}}]}`)
	s := open(t, body)

	d, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, norm.TextDelta{Text: "ok"}, d)

	_, err = s.Next()
	require.ErrorIs(t, err, norm.ErrMalformedPayload)
	assert.Equal(t, norm.StreamStateError, s.State())

	_, err = s.Next()
	assert.ErrorIs(t, err, norm.ErrMalformedPayload)
}

func TestTranslate_InBandError(t *testing.T) {
	t.Parallel()

	s := open(t, data(`{"error":{"message":"Rate limit reached","type":"rate_limit_error","code":null}}`))

	_, err := s.Next()

	var perr *norm.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "rate_limit_error", perr.Type)
	assert.Equal(t, "Rate limit reached", perr.Message)
}

func TestTranslate_FinishReasonWithoutDone(t *testing.T) {
	t.Parallel()

	body := data(`{"choices":[{"index":0,"delta":{"content":"cut"},"finish_reason":"length"}]}`)

	deltas := drain(t, open(t, body))

	require.Len(t, deltas, 2)
	finish := deltas[1].(norm.FinishSignal)
	assert.Equal(t, norm.FinishLength, finish.Reason)
	assert.False(t, finish.Truncated)
}

func TestTranslate_TruncatedStream(t *testing.T) {
	t.Parallel()

	body := data(`{"choices":[{"index":0,"delta":{"content":"partial"}}]}`)

	t.Run("synthesized finish", func(t *testing.T) {
		t.Parallel()
		deltas := drain(t, open(t, body))
		require.Len(t, deltas, 2)
		finish := deltas[1].(norm.FinishSignal)
		assert.True(t, finish.Truncated)
		assert.Equal(t, norm.FinishOther, finish.Reason)
		assert.Empty(t, finish.RawReason)
	})

	t.Run("strict", func(t *testing.T) {
		t.Parallel()
		s := open(t, body, engine.WithStrictTermination())
		_, err := s.Next()
		require.NoError(t, err)
		_, err = s.Next()
		assert.ErrorIs(t, err, norm.ErrTruncatedStream)
	})
}

func TestTranslate_Reasoning(t *testing.T) {
	t.Parallel()

	tr := openai.NewTranslator()
	chunk, err := tr.Translate(norm.Record{Data: `{"choices":[{"index":0,"delta":{"reasoning_content":"think","content":"say"}}]}`})

	require.NoError(t, err)
	assert.Equal(t, []norm.Delta{norm.ReasoningDelta{Text: "think"}, norm.TextDelta{Text: "say"}}, chunk.Deltas)
}

func TestTranslate_IgnoresOtherChoices(t *testing.T) {
	t.Parallel()

	tr := openai.NewTranslator()
	chunk, err := tr.Translate(norm.Record{Data: `{"choices":[{"index":1,"delta":{"content":"alt"},"finish_reason":"stop"}]}`})

	require.NoError(t, err)
	assert.Empty(t, chunk.Deltas)
	assert.Empty(t, chunk.FinishReason)
}

func TestTranslate_FinishReasonOverride(t *testing.T) {
	t.Parallel()

	body := data(`{"choices":[{"index":0,"delta":{},"finish_reason":"eos"}]}`) + data(`[DONE]`)
	s := open(t, body, engine.WithFinishReasons(map[string]norm.FinishReason{"eos": norm.FinishStop}))

	deltas := drain(t, s)

	require.Len(t, deltas, 1)
	finish := deltas[0].(norm.FinishSignal)
	assert.Equal(t, norm.FinishStop, finish.Reason)
	assert.Equal(t, "eos", finish.RawReason)
}
