package sse_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(t *testing.T, d *sse.Decoder) []norm.Record {
	t.Helper()
	var out []norm.Record
	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func decode(t *testing.T, input string) []norm.Record {
	t.Helper()
	return records(t, sse.NewDecoder(strings.NewReader(input)))
}

func TestDecoder_Grammar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  []norm.Record
	}{
		{
			name:  "single data line",
			input: "data: hello\n\n",
			want:  []norm.Record{{Data: "hello"}},
		},
		{
			name:  "event with multi-line data",
			input: "event: foo\ndata: a\ndata: b\n\n",
			want:  []norm.Record{{Event: "foo", Data: "a\nb"}},
		},
		{
			name:  "event without data is dropped",
			input: "event: orphan\n\n",
			want:  nil,
		},
		{
			name:  "id is captured",
			input: "id: 42\ndata: x\n\n",
			want:  []norm.Record{{ID: "42", Data: "x"}},
		},
		{
			name:  "comments are ignored",
			input: ": keep-alive\ndata: x\n: another\n\n",
			want:  []norm.Record{{Data: "x"}},
		},
		{
			name:  "only one leading space is stripped",
			input: "data:  two spaces\ndata:none\n\n",
			want:  []norm.Record{{Data: " two spaces\nnone"}},
		},
		{
			name:  "value keeps later colons",
			input: "data: {\"a\":\"b:c\"}\n\n",
			want:  []norm.Record{{Data: `{"a":"b:c"}`}},
		},
		{
			name:  "last event and id win",
			input: "event: a\nevent: b\nid: 1\nid: 2\ndata: x\n\n",
			want:  []norm.Record{{Event: "b", ID: "2", Data: "x"}},
		},
		{
			name:  "unknown fields are ignored",
			input: "retry: 1000\nfoo: bar\ndata: x\n\n",
			want:  []norm.Record{{Data: "x"}},
		},
		{
			name:  "colon-less data line appends empty value",
			input: "data: a\ndata\ndata: b\n\n",
			want:  []norm.Record{{Data: "a\n\nb"}},
		},
		{
			name:  "colon-less unknown line is ignored",
			input: "garbage\ndata: x\n\n",
			want:  []norm.Record{{Data: "x"}},
		},
		{
			name:  "state resets between records",
			input: "event: first\ndata: 1\n\ndata: 2\n\n",
			want:  []norm.Record{{Event: "first", Data: "1"}, {Data: "2"}},
		},
		{
			name:  "event-only block does not leak into next record",
			input: "event: orphan\n\ndata: x\n\n",
			want:  []norm.Record{{Data: "x"}},
		},
		{
			name:  "repeated blank lines dispatch nothing",
			input: "\n\n\ndata: x\n\n\n\n",
			want:  []norm.Record{{Data: "x"}},
		},
		{
			name:  "crlf terminators",
			input: "event: e\r\ndata: x\r\n\r\n",
			want:  []norm.Record{{Event: "e", Data: "x"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, decode(t, tt.input))
		})
	}
}

func TestDecoder_UnterminatedRecordIsDropped(t *testing.T) {
	t.Parallel()
	d := sse.NewDecoder(strings.NewReader("data: done\n\ndata: partial"))
	got := records(t, d)
	assert.Equal(t, []norm.Record{{Data: "done"}}, got)
	assert.True(t, d.Dropped())
}

func TestDecoder_CleanEndIsNotDropped(t *testing.T) {
	t.Parallel()
	d := sse.NewDecoder(strings.NewReader("data: done\n\nevent: trailing\n"))
	records(t, d)
	assert.False(t, d.Dropped())
}

func TestDecoder_RoundTrip(t *testing.T) {
	t.Parallel()
	fragments := [][]string{
		{"Hello"},
		{"multi", "line", "fragment"},
		{"  leading spaces"},
		{"colons: a:b:c"},
		{"unicode ✓ 世界"},
	}
	var b strings.Builder
	var want []norm.Record
	for _, frag := range fragments {
		for _, line := range frag {
			b.WriteString("data: " + line + "\n")
		}
		b.WriteString("\n")
		want = append(want, norm.Record{Data: strings.Join(frag, "\n")})
	}
	d := sse.NewDecoder(iotest.HalfReader(strings.NewReader(b.String())))
	assert.Equal(t, want, records(t, d))
}

func TestDecoder_Idempotent(t *testing.T) {
	t.Parallel()
	input := "event: a\ndata: 1\n\n: c\nid: 7\ndata: 2\ndata: 3\n\nevent: x\n\n"
	first := decode(t, input)
	second := decode(t, input)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestDecoder_PropagatesReadError(t *testing.T) {
	t.Parallel()
	boom := errors.New("connection reset")
	d := sse.NewDecoder(io.MultiReader(strings.NewReader("data: a\n\ndata: b\n"), iotest.ErrReader(boom)))

	rec, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, norm.Record{Data: "a"}, rec)

	_, err = d.Next()
	assert.Equal(t, boom, err)
}
