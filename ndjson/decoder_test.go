package ndjson_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/ndjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_OneRecordPerLine(t *testing.T) {
	t.Parallel()
	input := "{\"a\":1}\n\n  \n{\"b\":2}\r\n{\"c\":3}"
	d := ndjson.NewDecoder(iotest.OneByteReader(strings.NewReader(input)))

	var got []norm.Record
	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, rec)
	}
	assert.Equal(t, []norm.Record{
		{Data: `{"a":1}`},
		{Data: `{"b":2}`},
		{Data: `{"c":3}`},
	}, got)
}

func TestDecoder_PropagatesReadError(t *testing.T) {
	t.Parallel()
	boom := errors.New("broken pipe")
	d := ndjson.NewDecoder(iotest.ErrReader(boom))
	_, err := d.Next()
	assert.Equal(t, boom, err)
}
