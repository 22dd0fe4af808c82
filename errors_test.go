package norm_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/norm"
	"github.com/stretchr/testify/assert"
)

func TestProviderError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "provider error: overloaded_error: Overloaded",
		(&norm.ProviderError{Type: "overloaded_error", Message: "Overloaded"}).Error())
	assert.Equal(t, "provider error: model crashed",
		(&norm.ProviderError{Message: "model crashed"}).Error())
}

func TestArgumentsError(t *testing.T) {
	t.Parallel()
	cause := errors.New("unexpected end of JSON input")
	err := &norm.ArgumentsError{Index: 2, ID: "c2", Name: "search", Raw: `{"q":`, Err: cause}

	assert.ErrorIs(t, err, norm.ErrIncompleteToolCallArguments)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "tool call 2 (search): incomplete tool call arguments: unexpected end of JSON input", err.Error())
}
