package norm

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a grammar failed validation.
	ErrValidation = errors.New("validation error")

	// ErrMalformedPayload indicates a payload recognized as JSON failed to
	// parse. It aborts the session.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrIncompleteToolCallArguments indicates accumulated tool-call argument
	// text did not parse as JSON at finalize time.
	ErrIncompleteToolCallArguments = errors.New("incomplete tool call arguments")

	// ErrTruncatedStream indicates the upstream stream ended without a
	// finish indicator. Only returned by sessions in strict termination mode.
	ErrTruncatedStream = errors.New("stream ended without finish indicator")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)

// ProviderError is an error reported in-band by the vendor mid-stream.
type ProviderError struct {
	Type    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("provider error: %s", e.Message)
	}
	return fmt.Sprintf("provider error: %s: %s", e.Type, e.Message)
}

// ArgumentsError describes a tool call whose accumulated arguments could not
// be parsed.
type ArgumentsError struct {
	Index int
	ID    string
	Name  string
	Raw   string
	Err   error
}

func (e *ArgumentsError) Error() string {
	return fmt.Sprintf("tool call %d (%s): %v: %v", e.Index, e.Name, ErrIncompleteToolCallArguments, e.Err)
}

// Is reports ErrIncompleteToolCallArguments as a match.
func (e *ArgumentsError) Is(target error) bool {
	return target == ErrIncompleteToolCallArguments
}

// Unwrap returns the underlying parse error.
func (e *ArgumentsError) Unwrap() error {
	return e.Err
}
