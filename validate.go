package norm

import "fmt"

// Validate checks that g can drive a session.
func (g Grammar) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("grammar name must not be empty: %w", ErrValidation)
	}
	switch g.Framing {
	case FramingSSE, FramingNDJSON:
	default:
		return fmt.Errorf("grammar %s: unknown framing %d: %w", g.Name, g.Framing, ErrValidation)
	}
	switch g.ToolCalls {
	case EmitOnClose, EmitAtFinish:
	default:
		return fmt.Errorf("grammar %s: unknown tool call policy %d: %w", g.Name, g.ToolCalls, ErrValidation)
	}
	switch g.ArgumentErrors {
	case ArgumentErrorReport, ArgumentErrorAbort:
	default:
		return fmt.Errorf("grammar %s: unknown argument error policy %d: %w", g.Name, g.ArgumentErrors, ErrValidation)
	}
	if g.NewTranslator == nil {
		return fmt.Errorf("grammar %s: translator constructor is nil: %w", g.Name, ErrValidation)
	}
	for raw, r := range g.FinishReasons {
		if _, ok := ParseFinishReason(string(r)); !ok {
			return fmt.Errorf("grammar %s: finish reason %q maps to unknown value %q: %w", g.Name, raw, r, ErrValidation)
		}
	}
	return nil
}
