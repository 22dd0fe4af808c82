package norm

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values. A negative
// index disables color for that role.
type Theme struct {
	Text      int // Assistant text
	Reasoning int // Reasoning text
	ToolCall  int // Finalized tool calls
	Error     int // Errors and failed tool calls
	Finish    int // Finish line
	Muted     int // Usage, fallback notes
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Text:      -1,
		Reasoning: 8,
		ToolCall:  3,
		Error:     1,
		Finish:    2,
		Muted:     8,
	}
}
