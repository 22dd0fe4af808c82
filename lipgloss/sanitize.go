package lipgloss

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize removes terminal escape sequences and control characters from
// vendor text so it cannot restyle or move the cursor. Tabs and newlines are
// kept; CRLF becomes LF and any other CR is dropped.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || (r > 0x1F && r != 0x7F) {
			return r
		}
		return -1
	}, s)
}
