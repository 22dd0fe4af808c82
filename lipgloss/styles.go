// Package lipgloss renders normalized deltas for a terminal using
// charmbracelet/lipgloss.
package lipgloss

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/norm"
)

// Styles maps a Theme to lipgloss styles.
type Styles struct {
	Text      lipgloss.Style
	Reasoning lipgloss.Style
	ToolCall  lipgloss.Style
	Error     lipgloss.Style
	Finish    lipgloss.Style
	Muted     lipgloss.Style
}

// NewStyles creates Styles from a Theme using the default renderer.
func NewStyles(t norm.Theme) Styles {
	return newStyles(lipgloss.DefaultRenderer(), t)
}

func newStyles(r *lipgloss.Renderer, t norm.Theme) Styles {
	return Styles{
		Text:      r.NewStyle().Foreground(ansiColor(t.Text)),
		Reasoning: r.NewStyle().Foreground(ansiColor(t.Reasoning)).Faint(true),
		ToolCall:  r.NewStyle().Foreground(ansiColor(t.ToolCall)).Bold(true),
		Error:     r.NewStyle().Foreground(ansiColor(t.Error)),
		Finish:    r.NewStyle().Foreground(ansiColor(t.Finish)).Bold(true),
		Muted:     r.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
