package lipgloss

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/norm"
	"github.com/mattn/go-runewidth"
)

// DefaultWidth is the column budget for a rendered tool call line.
const DefaultWidth = 100

// Renderer writes deltas to a terminal. Text and reasoning are written as
// they arrive; tool calls and the finish signal get a line each.
type Renderer struct {
	w      io.Writer
	styles Styles
	width  int
	// lastKind tracks which run of text was last written so that switching
	// between reasoning and text starts a new line.
	lastKind string
	midLine  bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the column budget for tool call lines.
func WithWidth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.width = n
		}
	}
}

// WithStyles replaces the styles derived from the theme.
func WithStyles(s Styles) Option {
	return func(r *Renderer) { r.styles = s }
}

// NewRenderer returns a Renderer writing to w. Color output is decided by
// inspecting w.
func NewRenderer(w io.Writer, theme norm.Theme, opts ...Option) *Renderer {
	r := &Renderer{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w), theme),
		width:  DefaultWidth,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render writes one delta. Tool call fragments are not shown; the
// finalized call is.
func (r *Renderer) Render(d norm.Delta) error {
	switch d := d.(type) {
	case norm.TextDelta:
		return r.run("text", r.styles.Text, d.Text)
	case norm.ReasoningDelta:
		return r.run("reasoning", r.styles.Reasoning, d.Text)
	case norm.ToolCallFragment:
		return nil
	case norm.ToolCallEnd:
		return r.line(r.toolCall(d))
	case norm.FinishSignal:
		return r.line(r.finish(d))
	default:
		return fmt.Errorf("lipgloss: unknown delta type: %T", d)
	}
}

// RenderError writes a terminal stream error.
func (r *Renderer) RenderError(err error) error {
	return r.line(r.styles.Error.Render("error: " + Sanitize(err.Error())))
}

func (r *Renderer) run(kind string, style lipgloss.Style, text string) error {
	text = Sanitize(text)
	if text == "" {
		return nil
	}
	var b strings.Builder
	if r.midLine && r.lastKind != kind {
		b.WriteString("\n")
	}
	// Style each line separately so escape sequences never span newlines.
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		if part != "" {
			b.WriteString(style.Render(part))
		}
	}
	r.lastKind = kind
	r.midLine = !strings.HasSuffix(text, "\n")
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) line(s string) error {
	prefix := ""
	if r.midLine {
		prefix = "\n"
	}
	r.midLine = false
	r.lastKind = ""
	_, err := io.WriteString(r.w, prefix+s+"\n")
	return err
}

func (r *Renderer) toolCall(end norm.ToolCallEnd) string {
	if end.Err != nil {
		return r.styles.Error.Render(runewidth.Truncate(Sanitize(fmt.Sprintf("✗ %s: %v", end.Call.Name, end.Err)), r.width, "…"))
	}
	head := fmt.Sprintf("▶ %s ", Sanitize(end.Call.Name))
	args := runewidth.Truncate(Sanitize(string(end.Call.Arguments)), max(r.width-runewidth.StringWidth(head), 1), "…")
	out := r.styles.ToolCall.Render(head) + args
	if end.Fallback {
		out += " " + r.styles.Muted.Render("(closed at finish)")
	}
	return out
}

func (r *Renderer) finish(f norm.FinishSignal) string {
	out := r.styles.Finish.Render("finish: " + string(f.Reason))
	var notes []string
	if f.RawReason != "" && f.RawReason != string(f.Reason) {
		notes = append(notes, "raw="+f.RawReason)
	}
	if f.Truncated {
		notes = append(notes, "truncated")
	}
	if u := f.Usage; u != nil {
		notes = append(notes, "in="+count(u.InputTokens), "out="+count(u.OutputTokens), "total="+count(u.TotalTokens))
	}
	if len(notes) > 0 {
		out += " " + r.styles.Muted.Render(strings.Join(notes, " "))
	}
	return out
}

func count(n *int) string {
	if n == nil {
		return "?"
	}
	return strconv.Itoa(*n)
}
