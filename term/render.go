// Package term renders an mdrender layout tree to ANSI terminals. It
// is a static surface: links become OSC 8 hyperlinks when the terminal
// supports them, horizontal scroll regions are truncated to the
// viewport, and tab groups render as a label strip followed by every
// tab's content.
package term

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/tayoji-io/mdrender"
)

const (
	defaultWidth = 80

	// scrollLimit is the layout width given to horizontally scrollable
	// content before it is truncated to the viewport.
	scrollLimit = 4096

	tableSeparator = "  "
)

// ErrNoWriter reports a RenderRequest without an output writer.
var ErrNoWriter = errors.New("render: no writer")

// RenderRequest carries one render invocation.
type RenderRequest struct {
	Writer io.Writer
	// Width is the viewport width in cells (80 when zero).
	Width int
	Nodes []mdrender.RenderNode
	// Profile forces a termenv color profile. The zero value is
	// termenv.TrueColor; tests use termenv.Ascii for stable output.
	Profile termenv.Profile
	// OSC8 emits OSC 8 hyperlink sequences for link targets.
	OSC8 bool
}

// Render writes the layout tree as ANSI text. Output ends with a
// single trailing newline.
func Render(req RenderRequest) error {
	if req.Writer == nil {
		return ErrNoWriter
	}
	width := req.Width
	if width <= 0 {
		width = defaultWidth
	}

	// SetColorProfile is required because lipgloss.Renderer.ColorProfile()
	// ignores the termenv.Output profile and re-detects from the
	// writer.
	lip := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(req.Profile))
	lip.SetColorProfile(req.Profile)

	r := &renderer{lip: lip, osc8: req.OSC8}
	out := r.blocks(req.Nodes, width)
	out = strings.TrimRight(out, "\n") + "\n"
	_, err := io.WriteString(req.Writer, out)
	return err
}

type renderer struct {
	lip  *lipgloss.Renderer
	osc8 bool
}

// blocks stacks sibling block nodes, one per line group. Spacers
// become blank lines.
func (r *renderer) blocks(nodes []mdrender.RenderNode, width int) string {
	var parts []string
	for _, node := range nodes {
		if _, ok := node.(*mdrender.Spacer); ok {
			parts = append(parts, "")
			continue
		}
		if rendered := r.block(node, width); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, "\n")
}

func (r *renderer) block(node mdrender.RenderNode, width int) string {
	switch n := node.(type) {
	case *mdrender.Column:
		return r.place(r.blocks(n.Children, width), width, n.Align)
	case *mdrender.Flow:
		return r.flow(n, width)
	case *mdrender.Row:
		return r.row(n, width)
	case *mdrender.Box:
		return r.box(n, width)
	case *mdrender.Scroll:
		return r.scroll(n, width)
	case *mdrender.Table:
		return r.table(n)
	case *mdrender.TabGroup:
		return r.tabGroup(n, width)
	case *mdrender.Divider:
		return strings.Repeat("─", width)
	case *mdrender.TextRun:
		return r.run(n)
	case *mdrender.Image:
		return r.image(n, width)
	case *mdrender.Spacer, *mdrender.Empty, nil:
		return ""
	}
	return ""
}

// flow concatenates inline runs, wraps them to the width, and aligns
// the result. Non-inline children (scroll regions from inline code
// blocks) break the run buffer.
func (r *renderer) flow(flow *mdrender.Flow, width int) string {
	var parts []string
	var buf strings.Builder
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		parts = append(parts, ansi.Wordwrap(buf.String(), width, ""))
		buf.Reset()
	}
	for _, child := range flow.Children {
		switch n := child.(type) {
		case *mdrender.TextRun:
			buf.WriteString(r.run(n))
		case *mdrender.Image:
			buf.WriteString(r.image(n, width))
		default:
			flush()
			parts = append(parts, r.block(child, width))
		}
	}
	flush()
	return r.place(strings.Join(parts, "\n"), width, flow.Align)
}

// row puts the leading cell (bullet, checkbox) beside the content
// column, indenting continuation lines under the content.
func (r *renderer) row(row *mdrender.Row, width int) string {
	indent := int(row.LeadingWidth)
	var leading, content string
	if len(row.Children) > 0 {
		leading = r.block(row.Children[0], indent)
	}
	if len(row.Children) > 1 {
		content = r.blocks(row.Children[1:], width-indent)
	}

	pad := indent - ansi.StringWidth(leading)
	if pad < 1 {
		pad = 1
	}
	prefix := leading + strings.Repeat(" ", pad)
	continuation := strings.Repeat(" ", ansi.StringWidth(prefix))

	lines := strings.Split(content, "\n")
	for index, line := range lines {
		if index == 0 {
			lines[index] = prefix + line
		} else if line != "" {
			lines[index] = continuation + line
		}
	}
	return strings.Join(lines, "\n")
}

func (r *renderer) box(box *mdrender.Box, width int) string {
	pad := int(box.Padding)
	switch box.Kind {
	case mdrender.BoxQuote:
		content := r.block(box.Child, width-pad)
		lines := strings.Split(content, "\n")
		for index, line := range lines {
			lines[index] = "│ " + line
		}
		return strings.Join(lines, "\n")
	default:
		content := r.block(box.Child, width-pad)
		indent := strings.Repeat(" ", pad)
		lines := strings.Split(content, "\n")
		for index, line := range lines {
			if line != "" {
				lines[index] = indent + line
			}
		}
		return strings.Join(lines, "\n")
	}
}

func (r *renderer) scroll(scroll *mdrender.Scroll, width int) string {
	if scroll.Axis != mdrender.Horizontal {
		return r.block(scroll.Child, width)
	}
	content := r.block(scroll.Child, scrollLimit)
	lines := strings.Split(content, "\n")
	for index, line := range lines {
		if ansi.StringWidth(line) > width {
			lines[index] = ansi.Truncate(line, width, "…")
		}
	}
	return strings.Join(lines, "\n")
}

func (r *renderer) tabGroup(group *mdrender.TabGroup, width int) string {
	labels := make([]string, 0, len(group.Tabs))
	for _, tab := range group.Tabs {
		labels = append(labels, tab.Label)
	}
	strip := r.lip.NewStyle().Bold(true).Render(strings.Join(labels, " │ "))
	parts := []string{strip}
	for _, tab := range group.Tabs {
		parts = append(parts, r.block(tab.Content, width))
	}
	return strings.Join(parts, "\n")
}

func (r *renderer) run(run *mdrender.TextRun) string {
	out := r.style(run.Style).Render(run.Text)
	if run.Link != nil && r.osc8 {
		out = hyperlink(run.Link.Href, out)
	}
	return out
}

// image renders a reference placeholder: the terminal cannot show the
// pixels, so it shows the alt text and a fitted source path.
func (r *renderer) image(img *mdrender.Image, width int) string {
	label := img.Alt
	if label == "" {
		label = img.Title
	}
	out := "[" + label + "]"
	if img.Src != "" {
		out += "(" + fitURL(img.Src, width/2) + ")"
	}
	out = r.lip.NewStyle().Faint(true).Render(out)
	if img.Link != nil && r.osc8 {
		out = hyperlink(img.Link.Href, out)
	} else if r.osc8 {
		out = hyperlink(img.Src, out)
	}
	return out
}

func (r *renderer) style(s mdrender.Style) lipgloss.Style {
	style := r.lip.NewStyle()
	if s.Foreground != "" {
		style = style.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		style = style.Background(lipgloss.Color(s.Background))
	}
	if s.Bold {
		style = style.Bold(true)
	}
	if s.Italic {
		style = style.Italic(true)
	}
	if s.Underline {
		style = style.Underline(true)
	}
	if s.Strikethrough {
		style = style.Strikethrough(true)
	}
	return style
}

func (r *renderer) place(content string, width int, align mdrender.Alignment) string {
	switch align {
	case mdrender.AlignCenter:
		return r.lip.PlaceHorizontal(width, lipgloss.Center, content)
	case mdrender.AlignEnd:
		return r.lip.PlaceHorizontal(width, lipgloss.Right, content)
	default:
		return content
	}
}
