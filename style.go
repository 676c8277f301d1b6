package mdrender

import (
	"fmt"
	"strings"
)

// Alignment is a horizontal alignment for block content and table
// cells.
type Alignment uint8

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "start"
	}
}

// ParseAlignment maps a CSS-ish alignment keyword to an Alignment.
// Values outside the recognized set indicate a broken upstream stage
// and fail rather than defaulting.
func ParseAlignment(value string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left", "start":
		return AlignStart, nil
	case "center":
		return AlignCenter, nil
	case "right", "end":
		return AlignEnd, nil
	default:
		return AlignStart, fmt.Errorf("alignment %q: %w", value, ErrBadAlignment)
	}
}

// Style describes the appearance of a text run. The zero value inherits
// everything. Style is a plain comparable value: two runs with equal
// styles (and the same link target and label) merge into one.
type Style struct {
	// Foreground and Background are color values understood by the
	// rendering surface (hex or ANSI index); empty inherits.
	Foreground string
	Background string

	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Monospace     bool

	// Scale is a text scale factor relative to the base size; zero
	// inherits.
	Scale float64
}

// Merge layers over on top of s: set fields of over win, boolean
// attributes accumulate. Used when entering nested inline tags (em
// inside strong keeps both).
func (s Style) Merge(over Style) Style {
	out := s
	if over.Foreground != "" {
		out.Foreground = over.Foreground
	}
	if over.Background != "" {
		out.Background = over.Background
	}
	out.Bold = out.Bold || over.Bold
	out.Italic = out.Italic || over.Italic
	out.Underline = out.Underline || over.Underline
	out.Strikethrough = out.Strikethrough || over.Strikethrough
	out.Monospace = out.Monospace || over.Monospace
	if over.Scale != 0 {
		out.Scale = over.Scale
	}
	return out
}

// IsZero reports whether the style inherits everything.
func (s Style) IsZero() bool {
	return s == Style{}
}

// LinkTarget is the tappable handle produced by the link-handler
// factory for an a element. Runs and images built while a target is on
// the handler stack reference it; targets compare by identity, so runs
// belonging to different links never merge.
type LinkTarget struct {
	Text  string
	Href  string
	Title string

	// Activate is the optional tap callback supplied by the factory.
	Activate func()
}
