package mdrender

import "strings"

// Node is a parsed document node: either an *Element or a *Text. The
// tree is produced by an external parser (see the gm package for the
// goldmark bridge) and consumed by Builder. The reference rewriter and
// the tab-group coalescer splice child lists in place; everything else
// treats the tree as read-only.
type Node interface {
	isNode()
}

// Element is a tagged document node. Children is nil for void elements
// (br, hr, img); a non-nil empty slice means an element that may hold
// children but currently has none.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []Node

	// Label carries a code fence tab label ("```go Server" yields
	// Label "Server"). Consecutive labeled pre elements coalesce into
	// a tabs element.
	Label string
}

// Text is a plain text leaf.
type Text struct {
	Content string
}

func (*Element) isNode() {}
func (*Text) isNode()    {}

// NewElement returns an element with the given tag and children.
func NewElement(tag string, children ...Node) *Element {
	return &Element{Tag: tag, Children: children}
}

// NewText returns a text leaf.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// Attr returns the named attribute or "".
func (e *Element) Attr(name string) string {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

// SetAttr sets an attribute, allocating the map on first use.
func (e *Element) SetAttr(name, value string) {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string, 2)
	}
	e.Attrs[name] = value
}

// TextContent returns the concatenated content of all descendant text
// nodes in document order.
func (e *Element) TextContent() string {
	var b strings.Builder
	appendTextContent(&b, e)
	return b.String()
}

func appendTextContent(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *Text:
		b.WriteString(n.Content)
	case *Element:
		for _, child := range n.Children {
			appendTextContent(b, child)
		}
	}
}

// textOnly reports whether the element holds no child elements, only
// text leaves (or nothing at all). Such elements are treated as leaves
// by the reference rewriter.
func (e *Element) textOnly() bool {
	for _, child := range e.Children {
		if _, ok := child.(*Element); ok {
			return false
		}
	}
	return true
}

// findAlt returns the alt attribute of the first descendant element
// that carries one. Used to derive link text for links whose content is
// a lone image.
func findAlt(node Node) string {
	el, ok := node.(*Element)
	if !ok {
		return ""
	}
	if alt := el.Attr("alt"); alt != "" {
		return alt
	}
	for _, child := range el.Children {
		if alt := findAlt(child); alt != "" {
			return alt
		}
	}
	return ""
}
