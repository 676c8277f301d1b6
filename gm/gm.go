// Package gm bridges a goldmark Markdown AST into the document tree
// consumed by mdrender. It is the external-parser collaborator: all
// Markdown syntax handling lives in goldmark; this package only maps
// AST kinds onto tagged document elements.
package gm

import (
	"strconv"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tayoji-io/mdrender"
)

// The goldmark parser configuration never changes and the parser is
// safe to share; per-call state lives in the reader.
var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

func parser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return parserInstance
}

// Parse validates the source, strips any front matter, and converts
// the parsed Markdown into a document tree.
func Parse(source []byte) ([]mdrender.Node, error) {
	nodes, _, err := ParseWithMetadata(source)
	return nodes, err
}

// ParseWithMetadata is Parse plus the decoded YAML front matter (nil
// when the document has none).
func ParseWithMetadata(source []byte) ([]mdrender.Node, map[string]any, error) {
	if err := ValidateInput(source); err != nil {
		return nil, nil, err
	}
	meta, body, err := SplitFrontMatter(source)
	if err != nil {
		return nil, nil, err
	}
	document := parser().Parser().Parse(text.NewReader(body))
	conv := converter{source: body}
	return conv.children(document), meta, nil
}

type converter struct {
	source []byte
}

func (c converter) children(node ast.Node) []mdrender.Node {
	var out []mdrender.Node
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.convert(child)...)
	}
	return out
}

// convert maps one AST node to zero or more document nodes. Text nodes
// may expand to a text leaf plus a br element; raw HTML produces
// nothing.
func (c converter) convert(node ast.Node) []mdrender.Node {
	switch n := node.(type) {
	case *ast.Heading:
		el := mdrender.NewElement("h"+strconv.Itoa(n.Level), c.children(n)...)
		return []mdrender.Node{el}

	case *ast.Paragraph:
		return []mdrender.Node{mdrender.NewElement("p", c.children(n)...)}

	case *ast.TextBlock:
		return []mdrender.Node{mdrender.NewElement("p", c.children(n)...)}

	case *ast.Blockquote:
		return []mdrender.Node{mdrender.NewElement("blockquote", c.children(n)...)}

	case *ast.FencedCodeBlock:
		return []mdrender.Node{c.codeBlock(n, n.Language(c.source), c.fenceLabel(n))}

	case *ast.CodeBlock:
		return []mdrender.Node{c.codeBlock(n, nil, "")}

	case *ast.List:
		tag := "ul"
		el := mdrender.NewElement(tag, c.children(n)...)
		if n.IsOrdered() {
			el.Tag = "ol"
			el.SetAttr("start", strconv.Itoa(n.Start))
		}
		return []mdrender.Node{el}

	case *ast.ListItem:
		return []mdrender.Node{mdrender.NewElement("li", c.children(n)...)}

	case *ast.ThematicBreak:
		return []mdrender.Node{mdrender.NewElement("hr")}

	case *ast.Text:
		content := string(n.Segment.Value(c.source))
		if n.HardLineBreak() {
			return []mdrender.Node{mdrender.NewText(content), mdrender.NewElement("br")}
		}
		if n.SoftLineBreak() {
			content += "\n"
		}
		return []mdrender.Node{mdrender.NewText(content)}

	case *ast.String:
		return []mdrender.Node{mdrender.NewText(string(n.Value))}

	case *ast.CodeSpan:
		return []mdrender.Node{mdrender.NewElement("code", c.children(n)...)}

	case *ast.Emphasis:
		tag := "em"
		if n.Level >= 2 {
			tag = "strong"
		}
		return []mdrender.Node{mdrender.NewElement(tag, c.children(n)...)}

	case *ast.Link:
		el := mdrender.NewElement("a", c.children(n)...)
		el.SetAttr("href", string(n.Destination))
		if len(n.Title) > 0 {
			el.SetAttr("title", string(n.Title))
		}
		return []mdrender.Node{el}

	case *ast.AutoLink:
		url := string(n.URL(c.source))
		label := string(n.Label(c.source))
		el := mdrender.NewElement("a", mdrender.NewText(label))
		el.SetAttr("href", url)
		return []mdrender.Node{el}

	case *ast.Image:
		el := mdrender.NewElement("img")
		el.SetAttr("src", string(n.Destination))
		el.SetAttr("alt", c.flatten(n))
		if len(n.Title) > 0 {
			el.SetAttr("title", string(n.Title))
		}
		return []mdrender.Node{el}

	case *extast.Strikethrough:
		return []mdrender.Node{mdrender.NewElement("del", c.children(n)...)}

	case *extast.TaskCheckBox:
		el := mdrender.NewElement("input")
		el.SetAttr("type", "checkbox")
		if n.IsChecked {
			el.SetAttr("checked", "checked")
		}
		return []mdrender.Node{el}

	case *extast.Table:
		return []mdrender.Node{c.table(n)}

	case *ast.HTMLBlock, *ast.RawHTML:
		// Raw HTML is not part of the document model.
		return nil
	}

	// Unknown container kinds contribute their children transparently.
	return c.children(node)
}

func (c converter) codeBlock(node ast.Node, language []byte, label string) mdrender.Node {
	var buf strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		buf.Write(segment.Value(c.source))
	}
	code := mdrender.NewElement("code", mdrender.NewText(buf.String()))
	if len(language) > 0 {
		code.SetAttr("class", "language-"+string(language))
	}
	pre := mdrender.NewElement("pre", code)
	pre.Label = label
	return pre
}

// fenceLabel returns the fence info string after the language word:
// "```go Server" labels the block "Server", which makes consecutive
// labeled blocks coalesce into a tab group.
func (c converter) fenceLabel(fence *ast.FencedCodeBlock) string {
	if fence.Info == nil {
		return ""
	}
	info := string(fence.Info.Segment.Value(c.source))
	fields := strings.Fields(info)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:], " ")
}

func (c converter) table(table *extast.Table) mdrender.Node {
	var header mdrender.Node
	var bodyRows []mdrender.Node
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case extast.KindTableHeader:
			header = mdrender.NewElement("tr", c.tableCells(child, "th")...)
		case extast.KindTableRow:
			bodyRows = append(bodyRows, mdrender.NewElement("tr", c.tableCells(child, "td")...))
		}
	}

	var sections []mdrender.Node
	if header != nil {
		sections = append(sections, mdrender.NewElement("thead", header))
	}
	if len(bodyRows) > 0 {
		sections = append(sections, mdrender.NewElement("tbody", bodyRows...))
	}
	return mdrender.NewElement("table", sections...)
}

func (c converter) tableCells(row ast.Node, tag string) []mdrender.Node {
	var cells []mdrender.Node
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		tableCell, ok := cell.(*extast.TableCell)
		if !ok {
			continue
		}
		el := mdrender.NewElement(tag, c.children(tableCell)...)
		if value := alignValue(tableCell.Alignment); value != "" {
			el.SetAttr("align", value)
		}
		cells = append(cells, el)
	}
	return cells
}

func alignValue(align extast.Alignment) string {
	switch align {
	case extast.AlignLeft:
		return "left"
	case extast.AlignCenter:
		return "center"
	case extast.AlignRight:
		return "right"
	default:
		return ""
	}
}

// flatten concatenates the text content of an AST subtree, used for
// image alt text.
func (c converter) flatten(node ast.Node) string {
	var buf strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			buf.Write(n.Segment.Value(c.source))
		case *ast.String:
			buf.Write(n.Value)
		default:
			buf.WriteString(c.flatten(child))
		}
	}
	return buf.String()
}
