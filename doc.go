// Package mdrender compiles a parsed Markdown document tree into a
// renderable layout tree: a hierarchy of block and inline nodes
// annotated with style, ready for mounting by an arbitrary rendering
// surface.
//
// The core is a single-pass, stack-based tree visitor. It classifies
// document tags as block or inline, maintains nested block, inline,
// table, and tab contexts on explicit stacks, merges adjacent inline
// runs, synthesizes structural elements (anonymous paragraphs, list
// bullets, table cells, tabbed code groups), and rewrites bare URLs
// and media paths in plain text into typed link and image nodes.
//
// Parsing Markdown syntax is out of scope; the gm subpackage bridges a
// goldmark AST into the document tree this package consumes, and the
// term subpackage renders the output tree to ANSI terminals.
//
// Example:
//
//	nodes, err := gm.Parse(source)
//	if err != nil {
//		log.Fatal(err)
//	}
//	builder := mdrender.New(mdrender.DefaultStyleSheet())
//	tree, err := builder.Build(nodes)
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = term.Render(term.RenderRequest{Writer: os.Stdout, Width: 80, Nodes: tree})
//
// A Builder is single-threaded and not re-entrant; independent
// builders run concurrently without shared state.
package mdrender
