package mdrender

import (
	"errors"
	"testing"
)

func build(t *testing.T, nodes []Node, opts ...Option) []RenderNode {
	t.Helper()
	out, err := New(nil, opts...).Build(nodes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return out
}

func buildErr(t *testing.T, nodes []Node, opts ...Option) error {
	t.Helper()
	_, err := New(nil, opts...).Build(nodes)
	if err == nil {
		t.Fatal("Build: expected error")
	}
	return err
}

func asColumn(t *testing.T, node RenderNode, tag string) *Column {
	t.Helper()
	col, ok := node.(*Column)
	if !ok {
		t.Fatalf("node = %T, want *Column", node)
	}
	if col.Tag != tag {
		t.Fatalf("column tag = %q, want %q", col.Tag, tag)
	}
	return col
}

func asFlow(t *testing.T, node RenderNode) *Flow {
	t.Helper()
	flow, ok := node.(*Flow)
	if !ok {
		t.Fatalf("node = %T, want *Flow", node)
	}
	return flow
}

func paragraph(children ...Node) *Element {
	return NewElement("p", children...)
}

func TestBuildParagraph(t *testing.T) {
	out := build(t, []Node{paragraph(NewText("hello"))})
	if len(out) != 1 {
		t.Fatalf("top-level nodes = %d, want 1", len(out))
	}
	col := asColumn(t, out[0], "p")
	flow := asFlow(t, col.Children[0])
	run := flow.Children[0].(*TextRun)
	if run.Text != "hello" {
		t.Errorf("run text = %q", run.Text)
	}
	if run.Style != DefaultStyleSheet().StyleFor("p") {
		t.Errorf("run style = %+v", run.Style)
	}
}

func TestBuildBlockSpacing(t *testing.T) {
	out := build(t, []Node{
		NewElement("h1", NewText("title")),
		paragraph(NewText("body")),
	})
	if len(out) != 3 {
		t.Fatalf("top-level nodes = %d, want heading, spacer, paragraph", len(out))
	}
	if _, ok := out[1].(*Spacer); !ok {
		t.Errorf("out[1] = %T, want *Spacer", out[1])
	}
}

func TestBuildSoftBreakFolding(t *testing.T) {
	source := "line one \n   line two"

	out := build(t, []Node{paragraph(NewText(source))})
	run := asFlow(t, asColumn(t, out[0], "p").Children[0]).Children[0].(*TextRun)
	if run.Text != "line one line two" {
		t.Errorf("folded text = %q", run.Text)
	}

	out = build(t, []Node{paragraph(NewText(source))}, WithPreserveSoftLineBreaks(true))
	run = asFlow(t, asColumn(t, out[0], "p").Children[0]).Children[0].(*TextRun)
	if run.Text != source {
		t.Errorf("preserved text = %q", run.Text)
	}
}

func TestBuildBlockquoteKeepsBreaks(t *testing.T) {
	quote := NewElement("blockquote", paragraph(NewText("one\ntwo")))
	out := build(t, []Node{quote})

	box, ok := out[0].(*Box)
	if !ok || box.Kind != BoxQuote {
		t.Fatalf("out[0] = %#v, want quote box", out[0])
	}
	inner := asColumn(t, box.Child, "blockquote")
	run := asFlow(t, asColumn(t, inner.Children[0], "p").Children[0]).Children[0].(*TextRun)
	if run.Text != "one\ntwo" {
		t.Errorf("quoted text = %q", run.Text)
	}
	if !run.Style.Italic {
		t.Errorf("quoted style = %+v, want blockquote contribution", run.Style)
	}
}

func TestBuildBreakStripsLeadingSpace(t *testing.T) {
	out := build(t, []Node{paragraph(
		NewText("alpha"),
		NewElement("br"),
		NewText("   beta"),
	)})
	flow := asFlow(t, asColumn(t, out[0], "p").Children[0])
	if len(flow.Children) != 1 {
		t.Fatalf("flow children = %d, want merged single run", len(flow.Children))
	}
	run := flow.Children[0].(*TextRun)
	if run.Text != "alpha\nbeta" {
		t.Errorf("text = %q, want %q", run.Text, "alpha\nbeta")
	}
}

func TestBuildOrderedListStart(t *testing.T) {
	list := NewElement("ol",
		NewElement("li", NewText("five")),
		NewElement("li", NewText("six")),
		NewElement("li", NewText("seven")),
	)
	list.SetAttr("start", "5")
	out := build(t, []Node{list})

	col := asColumn(t, out[0], "ol")
	want := []string{"5.", "6.", "7."}
	index := 0
	for _, child := range col.Children {
		row, ok := child.(*Row)
		if !ok {
			continue
		}
		bullet := row.Children[0].(*TextRun)
		if bullet.Text != want[index] {
			t.Errorf("bullet %d = %q, want %q", index, bullet.Text, want[index])
		}
		index++
	}
	if index != len(want) {
		t.Errorf("rows = %d, want %d", index, len(want))
	}
}

func TestBuildOrderedListBadStart(t *testing.T) {
	for _, start := range []string{"x", "-1", "1.5"} {
		list := NewElement("ol", NewElement("li", NewText("a")))
		list.SetAttr("start", start)
		err := buildErr(t, []Node{list})
		if !errors.Is(err, ErrBadListStart) {
			t.Errorf("start %q: err = %v, want ErrBadListStart", start, err)
		}
	}
}

func TestBuildUnorderedBullet(t *testing.T) {
	list := NewElement("ul", NewElement("li", NewText("a")))
	out := build(t, []Node{list})
	row := asColumn(t, out[0], "ul").Children[0].(*Row)
	if bullet := row.Children[0].(*TextRun); bullet.Text != "•" {
		t.Errorf("bullet = %q", bullet.Text)
	}
	sheet := DefaultStyleSheet()
	if row.LeadingWidth != sheet.ListIndent+sheet.ListBulletPadding {
		t.Errorf("leading width = %v", row.LeadingWidth)
	}
}

func TestBuildTaskCheckbox(t *testing.T) {
	checkbox := func(checked string) *Element {
		input := NewElement("input")
		input.SetAttr("type", "checkbox")
		if checked != "" {
			input.SetAttr("checked", checked)
		}
		return input
	}
	list := NewElement("ul",
		NewElement("li", paragraph(checkbox("checked"), NewText("done"))),
		NewElement("li", paragraph(checkbox(""), NewText("open"))),
	)
	out := build(t, []Node{list})

	var marks []string
	for _, child := range asColumn(t, out[0], "ul").Children {
		if row, ok := child.(*Row); ok {
			marks = append(marks, row.Children[0].(*TextRun).Text)
		}
	}
	if len(marks) != 2 || marks[0] != "☑" || marks[1] != "☐" {
		t.Errorf("checkbox marks = %v", marks)
	}
}

func tableDocument(cellCounts ...int) *Element {
	var rows []Node
	for rowIndex, count := range cellCounts {
		tag := "td"
		if rowIndex == 0 {
			tag = "th"
		}
		var cells []Node
		for cellIndex := 0; cellIndex < count; cellIndex++ {
			cells = append(cells, NewElement(tag, NewText("x")))
		}
		rows = append(rows, NewElement("tr", cells...))
	}
	head := NewElement("thead", rows[0])
	body := NewElement("tbody", rows[1:]...)
	return NewElement("table", head, body)
}

func TestBuildTableColumnPolicy(t *testing.T) {
	out := build(t, []Node{tableDocument(2, 3, 2)})

	scroll, ok := out[0].(*Scroll)
	if !ok || scroll.Axis != Horizontal {
		t.Fatalf("out[0] = %#v, want horizontal scroll", out[0])
	}
	table := scroll.Child.(*Table)
	if table.Columns != 3 {
		t.Errorf("columns = %d, want widest row's 3", table.Columns)
	}
	if table.Policy != ColumnsLeadingFixed {
		t.Errorf("policy = %v, want ColumnsLeadingFixed", table.Policy)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d", len(table.Rows))
	}
	if !table.Rows[0].Header || table.Rows[1].Header {
		t.Errorf("header flags = %v %v", table.Rows[0].Header, table.Rows[1].Header)
	}
}

func TestBuildTableZebra(t *testing.T) {
	out := build(t, []Node{tableDocument(1, 1, 1, 1)})
	table := out[0].(*Scroll).Child.(*Table)
	want := []bool{false, true, false, true}
	for index, row := range table.Rows {
		if row.Striped != want[index] {
			t.Errorf("row %d striped = %v, want %v", index, row.Striped, want[index])
		}
	}
}

func TestBuildTableEqualPolicy(t *testing.T) {
	out := build(t, []Node{tableDocument(2, 2)})
	table := out[0].(*Scroll).Child.(*Table)
	if table.Policy != ColumnsEqual {
		t.Errorf("policy = %v, want ColumnsEqual for narrow table", table.Policy)
	}
}

func TestBuildTableHeaderCellsCentered(t *testing.T) {
	out := build(t, []Node{tableDocument(2, 2)})
	table := out[0].(*Scroll).Child.(*Table)
	for _, cell := range table.Rows[0].Cells {
		if cell.Align != AlignCenter {
			t.Errorf("header cell align = %v, want center", cell.Align)
		}
	}
	for _, cell := range table.Rows[1].Cells {
		if cell.Align != AlignStart {
			t.Errorf("body cell align = %v, want start", cell.Align)
		}
	}
}

func TestBuildTableCellAlignAttr(t *testing.T) {
	cell := NewElement("td", NewText("x"))
	cell.SetAttr("align", "right")
	table := NewElement("table", NewElement("tbody", NewElement("tr", cell)))
	out := build(t, []Node{table})
	got := out[0].(*Scroll).Child.(*Table).Rows[0].Cells[0].Align
	if got != AlignEnd {
		t.Errorf("align = %v, want end", got)
	}
}

func TestBuildTableCellBadAlign(t *testing.T) {
	cell := NewElement("td", NewText("x"))
	cell.SetAttr("align", "sideways")
	table := NewElement("table", NewElement("tbody", NewElement("tr", cell)))
	err := buildErr(t, []Node{table})
	if !errors.Is(err, ErrBadAlignment) {
		t.Errorf("err = %v, want ErrBadAlignment", err)
	}
}

func TestBuildEmptyCellGetsText(t *testing.T) {
	table := NewElement("table", NewElement("tbody", NewElement("tr", NewElement("td"))))
	out := build(t, []Node{table})
	cell := out[0].(*Scroll).Child.(*Table).Rows[0].Cells[0]
	if len(cell.Content) != 1 {
		t.Fatalf("cell content = %d nodes, want injected empty run", len(cell.Content))
	}
	if run := cell.Content[0].(*TextRun); run.Text != "" {
		t.Errorf("cell run text = %q, want empty", run.Text)
	}
}

func TestBuildStrayTableRow(t *testing.T) {
	err := buildErr(t, []Node{NewElement("tr", NewElement("td", NewText("x")))})
	if !errors.Is(err, ErrStrayTableRow) {
		t.Errorf("err = %v, want ErrStrayTableRow", err)
	}
}

func TestBuildStrayTableCell(t *testing.T) {
	err := buildErr(t, []Node{paragraph(NewElement("td", NewText("x")))})
	if !errors.Is(err, ErrStrayTableCell) {
		t.Errorf("err = %v, want ErrStrayTableCell", err)
	}
}

func TestBuildEmptyLinkDropped(t *testing.T) {
	link := NewElement("a")
	link.SetAttr("href", "https://example.com")
	out := build(t, []Node{paragraph(link)})
	if _, ok := out[0].(*Empty); !ok {
		t.Errorf("out[0] = %T, want *Empty after dropping textless link", out[0])
	}
}

func TestBuildLinkRunsShareTarget(t *testing.T) {
	link := NewElement("a", NewText("site"))
	link.SetAttr("href", "https://example.com")
	link.SetAttr("title", "Example")
	out := build(t, []Node{paragraph(NewText("see "), link, NewText(" now"))})

	flow := asFlow(t, asColumn(t, out[0], "p").Children[0])
	if len(flow.Children) != 3 {
		t.Fatalf("flow children = %d, want 3", len(flow.Children))
	}
	run := flow.Children[1].(*TextRun)
	if run.Link == nil || run.Link.Href != "https://example.com" || run.Link.Title != "Example" {
		t.Errorf("link target = %+v", run.Link)
	}
	if flow.Children[0].(*TextRun).Link != nil {
		t.Error("plain run carries a link target")
	}
}

func TestBuildBareURLBecomesLink(t *testing.T) {
	out := build(t, []Node{paragraph(NewText("Check out https://example.com/page for details"))})
	flow := asFlow(t, asColumn(t, out[0], "p").Children[0])
	if len(flow.Children) != 3 {
		t.Fatalf("flow children = %d, want text, link, text", len(flow.Children))
	}
	if got := flow.Children[0].(*TextRun).Text; got != "Check out " {
		t.Errorf("prefix = %q", got)
	}
	link := flow.Children[1].(*TextRun)
	if link.Text != "https://example.com/page" || link.Link == nil ||
		link.Link.Href != "https://example.com/page" {
		t.Errorf("link run = %+v", link)
	}
	if got := flow.Children[2].(*TextRun).Text; got != " for details" {
		t.Errorf("suffix = %q", got)
	}
}

func TestBuildBareMediaPathBecomesImage(t *testing.T) {
	out := build(t, []Node{paragraph(NewText("/upload/photo.png"))})
	flow := asFlow(t, asColumn(t, out[0], "p").Children[0])
	if len(flow.Children) != 1 {
		t.Fatalf("flow children = %d, want single image", len(flow.Children))
	}
	img := flow.Children[0].(*Image)
	if img.Src != "/upload/photo.png" || img.Alt != "" {
		t.Errorf("image = %+v", img)
	}
}

func imageElement(src string) *Element {
	img := NewElement("img")
	img.SetAttr("src", src)
	img.SetAttr("alt", "pic")
	return img
}

func TestBuildImageDimensions(t *testing.T) {
	out := build(t, []Node{paragraph(imageElement("photo.png#200x100"))})
	img := asFlow(t, asColumn(t, out[0], "p").Children[0]).Children[0].(*Image)
	if img.Src != "photo.png" || img.Width != 200 || img.Height != 100 {
		t.Errorf("image = %+v", img)
	}
}

func TestBuildImageBadDimensions(t *testing.T) {
	for _, src := range []string{"photo.png#200x", "photo.png#x100", "photo.png#.x."} {
		err := buildErr(t, []Node{paragraph(imageElement(src))})
		if !errors.Is(err, ErrBadImageDimensions) {
			t.Errorf("src %q: err = %v, want ErrBadImageDimensions", src, err)
		}
	}
}

func TestBuildImageOrdinaryFragmentKept(t *testing.T) {
	out := build(t, []Node{paragraph(imageElement("photo.png#section"))})
	img := asFlow(t, asColumn(t, out[0], "p").Children[0]).Children[0].(*Image)
	if img.Src != "photo.png#section" || img.Width != 0 {
		t.Errorf("image = %+v", img)
	}
}

func TestBuildCodeBlock(t *testing.T) {
	code := NewElement("code", NewText("x := 1\n"))
	code.SetAttr("class", "language-go")
	out := build(t, []Node{NewElement("pre", code)})

	box, ok := out[0].(*Box)
	if !ok || box.Kind != BoxCode {
		t.Fatalf("out[0] = %#v, want code box", out[0])
	}
	scroll := asFlow(t, asColumn(t, box.Child, "pre").Children[0]).Children[0].(*Scroll)
	run := scroll.Child.(*TextRun)
	if run.Text != "x := 1" {
		t.Errorf("code text = %q, want trailing newline trimmed", run.Text)
	}
	if run.Label != "code" {
		t.Errorf("code label = %q", run.Label)
	}
}

func TestBuildCodeFormatterLanguage(t *testing.T) {
	var gotLanguage string
	formatter := func(sheet *StyleSheet, language, code string) RenderNode {
		gotLanguage = language
		return &TextRun{Text: code, Label: "code"}
	}
	code := NewElement("code", NewText("print(1)\n"))
	code.SetAttr("class", "language-python")
	build(t, []Node{NewElement("pre", code)}, WithCodeFormatter(formatter))
	if gotLanguage != "python" {
		t.Errorf("language = %q, want python", gotLanguage)
	}
}

func TestBuildTabGroupCapture(t *testing.T) {
	first := NewElement("pre", NewElement("code", NewText("a();\n")))
	first.Label = "JS"
	second := NewElement("pre", NewElement("code", NewText("b()\n")))
	second.Label = "Python"
	out := build(t, []Node{first, second, paragraph(NewText("after"))})

	if len(out) != 3 {
		t.Fatalf("top-level nodes = %d, want group, spacer, paragraph", len(out))
	}
	group, ok := out[0].(*TabGroup)
	if !ok {
		t.Fatalf("out[0] = %T, want *TabGroup", out[0])
	}
	if len(group.Tabs) != 2 || group.Tabs[0].Label != "JS" || group.Tabs[1].Label != "Python" {
		t.Errorf("tabs = %+v", group.Tabs)
	}
	for _, tab := range group.Tabs {
		if _, ok := tab.Content.(*Box); !ok {
			t.Errorf("tab content = %T, want boxed code", tab.Content)
		}
	}
}

func TestBuildSingleLabeledCodeStaysBlock(t *testing.T) {
	pre := NewElement("pre", NewElement("code", NewText("a();\n")))
	pre.Label = "JS"
	out := build(t, []Node{pre})
	if _, ok := out[0].(*Box); !ok {
		t.Errorf("out[0] = %T, want plain code box", out[0])
	}
}

func TestBuildDivider(t *testing.T) {
	out := build(t, []Node{NewElement("hr")})
	if _, ok := out[0].(*Divider); !ok {
		t.Errorf("out[0] = %T, want *Divider", out[0])
	}
}

func TestBuildFitContent(t *testing.T) {
	out := build(t, []Node{paragraph(NewText("x"))}, WithFitContent(true))
	if col := asColumn(t, out[0], "p"); col.Fit != FitContent {
		t.Errorf("fit = %v, want FitContent", col.Fit)
	}
}

func TestBuildSelectableRuns(t *testing.T) {
	out := build(t, []Node{paragraph(NewText("x"))}, WithSelectable(true))
	run := asFlow(t, asColumn(t, out[0], "p").Children[0]).Children[0].(*TextRun)
	if !run.Selectable {
		t.Error("run not selectable")
	}
}

func TestBuildMaxDepth(t *testing.T) {
	node := Node(NewText("deep"))
	for i := 0; i < 10; i++ {
		node = NewElement("em", node)
	}
	err := buildErr(t, []Node{paragraph(node)}, WithMaxDepth(5))
	if !errors.Is(err, ErrMaxDepth) {
		t.Errorf("err = %v, want ErrMaxDepth", err)
	}
}

type reentrantBuilder struct {
	builder *Builder
	err     error
}

func (p *reentrantBuilder) VisitBefore(el *Element) {
	_, p.err = p.builder.Build([]Node{NewElement("p", NewText("inner"))})
}

func (p *reentrantBuilder) VisitText(text *Text, style Style) RenderNode { return nil }

func (p *reentrantBuilder) VisitAfter(el *Element, style Style) RenderNode { return nil }

func TestBuildNestedBuildRejected(t *testing.T) {
	reentrant := &reentrantBuilder{}
	reentrant.builder = New(nil, WithElementBuilder("p", reentrant))
	if _, err := reentrant.builder.Build([]Node{paragraph(NewText("x"))}); err != nil {
		t.Fatalf("outer Build: %v", err)
	}
	if !errors.Is(reentrant.err, ErrNestedBuild) {
		t.Errorf("inner err = %v, want ErrNestedBuild", reentrant.err)
	}
}

type upperBuilder struct{}

func (upperBuilder) VisitBefore(el *Element) {}

func (upperBuilder) VisitText(text *Text, style Style) RenderNode {
	return &TextRun{Text: "custom:" + text.Content, Style: style}
}

func (upperBuilder) VisitAfter(el *Element, style Style) RenderNode { return nil }

func TestBuildCustomElementBuilder(t *testing.T) {
	out := build(t, []Node{paragraph(NewText("x"))}, WithElementBuilder("p", upperBuilder{}))
	run := asFlow(t, asColumn(t, out[0], "p").Children[0]).Children[0].(*TextRun)
	if run.Text != "custom:x" {
		t.Errorf("run text = %q", run.Text)
	}
}

type replaceAfterBuilder struct {
	afterCalls int
}

func (b *replaceAfterBuilder) VisitBefore(el *Element) {}

func (b *replaceAfterBuilder) VisitText(text *Text, style Style) RenderNode {
	return &TextRun{Text: text.Content, Style: style}
}

func (b *replaceAfterBuilder) VisitAfter(el *Element, style Style) RenderNode {
	b.afterCalls++
	return &TextRun{Text: "replaced", Style: style}
}

func TestBuildCustomElementBuilderBlockReplace(t *testing.T) {
	builder := &replaceAfterBuilder{}
	out := build(t, []Node{paragraph(NewText("x"))}, WithElementBuilder("p", builder))
	if builder.afterCalls != 1 {
		t.Fatalf("VisitAfter calls = %d, want 1", builder.afterCalls)
	}
	run, ok := out[0].(*TextRun)
	if !ok {
		t.Fatalf("out[0] = %T, want *TextRun", out[0])
	}
	if run.Text != "replaced" {
		t.Errorf("run text = %q", run.Text)
	}
}

func TestBuildRootInlineDropped(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
	}{
		{"bare url text", []Node{NewText("see https://example.com now")}},
		{"inline element", []Node{NewElement("em", NewText("x"))}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := build(t, tc.nodes)
			if len(out) != 0 {
				t.Errorf("top-level nodes = %d, want none", len(out))
			}
		})
	}
}

func TestBuildRootInlineDoesNotLeakAlignment(t *testing.T) {
	sheet := *DefaultStyleSheet()
	sheet.Alignments = map[string]Alignment{"h1": AlignCenter}
	out, err := New(&sheet).Build([]Node{
		NewElement("em", NewText("skipped")),
		NewElement("h1", NewText("title")),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("top-level nodes = %d, want 1", len(out))
	}
	run := asFlow(t, asColumn(t, out[0], "h1").Children[0]).Children[0].(*TextRun)
	if run.Align != AlignCenter {
		t.Errorf("heading run align = %v, want AlignCenter", run.Align)
	}
}

func TestBuildReusableSequentially(t *testing.T) {
	builder := New(nil)
	for i := 0; i < 3; i++ {
		out, err := builder.Build([]Node{paragraph(NewText("x"))})
		if err != nil {
			t.Fatalf("build %d: %v", i, err)
		}
		if len(out) != 1 {
			t.Fatalf("build %d: %d nodes", i, len(out))
		}
	}
}
