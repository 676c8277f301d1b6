package mdrender

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// blockTags is the set of tags that open a new vertically-stacked
// region. Everything else flows inline.
var blockTags = map[string]struct{}{
	"blockquote": {},
	"h1":         {},
	"h2":         {},
	"h3":         {},
	"h4":         {},
	"h5":         {},
	"h6":         {},
	"hr":         {},
	"li":         {},
	"ol":         {},
	"p":          {},
	"pre":        {},
	"table":      {},
	"tabs":       {},
	"tbody":      {},
	"thead":      {},
	"tr":         {},
	"ul":         {},
}

var listTags = map[string]struct{}{"ol": {}, "ul": {}}

func isBlockTag(tag string) bool {
	_, ok := blockTags[tag]
	return ok
}

func isListTag(tag string) bool {
	_, ok := listTags[tag]
	return ok
}

// blockFrame is one level of open block context. The root frame has an
// empty tag and collects the finished top-level nodes.
type blockFrame struct {
	tag      string
	label    string
	children []RenderNode
	// nextListIndex is the ordinal of the most recently numbered list
	// item; ordered lists with a start attribute seed it to start-1.
	nextListIndex int
}

// inlineFrame is one level of open inline context. Anonymous frames
// (empty tag) are created lazily when a block first sees inline
// content.
type inlineFrame struct {
	tag      string
	style    Style
	children []RenderNode
}

type tableAccumulator struct {
	rows []*TableRow
}

type tabsAccumulator struct {
	tabs []Tab
}

// Builder compiles a parsed document tree into a render tree in a
// single pass. A Builder holds per-build stacks and is not re-entrant;
// independent builders may run concurrently on separate inputs.
type Builder struct {
	sheet *StyleSheet
	cfg   config

	blocks    []blockFrame
	inlines   []inlineFrame
	tables    []*tableAccumulator
	tabGroups []*tabsAccumulator
	links     []*LinkTarget
	listStack []string

	quoteDepth      int
	inHeader        bool
	currentBlockTag string
	lastTag         string
	codeLanguage    string
	depth           int
	building        bool
}

// New returns a Builder using the given style sheet (nil selects the
// default sheet).
func New(sheet *StyleSheet, opts ...Option) *Builder {
	if sheet == nil {
		sheet = DefaultStyleSheet()
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Builder{sheet: sheet, cfg: cfg}
}

// Build consumes one document tree and returns the top-level render
// containers. The tab-group coalescing and reference rewriting
// pre-passes run first, then the visit proper. All stacks reset at the
// start of every call, so a Builder can be reused sequentially.
func (b *Builder) Build(nodes []Node) ([]RenderNode, error) {
	if b.building {
		return nil, ErrNestedBuild
	}
	b.building = true
	defer func() { b.building = false }()

	b.reset()
	nodes = CoalesceTabGroups(nodes)
	nodes = RewriteReferences(nodes)

	b.blocks = append(b.blocks, blockFrame{})
	for _, node := range nodes {
		if err := b.walk(node); err != nil {
			return nil, err
		}
	}

	if len(b.blocks) != 1 || len(b.inlines) != 0 || len(b.tables) != 0 || len(b.tabGroups) != 0 {
		return nil, fmt.Errorf(
			"blocks=%d inlines=%d tables=%d tabs=%d after build: %w",
			len(b.blocks), len(b.inlines), len(b.tables), len(b.tabGroups), ErrUnbalancedTree)
	}
	return b.blocks[0].children, nil
}

func (b *Builder) reset() {
	b.blocks = b.blocks[:0]
	b.inlines = b.inlines[:0]
	b.tables = b.tables[:0]
	b.tabGroups = b.tabGroups[:0]
	b.links = b.links[:0]
	b.listStack = b.listStack[:0]
	b.quoteDepth = 0
	b.inHeader = false
	b.currentBlockTag = ""
	b.lastTag = ""
	b.codeLanguage = ""
	b.depth = 0
}

func (b *Builder) walk(node Node) error {
	b.depth++
	defer func() { b.depth-- }()
	if b.depth > b.cfg.maxDepth {
		return fmt.Errorf("depth %d: %w", b.depth, ErrMaxDepth)
	}

	switch n := node.(type) {
	case *Text:
		return b.visitText(n)
	case *Element:
		visitChildren, err := b.enterElement(n)
		if err != nil || !visitChildren {
			return err
		}
		for _, child := range n.Children {
			if err := b.walk(child); err != nil {
				return err
			}
		}
		return b.exitElement(n)
	default:
		return nil
	}
}

// enterElement opens block or inline context for an element. A false
// result skips the element and its subtree entirely.
func (b *Builder) enterElement(el *Element) (bool, error) {
	tag := el.Tag
	if !isBlockTag(tag) && b.blocks[len(b.blocks)-1].tag == "" {
		// Inline content may not render directly under the document
		// root; drop the subtree like root-level text.
		return false, nil
	}
	if b.currentBlockTag == "" {
		b.currentBlockTag = tag
	}
	if builder, ok := b.cfg.builders[tag]; ok {
		builder.VisitBefore(el)
	}
	if isBlockTag(tag) {
		return true, b.enterBlock(el)
	}
	return b.enterInline(el)
}

func (b *Builder) enterBlock(el *Element) error {
	tag := el.Tag
	b.flushPendingInline()

	frame := blockFrame{tag: tag, label: el.Label}
	switch {
	case isListTag(tag):
		b.listStack = append(b.listStack, tag)
		if tag == "ol" {
			if start := el.Attr("start"); start != "" {
				n, err := strconv.Atoi(start)
				if err != nil || n < 0 {
					return fmt.Errorf("ordered list start %q: %w", start, ErrBadListStart)
				}
				frame.nextListIndex = n - 1
			}
		}
	case tag == "blockquote":
		b.quoteDepth++
	case tag == "table":
		b.tables = append(b.tables, &tableAccumulator{})
	case tag == "thead":
		b.inHeader = true
	case tag == "tr":
		if len(b.tables) == 0 {
			return fmt.Errorf("tr: %w", ErrStrayTableRow)
		}
		acc := b.tables[len(b.tables)-1]
		// Even-indexed rows stay unstriped.
		acc.rows = append(acc.rows, &TableRow{
			Header:  b.inHeader,
			Striped: len(acc.rows)%2 == 1,
		})
	case tag == "tabs":
		b.tabGroups = append(b.tabGroups, &tabsAccumulator{})
	}
	b.blocks = append(b.blocks, frame)
	return nil
}

func (b *Builder) enterInline(el *Element) (bool, error) {
	tag := el.Tag
	switch tag {
	case "a":
		text := el.TextContent()
		if text == "" {
			for _, child := range el.Children {
				if alt := findAlt(child); alt != "" {
					text = alt
					break
				}
			}
		}
		if text == "" {
			// A link with no derivable text cannot render; drop the
			// whole subtree.
			return false, nil
		}
		b.links = append(b.links, b.makeLink(text, el.Attr("href"), el.Attr("title")))
	case "input":
		// Task-list checkbox leaf; consumed by the li exit.
		return false, nil
	case "td":
		if len(el.Children) == 0 {
			el.Children = []Node{NewText("")}
		}
	}

	b.ensureInline()
	parent := b.inlines[len(b.inlines)-1]
	b.inlines = append(b.inlines, inlineFrame{
		tag:   tag,
		style: parent.style.Merge(b.sheet.StyleFor(tag)),
	})
	if tag == "code" {
		b.codeLanguage = languageFromClass(el.Attr("class"))
	}
	return true, nil
}

func (b *Builder) visitText(t *Text) error {
	block := &b.blocks[len(b.blocks)-1]
	if block.tag == "" {
		// Text may not render directly under the document root.
		return nil
	}
	b.ensureInline()
	frame := &b.inlines[len(b.inlines)-1]

	if builder, ok := b.cfg.builders[block.tag]; ok {
		if child := builder.VisitText(t, frame.style); child != nil {
			frame.children = append(frame.children, child)
		}
		return nil
	}

	if block.tag == "pre" {
		code := strings.TrimRight(t.Content, "\n")
		frame.children = append(frame.children, &Scroll{
			Axis:  Horizontal,
			Child: b.formatCode(code),
		})
		return nil
	}

	text := t.Content
	if b.lastTag == "br" {
		text = leadingSpacePattern.ReplaceAllString(text, "")
	}

	run := &TextRun{
		Align:      b.sheet.AlignFor(b.currentBlockTag),
		Selectable: b.cfg.selectable,
	}
	if b.quoteDepth > 0 {
		// Block quotes keep their soft line breaks.
		run.Text = text
		run.Style = frame.style.Merge(b.sheet.StyleFor("blockquote"))
	} else {
		if !b.cfg.preserveSoftLineBreaks {
			text = softBreakPattern.ReplaceAllString(text, " ")
		}
		run.Text = text
		run.Style = frame.style
	}
	if len(b.links) > 0 {
		run.Link = b.links[len(b.links)-1]
	}
	frame.children = append(frame.children, run)
	return nil
}

func (b *Builder) exitElement(el *Element) error {
	tag := el.Tag
	var err error
	if isBlockTag(tag) {
		err = b.exitBlock(el)
	} else {
		err = b.exitInline(el)
	}
	if err != nil {
		return err
	}
	if b.currentBlockTag == tag {
		b.currentBlockTag = ""
	}
	b.lastTag = tag
	return nil
}

func (b *Builder) exitBlock(el *Element) error {
	tag := el.Tag
	b.flushPendingInline()

	frame := b.blocks[len(b.blocks)-1]
	b.blocks = b.blocks[:len(b.blocks)-1]

	var child RenderNode
	if len(frame.children) > 0 {
		child = &Column{
			Tag:      tag,
			Align:    b.sheet.AlignFor(tag),
			Fit:      b.fit(),
			Children: frame.children,
		}
	} else {
		child = &Empty{}
	}

	switch {
	case isListTag(tag):
		b.listStack = b.listStack[:len(b.listStack)-1]
	case tag == "li":
		child = b.composeListItem(el, child)
	case tag == "thead":
		b.inHeader = false
	case tag == "tabs":
		acc := b.tabGroups[len(b.tabGroups)-1]
		b.tabGroups = b.tabGroups[:len(b.tabGroups)-1]
		child = &TabGroup{Tabs: acc.tabs}
	case tag == "table":
		acc := b.tables[len(b.tables)-1]
		b.tables = b.tables[:len(b.tables)-1]
		child = b.composeTable(acc)
	case tag == "blockquote":
		b.quoteDepth--
		child = &Box{Kind: BoxQuote, Padding: b.sheet.BlockquotePadding, Child: child}
	case tag == "pre":
		boxed := &Box{Kind: BoxCode, Padding: b.sheet.CodeBlockPadding, Child: child}
		if frame.label != "" && len(b.tabGroups) > 0 {
			// Labeled code block inside an open tab group becomes a
			// tab row instead of a normal block child.
			acc := b.tabGroups[len(b.tabGroups)-1]
			acc.tabs = append(acc.tabs, Tab{Label: frame.label, Content: boxed})
			return nil
		}
		child = boxed
	case tag == "hr":
		child = &Divider{}
	}

	if builder, ok := b.cfg.builders[tag]; ok {
		if replaced := builder.VisitAfter(el, b.sheet.StyleFor(tag)); replaced != nil {
			child = replaced
		}
	}
	b.addBlockChild(child)
	return nil
}

func (b *Builder) exitInline(el *Element) error {
	tag := el.Tag
	current := b.inlines[len(b.inlines)-1]
	b.inlines = b.inlines[:len(b.inlines)-1]
	parent := &b.inlines[len(b.inlines)-1]
	align := b.sheet.AlignFor(b.currentBlockTag)

	if builder, ok := b.cfg.builders[tag]; ok {
		if child := builder.VisitAfter(el, current.style); child != nil {
			current.children = []RenderNode{child}
		}
		parent.children = append(parent.children, MergeInlineRuns(current.children, align)...)
		return nil
	}

	switch tag {
	case "img":
		img, err := b.composeImage(el)
		if err != nil {
			return err
		}
		parent.children = append(parent.children, img)
	case "br":
		parent.children = append(parent.children, &TextRun{
			Text:       "\n",
			Style:      current.style,
			Align:      align,
			Selectable: b.cfg.selectable,
		})
	case "th", "td":
		cellAlign, err := b.cellAlignment(el)
		if err != nil {
			return err
		}
		if len(b.tables) == 0 {
			return fmt.Errorf("%s: %w", tag, ErrStrayTableCell)
		}
		acc := b.tables[len(b.tables)-1]
		if len(acc.rows) == 0 {
			return fmt.Errorf("%s: %w", tag, ErrStrayTableCell)
		}
		row := acc.rows[len(acc.rows)-1]
		row.Cells = append(row.Cells, &TableCell{
			Align:   cellAlign,
			Content: MergeInlineRuns(current.children, cellAlign),
		})
	case "a":
		b.links = b.links[:len(b.links)-1]
		parent.children = append(parent.children, MergeInlineRuns(current.children, align)...)
	default:
		parent.children = append(parent.children, MergeInlineRuns(current.children, align)...)
	}

	if tag == "code" {
		b.codeLanguage = ""
	}
	return nil
}

// flushPendingInline closes the open anonymous inline context, if any,
// and appends its merged content to the enclosing block as a wrapped
// flow. Called when a block opens or closes.
func (b *Builder) flushPendingInline() {
	if len(b.inlines) == 0 {
		return
	}
	frame := b.inlines[len(b.inlines)-1]
	b.inlines = b.inlines[:len(b.inlines)-1]
	if len(frame.children) == 0 {
		return
	}
	// Alignment follows the current block tag; when blocks nest with
	// no intervening inline content this falls back to the nearest
	// enclosing block tag.
	align := b.sheet.AlignFor(b.currentBlockTag)
	b.addBlockChild(&Flow{
		Align:    align,
		Children: MergeInlineRuns(frame.children, align),
	})
}

// ensureInline lazily creates the block's anonymous inline frame,
// styled from the innermost block tag.
func (b *Builder) ensureInline() {
	if len(b.inlines) > 0 {
		return
	}
	blockTag := b.blocks[len(b.blocks)-1].tag
	b.inlines = append(b.inlines, inlineFrame{style: b.sheet.StyleFor(blockTag)})
}

// addBlockChild appends a finished node to the innermost block frame,
// spacing it from an existing previous sibling.
func (b *Builder) addBlockChild(child RenderNode) {
	parent := &b.blocks[len(b.blocks)-1]
	if len(parent.children) > 0 {
		parent.children = append(parent.children, &Spacer{Size: b.sheet.BlockSpacing})
	}
	parent.children = append(parent.children, child)
}

func (b *Builder) composeListItem(el *Element, content RenderNode) RenderNode {
	var leading RenderNode
	if checked, ok := taskCheckbox(el); ok {
		if b.cfg.checkboxBuilder != nil {
			leading = b.cfg.checkboxBuilder(checked)
		} else {
			leading = b.defaultCheckbox(checked)
		}
	} else {
		ordered := len(b.listStack) > 0 && b.listStack[len(b.listStack)-1] == "ol"
		list := &b.blocks[len(b.blocks)-1]
		list.nextListIndex++
		if b.cfg.bulletBuilder != nil {
			leading = b.cfg.bulletBuilder(list.nextListIndex, ordered)
		} else {
			leading = b.defaultBullet(list.nextListIndex, ordered)
		}
	}
	return &Row{
		Align:        b.cfg.listItemAlign,
		LeadingWidth: b.sheet.ListIndent + b.sheet.ListBulletPadding,
		Children:     []RenderNode{leading, content},
	}
}

func (b *Builder) defaultBullet(index int, ordered bool) RenderNode {
	text := "•"
	if ordered {
		text = strconv.Itoa(index) + "."
	}
	return &TextRun{
		Text:       text,
		Style:      b.sheet.StyleFor("bullet"),
		Selectable: b.cfg.selectable,
	}
}

func (b *Builder) defaultCheckbox(checked bool) RenderNode {
	text := "☐"
	if checked {
		text = "☑"
	}
	return &TextRun{
		Text:       text,
		Style:      b.sheet.StyleFor("bullet"),
		Selectable: b.cfg.selectable,
	}
}

// taskCheckbox inspects a list item's first child (looking through a
// wrapping paragraph) for a task-list checkbox input.
func taskCheckbox(li *Element) (checked, ok bool) {
	if len(li.Children) == 0 {
		return false, false
	}
	first, isElement := li.Children[0].(*Element)
	if !isElement {
		return false, false
	}
	if first.Tag == "p" && len(first.Children) > 0 {
		first, isElement = first.Children[0].(*Element)
		if !isElement {
			return false, false
		}
	}
	if first.Tag != "input" || first.Attr("type") != "checkbox" {
		return false, false
	}
	value := first.Attr("checked")
	return value != "" && value != "false", true
}

func (b *Builder) composeTable(acc *tableAccumulator) RenderNode {
	columns := 0
	for _, row := range acc.rows {
		if len(row.Cells) > columns {
			columns = len(row.Cells)
		}
	}
	policy := ColumnsEqual
	if columns >= b.sheet.TableManyColumns {
		policy = ColumnsLeadingFixed
	}
	table := &Table{
		Columns:      columns,
		Policy:       policy,
		FixedWidth:   b.sheet.TableColumnWidth,
		FixedLeading: b.sheet.TableFixedLeading,
		Rows:         acc.rows,
	}
	return &Scroll{Axis: Horizontal, Child: table}
}

func (b *Builder) composeImage(el *Element) (RenderNode, error) {
	src, width, height, err := parseImageDimensions(el.Attr("src"))
	if err != nil {
		return nil, err
	}
	title := el.Attr("title")
	alt := el.Attr("alt")
	var link *LinkTarget
	if len(b.links) > 0 {
		link = b.links[len(b.links)-1]
	}
	if b.cfg.imageBuilder != nil {
		return b.cfg.imageBuilder(src, title, alt, link), nil
	}
	return &Image{Src: src, Title: title, Alt: alt, Width: width, Height: height, Link: link}, nil
}

func (b *Builder) cellAlignment(el *Element) (Alignment, error) {
	if value := el.Attr("align"); value != "" {
		return ParseAlignment(value)
	}
	if styleAttr := el.Attr("style"); styleAttr != "" {
		if value, ok := textAlignFromStyle(styleAttr); ok {
			return ParseAlignment(value)
		}
	}
	if el.Tag == "th" {
		return AlignCenter, nil
	}
	return AlignStart, nil
}

// textAlignFromStyle pulls the text-align value from an inline CSS
// style attribute.
func textAlignFromStyle(styleAttr string) (string, bool) {
	for _, declaration := range strings.Split(styleAttr, ";") {
		property, value, found := strings.Cut(declaration, ":")
		if !found {
			continue
		}
		if strings.TrimSpace(strings.ToLower(property)) == "text-align" {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

func (b *Builder) makeLink(text, href, title string) *LinkTarget {
	if b.cfg.linkHandler != nil {
		return b.cfg.linkHandler(text, href, title)
	}
	return &LinkTarget{Text: text, Href: href, Title: title}
}

func (b *Builder) formatCode(code string) RenderNode {
	if b.cfg.codeFormatter != nil {
		return b.cfg.codeFormatter(b.sheet, b.codeLanguage, code)
	}
	return &TextRun{
		Text:       code,
		Style:      b.sheet.StyleFor("code"),
		Label:      "code",
		Selectable: b.cfg.selectable,
	}
}

func (b *Builder) fit() Fit {
	if b.cfg.fitContent {
		return FitContent
	}
	return FitStretch
}

// languageFromClass extracts "go" from "language-go".
func languageFromClass(class string) string {
	for _, name := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(name, "language-"); ok {
			return lang
		}
	}
	return ""
}

// dimensionPattern recognizes a concrete WxH fragment; dimensionish
// catches fragments that look like an attempted dimension suffix but
// do not parse, which fail fast instead of silently rendering wrong.
var (
	dimensionPattern    = regexp.MustCompile(`^(\d+(?:\.\d+)?)x(\d+(?:\.\d+)?)$`)
	dimensionish        = regexp.MustCompile(`^[\d.]*x[\d.]*$`)
	softBreakPattern    = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	leadingSpacePattern = regexp.MustCompile(`^[ \t]+`)
)

// parseImageDimensions splits an optional trailing #WxH fragment off
// an image source.
func parseImageDimensions(src string) (string, float64, float64, error) {
	hash := strings.LastIndexByte(src, '#')
	if hash < 0 {
		return src, 0, 0, nil
	}
	fragment := src[hash+1:]
	match := dimensionPattern.FindStringSubmatch(fragment)
	if match == nil {
		if dimensionish.MatchString(fragment) {
			return "", 0, 0, fmt.Errorf("image suffix %q: %w", fragment, ErrBadImageDimensions)
		}
		// An ordinary fragment, not a dimension suffix.
		return src, 0, 0, nil
	}
	width, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("image width %q: %w", match[1], ErrBadImageDimensions)
	}
	height, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("image height %q: %w", match[2], ErrBadImageDimensions)
	}
	return src[:hash], width, height, nil
}
