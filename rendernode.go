package mdrender

// RenderNode is a node of the output layout tree. The builder composes
// primitive runs (TextRun, Image, Divider, Spacer) into containers
// (Column, Flow, Row, Box, Scroll, Table, TabGroup); a rendering
// surface mounts the resulting forest. See the term package for an
// ANSI surface.
type RenderNode interface {
	isRenderNode()
}

// Fit selects the cross-axis sizing of composed blocks.
type Fit uint8

const (
	// FitStretch stretches blocks to the full available width.
	FitStretch Fit = iota
	// FitContent shrinks blocks to their intrinsic content width.
	FitContent
)

// Axis is a scroll direction.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

// BoxKind selects the decoration of a Box container.
type BoxKind uint8

const (
	// BoxCode decorates a fenced or indented code block.
	BoxCode BoxKind = iota
	// BoxQuote decorates a block quote.
	BoxQuote
)

// ColumnPolicy is the table column-width policy derived from the
// column count.
type ColumnPolicy uint8

const (
	// ColumnsEqual gives every column the same fixed width.
	ColumnsEqual ColumnPolicy = iota
	// ColumnsLeadingFixed gives the leading columns a fixed width and
	// sizes the rest to their content.
	ColumnsLeadingFixed
)

// ListItemAlignment controls how a bullet sits beside its content.
type ListItemAlignment uint8

const (
	// ListItemBaseline aligns the bullet with the first text baseline.
	ListItemBaseline ListItemAlignment = iota
	// ListItemTop aligns the bullet with the top of the content.
	ListItemTop
)

// TextRun is a styled run of text. Adjacent runs sharing style, link
// target, and label merge into one (see MergeInlineRuns).
type TextRun struct {
	Text  string
	Style Style
	Link  *LinkTarget
	// Label is a semantic label for accessibility surfaces; it also
	// acts as a merge key so labeled runs never fold into unlabeled
	// neighbors.
	Label      string
	Align      Alignment
	Selectable bool
}

// Image is a resolved image (or video poster) reference.
type Image struct {
	Src    string
	Title  string
	Alt    string
	Width  float64 // zero means intrinsic
	Height float64
	Link   *LinkTarget
}

// Spacer is fixed-size vertical spacing between sibling blocks.
type Spacer struct {
	Size float64
}

// Divider renders a horizontal rule.
type Divider struct{}

// Empty is the placeholder produced by a block that composed no
// children.
type Empty struct{}

// Column stacks children vertically. Tag names the block tag it was
// composed from ("" for the root).
type Column struct {
	Tag      string
	Align    Alignment
	Fit      Fit
	Children []RenderNode
}

// Flow lays inline runs out horizontally with wrapping.
type Flow struct {
	Align    Alignment
	Children []RenderNode
}

// Row lays a fixed leading child (bullet, checkbox) beside flexible
// content.
type Row struct {
	Align ListItemAlignment
	// LeadingWidth is the reserved width for the leading child.
	LeadingWidth float64
	Children     []RenderNode
}

// Box wraps a child in padding and kind-specific decoration.
type Box struct {
	Kind    BoxKind
	Padding float64
	Child   RenderNode
}

// Scroll makes its child scrollable along one axis.
type Scroll struct {
	Axis  Axis
	Child RenderNode
}

// Table is a composed table grid.
type Table struct {
	// Columns is the widest row's cell count.
	Columns int
	Policy  ColumnPolicy
	// FixedWidth is the per-column width used by the policy.
	FixedWidth float64
	// FixedLeading is how many leading columns keep the fixed width
	// under ColumnsLeadingFixed.
	FixedLeading int
	Rows         []*TableRow
}

// TableRow is one table row. Striped rows carry the zebra background.
type TableRow struct {
	Header  bool
	Striped bool
	Cells   []*TableCell
}

// TableCell is one composed, span-merged cell.
type TableCell struct {
	Align   Alignment
	Content []RenderNode
}

// TabGroup bundles consecutive labeled code blocks under a tab strip.
type TabGroup struct {
	Tabs []Tab
}

// Tab is one labeled entry of a TabGroup.
type Tab struct {
	Label   string
	Content RenderNode
}

func (*TextRun) isRenderNode()  {}
func (*Image) isRenderNode()    {}
func (*Spacer) isRenderNode()   {}
func (*Divider) isRenderNode()  {}
func (*Empty) isRenderNode()    {}
func (*Column) isRenderNode()   {}
func (*Flow) isRenderNode()     {}
func (*Row) isRenderNode()      {}
func (*Box) isRenderNode()      {}
func (*Scroll) isRenderNode()   {}
func (*Table) isRenderNode()    {}
func (*TabGroup) isRenderNode() {}
