package mdrender

// Option configures a Builder.
type Option func(*config)

// ElementBuilder handles a custom tag registered via
// WithElementBuilder. VisitBefore fires when the element is entered,
// VisitText for each text leaf while the element's tag is the current
// block, and VisitAfter when it closes; a non-nil VisitAfter result
// replaces the element's composed inline content.
type ElementBuilder interface {
	VisitBefore(element *Element)
	VisitText(text *Text, style Style) RenderNode
	VisitAfter(element *Element, style Style) RenderNode
}

// ImageBuilderFunc overrides image node construction.
type ImageBuilderFunc func(src, title, alt string, link *LinkTarget) RenderNode

// CheckboxBuilderFunc overrides task-list checkbox construction.
type CheckboxBuilderFunc func(checked bool) RenderNode

// BulletBuilderFunc overrides list bullet construction. index is the
// 1-based (or start-seeded) ordinal for ordered lists.
type BulletBuilderFunc func(index int, ordered bool) RenderNode

// LinkHandlerFunc builds the tappable handle attached to runs inside
// an a element.
type LinkHandlerFunc func(text, href, title string) *LinkTarget

// CodeFormatterFunc builds the styled run for code block text.
type CodeFormatterFunc func(sheet *StyleSheet, language, code string) RenderNode

type config struct {
	fitContent             bool
	preserveSoftLineBreaks bool
	selectable             bool
	listItemAlign          ListItemAlignment
	maxDepth               int

	builders        map[string]ElementBuilder
	imageBuilder    ImageBuilderFunc
	checkboxBuilder CheckboxBuilderFunc
	bulletBuilder   BulletBuilderFunc
	linkHandler     LinkHandlerFunc
	codeFormatter   CodeFormatterFunc
}

const defaultMaxDepth = 500

func defaultConfig() config {
	return config{maxDepth: defaultMaxDepth}
}

// WithFitContent shrinks composed blocks to their content width
// instead of stretching them to the full available width.
func WithFitContent(enabled bool) Option {
	return func(cfg *config) {
		cfg.fitContent = enabled
	}
}

// WithPreserveSoftLineBreaks disables soft line break folding, keeping
// single newlines inside paragraphs.
func WithPreserveSoftLineBreaks(enabled bool) Option {
	return func(cfg *config) {
		cfg.preserveSoftLineBreaks = enabled
	}
}

// WithSelectable marks produced text runs as selectable. This only
// switches the run primitive; structure is unchanged.
func WithSelectable(enabled bool) Option {
	return func(cfg *config) {
		cfg.selectable = enabled
	}
}

// WithListItemAlignment controls bullet placement beside list content.
func WithListItemAlignment(align ListItemAlignment) Option {
	return func(cfg *config) {
		cfg.listItemAlign = align
	}
}

// WithMaxDepth bounds input nesting. Builds exceeding the limit fail
// with ErrMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		if depth > 0 {
			cfg.maxDepth = depth
		}
	}
}

// WithElementBuilder registers a custom builder for a tag, bypassing
// the built-in rules for it.
func WithElementBuilder(tag string, builder ElementBuilder) Option {
	return func(cfg *config) {
		if cfg.builders == nil {
			cfg.builders = make(map[string]ElementBuilder)
		}
		cfg.builders[tag] = builder
	}
}

// WithImageBuilder overrides image node construction.
func WithImageBuilder(build ImageBuilderFunc) Option {
	return func(cfg *config) {
		cfg.imageBuilder = build
	}
}

// WithCheckboxBuilder overrides checkbox node construction.
func WithCheckboxBuilder(build CheckboxBuilderFunc) Option {
	return func(cfg *config) {
		cfg.checkboxBuilder = build
	}
}

// WithBulletBuilder overrides bullet node construction.
func WithBulletBuilder(build BulletBuilderFunc) Option {
	return func(cfg *config) {
		cfg.bulletBuilder = build
	}
}

// WithLinkHandlerFactory overrides link handle construction.
func WithLinkHandlerFactory(build LinkHandlerFunc) Option {
	return func(cfg *config) {
		cfg.linkHandler = build
	}
}

// WithCodeFormatter overrides code block text formatting. The term
// package provides a chroma-backed formatter.
func WithCodeFormatter(format CodeFormatterFunc) Option {
	return func(cfg *config) {
		cfg.codeFormatter = format
	}
}
