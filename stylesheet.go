package mdrender

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tayoji-io/mdrender/internal/palette"
)

// StyleSheet maps document tags to style contributions and holds the
// scalar layout constants the builder consumes. It is read-only during
// a build; share one sheet across builders freely.
type StyleSheet struct {
	name string

	// Styles holds the per-tag style contribution merged into the
	// enclosing inline style when a tag is entered.
	Styles map[string]Style

	// Alignments holds per-block-tag content alignment. Tags without
	// an entry align to start.
	Alignments map[string]Alignment

	// Layout scalars, in surface cell units.
	ListIndent        float64
	ListBulletPadding float64
	BlockSpacing      float64
	CodeBlockPadding  float64
	BlockquotePadding float64
	TableCellPadding  float64
	// TableColumnWidth is the fixed width used by the column policy.
	TableColumnWidth float64
	// TableManyColumns is the column count at which tables switch
	// from equal fixed widths to leading-fixed widths.
	TableManyColumns int
	// TableFixedLeading is how many leading columns stay fixed under
	// the many-column policy.
	TableFixedLeading int
	// TextScale scales every run the sheet produces.
	TextScale float64
}

// Name returns the sheet's name ("default" for an unnamed sheet).
func (s *StyleSheet) Name() string {
	if s.name == "" {
		return "default"
	}
	return s.name
}

// StyleFor returns the style contribution for a tag (zero style when
// the sheet has none).
func (s *StyleSheet) StyleFor(tag string) Style {
	return s.Styles[tag]
}

// AlignFor returns the alignment configured for a block tag.
func (s *StyleSheet) AlignFor(tag string) Alignment {
	return s.Alignments[tag]
}

var headingScales = [6]float64{2.0, 1.5, 1.17, 1.0, 0.83, 0.67}

func sheetFromPalette(name string, p palette.Palette) *StyleSheet {
	styles := map[string]Style{
		"p":          {Foreground: p.Text},
		"em":         {Italic: true, Foreground: p.Emphasis},
		"strong":     {Bold: true, Foreground: p.Strong},
		"del":        {Strikethrough: true},
		"a":          {Underline: true, Foreground: p.LinkText},
		"code":       {Monospace: true, Foreground: p.CodeText, Background: p.CodeBack},
		"pre":        {Monospace: true, Foreground: p.CodeText},
		"blockquote": {Italic: true, Foreground: p.Quote},
		"li":         {Foreground: p.Text},
		"bullet":     {Foreground: p.ListMarker},
		"th":         {Bold: true, Foreground: p.TableHead},
		"td":         {Foreground: p.Text},
		"tabs":       {Foreground: p.TabLabel},
		"hr":         {Foreground: p.Rule},
	}
	for level := 1; level <= 6; level++ {
		color := p.Heading
		if level > 2 {
			color = p.Subheading
		}
		styles[fmt.Sprintf("h%d", level)] = Style{
			Bold:       true,
			Foreground: color,
			Scale:      headingScales[level-1],
		}
	}
	return &StyleSheet{
		name:       name,
		Styles:     styles,
		Alignments: map[string]Alignment{},

		ListIndent:        4,
		ListBulletPadding: 1,
		BlockSpacing:      1,
		CodeBlockPadding:  1,
		BlockquotePadding: 2,
		TableCellPadding:  1,
		TableColumnWidth:  16,
		TableManyColumns:  3,
		TableFixedLeading: 2,
		TextScale:         1,
	}
}

var builtinSheets = map[string]*StyleSheet{
	"default":        sheetFromPalette("default", palette.Default),
	"github-dark":    sheetFromPalette("github-dark", palette.GithubDark),
	"github-light":   sheetFromPalette("github-light", palette.GithubLight),
	"gruvbox":        sheetFromPalette("gruvbox", palette.Gruvbox),
	"dracula":        sheetFromPalette("dracula", palette.Dracula),
	"solarized-dark": sheetFromPalette("solarized-dark", palette.SolarizedDark),
}

// DefaultStyleSheet returns the default built-in sheet.
func DefaultStyleSheet() *StyleSheet {
	return builtinSheets["default"]
}

// StyleSheetByName returns a built-in sheet by name. An empty name
// selects the default sheet.
func StyleSheetByName(name string) (*StyleSheet, bool) {
	if name == "" {
		return builtinSheets["default"], true
	}
	sheet, ok := builtinSheets[strings.ToLower(strings.TrimSpace(name))]
	return sheet, ok
}

// AvailableStyleSheets returns the names of the built-in sheets.
func AvailableStyleSheets() []string {
	names := make([]string, 0, len(builtinSheets))
	for name := range builtinSheets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// styleSheetYAML is the on-disk override format consumed by ApplyYAML.
type styleSheetYAML struct {
	Styles map[string]struct {
		Foreground    string   `yaml:"foreground"`
		Background    string   `yaml:"background"`
		Bold          *bool    `yaml:"bold"`
		Italic        *bool    `yaml:"italic"`
		Underline     *bool    `yaml:"underline"`
		Strikethrough *bool    `yaml:"strikethrough"`
		Monospace     *bool    `yaml:"monospace"`
		Scale         *float64 `yaml:"scale"`
	} `yaml:"styles"`
	Alignments map[string]string `yaml:"alignments"`
	Layout     struct {
		ListIndent        *float64 `yaml:"listIndent"`
		ListBulletPadding *float64 `yaml:"listBulletPadding"`
		BlockSpacing      *float64 `yaml:"blockSpacing"`
		CodeBlockPadding  *float64 `yaml:"codeBlockPadding"`
		BlockquotePadding *float64 `yaml:"blockquotePadding"`
		TableCellPadding  *float64 `yaml:"tableCellPadding"`
		TableColumnWidth  *float64 `yaml:"tableColumnWidth"`
		TableManyColumns  *int     `yaml:"tableManyColumns"`
		TableFixedLeading *int     `yaml:"tableFixedLeading"`
		TextScale         *float64 `yaml:"textScale"`
	} `yaml:"layout"`
}

// ApplyYAML overlays user overrides from a YAML document onto a copy
// of the sheet and returns the copy. Unknown alignment values are
// rejected.
func (s *StyleSheet) ApplyYAML(data []byte) (*StyleSheet, error) {
	var overlay styleSheetYAML
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("stylesheet yaml: %w", err)
	}

	out := s.clone()
	for tag, def := range overlay.Styles {
		style := out.Styles[tag]
		if def.Foreground != "" {
			style.Foreground = def.Foreground
		}
		if def.Background != "" {
			style.Background = def.Background
		}
		if def.Bold != nil {
			style.Bold = *def.Bold
		}
		if def.Italic != nil {
			style.Italic = *def.Italic
		}
		if def.Underline != nil {
			style.Underline = *def.Underline
		}
		if def.Strikethrough != nil {
			style.Strikethrough = *def.Strikethrough
		}
		if def.Monospace != nil {
			style.Monospace = *def.Monospace
		}
		if def.Scale != nil {
			style.Scale = *def.Scale
		}
		out.Styles[tag] = style
	}
	for tag, value := range overlay.Alignments {
		align, err := ParseAlignment(value)
		if err != nil {
			return nil, fmt.Errorf("stylesheet alignment for %s: %w", tag, err)
		}
		out.Alignments[tag] = align
	}

	layout := overlay.Layout
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat(&out.ListIndent, layout.ListIndent)
	setFloat(&out.ListBulletPadding, layout.ListBulletPadding)
	setFloat(&out.BlockSpacing, layout.BlockSpacing)
	setFloat(&out.CodeBlockPadding, layout.CodeBlockPadding)
	setFloat(&out.BlockquotePadding, layout.BlockquotePadding)
	setFloat(&out.TableCellPadding, layout.TableCellPadding)
	setFloat(&out.TableColumnWidth, layout.TableColumnWidth)
	setFloat(&out.TextScale, layout.TextScale)
	if layout.TableManyColumns != nil {
		out.TableManyColumns = *layout.TableManyColumns
	}
	if layout.TableFixedLeading != nil {
		out.TableFixedLeading = *layout.TableFixedLeading
	}
	return out, nil
}

func (s *StyleSheet) clone() *StyleSheet {
	out := *s
	out.Styles = make(map[string]Style, len(s.Styles))
	for tag, style := range s.Styles {
		out.Styles[tag] = style
	}
	out.Alignments = make(map[string]Alignment, len(s.Alignments))
	for tag, align := range s.Alignments {
		out.Alignments[tag] = align
	}
	return &out
}
