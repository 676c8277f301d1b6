// Package palette defines the color palettes backing the built-in
// style sheets. Colors are hex values resolved by the rendering
// surface; an empty value inherits the surface default.
package palette

// Palette maps semantic roles to colors.
type Palette struct {
	Text       string
	Heading    string
	Subheading string
	Emphasis   string
	Strong     string
	CodeText   string
	CodeBack   string
	Quote      string
	ListMarker string
	LinkText   string
	Rule       string
	TableHead  string
	TableZebra string
	TabLabel   string
}

// Default keeps body text on the surface default and colors only the
// structural roles.
var Default = Palette{
	Heading:    "#61afef",
	Subheading: "#56b6c2",
	CodeText:   "#98c379",
	CodeBack:   "#282c34",
	Quote:      "#5c6370",
	ListMarker: "#e06c75",
	LinkText:   "#61afef",
	Rule:       "#3e4451",
	TableHead:  "#61afef",
	TableZebra: "#2c313a",
	TabLabel:   "#c678dd",
}

var GithubDark = Palette{
	Text:       "#c9d1d9",
	Heading:    "#58a6ff",
	Subheading: "#79c0ff",
	CodeText:   "#a5d6ff",
	CodeBack:   "#161b22",
	Quote:      "#8b949e",
	ListMarker: "#f78166",
	LinkText:   "#58a6ff",
	Rule:       "#30363d",
	TableHead:  "#58a6ff",
	TableZebra: "#161b22",
	TabLabel:   "#d2a8ff",
}

var GithubLight = Palette{
	Text:       "#24292f",
	Heading:    "#0969da",
	Subheading: "#218bff",
	CodeText:   "#0a3069",
	CodeBack:   "#f6f8fa",
	Quote:      "#57606a",
	ListMarker: "#cf222e",
	LinkText:   "#0969da",
	Rule:       "#d0d7de",
	TableHead:  "#0969da",
	TableZebra: "#f6f8fa",
	TabLabel:   "#8250df",
}

var Gruvbox = Palette{
	Text:       "#ebdbb2",
	Heading:    "#fabd2f",
	Subheading: "#fe8019",
	CodeText:   "#b8bb26",
	CodeBack:   "#3c3836",
	Quote:      "#928374",
	ListMarker: "#fb4934",
	LinkText:   "#83a598",
	Rule:       "#504945",
	TableHead:  "#fabd2f",
	TableZebra: "#3c3836",
	TabLabel:   "#d3869b",
}

var Dracula = Palette{
	Text:       "#f8f8f2",
	Heading:    "#bd93f9",
	Subheading: "#ff79c6",
	CodeText:   "#50fa7b",
	CodeBack:   "#282a36",
	Quote:      "#6272a4",
	ListMarker: "#ffb86c",
	LinkText:   "#8be9fd",
	Rule:       "#44475a",
	TableHead:  "#bd93f9",
	TableZebra: "#343746",
	TabLabel:   "#ff79c6",
}

var SolarizedDark = Palette{
	Text:       "#839496",
	Heading:    "#268bd2",
	Subheading: "#2aa198",
	CodeText:   "#859900",
	CodeBack:   "#073642",
	Quote:      "#586e75",
	ListMarker: "#cb4b16",
	LinkText:   "#268bd2",
	Rule:       "#586e75",
	TableHead:  "#268bd2",
	TableZebra: "#073642",
	TabLabel:   "#6c71c4",
}
