package term

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/tayoji-io/mdrender"
)

// ChromaFormatter returns a code formatter that syntax-highlights
// fenced code blocks with chroma. formatter and chromaStyle select the
// chroma output formatter and color style; empty values pick
// terminal256 with the monokai style. Unknown languages and highlight
// failures fall back to the sheet's plain code style.
func ChromaFormatter(formatter, chromaStyle string) mdrender.CodeFormatterFunc {
	if formatter == "" {
		formatter = "terminal256"
	}
	if chromaStyle == "" {
		chromaStyle = "monokai"
	}
	return func(sheet *mdrender.StyleSheet, language, code string) mdrender.RenderNode {
		if language == "" {
			return plainCode(sheet, code)
		}
		var buf strings.Builder
		if err := quick.Highlight(&buf, code, language, formatter, chromaStyle); err != nil {
			return plainCode(sheet, code)
		}
		return &mdrender.TextRun{
			Text:  strings.TrimRight(buf.String(), "\n"),
			Style: mdrender.Style{Monospace: true},
			Label: "code",
		}
	}
}

func plainCode(sheet *mdrender.StyleSheet, code string) mdrender.RenderNode {
	return &mdrender.TextRun{
		Text:  code,
		Style: sheet.StyleFor("code"),
		Label: "code",
	}
}
