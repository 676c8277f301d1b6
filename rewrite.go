package mdrender

import (
	"regexp"
	"strings"
)

// The URL body set: RFC 3986 unreserved characters, sub-delims, and
// percent escapes. Both patterns are +/* quantified over it, so a
// match is never empty.
const refChars = `[A-Za-z0-9\-._~:/?#@!$&'()*+,;=%]`

// refPattern matches bare http(s) URLs and /upload media paths inside
// plain text. Alternatives start with distinct characters, so matches
// never overlap.
var refPattern = regexp.MustCompile(
	`https?://` + refChars + `+` +
		`|/upload` + refChars + `*\.(?:png|jpe?g|gif|webp|bmp|svg|mp4|m4v|mov|webm|avi)\b`)

var mediaExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "webp": {}, "bmp": {}, "svg": {},
	"mp4": {}, "m4v": {}, "mov": {}, "webm": {}, "avi": {},
}

// isMediaReference reports whether the reference's trailing extension
// names a recognized image or video type.
func isMediaReference(ref string) bool {
	dot := strings.LastIndexByte(ref, '.')
	if dot < 0 || dot == len(ref)-1 {
		return false
	}
	_, ok := mediaExtensions[strings.ToLower(ref[dot+1:])]
	return ok
}

// RewriteReferences scans text leaves (and bare pre/a leaf elements)
// for embedded URLs and upload media paths and rewrites them into
// typed link and image elements, splicing the results into the parent
// child lists. The scan is depth-first and runs before the main visit
// so containers built later see rewritten leaves. It never descends
// into pre, code, a, or img elements, which makes it idempotent on its
// own output.
func RewriteReferences(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, node := range nodes {
		switch n := node.(type) {
		case *Text:
			if rewritten, ok := splitReferences(n.Content); ok {
				out = append(out, rewritten)
				continue
			}
			out = append(out, n)
		case *Element:
			if img, ok := rewriteLeafElement(n); ok {
				out = append(out, img)
				continue
			}
			switch n.Tag {
			case "pre", "code", "a", "img":
				// Literal or already-typed content.
			default:
				n.Children = RewriteReferences(n.Children)
			}
			out = append(out, n)
		}
	}
	return out
}

// rewriteLeafElement replaces a childless-or-text-only pre or a
// element whose flattened text is a media reference with an image
// element.
func rewriteLeafElement(el *Element) (Node, bool) {
	if el.Tag != "pre" && el.Tag != "a" {
		return nil, false
	}
	if !el.textOnly() {
		return nil, false
	}
	text := strings.TrimSpace(el.TextContent())
	if text == "" || !isMediaReference(text) {
		return nil, false
	}
	img := NewElement("img")
	img.SetAttr("src", text)
	img.SetAttr("alt", "")
	return img, true
}

// splitReferences rewrites one text leaf. It returns the replacement
// node and true when at least one reference matched: the emitted node
// list collapses to its single member, or wraps in a synthetic span
// element when several nodes result. A zero-match scan reports false
// and the leaf stays untouched.
func splitReferences(content string) (Node, bool) {
	matches := refPattern.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return nil, false
	}

	var emitted []Node
	last := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		if start > last {
			emitted = append(emitted, NewText(content[last:start]))
		}
		emitted = append(emitted, referenceNode(content[start:end]))
		last = end
	}
	if last < len(content) {
		emitted = append(emitted, NewText(content[last:]))
	}

	if len(emitted) == 1 {
		return emitted[0], true
	}
	return NewElement("span", emitted...), true
}

func referenceNode(ref string) Node {
	if isMediaReference(ref) {
		img := NewElement("img")
		img.SetAttr("src", ref)
		img.SetAttr("alt", "")
		return img
	}
	text := strings.ReplaceAll(ref, " ", "")
	link := NewElement("a", NewText(text))
	link.SetAttr("href", text)
	return link
}
