package gm

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrFrontMatter wraps YAML decode failures in an opening front matter
// block.
var ErrFrontMatter = errors.New("malformed front matter")

// SplitFrontMatter strips a leading front matter block from src and
// returns the decoded metadata and the remaining body. Blocks are
// delimited by ---, +++ or ;;; lines; only the --- (YAML) form is
// decoded, the others are stripped without interpretation. A document
// without front matter comes back unchanged with nil metadata.
func SplitFrontMatter(src []byte) (map[string]any, []byte, error) {
	openLine, openNext, ok := nextLine(src, 0)
	if !ok {
		return nil, src, nil
	}
	delim, isFrontMatter := parseOpeningDelimiter(openLine)
	if !isFrontMatter {
		return nil, src, nil
	}
	secondLine, secondNext, ok := nextLine(src, openNext)
	if !ok || !metadataLikely(secondLine) {
		return nil, src, nil
	}
	closeStart, closeNext, found := findClosingDelimiter(src, secondNext, delim)
	if !found {
		return nil, src, nil
	}

	body := src[closeNext:]
	if !bytes.Equal(delim, []byte("---")) {
		return nil, body, nil
	}
	block := src[openNext:closeStart]
	meta := map[string]any{}
	if err := yaml.Unmarshal(block, &meta); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	return meta, body, nil
}

func nextLine(src []byte, start int) ([]byte, int, bool) {
	if start >= len(src) {
		return nil, 0, false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		return trimCR(src[start:]), len(src), true
	}
	lineEnd := start + i
	return trimCR(src[start:lineEnd]), lineEnd + 1, true
}

func parseOpeningDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	switch {
	case bytes.Equal(trimmed, []byte("---")):
		return []byte("---"), true
	case bytes.Equal(trimmed, []byte("+++")):
		return []byte("+++"), true
	case bytes.Equal(trimmed, []byte(";;;")):
		return []byte(";;;"), true
	default:
		return nil, false
	}
}

// metadataLikely guards against treating a thematic break at the top
// of a plain document as an opening delimiter.
func metadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	if bytes.Contains(trimmed, []byte(":")) || bytes.Contains(trimmed, []byte("=")) {
		return true
	}
	return false
}

func findClosingDelimiter(src []byte, start int, delim []byte) (int, int, bool) {
	for idx := start; idx <= len(src); {
		line, next, ok := nextLine(src, idx)
		if !ok {
			return 0, 0, false
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return idx, next, true
		}
		if next == idx {
			return 0, 0, false
		}
		idx = next
	}
	return 0, 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
