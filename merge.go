package mdrender

import "strings"

// MergeInlineRuns coalesces adjacent text runs that share the same
// style, link target, and semantic label into single runs, applying
// the alignment hint to every run. Non-run nodes pass through
// untouched and act as merge boundaries. Order and concatenated text
// are always preserved; merging only reduces node count.
func MergeInlineRuns(nodes []RenderNode, align Alignment) []RenderNode {
	if len(nodes) == 0 {
		return nil
	}
	merged := make([]RenderNode, 0, len(nodes))
	var pending *TextRun
	var pendingText strings.Builder

	flush := func() {
		if pending == nil {
			return
		}
		run := *pending
		run.Text = pendingText.String()
		run.Align = align
		merged = append(merged, &run)
		pending = nil
		pendingText.Reset()
	}

	for _, node := range nodes {
		run, ok := node.(*TextRun)
		if !ok {
			flush()
			merged = append(merged, node)
			continue
		}
		if pending != nil && mergeable(pending, run) {
			pendingText.WriteString(run.Text)
			continue
		}
		flush()
		pending = run
		pendingText.WriteString(run.Text)
	}
	flush()
	return merged
}

func mergeable(a, b *TextRun) bool {
	return a.Style == b.Style &&
		a.Link == b.Link &&
		a.Label == b.Label &&
		a.Selectable == b.Selectable
}
