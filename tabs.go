package mdrender

// CoalesceTabGroups merges maximal runs of two or more consecutive
// labeled code blocks in a sibling list into a single synthetic tabs
// element, at every nesting level. Children are processed before their
// parents, so nested groups coalesce innermost-first. A single labeled
// code block stays a plain code block.
func CoalesceTabGroups(nodes []Node) []Node {
	for _, node := range nodes {
		if el, ok := node.(*Element); ok && len(el.Children) > 0 {
			el.Children = CoalesceTabGroups(el.Children)
		}
	}

	out := make([]Node, 0, len(nodes))
	for i := 0; i < len(nodes); {
		run := labeledCodeRun(nodes[i:])
		if run < 2 {
			out = append(out, nodes[i])
			i++
			continue
		}
		group := NewElement("tabs", nodes[i:i+run]...)
		out = append(out, group)
		i += run
	}
	return out
}

// labeledCodeRun returns the length of the run of consecutive labeled
// code block elements starting at nodes[0].
func labeledCodeRun(nodes []Node) int {
	count := 0
	for _, node := range nodes {
		el, ok := node.(*Element)
		if !ok || el.Tag != "pre" || el.Label == "" {
			break
		}
		count++
	}
	return count
}
