package mdrender

import "errors"

var (
	// ErrUnbalancedTree reports frame stacks left non-empty at the end
	// of a build, which means the input tree had unmatched structure.
	ErrUnbalancedTree = errors.New("unbalanced document tree")
	// ErrStrayTableRow reports a tr element outside an open table.
	ErrStrayTableRow = errors.New("table row outside table")
	// ErrStrayTableCell reports a th/td element outside an open row.
	ErrStrayTableCell = errors.New("table cell outside table row")
	// ErrBadAlignment reports an alignment value outside the
	// recognized set.
	ErrBadAlignment = errors.New("unrecognized alignment")
	// ErrBadListStart reports a non-numeric start attribute on an
	// ordered list.
	ErrBadListStart = errors.New("invalid ordered list start")
	// ErrBadImageDimensions reports a malformed #WxH suffix on an
	// image source.
	ErrBadImageDimensions = errors.New("invalid image dimensions")
	// ErrNestedBuild reports a re-entrant Build call on a Builder that
	// is already mid-traversal.
	ErrNestedBuild = errors.New("builder is not re-entrant")
	// ErrMaxDepth reports input nested beyond the configured depth
	// limit.
	ErrMaxDepth = errors.New("document nesting too deep")
)
