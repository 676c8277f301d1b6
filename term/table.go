package term

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/tayoji-io/mdrender"
)

// table renders a composed table grid. Column widths follow the
// table's policy: equal fixed widths, or fixed leading columns with
// the rest sized to content. The grid is laid out at full size; the
// enclosing scroll region truncates it to the viewport.
func (r *renderer) table(table *mdrender.Table) string {
	if table.Columns == 0 || len(table.Rows) == 0 {
		return ""
	}

	natural := make([]int, table.Columns)
	for _, row := range table.Rows {
		for index, cell := range row.Cells {
			if width := ansi.StringWidth(r.cellText(cell)); width > natural[index] {
				natural[index] = width
			}
		}
	}

	fixed := int(table.FixedWidth)
	widths := make([]int, table.Columns)
	for index := range widths {
		if table.Policy == mdrender.ColumnsEqual || index < table.FixedLeading {
			widths[index] = fixed
		} else {
			widths[index] = natural[index]
		}
	}

	var lines []string
	for rowIndex, row := range table.Rows {
		lines = append(lines, r.formatTableRow(row, widths))
		if row.Header && (rowIndex+1 >= len(table.Rows) || !table.Rows[rowIndex+1].Header) {
			var parts []string
			for _, width := range widths {
				parts = append(parts, strings.Repeat("─", width))
			}
			lines = append(lines, strings.Join(parts, tableSeparator))
		}
	}
	return strings.Join(lines, "\n")
}

func (r *renderer) formatTableRow(row *mdrender.TableRow, widths []int) string {
	parts := make([]string, 0, len(widths))
	for index, width := range widths {
		var cell string
		var align mdrender.Alignment
		if index < len(row.Cells) {
			cell = r.cellText(row.Cells[index])
			align = row.Cells[index].Align
		}

		visible := ansi.StringWidth(cell)
		if visible > width {
			cell = ansi.Truncate(cell, width, "…")
			visible = ansi.StringWidth(cell)
		}
		padding := width - visible
		if padding < 0 {
			padding = 0
		}

		switch align {
		case mdrender.AlignEnd:
			cell = strings.Repeat(" ", padding) + cell
		case mdrender.AlignCenter:
			left := padding / 2
			cell = strings.Repeat(" ", left) + cell + strings.Repeat(" ", padding-left)
		default:
			cell = cell + strings.Repeat(" ", padding)
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, tableSeparator)
}

// cellText flattens a cell's merged inline content to a single line.
func (r *renderer) cellText(cell *mdrender.TableCell) string {
	var buf strings.Builder
	for _, node := range cell.Content {
		switch n := node.(type) {
		case *mdrender.TextRun:
			buf.WriteString(r.run(n))
		case *mdrender.Image:
			buf.WriteString(r.image(n, scrollLimit))
		default:
			buf.WriteString(r.block(n, scrollLimit))
		}
	}
	return strings.ReplaceAll(buf.String(), "\n", " ")
}
