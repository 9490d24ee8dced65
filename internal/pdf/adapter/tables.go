package adapter

import (
	"math"
	"strings"

	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

const (
	// cellGap is the horizontal gap that separates two table cells on a row
	cellGap = 8.0

	minTableColumns = 2
	minTableRows    = 2
)

// cell is one horizontally separated run of glyphs on a row
type cell struct {
	text        string
	left, right float64
}

func (c cell) center() float64 {
	return (c.left + c.right) / 2
}

// DetectTables finds grids in the glyph layout. Consecutive rows with at
// least two cells form a table; the first of them is the header and defines
// the columns every later row is mapped onto. A single cell row stays in an
// open table when it spans two or more header columns, as happens when a
// number and its description run together.
func DetectTables(chars []primitives.Char) []primitives.Table {
	var (
		tables []primitives.Table
		block  [][]cell
	)

	flush := func() {
		if len(block) >= minTableRows {
			tables = append(tables, buildTable(block))
		}
		block = nil
	}

	for _, row := range primitives.GroupRows(chars, primitives.RowTolerance) {
		cells := splitCells(row)
		if len(cells) < minTableColumns {
			if len(block) > 0 && len(cells) == 1 && spannedColumns(block[0], cells[0]) >= minTableColumns {
				block = append(block, cells)
				continue
			}
			flush()
			continue
		}
		block = append(block, cells)
	}
	flush()

	return tables
}

// splitCells cuts a row wherever the gap between glyphs exceeds cellGap
func splitCells(row []primitives.Char) []cell {
	var cells []cell
	start := 0

	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].Left-row[i-1].Right <= cellGap {
			continue
		}
		text := strings.TrimSpace(primitives.JoinRow(row[start:i]))
		if text != "" {
			cells = append(cells, cell{text: text, left: row[start].Left, right: row[i-1].Right})
		}
		start = i
	}

	return cells
}

func buildTable(block [][]cell) primitives.Table {
	header := block[0]
	rows := make([][]string, 0, len(block))

	headerRow := make([]string, len(header))
	for i, c := range header {
		headerRow[i] = c.text
	}
	rows = append(rows, headerRow)

	for _, cells := range block[1:] {
		out := make([]string, len(header))
		for _, c := range cells {
			col := columnFor(header, c)
			if out[col] != "" {
				out[col] += " "
			}
			out[col] += c.text
		}
		rows = append(rows, out)
	}

	return primitives.Table{Rows: rows}
}

// spannedColumns counts the header columns c overlaps horizontally
func spannedColumns(header []cell, c cell) int {
	n := 0
	for _, h := range header {
		if math.Min(h.right, c.right) > math.Max(h.left, c.left) {
			n++
		}
	}
	return n
}

// columnFor picks the header column with the largest overlap, falling back
// to the nearest column center
func columnFor(header []cell, c cell) int {
	best, bestOverlap := -1, 0.0
	for i, h := range header {
		overlap := math.Min(h.right, c.right) - math.Max(h.left, c.left)
		if overlap > bestOverlap {
			best, bestOverlap = i, overlap
		}
	}
	if best >= 0 {
		return best
	}

	nearest, dist := 0, math.Inf(1)
	for i, h := range header {
		if d := math.Abs(h.center() - c.center()); d < dist {
			nearest, dist = i, d
		}
	}
	return nearest
}
