package sitecheck

import (
	"regexp"
	"strings"

	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

const (
	headerOK           = "OK"
	headerNotOK        = "Nicht OK"
	headerNotNecessary = "notwendig"
)

var itemPattern = regexp.MustCompile(`^(\d+\.\d+\.\d+)\s+(.+)$`)

// rowMarkers are the glyphs that tick a status column inside a table row
var rowMarkers = []string{"✓", "X", "■", "●", "✔"}

// ColumnRoles holds the column index of each status column, -1 when absent
type ColumnRoles struct {
	OK           int
	NotOK        int
	NotNecessary int
	header       []string
}

// DetectColumns assigns status roles from header cell content; a repeated
// role keeps its last column. ok is false unless the header has an exact
// "OK" cell and a distinct "Nicht OK" cell.
func DetectColumns(header []string) (roles ColumnRoles, ok bool) {
	roles = ColumnRoles{OK: -1, NotOK: -1, NotNecessary: -1, header: header}

	for i, cell := range header {
		h := strings.TrimSpace(cell)
		switch {
		case h == headerOK:
			roles.OK = i
		case strings.Contains(h, headerNotOK):
			roles.NotOK = i
		case strings.Contains(h, headerNotNecessary):
			roles.NotNecessary = i
		}
	}

	return roles, roles.OK >= 0 && roles.NotOK >= 0
}

// statusFor maps a column index to the status it records
func (c ColumnRoles) statusFor(col int) (ItemStatus, bool) {
	switch col {
	case -1:
		return "", false
	case c.OK:
		return StatusOK, true
	case c.NotOK:
		return StatusNotOK, true
	case c.NotNecessary:
		return StatusNotNecessary, true
	}
	return "", false
}

// filled reports whether the cell at col carries content other than a placeholder
func (c ColumnRoles) filled(row []string, col int, placeholders ...string) bool {
	if col < 0 || col >= len(row) {
		return false
	}
	v := strings.TrimSpace(row[col])
	if v == "" || v == "-" {
		return false
	}
	if col < len(c.header) && v == strings.TrimSpace(c.header[col]) {
		return false
	}
	for _, p := range placeholders {
		if v == p {
			return false
		}
	}
	return true
}

// StatusRule inspects one table row and either determines its status or passes
type StatusRule func(row []string, cols ColumnRoles) (ItemStatus, bool)

// statusRules run in order; the first rule that determines a status wins
var statusRules = []StatusRule{
	OKCellRule,
	NotOKCellRule,
	NotNecessaryCellRule,
	MarkerColumnRule,
}

// OKCellRule determines OK when the OK cell has content
func OKCellRule(row []string, cols ColumnRoles) (ItemStatus, bool) {
	if cols.filled(row, cols.OK, headerOK) {
		return StatusOK, true
	}
	return "", false
}

// NotOKCellRule determines Nicht OK when the Nicht OK cell has content
func NotOKCellRule(row []string, cols ColumnRoles) (ItemStatus, bool) {
	if cols.filled(row, cols.NotOK, headerNotOK) {
		return StatusNotOK, true
	}
	return "", false
}

// NotNecessaryCellRule determines Nicht notwendig when that cell has content
func NotNecessaryCellRule(row []string, cols ColumnRoles) (ItemStatus, bool) {
	if cols.filled(row, cols.NotNecessary, "Nicht notwendig", headerNotNecessary) {
		return StatusNotNecessary, true
	}
	return "", false
}

// MarkerColumnRule finds the first cell of the row holding a marker glyph
// and maps its column to a status. A first marker outside the status
// columns leaves the row undetermined.
func MarkerColumnRule(row []string, cols ColumnRoles) (ItemStatus, bool) {
	for i, cell := range row {
		if containsAny(cell, rowMarkers) {
			return cols.statusFor(i)
		}
	}
	return "", false
}

// RowStatus runs the status rules over row and falls back to Not checked
func RowStatus(row []string, cols ColumnRoles) ItemStatus {
	for _, rule := range statusRules {
		if status, ok := rule(row, cols); ok {
			return status
		}
	}
	return StatusNotChecked
}

// ExtractChecklistItems reads the checklist rows that belong to subsection
// out of a page's tables. Rows numbered under another subsection are skipped.
func ExtractChecklistItems(tables []primitives.Table, subsection string, page int) []ChecklistItem {
	var items []ChecklistItem
	prefix := subsection + "."

	for _, table := range tables {
		if len(table.Rows) < 2 {
			continue
		}
		cols, ok := DetectColumns(table.Header())
		if !ok {
			continue
		}

		for _, row := range table.Body() {
			if len(row) < 2 {
				continue
			}
			fullText := strings.TrimSpace(row[0] + " " + row[1])
			m := itemPattern.FindStringSubmatch(fullText)
			if m == nil || !strings.HasPrefix(m[1], prefix) {
				continue
			}
			items = append(items, ChecklistItem{
				Number:      m[1],
				Description: strings.TrimSpace(m[2]),
				Status:      RowStatus(row, cols),
				Page:        page,
			})
		}
	}

	return items
}
