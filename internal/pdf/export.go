package pdf

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/sitecheck-reader/internal/sitecheck"
)

const (
	checklistSheet = "Checklist"
	siteSheet      = "Site"
)

var checklistHeaders = []string{
	"Section",
	"Subsection",
	"Number",
	"Description",
	"Status",
	"Page",
}

// ExportChecklistXLSX renders the checklist items of protocol as a workbook
// with one row per item, plus a sheet with the header and site fields
func (s *Service) ExportChecklistXLSX(protocol *sitecheck.Protocol) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", checklistSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range checklistHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(checklistSheet, cell, h)
	}

	row := 2
	for _, sec := range protocol.Sections {
		for _, sub := range sec.Subsections {
			for _, item := range sub.Items {
				write := func(col int, v any) {
					cell, _ := excelize.CoordinatesToCellName(col, row)
					_ = f.SetCellValue(checklistSheet, cell, v)
				}
				write(1, sec.Number+" "+sec.Title)
				write(2, sub.Number+" "+sub.Title)
				write(3, item.Number)
				write(4, item.Description)
				write(5, string(item.Status))
				write(6, item.Page)
				row++
			}
		}
	}

	_ = f.SetColWidth(checklistSheet, "A", "B", 28)
	_ = f.SetColWidth(checklistSheet, "C", "C", 10)
	_ = f.SetColWidth(checklistSheet, "D", "D", 60)
	_ = f.SetColWidth(checklistSheet, "E", "E", 16)

	if _, err := f.NewSheet(siteSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	siteRows := [][2]string{
		{"document_id", protocol.Header.DocumentID},
		{"title", protocol.Header.Title},
		{"organization", protocol.Header.Organization},
		{"note", protocol.Header.Note},
	}
	for _, k := range protocol.SiteInfo.Fields.Keys() {
		if k == "status" {
			continue
		}
		v, _ := protocol.SiteInfo.Fields.Get(k)
		siteRows = append(siteRows, [2]string{k, v})
	}
	if protocol.SiteInfo.Status != "" {
		siteRows = append(siteRows, [2]string{"status", protocol.SiteInfo.Status})
	}
	for i, kv := range siteRows {
		_ = f.SetCellValue(siteSheet, fmt.Sprintf("A%d", i+1), kv[0])
		_ = f.SetCellValue(siteSheet, fmt.Sprintf("B%d", i+1), kv[1])
	}
	_ = f.SetColWidth(siteSheet, "A", "A", 24)
	_ = f.SetColWidth(siteSheet, "B", "B", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Debug().
		Int("rows", row-2).
		Str("document_id", protocol.Header.DocumentID).
		Msg("checklist exported")

	return buf.Bytes(), nil
}
