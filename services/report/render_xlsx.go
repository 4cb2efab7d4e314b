package report

import (
	"bytes"
	"fmt"

	"marketpulse/models"

	"github.com/xuri/excelize/v2"
)

// renderXLSX writes one worksheet per section, with a summary sheet
// carrying the report metadata.
func renderXLSX(doc *models.ReportDocument, sections []section) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const infoSheet = "Report"
	f.SetSheetName("Sheet1", infoSheet)
	info := [][]interface{}{
		{"Report Type", string(doc.Artifact.ReportType)},
		{"Generated At", doc.Artifact.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Period Start", doc.Artifact.DateRangeStart.Format("2006-01-02")},
		{"Period End", doc.Artifact.DateRangeEnd.Format("2006-01-02")},
	}
	for i, row := range info {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(infoSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing report sheet: %w", err)
		}
	}

	for _, s := range sections {
		name := sheetName(s.Title)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("creating sheet %q: %w", name, err)
		}
		header := make([]interface{}, len(s.Header))
		for i, h := range s.Header {
			header[i] = h
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return nil, fmt.Errorf("writing sheet header: %w", err)
		}
		for r, row := range s.Rows {
			vals := make([]interface{}, len(row))
			for i, v := range row {
				vals[i] = v
			}
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(name, cell, &vals); err != nil {
				return nil, fmt.Errorf("writing sheet row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName trims a section title to the 31-character worksheet limit.
func sheetName(title string) string {
	if len(title) > 31 {
		return title[:31]
	}
	return title
}
