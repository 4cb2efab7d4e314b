package report

import (
	"bytes"
	"fmt"
	"strings"

	"marketpulse/models"

	"github.com/jung-kurt/gofpdf"
)

// renderPDF lays the sections out as titled tables on A4 pages.
func renderPDF(doc *models.ReportDocument, sections []section) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s report", doc.Artifact.ReportType), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("%s Report", titleCase(string(doc.Artifact.ReportType))))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", doc.Artifact.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period %s to %s",
		doc.Artifact.DateRangeStart.Format("2006-01-02"),
		doc.Artifact.DateRangeEnd.Format("2006-01-02")))
	pdf.Ln(10)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	for _, s := range sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, s.Title)
		pdf.Ln(8)

		if len(s.Header) == 0 {
			continue
		}
		colWidth := usable / float64(len(s.Header))

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range s.Header {
			pdf.CellFormat(colWidth, 7, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, row := range s.Rows {
			for _, v := range row {
				pdf.CellFormat(colWidth, 6, v, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serializing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
