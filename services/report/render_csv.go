package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"marketpulse/models"
)

// renderCSV writes a header block describing the report followed by each
// section as a titled row group with its own column header row. The
// sectioned layout does not fit a single rectangular table, which rules
// out any struct-to-CSV mapper.
func renderCSV(doc *models.ReportDocument, sections []section) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := [][]string{
		{"Report Type", string(doc.Artifact.ReportType)},
		{"Generated At", doc.Artifact.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Period", fmt.Sprintf("%s to %s",
			doc.Artifact.DateRangeStart.Format("2006-01-02"),
			doc.Artifact.DateRangeEnd.Format("2006-01-02"))},
	}
	for _, row := range header {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv header: %w", err)
		}
	}

	for _, s := range sections {
		if err := w.Write([]string{}); err != nil {
			return nil, fmt.Errorf("writing csv separator: %w", err)
		}
		if err := w.Write([]string{s.Title}); err != nil {
			return nil, fmt.Errorf("writing csv section title: %w", err)
		}
		if err := w.Write(s.Header); err != nil {
			return nil, fmt.Errorf("writing csv section header: %w", err)
		}
		for _, row := range s.Rows {
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("writing csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}
