package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"marketpulse/models"
	"marketpulse/services/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument() *models.ReportDocument {
	satisfaction := 66.67
	return &models.ReportDocument{
		Artifact: models.ReportArtifact{
			ID:             "a1",
			ProviderID:     "p1",
			ReportType:     models.ReportComprehensive,
			Format:         models.FormatCSV,
			Period:         "30days",
			DateRangeStart: time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC),
			DateRangeEnd:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			GeneratedAt:    time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		},
		Revenue: &models.RevenueMetrics{
			Period:       "30days",
			TotalRevenue: 1500,
			Comparison:   &models.Comparison{Current: 1500, Previous: 1000, Change: 50, Trend: "up"},
			ByCategory: []models.CategoryRevenue{
				{Category: "plumbing", Amount: 1000, Percentage: 66.67},
				{Category: "Uncategorized", Amount: 500, Percentage: 33.33},
			},
		},
		Performance: &models.PerformanceMetrics{
			Period:         "30days",
			CompletionRate: 75,
			ResponseTime:   models.ResponseTime{Minutes: 45, Display: "45 minutes", Unit: "minutes"},
			Satisfaction:   models.SatisfactionRate{Eligible: true, Percentage: &satisfaction, Positive: 4, Total: 6},
			CancellationReasons: []models.ReasonCount{
				{Reason: "Unspecified", Count: 1, Percentage: 100},
			},
		},
		Percentiles: &models.PercentileRankings{
			Metrics: []models.MetricPercentile{
				{Metric: models.MetricCompletionRate, Value: 75, Percentile: 80, Band: "Above Average"},
			},
		},
	}
}

func TestRenderCSVLayout(t *testing.T) {
	doc := sampleDocument()
	data, err := renderCSV(doc, buildSections(doc))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	// Metadata header block comes first.
	assert.Equal(t, "Report Type,comprehensive", lines[0])
	assert.Equal(t, "Generated At,2025-06-15 12:00:00", lines[1])
	assert.Equal(t, "Period,2025-05-16 to 2025-06-15", lines[2])

	// Each section is a blank line, a title row, a header row, then data.
	text := string(data)
	assert.Contains(t, text, "\nRevenue Summary\nMetric,Value\nTotal Revenue,1500.00\n")
	assert.Contains(t, text, "Revenue By Category\nCategory,Amount,Share\nplumbing,1000.00,66.67%\n")
	assert.Contains(t, text, "Satisfaction Rate,66.67%")
	assert.Contains(t, text, "Cancellation Reasons\nReason,Count,Share\nUnspecified,1,100.00%\n")
	assert.Contains(t, text, "Platform Benchmarks\n")
	assert.Contains(t, text, "completion_rate,75.00,80.0,Above Average")
}

func TestRenderCSVSatisfactionFallback(t *testing.T) {
	doc := sampleDocument()
	doc.Performance.Satisfaction = models.SatisfactionRate{Eligible: false, Total: 4}
	data, err := renderCSV(doc, buildSections(doc))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Satisfaction Rate,insufficient reviews")
}

func TestRenderCSVInsufficientBenchmarkData(t *testing.T) {
	doc := sampleDocument()
	doc.Percentiles = &models.PercentileRankings{InsufficientData: true}
	data, err := renderCSV(doc, buildSections(doc))
	require.NoError(t, err)
	assert.Contains(t, string(data), "insufficient data")
}

func TestRenderXLSXOneSheetPerSection(t *testing.T) {
	doc := sampleDocument()
	data, err := renderXLSX(doc, buildSections(doc))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Report")
	assert.Contains(t, sheets, "Revenue Summary")
	assert.Contains(t, sheets, "Platform Benchmarks")

	cell, err := f.GetCellValue("Revenue Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Total Revenue", cell)
}

func TestRenderPDFProducesDocument(t *testing.T) {
	doc := sampleDocument()
	data, err := renderPDF(doc, buildSections(doc))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, err := Render(sampleDocument(), "docx")
	assert.True(t, analytics.IsValidation(err))
}

func TestSheetNameTruncation(t *testing.T) {
	long := strings.Repeat("Customer Acquisition Detail ", 3)
	name := sheetName(long)
	assert.LessOrEqual(t, len(name), 31)
}
