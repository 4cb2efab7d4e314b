package report

import (
	"fmt"
	"strconv"

	"marketpulse/models"
	"marketpulse/services/analytics"
)

// section is the format-neutral tabular shape every renderer consumes.
type section struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Render serializes a composed report into the requested format.
func Render(doc *models.ReportDocument, format models.ReportFormat) ([]byte, error) {
	sections := buildSections(doc)
	switch format {
	case models.FormatCSV:
		return renderCSV(doc, sections)
	case models.FormatXLSX:
		return renderXLSX(doc, sections)
	case models.FormatPDF:
		return renderPDF(doc, sections)
	default:
		return nil, analytics.NewValidationError(fmt.Sprintf("invalid report format %q", format))
	}
}

func buildSections(doc *models.ReportDocument) []section {
	var out []section
	if doc.Revenue != nil {
		out = append(out, revenueSections(doc.Revenue)...)
	}
	if doc.Performance != nil {
		out = append(out, performanceSections(doc.Performance)...)
	}
	if doc.Customers != nil {
		out = append(out, customerSections(doc.Customers)...)
	}
	if doc.Percentiles != nil {
		out = append(out, benchmarkSections(doc.Percentiles))
	}
	return out
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func revenueSections(r *models.RevenueMetrics) []section {
	summary := section{
		Title:  "Revenue Summary",
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Revenue", money(r.TotalRevenue)},
		},
	}
	if r.Comparison != nil {
		summary.Rows = append(summary.Rows,
			[]string{"Previous Period", money(r.Comparison.Previous)},
			[]string{"Change", pct(r.Comparison.Change)},
			[]string{"Trend", r.Comparison.Trend},
		)
	}
	if r.MonthlyTotals.YearOverYear != nil {
		summary.Rows = append(summary.Rows,
			[]string{"Year Over Year", pct(*r.MonthlyTotals.YearOverYear)})
	}

	byCategory := section{
		Title:  "Revenue By Category",
		Header: []string{"Category", "Amount", "Share"},
	}
	for _, c := range r.ByCategory {
		byCategory.Rows = append(byCategory.Rows,
			[]string{c.Category, money(c.Amount), pct(c.Percentage)})
	}

	byStatus := section{
		Title:  "Revenue By Payment Status",
		Header: []string{"Status", "Amount", "Count", "Share"},
	}
	for _, st := range r.ByStatus {
		byStatus.Rows = append(byStatus.Rows,
			[]string{string(st.Status), money(st.Amount), strconv.Itoa(st.Count), pct(st.Percentage)})
	}

	trend := section{
		Title:  "Revenue Trend",
		Header: []string{"Bucket", "Amount", "Change"},
	}
	for _, p := range r.Trend {
		change := ""
		if p.Change != nil {
			change = pct(*p.Change)
		}
		trend.Rows = append(trend.Rows, []string{p.Bucket, money(p.Value), change})
	}

	monthly := section{
		Title:  "Monthly Totals",
		Header: []string{"Month", "Amount"},
	}
	for _, m := range r.MonthlyTotals.Months {
		monthly.Rows = append(monthly.Rows, []string{m.Month, money(m.Amount)})
	}

	return []section{summary, byCategory, byStatus, trend, monthly}
}

func performanceSections(p *models.PerformanceMetrics) []section {
	summary := section{
		Title:  "Performance Summary",
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Completion Rate", pct(p.CompletionRate)},
			{"Cancellation Rate", pct(p.CancellationRate)},
			{"Avg Response Time", p.ResponseTime.Display},
			{"Performance Score", fmt.Sprintf("%.2f", p.Score)},
		},
	}
	if p.Satisfaction.Eligible && p.Satisfaction.Percentage != nil {
		summary.Rows = append(summary.Rows,
			[]string{"Satisfaction Rate", pct(*p.Satisfaction.Percentage)})
	} else {
		summary.Rows = append(summary.Rows,
			[]string{"Satisfaction Rate", "insufficient reviews"})
	}
	if p.CompletionTrend != nil {
		summary.Rows = append(summary.Rows,
			[]string{"Completion Trend", fmt.Sprintf("%s (%s)", p.CompletionTrend.Trend, pct(p.CompletionTrend.Change))})
	}

	byCategory := section{
		Title:  "Performance By Category",
		Header: []string{"Category", "Total", "Completed", "Cancelled", "Completion Rate"},
	}
	for _, c := range p.ByCategory {
		byCategory.Rows = append(byCategory.Rows, []string{
			c.Category, strconv.Itoa(c.Total), strconv.Itoa(c.Completed),
			strconv.Itoa(c.Cancelled), pct(c.CompletionRate),
		})
	}

	reasons := section{
		Title:  "Cancellation Reasons",
		Header: []string{"Reason", "Count", "Share"},
	}
	for _, rc := range p.CancellationReasons {
		reasons.Rows = append(reasons.Rows,
			[]string{rc.Reason, strconv.Itoa(rc.Count), pct(rc.Percentage)})
	}

	return []section{summary, byCategory, reasons}
}

func customerSections(c *models.CustomerMetrics) []section {
	summary := section{
		Title:  "Customer Summary",
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Unique Customers", strconv.Itoa(c.UniqueCustomers)},
			{"Requests Per Customer", fmt.Sprintf("%.2f", c.RequestsPerCustomer)},
			{"Retention Rate", pct(c.RetentionRate)},
			{"Avg Lifetime Revenue", money(c.LifetimeValue.AverageRevenue)},
		},
	}

	regions := section{
		Title:  "Top Regions",
		Header: []string{"Region", "Requests", "Share"},
	}
	for _, r := range c.Regions.Top {
		regions.Rows = append(regions.Rows,
			[]string{r.Region, strconv.Itoa(r.Count), pct(r.Percentage)})
	}

	topCustomers := section{
		Title:  "Top Customers By Revenue",
		Header: []string{"Customer", "Revenue", "Orders"},
	}
	for _, tc := range c.LifetimeValue.TopCustomers {
		topCustomers.Rows = append(topCustomers.Rows,
			[]string{tc.CustomerID, money(tc.Revenue), strconv.Itoa(tc.Orders)})
	}

	acquisition := section{
		Title:  "Customer Acquisition",
		Header: []string{"Bucket", "New", "Returning"},
	}
	for _, a := range c.Acquisition {
		acquisition.Rows = append(acquisition.Rows,
			[]string{a.Bucket, strconv.Itoa(a.New), strconv.Itoa(a.Returning)})
	}

	return []section{summary, regions, topCustomers, acquisition}
}

func benchmarkSections(p *models.PercentileRankings) section {
	s := section{
		Title:  "Platform Benchmarks",
		Header: []string{"Metric", "Value", "Percentile", "Band"},
	}
	if p.InsufficientData {
		s.Rows = append(s.Rows, []string{"insufficient data", "", "", ""})
		return s
	}
	for _, m := range p.Metrics {
		s.Rows = append(s.Rows, []string{
			string(m.Metric),
			fmt.Sprintf("%.2f", m.Value),
			fmt.Sprintf("%.1f", m.Percentile),
			m.Band,
		})
	}
	return s
}
