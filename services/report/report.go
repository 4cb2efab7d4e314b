package report

import (
	"context"
	"fmt"
	"time"

	"marketpulse/models"
	"marketpulse/services/analytics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var validFormats = map[models.ReportFormat]bool{
	models.FormatCSV:  true,
	models.FormatXLSX: true,
	models.FormatPDF:  true,
}

var validTypes = map[models.ReportType]bool{
	models.ReportRevenue:       true,
	models.ReportPerformance:   true,
	models.ReportCustomer:      true,
	models.ReportComprehensive: true,
	models.ReportCustom:        true,
}

var validSections = map[models.ReportSection]bool{
	models.SectionRevenue:     true,
	models.SectionPerformance: true,
	models.SectionCustomer:    true,
	models.SectionBenchmarks:  true,
}

// sectionsFor resolves which metric groups a report includes.
func sectionsFor(opts models.ReportOptions) ([]models.ReportSection, error) {
	switch opts.ReportType {
	case models.ReportRevenue:
		return []models.ReportSection{models.SectionRevenue}, nil
	case models.ReportPerformance:
		return []models.ReportSection{models.SectionPerformance}, nil
	case models.ReportCustomer:
		return []models.ReportSection{models.SectionCustomer}, nil
	case models.ReportComprehensive:
		return []models.ReportSection{
			models.SectionRevenue,
			models.SectionPerformance,
			models.SectionCustomer,
			models.SectionBenchmarks,
		}, nil
	case models.ReportCustom:
		if len(opts.Sections) == 0 {
			return nil, analytics.NewValidationError("custom reports require at least one section")
		}
		for _, section := range opts.Sections {
			if !validSections[section] {
				return nil, analytics.NewValidationError(fmt.Sprintf("invalid report section %q", section))
			}
		}
		return opts.Sections, nil
	default:
		return nil, analytics.NewValidationError(fmt.Sprintf("invalid report type %q", opts.ReportType))
	}
}

// periodFor derives the analysis period from the requested range length;
// without an explicit range the report covers the last 30 days.
func periodFor(opts models.ReportOptions, now time.Time) (string, time.Time, time.Time, error) {
	if opts.DateFrom == nil || opts.DateTo == nil {
		return string(analytics.Period30Days), now.AddDate(0, 0, -30), now, nil
	}
	from, to := *opts.DateFrom, *opts.DateTo
	if !to.After(from) {
		return "", time.Time{}, time.Time{}, analytics.NewValidationError("date range end must be after start")
	}
	length := to.Sub(from)
	switch {
	case length <= 7*24*time.Hour:
		return string(analytics.Period7Days), from, to, nil
	case length <= 30*24*time.Hour:
		return string(analytics.Period30Days), from, to, nil
	case length <= 180*24*time.Hour:
		return string(analytics.Period6Months), from, to, nil
	default:
		return string(analytics.Period1Year), from, to, nil
	}
}

// Generate validates the request, persists the artifact row before any
// rendering, then assembles the included sections concurrently. Report
// content must be complete, so the join fails fast on the first error;
// the row survives a failed assembly in the generating state.
func (s *DefaultReportService) Generate(ctx context.Context, providerID string, opts models.ReportOptions) (*models.ReportDocument, error) {
	if !validTypes[opts.ReportType] {
		return nil, analytics.NewValidationError(fmt.Sprintf("invalid report type %q", opts.ReportType))
	}
	if !validFormats[opts.Format] {
		return nil, analytics.NewValidationError(fmt.Sprintf("invalid report format %q", opts.Format))
	}
	sections, err := sectionsFor(opts)
	if err != nil {
		return nil, err
	}

	now := s.now()
	period, rangeStart, rangeEnd, err := periodFor(opts, now)
	if err != nil {
		return nil, err
	}

	artifact := models.ReportArtifact{
		ID:             uuid.New().String(),
		ProviderID:     providerID,
		ReportType:     opts.ReportType,
		Format:         opts.Format,
		Period:         period,
		DateRangeStart: rangeStart,
		DateRangeEnd:   rangeEnd,
		GeneratedAt:    now,
		ExpiresAt:      now.Add(s.expiry()),
	}
	if err := s.Repo.InsertArtifact(ctx, artifact); err != nil {
		return nil, analytics.NewDataUnavailableError("persisting report artifact", err)
	}

	doc := &models.ReportDocument{Artifact: artifact}
	g, gctx := errgroup.WithContext(ctx)
	for _, section := range sections {
		switch section {
		case models.SectionRevenue:
			g.Go(func() error {
				var err error
				doc.Revenue, err = s.Analytics.Revenue(gctx, providerID, period)
				return err
			})
		case models.SectionPerformance:
			g.Go(func() error {
				var err error
				doc.Performance, err = s.Analytics.Performance(gctx, providerID, period)
				return err
			})
		case models.SectionCustomer:
			g.Go(func() error {
				var err error
				doc.Customers, err = s.Analytics.Customers(gctx, providerID, period)
				return err
			})
		case models.SectionBenchmarks:
			g.Go(func() error {
				rankings, err := s.Benchmarks.PercentileRankings(gctx, providerID)
				if err == nil {
					doc.Percentiles = rankings
				}
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return doc, nil
}
