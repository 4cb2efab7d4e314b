package models

import "time"

// ReportType selects which metric groups a report includes.
type ReportType string

const (
	ReportRevenue       ReportType = "revenue"
	ReportPerformance   ReportType = "performance"
	ReportCustomer      ReportType = "customer"
	ReportComprehensive ReportType = "comprehensive"
	ReportCustom        ReportType = "custom"
)

// ReportFormat is the export serialization.
type ReportFormat string

const (
	FormatCSV  ReportFormat = "csv"
	FormatXLSX ReportFormat = "xlsx"
	FormatPDF  ReportFormat = "pdf"
)

// ReportSection names one includable metric group for custom reports. A
// typed list replaces the loose shapes the report options used to arrive in.
type ReportSection string

const (
	SectionRevenue     ReportSection = "revenue"
	SectionPerformance ReportSection = "performance"
	SectionCustomer    ReportSection = "customer"
	SectionBenchmarks  ReportSection = "benchmarks"
)

// ScheduleFrequency is how often a scheduled report recurs.
type ScheduleFrequency string

const (
	FrequencyDaily   ScheduleFrequency = "daily"
	FrequencyWeekly  ScheduleFrequency = "weekly"
	FrequencyMonthly ScheduleFrequency = "monthly"
)

// ReportStatus is derived from an artifact row, never stored.
type ReportStatus string

const (
	ReportAvailable  ReportStatus = "available"
	ReportGenerating ReportStatus = "generating"
	ReportExpired    ReportStatus = "expired"
)

// ReportOptions drives one generation call.
type ReportOptions struct {
	ReportType ReportType      `json:"report_type"`
	Format     ReportFormat    `json:"format"`
	DateFrom   *time.Time      `json:"date_from,omitempty"`
	DateTo     *time.Time      `json:"date_to,omitempty"`
	Sections   []ReportSection `json:"sections,omitempty"` // custom reports only
}

// ReportArtifact is one persisted generation. Immutable after creation
// except file_path, which the export step back-fills.
type ReportArtifact struct {
	ID             string       `bson:"id" json:"id"`
	ProviderID     string       `bson:"provider_id" json:"provider_id"`
	ReportType     ReportType   `bson:"report_type" json:"report_type"`
	Format         ReportFormat `bson:"format" json:"format"`
	Period         string       `bson:"period" json:"period"`
	DateRangeStart time.Time    `bson:"date_range_start" json:"date_range_start"`
	DateRangeEnd   time.Time    `bson:"date_range_end" json:"date_range_end"`
	FilePath       string       `bson:"file_path,omitempty" json:"file_path,omitempty"`
	GeneratedAt    time.Time    `bson:"generated_at" json:"generated_at"`
	ExpiresAt      time.Time    `bson:"expires_at" json:"expires_at"`
}

// Status derives the artifact's serving state at time now.
func (r ReportArtifact) Status(now time.Time) ReportStatus {
	if now.After(r.ExpiresAt) {
		return ReportExpired
	}
	if r.FilePath != "" {
		return ReportAvailable
	}
	return ReportGenerating
}

// ScheduleConfig is the caller-supplied recurring-report request.
type ScheduleConfig struct {
	Frequency       ScheduleFrequency `json:"frequency"`
	StartDate       *time.Time        `json:"start_date,omitempty"`
	EmailRecipients []string          `json:"email_recipients"`
}

// ScheduledReport is a recurring report registration. Cancellation
// deactivates the row, it is never hard-deleted.
type ScheduledReport struct {
	ID              string            `bson:"id" json:"id"`
	ProviderID      string            `bson:"provider_id" json:"provider_id"`
	ReportType      ReportType        `bson:"report_type" json:"report_type"`
	Format          ReportFormat      `bson:"format" json:"format"`
	Frequency       ScheduleFrequency `bson:"frequency" json:"frequency"`
	NextRunDate     time.Time         `bson:"next_run_date" json:"next_run_date"`
	EmailRecipients []string          `bson:"email_recipients" json:"email_recipients"`
	Sections        []ReportSection   `bson:"sections,omitempty" json:"sections,omitempty"`
	IsActive        bool              `bson:"is_active" json:"is_active"`
	CreatedAt       time.Time         `bson:"created_at" json:"created_at"`
}

// ReportDocument is the composed analytics bundle a report renders.
type ReportDocument struct {
	Artifact    ReportArtifact      `json:"artifact"`
	Revenue     *RevenueMetrics     `json:"revenue,omitempty"`
	Performance *PerformanceMetrics `json:"performance,omitempty"`
	Customers   *CustomerMetrics    `json:"customers,omitempty"`
	Percentiles *PercentileRankings `json:"percentiles,omitempty"`
}

// ExportResult describes a finished export.
type ExportResult struct {
	ReportID  string    `json:"report_id"`
	FilePath  string    `json:"file_path"`
	Size      int64     `json:"size"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReportHistoryEntry annotates an artifact with its derived status.
type ReportHistoryEntry struct {
	ReportArtifact
	Status ReportStatus `json:"status"`
}

// Pagination describes one page of a history listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ReportHistory is the history listing response.
type ReportHistory struct {
	Reports          []ReportHistoryEntry `json:"reports"`
	ScheduledReports []ScheduledReport    `json:"scheduled_reports"`
	Pagination       Pagination           `json:"pagination"`
}
