package reportRepo

import (
	"context"
	"errors"
	"time"

	"marketpulse/database"
	"marketpulse/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a keyed lookup or update matches no row.
var ErrNotFound = errors.New("report record not found")

type ReportRepository interface {
	InsertArtifact(ctx context.Context, artifact models.ReportArtifact) error
	ArtifactByID(ctx context.Context, reportID, providerID string) (*models.ReportArtifact, error)
	// SetFilePath back-fills the file path and expiry after a successful
	// export. The only mutation an artifact row ever sees.
	SetFilePath(ctx context.Context, reportID, path string, expiresAt time.Time) error
	ListArtifacts(ctx context.Context, providerID string, reportType models.ReportType, page, limit int) ([]models.ReportArtifact, int64, error)

	InsertSchedule(ctx context.Context, schedule models.ScheduledReport) error
	ActiveSchedules(ctx context.Context, providerID string) ([]models.ScheduledReport, error)
	// DeactivateSchedule soft-deletes, keyed on both ids so one provider can
	// never cancel another's schedule. ErrNotFound when nothing matches.
	DeactivateSchedule(ctx context.Context, scheduleID, providerID string) error
	DueSchedules(ctx context.Context, now time.Time) ([]models.ScheduledReport, error)
	AdvanceSchedule(ctx context.Context, scheduleID string, nextRun time.Time) error
}

type mongoReportRepo struct {
	artifacts *mongo.Collection
	schedules *mongo.Collection
}

// NewMongoReportRepo returns a new ReportRepository instance using MongoDB.
func NewMongoReportRepo() ReportRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoReportRepo{
		artifacts: db.Collection("report_artifacts"),
		schedules: db.Collection("scheduled_reports"),
	}
}
