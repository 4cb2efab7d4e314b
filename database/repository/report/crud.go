package reportRepo

import (
	"context"
	"time"

	"marketpulse/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoReportRepo) InsertArtifact(ctx context.Context, artifact models.ReportArtifact) error {
	_, err := r.artifacts.InsertOne(ctx, artifact)
	return err
}

func (r *mongoReportRepo) ArtifactByID(ctx context.Context, reportID, providerID string) (*models.ReportArtifact, error) {
	var artifact models.ReportArtifact
	err := r.artifacts.FindOne(ctx, bson.M{"id": reportID, "provider_id": providerID}).Decode(&artifact)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &artifact, nil
}

func (r *mongoReportRepo) SetFilePath(ctx context.Context, reportID, path string, expiresAt time.Time) error {
	update := bson.M{"$set": bson.M{"file_path": path, "expires_at": expiresAt}}
	res, err := r.artifacts.UpdateOne(ctx, bson.M{"id": reportID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoReportRepo) ListArtifacts(ctx context.Context, providerID string, reportType models.ReportType, page, limit int) ([]models.ReportArtifact, int64, error) {
	query := bson.M{"provider_id": providerID}
	if reportType != "" {
		query["report_type"] = reportType
	}

	total, err := r.artifacts.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"generated_at": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.artifacts.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var artifacts []models.ReportArtifact
	if err := cursor.All(ctx, &artifacts); err != nil {
		return nil, 0, err
	}
	return artifacts, total, nil
}

func (r *mongoReportRepo) InsertSchedule(ctx context.Context, schedule models.ScheduledReport) error {
	_, err := r.schedules.InsertOne(ctx, schedule)
	return err
}

func (r *mongoReportRepo) ActiveSchedules(ctx context.Context, providerID string) ([]models.ScheduledReport, error) {
	cursor, err := r.schedules.Find(ctx, bson.M{"provider_id": providerID, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []models.ScheduledReport
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *mongoReportRepo) DeactivateSchedule(ctx context.Context, scheduleID, providerID string) error {
	update := bson.M{"$set": bson.M{"is_active": false}}
	res, err := r.schedules.UpdateOne(ctx, bson.M{"id": scheduleID, "provider_id": providerID, "is_active": true}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoReportRepo) DueSchedules(ctx context.Context, now time.Time) ([]models.ScheduledReport, error) {
	query := bson.M{"is_active": true, "next_run_date": bson.M{"$lte": now}}
	cursor, err := r.schedules.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []models.ScheduledReport
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *mongoReportRepo) AdvanceSchedule(ctx context.Context, scheduleID string, nextRun time.Time) error {
	update := bson.M{"$set": bson.M{"next_run_date": nextRun}}
	res, err := r.schedules.UpdateOne(ctx, bson.M{"id": scheduleID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
