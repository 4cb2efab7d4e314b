package thresholdRepo

import (
	"context"
	"time"

	"marketpulse/database"
	"marketpulse/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ThresholdRepository interface {
	ActiveByProvider(ctx context.Context, providerID string) ([]models.AlertThreshold, error)
	// MarkTriggered stamps last_triggered_at on the given rules in one batch
	// write. Rules that did not trigger are never touched.
	MarkTriggered(ctx context.Context, ids []string, at time.Time) error
}

type mongoThresholdRepo struct {
	coll *mongo.Collection
}

// NewMongoThresholdRepo returns a new ThresholdRepository instance using MongoDB.
func NewMongoThresholdRepo() ThresholdRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoThresholdRepo{
		coll: db.Collection("alert_thresholds"),
	}
}

func (r *mongoThresholdRepo) ActiveByProvider(ctx context.Context, providerID string) ([]models.AlertThreshold, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"provider_id": providerID, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var thresholds []models.AlertThreshold
	if err := cursor.All(ctx, &thresholds); err != nil {
		return nil, err
	}
	return thresholds, nil
}

func (r *mongoThresholdRepo) MarkTriggered(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	update := bson.M{"$set": bson.M{"last_triggered_at": at}}
	_, err := r.coll.UpdateMany(ctx, bson.M{"id": bson.M{"$in": ids}}, update)
	return err
}
