package snapshotRepo

import (
	"context"
	"time"

	"marketpulse/database"
	"marketpulse/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SnapshotRepository interface {
	// Get returns the provider's snapshot, or nil when none exists.
	Get(ctx context.Context, providerID string) (*models.MetricSnapshot, error)
	// Upsert overwrites the provider's snapshot in one keyed write. Last
	// writer wins under concurrent refresh.
	Upsert(ctx context.Context, snap models.MetricSnapshot) error
	// Invalidate marks the snapshot stale and back-dates computed_at without
	// deleting the row, so the last-known-good value survives a failed
	// recompute.
	Invalidate(ctx context.Context, providerID string) error
}

type mongoSnapshotRepo struct {
	coll *mongo.Collection
}

// NewMongoSnapshotRepo returns a new SnapshotRepository instance using MongoDB.
func NewMongoSnapshotRepo() SnapshotRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoSnapshotRepo{
		coll: db.Collection("metric_snapshots"),
	}
}

func (r *mongoSnapshotRepo) Get(ctx context.Context, providerID string) (*models.MetricSnapshot, error) {
	var snap models.MetricSnapshot
	err := r.coll.FindOne(ctx, bson.M{"provider_id": providerID}).Decode(&snap)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *mongoSnapshotRepo) Upsert(ctx context.Context, snap models.MetricSnapshot) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"provider_id": snap.ProviderID}, snap, opts)
	return err
}

func (r *mongoSnapshotRepo) Invalidate(ctx context.Context, providerID string) error {
	update := bson.M{"$set": bson.M{
		"stale":       true,
		"computed_at": time.Time{},
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"provider_id": providerID}, update)
	return err
}
