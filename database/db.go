package database

import (
	"context"
	"log"
	"time"

	"marketpulse/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the global MongoDB client instance.
var MongoClient *mongo.Client

// DatabaseName is the marketplace database all repositories read from.
const DatabaseName = "marketpulse"

// InitDB initializes the MongoDB connection and ensures the indexes the
// analytics queries depend on.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping MongoDB: %v", err)
	}
	MongoClient = client

	if err := ensureIndexes(ctx, client.Database(DatabaseName)); err != nil {
		log.Fatalf("failed to ensure MongoDB indexes: %v", err)
	}
	log.Println("Connected to MongoDB successfully!")
}

// ensureIndexes backs every repository query pattern: windowed per-provider
// scans, the keyed snapshot upsert, active-threshold reads and the due
// schedule sweep.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		"work_orders": {
			{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		"payments": {
			{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "payment_date", Value: -1}}},
		},
		"ratings": {
			{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"metric_snapshots": {
			{Keys: bson.D{{Key: "provider_id", Value: 1}}, Options: unique},
		},
		"alert_thresholds": {
			{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "is_active", Value: 1}}},
		},
		"report_artifacts": {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "generated_at", Value: -1}}},
		},
		"scheduled_reports": {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "next_run_date", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
