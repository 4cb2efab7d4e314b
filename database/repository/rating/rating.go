package ratingRepo

import (
	"context"
	"time"

	"marketpulse/database"
	"marketpulse/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Filter narrows a rating query by creation time, half-open range.
type Filter struct {
	From *time.Time
	To   *time.Time
}

type RatingRepository interface {
	Query(ctx context.Context, providerID string, f Filter) ([]models.Rating, error)
}

type mongoRatingRepo struct {
	coll *mongo.Collection
}

// NewMongoRatingRepo returns a new RatingRepository instance using MongoDB.
func NewMongoRatingRepo() RatingRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoRatingRepo{
		coll: db.Collection("ratings"),
	}
}

func (r *mongoRatingRepo) Query(ctx context.Context, providerID string, f Filter) ([]models.Rating, error) {
	query := bson.M{"provider_id": providerID}
	if f.From != nil || f.To != nil {
		rangeQ := bson.M{}
		if f.From != nil {
			rangeQ["$gte"] = *f.From
		}
		if f.To != nil {
			rangeQ["$lt"] = *f.To
		}
		query["created_at"] = rangeQ
	}

	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}
