package paymentRepo

import (
	"context"
	"time"

	"marketpulse/database"
	"marketpulse/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Filter narrows a payment query by settlement status and payment date.
// The time range is half-open: From inclusive, To exclusive.
type Filter struct {
	StatusIn []models.PaymentStatus
	From     *time.Time
	To       *time.Time
}

type PaymentRepository interface {
	Query(ctx context.Context, providerID string, f Filter) ([]models.Payment, error)
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo returns a new PaymentRepository instance using MongoDB.
func NewMongoPaymentRepo() PaymentRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoPaymentRepo{
		coll: db.Collection("payments"),
	}
}

func (r *mongoPaymentRepo) Query(ctx context.Context, providerID string, f Filter) ([]models.Payment, error) {
	query := bson.M{"provider_id": providerID}
	if len(f.StatusIn) > 0 {
		query["status"] = bson.M{"$in": f.StatusIn}
	}
	if f.From != nil || f.To != nil {
		rangeQ := bson.M{}
		if f.From != nil {
			rangeQ["$gte"] = *f.From
		}
		if f.To != nil {
			rangeQ["$lt"] = *f.To
		}
		query["payment_date"] = rangeQ
	}

	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
