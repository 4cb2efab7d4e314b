package workorderRepo

import (
	"context"

	"marketpulse/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Query fetches all work orders for a provider matching the filter.
func (r *mongoWorkOrderRepo) Query(ctx context.Context, providerID string, f Filter) ([]models.WorkOrder, error) {
	query := bson.M{"provider_id": providerID}
	if len(f.StatusIn) > 0 {
		query["status"] = bson.M{"$in": f.StatusIn}
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
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

	var orders []models.WorkOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
