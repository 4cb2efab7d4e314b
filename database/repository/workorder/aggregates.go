package workorderRepo

import (
	"context"

	"marketpulse/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ProviderAggregates merges three grouped scans into one tally per provider.
// Splitting the pipelines keeps each one a plain $group and avoids a
// cross-collection $lookup over the full payment history.
func (r *mongoWorkOrderRepo) ProviderAggregates(ctx context.Context) ([]models.ProviderAggregate, error) {
	byProvider := make(map[string]*models.ProviderAggregate)
	get := func(id string) *models.ProviderAggregate {
		agg, ok := byProvider[id]
		if !ok {
			agg = &models.ProviderAggregate{ProviderID: id}
			byProvider[id] = agg
		}
		return agg
	}

	// Work order tallies, response delay in minutes per order. Orders with
	// no outbound message fall back to the status-update timestamp.
	woPipeline := []bson.M{
		{"$project": bson.M{
			"provider_id": 1,
			"status":      1,
			"response_minutes": bson.M{"$divide": bson.A{
				bson.M{"$subtract": bson.A{
					bson.M{"$ifNull": bson.A{"$first_response_at", "$updated_at"}},
					"$created_at",
				}},
				60000,
			}},
		}},
		{"$group": bson.M{
			"_id":        "$provider_id",
			"work_orders": bson.M{"$sum": 1},
			"accepted_superset": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{"$status", models.AcceptedSuperset}}, 1, 0,
			}}},
			"completed": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.WorkOrderCompleted}}, 1, 0,
			}}},
			"cancelled": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.WorkOrderCancelled}}, 1, 0,
			}}},
			"response_minutes_total": bson.M{"$sum": "$response_minutes"},
			"responded":              bson.M{"$sum": 1},
		}},
	}
	cursor, err := r.coll.Aggregate(ctx, woPipeline)
	if err != nil {
		return nil, err
	}
	var woRows []struct {
		ProviderID           string  `bson:"_id"`
		WorkOrders           int     `bson:"work_orders"`
		AcceptedSuperset     int     `bson:"accepted_superset"`
		Completed            int     `bson:"completed"`
		Cancelled            int     `bson:"cancelled"`
		ResponseMinutesTotal float64 `bson:"response_minutes_total"`
		Responded            int     `bson:"responded"`
	}
	if err := cursor.All(ctx, &woRows); err != nil {
		return nil, err
	}
	for _, row := range woRows {
		agg := get(row.ProviderID)
		agg.WorkOrders = row.WorkOrders
		agg.AcceptedSuperset = row.AcceptedSuperset
		agg.Completed = row.Completed
		agg.Cancelled = row.Cancelled
		agg.ResponseMinutesTotal = row.ResponseMinutesTotal
		agg.Responded = row.Responded
	}

	// Completed revenue per provider.
	payPipeline := []bson.M{
		{"$match": bson.M{"status": models.PaymentCompleted}},
		{"$group": bson.M{
			"_id":     "$provider_id",
			"revenue": bson.M{"$sum": "$amount"},
		}},
	}
	cursor, err = r.payments.Aggregate(ctx, payPipeline)
	if err != nil {
		return nil, err
	}
	var payRows []struct {
		ProviderID string  `bson:"_id"`
		Revenue    float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &payRows); err != nil {
		return nil, err
	}
	for _, row := range payRows {
		get(row.ProviderID).Revenue = row.Revenue
	}

	// Rating sums per provider.
	ratingPipeline := []bson.M{
		{"$group": bson.M{
			"_id":          "$provider_id",
			"rating_sum":   bson.M{"$sum": "$value"},
			"rated_orders": bson.M{"$sum": 1},
		}},
	}
	cursor, err = r.ratings.Aggregate(ctx, ratingPipeline)
	if err != nil {
		return nil, err
	}
	var ratingRows []struct {
		ProviderID  string  `bson:"_id"`
		RatingSum   float64 `bson:"rating_sum"`
		RatedOrders int     `bson:"rated_orders"`
	}
	if err := cursor.All(ctx, &ratingRows); err != nil {
		return nil, err
	}
	for _, row := range ratingRows {
		agg := get(row.ProviderID)
		agg.RatingSum = row.RatingSum
		agg.RatedOrders = row.RatedOrders
	}

	aggregates := make([]models.ProviderAggregate, 0, len(byProvider))
	for _, agg := range byProvider {
		aggregates = append(aggregates, *agg)
	}
	return aggregates, nil
}
