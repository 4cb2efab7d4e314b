package workorderRepo

import (
	"context"
	"time"

	"marketpulse/database"
	"marketpulse/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Filter narrows a work-order query. Nil/empty fields are ignored. The time
// range is half-open: From inclusive, To exclusive.
type Filter struct {
	StatusIn []models.WorkOrderStatus
	Category string
	From     *time.Time
	To       *time.Time
}

type WorkOrderRepository interface {
	Query(ctx context.Context, providerID string, f Filter) ([]models.WorkOrder, error)
	// ProviderAggregates returns population-wide per-provider tallies for
	// benchmarking, merged from grouped scans of the work order, payment and
	// rating collections.
	ProviderAggregates(ctx context.Context) ([]models.ProviderAggregate, error)
}

type mongoWorkOrderRepo struct {
	coll     *mongo.Collection
	payments *mongo.Collection
	ratings  *mongo.Collection
}

// NewMongoWorkOrderRepo returns a new WorkOrderRepository instance using MongoDB.
func NewMongoWorkOrderRepo() WorkOrderRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoWorkOrderRepo{
		coll:     db.Collection("work_orders"),
		payments: db.Collection("payments"),
		ratings:  db.Collection("ratings"),
	}
}
