package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWaterIntakeRepository implements domain.WaterIntakeRepository
type MongoWaterIntakeRepository struct {
	collection *mongo.Collection
}

func NewMongoWaterIntakeRepository(db *mongo.Database) *MongoWaterIntakeRepository {
	coll := db.Collection("water_intakes")

	createIndexes(coll,
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
	)

	return &MongoWaterIntakeRepository{collection: coll}
}

func (r *MongoWaterIntakeRepository) Create(ctx context.Context, intake *domain.WaterIntake) error {
	intake.ID = ""
	intake.CreatedAt = time.Now()
	if intake.Date.IsZero() {
		intake.Date = intake.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, intake)
	if err != nil {
		return fmt.Errorf("failed to create water intake: %w", err)
	}
	intake.ID = insertedHex(result)
	return nil
}

func (r *MongoWaterIntakeRepository) List(ctx context.Context, userID string, dates domain.DateRange, page domain.Page) ([]*domain.WaterIntake, int64, error) {
	filter := bson.M{"user_id": userID}
	applyDateRange(filter, "date", dates)
	return findPage[domain.WaterIntake](ctx, r.collection, filter, page, bson.D{{Key: "date", Value: -1}})
}

func (r *MongoWaterIntakeRepository) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*domain.WaterIntake, error) {
	filter := bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": from, "$lte": to},
	}
	return findAll[domain.WaterIntake](ctx, r.collection, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (r *MongoWaterIntakeRepository) Delete(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.collection, filter)
}

func (r *MongoWaterIntakeRepository) Totals(ctx context.Context) (domain.WaterTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"records": bson.M{"$sum": 1},
			"amount":  bson.M{"$sum": "$amount"},
		}}},
	}

	var totals domain.WaterTotals
	if err := aggregateOne(ctx, r.collection, pipeline, &totals); err != nil {
		return domain.WaterTotals{}, err
	}
	return totals, nil
}
