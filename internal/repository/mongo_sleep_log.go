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

// MongoSleepLogRepository implements domain.SleepLogRepository
type MongoSleepLogRepository struct {
	collection *mongo.Collection
}

func NewMongoSleepLogRepository(db *mongo.Database) *MongoSleepLogRepository {
	coll := db.Collection("sleep_trackers")

	createIndexes(coll,
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "sleep_date", Value: -1}}},
	)

	return &MongoSleepLogRepository{collection: coll}
}

func (r *MongoSleepLogRepository) Create(ctx context.Context, log *domain.SleepLog) error {
	log.ID = ""
	log.CreatedAt = time.Now()
	log.UpdatedAt = log.CreatedAt

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to create sleep log: %w", err)
	}
	log.ID = insertedHex(result)
	return nil
}

func (r *MongoSleepLogRepository) GetByID(ctx context.Context, userID, id string) (*domain.SleepLog, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return nil, err
	}
	return findOne[domain.SleepLog](ctx, r.collection, filter)
}

func (r *MongoSleepLogRepository) List(ctx context.Context, userID string, dates domain.DateRange, page domain.Page) ([]*domain.SleepLog, int64, error) {
	filter := bson.M{"user_id": userID}
	applyDateRange(filter, "sleep_date", dates)
	return findPage[domain.SleepLog](ctx, r.collection, filter, page, bson.D{{Key: "sleep_date", Value: -1}})
}

func (r *MongoSleepLogRepository) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*domain.SleepLog, error) {
	filter := bson.M{
		"user_id":    userID,
		"sleep_date": bson.M{"$gte": from, "$lte": to},
	}
	return findAll[domain.SleepLog](ctx, r.collection, filter, options.Find().SetSort(bson.D{{Key: "sleep_date", Value: 1}}))
}

func (r *MongoSleepLogRepository) Update(ctx context.Context, log *domain.SleepLog) error {
	filter, err := ownedFilter(log.UserID, log.ID)
	if err != nil {
		return err
	}
	log.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"sleep_date":          log.SleepDate,
			"bedtime":             log.Bedtime,
			"wake_time":           log.WakeTime,
			"total_sleep_minutes": log.TotalSleepMinutes,
			"quality":             log.Quality,
			"wake_up_count":       log.WakeUpCount,
			"note":                log.Note,
			"updated_at":          log.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update sleep log: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoSleepLogRepository) Delete(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.collection, filter)
}

func (r *MongoSleepLogRepository) Totals(ctx context.Context) (domain.SleepTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"records":         bson.M{"$sum": 1},
			"average_minutes": bson.M{"$avg": bson.M{"$ifNull": bson.A{"$total_sleep_minutes", 0}}},
		}}},
	}

	var totals domain.SleepTotals
	if err := aggregateOne(ctx, r.collection, pipeline, &totals); err != nil {
		return domain.SleepTotals{}, err
	}
	return totals, nil
}
