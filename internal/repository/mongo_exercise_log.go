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

// MongoExerciseLogRepository implements domain.ExerciseLogRepository
type MongoExerciseLogRepository struct {
	collection *mongo.Collection
}

func NewMongoExerciseLogRepository(db *mongo.Database) *MongoExerciseLogRepository {
	coll := db.Collection("exercise_logs")

	createIndexes(coll,
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "exercise_date", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "exercise_type", Value: 1}}},
	)

	return &MongoExerciseLogRepository{collection: coll}
}

func (r *MongoExerciseLogRepository) Create(ctx context.Context, log *domain.ExerciseLog) error {
	log.ID = ""
	log.CreatedAt = time.Now()
	log.UpdatedAt = log.CreatedAt
	if log.ExerciseDate.IsZero() {
		log.ExerciseDate = log.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to create exercise log: %w", err)
	}
	log.ID = insertedHex(result)
	return nil
}

func (r *MongoExerciseLogRepository) GetByID(ctx context.Context, userID, id string) (*domain.ExerciseLog, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return nil, err
	}
	return findOne[domain.ExerciseLog](ctx, r.collection, filter)
}

func (r *MongoExerciseLogRepository) List(ctx context.Context, userID string, filter domain.ExerciseFilter, page domain.Page) ([]*domain.ExerciseLog, int64, error) {
	query := bson.M{"user_id": userID}
	if filter.Type != "" {
		query["exercise_type"] = filter.Type
	}
	applyDateRange(query, "exercise_date", filter.Dates)
	return findPage[domain.ExerciseLog](ctx, r.collection, query, page, bson.D{{Key: "exercise_date", Value: -1}})
}

func (r *MongoExerciseLogRepository) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*domain.ExerciseLog, error) {
	filter := bson.M{
		"user_id":       userID,
		"exercise_date": bson.M{"$gte": from, "$lte": to},
	}
	return findAll[domain.ExerciseLog](ctx, r.collection, filter, options.Find().SetSort(bson.D{{Key: "exercise_date", Value: 1}}))
}

func (r *MongoExerciseLogRepository) Update(ctx context.Context, log *domain.ExerciseLog) error {
	filter, err := ownedFilter(log.UserID, log.ID)
	if err != nil {
		return err
	}
	log.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"exercise_type":   log.ExerciseType,
			"exercise_name":   log.ExerciseName,
			"duration":        log.Duration,
			"intensity":       log.Intensity,
			"calories_burned": log.CaloriesBurned,
			"distance":        log.Distance,
			"exercise_date":   log.ExerciseDate,
			"note":            log.Note,
			"updated_at":      log.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update exercise log: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoExerciseLogRepository) Delete(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.collection, filter)
}

func (r *MongoExerciseLogRepository) Totals(ctx context.Context) (domain.ExerciseTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"records":  bson.M{"$sum": 1},
			"duration": bson.M{"$sum": "$duration"},
			"calories": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$calories_burned", 0}}},
			"distance": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$distance", 0}}},
		}}},
	}

	var totals domain.ExerciseTotals
	if err := aggregateOne(ctx, r.collection, pipeline, &totals); err != nil {
		return domain.ExerciseTotals{}, err
	}
	return totals, nil
}
