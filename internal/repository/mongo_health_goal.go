package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoHealthGoalRepository implements domain.HealthGoalRepository
type MongoHealthGoalRepository struct {
	collection *mongo.Collection
}

func NewMongoHealthGoalRepository(db *mongo.Database) *MongoHealthGoalRepository {
	coll := db.Collection("health_goals")

	createIndexes(coll,
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	)

	return &MongoHealthGoalRepository{collection: coll}
}

func (r *MongoHealthGoalRepository) Create(ctx context.Context, goal *domain.HealthGoal) error {
	goal.ID = ""
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = goal.CreatedAt

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		return fmt.Errorf("failed to create health goal: %w", err)
	}
	goal.ID = insertedHex(result)
	return nil
}

func (r *MongoHealthGoalRepository) GetByID(ctx context.Context, userID, id string) (*domain.HealthGoal, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return nil, err
	}
	return findOne[domain.HealthGoal](ctx, r.collection, filter)
}

func (r *MongoHealthGoalRepository) List(ctx context.Context, userID string, filter domain.GoalFilter, page domain.Page) ([]*domain.HealthGoal, int64, error) {
	query := bson.M{"user_id": userID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	return findPage[domain.HealthGoal](ctx, r.collection, query, page, bson.D{{Key: "created_at", Value: -1}})
}

func (r *MongoHealthGoalRepository) Update(ctx context.Context, goal *domain.HealthGoal) error {
	filter, err := ownedFilter(goal.UserID, goal.ID)
	if err != nil {
		return err
	}
	goal.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"title":         goal.Title,
			"description":   goal.Description,
			"type":          goal.Type,
			"target_value":  goal.TargetValue,
			"unit":          goal.Unit,
			"current_value": goal.CurrentValue,
			"start_date":    goal.StartDate,
			"end_date":      goal.EndDate,
			"status":        goal.Status,
			"progress":      goal.Progress,
			"updated_at":    goal.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update health goal: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoHealthGoalRepository) Delete(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.collection, filter)
}

// Counts returns system-wide goal totals
func (r *MongoHealthGoalRepository) Counts(ctx context.Context) (domain.GoalCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"total":     bson.M{"$sum": 1},
			"active":    bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", domain.GoalActive}}, 1, 0}}},
			"completed": bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", domain.GoalCompleted}}, 1, 0}}},
		}}},
	}

	var counts domain.GoalCounts
	if err := aggregateOne(ctx, r.collection, pipeline, &counts); err != nil {
		return domain.GoalCounts{}, err
	}
	return counts, nil
}
