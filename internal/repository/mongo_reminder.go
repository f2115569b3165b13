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

// MongoReminderRepository implements domain.ReminderRepository
type MongoReminderRepository struct {
	collection *mongo.Collection
}

func NewMongoReminderRepository(db *mongo.Database) *MongoReminderRepository {
	coll := db.Collection("reminders")

	createIndexes(coll,
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "time", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_active", Value: 1}}},
	)

	return &MongoReminderRepository{collection: coll}
}

func (r *MongoReminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	reminder.ID = ""
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = reminder.CreatedAt
	if reminder.DaysOfWeek == nil {
		reminder.DaysOfWeek = []int{}
	}

	result, err := r.collection.InsertOne(ctx, reminder)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	reminder.ID = insertedHex(result)
	return nil
}

func (r *MongoReminderRepository) GetByID(ctx context.Context, userID, id string) (*domain.Reminder, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return nil, err
	}
	return findOne[domain.Reminder](ctx, r.collection, filter)
}

func (r *MongoReminderRepository) List(ctx context.Context, userID string, filter domain.ReminderFilter, page domain.Page) ([]*domain.Reminder, int64, error) {
	query := bson.M{"user_id": userID}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	return findPage[domain.Reminder](ctx, r.collection, query, page, bson.D{{Key: "time", Value: 1}})
}

func (r *MongoReminderRepository) Update(ctx context.Context, reminder *domain.Reminder) error {
	filter, err := ownedFilter(reminder.UserID, reminder.ID)
	if err != nil {
		return err
	}
	reminder.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"title":        reminder.Title,
			"description":  reminder.Description,
			"type":         reminder.Type,
			"time":         reminder.Time,
			"days_of_week": reminder.DaysOfWeek,
			"is_active":    reminder.IsActive,
			"updated_at":   reminder.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoReminderRepository) SetActive(ctx context.Context, userID, id string, active bool) (*domain.Reminder, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return nil, err
	}

	var reminder domain.Reminder
	update := bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&reminder); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to toggle reminder: %w", err)
	}
	return &reminder, nil
}

func (r *MongoReminderRepository) Delete(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.collection, filter)
}

// DueAt returns active reminders at hhmm whose days are empty (every day)
// or include day
func (r *MongoReminderRepository) DueAt(ctx context.Context, userID, hhmm string, day int) ([]*domain.Reminder, error) {
	filter := bson.M{
		"user_id":   userID,
		"is_active": true,
		"time":      hhmm,
		"$or": bson.A{
			bson.M{"days_of_week": bson.M{"$size": 0}},
			bson.M{"days_of_week": day},
		},
	}
	return findAll[domain.Reminder](ctx, r.collection, filter)
}

func (r *MongoReminderRepository) CountActive(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count reminders: %w", err)
	}
	return n, nil
}
