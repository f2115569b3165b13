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

// MongoHealthRecordRepository implements domain.HealthRecordRepository
type MongoHealthRecordRepository struct {
	collection *mongo.Collection
}

func NewMongoHealthRecordRepository(db *mongo.Database) *MongoHealthRecordRepository {
	coll := db.Collection("health_records")

	createIndexes(coll,
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: 1}}},
	)

	return &MongoHealthRecordRepository{collection: coll}
}

func (r *MongoHealthRecordRepository) Create(ctx context.Context, record *domain.HealthRecord) error {
	record.ID = ""
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to create health record: %w", err)
	}
	record.ID = insertedHex(result)
	return nil
}

func (r *MongoHealthRecordRepository) GetByID(ctx context.Context, userID, id string) (*domain.HealthRecord, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return nil, err
	}
	return findOne[domain.HealthRecord](ctx, r.collection, filter)
}

// GetLatest returns the newest record, or nil when the user has none
func (r *MongoHealthRecordRepository) GetLatest(ctx context.Context, userID string) (*domain.HealthRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	record, err := findOne[domain.HealthRecord](ctx, r.collection, bson.M{"user_id": userID}, opts)
	if err == domain.ErrNotFound {
		return nil, nil
	}
	return record, err
}

func (r *MongoHealthRecordRepository) List(ctx context.Context, userID string, dates domain.DateRange, page domain.Page) ([]*domain.HealthRecord, int64, error) {
	filter := bson.M{"user_id": userID}
	applyDateRange(filter, "created_at", dates)
	return findPage[domain.HealthRecord](ctx, r.collection, filter, page, bson.D{{Key: "created_at", Value: -1}})
}

// ListBetween returns records created in [from, to], oldest first
func (r *MongoHealthRecordRepository) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*domain.HealthRecord, error) {
	filter := bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": from, "$lte": to},
	}
	return findAll[domain.HealthRecord](ctx, r.collection, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (r *MongoHealthRecordRepository) Update(ctx context.Context, record *domain.HealthRecord) error {
	filter, err := ownedFilter(record.UserID, record.ID)
	if err != nil {
		return err
	}
	record.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"height":         record.Height,
			"weight":         record.Weight,
			"blood_pressure": record.BloodPressure,
			"heart_rate":     record.HeartRate,
			"blood_sugar":    record.BloodSugar,
			"temperature":    record.Temperature,
			"note":           record.Note,
			"updated_at":     record.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update health record: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoHealthRecordRepository) Delete(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.collection, filter)
}

func (r *MongoHealthRecordRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count health records: %w", err)
	}
	return n, nil
}

// SearchNotes matches pattern case-insensitively against the record note.
// pattern must already be regex-escaped.
func (r *MongoHealthRecordRepository) SearchNotes(ctx context.Context, userID, pattern string, page domain.Page) ([]*domain.HealthRecord, int64, error) {
	filter := bson.M{
		"user_id": userID,
		"note":    bson.M{"$regex": pattern, "$options": "i"},
	}
	return findPage[domain.HealthRecord](ctx, r.collection, filter, page, bson.D{{Key: "created_at", Value: -1}})
}

func (r *MongoHealthRecordRepository) CountAll(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count health records: %w", err)
	}
	return n, nil
}

func (r *MongoHealthRecordRepository) CountByDay(ctx context.Context, from, to time.Time) ([]domain.DailyCount, error) {
	return countByDay(ctx, r.collection, "created_at", from, to)
}
