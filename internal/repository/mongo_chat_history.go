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

// MongoChatHistoryRepository implements domain.ChatHistoryRepository
type MongoChatHistoryRepository struct {
	collection *mongo.Collection
}

func NewMongoChatHistoryRepository(db *mongo.Database) *MongoChatHistoryRepository {
	coll := db.Collection("chat_histories")

	createIndexes(coll,
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: 1}}},
	)

	return &MongoChatHistoryRepository{collection: coll}
}

func (r *MongoChatHistoryRepository) Create(ctx context.Context, chat *domain.ChatHistory) error {
	chat.ID = ""
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}
	if chat.DetectedKeywords == nil {
		chat.DetectedKeywords = []string{}
	}

	result, err := r.collection.InsertOne(ctx, chat)
	if err != nil {
		return fmt.Errorf("failed to create chat history: %w", err)
	}
	chat.ID = insertedHex(result)
	return nil
}

// Recent returns the user's last n chats, newest first
func (r *MongoChatHistoryRepository) Recent(ctx context.Context, userID string, n int) ([]*domain.ChatHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(n))
	return findAll[domain.ChatHistory](ctx, r.collection, bson.M{"user_id": userID}, opts)
}

func (r *MongoChatHistoryRepository) List(ctx context.Context, userID string, page domain.Page) ([]*domain.ChatHistory, int64, error) {
	return findPage[domain.ChatHistory](ctx, r.collection, bson.M{"user_id": userID}, page, bson.D{{Key: "created_at", Value: -1}})
}

func (r *MongoChatHistoryRepository) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*domain.ChatHistory, error) {
	filter := bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": from, "$lte": to},
	}
	return findAll[domain.ChatHistory](ctx, r.collection, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

// Search matches an escaped pattern against question and answer, and
// optionally detected keywords
func (r *MongoChatHistoryRepository) Search(ctx context.Context, userID string, search domain.ChatSearch, page domain.Page) ([]*domain.ChatHistory, int64, error) {
	regex := bson.M{"$regex": search.Pattern, "$options": "i"}
	or := bson.A{
		bson.M{"question": regex},
		bson.M{"answer": regex},
	}
	if search.IncludeKeywords {
		or = append(or, bson.M{"detected_keywords": regex})
	}

	filter := bson.M{"user_id": userID, "$or": or}
	return findPage[domain.ChatHistory](ctx, r.collection, filter, page, bson.D{{Key: "created_at", Value: -1}})
}

func (r *MongoChatHistoryRepository) Rate(ctx context.Context, userID, id string, rating int) (*domain.ChatHistory, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return nil, err
	}

	var chat domain.ChatHistory
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"rating": rating}}, opts).Decode(&chat); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to rate chat: %w", err)
	}
	return &chat, nil
}

func (r *MongoChatHistoryRepository) Delete(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.collection, filter)
}

func (r *MongoChatHistoryRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to clear chat history: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *MongoChatHistoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count chats: %w", err)
	}
	return n, nil
}

func (r *MongoChatHistoryRepository) CountAll(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count chats: %w", err)
	}
	return n, nil
}

func (r *MongoChatHistoryRepository) CountByDay(ctx context.Context, from, to time.Time) ([]domain.DailyCount, error) {
	return countByDay(ctx, r.collection, "created_at", from, to)
}
