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

// MongoUserRepository implements domain.UserRepository
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	coll := db.Collection("users")

	createIndexes(coll,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}},
	)

	return &MongoUserRepository{
		collection: coll,
	}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = ""
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = insertedHex(result)
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[domain.User](ctx, r.collection, bson.M{"_id": oid})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.collection, bson.M{"email": email})
}

// UpdateProfile sets only the fields present in update and returns the new document
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Age != nil {
		set["age"] = *update.Age
	}
	if update.Gender != nil {
		set["gender"] = *update.Gender
	}
	if update.Height != nil {
		set["height"] = *update.Height
	}
	if update.Weight != nil {
		set["weight"] = *update.Weight
	}
	if update.MedicalHistory != nil {
		set["medical_history"] = *update.MedicalHistory
	}
	if update.Lifestyle != nil {
		set["lifestyle"] = *update.Lifestyle
	}

	var user domain.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return r.setFields(ctx, id, bson.M{"password": passwordHash})
}

func (r *MongoUserRepository) UpdateRole(ctx context.Context, id string, role string) error {
	return r.setFields(ctx, id, bson.M{"role": role})
}

func (r *MongoUserRepository) setFields(ctx context.Context, id string, set bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	set["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.collection, bson.M{"_id": oid})
}

func (r *MongoUserRepository) List(ctx context.Context, page domain.Page) ([]*domain.User, int64, error) {
	return findPage[domain.User](ctx, r.collection, bson.M{}, page, bson.D{{Key: "created_at", Value: -1}})
}

func (r *MongoUserRepository) CountSignupsByDay(ctx context.Context, from, to time.Time) ([]domain.DailyCount, error) {
	return countByDay(ctx, r.collection, "created_at", from, to)
}
