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

// MongoDoctorRepository implements domain.DoctorRepository
type MongoDoctorRepository struct {
	collection *mongo.Collection
}

func NewMongoDoctorRepository(db *mongo.Database) *MongoDoctorRepository {
	coll := db.Collection("doctors")

	createIndexes(coll,
		mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "name", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "specialty", Value: 1}}},
	)

	return &MongoDoctorRepository{collection: coll}
}

func (r *MongoDoctorRepository) Create(ctx context.Context, doctor *domain.Doctor) error {
	doctor.ID = ""
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt
	if doctor.Status == "" {
		doctor.Status = domain.DoctorAvailable
	}
	if doctor.AvailableSlots == nil {
		doctor.AvailableSlots = []string{}
	}

	result, err := r.collection.InsertOne(ctx, doctor)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	doctor.ID = insertedHex(result)
	return nil
}

func (r *MongoDoctorRepository) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[domain.Doctor](ctx, r.collection, bson.M{"_id": oid})
}

func (r *MongoDoctorRepository) List(ctx context.Context, filter domain.DoctorFilter, page domain.Page) ([]*domain.Doctor, int64, error) {
	query := bson.M{}
	if filter.Specialty != "" {
		query["specialty"] = filter.Specialty
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return findPage[domain.Doctor](ctx, r.collection, query, page, bson.D{{Key: "created_at", Value: -1}})
}

// ListAvailable returns every available doctor ordered by name
func (r *MongoDoctorRepository) ListAvailable(ctx context.Context) ([]*domain.Doctor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll[domain.Doctor](ctx, r.collection, bson.M{"status": domain.DoctorAvailable}, opts)
}

func (r *MongoDoctorRepository) Update(ctx context.Context, doctor *domain.Doctor) error {
	oid, err := objectID(doctor.ID)
	if err != nil {
		return err
	}
	doctor.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":            doctor.Name,
			"specialty":       doctor.Specialty,
			"qualification":   doctor.Qualification,
			"image":           doctor.Image,
			"available_slots": doctor.AvailableSlots,
			"status":          doctor.Status,
			"updated_at":      doctor.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoDoctorRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.collection, bson.M{"_id": oid})
}
