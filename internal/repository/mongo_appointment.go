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

// MongoAppointmentRepository implements domain.AppointmentRepository
type MongoAppointmentRepository struct {
	collection *mongo.Collection
}

func NewMongoAppointmentRepository(db *mongo.Database) *MongoAppointmentRepository {
	coll := db.Collection("appointments")

	createIndexes(coll,
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "appointment_date", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "status", Value: 1}}},
	)

	return &MongoAppointmentRepository{collection: coll}
}

func (r *MongoAppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	appt.ID = ""
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt

	result, err := r.collection.InsertOne(ctx, appt)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	appt.ID = insertedHex(result)
	return nil
}

// GetByID loads an appointment. An empty userID skips the ownership check.
func (r *MongoAppointmentRepository) GetByID(ctx context.Context, userID, id string) (*domain.Appointment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if userID != "" {
		filter["user_id"] = userID
	}
	return findOne[domain.Appointment](ctx, r.collection, filter)
}

func (r *MongoAppointmentRepository) List(ctx context.Context, filter domain.AppointmentFilter, page domain.Page) ([]*domain.Appointment, int64, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.DoctorID != "" {
		query["doctor_id"] = filter.DoctorID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return findPage[domain.Appointment](ctx, r.collection, query, page, bson.D{{Key: "appointment_date", Value: -1}})
}

func (r *MongoAppointmentRepository) UpdateStatus(ctx context.Context, id, status, adminNote string) (*domain.Appointment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"status": status, "updated_at": time.Now()}
	if adminNote != "" {
		set["admin_note"] = adminNote
	}
	return r.findAndSet(ctx, bson.M{"_id": oid}, set)
}

// CancelPending cancels only while the appointment is still pending.
// ErrNotFound means no pending appointment matched.
func (r *MongoAppointmentRepository) CancelPending(ctx context.Context, userID, id string) (*domain.Appointment, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return nil, err
	}
	filter["status"] = domain.AppointmentPending

	return r.findAndSet(ctx, filter, bson.M{"status": domain.AppointmentCancelled, "updated_at": time.Now()})
}

func (r *MongoAppointmentRepository) findAndSet(ctx context.Context, filter, set bson.M) (*domain.Appointment, error) {
	var appt domain.Appointment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return &appt, nil
}
