package domain

import (
	"context"
	"time"
)

// Doctor statuses
const (
	DoctorAvailable = "available"
	DoctorBusy      = "busy"
)

// Doctor is a bookable practitioner. AvailableSlots hold "HH:MM-HH:MM" ranges.
type Doctor struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Specialty      string    `bson:"specialty" json:"specialty"`
	Qualification  string    `bson:"qualification,omitempty" json:"qualification,omitempty"`
	Image          string    `bson:"image,omitempty" json:"image,omitempty"`
	AvailableSlots []string  `bson:"available_slots" json:"availableSlots"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// DoctorFilter narrows doctor listings
type DoctorFilter struct {
	Specialty string
	Status    string
}

// DoctorRepository defines persistence for doctors
type DoctorRepository interface {
	Create(ctx context.Context, doctor *Doctor) error
	GetByID(ctx context.Context, id string) (*Doctor, error)
	List(ctx context.Context, filter DoctorFilter, page Page) ([]*Doctor, int64, error)
	// ListAvailable returns doctors with status available, sorted by name
	ListAvailable(ctx context.Context) ([]*Doctor, error)
	Update(ctx context.Context, doctor *Doctor) error
	Delete(ctx context.Context, id string) error
}
