package domain

import (
	"context"
	"time"
)

// Appointment statuses
const (
	AppointmentPending   = "pending"
	AppointmentApproved  = "approved"
	AppointmentRejected  = "rejected"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booking request from a user for a doctor
type Appointment struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	UserID          string    `bson:"user_id" json:"userId"`
	DoctorID        string    `bson:"doctor_id" json:"doctorId"`
	AppointmentDate time.Time `bson:"appointment_date" json:"appointmentDate"`
	AppointmentTime string    `bson:"appointment_time" json:"appointmentTime"`
	PatientName     string    `bson:"patient_name" json:"patientName"`
	PhoneNumber     string    `bson:"phone_number" json:"phoneNumber"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	Status          string    `bson:"status" json:"status"`
	AdminNote       string    `bson:"admin_note,omitempty" json:"adminNote,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`

	// Populated on reads, not stored
	Doctor *Doctor `bson:"-" json:"doctor,omitempty"`
}

// AppointmentFilter narrows appointment listings. An empty UserID lists all users.
type AppointmentFilter struct {
	UserID   string
	DoctorID string
	Status   string
}

// AdminSettableStatuses are the statuses an admin may move an appointment to
var AdminSettableStatuses = []string{
	AppointmentApproved,
	AppointmentRejected,
	AppointmentCompleted,
	AppointmentCancelled,
}

// AppointmentRepository defines persistence for appointments
type AppointmentRepository interface {
	Create(ctx context.Context, appt *Appointment) error
	// GetByID scopes to userID unless it is empty
	GetByID(ctx context.Context, userID, id string) (*Appointment, error)
	List(ctx context.Context, filter AppointmentFilter, page Page) ([]*Appointment, int64, error)
	UpdateStatus(ctx context.Context, id, status, adminNote string) (*Appointment, error)
	// CancelPending flips a pending appointment owned by userID to cancelled.
	// It returns ErrNotFound when no pending appointment matches.
	CancelPending(ctx context.Context, userID, id string) (*Appointment, error)
}
