package domain

import (
	"context"
	"time"
)

// Lifestyle captures self-reported habits used as chatbot context
type Lifestyle struct {
	Diet     string `bson:"diet,omitempty" json:"diet,omitempty"`
	Exercise string `bson:"exercise,omitempty" json:"exercise,omitempty"`
	Sleep    string `bson:"sleep,omitempty" json:"sleep,omitempty"`
	Smoking  bool   `bson:"smoking" json:"smoking"`
	Alcohol  bool   `bson:"alcohol" json:"alcohol"`
}

// User is an account holder. PasswordHash never leaves the server.
type User struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"password" json:"-"`
	Age            *int      `bson:"age,omitempty" json:"age,omitempty"`
	Gender         string    `bson:"gender,omitempty" json:"gender,omitempty"`
	Height         *float64  `bson:"height,omitempty" json:"height,omitempty"`
	Weight         *float64  `bson:"weight,omitempty" json:"weight,omitempty"`
	MedicalHistory string    `bson:"medical_history,omitempty" json:"medicalHistory,omitempty"`
	Lifestyle      Lifestyle `bson:"lifestyle" json:"lifestyle"`
	Role           string    `bson:"role" json:"role"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileUpdate lists the profile fields a user may change. Nil fields are left untouched.
type ProfileUpdate struct {
	Name           *string
	Age            *int
	Gender         *string
	Height         *float64
	Weight         *float64
	MedicalHistory *string
	Lifestyle      *Lifestyle
}

// UserRepository defines operations for managing users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page Page) ([]*User, int64, error)

	// Admin aggregates
	CountSignupsByDay(ctx context.Context, from, to time.Time) ([]DailyCount, error)
}

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Gender values accepted on profiles
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)
