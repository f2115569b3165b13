package domain

import (
	"context"
	"time"
)

// Reminder types
const (
	ReminderMedicine = "medicine"
	ReminderExercise = "exercise"
	ReminderSleep    = "sleep"
	ReminderWater    = "water"
	ReminderMeal     = "meal"
	ReminderCheckup  = "checkup"
	ReminderOther    = "other"
)

// Reminder fires at Time (HH:MM) on DaysOfWeek (0=Sunday). An empty
// DaysOfWeek means every day.
type Reminder struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	UserID      string    `bson:"user_id" json:"userId"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Type        string    `bson:"type" json:"type"`
	Time        string    `bson:"time" json:"time"`
	DaysOfWeek  []int     `bson:"days_of_week" json:"daysOfWeek"`
	IsActive    bool      `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// ReminderFilter narrows reminder listings
type ReminderFilter struct {
	IsActive *bool
	Type     string
}

// ReminderRepository defines persistence for reminders
type ReminderRepository interface {
	Create(ctx context.Context, reminder *Reminder) error
	GetByID(ctx context.Context, userID, id string) (*Reminder, error)
	List(ctx context.Context, userID string, filter ReminderFilter, page Page) ([]*Reminder, int64, error)
	Update(ctx context.Context, reminder *Reminder) error
	SetActive(ctx context.Context, userID, id string, active bool) (*Reminder, error)
	Delete(ctx context.Context, userID, id string) error
	// DueAt returns active reminders at hhmm whose days include day or are empty
	DueAt(ctx context.Context, userID, hhmm string, day int) ([]*Reminder, error)

	CountActive(ctx context.Context) (int64, error)
}
