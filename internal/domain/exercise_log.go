package domain

import (
	"context"
	"time"
)

// Exercise types
const (
	ExerciseRunning  = "running"
	ExerciseWalking  = "walking"
	ExerciseCycling  = "cycling"
	ExerciseSwimming = "swimming"
	ExerciseGym      = "gym"
	ExerciseYoga     = "yoga"
	ExerciseDancing  = "dancing"
	ExerciseSports   = "sports"
	ExerciseOther    = "other"
)

// ExerciseLog is one workout. Duration in minutes, Distance in km.
type ExerciseLog struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	UserID         string    `bson:"user_id" json:"userId"`
	ExerciseType   string    `bson:"exercise_type" json:"exerciseType"`
	ExerciseName   string    `bson:"exercise_name,omitempty" json:"exerciseName,omitempty"`
	Duration       float64   `bson:"duration" json:"duration"`
	Intensity      string    `bson:"intensity" json:"intensity"`
	CaloriesBurned float64   `bson:"calories_burned" json:"caloriesBurned"`
	Distance       float64   `bson:"distance" json:"distance"`
	ExerciseDate   time.Time `bson:"exercise_date" json:"exerciseDate"`
	Note           string    `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// ExerciseFilter narrows exercise listings
type ExerciseFilter struct {
	Type  string
	Dates DateRange
}

// ExerciseTotals aggregates workouts across all users
type ExerciseTotals struct {
	Records  int64   `bson:"records" json:"totalRecords"`
	Duration float64 `bson:"duration" json:"totalDuration"`
	Calories float64 `bson:"calories" json:"totalCalories"`
	Distance float64 `bson:"distance" json:"totalDistance"`
}

// ExerciseLogRepository defines persistence for workouts
type ExerciseLogRepository interface {
	Create(ctx context.Context, log *ExerciseLog) error
	GetByID(ctx context.Context, userID, id string) (*ExerciseLog, error)
	List(ctx context.Context, userID string, filter ExerciseFilter, page Page) ([]*ExerciseLog, int64, error)
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*ExerciseLog, error)
	Update(ctx context.Context, log *ExerciseLog) error
	Delete(ctx context.Context, userID, id string) error

	Totals(ctx context.Context) (ExerciseTotals, error)
}
