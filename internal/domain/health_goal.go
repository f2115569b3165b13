package domain

import (
	"context"
	"time"
)

// Goal types
const (
	GoalWeightLoss  = "weight_loss"
	GoalWeightGain  = "weight_gain"
	GoalExercise    = "exercise"
	GoalWaterIntake = "water_intake"
	GoalSleep       = "sleep"
	GoalNutrition   = "nutrition"
	GoalOther       = "other"
)

// Goal statuses
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
	GoalPaused    = "paused"
	GoalCancelled = "cancelled"
)

// HealthGoal tracks progress toward a numeric target
type HealthGoal struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	UserID       string     `bson:"user_id" json:"userId"`
	Title        string     `bson:"title" json:"title"`
	Description  string     `bson:"description,omitempty" json:"description,omitempty"`
	Type         string     `bson:"type" json:"type"`
	TargetValue  float64    `bson:"target_value" json:"targetValue"`
	Unit         string     `bson:"unit" json:"unit"`
	CurrentValue float64    `bson:"current_value" json:"currentValue"`
	StartDate    time.Time  `bson:"start_date" json:"startDate"`
	EndDate      *time.Time `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Status       string     `bson:"status" json:"status"`
	Progress     float64    `bson:"progress" json:"progress"`
	CreatedAt    time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updatedAt"`
}

// GoalFilter narrows goal listings
type GoalFilter struct {
	Status string
	Type   string
}

// GoalCounts summarises goals across all users
type GoalCounts struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
}

// HealthGoalRepository defines persistence for goals
type HealthGoalRepository interface {
	Create(ctx context.Context, goal *HealthGoal) error
	GetByID(ctx context.Context, userID, id string) (*HealthGoal, error)
	List(ctx context.Context, userID string, filter GoalFilter, page Page) ([]*HealthGoal, int64, error)
	Update(ctx context.Context, goal *HealthGoal) error
	Delete(ctx context.Context, userID, id string) error

	Counts(ctx context.Context) (GoalCounts, error)
}
