package domain

import (
	"context"
	"time"
)

// WaterIntake is one drink, Amount in millilitres
type WaterIntake struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Date      time.Time `bson:"date" json:"date"`
	Amount    float64   `bson:"amount" json:"amount"`
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// WaterTotals aggregates intake across all users
type WaterTotals struct {
	Records int64   `bson:"records" json:"totalRecords"`
	Amount  float64 `bson:"amount" json:"totalAmount"`
}

// WaterIntakeRepository defines persistence for water intake
type WaterIntakeRepository interface {
	Create(ctx context.Context, intake *WaterIntake) error
	List(ctx context.Context, userID string, dates DateRange, page Page) ([]*WaterIntake, int64, error)
	// ListBetween returns intakes dated within [from, to], oldest first
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*WaterIntake, error)
	Delete(ctx context.Context, userID, id string) error

	Totals(ctx context.Context) (WaterTotals, error)
}
