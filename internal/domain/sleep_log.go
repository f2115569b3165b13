package domain

import (
	"context"
	"time"
)

// Sleep quality buckets
const (
	SleepExcellent = "excellent"
	SleepGood      = "good"
	SleepFair      = "fair"
	SleepPoor      = "poor"
)

// SleepLog is one night. Bedtime and WakeTime are HH:MM wall-clock strings;
// TotalSleepMinutes is derived from them on every save.
type SleepLog struct {
	ID                string    `bson:"_id,omitempty" json:"id"`
	UserID            string    `bson:"user_id" json:"userId"`
	SleepDate         time.Time `bson:"sleep_date" json:"sleepDate"`
	Bedtime           string    `bson:"bedtime" json:"bedtime"`
	WakeTime          string    `bson:"wake_time" json:"wakeTime"`
	TotalSleepMinutes int       `bson:"total_sleep_minutes" json:"totalSleepMinutes"`
	Quality           string    `bson:"quality" json:"quality"`
	WakeUpCount       int       `bson:"wake_up_count" json:"wakeUpCount"`
	Note              string    `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt         time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updatedAt"`
}

// SleepTotals aggregates nights across all users
type SleepTotals struct {
	Records        int64   `bson:"records" json:"totalRecords"`
	AverageMinutes float64 `bson:"average_minutes" json:"averageMinutes"`
}

// SleepLogRepository defines persistence for sleep nights
type SleepLogRepository interface {
	Create(ctx context.Context, log *SleepLog) error
	GetByID(ctx context.Context, userID, id string) (*SleepLog, error)
	List(ctx context.Context, userID string, dates DateRange, page Page) ([]*SleepLog, int64, error)
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*SleepLog, error)
	Update(ctx context.Context, log *SleepLog) error
	Delete(ctx context.Context, userID, id string) error

	Totals(ctx context.Context) (SleepTotals, error)
}
