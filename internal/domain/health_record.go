package domain

import (
	"context"
	"encoding/json"
	"math"
	"time"
)

// BloodPressure is one systolic/diastolic reading in mmHg
type BloodPressure struct {
	Systolic  float64 `bson:"systolic" json:"systolic"`
	Diastolic float64 `bson:"diastolic" json:"diastolic"`
}

// HealthRecord is one vitals snapshot. Every measurement is optional;
// a nil field means it was not taken.
type HealthRecord struct {
	ID            string         `bson:"_id,omitempty" json:"id"`
	UserID        string         `bson:"user_id" json:"userId"`
	Height        *float64       `bson:"height,omitempty" json:"height,omitempty"`
	Weight        *float64       `bson:"weight,omitempty" json:"weight,omitempty"`
	BloodPressure *BloodPressure `bson:"blood_pressure,omitempty" json:"bloodPressure,omitempty"`
	HeartRate     *float64       `bson:"heart_rate,omitempty" json:"heartRate,omitempty"`
	BloodSugar    *float64       `bson:"blood_sugar,omitempty" json:"bloodSugar,omitempty"`
	Temperature   *float64       `bson:"temperature,omitempty" json:"temperature,omitempty"`
	Note          string         `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt     time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updated_at" json:"updatedAt"`
}

// MarshalJSON adds the derived bmi, rounded to one decimal, when both
// height and weight are present. It is never stored.
func (r HealthRecord) MarshalJSON() ([]byte, error) {
	type plain HealthRecord
	out := struct {
		plain
		BMI *float64 `json:"bmi,omitempty"`
	}{plain: plain(r)}

	if raw, ok := BMIOf(r.Weight, r.Height); ok {
		bmi := math.Round(raw*10) / 10
		out.BMI = &bmi
	}
	return json.Marshal(out)
}

// BMIOf returns the unrounded weight(kg) / (height(cm)/100)^2. ok is false
// when either input is missing or zero.
func BMIOf(weight, height *float64) (bmi float64, ok bool) {
	if weight == nil || height == nil || *weight == 0 || *height == 0 {
		return 0, false
	}
	meters := *height / 100
	return *weight / (meters * meters), true
}

// HealthRecordRepository defines persistence for vitals snapshots.
// Every lookup is scoped to the owning user.
type HealthRecordRepository interface {
	Create(ctx context.Context, record *HealthRecord) error
	GetByID(ctx context.Context, userID, id string) (*HealthRecord, error)
	// GetLatest returns nil, nil when the user has no records
	GetLatest(ctx context.Context, userID string) (*HealthRecord, error)
	List(ctx context.Context, userID string, dates DateRange, page Page) ([]*HealthRecord, int64, error)
	// ListBetween returns records created within [from, to], oldest first
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*HealthRecord, error)
	Update(ctx context.Context, record *HealthRecord) error
	Delete(ctx context.Context, userID, id string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	SearchNotes(ctx context.Context, userID, pattern string, page Page) ([]*HealthRecord, int64, error)

	// Admin aggregates
	CountAll(ctx context.Context) (int64, error)
	CountByDay(ctx context.Context, from, to time.Time) ([]DailyCount, error)
}
