package domain

import (
	"context"
	"time"
)

// Chat categories
const (
	CategoryGeneral   = "general"
	CategoryStress    = "stress"
	CategorySleep     = "sleep"
	CategoryNutrition = "nutrition"
	CategoryExercise  = "exercise"
	CategoryDisease   = "disease"
	CategoryOther     = "other"
)

// ChatHistory is one question/answer turn with the health chatbot
type ChatHistory struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	UserID           string    `bson:"user_id" json:"userId"`
	Question         string    `bson:"question" json:"question"`
	Answer           string    `bson:"answer" json:"answer"`
	Category         string    `bson:"category" json:"category"`
	DetectedKeywords []string  `bson:"detected_keywords" json:"detectedKeywords"`
	Rating           *int      `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
}

// ChatSearch selects chats whose text matches Pattern (case-insensitive regex)
type ChatSearch struct {
	Pattern         string
	IncludeKeywords bool
}

// ChatHistoryRepository defines persistence for chatbot turns
type ChatHistoryRepository interface {
	Create(ctx context.Context, chat *ChatHistory) error
	// Recent returns up to n turns, newest first
	Recent(ctx context.Context, userID string, n int) ([]*ChatHistory, error)
	List(ctx context.Context, userID string, page Page) ([]*ChatHistory, int64, error)
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*ChatHistory, error)
	Search(ctx context.Context, userID string, search ChatSearch, page Page) ([]*ChatHistory, int64, error)
	Rate(ctx context.Context, userID, id string, rating int) (*ChatHistory, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)

	// Admin aggregates
	CountAll(ctx context.Context) (int64, error)
	CountByDay(ctx context.Context, from, to time.Time) ([]DailyCount, error)
}
