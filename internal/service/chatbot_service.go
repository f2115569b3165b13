package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/health"
	"github.com/healthmate/healthmate-api/internal/infrastructure/advisor"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// historyContext is how many previous turns are sent with each question
const historyContext = 5

const systemPrompt = `You are a friendly, professional health advice assistant.
- Answer health questions accurately and helpfully.
- Give practical advice on healthy lifestyle, nutrition, exercise, sleep and stress.
- Remind the user to see a doctor when a problem sounds serious.
- Keep answers short and easy to understand, using lists where they help.
- Never give a medical diagnosis; offer general guidance only.`

// AdviceClient produces an answer for a prompt
type AdviceClient interface {
	Complete(ctx context.Context, messages []advisor.Message) (string, error)
}

// ChatAnswer is the response to an ask
type ChatAnswer struct {
	ID               string    `json:"id"`
	Question         string    `json:"question"`
	Answer           string    `json:"answer"`
	Category         string    `json:"category"`
	DetectedKeywords []string  `json:"detectedKeywords"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ChatbotService answers health questions and manages chat history
type ChatbotService struct {
	chatRepo   domain.ChatHistoryRepository
	userRepo   domain.UserRepository
	recordRepo domain.HealthRecordRepository
	ai         AdviceClient
	limiter    *userLimiter
	logger     *zap.Logger
}

// NewChatbotService creates a new chatbot service. A nil ai client makes
// every ask fail with domain.ErrAIMisconfigured. ratePerMinute <= 0 disables
// per-user limiting.
func NewChatbotService(
	chatRepo domain.ChatHistoryRepository,
	userRepo domain.UserRepository,
	recordRepo domain.HealthRecordRepository,
	ai AdviceClient,
	ratePerMinute int,
	logger *zap.Logger,
) *ChatbotService {
	return &ChatbotService{
		chatRepo:   chatRepo,
		userRepo:   userRepo,
		recordRepo: recordRepo,
		ai:         ai,
		limiter:    newUserLimiter(ratePerMinute),
		logger:     logger,
	}
}

// Ask answers a question using the user's recent turns, profile and latest
// vitals as context, then stores the turn.
func (s *ChatbotService) Ask(ctx context.Context, userID, question string) (*ChatAnswer, error) {
	if s.ai == nil {
		return nil, domain.ErrAIMisconfigured
	}
	if !s.limiter.allow(userID) {
		return nil, domain.ErrAIRateLimited
	}

	recent, err := s.chatRepo.Recent(ctx, userID, historyContext)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	latest, err := s.recordRepo.GetLatest(ctx, userID)
	if err != nil {
		return nil, err
	}

	answer, err := s.ai.Complete(ctx, buildPrompt(question, recent, user, latest))
	if err != nil {
		return nil, err
	}

	chat := &domain.ChatHistory{
		UserID:           userID,
		Question:         question,
		Answer:           answer,
		Category:         DetectCategory(question),
		DetectedKeywords: DetectKeywords(question),
	}
	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}

	s.logger.Debug("chat answered",
		zap.String("user_id", userID),
		zap.String("category", chat.Category),
	)

	return &ChatAnswer{
		ID:               chat.ID,
		Question:         chat.Question,
		Answer:           chat.Answer,
		Category:         chat.Category,
		DetectedKeywords: chat.DetectedKeywords,
		CreatedAt:        chat.CreatedAt,
	}, nil
}

func (s *ChatbotService) History(ctx context.Context, userID string, page domain.Page) ([]*domain.ChatHistory, int64, error) {
	return s.chatRepo.List(ctx, userID, page)
}

func (s *ChatbotService) Rate(ctx context.Context, userID, id string, rating int) (*domain.ChatHistory, error) {
	return s.chatRepo.Rate(ctx, userID, id, rating)
}

func (s *ChatbotService) Delete(ctx context.Context, userID, id string) error {
	return s.chatRepo.Delete(ctx, userID, id)
}

// ClearHistory deletes every turn of the user and returns how many were removed
func (s *ChatbotService) ClearHistory(ctx context.Context, userID string) (int64, error) {
	return s.chatRepo.DeleteAllByUser(ctx, userID)
}

// buildPrompt assembles system instructions, the user's health context and
// previous turns (oldest first) followed by the new question.
func buildPrompt(question string, recent []*domain.ChatHistory, user *domain.User, latest *domain.HealthRecord) []advisor.Message {
	messages := []advisor.Message{{Role: advisor.RoleSystem, Content: systemPrompt}}

	if profile := describeUser(user, latest); profile != "" {
		messages = append(messages, advisor.Message{
			Role:    advisor.RoleSystem,
			Content: "What is known about the user:\n" + profile,
		})
	}

	for i := len(recent) - 1; i >= 0; i-- {
		messages = append(messages,
			advisor.Message{Role: advisor.RoleUser, Content: recent[i].Question},
			advisor.Message{Role: advisor.RoleAssistant, Content: recent[i].Answer},
		)
	}

	return append(messages, advisor.Message{Role: advisor.RoleUser, Content: question})
}

// describeUser renders profile and latest vitals as "- key: value" lines.
// Record height and weight take precedence over the profile.
func describeUser(user *domain.User, latest *domain.HealthRecord) string {
	var b strings.Builder
	line := func(key string, value interface{}) {
		fmt.Fprintf(&b, "- %s: %v\n", key, value)
	}

	var height, weight *float64
	if user != nil {
		if user.Name != "" {
			line("name", user.Name)
		}
		if user.Age != nil {
			line("age", *user.Age)
		}
		if user.Gender != "" {
			line("gender", user.Gender)
		}
		if user.MedicalHistory != "" {
			line("medical history", user.MedicalHistory)
		}
		if ls := user.Lifestyle; ls.Diet != "" || ls.Exercise != "" || ls.Sleep != "" || ls.Smoking || ls.Alcohol {
			line("lifestyle", fmt.Sprintf("diet=%q exercise=%q sleep=%q smoking=%t alcohol=%t",
				ls.Diet, ls.Exercise, ls.Sleep, ls.Smoking, ls.Alcohol))
		}
		height, weight = user.Height, user.Weight
	}

	if latest != nil {
		if latest.Height != nil && *latest.Height > 0 {
			height = latest.Height
		}
		if latest.Weight != nil && *latest.Weight > 0 {
			weight = latest.Weight
		}
		if bp := latest.BloodPressure; bp != nil {
			line("blood pressure", fmt.Sprintf("%g/%g mmHg", bp.Systolic, bp.Diastolic))
		}
		if latest.HeartRate != nil {
			line("heart rate", fmt.Sprintf("%g bpm", *latest.HeartRate))
		}
		if latest.BloodSugar != nil {
			line("blood sugar", *latest.BloodSugar)
		}
		if latest.Temperature != nil {
			line("temperature", *latest.Temperature)
		}
		line("last measured", latest.CreatedAt.Format("2006-01-02"))
	}

	if height != nil {
		line("height", fmt.Sprintf("%g cm", *height))
	}
	if weight != nil {
		line("weight", fmt.Sprintf("%g kg", *weight))
	}
	if bmi, ok := health.ComputeBMI(weight, height); ok {
		line("bmi", health.Round(bmi, 1))
	}

	return b.String()
}

// userLimiter hands each user a token bucket refilled at perMinute
type userLimiter struct {
	mu        sync.Mutex
	perMinute int
	limiters  map[string]*rate.Limiter
}

func newUserLimiter(perMinute int) *userLimiter {
	return &userLimiter{perMinute: perMinute, limiters: make(map[string]*rate.Limiter)}
}

func (l *userLimiter) allow(userID string) bool {
	if l.perMinute <= 0 {
		return true
	}

	l.mu.Lock()
	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)
		l.limiters[userID] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}
