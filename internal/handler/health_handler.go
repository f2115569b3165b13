package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/service"
)

// HealthRecordHandler handles vitals endpoints
type HealthRecordHandler struct {
	records *service.HealthRecordService
}

// NewHealthRecordHandler creates a new health record handler
func NewHealthRecordHandler(records *service.HealthRecordService) *HealthRecordHandler {
	return &HealthRecordHandler{records: records}
}

type bloodPressureRequest struct {
	Systolic  float64 `json:"systolic" validate:"min=0"`
	Diastolic float64 `json:"diastolic" validate:"min=0"`
}

type healthRecordRequest struct {
	Height        *float64              `json:"height" validate:"omitempty,min=0,max=300"`
	Weight        *float64              `json:"weight" validate:"omitempty,min=0,max=500"`
	BloodPressure *bloodPressureRequest `json:"bloodPressure"`
	HeartRate     *float64              `json:"heartRate" validate:"omitempty,min=0,max=300"`
	BloodSugar    *float64              `json:"bloodSugar" validate:"omitempty,min=0"`
	Temperature   *float64              `json:"temperature" validate:"omitempty,min=30,max=45"`
	Note          *string               `json:"note" validate:"omitempty,max=500"`
}

func (r healthRecordRequest) input() service.HealthRecordInput {
	in := service.HealthRecordInput{
		Height:      r.Height,
		Weight:      r.Weight,
		HeartRate:   r.HeartRate,
		BloodSugar:  r.BloodSugar,
		Temperature: r.Temperature,
		Note:        r.Note,
	}
	if bp := r.BloodPressure; bp != nil {
		in.BloodPressure = &domain.BloodPressure{Systolic: bp.Systolic, Diastolic: bp.Diastolic}
	}
	return in
}

// Create handles POST /api/health-records
func (h *HealthRecordHandler) Create(c *fiber.Ctx) error {
	var req healthRecordRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	res, err := h.records.Create(c.UserContext(), userID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusCreated, "Health record created", res)
}

// List handles GET /api/health-records
func (h *HealthRecordHandler) List(c *fiber.Ctx) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}

	page := parsePage(c, defaultPageLimit)
	records, total, err := h.records.List(c.UserContext(), userID(c), dates, page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Health records", orEmpty(records), page, total)
}

// Latest handles GET /api/health-records/latest. Data is null when the user
// has no records yet.
func (h *HealthRecordHandler) Latest(c *fiber.Ctx) error {
	res, err := h.records.Latest(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	if res == nil {
		return success(c, fiber.StatusOK, "No health records yet", nil)
	}
	return success(c, fiber.StatusOK, "Latest health record", res)
}

// Get handles GET /api/health-records/:id
func (h *HealthRecordHandler) Get(c *fiber.Ctx) error {
	res, err := h.records.Get(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Health record", res)
}

// Update handles PUT /api/health-records/:id
func (h *HealthRecordHandler) Update(c *fiber.Ctx) error {
	var req healthRecordRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	res, err := h.records.Update(c.UserContext(), userID(c), c.Params("id"), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Health record updated", res)
}

// Delete handles DELETE /api/health-records/:id
func (h *HealthRecordHandler) Delete(c *fiber.Ctx) error {
	if err := h.records.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Health record deleted", nil)
}

// ChatbotHandler handles the Q&A assistant
type ChatbotHandler struct {
	chatbot *service.ChatbotService
}

// NewChatbotHandler creates a new chatbot handler
func NewChatbotHandler(chatbot *service.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{chatbot: chatbot}
}

type askRequest struct {
	Question string `json:"question" validate:"required,min=1,max=1000"`
}

type rateRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// Ask handles POST /api/chatbot/ask
func (h *ChatbotHandler) Ask(c *fiber.Ctx) error {
	var req askRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	answer, err := h.chatbot.Ask(c.UserContext(), userID(c), req.Question)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Answer ready", answer)
}

// History handles GET /api/chatbot/history
func (h *ChatbotHandler) History(c *fiber.Ctx) error {
	page := parsePage(c, chatHistoryPageLimit)
	chats, total, err := h.chatbot.History(c.UserContext(), userID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Chat history", orEmpty(chats), page, total)
}

// Rate handles PUT /api/chatbot/:id/rate
func (h *ChatbotHandler) Rate(c *fiber.Ctx) error {
	var req rateRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	chat, err := h.chatbot.Rate(c.UserContext(), userID(c), c.Params("id"), req.Rating)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Thanks for the feedback", chat)
}

// Delete handles DELETE /api/chatbot/:id
func (h *ChatbotHandler) Delete(c *fiber.Ctx) error {
	if err := h.chatbot.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Chat deleted", nil)
}

// ClearHistory handles DELETE /api/chatbot/history/clear
func (h *ChatbotHandler) ClearHistory(c *fiber.Ctx) error {
	deleted, err := h.chatbot.ClearHistory(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Chat history cleared", fiber.Map{"deletedCount": deleted})
}
