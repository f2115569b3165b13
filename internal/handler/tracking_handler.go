package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/service"
)

// ReminderHandler handles reminder endpoints
type ReminderHandler struct {
	reminders *service.ReminderService
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminders *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

type reminderRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Type        *string `json:"type" validate:"omitempty,oneof=medicine exercise sleep water meal checkup other"`
	Time        *string `json:"time" validate:"omitempty,clock"`
	DaysOfWeek  []int   `json:"daysOfWeek" validate:"omitempty,max=7,dive,min=0,max=6"`
	IsActive    *bool   `json:"isActive"`
}

func (r reminderRequest) input() service.ReminderInput {
	return service.ReminderInput{
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		Time:        r.Time,
		DaysOfWeek:  r.DaysOfWeek,
		IsActive:    r.IsActive,
	}
}

type toggleRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type dueQuery struct {
	Time string `query:"time" json:"time" validate:"required,clock"`
	Day  int    `query:"day" json:"day" validate:"min=0,max=6"`
}

// Create handles POST /api/reminders
func (h *ReminderHandler) Create(c *fiber.Ctx) error {
	var req reminderRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := requireFields(
		requiredField{"title", req.Title != nil},
		requiredField{"time", req.Time != nil},
	); err != nil {
		return respondError(c, err)
	}

	reminder, err := h.reminders.Create(c.UserContext(), userID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusCreated, "Reminder created", reminder)
}

// List handles GET /api/reminders
func (h *ReminderHandler) List(c *fiber.Ctx) error {
	active, err := queryBool(c, "isActive")
	if err != nil {
		return respondError(c, err)
	}

	page := parsePage(c, reminderPageLimit)
	filter := domain.ReminderFilter{IsActive: active, Type: c.Query("type")}
	reminders, total, err := h.reminders.List(c.UserContext(), userID(c), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Reminders", orEmpty(reminders), page, total)
}

// Due handles GET /api/reminders/due?time=HH:MM&day=0..6. Day defaults to today.
func (h *ReminderHandler) Due(c *fiber.Ctx) error {
	q := dueQuery{Day: int(time.Now().Weekday())}
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	if err := validateStruct(&q); err != nil {
		return respondError(c, err)
	}

	reminders, err := h.reminders.Due(c.UserContext(), userID(c), q.Time, q.Day)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Due reminders", orEmpty(reminders))
}

// Get handles GET /api/reminders/:id
func (h *ReminderHandler) Get(c *fiber.Ctx) error {
	reminder, err := h.reminders.Get(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Reminder", reminder)
}

// Update handles PUT /api/reminders/:id
func (h *ReminderHandler) Update(c *fiber.Ctx) error {
	var req reminderRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	reminder, err := h.reminders.Update(c.UserContext(), userID(c), c.Params("id"), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Reminder updated", reminder)
}

// Toggle handles PUT /api/reminders/:id/toggle
func (h *ReminderHandler) Toggle(c *fiber.Ctx) error {
	var req toggleRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	reminder, err := h.reminders.Toggle(c.UserContext(), userID(c), c.Params("id"), *req.IsActive)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Reminder updated", reminder)
}

// Delete handles DELETE /api/reminders/:id
func (h *ReminderHandler) Delete(c *fiber.Ctx) error {
	if err := h.reminders.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Reminder deleted", nil)
}

// GoalHandler handles health goal endpoints
type GoalHandler struct {
	goals *service.HealthGoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goals *service.HealthGoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

type goalRequest struct {
	Title        *string   `json:"title" validate:"omitempty,min=1,max=100"`
	Description  *string   `json:"description" validate:"omitempty,max=500"`
	Type         *string   `json:"type" validate:"omitempty,oneof=weight_loss weight_gain exercise water_intake sleep nutrition other"`
	TargetValue  *float64  `json:"targetValue" validate:"omitempty,gt=0"`
	Unit         *string   `json:"unit" validate:"omitempty,max=20"`
	CurrentValue *float64  `json:"currentValue" validate:"omitempty,min=0"`
	StartDate    *jsonDate `json:"startDate"`
	EndDate      *jsonDate `json:"endDate"`
	Status       *string   `json:"status" validate:"omitempty,oneof=active completed paused cancelled"`
}

func (r goalRequest) input() service.GoalInput {
	return service.GoalInput{
		Title:        r.Title,
		Description:  r.Description,
		Type:         r.Type,
		TargetValue:  r.TargetValue,
		Unit:         r.Unit,
		CurrentValue: r.CurrentValue,
		StartDate:    timeOf(r.StartDate),
		EndDate:      timeOf(r.EndDate),
		Status:       r.Status,
	}
}

type progressRequest struct {
	CurrentValue *float64 `json:"currentValue" validate:"required,min=0"`
}

// Create handles POST /api/health-goals
func (h *GoalHandler) Create(c *fiber.Ctx) error {
	var req goalRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := requireFields(
		requiredField{"title", req.Title != nil},
		requiredField{"targetValue", req.TargetValue != nil},
		requiredField{"unit", req.Unit != nil},
	); err != nil {
		return respondError(c, err)
	}

	goal, err := h.goals.Create(c.UserContext(), userID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusCreated, "Goal created", goal)
}

// List handles GET /api/health-goals
func (h *GoalHandler) List(c *fiber.Ctx) error {
	page := parsePage(c, defaultPageLimit)
	filter := domain.GoalFilter{Status: c.Query("status"), Type: c.Query("type")}
	goals, total, err := h.goals.List(c.UserContext(), userID(c), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Health goals", orEmpty(goals), page, total)
}

// Get handles GET /api/health-goals/:id
func (h *GoalHandler) Get(c *fiber.Ctx) error {
	goal, err := h.goals.Get(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Health goal", goal)
}

// Update handles PUT /api/health-goals/:id
func (h *GoalHandler) Update(c *fiber.Ctx) error {
	var req goalRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	goal, err := h.goals.Update(c.UserContext(), userID(c), c.Params("id"), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Goal updated", goal)
}

// UpdateProgress handles PUT /api/health-goals/:id/progress
func (h *GoalHandler) UpdateProgress(c *fiber.Ctx) error {
	var req progressRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	goal, err := h.goals.UpdateProgress(c.UserContext(), userID(c), c.Params("id"), *req.CurrentValue)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Progress updated", goal)
}

// Delete handles DELETE /api/health-goals/:id
func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	if err := h.goals.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Goal deleted", nil)
}

// WaterHandler handles water intake endpoints
type WaterHandler struct {
	water *service.WaterIntakeService
}

// NewWaterHandler creates a new water intake handler
func NewWaterHandler(water *service.WaterIntakeService) *WaterHandler {
	return &WaterHandler{water: water}
}

type waterRequest struct {
	Amount float64   `json:"amount" validate:"required,gt=0,max=10000"`
	Date   *jsonDate `json:"date"`
	Note   string    `json:"note" validate:"max=200"`
}

// Create handles POST /api/water-intake
func (h *WaterHandler) Create(c *fiber.Ctx) error {
	var req waterRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	intake := &domain.WaterIntake{Amount: req.Amount, Note: req.Note}
	if date := timeOf(req.Date); date != nil {
		intake.Date = *date
	}

	created, err := h.water.Create(c.UserContext(), userID(c), intake)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusCreated, "Water intake logged", created)
}

// List handles GET /api/water-intake
func (h *WaterHandler) List(c *fiber.Ctx) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}

	page := parsePage(c, defaultPageLimit)
	intakes, total, err := h.water.List(c.UserContext(), userID(c), dates, page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Water intake", orEmpty(intakes), page, total)
}

// Daily handles GET /api/water-intake/daily?date=YYYY-MM-DD. Defaults to today.
func (h *WaterHandler) Daily(c *fiber.Ctx) error {
	day, err := parseDate(c, "date")
	if err != nil {
		return respondError(c, err)
	}
	if day == nil {
		now := time.Now().UTC()
		day = &now
	}

	res, err := h.water.Daily(c.UserContext(), userID(c), *day)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Daily water intake", res)
}

// Statistics handles GET /api/water-intake/statistics?period=week|month
func (h *WaterHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.water.Statistics(c.UserContext(), userID(c), c.Query("period"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Water statistics", stats)
}

// Delete handles DELETE /api/water-intake/:id
func (h *WaterHandler) Delete(c *fiber.Ctx) error {
	if err := h.water.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Water intake deleted", nil)
}

// ExerciseHandler handles exercise log endpoints
type ExerciseHandler struct {
	exercises *service.ExerciseLogService
}

// NewExerciseHandler creates a new exercise handler
func NewExerciseHandler(exercises *service.ExerciseLogService) *ExerciseHandler {
	return &ExerciseHandler{exercises: exercises}
}

type exerciseRequest struct {
	ExerciseType   *string   `json:"exerciseType" validate:"omitempty,oneof=running walking cycling swimming gym yoga dancing sports other"`
	ExerciseName   *string   `json:"exerciseName" validate:"omitempty,max=100"`
	Duration       *float64  `json:"duration" validate:"omitempty,min=0"`
	Intensity      *string   `json:"intensity" validate:"omitempty,oneof=low moderate high"`
	CaloriesBurned *float64  `json:"caloriesBurned" validate:"omitempty,min=0"`
	Distance       *float64  `json:"distance" validate:"omitempty,min=0"`
	ExerciseDate   *jsonDate `json:"exerciseDate"`
	Note           *string   `json:"note" validate:"omitempty,max=500"`
}

func (r exerciseRequest) input() service.ExerciseInput {
	return service.ExerciseInput{
		ExerciseType:   r.ExerciseType,
		ExerciseName:   r.ExerciseName,
		Duration:       r.Duration,
		Intensity:      r.Intensity,
		CaloriesBurned: r.CaloriesBurned,
		Distance:       r.Distance,
		ExerciseDate:   timeOf(r.ExerciseDate),
		Note:           r.Note,
	}
}

// Create handles POST /api/exercise-logs
func (h *ExerciseHandler) Create(c *fiber.Ctx) error {
	var req exerciseRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := requireFields(
		requiredField{"exerciseType", req.ExerciseType != nil},
		requiredField{"duration", req.Duration != nil},
	); err != nil {
		return respondError(c, err)
	}

	log, err := h.exercises.Create(c.UserContext(), userID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusCreated, "Exercise logged", log)
}

// List handles GET /api/exercise-logs
func (h *ExerciseHandler) List(c *fiber.Ctx) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}

	page := parsePage(c, defaultPageLimit)
	filter := domain.ExerciseFilter{Type: c.Query("exerciseType"), Dates: dates}
	logs, total, err := h.exercises.List(c.UserContext(), userID(c), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Exercise logs", orEmpty(logs), page, total)
}

// Statistics handles GET /api/exercise-logs/statistics?period=week|month
func (h *ExerciseHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.exercises.Statistics(c.UserContext(), userID(c), c.Query("period"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Exercise statistics", stats)
}

// Get handles GET /api/exercise-logs/:id
func (h *ExerciseHandler) Get(c *fiber.Ctx) error {
	log, err := h.exercises.Get(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Exercise log", log)
}

// Update handles PUT /api/exercise-logs/:id
func (h *ExerciseHandler) Update(c *fiber.Ctx) error {
	var req exerciseRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	log, err := h.exercises.Update(c.UserContext(), userID(c), c.Params("id"), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Exercise log updated", log)
}

// Delete handles DELETE /api/exercise-logs/:id
func (h *ExerciseHandler) Delete(c *fiber.Ctx) error {
	if err := h.exercises.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Exercise log deleted", nil)
}

// SleepHandler handles sleep tracker endpoints
type SleepHandler struct {
	sleep *service.SleepTrackerService
}

// NewSleepHandler creates a new sleep tracker handler
func NewSleepHandler(sleep *service.SleepTrackerService) *SleepHandler {
	return &SleepHandler{sleep: sleep}
}

type sleepRequest struct {
	SleepDate   *jsonDate `json:"sleepDate"`
	Bedtime     *string   `json:"bedtime" validate:"omitempty,clock"`
	WakeTime    *string   `json:"wakeTime" validate:"omitempty,clock"`
	Quality     *string   `json:"quality" validate:"omitempty,oneof=excellent good fair poor"`
	WakeUpCount *int      `json:"wakeUpCount" validate:"omitempty,min=0"`
	Note        *string   `json:"note" validate:"omitempty,max=500"`
}

func (r sleepRequest) input() service.SleepInput {
	return service.SleepInput{
		SleepDate:   timeOf(r.SleepDate),
		Bedtime:     r.Bedtime,
		WakeTime:    r.WakeTime,
		Quality:     r.Quality,
		WakeUpCount: r.WakeUpCount,
		Note:        r.Note,
	}
}

// Create handles POST /api/sleep-tracker
func (h *SleepHandler) Create(c *fiber.Ctx) error {
	var req sleepRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := requireFields(
		requiredField{"bedtime", req.Bedtime != nil},
		requiredField{"wakeTime", req.WakeTime != nil},
	); err != nil {
		return respondError(c, err)
	}

	log, err := h.sleep.Create(c.UserContext(), userID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusCreated, "Sleep logged", log)
}

// List handles GET /api/sleep-tracker
func (h *SleepHandler) List(c *fiber.Ctx) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}

	page := parsePage(c, defaultPageLimit)
	logs, total, err := h.sleep.List(c.UserContext(), userID(c), dates, page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Sleep logs", orEmpty(logs), page, total)
}

// Statistics handles GET /api/sleep-tracker/statistics?period=week|month
func (h *SleepHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.sleep.Statistics(c.UserContext(), userID(c), c.Query("period"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Sleep statistics", stats)
}

// Get handles GET /api/sleep-tracker/:id
func (h *SleepHandler) Get(c *fiber.Ctx) error {
	log, err := h.sleep.Get(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Sleep log", log)
}

// Update handles PUT /api/sleep-tracker/:id
func (h *SleepHandler) Update(c *fiber.Ctx) error {
	var req sleepRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	log, err := h.sleep.Update(c.UserContext(), userID(c), c.Params("id"), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Sleep log updated", log)
}

// Delete handles DELETE /api/sleep-tracker/:id
func (h *SleepHandler) Delete(c *fiber.Ctx) error {
	if err := h.sleep.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Sleep log deleted", nil)
}
