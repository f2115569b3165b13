package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/healthmate/healthmate-api/internal/config"
	"github.com/healthmate/healthmate-api/internal/infrastructure/advisor"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type cannedAdvisor struct {
	answer string
	calls  int
}

func (a *cannedAdvisor) Complete(_ context.Context, _ []advisor.Message) (string, error) {
	a.calls++
	return a.answer, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.MaxBodySizeMB = 10
	cfg.Server.CORSOrigins = "*"
	cfg.JWT.Secret = "test-secret-key-123"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.AI.RatePerMinute = 10
	return cfg
}

// envelope is the decoded response body
type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		CurrentPage  int   `json:"currentPage"`
		TotalPages   int   `json:"totalPages"`
		TotalItems   int64 `json:"totalItems"`
		ItemsPerPage int   `json:"itemsPerPage"`
	} `json:"pagination"`
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func (c client) do(method, path, token string, body interface{}, headers ...string) (*http.Response, envelope) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	var env envelope
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON ||
		resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSONCharsetUTF8 {
		raw, _ := io.ReadAll(resp.Body)
		require.NoError(c.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type authData struct {
	User struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func TestGoldenPath(t *testing.T) {
	db := setupTestDB(t)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	ai := &cannedAdvisor{answer: "Try to keep a regular sleep schedule."}
	app := NewApp(AppDependencies{
		Config:      testConfig(),
		MongoDB:     db,
		RedisClient: redisClient,
		Logger:      zap.NewNop(),
		AI:          ai,
	})
	api := client{t: t, app: app}

	// ==========================================
	// Auth
	// ==========================================
	resp, env := api.do("POST", "/api/auth/register", "", map[string]string{
		"name": "Lan", "email": "Lan@Example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	user := decode[authData](t, env.Data)
	require.NotEmpty(t, user.AccessToken)
	assert.Equal(t, "user", user.User.Role)
	token := user.AccessToken

	resp, env = api.do("POST", "/api/auth/register", "", map[string]string{
		"name": "Lan", "email": "lan@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "duplicate email")
	assert.False(t, env.Success)

	resp, _ = api.do("POST", "/api/auth/register", "", map[string]string{
		"name": "X", "email": "not-an-email", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, wrongPw := api.do("POST", "/api/auth/login", "", map[string]string{"email": "lan@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, noUser := api.do("POST", "/api/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, wrongPw.Message, noUser.Message)

	resp, _ = api.do("GET", "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = api.do("GET", "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// ==========================================
	// Health records
	// ==========================================
	resp, env = api.do("GET", "/api/health-records/latest", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "null", string(env.Data))

	resp, env = api.do("POST", "/api/health-records", token, map[string]interface{}{
		"weight":        70,
		"height":        175,
		"bloodPressure": map[string]float64{"systolic": 150, "diastolic": 85},
		"heartRate":     72,
		"note":          "after morning run",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	created := decode[struct {
		Record struct {
			ID string `json:"id"`
		} `json:"record"`
		Analysis struct {
			Analysis struct {
				BMI struct {
					BMI    float64 `json:"bmi"`
					Status string  `json:"status"`
				} `json:"bmi"`
				BloodPressure struct {
					Status string `json:"status"`
				} `json:"bloodPressure"`
			} `json:"analysis"`
			HasWarnings bool `json:"hasWarnings"`
		} `json:"analysis"`
	}](t, env.Data)
	require.NotEmpty(t, created.Record.ID)
	assert.Equal(t, 22.9, created.Analysis.Analysis.BMI.BMI)
	assert.Equal(t, "normal", created.Analysis.Analysis.BMI.Status)
	assert.Equal(t, "elevated", created.Analysis.Analysis.BloodPressure.Status)

	resp, _ = api.do("POST", "/api/health-records", token, map[string]interface{}{"heartRate": 900})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = api.do("GET", "/api/health-records?page=1&limit=5", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.TotalItems)
	assert.Equal(t, 5, env.Pagination.ItemsPerPage)

	resp, _ = api.do("GET", "/api/health-records/64b7f0000000000000000000", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// ==========================================
	// Reminders
	// ==========================================
	resp, env = api.do("POST", "/api/reminders", token, map[string]interface{}{
		"title": "Vitamins", "time": "08:00", "type": "medicine", "daysOfWeek": []int{1, 3},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	resp, _ = api.do("POST", "/api/reminders", token, map[string]interface{}{"title": "Bad", "time": "25:00"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = api.do("GET", "/api/reminders/due?time=08:00&day=1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]interface{}](t, env.Data), 1)

	resp, env = api.do("GET", "/api/reminders/due?time=08:00&day=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]map[string]interface{}](t, env.Data))

	// ==========================================
	// Tracking
	// ==========================================
	today := time.Now().UTC().Format("2006-01-02")
	resp, env = api.do("POST", "/api/water-intake", token, map[string]interface{}{"amount": 250, "date": today})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	resp, env = api.do("GET", "/api/water-intake/daily?date="+today, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	day := decode[struct {
		Total float64 `json:"total"`
		Count int     `json:"count"`
	}](t, env.Data)
	assert.Equal(t, 250.0, day.Total)
	assert.Equal(t, 1, day.Count)

	resp, env = api.do("POST", "/api/sleep-tracker", token, map[string]interface{}{
		"bedtime": "23:00", "wakeTime": "06:30", "quality": "good",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	assert.Equal(t, 450, decode[struct {
		TotalSleepMinutes int `json:"totalSleepMinutes"`
	}](t, env.Data).TotalSleepMinutes)

	resp, env = api.do("POST", "/api/health-goals", token, map[string]interface{}{
		"title": "Drink more", "type": "water_intake", "targetValue": 2000, "unit": "ml",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	goalID := decode[struct {
		ID string `json:"id"`
	}](t, env.Data).ID

	resp, env = api.do("PUT", "/api/health-goals/"+goalID+"/progress", token, map[string]float64{"currentValue": 2000})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	goal := decode[struct {
		Progress float64 `json:"progress"`
		Status   string  `json:"status"`
	}](t, env.Data)
	assert.Equal(t, 100.0, goal.Progress)
	assert.Equal(t, "completed", goal.Status)

	// ==========================================
	// Idempotent replay
	// ==========================================
	resp, _ = api.do("POST", "/api/water-intake", token, map[string]interface{}{"amount": 100}, "X-Correlation-ID", "sip-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Eventually(t, func() bool {
		return mr.Exists("idempotency:" + user.User.ID + ":sip-1")
	}, 2*time.Second, 20*time.Millisecond)

	resp, _ = api.do("POST", "/api/water-intake", token, map[string]interface{}{"amount": 100}, "X-Correlation-ID", "sip-1")
	assert.Equal(t, "true", resp.Header.Get("X-Idempotent-Replay"))

	resp, env = api.do("GET", "/api/water-intake", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2), env.Pagination.TotalItems, "replay must not insert")

	// ==========================================
	// Chatbot and search
	// ==========================================
	resp, env = api.do("POST", "/api/chatbot/ask", token, map[string]string{"question": "How can I sleep better with less stress?"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	answer := decode[struct {
		Answer   string `json:"answer"`
		Category string `json:"category"`
	}](t, env.Data)
	assert.Equal(t, ai.answer, answer.Answer)
	assert.Equal(t, "stress", answer.Category)

	resp, env = api.do("GET", "/api/search?q=morning&type=all", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), env.Pagination.TotalItems)

	resp, _ = api.do("GET", "/api/search?q=", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// ==========================================
	// Doctors and appointments
	// ==========================================
	resp, _ = api.do("POST", "/api/doctors", token, map[string]string{"name": "Dr. Minh", "specialty": "Cardiology"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, err := db.Collection("users").UpdateOne(context.Background(),
		bson.M{"email": "lan@example.com"}, bson.M{"$set": bson.M{"role": "admin"}})
	require.NoError(t, err)
	resp, env = api.do("POST", "/api/auth/login", "", map[string]string{"email": "lan@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	adminToken := decode[authData](t, env.Data).AccessToken

	resp, env = api.do("POST", "/api/doctors", adminToken, map[string]interface{}{
		"name": "Dr. Minh", "specialty": "Cardiology", "availableSlots": []string{"09:00", "10:00"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	doctorID := decode[struct {
		ID string `json:"id"`
	}](t, env.Data).ID

	resp, env = api.do("GET", "/api/doctors/available", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]interface{}](t, env.Data), 1)

	booking := map[string]string{
		"doctorId":        doctorID,
		"appointmentDate": time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		"appointmentTime": "09:00",
		"patientName":     "Lan",
		"phoneNumber":     "0901234567",
	}
	resp, env = api.do("POST", "/api/appointments", token, booking)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	appt := decode[struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}](t, env.Data)
	assert.Equal(t, "pending", appt.Status)

	booking["phoneNumber"] = "12ab"
	resp, _ = api.do("POST", "/api/appointments", token, booking)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = api.do("PUT", "/api/appointments/"+appt.ID+"/status", adminToken, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	resp, _ = api.do("PUT", "/api/appointments/my-appointments/"+appt.ID+"/cancel", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "approved appointments cannot be cancelled")

	// ==========================================
	// Reports
	// ==========================================
	resp, env = api.do("GET", "/api/reports/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	resp, env = api.do("GET", "/api/reports/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	resp, _ = api.do("GET", "/api/reports/health/export", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	// ==========================================
	// Logout revokes the access token
	// ==========================================
	resp, _ = api.do("POST", "/api/auth/logout", token, map[string]string{"refreshToken": user.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do("GET", "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = api.do("POST", "/api/auth/refresh", "", map[string]string{"refreshToken": user.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	app := fiber.New(fiber.Config{ErrorHandler: newErrorHandler(zap.New(core))})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	tests := []struct {
		path        string
		wantStatus  int
		wantMessage string
	}{
		{"/boom", http.StatusInternalServerError, "Internal server error"},
		{"/teapot", http.StatusTeapot, "short and stout"},
		{"/nowhere", http.StatusNotFound, "Route not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}

	entries := logs.FilterMessage("unhandled request error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/boom", entries[0].ContextMap()["path"])
}
