package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubVerifier map[string]*domain.AccessClaims

func (v stubVerifier) VerifyAccessToken(_ context.Context, token string) (*domain.AccessClaims, error) {
	claims, ok := v[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func newAuthApp() *fiber.App {
	verifier := stubVerifier{
		"user-token":  {UserID: "user-1", Role: domain.RoleUser},
		"admin-token": {UserID: "admin-1", Role: domain.RoleAdmin},
	}

	app := fiber.New()
	app.Use(VerifyToken(verifier))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(GetUserID(c) + ":" + GetClaims(c).Role)
	})
	app.Get("/admin", AuthorizeRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestVerifyToken(t *testing.T) {
	app := newAuthApp()

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "/me", "", http.StatusUnauthorized, "Missing authorization token"},
		{"wrong scheme", "/me", "Token user-token", http.StatusUnauthorized, "expected 'Bearer <token>'"},
		{"unknown token", "/me", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid token", "/me", "Bearer user-token", http.StatusOK, "user-1:user"},
		{"user on admin route", "/admin", "Bearer user-token", http.StatusForbidden, "Insufficient permissions"},
		{"admin on admin route", "/admin", "Bearer admin-token", http.StatusOK, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestRequestLoggerLogsEachRequest(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error {
		c.Locals(UserIDKey, "user-1")
		return c.SendString("ok")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	requestID := resp.Header.Get(RequestIDHeader)
	assert.Len(t, requestID, 26, "ulid")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 2)

	ok := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "GET", ok["method"])
	assert.Equal(t, "/ok", ok["path"])
	assert.Equal(t, int64(200), ok["status"])
	assert.Equal(t, "user-1", ok["user_id"])
	assert.Equal(t, requestID, ok["request_id"])

	missing := entries[1].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(404), missing["status"])
	assert.NotContains(t, missing, "user_id")
}

func TestRequestLoggerFieldsSurviveLaterRequests(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/*", func(c *fiber.Ctx) error { return c.SendString("ok") })

	first := httptest.NewRequest(http.MethodGet, "/reports/dashboard", nil)
	first.Header.Set(RequestIDHeader, "req-first-0001")
	_, err := app.Test(first)
	require.NoError(t, err)

	for _, path := range []string{"/a", "/bb", "/water-intake/daily"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(RequestIDHeader, "zzz")
		_, err := app.Test(req)
		require.NoError(t, err)
	}

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 4)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/reports/dashboard", fields["path"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "req-first-0001", fields["request_id"])
}

func TestRequestLoggerKeepsIncomingRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "abc-123", string(body))
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestIdempotencyReplaysSuccessfulResponses(t *testing.T) {
	mr := miniredis.RunT(t)
	store := repository.NewRedisCacheRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	calls := 0
	app := fiber.New()
	app.Use(IdempotencyMiddleware(store, time.Hour, zap.NewNop()))
	app.Post("/items", func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": calls})
	})
	app.Post("/fail", func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"call": calls})
	})

	post := func(path, correlationID string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		if correlationID != "" {
			req.Header.Set("X-Correlation-ID", correlationID)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	first := post("/items", "abc")
	assert.Equal(t, http.StatusCreated, first.StatusCode)

	// the response is stored asynchronously
	require.Eventually(t, func() bool { return mr.Exists("idempotency:abc") }, time.Second, 10*time.Millisecond)

	replay := post("/items", "abc")
	assert.Equal(t, "true", replay.Header.Get("X-Idempotent-Replay"))
	body, _ := io.ReadAll(replay.Body)
	assert.JSONEq(t, `{"call":1}`, string(body))
	assert.Equal(t, 1, calls)

	post("/items", "")
	assert.Equal(t, 2, calls, "no correlation id, no replay")

	post("/fail", "xyz")
	post("/fail", "xyz")
	assert.Equal(t, 4, calls, "errors are not replayed")
}
