package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IdempotencyStore keeps response bodies by correlation id
type IdempotencyStore interface {
	GetIdempotentResponse(ctx context.Context, correlationID string) ([]byte, error)
	SaveIdempotentResponse(ctx context.Context, correlationID string, body []byte, ttl time.Duration) error
}

// IdempotencyMiddleware provides idempotency for POST/PUT requests using X-Correlation-ID.
// If the same correlation ID is received within the TTL, it returns the cached response.
func IdempotencyMiddleware(store IdempotencyStore, ttl time.Duration, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Only apply to mutating methods
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		correlationID := c.Get("X-Correlation-ID")
		if correlationID == "" {
			return c.Next()
		}

		// Scope replays to the caller so ids cannot collide across users
		key := correlationID
		if userID := GetUserID(c); userID != "" {
			key = userID + ":" + correlationID
		}

		cached, err := store.GetIdempotentResponse(c.UserContext(), key)
		if err == nil && len(cached) > 0 {
			c.Set("X-Idempotent-Replay", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}

		statusCode := c.Response().StatusCode()
		if statusCode < 200 || statusCode >= 300 {
			return nil
		}

		body := c.Response().Body()
		if len(body) == 0 {
			return nil
		}

		// fasthttp reuses the body buffer once the handler returns
		snapshot := append([]byte(nil), body...)
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := store.SaveIdempotentResponse(bgCtx, key, snapshot, ttl); err != nil {
				logger.Warn("failed to store idempotent response",
					zap.String("correlation_id", correlationID),
					zap.Error(err),
				)
			}
		}()

		return nil
	}
}
