package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/healthmate/healthmate-api/internal/domain"
)

// Context keys for storing user info
const (
	UserIDKey = "userID"
	RoleKey   = "role"
	ClaimsKey = "claims"
)

// TokenVerifier validates an access token and returns its claims
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*domain.AccessClaims, error)
}

// VerifyToken validates the bearer token and stores its claims in locals
func VerifyToken(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Missing authorization token")
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			return unauthorized(c, "Invalid authorization header format, expected 'Bearer <token>'")
		}

		claims, err := verifier.VerifyAccessToken(c.UserContext(), tokenString)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(RoleKey, claims.Role)
		c.Locals(ClaimsKey, claims)

		return c.Next()
	}
}

// AuthorizeRole checks that the caller has one of the allowed roles
func AuthorizeRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(RoleKey).(string)
		if !ok || role == "" {
			return unauthorized(c, "No role found in token")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Insufficient permissions",
		})
	}
}

// GetUserID extracts the user ID from Fiber context.
// Should only be called after VerifyToken.
func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetClaims returns the verified access token claims, or nil
func GetClaims(c *fiber.Ctx) *domain.AccessClaims {
	claims, _ := c.Locals(ClaimsKey).(*domain.AccessClaims)
	return claims
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
