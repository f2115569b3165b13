package domain

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the custom claims carried by HealthMate access tokens.
// The registered ID (jti) doubles as the blacklist key on logout.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenBlacklist records access tokens revoked before their natural expiry
type TokenBlacklist interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}
