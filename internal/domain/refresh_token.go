package domain

import (
	"context"
	"time"
)

// RefreshToken is a stored, hashed refresh token. The raw value is only ever
// handed to the client.
type RefreshToken struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	UserID    string     `bson:"user_id" json:"userId"`
	TokenHash string     `bson:"token_hash" json:"-"`
	ExpiresAt time.Time  `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UserAgent string     `bson:"user_agent" json:"userAgent"`
	IPAddress string     `bson:"ip_address" json:"ipAddress"`
	RevokedAt *time.Time `bson:"revoked_at,omitempty" json:"revokedAt,omitempty"`
}

// IsValid reports whether the token can still be exchanged at the given time.
func (r *RefreshToken) IsValid(now time.Time) bool {
	return r.RevokedAt == nil && now.Before(r.ExpiresAt)
}

// RefreshTokenRepository stores refresh tokens by hash.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error
	// FindByHash returns nil, nil when no token matches.
	FindByHash(ctx context.Context, hash string) (*RefreshToken, error)
	RevokeByHash(ctx context.Context, hash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
}
