package repository

import (
	"context"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
)

const (
	userByIDKeyPrefix = "user:id:"
	userCacheTTL      = 5 * time.Minute
)

// CachedUserRepository wraps MongoUserRepository with Redis caching of
// lookups by id. Every write drops the cached entry.
type CachedUserRepository struct {
	*MongoUserRepository
	cache *RedisCacheRepository
}

// NewCachedUserRepository creates a new cached user repository
func NewCachedUserRepository(mongo *MongoUserRepository, cache *RedisCacheRepository) *CachedUserRepository {
	return &CachedUserRepository{
		MongoUserRepository: mongo,
		cache:               cache,
	}
}

// GetByID retrieves a user by id with caching
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	key := userByIDKeyPrefix + id

	var cached cachedUser
	if err := r.cache.Get(ctx, key, &cached); err == nil {
		return cached.toUser(), nil
	}

	user, err := r.MongoUserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, key, newCachedUser(user), userCacheTTL)
	return user, nil
}

func (r *CachedUserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := r.MongoUserRepository.UpdateProfile(ctx, id, update)
	_ = r.cache.Delete(ctx, userByIDKeyPrefix+id)
	return user, err
}

func (r *CachedUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	err := r.MongoUserRepository.UpdatePassword(ctx, id, passwordHash)
	_ = r.cache.Delete(ctx, userByIDKeyPrefix+id)
	return err
}

func (r *CachedUserRepository) UpdateRole(ctx context.Context, id string, role string) error {
	err := r.MongoUserRepository.UpdateRole(ctx, id, role)
	_ = r.cache.Delete(ctx, userByIDKeyPrefix+id)
	return err
}

func (r *CachedUserRepository) Delete(ctx context.Context, id string) error {
	err := r.MongoUserRepository.Delete(ctx, id)
	_ = r.cache.Delete(ctx, userByIDKeyPrefix+id)
	return err
}

// cachedUser keeps the password hash, which domain.User hides from JSON
type cachedUser struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

func newCachedUser(u *domain.User) cachedUser {
	return cachedUser{User: *u, PasswordHash: u.PasswordHash}
}

func (c cachedUser) toUser() *domain.User {
	u := c.User
	u.PasswordHash = c.PasswordHash
	return &u
}
