package service

import (
	"context"
	"fmt"

	"github.com/healthmate/healthmate-api/internal/domain"
)

// UserService handles profile maintenance and admin user management
type UserService struct {
	userRepo domain.UserRepository
	tokens   *TokenService
}

// NewUserService creates a new user service
func NewUserService(userRepo domain.UserRepository, tokens *TokenService) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens}
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	return s.userRepo.UpdateProfile(ctx, userID, update)
}

// ChangePassword replaces the password after checking the current one and
// signs the user out of every other device.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user.PasswordHash, currentPassword) {
		return domain.ErrInvalidPassword
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	if err := s.tokens.RevokeAllUserTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

func (s *UserService) List(ctx context.Context, page domain.Page) ([]*domain.User, int64, error) {
	return s.userRepo.List(ctx, page)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.tokens.RevokeAllUserTokens(ctx, id)
}
