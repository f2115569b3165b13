package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/healthmate/healthmate-api/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor. Tests lower it.
var passwordCost = bcrypt.DefaultCost

// HashPassword bcrypt-hashes a plain password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeEmail lower-cases and trims an address before storage or lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthService handles registration, login and session lifecycle
type AuthService struct {
	userRepo domain.UserRepository
	tokens   *TokenService
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo domain.UserRepository, tokens *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterInput carries the fields accepted at sign-up
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ClientInfo identifies the device a session was opened from
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	User *domain.User `json:"user,omitempty"`
	*TokenPair
}

// Register creates a user with role user and opens a session
func (s *AuthService) Register(ctx context.Context, in RegisterInput, client ClientInfo) (*AuthResult, error) {
	email := NormalizeEmail(in.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.tokens.GenerateTokenPair(ctx, user, client.UserAgent, client.IPAddress)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string, client ClientInfo) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if !checkPassword(user.PasswordHash, password) {
		s.logger.Warn("failed login attempt", zap.String("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokenPair(ctx, user, client.UserAgent, client.IPAddress)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Refresh rotates a refresh token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*AuthResult, error) {
	pair, err := s.tokens.RefreshAccessToken(ctx, refreshToken, client.UserAgent, client.IPAddress)
	if err != nil {
		return nil, err
	}
	return &AuthResult{TokenPair: pair}, nil
}

// Logout revokes the refresh token, if given, and blacklists the access token
func (s *AuthService) Logout(ctx context.Context, claims *domain.AccessClaims, refreshToken string) error {
	if refreshToken != "" {
		if err := s.tokens.RevokeRefreshToken(ctx, refreshToken); err != nil {
			return err
		}
	}
	if err := s.tokens.RevokeAccessToken(ctx, claims); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}

// Me returns the caller's profile
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
