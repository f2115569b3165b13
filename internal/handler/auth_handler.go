package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/middleware"
	"github.com/healthmate/healthmate-api/internal/service"
)

const refreshCookieName = "healthmate-refresh-token"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService   *service.AuthService
	refreshExpiry time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, refreshExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		refreshExpiry: refreshExpiry,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	res, err := h.authService.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, clientInfo(c))
	if err != nil {
		return respondError(c, err)
	}

	h.setRefreshCookie(c, res.RefreshToken)
	return success(c, fiber.StatusCreated, "Registration successful", res)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	res, err := h.authService.Login(c.UserContext(), req.Email, req.Password, clientInfo(c))
	if err != nil {
		return respondError(c, err)
	}

	h.setRefreshCookie(c, res.RefreshToken)
	return success(c, fiber.StatusOK, "Login successful", res)
}

// Refresh handles POST /api/auth/refresh. The token comes from the body,
// falling back to the refresh cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	_ = c.BodyParser(&req)
	if req.RefreshToken == "" {
		req.RefreshToken = c.Cookies(refreshCookieName)
	}
	if req.RefreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "No refresh token provided",
		})
	}

	res, err := h.authService.Refresh(c.UserContext(), req.RefreshToken, clientInfo(c))
	if err != nil {
		h.clearRefreshCookie(c)
		return respondError(c, err)
	}

	h.setRefreshCookie(c, res.RefreshToken)
	return success(c, fiber.StatusOK, "Token refreshed", res.TokenPair)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "User profile", user)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req refreshRequest
	_ = c.BodyParser(&req)
	if req.RefreshToken == "" {
		req.RefreshToken = c.Cookies(refreshCookieName)
	}

	if err := h.authService.Logout(c.UserContext(), middleware.GetClaims(c), req.RefreshToken); err != nil {
		return respondError(c, err)
	}

	h.clearRefreshCookie(c)
	return success(c, fiber.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.refreshExpiry),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/api/auth",
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/api/auth",
	})
}

func clientInfo(c *fiber.Ctx) service.ClientInfo {
	return service.ClientInfo{
		UserAgent: c.Get(fiber.HeaderUserAgent),
		IPAddress: c.IP(),
	}
}

// UserHandler handles profile and admin user endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type lifestyleRequest struct {
	Diet     string `json:"diet" validate:"omitempty,oneof=healthy normal unhealthy"`
	Exercise string `json:"exercise" validate:"omitempty,oneof=regular sometimes rarely"`
	Sleep    string `json:"sleep" validate:"omitempty,oneof=good average poor"`
	Smoking  bool   `json:"smoking"`
	Alcohol  bool   `json:"alcohol"`
}

type profileRequest struct {
	Name           *string           `json:"name" validate:"omitempty,min=1,max=100"`
	Age            *int              `json:"age" validate:"omitempty,min=1,max=150"`
	Gender         *string           `json:"gender" validate:"omitempty,oneof=male female other"`
	Height         *float64          `json:"height" validate:"omitempty,min=0,max=300"`
	Weight         *float64          `json:"weight" validate:"omitempty,min=0,max=500"`
	MedicalHistory *string           `json:"medicalHistory" validate:"omitempty,max=2000"`
	Lifestyle      *lifestyleRequest `json:"lifestyle"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	update := domain.ProfileUpdate{
		Name:           req.Name,
		Age:            req.Age,
		Gender:         req.Gender,
		Height:         req.Height,
		Weight:         req.Weight,
		MedicalHistory: req.MedicalHistory,
	}
	if l := req.Lifestyle; l != nil {
		update.Lifestyle = &domain.Lifestyle{
			Diet:     l.Diet,
			Exercise: l.Exercise,
			Sleep:    l.Sleep,
			Smoking:  l.Smoking,
			Alcohol:  l.Alcohol,
		}
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), userID(c), update)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Profile updated", user)
}

// ChangePassword handles PUT /api/users/change-password
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.userService.ChangePassword(c.UserContext(), userID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Password changed, please log in again", nil)
}

// List handles GET /api/users (admin)
func (h *UserHandler) List(c *fiber.Ctx) error {
	page := parsePage(c, defaultPageLimit)
	users, total, err := h.userService.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Users", orEmpty(users), page, total)
}

// Delete handles DELETE /api/users/:id (admin)
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.userService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "User deleted", nil)
}

// orEmpty keeps list payloads as [] rather than null
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
