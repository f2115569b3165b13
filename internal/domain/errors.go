package domain

import "errors"

// Common errors
var (
	ErrNotFound   = errors.New("record not found")
	ErrForbidden  = errors.New("access forbidden: you don't own this resource")
	ErrValidation = errors.New("validation failed")
)

// Auth errors
var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPassword    = errors.New("current password is incorrect")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Booking errors
var (
	ErrDoctorBusy    = errors.New("doctor is currently busy")
	ErrInvalidStatus = errors.New("invalid appointment status")
	ErrCannotCancel  = errors.New("only pending appointments can be cancelled")
)

// Storage errors
var ErrStorageUnavailable = errors.New("file storage is not configured")

// AI collaborator errors
var (
	ErrAIMisconfigured = errors.New("AI service is not configured, check AI_API_KEY")
	ErrAIRateLimited   = errors.New("AI service quota exceeded, try again later")
	ErrAIUnavailable   = errors.New("cannot reach the advice service, try again later")
)
