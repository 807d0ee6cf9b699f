package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Provisioning errors
var (
	ErrMissingFields    = errors.New("email and password are required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrRoleNotValid     = errors.New("role not valid")
	ErrUserIDRequired   = errors.New("user_id is required")
)

// Request errors
var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrBadPhotoCategory = errors.New("invalid photo category")
)
