package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid database execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Promo code redemption errors, one per rejected validation rule.
	ErrCodeNotFound         = errors.New("promo code not found")
	ErrCodeInactive         = errors.New("promo code is inactive")
	ErrCodeExpired          = errors.New("promo code has expired")
	ErrCodeExhausted        = errors.New("promo code has no uses left")
	ErrCodeAlreadyActivated = errors.New("promo code already activated")
)
