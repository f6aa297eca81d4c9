// Package common defines shared constants and sentinel errors used across
// client and server layers of PANVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Field-cipher errors.
	ErrInvalidEnvelope  = errors.New("invalid envelope format")
	ErrDecryptionFailed = errors.New("decryption failed")

	// PAN-specific errors.
	ErrorInvalidPAN  = errors.New("invalid PAN format")
	ErrorPANExists   = errors.New("PAN already exists")
	ErrorPANNotFound = errors.New("PAN not found")
)
