// Package common defines shared constants and sentinel errors used across
// client and server layers of the visitor management system. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition is returned when a status change is requested on a
	// visitor request that has already left the expected state. Treated the
	// same as ErrorNotFound for presentation purposes.
	ErrInvalidTransition = errors.New("invalid status transition")

	// Validation errors (bad submission input; never persisted).
	ErrorValidation = errors.New("validation error")

	// Transport reachability errors (gateway unreachable, subscription drop).
	ErrorTransport = errors.New("transport error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
