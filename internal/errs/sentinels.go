// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across crypto/service/repo layers.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication: wrong master password,
	// or a missing, malformed, forged or expired session token. Callers never
	// learn which.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidPolicy indicates a password policy that cannot produce a password.
	ErrInvalidPolicy = errors.New("invalid password policy")

	// ErrIntegrity indicates a ciphertext that failed authentication (tampered,
	// truncated or encrypted under another key).
	ErrIntegrity = errors.New("ciphertext integrity check failed")

	// ErrValidation indicates a malformed client request.
	ErrValidation = errors.New("validation")
)
