package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// AuthError is returned by the identity resolver.
// Every AuthError matches ErrUnauthorized via errors.Is().
type AuthError struct {
	Kind   error // ErrInvalidCredential or ErrMalformedClaims
	Reason string
}

// Auth failure kinds
var (
	// ErrInvalidCredential covers missing, malformed, expired or badly signed
	// credentials, and audience/issuer mismatches.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrMalformedClaims means the verifier accepted a token without a usable subject.
	ErrMalformedClaims = errors.New("malformed claims")
)

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Reason
}

// Unwrap exposes the failure kind
func (e *AuthError) Unwrap() error { return e.Kind }

// Is allows errors.Is() to match against ErrUnauthorized
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// NewInvalidCredential builds an AuthError of kind ErrInvalidCredential
func NewInvalidCredential(reason string) *AuthError {
	return &AuthError{Kind: ErrInvalidCredential, Reason: reason}
}

// NewMalformedClaims builds an AuthError of kind ErrMalformedClaims
func NewMalformedClaims(reason string) *AuthError {
	return &AuthError{Kind: ErrMalformedClaims, Reason: reason}
}

// NotFoundError carries a client-facing message and matches ErrNotFound via errors.Is()
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Is allows errors.Is() to match against ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFoundf builds a NotFoundError from a format string
func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}
