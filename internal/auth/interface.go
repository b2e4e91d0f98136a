package auth

import (
	"context"

	"catalog/internal/domain/models"
)

// TokenVerifier validates a signed token and returns its raw claims.
// This abstraction keeps the resolver agnostic to how keys are obtained.
type TokenVerifier interface {
	// VerifyToken checks signature, algorithm, expiry, audience and issuer.
	// Returns an error wrapping domain.ErrInvalidCredential on any failure.
	VerifyToken(ctx context.Context, tokenString string) (models.RawClaims, error)
}

// Resolver turns an Authorization header value into an Identity
type Resolver interface {
	Resolve(ctx context.Context, authorization string) (models.Identity, error)
}
