package auth

import (
	"context"
	"log/slog"
	"strings"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
)

// IdentityResolver turns a bearer credential into an Identity.
type IdentityResolver struct {
	verifier TokenVerifier
	logger   *slog.Logger
}

// NewIdentityResolver creates a resolver on top of a token verifier
func NewIdentityResolver(verifier TokenVerifier, logger *slog.Logger) *IdentityResolver {
	return &IdentityResolver{verifier: verifier, logger: logger}
}

// Resolve verifies the Authorization header value and normalizes its claims.
// Every failure is a *domain.AuthError.
func (r *IdentityResolver) Resolve(ctx context.Context, authorization string) (models.Identity, error) {
	token, err := BearerToken(authorization)
	if err != nil {
		return models.Identity{}, err
	}

	raw, err := r.verifier.VerifyToken(ctx, token)
	if err != nil {
		return models.Identity{}, err
	}

	identity, err := ToIdentity(raw)
	if err != nil {
		// The verifier accepted a token it should not have
		r.logger.ErrorContext(ctx, "verified token has no subject", "issuer", raw.Issuer)
		return models.Identity{}, err
	}
	return identity, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value
func BearerToken(authorization string) (string, error) {
	if authorization == "" {
		return "", domain.NewInvalidCredential("missing authorization header")
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", domain.NewInvalidCredential("authorization header must use the Bearer scheme")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.NewInvalidCredential("empty bearer token")
	}
	return token, nil
}

// ToIdentity is the only conversion from RawClaims to Identity.
// The result always has a non-empty ID and a definite admin flag.
func ToIdentity(raw models.RawClaims) (models.Identity, error) {
	if raw.Subject == "" {
		return models.Identity{}, domain.NewMalformedClaims("token has no subject")
	}
	return models.Identity{
		ID:      raw.Subject,
		IsAdmin: raw.HasAdminRole(),
	}, nil
}
