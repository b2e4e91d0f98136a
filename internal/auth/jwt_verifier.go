package auth

import (
	"context"
	"log/slog"

	"catalog/internal/domain"
	"catalog/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// allowedAlgorithms prevents algorithm confusion attacks
var allowedAlgorithms = []string{"RS256"}

// DefaultRolesClaim is the namespaced claim carrying role strings
const DefaultRolesClaim = "http:auth/roles"

// JWTVerifier implements TokenVerifier using a JWKS-backed KeySet.
type JWTVerifier struct {
	keys       *KeySet
	audience   string
	issuer     string
	rolesClaim string
	logger     *slog.Logger
}

// VerifierOptions holds the expected token claims
type VerifierOptions struct {
	Audience   string // Skipped when empty
	Issuer     string // Skipped when empty
	RolesClaim string // Defaults to DefaultRolesClaim
}

// NewJWTVerifier creates a verifier that checks tokens against keys
func NewJWTVerifier(keys *KeySet, opts VerifierOptions, logger *slog.Logger) *JWTVerifier {
	if opts.RolesClaim == "" {
		opts.RolesClaim = DefaultRolesClaim
	}
	return &JWTVerifier{
		keys:       keys,
		audience:   opts.Audience,
		issuer:     opts.Issuer,
		rolesClaim: opts.RolesClaim,
		logger:     logger,
	}
}

// VerifyToken validates a JWT and extracts its raw claims.
// The subject is not checked here; see ToIdentity.
func (v *JWTVerifier) VerifyToken(ctx context.Context, tokenString string) (models.RawClaims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keys.Keyfunc, parserOpts...)
	if err != nil {
		v.logger.DebugContext(ctx, "token rejected", "error", err.Error())
		return models.RawClaims{}, domain.NewInvalidCredential(err.Error())
	}
	if !token.Valid {
		return models.RawClaims{}, domain.NewInvalidCredential("token is not valid")
	}

	return v.rawClaims(claims), nil
}

func (v *JWTVerifier) rawClaims(claims jwt.MapClaims) models.RawClaims {
	raw := models.RawClaims{
		Roles: claims[v.rolesClaim],
	}
	// Non-string subjects stay empty and fail normalization
	raw.Subject, _ = claims["sub"].(string)
	raw.Issuer, _ = claims.GetIssuer()
	if aud, err := claims.GetAudience(); err == nil {
		raw.Audience = aud
	}
	return raw
}
