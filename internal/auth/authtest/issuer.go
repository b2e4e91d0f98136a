// Package authtest signs tokens and serves a matching JWKS for tests.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"catalog/internal/auth"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Defaults baked into tokens minted by an Issuer
const (
	KID      = "123"
	Issuer   = "https://catalog.test/"
	Audience = "https://api.catalog.test"
)

// TokenIssuer holds an RSA key pair and mints RS256 tokens signed with it.
type TokenIssuer struct {
	Key *rsa.PrivateKey
	KID string

	hits atomic.Int64
}

// NewIssuer generates a fresh signing key
func NewIssuer(t testing.TB) *TokenIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate RSA key: %v", err)
	}
	return &TokenIssuer{Key: key, KID: KID}
}

// JWKS returns the public JWK Set document for the issuer's key
func (i *TokenIssuer) JWKS() json.RawMessage {
	pub := i.Key.PublicKey
	doc := map[string]interface{}{
		"keys": []map[string]string{{
			"kty": "RSA",
			"use": "sig",
			"alg": "RS256",
			"kid": i.KID,
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	raw, _ := json.Marshal(doc)
	return raw
}

// KeySet returns a KeySet loaded from the inline JWKS (no network)
func (i *TokenIssuer) KeySet(t testing.TB) *auth.KeySet {
	t.Helper()
	kf, err := keyfunc.NewJWKSetJSON(i.JWKS())
	if err != nil {
		t.Fatalf("load JWKS: %v", err)
	}
	return auth.NewStaticKeySet(kf)
}

// Server serves the JWKS over HTTP and counts requests
func (i *TokenIssuer) Server(t testing.TB) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write(i.JWKS())
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Hits returns how many times the JWKS server was called
func (i *TokenIssuer) Hits() int64 {
	return i.hits.Load()
}

// Token mints a valid token for subject with the given roles
func (i *TokenIssuer) Token(t testing.TB, subject string, roles ...string) string {
	t.Helper()
	claims := i.Claims(subject)
	if len(roles) > 0 {
		claims[auth.DefaultRolesClaim] = roles
	}
	return i.Sign(t, claims)
}

// Claims returns a baseline claim set that passes verification
func (i *TokenIssuer) Claims(subject string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": subject,
		"iss": Issuer,
		"aud": Audience,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

// Sign signs arbitrary claims with the issuer's kid
func (i *TokenIssuer) Sign(t testing.TB, claims jwt.MapClaims) string {
	return i.SignWithKID(t, claims, i.KID)
}

// SignWithKID signs claims with an explicit kid header
func (i *TokenIssuer) SignWithKID(t testing.TB, claims jwt.MapClaims, kid string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(i.Key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// Bearer formats a token as an Authorization header value
func Bearer(token string) string {
	return "Bearer " + token
}
