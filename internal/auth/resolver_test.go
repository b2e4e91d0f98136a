package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"catalog/internal/auth"
	"catalog/internal/auth/authtest"
	"catalog/internal/domain"
	"catalog/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newResolver(t *testing.T, issuer *authtest.TokenIssuer) *auth.IdentityResolver {
	t.Helper()
	verifier := auth.NewJWTVerifier(issuer.KeySet(t), auth.VerifierOptions{
		Audience: authtest.Audience,
		Issuer:   authtest.Issuer,
	}, discardLogger())
	return auth.NewIdentityResolver(verifier, discardLogger())
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "surrounding spaces", header: "  Bearer   abc  ", want: "abc"},
		{name: "missing", header: "", wantErr: true},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "no token", header: "Bearer", wantErr: true},
		{name: "blank token", header: "Bearer    ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.BearerToken(tt.header)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidCredential)
				assert.ErrorIs(t, err, domain.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToIdentity(t *testing.T) {
	tests := []struct {
		name      string
		raw       models.RawClaims
		want      models.Identity
		malformed bool
	}{
		{
			name: "plain user",
			raw:  models.RawClaims{Subject: "user|1"},
			want: models.Identity{ID: "user|1"},
		},
		{
			name: "admin role list",
			raw:  models.RawClaims{Subject: "user|9", Roles: []interface{}{"editor", "admin"}},
			want: models.Identity{ID: "user|9", IsAdmin: true},
		},
		{
			name: "role list without admin",
			raw:  models.RawClaims{Subject: "user|2", Roles: []interface{}{"editor"}},
			want: models.Identity{ID: "user|2"},
		},
		{
			name: "roles claim is a string",
			raw:  models.RawClaims{Subject: "user|3", Roles: "admin"},
			want: models.Identity{ID: "user|3"},
		},
		{
			name: "roles claim has mixed types",
			raw:  models.RawClaims{Subject: "user|4", Roles: []interface{}{float64(1), "admin"}},
			want: models.Identity{ID: "user|4", IsAdmin: true},
		},
		{
			name:      "missing subject",
			raw:       models.RawClaims{Roles: []interface{}{"admin"}},
			malformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.ToIdentity(tt.raw)
			if tt.malformed {
				assert.ErrorIs(t, err, domain.ErrMalformedClaims)
				assert.ErrorIs(t, err, domain.ErrUnauthorized)
				assert.Equal(t, models.Identity{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentityResolver_Resolve(t *testing.T) {
	issuer := authtest.NewIssuer(t)
	resolver := newResolver(t, issuer)
	ctx := context.Background()

	t.Run("owner token", func(t *testing.T) {
		identity, err := resolver.Resolve(ctx, authtest.Bearer(issuer.Token(t, "seed.user|1")))
		require.NoError(t, err)
		assert.Equal(t, models.Identity{ID: "seed.user|1", IsAdmin: false}, identity)
	})

	t.Run("admin token", func(t *testing.T) {
		identity, err := resolver.Resolve(ctx, authtest.Bearer(issuer.Token(t, "seed.user|99", "admin")))
		require.NoError(t, err)
		assert.Equal(t, models.Identity{ID: "seed.user|99", IsAdmin: true}, identity)
	})

	t.Run("missing subject is malformed, not invalid", func(t *testing.T) {
		claims := issuer.Claims("")
		delete(claims, "sub")
		_, err := resolver.Resolve(ctx, authtest.Bearer(issuer.Sign(t, claims)))
		assert.ErrorIs(t, err, domain.ErrMalformedClaims)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredential)
	})

	t.Run("non-string subject is malformed", func(t *testing.T) {
		claims := issuer.Claims("")
		claims["sub"] = 42
		_, err := resolver.Resolve(ctx, authtest.Bearer(issuer.Sign(t, claims)))
		assert.ErrorIs(t, err, domain.ErrMalformedClaims)
	})
}

func TestIdentityResolver_RejectsInvalidCredentials(t *testing.T) {
	issuer := authtest.NewIssuer(t)
	other := authtest.NewIssuer(t)
	resolver := newResolver(t, issuer)

	expired := issuer.Claims("seed.user|1")
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	noExpiry := issuer.Claims("seed.user|1")
	delete(noExpiry, "exp")

	wrongIssuer := issuer.Claims("seed.user|1")
	wrongIssuer["iss"] = "https://evil.test/"

	wrongAudience := issuer.Claims("seed.user|1")
	wrongAudience["aud"] = "https://someone-else.test"

	hmac := jwt.NewWithClaims(jwt.SigningMethodHS256, issuer.Claims("seed.user|1"))
	hmac.Header["kid"] = authtest.KID
	hmacToken, err := hmac.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not a jwt", header: "Bearer not-a-token"},
		{name: "unknown kid", header: authtest.Bearer(issuer.SignWithKID(t, issuer.Claims("seed.user|1"), "456"))},
		{name: "signed by another key", header: authtest.Bearer(other.Token(t, "seed.user|1", "admin"))},
		{name: "expired", header: authtest.Bearer(issuer.Sign(t, expired))},
		{name: "no exp", header: authtest.Bearer(issuer.Sign(t, noExpiry))},
		{name: "wrong issuer", header: authtest.Bearer(issuer.Sign(t, wrongIssuer))},
		{name: "wrong audience", header: authtest.Bearer(issuer.Sign(t, wrongAudience))},
		{name: "hmac algorithm", header: authtest.Bearer(hmacToken)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := resolver.Resolve(context.Background(), tt.header)
			assert.ErrorIs(t, err, domain.ErrInvalidCredential)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Equal(t, models.Identity{}, identity)
		})
	}
}

func TestKeySet_RemoteJWKS(t *testing.T) {
	issuer := authtest.NewIssuer(t)
	srv := issuer.Server(t)

	keys, err := auth.NewKeySet(auth.KeySetOptions{
		URL:               srv.URL,
		RefreshInterval:   time.Hour,
		RequestsPerMinute: 5,
		Logger:            discardLogger(),
	})
	require.NoError(t, err)
	defer keys.Close()

	assert.Zero(t, issuer.Hits(), "keys must not be fetched before first use")

	verifier := auth.NewJWTVerifier(keys, auth.VerifierOptions{Issuer: authtest.Issuer}, discardLogger())
	resolver := auth.NewIdentityResolver(verifier, discardLogger())
	header := authtest.Bearer(issuer.Token(t, "seed.user|2"))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			identity, err := resolver.Resolve(context.Background(), header)
			if err == nil && identity.ID != "seed.user|2" {
				err = assert.AnError
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int64(1), issuer.Hits(), "concurrent resolutions share one fetch")
}

func TestKeySet_FailingJWKSIsRateLimited(t *testing.T) {
	issuer := authtest.NewIssuer(t)

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "unavailable", http.StatusInternalServerError)
	}))
	defer srv.Close()

	keys, err := auth.NewKeySet(auth.KeySetOptions{
		URL:               srv.URL,
		RequestsPerMinute: 5,
		HTTPTimeout:       time.Second,
		Logger:            discardLogger(),
	})
	require.NoError(t, err)
	defer keys.Close()

	verifier := auth.NewJWTVerifier(keys, auth.VerifierOptions{Issuer: authtest.Issuer}, discardLogger())
	resolver := auth.NewIdentityResolver(verifier, discardLogger())
	header := authtest.Bearer(issuer.Token(t, "seed.user|1"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := resolver.Resolve(context.Background(), header)
			assert.ErrorIs(t, err, domain.ErrInvalidCredential)
		}()
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		_, err := resolver.Resolve(context.Background(), header)
		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	}

	// One fetch per 12s at 5/min; the test finishes well inside one window
	assert.Equal(t, int64(1), hits.Load())
}

func TestNewKeySet_RequiresURL(t *testing.T) {
	_, err := auth.NewKeySet(auth.KeySetOptions{})
	assert.Error(t, err)
}
