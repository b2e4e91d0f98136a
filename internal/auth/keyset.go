package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

// KeySetOptions configures the remote JWKS cache
type KeySetOptions struct {
	URL               string
	RefreshInterval   time.Duration // Background refresh period
	RequestsPerMinute int           // Cap on refreshes triggered by unknown key ids
	HTTPTimeout       time.Duration
	Logger            *slog.Logger
}

// KeySet is the process-wide cache of trusted signing keys.
//
// It is created without I/O. The first Keyfunc call fetches the JWKS; after that
// keyfunc refreshes in the background and on unknown kids (rate limited), so
// concurrent verifications keep using the cached keys while a refresh runs.
// A failed first fetch is retried on a later call, at most RequestsPerMinute
// times a minute; calls in between fail fast with the last fetch error.
type KeySet struct {
	opts KeySetOptions

	mu       sync.Mutex
	kf       keyfunc.Keyfunc
	cancel   context.CancelFunc
	retry    *rate.Limiter
	inflight chan struct{} // closed when the running fetch finishes
	lastErr  error
}

// NewKeySet creates a lazily initialized KeySet backed by a remote JWKS URL
func NewKeySet(opts KeySetOptions) (*KeySet, error) {
	if opts.URL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = time.Hour
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 5
	}
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &KeySet{
		opts:  opts,
		retry: rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1),
	}, nil
}

// NewStaticKeySet wraps an already built keyfunc (e.g. from an inline JWKS)
func NewStaticKeySet(kf keyfunc.Keyfunc) *KeySet {
	return &KeySet{kf: kf}
}

// Keyfunc implements jwt.Keyfunc
func (k *KeySet) Keyfunc(token *jwt.Token) (interface{}, error) {
	kf, err := k.get()
	if err != nil {
		return nil, err
	}
	return kf.Keyfunc(token)
}

// Close stops the background refresh goroutine. Safe to call on an unused KeySet.
func (k *KeySet) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.cancel != nil {
		k.cancel()
		k.cancel = nil
	}
	return nil
}

// ErrKeysUnavailable is returned while the first JWKS fetch is failing and
// the retry budget is spent.
var ErrKeysUnavailable = errors.New("signing keys unavailable")

func (k *KeySet) get() (keyfunc.Keyfunc, error) {
	for {
		k.mu.Lock()
		if k.kf != nil {
			kf := k.kf
			k.mu.Unlock()
			return kf, nil
		}

		// Another caller is fetching; wait for it and re-check
		if wait := k.inflight; wait != nil {
			k.mu.Unlock()
			<-wait
			continue
		}

		if !k.retry.Allow() {
			err := k.lastErr
			k.mu.Unlock()
			return nil, fmt.Errorf("%w: %v", ErrKeysUnavailable, err)
		}

		done := make(chan struct{})
		k.inflight = done
		k.mu.Unlock()

		kf, cancel, err := k.build()

		k.mu.Lock()
		k.inflight = nil
		if err != nil {
			k.lastErr = err
		} else {
			k.kf = kf
			k.cancel = cancel
			k.lastErr = nil
		}
		k.mu.Unlock()
		close(done)

		if err != nil {
			k.opts.Logger.Error("JWKS fetch failed", "jwks_url", k.opts.URL, "error", err)
			return nil, err
		}
		k.opts.Logger.Info("JWKS cache initialized", "jwks_url", k.opts.URL)
		return kf, nil
	}
}

func (k *KeySet) build() (keyfunc.Keyfunc, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	storage, err := jwkset.NewStorageFromHTTP(k.opts.URL, jwkset.HTTPClientStorageOptions{
		Ctx:             ctx,
		HTTPTimeout:     k.opts.HTTPTimeout,
		RefreshInterval: k.opts.RefreshInterval,
		RefreshErrorHandler: func(ctx context.Context, err error) {
			k.opts.Logger.ErrorContext(ctx, "JWKS refresh failed", "jwks_url", k.opts.URL, "error", err)
		},
	})
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("fetch JWKS: %w", err)
	}

	perRequest := time.Minute / time.Duration(k.opts.RequestsPerMinute)
	client, err := jwkset.NewHTTPClient(jwkset.HTTPClientOptions{
		HTTPURLs:          map[string]jwkset.Storage{k.opts.URL: storage},
		RateLimitWaitMax:  time.Second,
		RefreshUnknownKID: rate.NewLimiter(rate.Every(perRequest), 1),
	})
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("create JWKS client: %w", err)
	}

	kf, err := keyfunc.New(keyfunc.Options{
		Ctx:     ctx,
		Storage: client,
	})
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("create keyfunc: %w", err)
	}

	return kf, cancel, nil
}
