package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog/internal/auth"
	"catalog/internal/config"
	"catalog/internal/domain/repositories"
	"catalog/internal/handler"
	"catalog/internal/middleware"
	"catalog/internal/repository/memory"
	"catalog/internal/repository/postgres"
	authsvc "catalog/internal/service/auth"
	"catalog/internal/service/catalog"
	"catalog/internal/seed"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Signing keys are fetched on the first authenticated request
	keySet, err := auth.NewKeySet(auth.KeySetOptions{
		URL:               cfg.JWKSURL,
		RefreshInterval:   cfg.JWKSRefresh,
		RequestsPerMinute: cfg.JWKSPerMinute,
		HTTPTimeout:       cfg.JWKSHTTPTimeout,
		Logger:            logger,
	})
	if err != nil {
		log.Fatalf("Failed to create JWKS key set: %v", err)
	}
	defer keySet.Close()

	verifier := auth.NewJWTVerifier(keySet, auth.VerifierOptions{
		Audience:   cfg.Audience,
		Issuer:     cfg.Issuer,
		RolesClaim: cfg.RolesClaim,
	}, logger)
	resolver := auth.NewIdentityResolver(verifier, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	var repos repositories.Set
	var ping func(ctx context.Context) error

	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		repos = postgres.NewRepositories(&postgres.RepositoryConfig{Pool: pool, Logger: logger})
		ping = pool.Ping
		logger.Info("database connected")
	} else {
		repos = memory.NewStore().Repositories()
		if err := seedMemoryStore(ctx, repos, logger); err != nil {
			log.Fatalf("Failed to seed in-memory store: %v", err)
		}
		logger.Warn("DATABASE_URL not set: using in-memory store with fixture data")
	}

	categoryService := catalog.NewCategoryService(repos.Categories, logger)
	instrumentService := catalog.NewInstrumentService(
		repos.Instruments,
		repos.Categories,
		repos.Users,
		repos.TxManager,
		authsvc.NewOwnerPolicy(),
		logger,
	)

	mux := handler.NewRouter(handler.Handlers{
		Health:     handler.NewHealthHandler(ping, logger),
		Category:   handler.NewCategoryHandler(categoryService, logger),
		Instrument: handler.NewInstrumentHandler(instrumentService, resolver, cfg.MaxRequestBodySize, logger),
	})

	var h http.Handler = middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.Security(cfg.IsDev()),
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func seedMemoryStore(ctx context.Context, repos repositories.Set, logger *slog.Logger) error {
	fixtures, err := seed.DefaultFixtures()
	if err != nil {
		return err
	}
	return seed.NewSeeder(repos, fixtures, false, logger).SeedAll(ctx)
}
