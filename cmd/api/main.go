package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/chat"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/notify"
	"storefront/internal/payment"
	"storefront/internal/ratelimit"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	loc, err := cfg.Revenue.Location()
	if err != nil {
		return fmt.Errorf("failed to load revenue timezone: %w", err)
	}

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	engagementRepo := repository.NewEngagementRepository(pool, logger)

	// Carts and rate limits live in Redis when it is reachable, in memory otherwise
	cartStore, limiter, closeRedis := newCartStoreAndLimiter(ctx, cfg, logger)
	defer closeRedis()

	uploads := newUploadStore(ctx, cfg.Storage, logger)

	var gateway payment.Gateway = payment.Disabled{}
	if cfg.Payment.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.Payment.StripeSecretKey, cfg.Payment.StripeWebhookSecret, cfg.Payment.Currency, logger)
	} else {
		logger.Warn().Msg("STRIPE_SECRET_KEY not set, payments disabled")
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.SMTP.Host != "" {
		mailer, err := notify.NewMailNotifier(cfg.SMTP, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise mail notifier, confirmation e-mails disabled")
		} else {
			notifier = mailer
		}
	}

	m := metrics.New()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	secureCookies := strings.HasPrefix(cfg.Auth.GoogleCallbackURL, "https://")
	oauthEnabled := auth.SetupOAuth(cfg.Auth, secureCookies, logger)

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, logger)
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, gateway, notifier, m, logger)
	revenueService := service.NewRevenueService(orderRepo, loc, logger)
	userService := service.NewUserService(userRepo, logger)
	engagementService := service.NewEngagementService(engagementRepo, productRepo, logger)
	cartService := service.NewCartService(cartStore, orderService, logger)
	assistant := chat.NewAssistant(productService, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Category:   handler.NewCategoryHandler(categoryService, logger),
		Product:    handler.NewProductHandler(productService, logger),
		Order:      handler.NewOrderHandler(orderService, logger),
		Payment:    handler.NewPaymentHandler(orderService, gateway, logger),
		Cart:       handler.NewCartHandler(cartService, logger),
		Revenue:    handler.NewRevenueHandler(revenueService, logger),
		User:       handler.NewUserHandler(userService, logger),
		Engagement: handler.NewEngagementHandler(engagementService, logger),
		Auth:       handler.NewAuthHandler(userService, tokens, oauthEnabled, secureCookies, logger),
		Upload:     handler.NewUploadHandler(uploads, logger),
		Chat:       handler.NewChatHandler(assistant, logger),
	}

	// Initialize router
	mux := router.New(handlers, router.Options{
		Tokens:    tokens,
		Metrics:   m,
		Limiter:   limiter,
		APIKey:    cfg.Auth.APIKey,
		UploadDir: cfg.Storage.LocalDir,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

func newCartStoreAndLimiter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cart.Store, ratelimit.Limiter, func()) {
	memLimiter := ratelimit.NewMemoryLimiter(cfg.Server.RateLimit, time.Minute)
	if !cfg.Redis.Enabled {
		logger.Info().Msg("redis disabled, carts and rate limits kept in memory")
		return cart.NewMemoryStore(), memLimiter, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().
			Err(err).
			Str("addr", cfg.Redis.Addr).
			Msg("failed to reach redis, falling back to in-memory carts and rate limits")
		_ = client.Close()
		return cart.NewMemoryStore(), memLimiter, func() {}
	}

	logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	return cart.NewRedisStore(client, cfg.Redis.CartTTL, logger),
		ratelimit.NewRedisLimiter(client, cfg.Server.RateLimit, time.Minute, logger),
		func() { _ = client.Close() }
}

func newUploadStore(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) storage.Store {
	local := storage.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL, logger)

	var (
		remote storage.Store
		err    error
	)
	switch cfg.Backend {
	case "s3":
		remote, err = storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix, logger)
	case "minio":
		remote, err = storage.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccess, cfg.MinioSecret, cfg.MinioBucket, cfg.MinioSecure, logger)
	default:
		logger.Info().Str("dir", cfg.LocalDir).Msg("using local file system for uploads")
		return local
	}

	if err != nil {
		logger.Warn().
			Err(err).
			Str("backend", cfg.Backend).
			Msg("failed to initialise upload storage, falling back to local file system only")
		return local
	}
	return storage.NewFallbackStore(remote, local, logger)
}
