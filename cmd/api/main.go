// Package main provides the entrypoint for the QuickCart API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/api"
	"github.com/quickcart/quickcart/internal/api/handler"
	"github.com/quickcart/quickcart/internal/api/middleware"
	"github.com/quickcart/quickcart/internal/auth"
	"github.com/quickcart/quickcart/internal/database"
	"github.com/quickcart/quickcart/internal/events"
	"github.com/quickcart/quickcart/internal/order"
	"github.com/quickcart/quickcart/internal/promotion"
	"github.com/quickcart/quickcart/internal/push"
	"github.com/quickcart/quickcart/internal/push/expo"
	"github.com/quickcart/quickcart/internal/review"
	"github.com/quickcart/quickcart/internal/telemetry"
	"github.com/quickcart/quickcart/internal/token"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "quickcart-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting QuickCart API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Connect to Redis (token cache and receipt check queue)
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", redisAddr).Msg("failed to connect to redis")
	}
	log.Info().Str("addr", redisAddr).Msg("redis connected")

	// Initialize auth repositories and service
	authUserRepo := auth.NewPostgresUserRepository(pool)
	authRefreshRepo := auth.NewPostgresRefreshTokenRepository(pool)

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.quickcart.dev",
		Audience:   "quickcart-api",
	})

	authService := auth.NewService(auth.ServiceConfig{
		Verifier:    auth.NewPostgresCredentialVerifier(pool),
		JWTService:  jwtService,
		UserRepo:    authUserRepo,
		RefreshRepo: authRefreshRepo,
	})
	log.Info().Msg("auth service initialized")

	// Initialize Expo push gateway client
	expoClient := expo.NewClient(expo.ClientConfig{
		AccessToken: os.Getenv("EXPO_ACCESS_TOKEN"),
	})

	// Initialize token registry with Redis read-aside cache
	tokenRepo := token.NewCachedRepository(
		token.NewPostgresRepository(pool),
		redisClient,
		5*time.Minute,
		log,
	)
	tokenService := token.NewService(tokenRepo, expoClient, log)
	log.Info().Msg("token service initialized")

	// Initialize push pipeline: dispatcher, reconciler, receipt check queue
	dispatcher := push.NewDispatcher(expoClient, 0, log)
	reconciler := push.NewReconciler(expoClient, tokenService, log)
	checkStore := push.NewRedisCheckStore(redisClient, push.DefaultReceiptDelay, log)
	pushService := push.NewService(tokenService, dispatcher, reconciler, checkStore, push.DefaultReceiptDelay, log)
	log.Info().Msg("push service initialized")

	// Initialize order repository and service
	orderRepo := order.NewPostgresRepository(pool)
	orderService := order.NewService(orderRepo, pushService, log)
	log.Info().Msg("order service initialized")

	// Initialize broadcast publisher (optional - promotions degrade gracefully)
	var broadcastPublisher promotion.BroadcastPublisher
	pubsubProject := os.Getenv("PUBSUB_PROJECT_ID")
	if pubsubProject != "" {
		topicName := os.Getenv("PUBSUB_TOPIC")
		if topicName == "" {
			topicName = "notification-jobs"
		}
		publisher, err := events.NewPublisher(ctx, events.PublisherConfig{
			ProjectID: pubsubProject,
			TopicName: topicName,
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub publisher")
		}
		defer publisher.Close()
		broadcastPublisher = publisher
		log.Info().Str("topic", topicName).Msg("pubsub publisher initialized")
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - promotion broadcasts disabled")
	}

	// Initialize promotion repository and service
	promotionRepo := promotion.NewPostgresRepository(pool)
	promotionService := promotion.NewService(promotionRepo, broadcastPublisher, log)
	log.Info().Msg("promotion service initialized")

	// Initialize review repository and service
	reviewRepo := review.NewPostgresRepository(pool)
	reviewService := review.NewService(reviewRepo)
	log.Info().Msg("review service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		AuthService:      authService,
		TokenService:     tokenService,
		OrderService:     orderService,
		PromotionService: promotionService,
		ReviewService:    reviewService,
		DependencyChecks: []handler.DependencyCheck{
			{Name: "postgres", Check: pool.Ping},
			{Name: "redis", Check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}},
		},
		DevAuthEnabled: os.Getenv("AUTH_DEV_MODE") == "true",
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
