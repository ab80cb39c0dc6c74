// Package main provides the entrypoint for the QuickCart background worker.
// It consumes broadcast notification jobs from Pub/Sub and reconciles push
// delivery receipts.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/database"
	"github.com/quickcart/quickcart/internal/push"
	"github.com/quickcart/quickcart/internal/push/expo"
	"github.com/quickcart/quickcart/internal/token"
	"github.com/quickcart/quickcart/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "quickcart-worker"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting QuickCart worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
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

	// Initialize push pipeline: dispatcher, reconciler, receipt check queue
	dispatcher := push.NewDispatcher(expoClient, 0, log)
	reconciler := push.NewReconciler(expoClient, tokenService, log)
	checkStore := push.NewRedisCheckStore(redisClient, push.DefaultReceiptDelay, log)
	pushService := push.NewService(tokenService, dispatcher, reconciler, checkStore, push.DefaultReceiptDelay, log)
	log.Info().Msg("push pipeline initialized")

	// Start the receipt poller
	poller := worker.NewReceiptPoller(worker.ReceiptPollerConfig{
		Source: checkStore,
		Runner: reconciler,
		Logger: log,
	})
	go poller.Run(ctx)

	// Start the Pub/Sub handler for broadcast jobs
	pubsubProject := os.Getenv("PUBSUB_PROJECT_ID")
	if pubsubProject != "" {
		subscriptionName := os.Getenv("PUBSUB_SUBSCRIPTION")
		if subscriptionName == "" {
			subscriptionName = "notification-jobs-worker"
		}

		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        pubsubProject,
			SubscriptionName: subscriptionName,
			Broadcaster:      pushService,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub handler error")
			}
		}()
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - broadcast jobs disabled")
	}

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
