// Package api provides the HTTP API for QuickCart.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/quickcart/quickcart/internal/api/handler"
	"github.com/quickcart/quickcart/internal/api/middleware"
	"github.com/quickcart/quickcart/internal/auth"
	"github.com/quickcart/quickcart/internal/order"
	"github.com/quickcart/quickcart/internal/promotion"
	"github.com/quickcart/quickcart/internal/review"
	"github.com/quickcart/quickcart/internal/token"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	AuthService      *auth.Service
	TokenService     *token.Service
	OrderService     *order.Service
	PromotionService *promotion.Service
	ReviewService    *review.Service
	DependencyChecks []handler.DependencyCheck
	DevAuthEnabled   bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "quickcart-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DependencyChecks...)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	tokenHandler := handler.NewTokenHandler(cfg.TokenService)
	orderHandler := handler.NewOrderHandler(cfg.OrderService)
	promotionHandler := handler.NewPromotionHandler(cfg.PromotionService)
	reviewHandler := handler.NewReviewHandler(cfg.ReviewService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			// logout-all requires authentication
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
			if cfg.DevAuthEnabled {
				r.Post("/dev", authHandler.DevLogin)
			}
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Promotions list is public - standard rate limiting
		r.With(standardRateLimit).Get("/promotions", promotionHandler.ListPromotions)

		// Product reviews are public reads - standard rate limiting
		r.With(standardRateLimit).Get("/products/{productId}/reviews", reviewHandler.ListProductReviews)

		// Guest device bootstrap: token registration is reachable without a
		// session so a device can register before its user logs in.
		r.With(standardRateLimit).Post("/push-tokens", tokenHandler.RegisterToken)

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user

			// Push tokens
			r.Route("/push-tokens", func(r chi.Router) {
				r.Get("/", tokenHandler.ListTokens)
				r.Post("/", tokenHandler.RegisterToken)
				r.Delete("/{token}", tokenHandler.UnregisterToken)
			})

			// Order history
			r.Get("/orders", orderHandler.ListMyOrders)
		})

		// Orders (authenticated) - user-based rate limiting
		r.Route("/orders", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.ListOrders)
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", orderHandler.GetOrder)
				r.Patch("/status", orderHandler.UpdateOrderStatus)
				r.Delete("/", orderHandler.DeleteOrder)
			})
		})

		// Reviews (authenticated writes)
		r.Route("/reviews", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Post("/", reviewHandler.CreateReview)
			r.Delete("/{reviewId}", reviewHandler.DeleteReview)
		})

		// Admin endpoints (authenticated) - for internal operations
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)

			// Promotion creation fans a broadcast out to every device
			r.With(expensiveRateLimit).Post("/promotions", promotionHandler.CreatePromotion)

			// Sales reporting
			r.Get("/sales/monthly", orderHandler.MonthlySales)
		})
	})

	return r
}
