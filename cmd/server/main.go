package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/fivemhub/backend/config"
	"github.com/fivemhub/backend/internal/auth"
	"github.com/fivemhub/backend/internal/cache"
	"github.com/fivemhub/backend/internal/database"
	"github.com/fivemhub/backend/internal/events"
	"github.com/fivemhub/backend/internal/handlers"
	"github.com/fivemhub/backend/internal/middleware"
	"github.com/fivemhub/backend/internal/notify"
	"github.com/fivemhub/backend/internal/payments"
	"github.com/fivemhub/backend/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	log.Println("Running database migrations...")
	if err := database.RunMigrations(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Connect to Redis
	redis, err := cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("Running without Redis - rate limits are per-instance and the admin feed is disabled")
		redis = nil
	} else {
		defer redis.Close()
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	notifier := notify.New(cfg.Discord)
	defer notifier.Flush()

	// Leave the provider interface nil when PayPal is unavailable; a typed-nil
	// *payments.Service would defeat the handler's nil checks.
	var paymentProvider handlers.PaymentProvider
	if paymentsService, err := payments.New(cfg.PayPal, cfg.Ads); err != nil {
		log.Printf("Warning: PayPal unavailable: %v", err)
		log.Println("Running without payments - ad order endpoints will return 503")
	} else {
		paymentProvider = paymentsService
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	scriptRepo := repository.NewScriptRepository(db)
	giveawayRepo := repository.NewGiveawayRepository(db)
	adRepo := repository.NewAdRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Admin event feed (only if Redis is available)
	var hub *events.Hub
	var feedHandler *events.Handler
	if redis != nil {
		hub = events.NewHub(redis)
		go hub.Run()
		feedHandler = events.NewHandler(hub, cfg.CORS.AllowedOrigins)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtService)
	scriptHandler := handlers.NewScriptHandler(scriptRepo, userRepo, notifier, redis, hub)
	giveawayHandler := handlers.NewGiveawayHandler(giveawayRepo, userRepo, notifier, redis, hub)
	adHandler := handlers.NewAdHandler(adRepo, orderRepo, userRepo, paymentProvider, notifier, redis, hub)
	adminHandler := handlers.NewAdminHandler(scriptRepo, giveawayRepo, adRepo, userRepo, notifier, redis, hub)

	// Initialize rate limiter for write endpoints
	rateLimiter := middleware.NewRateLimiter(cfg.API.RateLimitWritesPerSec, redis)
	rateLimiter.Cleanup()

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	router.GET("/api/v1/scripts", scriptHandler.ListScripts)
	router.GET("/api/v1/scripts/:id", scriptHandler.GetScript)
	router.GET("/api/v1/giveaways", giveawayHandler.ListGiveaways)
	router.GET("/api/v1/giveaways/:id", giveawayHandler.GetGiveaway)
	router.GET("/api/v1/ads", adHandler.ListAds)

	// Admin event feed (only if Redis is available)
	if feedHandler != nil {
		router.GET("/ws/admin",
			middleware.AuthMiddleware(jwtService),
			middleware.RequireCapability(auth.CapModerateContent),
			feedHandler.HandleAdminFeed)
	}

	// Protected routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	{
		api.GET("/me", authHandler.GetMe)

		submit := middleware.RequireCapability(auth.CapSubmitContent)
		throttled := middleware.RateLimitMiddleware(rateLimiter)

		// Script routes
		api.POST("/scripts", submit, throttled, scriptHandler.CreateScript)
		api.PATCH("/scripts/:id", throttled, scriptHandler.UpdateScript)
		api.DELETE("/scripts/:id", scriptHandler.DeleteScript)
		api.GET("/me/scripts", scriptHandler.ListMyScripts)

		// Giveaway routes
		api.POST("/giveaways", submit, throttled, giveawayHandler.CreateGiveaway)
		api.PATCH("/giveaways/:id", throttled, giveawayHandler.UpdateGiveaway)
		api.DELETE("/giveaways/:id", giveawayHandler.DeleteGiveaway)
		api.GET("/me/giveaways", giveawayHandler.ListMyGiveaways)

		// Ad routes
		api.POST("/ads", middleware.RequireCapability(auth.CapPurchaseAds), throttled, adHandler.CreateAd)
		api.PATCH("/ads/:id", throttled, adHandler.UpdateAd)
		api.DELETE("/ads/:id", adHandler.DeleteAd)
		api.GET("/me/ads", adHandler.ListMyAds)

		// Ad purchase routes
		api.GET("/ads/payment-config", adHandler.GetPaymentConfig)
		api.POST("/ads/:id/orders", middleware.RequireCapability(auth.CapPurchaseAds), adHandler.CreateOrder)
		api.POST("/orders/:orderID/capture", middleware.RequireCapability(auth.CapPurchaseAds), adHandler.CaptureOrder)

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.RequireCapability(auth.CapModerateContent))
		{
			admin.GET("/pending", adminHandler.ListPending)
			admin.POST("/scripts/:id/decision", adminHandler.DecideScript)
			admin.POST("/giveaways/:id/decision", adminHandler.DecideGiveaway)
			admin.POST("/ads/:id/decision", adminHandler.DecideAd)

			users := admin.Group("")
			users.Use(middleware.RequireCapability(auth.CapManageUsers))
			{
				users.GET("/users", adminHandler.ListUsers)
				users.PATCH("/users/:id/role", adminHandler.UpdateUserRole)
			}
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
