package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/caloria-app/caloria-backend/docs"
	"github.com/caloria-app/caloria-backend/internal/auth"
	"github.com/caloria-app/caloria-backend/internal/config"
	"github.com/caloria-app/caloria-backend/internal/events"
	"github.com/caloria-app/caloria-backend/internal/handler"
	"github.com/caloria-app/caloria-backend/internal/middleware"
	"github.com/caloria-app/caloria-backend/internal/oauth"
	"github.com/caloria-app/caloria-backend/internal/repository/ai"
	"github.com/caloria-app/caloria-backend/internal/repository/postgres"
	"github.com/caloria-app/caloria-backend/internal/repository/storage"
	"github.com/caloria-app/caloria-backend/internal/service"
	"github.com/caloria-app/caloria-backend/internal/websocket"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(pool)
	diaryRepo := postgres.NewDiaryRepository(pool)

	// Image storage is optional, uploads stay disabled without credentials
	var imageStore storage.ImageRepository
	if cfg.S3.AccessKeyID != "" {
		s3Store, err := storage.NewS3ImageRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		imageStore = s3Store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("S3 image storage enabled")
	} else {
		log.Warn().Msg("S3 credentials not configured, image uploads disabled")
	}

	// Auth primitives
	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// OAuth providers
	googleProvider := oauth.NewGoogleProvider(cfg.Google)
	providers := oauth.NewRegistry(googleProvider)

	// External AI clients
	visionClient := ai.NewOpenAIClient(cfg.OpenAI)
	assistantClient := ai.NewClaudeClient(cfg.Claude)

	// Event bus and websocket hub
	bus := events.NewBus(log.Logger)
	hub := websocket.NewHub()
	websocket.BindEventBus(bus, hub)

	// Initialize services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, hasher, tokens, providers)
	userService := service.NewUserService(userRepo)
	imageService := service.NewImageService(imageStore)
	diaryService := service.NewDiaryService(diaryRepo, imageService, bus)
	diaryService.BindEventBus(bus)
	foodService := service.NewFoodService(visionClient, imageService, bus)
	assistantService := service.NewAssistantService(assistantClient)

	// Auth and rate limit middleware
	authMiddleware := middleware.NewAuthMiddleware(tokens)
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, googleProvider)
	userHandler := handler.NewUserHandler(userService)
	diaryHandler := handler.NewDiaryHandler(diaryService)
	foodHandler := handler.NewFoodHandler(foodService)
	assistantHandler := handler.NewAssistantHandler(assistantService)
	wsHandler := handler.NewWebSocketHandler(hub, websocket.NewTokenValidator(tokens), cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Prometheus request metrics
	e.Use(middleware.Metrics())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, authHandler, userHandler, diaryHandler, foodHandler, assistantHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
