package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/caloria-app/caloria-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	diaryHandler *DiaryHandler,
	foodHandler *FoodHandler,
	assistantHandler *AssistantHandler,
	wsHandler *WebSocketHandler,
) {
	// Metrics and API docs
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", ServeOpenAPI3Spec)

	// WebSocket endpoint (token-authenticated at upgrade)
	e.GET("/ws", wsHandler.HandleWS)

	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/google", authHandler.GoogleRedirect)
	auth.GET("/google/callback", authHandler.GoogleCallback)

	// Auth routes (protected)
	authProtected := api.Group("/auth")
	authProtected.Use(authMiddleware.Authenticate())
	authProtected.POST("/logout", authHandler.Logout)
	authProtected.GET("/me", authHandler.Me)

	// User routes (protected)
	users := api.Group("/users")
	users.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	users.GET("/me", userHandler.GetProfile)
	users.PATCH("/me/target-calories", userHandler.UpdateTargetCalories)

	// Diary routes (protected)
	diaries := api.Group("/diaries")
	diaries.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	diaries.POST("", diaryHandler.CreateDiary)
	diaries.GET("", diaryHandler.GetDiaries)
	diaries.GET("/period", diaryHandler.GetDiariesByPeriod)
	diaries.GET("/:id", diaryHandler.GetDiary)
	diaries.PUT("/:id", diaryHandler.UpdateDiary)
	diaries.DELETE("/:id", diaryHandler.DeleteDiary)

	// Food analysis routes (protected)
	food := api.Group("/food")
	food.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	food.POST("/analyze", foodHandler.AnalyzeFood)

	// Assistant routes (protected)
	assistant := api.Group("/assistant")
	assistant.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	assistant.POST("", assistantHandler.Ask)
	assistant.POST("/stream", assistantHandler.Stream)
}
