package router

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/moodline/backend/internal/handlers"
	"github.com/moodline/backend/internal/middleware"
	"github.com/moodline/backend/internal/repositories"
	"github.com/moodline/backend/internal/seed"
	"github.com/moodline/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, mgClient *mongo.Client, cfg *config.Config, firebaseAuthClient *auth.Client) {
	db := mgClient.Database(cfg.MongoDB)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	eventRepo := repositories.NewMongoEventRepository(db)
	referenceRepo := repositories.NewMongoReferenceRepository(db)
	friendshipRepo := repositories.NewMongoFriendshipRepository(db)
	widgetRepo := repositories.NewMongoWidgetRepository(db)

	// Seed reference data once at startup; each step skips itself when its
	// collection already holds data.
	if err := seed.Run(context.Background(), referenceRepo); err != nil {
		log.Printf("Error seeding reference data: %v", err)
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require a valid access token) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(userRepo, cfg.JWTAccessSecret))
	log.Println("JWT authentication middleware applied to /api group.")

	// User profile routes
	userHandler := handlers.NewUserHandler()
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, userRepo, widgetRepo)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	// Event routes
	eventHandler := handlers.NewEventHandler(eventRepo, referenceRepo)
	eventHandler.RegisterEventRoutes(api)
	log.Println("Event routes configured.")

	// Widget routes
	widgetHandler := handlers.NewWidgetHandler(widgetRepo, userRepo)
	widgetHandler.RegisterWidgetRoutes(api)
	log.Println("Widget routes configured.")

	log.Println("All routes configured.")
}
