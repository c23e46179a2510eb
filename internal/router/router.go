package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/linkup-social/backend/internal/chat"
	"github.com/linkup-social/backend/internal/handlers"
	"github.com/linkup-social/backend/internal/middleware"
	"github.com/linkup-social/backend/internal/models"
	"github.com/linkup-social/backend/internal/repositories"
	"github.com/linkup-social/backend/internal/visibility"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database("linkup")
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	pollRepo := repositories.NewMongoPollRepository(mongoDB)
	messageRepo := repositories.NewMongoMessageRepository(mongoDB)

	// Shared visibility checker: feed, single-item reads and search all go
	// through the same predicate
	checker := visibility.NewChecker(friendshipRepo)

	// Process-scoped chat connection registry
	hub := chat.NewHub()

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, userRepo)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, commentRepo, checker)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Poll routes
	pollHandler := handlers.NewPollHandler(pollRepo, commentRepo, checker)
	pollHandler.RegisterPollRoutes(api)
	log.Println("Poll routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, pollRepo, checker)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, friendshipRepo)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Search routes
	searchHandler := handlers.NewSearchHandler(userRepo, postRepo, pollRepo, friendshipRepo)
	searchHandler.RegisterSearchRoutes(api)
	log.Println("Search routes configured.")

	// Chat routes
	chatHandler := handlers.NewChatHandler(hub, messageRepo, userRepo)
	chatHandler.RegisterChatRoutes(api)
	log.Println("Chat routes configured.")

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminOnly())
	adminHandler := handlers.NewAdminHandler(userRepo, postRepo, pollRepo, commentRepo, messageRepo, hub)
	adminHandler.RegisterAdminRoutes(adminGroup)
	searchHandler.RegisterAdminSearchRoutes(adminGroup)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}
