package main

import (
	"context"
	"log"
	"net/http"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/linkup-social/backend/internal/router"
	"github.com/linkup-social/backend/pkg/config"
	"github.com/linkup-social/backend/pkg/firebase"
	"github.com/linkup-social/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase if credentials are configured; local JWT auth works
	// without it
	var firebaseAuthClient *fbauth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuthClient = firebaseApp.AuthClient
	} else {
		log.Println("Firebase credentials not configured; firebase-login disabled.")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Outside development mode, unexpected failures report a generic message
	// instead of leaking internals
	e.HTTPErrorHandler = newHTTPErrorHandler(e, cfg.IsDevelopment())

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseAuthClient)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

// newHTTPErrorHandler wraps echo's default handler, masking 5xx detail in
// production
func newHTTPErrorHandler(e *echo.Echo, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if !development {
			if he, ok := err.(*echo.HTTPError); !ok || he.Code >= http.StatusInternalServerError {
				c.Logger().Error(err)
				err = echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
			}
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
