package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/linkup-social/backend/internal/models"
)

// currentClaims pulls the authenticated caller's claims set by the JWT middleware
func currentClaims(c echo.Context) (*models.JwtCustomClaims, bool) {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	return claims, ok
}

// currentUserID returns the caller's user id, or 0 if unauthenticated
func currentUserID(c echo.Context) uint {
	if claims, ok := currentClaims(c); ok {
		return claims.UserID
	}
	return 0
}
