package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/linkup-social/backend/internal/chat"
	"github.com/linkup-social/backend/internal/repositories"
)

// AdminHandler serves the admin dashboard endpoints
type AdminHandler struct {
	userRepository    repositories.UserRepository
	postRepository    repositories.PostRepository
	pollRepository    repositories.PollRepository
	commentRepository repositories.CommentRepository
	messageRepository repositories.MessageRepository
	hub               *chat.Hub
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	pollRepo repositories.PollRepository,
	commentRepo repositories.CommentRepository,
	messageRepo repositories.MessageRepository,
	hub *chat.Hub,
) *AdminHandler {
	return &AdminHandler{
		userRepository:    userRepo,
		postRepository:    postRepo,
		pollRepository:    pollRepo,
		commentRepository: commentRepo,
		messageRepository: messageRepo,
		hub:               hub,
	}
}

// RegisterAdminRoutes registers admin dashboard routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/stats", h.GetStats)
}

// GetStats returns entity counts and live connection totals
func (h *AdminHandler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.userRepository.CountUsers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	posts, err := h.postRepository.CountPosts(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	polls, err := h.pollRepository.CountPolls(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	comments, err := h.commentRepository.CountComments()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	messages, err := h.messageRepository.CountMessages(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users":            users,
		"posts":            posts,
		"polls":            polls,
		"comments":         comments,
		"messages":         messages,
		"chat_connections": h.hub.OnlineCount(),
	})
}
