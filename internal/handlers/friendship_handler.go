package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/linkup-social/backend/internal/models"
	"github.com/linkup-social/backend/internal/repositories"
)

// FriendshipHandler handles HTTP requests related to the friend graph
type FriendshipHandler struct {
	friendshipRepository repositories.FriendshipRepository
	userRepository       repositories.UserRepository // To resolve user records for friends lists
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, userRepo repositories.UserRepository) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository: friendshipRepo,
		userRepository:       userRepo,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendFriendRequest)
	g.GET("/friends/requests/pending", h.GetPendingFriendRequests)
	g.PUT("/friends/request/:senderId", h.ResolveFriendRequest)
	g.GET("/friends", h.GetFriends)
	g.DELETE("/friends/:id", h.DeleteFriend) // Unfriend
}

// SendFriendRequest handles sending a friend request
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	senderID := currentUserID(c)

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if senderID == req.ReceiverID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a friend request to yourself")
	}

	// Check if receiver exists
	if _, err := h.userRepository.GetUserByID(req.ReceiverID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Receiver user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	friendRequest, err := h.friendshipRepository.SendRequest(senderID, req.ReceiverID)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEdge) {
			// Duplicate requests are a no-op: report "not sent", not a failure
			return c.JSON(http.StatusOK, echo.Map{"sent": false, "message": "A request or friendship already exists between these users"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"sent": true, "request": friendRequest})
}

// GetPendingFriendRequests retrieves pending friend requests for the authenticated user
func (h *FriendshipHandler) GetPendingFriendRequests(c echo.Context) error {
	requests, err := h.friendshipRepository.GetPendingForUser(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, requests)
}

// ResolveFriendRequest accepts or declines a pending friend request addressed
// to the authenticated user
func (h *FriendshipHandler) ResolveFriendRequest(c echo.Context) error {
	receiverID := currentUserID(c)
	senderID, err := strconv.ParseUint(c.Param("senderId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid sender ID")
	}

	var req models.ResolveFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.userRepository.GetUserByID(uint(senderID)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Sender user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Decision == "accept" {
		err = h.friendshipRepository.Accept(uint(senderID), receiverID)
	} else {
		err = h.friendshipRepository.Decline(uint(senderID), receiverID)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNoPendingRequest) {
			return echo.NewHTTPError(http.StatusConflict, "No pending friend request from this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"decision": req.Decision})
}

// GetFriends retrieves the list of friends for the authenticated user
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	ids, err := h.friendshipRepository.FriendIDs(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	friends := make([]models.UserCompact, 0, len(ids))
	for _, id := range ids {
		user, err := h.userRepository.GetUserByID(id)
		if err != nil {
			continue // user row gone; skip the stale edge
		}
		friends = append(friends, user.ToCompact())
	}

	return c.JSON(http.StatusOK, friends)
}

// DeleteFriend handles unfriending
func (h *FriendshipHandler) DeleteFriend(c echo.Context) error {
	friendUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid friend user ID")
	}

	if err := h.friendshipRepository.Unfriend(currentUserID(c), uint(friendUserID)); err != nil {
		if errors.Is(err, repositories.ErrNotFriends) {
			return echo.NewHTTPError(http.StatusNotFound, "Friendship not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
