package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/linkup-social/backend/internal/models"
	"github.com/linkup-social/backend/internal/repositories"
	"github.com/linkup-social/backend/internal/visibility"
)

// PollHandler handles poll-related HTTP requests
type PollHandler struct {
	pollRepository    repositories.PollRepository
	commentRepository repositories.CommentRepository
	checker           *visibility.Checker
}

// NewPollHandler creates a new PollHandler
func NewPollHandler(pollRepo repositories.PollRepository, commentRepo repositories.CommentRepository, checker *visibility.Checker) *PollHandler {
	return &PollHandler{
		pollRepository:    pollRepo,
		commentRepository: commentRepo,
		checker:           checker,
	}
}

// RegisterPollRoutes registers poll-related routes
func (h *PollHandler) RegisterPollRoutes(g *echo.Group) {
	g.POST("/polls", h.CreatePoll)
	g.GET("/polls/:id", h.GetPoll)
	g.GET("/polls", h.GetMyPolls)
	g.DELETE("/polls/:id", h.DeletePoll)
	g.POST("/polls/:id/votes", h.Vote)
}

// CreatePoll creates a poll owned by the authenticated user
func (h *PollHandler) CreatePoll(c echo.Context) error {
	var req models.CreatePollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	options := make([]models.PollOption, 0, len(req.Options))
	for _, text := range req.Options {
		options = append(options, models.PollOption{Text: text})
	}

	poll := &models.Poll{
		UserID:       currentUserID(c),
		Question:     req.Question,
		Description:  req.Description,
		Options:      options,
		IsFriendOnly: req.IsFriendOnly,
	}
	if err := h.pollRepository.CreatePoll(c.Request().Context(), poll); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, poll)
}

// GetPoll retrieves a single poll. Public polls are visible to anyone;
// friend-only polls fall back to the owner-or-friend rule.
func (h *PollHandler) GetPoll(c echo.Context) error {
	poll, err := h.pollRepository.GetPollByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Poll not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ok, err := h.checker.CanView(currentUserID(c), poll.UserID, visibility.PollFlags(poll.IsFriendOnly))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to view this poll")
	}

	return c.JSON(http.StatusOK, poll)
}

// GetMyPolls lists the authenticated user's own polls
func (h *PollHandler) GetMyPolls(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	polls, err := h.pollRepository.GetPollsByUserID(c.Request().Context(), currentUserID(c), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, polls)
}

// DeletePoll deletes a poll and its comments; only the owner may do so
func (h *PollHandler) DeletePoll(c echo.Context) error {
	pollID := c.Param("id")
	poll, err := h.pollRepository.GetPollByID(c.Request().Context(), pollID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Poll not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if poll.UserID != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own polls")
	}

	if err := h.pollRepository.DeletePoll(c.Request().Context(), pollID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.commentRepository.DeleteCommentsByParent(models.ParentKindPoll, pollID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// Vote records the caller's answer. Answering twice is a Conflict; voting is
// gated by the same visibility rule as reading.
func (h *PollHandler) Vote(c echo.Context) error {
	var req models.VoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pollID := c.Param("id")
	poll, err := h.pollRepository.GetPollByID(c.Request().Context(), pollID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Poll not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	callerID := currentUserID(c)
	ok, err := h.checker.CanView(callerID, poll.UserID, visibility.PollFlags(poll.IsFriendOnly))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to answer this poll")
	}

	if err := h.pollRepository.Vote(c.Request().Context(), pollID, callerID, *req.OptionIndex); err != nil {
		switch {
		case errors.Is(err, repositories.ErrAlreadyVoted):
			return echo.NewHTTPError(http.StatusConflict, "You already answered this poll")
		case errors.Is(err, repositories.ErrInvalidOption):
			return echo.NewHTTPError(http.StatusBadRequest, "Option index out of range")
		case errors.Is(err, repositories.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Poll not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"option_index": *req.OptionIndex})
}
