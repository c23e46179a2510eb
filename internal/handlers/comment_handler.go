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

// CommentHandler handles comment-related HTTP requests. Comments carry a
// tagged parent (post or poll), so the parent is resolved by its declared
// kind rather than by probing both collections.
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	pollRepository    repositories.PollRepository
	checker           *visibility.Checker
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	pollRepo repositories.PollRepository,
	checker *visibility.Checker,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		pollRepository:    pollRepo,
		checker:           checker,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.GET("/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// parentFlags resolves a tagged parent to its owner and visibility flags
func (h *CommentHandler) parentFlags(c echo.Context, parentKind, parentID string) (uint, visibility.Flags, error) {
	switch parentKind {
	case models.ParentKindPost:
		post, err := h.postRepository.GetPostByID(c.Request().Context(), parentID)
		if err != nil {
			return 0, visibility.Flags{}, err
		}
		return post.UserID, visibility.PostFlags(), nil
	case models.ParentKindPoll:
		poll, err := h.pollRepository.GetPollByID(c.Request().Context(), parentID)
		if err != nil {
			return 0, visibility.Flags{}, err
		}
		return poll.UserID, visibility.PollFlags(poll.IsFriendOnly), nil
	}
	return 0, visibility.Flags{}, repositories.ErrNotFound
}

// adjustParentCount bumps the parent's denormalized comments count
func (h *CommentHandler) adjustParentCount(c echo.Context, parentKind, parentID string, delta int) error {
	switch {
	case parentKind == models.ParentKindPost && delta > 0:
		return h.postRepository.IncrementCommentsCount(c.Request().Context(), parentID)
	case parentKind == models.ParentKindPost:
		return h.postRepository.DecrementCommentsCount(c.Request().Context(), parentID)
	case delta > 0:
		return h.pollRepository.IncrementCommentsCount(c.Request().Context(), parentID)
	default:
		return h.pollRepository.DecrementCommentsCount(c.Request().Context(), parentID)
	}
}

// CreateComment creates a comment on a post or poll the caller can view
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ownerID, flags, err := h.parentFlags(c, req.ParentKind, req.ParentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Parent not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	callerID := currentUserID(c)
	ok, err := h.checker.CanView(callerID, ownerID, flags)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to comment here")
	}

	comment := &models.Comment{
		ParentKind: req.ParentKind,
		ParentID:   req.ParentID,
		UserID:     callerID,
		Content:    req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.adjustParentCount(c, req.ParentKind, req.ParentID, 1); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetComments lists comments on a post or poll the caller can view
func (h *CommentHandler) GetComments(c echo.Context) error {
	parentKind := c.QueryParam("parent_kind")
	parentID := c.QueryParam("parent_id")
	if (parentKind != models.ParentKindPost && parentKind != models.ParentKindPoll) || parentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "parent_kind and parent_id query parameters are required")
	}

	ownerID, flags, err := h.parentFlags(c, parentKind, parentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Parent not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ok, err := h.checker.CanView(currentUserID(c), ownerID, flags)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to view these comments")
	}

	comments, err := h.commentRepository.GetCommentsByParent(parentKind, parentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, comments)
}

// DeleteComment deletes a comment; only its author may do so
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.UserID != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own comments")
	}

	if err := h.commentRepository.DeleteComment(uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.adjustParentCount(c, comment.ParentKind, comment.ParentID, -1); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
