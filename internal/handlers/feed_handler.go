package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/linkup-social/backend/internal/models"
	"github.com/linkup-social/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultFeedPageSize = 10

// FeedHandler assembles the caller's feed: own posts plus friends' posts,
// merged and globally sorted by recency.
//
// The assembly fans out one projection query per friend and merges in memory.
// That is O(F) round trips and fine for small friend lists, but it is a known
// scalability ceiling for large ones.
type FeedHandler struct {
	postRepository       repositories.PostRepository
	userRepository       repositories.UserRepository
	friendshipRepository repositories.FriendshipRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	friendshipRepo repositories.FriendshipRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:       postRepo,
		userRepository:       userRepo,
		friendshipRepository: friendshipRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// EnrichedPost is a post with its author attached
type EnrichedPost struct {
	models.Post
	Author models.UserCompact `json:"author"`
}

// sortFeedEntries orders entries newest first. Exact timestamp ties are
// broken by descending id so pagination stays deterministic.
func sortFeedEntries(entries []models.FeedEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID.Hex() > entries[j].ID.Hex()
	})
}

// windowEntries applies skip/limit over the globally sorted sequence
func windowEntries(entries []models.FeedEntry, skip, limit int) []models.FeedEntry {
	if skip >= len(entries) {
		return nil
	}
	entries = entries[skip:]
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

// assembleFeed resolves the caller's friend set plus the caller, fans out one
// minimal projection query per owner, merges, sorts globally and windows.
// Only the windowed page is hydrated to full posts. A caller with zero
// friends still sees their own posts.
func (h *FeedHandler) assembleFeed(ctx context.Context, callerID uint, skip, limit int) ([]models.Post, int, error) {
	if _, err := h.userRepository.GetUserByID(callerID); err != nil {
		return nil, 0, err
	}

	friendIDs, err := h.friendshipRepository.FriendIDs(callerID)
	if err != nil {
		return nil, 0, err
	}
	owners := append([]uint{callerID}, friendIDs...)

	var merged []models.FeedEntry
	for _, owner := range owners {
		entries, err := h.postRepository.GetFeedEntriesByUserID(ctx, owner)
		if err != nil {
			return nil, 0, err
		}
		merged = append(merged, entries...)
	}

	sortFeedEntries(merged)
	total := len(merged)
	page := windowEntries(merged, skip, limit)

	ids := make([]primitive.ObjectID, len(page))
	for i, e := range page {
		ids[i] = e.ID
	}
	byID, err := h.postRepository.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	posts := make([]models.Post, 0, len(page))
	for _, e := range page {
		if post, ok := byID[e.ID.Hex()]; ok {
			posts = append(posts, post)
		}
	}
	return posts, total, nil
}

// GetFeed returns the caller's paginated feed with author info attached
func (h *FeedHandler) GetFeed(c echo.Context) error {
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 50 {
		limit = defaultFeedPageSize
	}

	posts, totalItems, err := h.assembleFeed(c.Request().Context(), currentUserID(c), skip, limit)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Attach author info, one lookup per distinct owner on the page
	authors := make(map[uint]models.UserCompact)
	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		author, ok := authors[p.UserID]
		if !ok {
			if user, err := h.userRepository.GetUserByID(p.UserID); err == nil {
				author = user.ToCompact()
			}
			authors[p.UserID] = author
		}
		enriched[i] = EnrichedPost{Post: p, Author: author}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": enriched,
		},
		"meta": echo.Map{
			"skip":         skip,
			"itemsPerPage": limit,
			"totalItems":   totalItems,
			"hasNextPage":  skip+limit < totalItems,
		},
	})
}
