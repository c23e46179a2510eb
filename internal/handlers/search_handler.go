package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/linkup-social/backend/internal/models"
	"github.com/linkup-social/backend/internal/repositories"
	"github.com/linkup-social/backend/internal/visibility"
	"golang.org/x/sync/errgroup"
)

// SearchHandler runs keyword search across users, posts and polls. The three
// sub-searches run in parallel; post and poll hits are filtered through the
// visibility policy with the caller's friend set, user hits are not (users
// are always discoverable by name).
type SearchHandler struct {
	userRepository       repositories.UserRepository
	postRepository       repositories.PostRepository
	pollRepository       repositories.PollRepository
	friendshipRepository repositories.FriendshipRepository
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	pollRepo repositories.PollRepository,
	friendshipRepo repositories.FriendshipRepository,
) *SearchHandler {
	return &SearchHandler{
		userRepository:       userRepo,
		postRepository:       postRepo,
		pollRepository:       pollRepo,
		friendshipRepository: friendshipRepo,
	}
}

// RegisterSearchRoutes registers the consumer-facing search route
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
}

// RegisterAdminSearchRoutes registers the admin search variant
func (h *SearchHandler) RegisterAdminSearchRoutes(g *echo.Group) {
	g.GET("/search", h.AdminSearch)
}

func validSearchMode(mode string) bool {
	switch mode {
	case models.SearchModeUsers, models.SearchModePosts, models.SearchModePolls, models.SearchModeAll:
		return true
	}
	return false
}

// runSearch executes the requested sub-searches in parallel and concatenates
// the results users-then-posts-then-polls. A whitespace-only query yields
// zero terms; every sub-search is then skipped and the result is empty.
func (h *SearchHandler) runSearch(ctx context.Context, query, mode string) ([]models.User, []models.Post, []models.Poll, error) {
	terms := strings.Fields(query)

	var (
		users []models.User
		posts []models.Post
		polls []models.Poll
	)
	if len(terms) == 0 {
		return users, posts, polls, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if mode == models.SearchModeUsers || mode == models.SearchModeAll {
		g.Go(func() error {
			var err error
			users, err = h.userRepository.SearchUsers(terms)
			return err
		})
	}
	if mode == models.SearchModePosts || mode == models.SearchModeAll {
		g.Go(func() error {
			var err error
			posts, err = h.postRepository.SearchPosts(ctx, terms)
			return err
		})
	}
	if mode == models.SearchModePolls || mode == models.SearchModeAll {
		g.Go(func() error {
			var err error
			polls, err = h.pollRepository.SearchPolls(ctx, terms)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return users, posts, polls, nil
}

// assembleResults tags and concatenates hits into the heterogeneous response
// sequence; ordering is users, posts, polls as fetched, with no ranking
func assembleResults(users []models.User, posts []models.Post, polls []models.Poll) []models.SearchResult {
	results := make([]models.SearchResult, 0, len(users)+len(posts)+len(polls))
	for _, u := range users {
		results = append(results, models.SearchResult{Type: "user", Data: u.ToCompact()})
	}
	for _, p := range posts {
		results = append(results, models.SearchResult{Type: "post", Data: p})
	}
	for _, p := range polls {
		results = append(results, models.SearchResult{Type: "poll", Data: p})
	}
	return results
}

// Search is the consumer-facing search endpoint
func (h *SearchHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}
	mode := c.QueryParam("mode")
	if mode == "" {
		mode = models.SearchModeAll
	}
	if !validSearchMode(mode) {
		return echo.NewHTTPError(http.StatusBadRequest, "mode must be one of users, posts, polls, all")
	}

	users, posts, polls, err := h.runSearch(c.Request().Context(), query, mode)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Resolve the caller's friend set once and filter content hits through
	// the same visibility predicate the feed and single-item reads use
	callerID := currentUserID(c)
	friendIDs, err := h.friendshipRepository.FriendIDs(callerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	friends := make(map[uint]bool, len(friendIDs))
	for _, id := range friendIDs {
		friends[id] = true
	}

	visiblePosts := posts[:0]
	for _, p := range posts {
		if visibility.CanView(callerID, p.UserID, visibility.PostFlags(), friends[p.UserID]) {
			visiblePosts = append(visiblePosts, p)
		}
	}
	visiblePolls := polls[:0]
	for _, p := range polls {
		if visibility.CanView(callerID, p.UserID, visibility.PollFlags(p.IsFriendOnly), friends[p.UserID]) {
			visiblePolls = append(visiblePolls, p)
		}
	}

	return c.JSON(http.StatusOK, assembleResults(users, visiblePosts, visiblePolls))
}

// AdminSearch is the admin variant: same sub-searches, no visibility
// filtering. The admin gate runs in middleware before this handler.
func (h *SearchHandler) AdminSearch(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}
	mode := c.QueryParam("mode")
	if mode == "" {
		mode = models.SearchModeAll
	}
	if !validSearchMode(mode) {
		return echo.NewHTTPError(http.StatusBadRequest, "mode must be one of users, posts, polls, all")
	}

	users, posts, polls, err := h.runSearch(c.Request().Context(), query, mode)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, assembleResults(users, posts, polls))
}
