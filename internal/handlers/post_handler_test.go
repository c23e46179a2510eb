package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/linkup-social/backend/internal/models"
	"github.com/linkup-social/backend/internal/visibility"
)

func newPostFixture() (*PostHandler, *fakeFriendshipRepo, *fakePostRepo, *fakeCommentRepo) {
	friendships := newFakeFriendshipRepo()
	posts := newFakePostRepo()
	comments := newFakeCommentRepo()
	h := NewPostHandler(posts, comments, visibility.NewChecker(friendships))
	return h, friendships, posts, comments
}

func TestGetPostVisibility(t *testing.T) {
	h, friendships, posts, _ := newPostFixture()
	post := posts.addPost(1, "hello", time.Now())
	e := echo.New()

	get := func(callerID uint) (int, error) {
		c, rec := newTestContext(e, http.MethodGet, "/posts/"+post.ID.Hex(), "", callerID)
		c.SetParamNames("id")
		c.SetParamValues(post.ID.Hex())
		err := h.GetPost(c)
		return rec.Code, err
	}

	// Owner always sees their own post
	if code, err := get(1); err != nil || code != http.StatusOK {
		t.Fatalf("owner read: code=%d err=%v", code, err)
	}

	if _, err := get(2); httpStatus(t, err) != http.StatusForbidden {
		t.Fatal("stranger should be forbidden")
	}

	friendships.edges = append(friendships.edges, &models.FriendRequest{
		SenderID: 1, ReceiverID: 2, Status: models.FriendStatusAccepted,
	})
	if code, err := get(2); err != nil || code != http.StatusOK {
		t.Fatalf("friend read: code=%d err=%v", code, err)
	}
}

func TestReactTwiceConflicts(t *testing.T) {
	h, _, posts, _ := newPostFixture()
	post := posts.addPost(1, "hello", time.Now())
	e := echo.New()

	react := func(body string) error {
		c, _ := newTestContext(e, http.MethodPost, "/posts/"+post.ID.Hex()+"/reactions", body, 1)
		c.SetParamNames("id")
		c.SetParamValues(post.ID.Hex())
		return h.React(c)
	}

	if err := react(`{"kind":"like"}`); err != nil {
		t.Fatalf("first reaction: %v", err)
	}
	if post.ReactionCounts["like"] != 1 {
		t.Fatalf("expected like count 1, got %d", post.ReactionCounts["like"])
	}

	// A different kind from the same user still conflicts
	if err := react(`{"kind":"love"}`); httpStatus(t, err) != http.StatusConflict {
		t.Fatal("second reaction should conflict")
	}
	if post.ReactionCounts["like"] != 1 || post.ReactionCounts["love"] != 0 {
		t.Errorf("rejected reaction must not change counts: %+v", post.ReactionCounts)
	}
}

func TestUnreactThenReactAgain(t *testing.T) {
	h, _, posts, _ := newPostFixture()
	post := posts.addPost(1, "hello", time.Now())
	e := echo.New()

	c, _ := newTestContext(e, http.MethodPost, "/posts/"+post.ID.Hex()+"/reactions", `{"kind":"wow"}`, 1)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	if err := h.React(c); err != nil {
		t.Fatalf("React: %v", err)
	}

	c, rec := newTestContext(e, http.MethodDelete, "/posts/"+post.ID.Hex()+"/reactions", "", 1)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	if err := h.Unreact(c); err != nil {
		t.Fatalf("Unreact: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if post.ReactionCounts["wow"] != 0 {
		t.Fatalf("expected wow count 0 after unreact, got %d", post.ReactionCounts["wow"])
	}

	// Removing the reaction frees the slot
	c, _ = newTestContext(e, http.MethodPost, "/posts/"+post.ID.Hex()+"/reactions", `{"kind":"like"}`, 1)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	if err := h.React(c); err != nil {
		t.Fatalf("React after Unreact: %v", err)
	}
}

func TestUnreactWithoutReaction(t *testing.T) {
	h, _, posts, _ := newPostFixture()
	post := posts.addPost(1, "hello", time.Now())

	c, _ := newTestContext(echo.New(), http.MethodDelete, "/posts/"+post.ID.Hex()+"/reactions", "", 1)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	if code := httpStatus(t, h.Unreact(c)); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	h, _, posts, _ := newPostFixture()
	post := posts.addPost(1, "original", time.Now())
	e := echo.New()

	c, _ := newTestContext(e, http.MethodPut, "/posts/"+post.ID.Hex(), `{"content":"hijacked"}`, 2)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	if code := httpStatus(t, h.UpdatePost(c)); code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", code)
	}

	c, _ = newTestContext(e, http.MethodPut, "/posts/"+post.ID.Hex(), `{"content":"edited"}`, 1)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	if err := h.UpdatePost(c); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if post.Content != "edited" {
		t.Errorf("content not updated: %q", post.Content)
	}
}

func TestDeletePostCascadesComments(t *testing.T) {
	h, _, posts, comments := newPostFixture()
	post := posts.addPost(1, "hello", time.Now())
	other := posts.addPost(1, "other", time.Now())
	comments.CreateComment(&models.Comment{ParentKind: models.ParentKindPost, ParentID: post.ID.Hex(), UserID: 1, Content: "a"})
	comments.CreateComment(&models.Comment{ParentKind: models.ParentKindPost, ParentID: other.ID.Hex(), UserID: 1, Content: "b"})

	c, rec := newTestContext(echo.New(), http.MethodDelete, "/posts/"+post.ID.Hex(), "", 1)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	if err := h.DeletePost(c); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	left, _ := comments.GetCommentsByParent(models.ParentKindPost, other.ID.Hex())
	if n, _ := comments.CountComments(); n != 1 || len(left) != 1 {
		t.Errorf("only the deleted post's comments should go, %d left", n)
	}
}
