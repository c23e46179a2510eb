package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/linkup-social/backend/internal/models"
	"github.com/linkup-social/backend/internal/visibility"
)

func newPollFixture() (*PollHandler, *fakeFriendshipRepo, *fakePollRepo, *fakeCommentRepo) {
	friendships := newFakeFriendshipRepo()
	polls := newFakePollRepo()
	comments := newFakeCommentRepo()
	h := NewPollHandler(polls, comments, visibility.NewChecker(friendships))
	return h, friendships, polls, comments
}

func TestGetPollFriendOnlyBecomesVisibleAfterAccept(t *testing.T) {
	h, friendships, polls, _ := newPollFixture()
	poll := polls.addPoll(1, "favourite editor", true, "vim", "emacs")
	e := echo.New()

	get := func(callerID uint) (int, error) {
		c, rec := newTestContext(e, http.MethodGet, "/polls/"+poll.ID.Hex(), "", callerID)
		c.SetParamNames("id")
		c.SetParamValues(poll.ID.Hex())
		err := h.GetPoll(c)
		return rec.Code, err
	}

	if _, err := get(2); httpStatus(t, err) != http.StatusForbidden {
		t.Fatal("stranger should be forbidden on a friend-only poll")
	}

	friendships.edges = append(friendships.edges, &models.FriendRequest{
		SenderID: 2, ReceiverID: 1, Status: models.FriendStatusAccepted,
	})

	code, err := get(2)
	if err != nil {
		t.Fatalf("GetPoll after friendship: %v", err)
	}
	if code != http.StatusOK {
		t.Fatalf("expected 200 after friendship, got %d", code)
	}
}

func TestGetPollPublicVisibleToStranger(t *testing.T) {
	h, _, polls, _ := newPollFixture()
	poll := polls.addPoll(1, "tabs or spaces", false, "tabs", "spaces")

	c, rec := newTestContext(echo.New(), http.MethodGet, "/polls/"+poll.ID.Hex(), "", 2)
	c.SetParamNames("id")
	c.SetParamValues(poll.ID.Hex())
	if err := h.GetPoll(c); err != nil {
		t.Fatalf("GetPoll: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestVoteTwiceConflicts(t *testing.T) {
	h, _, polls, _ := newPollFixture()
	poll := polls.addPoll(1, "tabs or spaces", false, "tabs", "spaces")
	e := echo.New()

	vote := func(body string) (echo.Context, error) {
		c, _ := newTestContext(e, http.MethodPost, "/polls/"+poll.ID.Hex()+"/votes", body, 2)
		c.SetParamNames("id")
		c.SetParamValues(poll.ID.Hex())
		return c, h.Vote(c)
	}

	if _, err := vote(`{"option_index":0}`); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if poll.Options[0].Votes != 1 {
		t.Fatalf("expected 1 vote on option 0, got %d", poll.Options[0].Votes)
	}

	// Changing the option does not help: one answer per user, ever
	if _, err := vote(`{"option_index":1}`); httpStatus(t, err) != http.StatusConflict {
		t.Fatal("second vote should conflict")
	}
	if poll.Options[0].Votes != 1 || poll.Options[1].Votes != 0 {
		t.Errorf("rejected vote must not change tallies: %+v", poll.Options)
	}
}

func TestVoteInvalidOptionIndex(t *testing.T) {
	h, _, polls, _ := newPollFixture()
	poll := polls.addPoll(1, "tabs or spaces", false, "tabs", "spaces")

	c, _ := newTestContext(echo.New(), http.MethodPost, "/polls/"+poll.ID.Hex()+"/votes", `{"option_index":5}`, 2)
	c.SetParamNames("id")
	c.SetParamValues(poll.ID.Hex())
	if code := httpStatus(t, h.Vote(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestVoteFriendOnlyForbiddenForStranger(t *testing.T) {
	h, _, polls, _ := newPollFixture()
	poll := polls.addPoll(1, "private question", true, "a", "b")

	c, _ := newTestContext(echo.New(), http.MethodPost, "/polls/"+poll.ID.Hex()+"/votes", `{"option_index":0}`, 2)
	c.SetParamNames("id")
	c.SetParamValues(poll.ID.Hex())
	if code := httpStatus(t, h.Vote(c)); code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", code)
	}
}

func TestDeletePollOwnerOnly(t *testing.T) {
	h, _, polls, comments := newPollFixture()
	poll := polls.addPoll(1, "tabs or spaces", false, "tabs", "spaces")
	comments.CreateComment(&models.Comment{ParentKind: models.ParentKindPoll, ParentID: poll.ID.Hex(), UserID: 2, Content: "spaces!"})
	e := echo.New()

	c, _ := newTestContext(e, http.MethodDelete, "/polls/"+poll.ID.Hex(), "", 2)
	c.SetParamNames("id")
	c.SetParamValues(poll.ID.Hex())
	if code := httpStatus(t, h.DeletePoll(c)); code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", code)
	}

	c, rec := newTestContext(e, http.MethodDelete, "/polls/"+poll.ID.Hex(), "", 1)
	c.SetParamNames("id")
	c.SetParamValues(poll.ID.Hex())
	if err := h.DeletePoll(c); err != nil {
		t.Fatalf("DeletePoll: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if n, _ := comments.CountComments(); n != 0 {
		t.Errorf("deleting a poll should cascade to its comments, %d left", n)
	}
}
