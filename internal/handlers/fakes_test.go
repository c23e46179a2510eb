package handlers

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/linkup-social/backend/internal/models"
	"github.com/linkup-social/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes implementing the repository interfaces, mirroring the
// stores' semantics (single edge records, conditional reaction/vote updates,
// word-prefix matching).

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, user := range r.users {
		if user.FirebaseUID == firebaseUID {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) DeleteUser(id uint) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) SearchUsers(terms []string) ([]models.User, error) {
	var hits []models.User
	var ids []uint
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		user := r.users[id]
		for _, term := range terms {
			t := strings.ToLower(term)
			if strings.HasPrefix(strings.ToLower(user.FirstName), t) ||
				strings.HasPrefix(strings.ToLower(user.LastName), t) {
				hits = append(hits, *user)
				break
			}
		}
	}
	return hits, nil
}

func (r *fakeUserRepo) CountUsers() (int64, error) {
	return int64(len(r.users)), nil
}

type fakeFriendshipRepo struct {
	edges []*models.FriendRequest
}

func newFakeFriendshipRepo() *fakeFriendshipRepo {
	return &fakeFriendshipRepo{}
}

func (r *fakeFriendshipRepo) findEdge(a, b uint) *models.FriendRequest {
	for _, e := range r.edges {
		if (e.SenderID == a && e.ReceiverID == b) || (e.SenderID == b && e.ReceiverID == a) {
			return e
		}
	}
	return nil
}

func (r *fakeFriendshipRepo) SendRequest(senderID, receiverID uint) (*models.FriendRequest, error) {
	if r.findEdge(senderID, receiverID) != nil {
		return nil, repositories.ErrDuplicateEdge
	}
	req := &models.FriendRequest{SenderID: senderID, ReceiverID: receiverID, Status: models.FriendStatusPending}
	r.edges = append(r.edges, req)
	return req, nil
}

func (r *fakeFriendshipRepo) GetPendingForUser(userID uint) ([]models.FriendRequest, error) {
	var pending []models.FriendRequest
	for _, e := range r.edges {
		if e.ReceiverID == userID && e.Status == models.FriendStatusPending {
			pending = append(pending, *e)
		}
	}
	return pending, nil
}

func (r *fakeFriendshipRepo) Accept(senderID, receiverID uint) error {
	for _, e := range r.edges {
		if e.SenderID == senderID && e.ReceiverID == receiverID && e.Status == models.FriendStatusPending {
			e.Status = models.FriendStatusAccepted
			return nil
		}
	}
	return repositories.ErrNoPendingRequest
}

func (r *fakeFriendshipRepo) Decline(senderID, receiverID uint) error {
	for i, e := range r.edges {
		if e.SenderID == senderID && e.ReceiverID == receiverID && e.Status == models.FriendStatusPending {
			r.edges = append(r.edges[:i], r.edges[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNoPendingRequest
}

func (r *fakeFriendshipRepo) Unfriend(a, b uint) error {
	for i, e := range r.edges {
		if e.Status != models.FriendStatusAccepted {
			continue
		}
		if (e.SenderID == a && e.ReceiverID == b) || (e.SenderID == b && e.ReceiverID == a) {
			r.edges = append(r.edges[:i], r.edges[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFriends
}

func (r *fakeFriendshipRepo) AreFriends(a, b uint) (bool, error) {
	e := r.findEdge(a, b)
	return e != nil && e.Status == models.FriendStatusAccepted, nil
}

func (r *fakeFriendshipRepo) FriendIDs(userID uint) ([]uint, error) {
	var ids []uint
	for _, e := range r.edges {
		if e.Status != models.FriendStatusAccepted {
			continue
		}
		if e.SenderID == userID {
			ids = append(ids, e.ReceiverID)
		} else if e.ReceiverID == userID {
			ids = append(ids, e.SenderID)
		}
	}
	return ids, nil
}

// wordPrefixMatch mirrors the stores' case-insensitive word-prefix semantics
func wordPrefixMatch(text string, terms []string) bool {
	words := strings.Fields(strings.ToLower(text))
	for _, term := range terms {
		t := strings.ToLower(term)
		for _, w := range words {
			if strings.HasPrefix(w, t) {
				return true
			}
		}
	}
	return false
}

type fakePostRepo struct {
	posts []*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{}
}

// addPost inserts a post with a fixed timestamp, for tests that need to
// control feed ordering
func (r *fakePostRepo) addPost(userID uint, content string, createdAt time.Time) *models.Post {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	r.posts = append(r.posts, post)
	return post
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	r.posts = append(r.posts, post)
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	for _, p := range r.posts {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakePostRepo) GetPostsByUserID(_ context.Context, userID uint, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	for _, p := range r.posts {
		if p.UserID == userID {
			posts = append(posts, *p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	if skip >= int64(len(posts)) {
		return nil, nil
	}
	posts = posts[skip:]
	if limit < int64(len(posts)) {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *fakePostRepo) GetFeedEntriesByUserID(_ context.Context, userID uint) ([]models.FeedEntry, error) {
	var entries []models.FeedEntry
	for _, p := range r.posts {
		if p.UserID == userID {
			entries = append(entries, models.FeedEntry{ID: p.ID, UserID: p.UserID, CreatedAt: p.CreatedAt})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries, nil
}

func (r *fakePostRepo) GetPostsByIDs(_ context.Context, ids []primitive.ObjectID) (map[string]models.Post, error) {
	byID := make(map[string]models.Post)
	for _, id := range ids {
		for _, p := range r.posts {
			if p.ID == id {
				byID[id.Hex()] = *p
			}
		}
	}
	return byID, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, post *models.Post) error {
	for _, p := range r.posts {
		if p.ID.Hex() == id {
			p.Content = post.Content
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	for i, p := range r.posts {
		if p.ID.Hex() == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakePostRepo) React(ctx context.Context, postID string, userID uint, kind string) error {
	post, err := r.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	key := models.UserKey(userID)
	if _, ok := post.ReactedBy[key]; ok {
		return repositories.ErrAlreadyReacted
	}
	if post.ReactedBy == nil {
		post.ReactedBy = make(map[string]string)
	}
	if post.ReactionCounts == nil {
		post.ReactionCounts = make(map[string]int)
	}
	post.ReactedBy[key] = kind
	post.ReactionCounts[kind]++
	return nil
}

func (r *fakePostRepo) Unreact(ctx context.Context, postID string, userID uint) error {
	post, err := r.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	key := models.UserKey(userID)
	kind, ok := post.ReactedBy[key]
	if !ok {
		return repositories.ErrNotFound
	}
	delete(post.ReactedBy, key)
	post.ReactionCounts[kind]--
	return nil
}

func (r *fakePostRepo) IncrementCommentsCount(ctx context.Context, postID string) error {
	post, err := r.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	post.CommentsCount++
	return nil
}

func (r *fakePostRepo) DecrementCommentsCount(ctx context.Context, postID string) error {
	post, err := r.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	post.CommentsCount--
	return nil
}

func (r *fakePostRepo) SearchPosts(_ context.Context, terms []string) ([]models.Post, error) {
	var hits []models.Post
	if len(terms) == 0 {
		return hits, nil
	}
	for _, p := range r.posts {
		if wordPrefixMatch(p.Content, terms) {
			hits = append(hits, *p)
		}
	}
	return hits, nil
}

func (r *fakePostRepo) CountPosts(context.Context) (int64, error) {
	return int64(len(r.posts)), nil
}

type fakePollRepo struct {
	polls []*models.Poll
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{}
}

func (r *fakePollRepo) addPoll(userID uint, question string, friendOnly bool, options ...string) *models.Poll {
	poll := &models.Poll{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Question:     question,
		IsFriendOnly: friendOnly,
		CreatedAt:    time.Now(),
	}
	for _, text := range options {
		poll.Options = append(poll.Options, models.PollOption{Text: text})
	}
	r.polls = append(r.polls, poll)
	return poll
}

func (r *fakePollRepo) CreatePoll(_ context.Context, poll *models.Poll) error {
	poll.ID = primitive.NewObjectID()
	poll.CreatedAt = time.Now()
	poll.UpdatedAt = poll.CreatedAt
	r.polls = append(r.polls, poll)
	return nil
}

func (r *fakePollRepo) GetPollByID(_ context.Context, id string) (*models.Poll, error) {
	for _, p := range r.polls {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakePollRepo) GetPollsByUserID(_ context.Context, userID uint, skip, limit int64) ([]models.Poll, error) {
	var polls []models.Poll
	for _, p := range r.polls {
		if p.UserID == userID {
			polls = append(polls, *p)
		}
	}
	return polls, nil
}

func (r *fakePollRepo) DeletePoll(_ context.Context, id string) error {
	for i, p := range r.polls {
		if p.ID.Hex() == id {
			r.polls = append(r.polls[:i], r.polls[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakePollRepo) Vote(ctx context.Context, pollID string, userID uint, optionIndex int) error {
	poll, err := r.GetPollByID(ctx, pollID)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return repositories.ErrInvalidOption
	}
	key := models.UserKey(userID)
	if _, ok := poll.VotedBy[key]; ok {
		return repositories.ErrAlreadyVoted
	}
	if poll.VotedBy == nil {
		poll.VotedBy = make(map[string]int)
	}
	poll.VotedBy[key] = optionIndex
	poll.Options[optionIndex].Votes++
	return nil
}

func (r *fakePollRepo) IncrementCommentsCount(ctx context.Context, pollID string) error {
	poll, err := r.GetPollByID(ctx, pollID)
	if err != nil {
		return err
	}
	poll.CommentsCount++
	return nil
}

func (r *fakePollRepo) DecrementCommentsCount(ctx context.Context, pollID string) error {
	poll, err := r.GetPollByID(ctx, pollID)
	if err != nil {
		return err
	}
	poll.CommentsCount--
	return nil
}

func (r *fakePollRepo) SearchPolls(_ context.Context, terms []string) ([]models.Poll, error) {
	var hits []models.Poll
	if len(terms) == 0 {
		return hits, nil
	}
	for _, p := range r.polls {
		if wordPrefixMatch(p.Question, terms) || wordPrefixMatch(p.Description, terms) {
			hits = append(hits, *p)
		}
	}
	return hits, nil
}

func (r *fakePollRepo) CountPolls(context.Context) (int64, error) {
	return int64(len(r.polls)), nil
}

type fakeCommentRepo struct {
	comments []*models.Comment
	nextID   uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	r.comments = append(r.comments, comment)
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	for _, c := range r.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCommentRepo) GetCommentsByParent(parentKind, parentID string) ([]models.Comment, error) {
	var comments []models.Comment
	for _, c := range r.comments {
		if c.ParentKind == parentKind && c.ParentID == parentID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (r *fakeCommentRepo) DeleteComment(id uint) error {
	for i, c := range r.comments {
		if c.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeCommentRepo) DeleteCommentsByParent(parentKind, parentID string) error {
	var kept []*models.Comment
	for _, c := range r.comments {
		if !(c.ParentKind == parentKind && c.ParentID == parentID) {
			kept = append(kept, c)
		}
	}
	r.comments = kept
	return nil
}

func (r *fakeCommentRepo) CountComments() (int64, error) {
	return int64(len(r.comments)), nil
}
