package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/agoraforum/agora/internal/auth"
	"github.com/agoraforum/agora/internal/forum"
	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/internal/uploads"
	"github.com/agoraforum/agora/pkg/config"
)

// state is a shared in-memory backing store for the fake repositories.
type state struct {
	mu            sync.Mutex
	users         map[string]*models.User
	posts         map[int64]*models.Post
	comments      map[int64]*models.Comment
	notifications []*models.Notification
	nextUser      int64
	nextPost      int64
	nextComment   int64
	nextNote      int64
	clock         time.Time
}

func newState() *state {
	return &state{
		users:    make(map[string]*models.User),
		posts:    make(map[int64]*models.Post),
		comments: make(map[int64]*models.Comment),
		clock:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick hands out strictly increasing timestamps.
func (s *state) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type fakeUsers struct{ s *state }

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.nextUser++
	user.ID = f.s.nextUser
	user.CreatedAt = f.s.tick()
	cp := *user
	f.s.users[user.Username] = &cp
	return nil
}

func (f *fakeUsers) SetRole(_ context.Context, username, role string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[username]
	if !ok {
		return false, nil
	}
	u.Role = role
	return true, nil
}

func (f *fakeUsers) List(_ context.Context) ([]*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]*models.User, 0, len(f.s.users))
	for _, u := range f.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) CountByRole(_ context.Context, role string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, u := range f.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakePosts struct{ s *state }

func (f *fakePosts) GetByID(_ context.Context, id int64) (*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) Create(_ context.Context, post *models.Post) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.nextPost++
	post.ID = f.s.nextPost
	post.CreatedAt = f.s.tick()
	cp := *post
	f.s.posts[post.ID] = &cp
	return nil
}

func (f *fakePosts) UpdateContent(_ context.Context, id int64, title, content string, attachmentURLs []string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.posts[id]
	if !ok {
		return nil
	}
	p.Title = title
	p.Content = content
	p.AttachmentURLs = attachmentURLs
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.posts, id)
	return nil
}

func (f *fakePosts) list(match func(*models.Post) bool) []*models.Post {
	out := make([]*models.Post, 0)
	for _, p := range f.s.posts {
		if match(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakePosts) ListByAuthor(_ context.Context, author string) ([]*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.list(func(p *models.Post) bool { return p.Author == author }), nil
}

func (f *fakePosts) ListByStatus(_ context.Context, status string) ([]*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.list(func(p *models.Post) bool { return p.Status == status }), nil
}

func (f *fakePosts) ListApprovedByContribution(_ context.Context) ([]*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := f.list(func(p *models.Post) bool { return p.Status == models.StatusApproved })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Contribution() > out[j].Contribution() })
	return out, nil
}

func (f *fakePosts) ListApprovedByAuthor(_ context.Context, author string) ([]*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.list(func(p *models.Post) bool {
		return p.Author == author && p.Status == models.StatusApproved
	}), nil
}

func (f *fakePosts) CastVote(_ context.Context, postID int64, username string, direction models.VoteDirection) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.posts[postID]
	if !ok {
		return false, nil
	}
	voters := &p.UpvotedBy
	if direction == models.VoteDown {
		voters = &p.DownvotedBy
	}
	for _, v := range *voters {
		if v == username {
			return false, nil
		}
	}
	*voters = append(*voters, username)
	if direction == models.VoteUp {
		p.Upvotes++
	} else {
		p.Downvotes++
	}
	return true, nil
}

func (f *fakePosts) SetStatus(_ context.Context, id int64, status string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.posts[id]
	if !ok {
		return false, nil
	}
	p.Status = status
	return true, nil
}

func (f *fakePosts) CountByStatus(_ context.Context, status string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, p := range f.s.posts {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakePosts) Count(_ context.Context) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.s.posts)), nil
}

func (f *fakePosts) SumVotes(_ context.Context) (int64, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var up, down int64
	for _, p := range f.s.posts {
		up += int64(p.Upvotes)
		down += int64(p.Downvotes)
	}
	return up, down, nil
}

func (f *fakePosts) SearchByTitle(_ context.Context, query string) ([]*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	q := strings.ToLower(query)
	return f.list(func(p *models.Post) bool {
		return p.Status == models.StatusApproved && strings.Contains(strings.ToLower(p.Title), q)
	}), nil
}

type fakeComments struct{ s *state }

func (f *fakeComments) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cm, ok := f.s.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *cm
	return &cp, nil
}

func (f *fakeComments) Create(_ context.Context, comment *models.Comment) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.nextComment++
	comment.ID = f.s.nextComment
	comment.CreatedAt = f.s.tick()
	cp := *comment
	f.s.comments[comment.ID] = &cp
	return nil
}

func (f *fakeComments) ListByPost(_ context.Context, postID int64) ([]*models.Comment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]*models.Comment, 0)
	for _, cm := range f.s.comments {
		if cm.PostID == postID {
			cp := *cm
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeComments) Count(_ context.Context) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.s.comments)), nil
}

type fakeNotifications struct{ s *state }

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.nextNote++
	n.ID = f.s.nextNote
	n.CreatedAt = f.s.tick()
	cp := *n
	f.s.notifications = append(f.s.notifications, &cp)
	return nil
}

func (f *fakeNotifications) List(_ context.Context) ([]*models.Notification, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]*models.Notification, 0, len(f.s.notifications))
	for i := len(f.s.notifications) - 1; i >= 0; i-- {
		cp := *f.s.notifications[i]
		out = append(out, &cp)
	}
	return out, nil
}

// testEnv is a fully wired HTTP surface over the in-memory stores.
type testEnv struct {
	engine *gin.Engine
	state  *state
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := newState()
	users := &fakeUsers{s: st}
	posts := &fakePosts{s: st}
	comments := &fakeComments{s: st}
	notes := &fakeNotifications{s: st}

	notifier := forum.NewNotifier(notes)
	contrib := forum.NewContributionCalculator(posts)
	moderation := forum.NewModerationService(posts, contrib, notifier, 50)
	userSvc := forum.NewUserService(users, notifier)
	postSvc := forum.NewPostService(posts, users, moderation, notifier)
	commentSvc := forum.NewCommentService(comments, posts, notifier)
	voteSvc := forum.NewVoteService(posts)
	dashboard := forum.NewDashboardService(posts, comments, nil)

	validator := uploads.New(&config.UploadsConfig{
		AllowedExtensions: []string{"pdf", "png", "jpg", "jpeg", "doc", "docx"},
		BaseURL:           "/static/uploads",
	})

	router := NewRouter(Services{
		Users:      userSvc,
		Posts:      postSvc,
		Comments:   commentSvc,
		Votes:      voteSvc,
		Moderation: moderation,
		Contrib:    contrib,
		Notifier:   notifier,
		Dashboard:  dashboard,
		Uploads:    validator,
	}, nil)

	engine := gin.New()
	engine.Use(sessions.Sessions("agora_session", cookie.NewStore([]byte("test-secret"))))
	engine.Use(auth.LoadUser(userSvc))
	router.SetupRoutes(engine)

	return &testEnv{engine: engine, state: st}
}

// seedUser inserts a user with the given role; the password is always
// "password123".
func (e *testEnv) seedUser(t *testing.T, username, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	e.state.mu.Lock()
	defer e.state.mu.Unlock()
	e.state.nextUser++
	u := &models.User{
		ID:           e.state.nextUser,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    e.state.tick(),
	}
	e.state.users[username] = u
	return u
}

// seedPost inserts a post directly, bypassing the threshold decision.
func (e *testEnv) seedPost(t *testing.T, author, status string, upvotes, downvotes int) *models.Post {
	t.Helper()
	e.state.mu.Lock()
	defer e.state.mu.Unlock()
	e.state.nextPost++
	p := &models.Post{
		ID:        e.state.nextPost,
		Title:     "seed post",
		Content:   "seed content",
		Author:    author,
		Status:    status,
		Upvotes:   upvotes,
		Downvotes: downvotes,
		CreatedAt: e.state.tick(),
	}
	e.state.posts[p.ID] = p
	return p
}

// envelope mirrors the response wrapper with the payload left raw.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// client performs requests against the test engine, carrying session
// cookies between calls like a browser would.
type client struct {
	t       *testing.T
	env     *testEnv
	cookies []*http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, env: e}
}

func (c *client) do(method, path string, body interface{}) (int, envelope) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.env.engine.ServeHTTP(rec, req)

	if set := rec.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}

	var env envelope
	if len(rec.Body.Bytes()) > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			c.t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

// login authenticates a seeded user (password "password123").
func (c *client) login(username string) {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/login", gin.H{
		"email":    username + "@example.com",
		"password": "password123",
	})
	if code != http.StatusOK {
		c.t.Fatalf("login %s: status %d message %q", username, code, env.Message)
	}
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %q: %v", string(env.Data), err)
	}
}
