package forum

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agoraforum/agora/internal/models"
)

// memStore is an in-memory stand-in for the database repositories,
// implementing UserStore, PostStore, CommentStore and
// NotificationStore with the same semantics.
type memStore struct {
	mu            sync.Mutex
	nextID        int64
	users         map[string]*models.User
	posts         map[int64]*models.Post
	comments      map[int64]*models.Comment
	notifications []*models.Notification
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*models.User),
		posts:    make(map[int64]*models.Post),
		comments: make(map[int64]*models.Comment),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// UserStore

func (m *memStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[username], nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memStore) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.id()
	m.users[user.Username] = user
	return nil
}

func (m *memStore) SetRole(_ context.Context, username, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return false, nil
	}
	u.Role = role
	return true, nil
}

func (m *memStore) List(_ context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *memStore) CountByRole(_ context.Context, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, u := range m.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

// postStore adapter: a separate type is not needed, memStore holds
// every store role, but the Create methods collide between users,
// posts, comments and notifications. Narrow adapters keep the store
// interfaces satisfied from one backing map set.

type memPosts struct{ *memStore }

func (m memPosts) GetByID(_ context.Context, id int64) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.posts[id], nil
}

func (m memPosts) Create(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post.ID = m.id()
	m.posts[post.ID] = post
	return nil
}

func (m memPosts) UpdateContent(_ context.Context, id int64, title, content string, attachmentURLs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		p.Title = title
		p.Content = content
		p.AttachmentURLs = attachmentURLs
	}
	return nil
}

func (m memPosts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

func (m memPosts) ListByAuthor(_ context.Context, author string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []*models.Post
	for _, p := range m.posts {
		if p.Author == author {
			posts = append(posts, p)
		}
	}
	sortByCreatedDesc(posts)
	return posts, nil
}

func (m memPosts) ListByStatus(_ context.Context, status string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []*models.Post
	for _, p := range m.posts {
		if p.Status == status {
			posts = append(posts, p)
		}
	}
	sortByCreatedDesc(posts)
	return posts, nil
}

func (m memPosts) ListApprovedByContribution(_ context.Context) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []*models.Post
	for _, p := range m.posts {
		if p.Status == models.StatusApproved {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Contribution() > posts[j].Contribution() })
	return posts, nil
}

func (m memPosts) ListApprovedByAuthor(_ context.Context, author string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []*models.Post
	for _, p := range m.posts {
		if p.Author == author && p.Status == models.StatusApproved {
			posts = append(posts, p)
		}
	}
	sortByCreatedDesc(posts)
	return posts, nil
}

func (m memPosts) CastVote(_ context.Context, postID int64, username string, direction models.VoteDirection) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return false, nil
	}
	switch direction {
	case models.VoteUp:
		if contains(p.UpvotedBy, username) {
			return false, nil
		}
		p.Upvotes++
		p.UpvotedBy = append(p.UpvotedBy, username)
	case models.VoteDown:
		if contains(p.DownvotedBy, username) {
			return false, nil
		}
		p.Downvotes++
		p.DownvotedBy = append(p.DownvotedBy, username)
	}
	return true, nil
}

func (m memPosts) SetStatus(_ context.Context, id int64, status string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return false, nil
	}
	p.Status = status
	return true, nil
}

func (m memPosts) CountByStatus(_ context.Context, status string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, p := range m.posts {
		if p.Status == status {
			count++
		}
	}
	return count, nil
}

func (m memPosts) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.posts)), nil
}

func (m memPosts) SumVotes(_ context.Context) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var up, down int64
	for _, p := range m.posts {
		up += int64(p.Upvotes)
		down += int64(p.Downvotes)
	}
	return up, down, nil
}

func (m memPosts) SearchByTitle(_ context.Context, query string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []*models.Post
	for _, p := range m.posts {
		if p.Status == models.StatusApproved && containsFold(p.Title, query) {
			posts = append(posts, p)
		}
	}
	sortByCreatedDesc(posts)
	return posts, nil
}

type memComments struct{ *memStore }

func (m memComments) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.comments[id], nil
}

func (m memComments) Create(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.ID = m.id()
	m.comments[comment.ID] = comment
	return nil
}

func (m memComments) ListByPost(_ context.Context, postID int64) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var comments []*models.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (m memComments) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.comments)), nil
}

type memNotifications struct{ *memStore }

func (m memNotifications) Create(_ context.Context, notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification.ID = m.id()
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m memNotifications) List(_ context.Context) ([]*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Notification, len(m.notifications))
	copy(out, m.notifications)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Helpers

func sortByCreatedDesc(posts []*models.Post) {
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// newTestServices wires the full service graph over one memStore.
type testServices struct {
	store      *memStore
	users      *UserService
	contrib    *ContributionCalculator
	moderation *ModerationService
	votes      *VoteService
	comments   *CommentService
	posts      *PostService
	notifier   *Notifier
}

func newTestServices() *testServices {
	store := newMemStore()
	notifier := NewNotifier(memNotifications{store})
	contrib := NewContributionCalculator(memPosts{store})
	moderation := NewModerationService(memPosts{store}, contrib, notifier, 50)
	return &testServices{
		store:      store,
		users:      NewUserService(store, notifier),
		contrib:    contrib,
		moderation: moderation,
		votes:      NewVoteService(memPosts{store}),
		comments:   NewCommentService(memComments{store}, memPosts{store}, notifier),
		posts:      NewPostService(memPosts{store}, store, moderation, notifier),
		notifier:   notifier,
	}
}

// seedPost inserts a post directly into the store.
func (ts *testServices) seedPost(author, title, status string, upvotes, downvotes int, createdAt time.Time) *models.Post {
	post := &models.Post{
		Author:    author,
		Title:     title,
		Status:    status,
		Upvotes:   upvotes,
		Downvotes: downvotes,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	_ = memPosts{ts.store}.Create(context.Background(), post)
	return post
}

// seedUser inserts a user directly into the store.
func (ts *testServices) seedUser(username, email, role string) *models.User {
	user := &models.User{
		Username:  username,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	_ = ts.store.Create(context.Background(), user)
	return user
}
