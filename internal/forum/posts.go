package forum

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/logging"
)

// ProfileSummary is a user's profile page data: their posts of any
// status plus vote totals across them.
type ProfileSummary struct {
	User              *models.User   `json:"user"`
	Posts             []*models.Post `json:"posts"`
	TotalContribution int            `json:"total_contribution"`
	TotalUpvotes      int            `json:"total_upvotes"`
	TotalDownvotes    int            `json:"total_downvotes"`
}

// PostService handles post lifecycle and read paths
type PostService struct {
	posts      PostStore
	users      UserStore
	moderation *ModerationService
	notifier   *Notifier
	logger     *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(posts PostStore, users UserStore, moderation *ModerationService, notifier *Notifier) *PostService {
	return &PostService{
		posts:      posts,
		users:      users,
		moderation: moderation,
		notifier:   notifier,
		logger:     logging.WithComponent("posts"),
	}
}

// Create inserts a new post. Its initial status is fixed here, once,
// from the author's contribution accumulated before this post.
func (s *PostService) Create(ctx context.Context, author, title, content string, attachmentURLs []string) (*models.Post, error) {
	status, err := s.moderation.InitialStatus(ctx, author)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &models.Post{
		Author:         author,
		Title:          title,
		Content:        content,
		AttachmentURLs: attachmentURLs,
		UpvotedBy:      []string{},
		DownvotedBy:    []string{},
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.notifier.Append(ctx, fmt.Sprintf("%s created a post: %s", author, title))
	s.logger.Info("Post created",
		zap.Int64("post_id", post.ID),
		zap.String("author", author),
		zap.String("status", status))
	return post, nil
}

// Get retrieves a post by id
func (s *PostService) Get(ctx context.Context, postID int64) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Edit updates a post's title, content and attachments. Only the
// author may edit; new attachment references are appended to the
// existing ones.
func (s *PostService) Edit(ctx context.Context, actor *models.User, postID int64, title, content string, newAttachmentURLs []string) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if actor == nil || post.Author != actor.Username {
		return ErrPermissionDenied
	}

	urls := append([]string(post.AttachmentURLs), newAttachmentURLs...)
	if err := s.posts.UpdateContent(ctx, postID, title, content, urls); err != nil {
		return err
	}

	s.logger.Info("Post updated",
		zap.Int64("post_id", postID),
		zap.String("author", actor.Username))
	return nil
}

// Delete removes a post. Only the author may delete.
func (s *PostService) Delete(ctx context.Context, actor *models.User, postID int64) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if actor == nil || post.Author != actor.Username {
		return ErrPermissionDenied
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.notifier.Append(ctx, fmt.Sprintf("%s deleted the post: %s", actor.Username, post.Title))
	s.logger.Info("Post deleted",
		zap.Int64("post_id", postID),
		zap.String("author", actor.Username))
	return nil
}

// HomeFeed lists approved posts ordered by net score descending
func (s *PostService) HomeFeed(ctx context.Context) ([]*models.Post, error) {
	return s.posts.ListApprovedByContribution(ctx)
}

// ApprovedTopics lists approved posts for the moderation dashboard
func (s *PostService) ApprovedTopics(ctx context.Context) ([]*models.Post, error) {
	return s.posts.ListByStatus(ctx, models.StatusApproved)
}

// Profile assembles a user's profile summary. The totals cover all of
// the user's posts regardless of status.
func (s *PostService) Profile(ctx context.Context, username string) (*ProfileSummary, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	posts, err := s.posts.ListByAuthor(ctx, username)
	if err != nil {
		return nil, err
	}

	summary := &ProfileSummary{
		User:  user,
		Posts: posts,
	}
	for _, post := range posts {
		summary.TotalContribution += post.Contribution()
		summary.TotalUpvotes += post.Upvotes
		summary.TotalDownvotes += post.Downvotes
	}
	return summary, nil
}

// SearchTopics finds approved posts whose title matches the query
func (s *PostService) SearchTopics(ctx context.Context, query string) ([]*models.Post, error) {
	return s.posts.SearchByTitle(ctx, query)
}

// SearchByEmail finds a user by email and returns their approved
// posts. An unknown email yields ErrNotFound.
func (s *PostService) SearchByEmail(ctx context.Context, email string) (*models.User, []*models.Post, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrNotFound
	}

	posts, err := s.posts.ListApprovedByAuthor(ctx, user.Username)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}
