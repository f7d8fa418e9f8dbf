package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
)

func toStringArray(in []string) pq.StringArray {
	if in == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(in)
}

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// SetRole updates a user's role
func (r *UserRepository) SetRole(ctx context.Context, username, role string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Update("role", role)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List retrieves all users ordered by username
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountByRole counts users holding the given role
func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// UpdateContent updates a post's editable fields
func (r *PostRepository) UpdateContent(ctx context.Context, id int64, title, content string, attachmentURLs []string) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":           title,
			"content":         content,
			"attachment_urls": toStringArray(attachmentURLs),
		}).Error
}

// Delete removes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

// ListByAuthor retrieves all posts by a given author, any status
func (r *PostRepository) ListByAuthor(ctx context.Context, author string) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).Where("author = ?", author).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByStatus retrieves all posts with a given status
func (r *PostRepository) ListByStatus(ctx context.Context, status string) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListApprovedByContribution retrieves approved posts ordered by net
// score descending, for the home feed.
func (r *PostRepository) ListApprovedByContribution(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusApproved).
		Order("(upvotes - downvotes) DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// voteColumns maps a direction onto its counter and voter-set columns.
func voteColumns(direction models.VoteDirection) (counter, voters string, err error) {
	switch direction {
	case models.VoteUp:
		return "upvotes", "upvoted_by", nil
	case models.VoteDown:
		return "downvotes", "downvoted_by", nil
	default:
		return "", "", fmt.Errorf("unknown vote direction: %s", direction)
	}
}

// CastVote increments the direction's counter and appends the voter in
// a single conditional statement. Returns false when the voter is
// already in that direction's set (no row changed). The opposite
// direction's set is not consulted.
func (r *PostRepository) CastVote(ctx context.Context, postID int64, username string, direction models.VoteDirection) (bool, error) {
	counter, voters, err := voteColumns(direction)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(
		`UPDATE forum_posts
		    SET %[1]s = %[1]s + 1,
		        %[2]s = array_append(COALESCE(%[2]s, '{}'), ?)
		  WHERE id = ?
		    AND NOT (? = ANY(COALESCE(%[2]s, '{}')))`,
		counter, voters)

	res := r.db.WithContext(ctx).Exec(query, username, postID, username)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetStatus updates a post's moderation status. The update is not
// guarded by the current status.
func (r *PostRepository) SetStatus(ctx context.Context, id int64, status string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountByStatus counts posts with the given status
func (r *PostRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts all posts
func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumVotes returns the total upvotes and downvotes across all posts
func (r *PostRepository) SumVotes(ctx context.Context) (upvotes, downvotes int64, err error) {
	row := struct {
		Up   int64
		Down int64
	}{}
	err = r.db.WithContext(ctx).Model(&models.Post{}).
		Select("COALESCE(SUM(upvotes), 0) AS up, COALESCE(SUM(downvotes), 0) AS down").
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Up, row.Down, nil
}

// SearchByTitle retrieves approved posts whose title contains the
// query, case-insensitively.
func (r *PostRepository) SearchByTitle(ctx context.Context, query string) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Where("title ILIKE ? AND status = ?", "%"+query+"%", models.StatusApproved).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListApprovedByAuthor retrieves an author's approved posts
func (r *PostRepository) ListApprovedByAuthor(ctx context.Context, author string) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Where("author = ? AND status = ?", author, models.StatusApproved).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListByPost retrieves every comment on a post ordered by creation
// time ascending. The reply tree is assembled in memory by the caller.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Count counts all comments
func (r *CommentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NotificationRepository provides notification-related database operations
type NotificationRepository struct {
	*Repository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(repo *Repository) *NotificationRepository {
	return &NotificationRepository{Repository: repo}
}

// Create appends a notification
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// List retrieves all notifications, most recent first
func (r *NotificationRepository) List(ctx context.Context) ([]*models.Notification, error) {
	var notifications []*models.Notification
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}
