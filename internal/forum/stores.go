package forum

import (
	"context"

	"github.com/agoraforum/agora/internal/models"
)

// UserStore is the persistence surface needed for accounts and roles.
// Implemented by db.UserRepository.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetRole(ctx context.Context, username, role string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// PostStore is the persistence surface needed for posts, votes and
// moderation. Implemented by db.PostRepository.
type PostStore interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	UpdateContent(ctx context.Context, id int64, title, content string, attachmentURLs []string) error
	Delete(ctx context.Context, id int64) error
	ListByAuthor(ctx context.Context, author string) ([]*models.Post, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Post, error)
	ListApprovedByContribution(ctx context.Context) ([]*models.Post, error)
	ListApprovedByAuthor(ctx context.Context, author string) ([]*models.Post, error)
	CastVote(ctx context.Context, postID int64, username string, direction models.VoteDirection) (bool, error)
	SetStatus(ctx context.Context, id int64, status string) (bool, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	Count(ctx context.Context) (int64, error)
	SumVotes(ctx context.Context) (upvotes, downvotes int64, err error)
	SearchByTitle(ctx context.Context, query string) ([]*models.Post, error)
}

// CommentStore is the persistence surface needed for threaded
// comments. Implemented by db.CommentRepository.
type CommentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	Count(ctx context.Context) (int64, error)
}

// NotificationStore is the persistence surface for the append-only
// notification log. Implemented by db.NotificationRepository.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context) ([]*models.Notification, error)
}
