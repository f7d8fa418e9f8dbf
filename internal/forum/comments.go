package forum

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/logging"
)

// ThreadedComment is a comment with its replies attached, forming a
// tree per post.
type ThreadedComment struct {
	*models.Comment
	Replies []*ThreadedComment `json:"replies"`
}

// CommentService handles comment submission and threaded retrieval
type CommentService struct {
	comments CommentStore
	posts    PostStore
	notifier *Notifier
	logger   *zap.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(comments CommentStore, posts PostStore, notifier *Notifier) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		notifier: notifier,
		logger:   logging.WithComponent("comments"),
	}
}

// Add submits a comment on a post. parentID may be nil for a
// top-level comment; otherwise it must reference an existing comment
// on the same post. Parents always precede children, so the tree can
// never contain a cycle.
func (s *CommentService) Add(ctx context.Context, postID int64, author, body string, attachmentURLs []string, parentID *int64) (*models.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	comment := &models.Comment{
		PostID:         postID,
		Author:         author,
		Body:           body,
		AttachmentURLs: attachmentURLs,
		CreatedAt:      time.Now().UTC(),
	}

	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != postID {
			return nil, ErrInvalidParent
		}
		comment.ParentID = sql.NullInt64{Int64: *parentID, Valid: true}
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.Append(ctx, fmt.Sprintf("%s commented on the post: %s", author, post.Title))
	s.logger.Info("Comment added",
		zap.Int64("post_id", postID),
		zap.Int64("comment_id", comment.ID),
		zap.String("author", author))
	return comment, nil
}

// Thread returns the full comment tree for a post. All comments are
// loaded in one query ordered by creation time, then indexed
// parent-to-children in memory, so every level comes out in ascending
// time order. A post with no comments, or an unknown post id, yields
// an empty tree.
func (s *CommentService) Thread(ctx context.Context, postID int64) ([]*ThreadedComment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return buildThread(comments), nil
}

// buildThread assembles a flat, time-ordered comment list into a
// reply tree. Append order preserves the input order at every level.
func buildThread(comments []*models.Comment) []*ThreadedComment {
	nodes := make(map[int64]*ThreadedComment, len(comments))
	roots := make([]*ThreadedComment, 0, len(comments))

	for _, c := range comments {
		nodes[c.ID] = &ThreadedComment{Comment: c, Replies: []*ThreadedComment{}}
	}

	for _, c := range comments {
		node := nodes[c.ID]
		if !c.ParentID.Valid {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[c.ParentID.Int64]
		if !ok {
			// Orphaned reply; surface it at the top level rather
			// than dropping it.
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	return roots
}
