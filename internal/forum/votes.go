package forum

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/logging"
)

// VoteService records per-post vote actions. Each direction keeps its
// own voter set; casting the same direction twice is rejected, but the
// opposite direction's set is never consulted, so a user may end up in
// both sets for one post. There is no retraction or direction switch.
type VoteService struct {
	posts  PostStore
	logger *zap.Logger
}

// NewVoteService creates a new vote service
func NewVoteService(posts PostStore) *VoteService {
	return &VoteService{
		posts:  posts,
		logger: logging.WithComponent("votes"),
	}
}

// Cast records a vote on a post. Returns ErrNotFound for a missing
// post and ErrDuplicateVote when the voter is already in the
// direction's set; in both cases nothing changes.
func (s *VoteService) Cast(ctx context.Context, postID int64, username string, direction models.VoteDirection) error {
	if !direction.Valid() {
		return fmt.Errorf("unknown vote direction: %s", direction)
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}

	changed, err := s.posts.CastVote(ctx, postID, username, direction)
	if err != nil {
		return err
	}
	if !changed {
		return ErrDuplicateVote
	}

	s.logger.Info("Vote cast",
		zap.Int64("post_id", postID),
		zap.String("voter", username),
		zap.String("direction", string(direction)))
	return nil
}
