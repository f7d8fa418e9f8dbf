package forum

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/logging"
)

// BulkAction tags for the batch moderation entry point
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ModerationService governs post status. A new post starts approved
// when its author's accumulated contribution clears the threshold,
// pending otherwise; afterwards status only moves through moderator
// approve/reject actions. Transitions are not guarded by the current
// status: re-approving or rejecting an already-approved post goes
// through the same unconditional update.
type ModerationService struct {
	posts     PostStore
	contrib   *ContributionCalculator
	notifier  *Notifier
	threshold int
	logger    *zap.Logger
}

// NewModerationService creates a new moderation service
func NewModerationService(posts PostStore, contrib *ContributionCalculator, notifier *Notifier, threshold int) *ModerationService {
	return &ModerationService{
		posts:     posts,
		contrib:   contrib,
		notifier:  notifier,
		threshold: threshold,
		logger:    logging.WithComponent("moderation"),
	}
}

// InitialStatus decides the status of a post about to be created.
// The author's contribution is computed over their existing posts,
// before the new one is inserted. The decision is made once; status
// is never recomputed afterwards.
func (s *ModerationService) InitialStatus(ctx context.Context, author string) (string, error) {
	total, err := s.contrib.Total(ctx, author)
	if err != nil {
		return "", err
	}
	if total >= s.threshold {
		return models.StatusApproved, nil
	}
	return models.StatusPending, nil
}

// requireModerator gates moderation actions. Only the moderator role
// passes; admin does not.
func requireModerator(actor *models.User) error {
	if actor == nil || !actor.IsModerator() {
		return ErrPermissionDenied
	}
	return nil
}

// Approve transitions a post to approved
func (s *ModerationService) Approve(ctx context.Context, actor *models.User, postID int64) error {
	if err := requireModerator(actor); err != nil {
		return err
	}

	changed, err := s.posts.SetStatus(ctx, postID, models.StatusApproved)
	if err != nil {
		return err
	}
	if !changed {
		return ErrNotFound
	}

	s.logger.Info("Post approved",
		zap.Int64("post_id", postID),
		zap.String("moderator", actor.Username))
	return nil
}

// Reject transitions a post to rejected. The post is kept, not
// deleted, and a notification records the rejection.
func (s *ModerationService) Reject(ctx context.Context, actor *models.User, postID int64) error {
	if err := requireModerator(actor); err != nil {
		return err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}

	if _, err := s.posts.SetStatus(ctx, postID, models.StatusRejected); err != nil {
		return err
	}

	s.notifier.Append(ctx, fmt.Sprintf("%s rejected the post: %s", actor.Username, post.Title))
	s.logger.Info("Post rejected",
		zap.Int64("post_id", postID),
		zap.String("moderator", actor.Username))
	return nil
}

// Bulk applies an approve or reject action to each post id
// independently. Missing ids are skipped; there is no atomicity
// across the batch, so partial success is possible. Returns the
// number of posts actually transitioned.
func (s *ModerationService) Bulk(ctx context.Context, actor *models.User, postIDs []int64, action string) (int, error) {
	if err := requireModerator(actor); err != nil {
		return 0, err
	}

	var status string
	switch action {
	case ActionApprove:
		status = models.StatusApproved
	case ActionReject:
		status = models.StatusRejected
	default:
		return 0, fmt.Errorf("unknown bulk action: %s", action)
	}

	applied := 0
	for _, id := range postIDs {
		changed, err := s.posts.SetStatus(ctx, id, status)
		if err != nil {
			s.logger.Warn("Bulk action failed for post",
				zap.Int64("post_id", id),
				zap.String("action", action),
				zap.Error(err))
			continue
		}
		if changed {
			applied++
		}
	}

	s.logger.Info("Bulk action applied",
		zap.String("action", action),
		zap.Int("requested", len(postIDs)),
		zap.Int("applied", applied),
		zap.String("moderator", actor.Username))
	return applied, nil
}

// PendingQueue lists posts awaiting moderation
func (s *ModerationService) PendingQueue(ctx context.Context, actor *models.User) ([]*models.Post, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	return s.posts.ListByStatus(ctx, models.StatusPending)
}
