package forum

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/cache"
	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/logging"
)

// statsCacheTTL bounds how stale the dashboard counters may be.
const statsCacheTTL = 30 * time.Second

// PostStats counts posts per moderation status
type PostStats struct {
	Approved int64 `json:"approved"`
	Pending  int64 `json:"pending"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

// ActivityStats aggregates user activity across the forum
type ActivityStats struct {
	Comments  int64 `json:"comments"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

// DashboardStats is the dashboard overview payload
type DashboardStats struct {
	Posts    PostStats     `json:"post_stats"`
	Activity ActivityStats `json:"user_activity"`
}

// DashboardService aggregates forum-wide counters for the dashboard.
// Results are cached briefly in Redis when a cache is configured.
type DashboardService struct {
	posts    PostStore
	comments CommentStore
	cache    *cache.Cache
	logger   *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(posts PostStore, comments CommentStore, redisCache *cache.Cache) *DashboardService {
	return &DashboardService{
		posts:    posts,
		comments: comments,
		cache:    redisCache,
		logger:   logging.WithComponent("dashboard"),
	}
}

// Stats computes the dashboard counters
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	cacheKey := cache.HashKey("dashboard", "stats")

	if cached, err := s.cache.Get(cacheKey); err == nil {
		var stats DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	stats := &DashboardStats{}

	var err error
	if stats.Posts.Approved, err = s.posts.CountByStatus(ctx, models.StatusApproved); err != nil {
		return nil, err
	}
	if stats.Posts.Pending, err = s.posts.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, err
	}
	if stats.Posts.Rejected, err = s.posts.CountByStatus(ctx, models.StatusRejected); err != nil {
		return nil, err
	}
	if stats.Posts.Total, err = s.posts.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Activity.Comments, err = s.comments.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Activity.Upvotes, stats.Activity.Downvotes, err = s.posts.SumVotes(ctx); err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(cacheKey, payload, statsCacheTTL); err != nil && err != cache.ErrCacheDisabled {
			s.logger.Warn("Failed to cache dashboard stats", zap.Error(err))
		}
	}

	return stats, nil
}
