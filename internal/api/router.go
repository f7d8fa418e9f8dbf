package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/auth"
	"github.com/agoraforum/agora/internal/db"
	"github.com/agoraforum/agora/internal/forum"
	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/internal/uploads"
	"github.com/agoraforum/agora/pkg/logging"
	"github.com/agoraforum/agora/pkg/telemetry"
)

// Services bundles the forum services the HTTP surface exposes.
type Services struct {
	Users      *forum.UserService
	Posts      *forum.PostService
	Comments   *forum.CommentService
	Votes      *forum.VoteService
	Moderation *forum.ModerationService
	Contrib    *forum.ContributionCalculator
	Notifier   *forum.Notifier
	Dashboard  *forum.DashboardService
	Uploads    *uploads.Validator
}

// Router sets up API routes
type Router struct {
	svc    Services
	db     *db.DB
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(svc Services, database *db.DB) *Router {
	return &Router{
		svc:    svc,
		db:     database,
		logger: logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// trace wraps each request in a server span and flows the span
// context down into the service calls.
func (r *Router) trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx, span := telemetry.StartSpan(c.Request.Context(),
			c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(r.trace())

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Auth
	engine.POST("/signup", r.signup)
	engine.POST("/login", r.login)
	engine.POST("/logout", r.logout)

	// Posts
	engine.POST("/posts", r.createPost)
	engine.GET("/home", r.homeFeed)
	engine.GET("/posts/:id", r.viewTopic)
	engine.PUT("/posts/:id", r.editPost)
	engine.DELETE("/posts/:id", r.deletePost)

	// Votes
	engine.POST("/posts/:id/upvote", r.vote(models.VoteUp))
	engine.POST("/posts/:id/downvote", r.vote(models.VoteDown))

	// Comments
	engine.POST("/posts/:id/comments", r.addComment)

	// Moderation
	engine.POST("/posts/:id/approve", r.moderate(forum.ActionApprove))
	engine.POST("/posts/:id/reject", r.moderate(forum.ActionReject))
	engine.POST("/posts/bulk", r.bulkModerate)

	// Reads
	engine.GET("/profile/:username", r.profile)
	engine.GET("/notifications", r.notifications)
	engine.POST("/search", r.search)

	// Dashboard
	engine.GET("/dashboard", r.dashboardStats)
	engine.GET("/dashboard/pending", r.pendingQueue)
	engine.GET("/dashboard/topics", r.dashboardTopics)
	engine.GET("/dashboard/profiles", r.dashboardProfiles)
	engine.POST("/dashboard/moderators", r.assignModerator)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	if r.db != nil {
		if err := r.db.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"service": "agora-api",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "agora-api",
	})
}

// requireLogin returns the actor or writes a 401 and reports false.
func requireLogin(c *gin.Context) (*models.User, bool) {
	user := auth.CurrentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "login required")
		return nil, false
	}
	return user, true
}

// requireStaff admits moderators and admins.
func requireStaff(c *gin.Context) (*models.User, bool) {
	user, ok := requireLogin(c)
	if !ok {
		return nil, false
	}
	if !user.IsModerator() && !user.IsAdmin() {
		respondError(c, http.StatusForbidden, forum.ErrPermissionDenied.Error())
		return nil, false
	}
	return user, true
}
