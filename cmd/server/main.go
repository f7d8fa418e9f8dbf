package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/api"
	"github.com/agoraforum/agora/internal/auth"
	"github.com/agoraforum/agora/internal/cache"
	"github.com/agoraforum/agora/internal/db"
	"github.com/agoraforum/agora/internal/forum"
	"github.com/agoraforum/agora/internal/uploads"
	"github.com/agoraforum/agora/pkg/config"
	"github.com/agoraforum/agora/pkg/logging"
	"github.com/agoraforum/agora/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Agora API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to the database and apply migrations
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis is optional; a nil cache disables caching
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisCache != nil {
		defer redisCache.Close()
	}

	// Wire repositories and services
	repo := db.NewRepository(database.DB)
	users := db.NewUserRepository(repo)
	posts := db.NewPostRepository(repo)
	comments := db.NewCommentRepository(repo)
	notifications := db.NewNotificationRepository(repo)

	notifier := forum.NewNotifier(notifications)
	contrib := forum.NewContributionCalculator(posts)
	moderation := forum.NewModerationService(posts, contrib, notifier, cfg.Moderation.ApproveThreshold)
	userSvc := forum.NewUserService(users, notifier)
	postSvc := forum.NewPostService(posts, users, moderation, notifier)
	commentSvc := forum.NewCommentService(comments, posts, notifier)
	voteSvc := forum.NewVoteService(posts)
	dashboard := forum.NewDashboardService(posts, comments, redisCache)

	// Bootstrap the admin account on first start
	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	err = userSvc.EnsureAdmin(bootstrapCtx,
		cfg.Moderation.AdminUsername,
		cfg.Moderation.AdminEmail,
		cfg.Moderation.AdminPassword)
	cancelBootstrap()
	if err != nil {
		logger.Fatal("Failed to ensure admin account", zap.Error(err))
	}

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sessions.Sessions("agora_session", cookie.NewStore([]byte(cfg.Server.SessionSecret))))
	router.Use(auth.LoadUser(userSvc))

	apiRouter := api.NewRouter(api.Services{
		Users:      userSvc,
		Posts:      postSvc,
		Comments:   commentSvc,
		Votes:      voteSvc,
		Moderation: moderation,
		Contrib:    contrib,
		Notifier:   notifier,
		Dashboard:  dashboard,
		Uploads:    uploads.New(&cfg.Uploads),
	}, database)
	apiRouter.SetupRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
