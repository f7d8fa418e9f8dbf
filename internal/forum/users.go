package forum

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/logging"
)

// UserService manages accounts and role assignment
type UserService struct {
	users    UserStore
	notifier *Notifier
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users UserStore, notifier *Notifier) *UserService {
	return &UserService{
		users:    users,
		notifier: notifier,
		logger:   logging.WithComponent("users"),
	}
}

// Signup creates a new account with role user. A duplicate email is
// rejected and no account is created.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Account created", zap.String("username", username))
	return user, nil
}

// Login resolves an account by email and password
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get retrieves a user by username
func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// List retrieves all users
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// AssignModerator promotes a user to moderator. Only an admin may do
// this; a moderator attempting the same action is denied and no role
// change occurs.
func (s *UserService) AssignModerator(ctx context.Context, actor *models.User, username string) error {
	if actor == nil || !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	changed, err := s.users.SetRole(ctx, username, models.RoleModerator)
	if err != nil {
		return err
	}
	if !changed {
		return ErrNotFound
	}

	s.notifier.Append(ctx, fmt.Sprintf("%s has been assigned as a moderator by %s", username, actor.Username))
	s.logger.Info("Moderator assigned",
		zap.String("username", username),
		zap.String("assigned_by", actor.Username))
	return nil
}

// EnsureAdmin seeds the bootstrap admin account if no admin exists
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	count, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("Bootstrap admin created", zap.String("username", username))
	return nil
}
