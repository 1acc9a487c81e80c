package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gabmartin/plantlibrary/internal/dependencies/clock"
	"github.com/gabmartin/plantlibrary/internal/model"
	"github.com/gabmartin/plantlibrary/internal/storage"
)

// Errors
var (
	ErrEmailTaken     = errors.New("email already exists")
	ErrUnknownEmail   = errors.New("no user found with that email")
	ErrWrongPassword  = errors.New("incorrect password")
	ErrInvalidSession = errors.New("invalid or expired session")
)

// Service handles credential authentication and session management
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	sessionDuration time.Duration
	bcryptCost      int
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	BcryptCost      int // 0 means bcrypt.DefaultCost
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		logger:          logger,
		sessionDuration: cfg.SessionDuration,
		bcryptCost:      cfg.BcryptCost,
	}
}

// SignUp registers a new user. The email must not already be registered;
// storage enforces uniqueness atomically, so a concurrent signup for the
// same email fails here with ErrEmailTaken rather than creating a twin.
func (s *Service) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	_, err := s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           model.UserID(uuid.NewString()),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_id", string(user.ID)))
	return user, nil
}

// SignIn verifies a user's credentials and returns the user on success
func (s *Service) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrUnknownEmail
		}
		return nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, ErrWrongPassword
	}

	return user, nil
}

// BindSession creates a session for an authenticated user and returns it.
// The token is the only thing handed to the client.
func (s *Service) BindSession(ctx context.Context, user *model.User) (*model.Session, error) {
	now := s.clock.Now()
	session := &model.Session{
		Token:     generateToken(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// ResolveSession maps a token back to its user. The user is re-fetched from
// storage on every call rather than cached in the session, so identity
// changes are never served stale.
func (s *Service) ResolveSession(ctx context.Context, token string) (*model.User, error) {
	session, err := s.storage.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if s.clock.Now().After(session.ExpiresAt) {
		_ = s.storage.DeleteSession(ctx, token)
		return nil, ErrInvalidSession
	}

	user, err := s.storage.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	return user, nil
}

// InvalidateSession destroys a session. Unbinding a token that is already
// gone is not an error.
func (s *Service) InvalidateSession(ctx context.Context, token string) error {
	return s.storage.DeleteSession(ctx, token)
}

// generateToken returns an unguessable opaque session token
func generateToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
