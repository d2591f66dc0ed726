// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

// Auth service errors.
var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrEmailInvalid     = errors.New("email is not valid")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrEmailTaken       = errors.New("email already registered")
	// ErrUnknownUser and ErrInvalidCredentials are distinct so callers can
	// log the difference, but handlers must present them identically to
	// avoid account enumeration.
	ErrUnknownUser        = errors.New("unknown user")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLength = 8

// emailRegex is a sanity check, not full RFC 5322 validation.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserStore is the credential store surface the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService implements registration and login.
type AuthService struct {
	store   UserStore
	hasher  *auth.Hasher
	tokens  *auth.TokenManager
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, hasher *auth.Hasher, tokens *auth.TokenManager, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		metrics: recorder,
	}
}

// RegisterInput defines input for registration.
type RegisterInput struct {
	Email    string
	Password string
}

// Register validates input, hashes the password and persists a new user.
// Emails are normalized to lowercase before storage and lookup, so two
// registrations differing only in case collide. The store's unique
// constraint is the authority on duplicates; there is no pre-check, so
// concurrent registrations cannot race past the uniqueness invariant.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if email == "" {
		return nil, ErrEmailRequired
	}
	if !emailRegex.MatchString(email) {
		return nil, ErrEmailInvalid
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()
	return user, nil
}

// LoginInput defines input for login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the session token issued on successful login.
// The token is the sole artifact of a login; no session row is written.
type LoginResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if email == "" {
		return nil, ErrEmailRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Verify(input.Password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLoginSuccess()
	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
