// Package service contains the business logic layer of the application.
//
// The layering follows the usual shape:
//
//	Handler (HTTP)   → parses requests, writes responses
//	Service (rules)  → validates, enforces rules, orchestrates
//	Repository (DB)  → reads/writes storage
//
// Services accept primitives and context, return domain models and
// apperror values, and know nothing about HTTP. Handlers translate both
// directions.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/flashcard-studio/internal/apperror"
	"github.com/sakif/flashcard-studio/internal/auth"
	"github.com/sakif/flashcard-studio/internal/model"
	"github.com/sakif/flashcard-studio/internal/repository"
	"github.com/sakif/flashcard-studio/internal/session"
)

// AuthService handles registration, password login, Google login, and
// logout.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → account storage
//   - passwords *auth.PasswordService     → bcrypt hashing
//   - sessions  session.Store             → server-side session records
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	sessions  session.Store
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	sessions session.Store,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		sessions:  sessions,
		logger:    logger,
	}
}

// Register creates a new password-backed account.
//
// All three fields are required. The plaintext password is bcrypt-hashed
// before it goes anywhere near storage. A duplicate email surfaces as
// apperror.ErrConflict — distinct from the missing-field validation error,
// so the client can tell 400 from 409.
func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return apperror.ValidationFailed("", "All fields are required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return err // already a proper apperror on conflict
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// Login verifies credentials and creates a session.
//
// Every failure mode after validation — unknown email, account with no
// password (Google-only), wrong password — collapses into the same
// "Invalid credentials" error, so responses don't reveal which emails are
// registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Email and password required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	// Accounts created through Google OAuth have no stored password and
	// can never log in with one.
	if !user.HasPassword() {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	sess := s.sessions.Create(user.ID, user.Email, user.Username)

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return sess, nil
}

// LoginOrRegisterGoogle completes a Google OAuth login: first login creates
// a password-less account, later logins reuse it. Either way the user gets
// a fresh session.
func (s *AuthService) LoginOrRegisterGoogle(ctx context.Context, gUser *auth.GoogleUser) (*session.Session, error) {
	if gUser == nil {
		return nil, fmt.Errorf("service/auth: Google user must not be nil")
	}

	user := &model.User{
		Username: gUser.Name,
		Email:    gUser.Email,
		// No PasswordHash — this account authenticates via Google only.
	}

	if err := s.users.UpsertByEmail(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting Google user (email=%s): %w", gUser.Email, err)
	}

	sess := s.sessions.Create(user.ID, user.Email, user.Username)

	s.logger.Info("user authenticated via Google", slog.String("userID", user.ID))

	return sess, nil
}

// Logout destroys the server-side session for a token. Unconditional:
// clearing an unknown or empty token succeeds silently.
func (s *AuthService) Logout(token string) {
	s.sessions.Clear(token)
}
