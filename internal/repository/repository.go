// Package repository defines the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite);
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/flashcard-studio/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrConflict when the
	// email is already registered.
	Create(ctx context.Context, user *model.User) error
	// GetByEmail returns the user for an email, or apperror.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByID returns the user for an internal ID, or apperror.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)
	// UpsertByEmail creates the user if the email is unknown, otherwise
	// loads the existing row into user. Used by the OAuth flow, where the
	// identity provider guarantees the email.
	UpsertByEmail(ctx context.Context, user *model.User) error
}
