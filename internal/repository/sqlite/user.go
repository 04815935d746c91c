package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/flashcard-studio/internal/apperror"
	"github.com/sakif/flashcard-studio/internal/model"
	"github.com/sakif/flashcard-studio/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user, generating the ID and timestamps.
//
// The UNIQUE constraint on email is the authority on duplicates — checking
// first and inserting after would race between two registrations for the
// same address. A constraint violation maps to apperror.ErrConflict.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		nullableHash(user.PasswordHash),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("Email already exists")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByEmail retrieves a user by email address.
// Returns apperror.ErrNotFound if no account uses that email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `email = ?`, email)
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `id = ?`, id)
}

// UpsertByEmail creates the user if the email is unknown, otherwise loads
// the existing row into user. The stored password hash is never modified
// here — a Google login must not wipe a password the user set earlier.
func (db *DB) UpsertByEmail(ctx context.Context, user *model.User) error {
	existing, err := db.GetByEmail(ctx, user.Email)
	if err == nil {
		*user = *existing
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	if err := db.Create(ctx, user); err != nil {
		// Lost a race with a concurrent first login — read the winner.
		if errors.Is(err, apperror.ErrConflict) {
			existing, getErr := db.GetByEmail(ctx, user.Email)
			if getErr != nil {
				return getErr
			}
			*user = *existing
			return nil
		}
		return err
	}

	return nil
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u    model.User
		hash sql.NullString
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users WHERE `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&hash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	// NULL password_hash ↔ empty string in the model.
	u.PasswordHash = hash.String

	return &u, nil
}

// nullableHash maps an empty hash to NULL so the schema records "no
// password set" distinctly from an empty-string hash.
func nullableHash(hash string) sql.NullString {
	return sql.NullString{String: hash, Valid: hash != ""}
}

// isUniqueViolation sniffs the driver error text for a UNIQUE constraint
// failure. modernc.org/sqlite doesn't export a typed error for this, so
// string matching is the available option.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
