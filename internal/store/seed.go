package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/auth"
)

// AdminUserID is the identifier of the blog's administrator. The seed runs
// against an empty users table, so the administrator is always the first row
// the autoincrement assigns.
const AdminUserID int64 = 1

// Seed creates the administrator account if the users table is empty.
// Subsequent runs are no-ops: registration owns every later account.
func Seed(ctx context.Context, db *sql.DB, email, password, name string) error {
	queries := New(db)

	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Info("users exist, skipping admin seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	if user.ID != AdminUserID {
		return fmt.Errorf("admin user seeded with id %d, want %d", user.ID, AdminUserID)
	}

	slog.Info("created administrator account", "id", user.ID, "email", user.Email)
	return nil
}
