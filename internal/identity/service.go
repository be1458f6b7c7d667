// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package identity implements registration, credential verification, and
// per-session authentication state for blog visitors.
package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexedwards/scs/v2"

	"inkwell/internal/auth"
	"inkwell/internal/store"
)

// Authentication failures surfaced to the route boundary.
var (
	// ErrDuplicateEmail is returned by Register when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserNotFound is returned by Login when no account has the email.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidPassword is returned by Login when the password does not verify.
	ErrInvalidPassword = errors.New("invalid password")
)

// SessionKeyUserID is the session key holding the authenticated user's id.
const SessionKeyUserID = "user_id"

// Service manages accounts and the authenticated identity of each session.
// Session state lives in the scs-managed request context, never in the
// service itself, so concurrent visitors stay independent.
type Service struct {
	queries  *store.Queries
	sessions *scs.SessionManager
}

// NewService creates an identity Service.
func NewService(db *sql.DB, sm *scs.SessionManager) *Service {
	return &Service{
		queries:  store.New(db),
		sessions: sm,
	}
}

// Register creates an account with a hashed password and logs the new user
// in. Returns ErrDuplicateEmail without creating a record when the email is
// already registered.
func (s *Service) Register(ctx context.Context, email, password, name string) (store.User, error) {
	if _, err := s.queries.GetUserByEmail(ctx, email); err == nil {
		return store.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, sql.ErrNoRows) {
		return store.User{}, fmt.Errorf("checking email: %w", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// The unique index is the backstop for concurrent registrations.
		return store.User{}, fmt.Errorf("creating user: %w", err)
	}

	if err := s.establishSession(ctx, user.ID); err != nil {
		return store.User{}, err
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies the credentials and establishes an authenticated session.
// Returns ErrUserNotFound or ErrInvalidPassword; neither leaves a session
// behind.
func (s *Service) Login(ctx context.Context, email, password string) (store.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.User{}, ErrUserNotFound
		}
		return store.User{}, fmt.Errorf("looking up user: %w", err)
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return store.User{}, fmt.Errorf("checking password: %w", err)
	}
	if !valid {
		return store.User{}, ErrInvalidPassword
	}

	// Re-hash if the stored hash uses outdated parameters.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: time.Now(), Valid: true},
		ID:          user.ID,
	}); err != nil {
		// Don't block login on this error
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	if err := s.establishSession(ctx, user.ID); err != nil {
		return store.User{}, err
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// establishSession regenerates the session token (fixation defense) and
// stores the authenticated user id.
func (s *Service) establishSession(ctx context.Context, userID int64) error {
	if err := s.sessions.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	s.sessions.Put(ctx, SessionKeyUserID, userID)
	return nil
}

// Logout clears the session's authenticated identity unconditionally.
func (s *Service) Logout(ctx context.Context) {
	userID := s.sessions.GetInt64(ctx, SessionKeyUserID)
	if err := s.sessions.Destroy(ctx); err != nil {
		slog.Error("session destroy error", "error", err)
		return
	}
	if userID > 0 {
		slog.Info("user logged out", "user_id", userID)
	}
}

// Current returns the authenticated user for the session, or nil for an
// anonymous visitor. A stale session referencing a missing user is treated
// as anonymous.
func (s *Service) Current(ctx context.Context) *store.User {
	userID := s.sessions.GetInt64(ctx, SessionKeyUserID)
	if userID == 0 {
		return nil
	}

	user, err := s.queries.GetUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("loading session user", "error", err, "user_id", userID)
		}
		return nil
	}
	return &user
}

// CanAuthor reports whether the identity may create, edit, or delete posts.
// Only the administrator (the first registered account) qualifies. Safe to
// call with nil: an anonymous visitor is simply not authorized.
func CanAuthor(user *store.User) bool {
	return user != nil && user.ID == store.AdminUserID
}
