// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"inkwell/internal/middleware"
	"inkwell/internal/render"
	"inkwell/internal/store"
	"inkwell/web"
)

// testDB creates an in-memory SQLite database with the required schema for testing.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// Each connection to an in-memory database gets its own database, so
	// restrict the pool to a single connection.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login_at DATETIME
		);
		CREATE INDEX idx_users_email ON users(email);

		CREATE TABLE posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL UNIQUE,
			subtitle TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			body TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			author_id INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (author_id) REFERENCES users(id)
		);
		CREATE INDEX idx_posts_author_id ON posts(author_id);

		CREATE TABLE comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id INTEGER NOT NULL,
			author_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
			FOREIGN KEY (author_id) REFERENCES users(id)
		);
		CREATE INDEX idx_comments_post_id ON comments(post_id);

		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX idx_sessions_expiry ON sessions(expiry);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testSessionManager creates a session manager for testing.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testRenderer creates a renderer over the real embedded templates.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()
	r, err := render.New(render.Config{
		TemplatesFS:    web.TemplatesFS(),
		SessionManager: sm,
	})
	if err != nil {
		t.Fatalf("creating renderer: %v", err)
	}
	return r
}

// testUser is a test user for testing.
type testUser struct {
	Email        string
	Name         string
	PasswordHash string
}

// createTestUser creates a test user in the database.
func createTestUser(t *testing.T, db *sql.DB, user testUser) store.User {
	t.Helper()

	if user.PasswordHash == "" {
		user.PasswordHash = "$argon2id$v=19$m=19456,t=2,p=1$c29tZXNhbHQ$RdescudvJCsgt3ub+b+dWRWJTmaa"
	}

	now := time.Now()
	result, err := db.Exec(
		`INSERT INTO users (email, password_hash, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		user.Email, user.PasswordHash, user.Name, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	id, _ := result.LastInsertId()
	return store.User{
		ID:           id,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Name:         user.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// createTestPost creates a post row directly.
func createTestPost(t *testing.T, db *sql.DB, authorID int64, title string) store.Post {
	t.Helper()

	now := time.Now()
	result, err := db.Exec(
		`INSERT INTO posts (title, subtitle, date, body, image_url, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		title, "A subtitle", "August 28, 2026", "<p>Body.</p>", "https://example.com/x.jpg", authorID, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}

	id, _ := result.LastInsertId()
	return store.Post{
		ID:       id,
		Title:    title,
		Subtitle: "A subtitle",
		Date:     "August 28, 2026",
		Body:     "<p>Body.</p>",
		ImageUrl: "https://example.com/x.jpg",
		AuthorID: authorID,
	}
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithSession wraps a request with session context.
func requestWithSession(sm *scs.SessionManager, r *http.Request) *http.Request {
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		return r
	}
	return r.WithContext(ctx)
}

// requestWithUser adds an authenticated user to the request context.
func requestWithUser(r *http.Request, user store.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

// assertRedirect checks for a 303 redirect to the given location.
func assertRedirect(t *testing.T, rec interface {
	Header() http.Header
}, code int, location string) {
	t.Helper()
	if code != http.StatusSeeOther {
		t.Errorf("status = %d; want %d", code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Errorf("Location = %q; want %q", got, location)
	}
}
