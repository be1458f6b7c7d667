package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "inkwell-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func createTestUser(t *testing.T, q *Queries, email string) User {
	t.Helper()
	now := time.Now()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        email,
		PasswordHash: "hashed-password",
		Name:         "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func createTestPost(t *testing.T, q *Queries, authorID int64, title string) Post {
	t.Helper()
	now := time.Now()
	post, err := q.CreatePost(context.Background(), CreatePostParams{
		Title:     title,
		Subtitle:  "A subtitle",
		Date:      "August 28, 2026",
		Body:      "<p>Body text.</p>",
		ImageUrl:  "https://example.com/cover.jpg",
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return post
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	user := createTestUser(t, q, "test@example.com")

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "test@example.com")
	}
	if user.LastLoginAt.Valid {
		t.Error("LastLoginAt should be NULL for a new user")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	createTestUser(t, q, "dup@example.com")

	now := time.Now()
	_, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        "dup@example.com",
		PasswordHash: "other-hash",
		Name:         "Other",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err == nil {
		t.Fatal("expected unique constraint error for duplicate email")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	created := createTestUser(t, q, "lookup@example.com")

	user, err := q.GetUserByEmail(ctx, "lookup@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("ID = %d, want %d", user.ID, created.ID)
	}

	_, err = q.GetUserByEmail(ctx, "missing@example.com")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUpdateUserLastLogin(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createTestUser(t, q, "login@example.com")

	loginTime := time.Now()
	if err := q.UpdateUserLastLogin(ctx, UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: loginTime, Valid: true},
		ID:          user.ID,
	}); err != nil {
		t.Fatalf("UpdateUserLastLogin: %v", err)
	}

	got, err := q.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !got.LastLoginAt.Valid {
		t.Error("LastLoginAt should be set")
	}
}

func TestCreateAndGetPost(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "author@example.com")
	post := createTestPost(t, q, author.ID, "First Post")

	got, err := q.GetPostByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if got.Title != "First Post" {
		t.Errorf("Title = %q, want %q", got.Title, "First Post")
	}
	if got.Date != "August 28, 2026" {
		t.Errorf("Date = %q, want the stored display date", got.Date)
	}

	byTitle, err := q.GetPostByTitle(ctx, "First Post")
	if err != nil {
		t.Fatalf("GetPostByTitle: %v", err)
	}
	if byTitle.ID != post.ID {
		t.Errorf("GetPostByTitle ID = %d, want %d", byTitle.ID, post.ID)
	}

	_, err = q.GetPostByID(ctx, 9999)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows for missing post, got %v", err)
	}
}

func TestCreatePost_DuplicateTitle(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	author := createTestUser(t, q, "author@example.com")
	createTestPost(t, q, author.ID, "Unique Title")

	now := time.Now()
	_, err := q.CreatePost(context.Background(), CreatePostParams{
		Title:     "Unique Title",
		Subtitle:  "Other",
		Date:      "August 28, 2026",
		Body:      "x",
		ImageUrl:  "https://example.com/x.jpg",
		AuthorID:  author.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == nil {
		t.Fatal("expected unique constraint error for duplicate title")
	}
}

func TestUpdatePost_PreservesDate(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "author@example.com")
	post := createTestPost(t, q, author.ID, "Old Title")

	updated, err := q.UpdatePost(ctx, UpdatePostParams{
		Title:     "New Title",
		Subtitle:  "New subtitle",
		Body:      "<p>New body.</p>",
		ImageUrl:  "https://example.com/new.jpg",
		AuthorID:  author.ID,
		UpdatedAt: time.Now(),
		ID:        post.ID,
	})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}

	if updated.Title != "New Title" {
		t.Errorf("Title = %q, want %q", updated.Title, "New Title")
	}
	if updated.Date != post.Date {
		t.Errorf("date changed on edit: %q -> %q", post.Date, updated.Date)
	}
}

func TestListPostsWithAuthor(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "author@example.com")
	createTestPost(t, q, author.ID, "Post One")
	createTestPost(t, q, author.ID, "Post Two")

	posts, err := q.ListPostsWithAuthor(ctx)
	if err != nil {
		t.Fatalf("ListPostsWithAuthor: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].AuthorName != "Test User" {
		t.Errorf("AuthorName = %q, want %q", posts[0].AuthorName, "Test User")
	}
}

func TestDeletePost_CascadesComments(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "author@example.com")
	commenter := createTestUser(t, q, "reader@example.com")
	post := createTestPost(t, q, author.ID, "Commented Post")

	_, err := q.CreateComment(ctx, CreateCommentParams{
		PostID:    post.ID,
		AuthorID:  commenter.ID,
		Text:      "Nice post!",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	count, err := q.CountCommentsForPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("CountCommentsForPost: %v", err)
	}
	if count != 1 {
		t.Fatalf("comment count = %d, want 1", count)
	}

	if err := q.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	count, err = q.CountCommentsForPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("CountCommentsForPost after delete: %v", err)
	}
	if count != 0 {
		t.Errorf("comment count after delete = %d, want 0", count)
	}
}

func TestListCommentsForPost_OldestFirst(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "author@example.com")
	post := createTestPost(t, q, author.ID, "Threaded Post")

	for _, text := range []string{"first", "second", "third"} {
		if _, err := q.CreateComment(ctx, CreateCommentParams{
			PostID:    post.ID,
			AuthorID:  author.ID,
			Text:      text,
			CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
	}

	comments, err := q.ListCommentsForPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListCommentsForPost: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("len(comments) = %d, want 3", len(comments))
	}
	for i, want := range []string{"first", "second", "third"} {
		if comments[i].Text != want {
			t.Errorf("comments[%d].Text = %q, want %q", i, comments[i].Text, want)
		}
	}
	if comments[0].AuthorEmail != "author@example.com" {
		t.Errorf("AuthorEmail = %q", comments[0].AuthorEmail)
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := Seed(ctx, db, "admin@example.com", "admin-password", "Admin"); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	q := New(db)
	admin, err := q.GetUserByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if admin.ID != AdminUserID {
		t.Errorf("admin ID = %d, want %d", admin.ID, AdminUserID)
	}

	// A second run is a no-op
	if err := Seed(ctx, db, "other@example.com", "pw-irrelevant", "Other"); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	count, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}
