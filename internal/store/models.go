package store

import (
	"database/sql"
	"time"
)

// User is a registered account. The first account created (id 1) is the
// blog's administrator.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// Post is a published blog entry. Date holds the display date the post was
// authored with, formatted "January 02, 2006".
type Post struct {
	ID        int64
	Title     string
	Subtitle  string
	Date      string
	Body      string
	ImageUrl  string
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is a reader comment attached to a post.
type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Text      string
	CreatedAt time.Time
}
