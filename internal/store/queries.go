package store

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of *sql.DB / *sql.Tx the query layer needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries wraps a database handle with typed query methods.
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const createUser = `
INSERT INTO users (email, password_hash, name, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, email, password_hash, name, created_at, updated_at, last_login_at
`

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a new user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Email, arg.PasswordHash, arg.Name, arg.CreatedAt, arg.UpdatedAt)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

const getUserByID = `
SELECT id, email, password_hash, name, created_at, updated_at, last_login_at
FROM users WHERE id = ?
`

// GetUserByID returns the user with the given id, or sql.ErrNoRows.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

const getUserByEmail = `
SELECT id, email, password_hash, name, created_at, updated_at, last_login_at
FROM users WHERE email = ?
`

// GetUserByEmail returns the user with the given email, or sql.ErrNoRows.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

const countUsers = `SELECT COUNT(*) FROM users`

// CountUsers returns the total number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}

const updateUserLastLogin = `UPDATE users SET last_login_at = ? WHERE id = ?`

// UpdateUserLastLoginParams holds the fields for UpdateUserLastLogin.
type UpdateUserLastLoginParams struct {
	LastLoginAt sql.NullTime
	ID          int64
}

// UpdateUserLastLogin records the time of the user's most recent login.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, arg UpdateUserLastLoginParams) error {
	_, err := q.db.ExecContext(ctx, updateUserLastLogin, arg.LastLoginAt, arg.ID)
	return err
}

const updateUserPassword = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

// UpdateUserPasswordParams holds the fields for UpdateUserPassword.
type UpdateUserPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

// UpdateUserPassword replaces the user's stored password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

const createPost = `
INSERT INTO posts (title, subtitle, date, body, image_url, author_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, title, subtitle, date, body, image_url, author_id, created_at, updated_at
`

// CreatePostParams holds the fields for CreatePost.
type CreatePostParams struct {
	Title     string
	Subtitle  string
	Date      string
	Body      string
	ImageUrl  string
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreatePost inserts a new post and returns the stored row.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.Title, arg.Subtitle, arg.Date, arg.Body, arg.ImageUrl, arg.AuthorID,
		arg.CreatedAt, arg.UpdatedAt)
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImageUrl,
		&p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const getPostByID = `
SELECT id, title, subtitle, date, body, image_url, author_id, created_at, updated_at
FROM posts WHERE id = ?
`

// GetPostByID returns the post with the given id, or sql.ErrNoRows.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (Post, error) {
	row := q.db.QueryRowContext(ctx, getPostByID, id)
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImageUrl,
		&p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const getPostByTitle = `
SELECT id, title, subtitle, date, body, image_url, author_id, created_at, updated_at
FROM posts WHERE title = ?
`

// GetPostByTitle returns the post with the given title, or sql.ErrNoRows.
// Titles carry a unique index, so at most one row matches.
func (q *Queries) GetPostByTitle(ctx context.Context, title string) (Post, error) {
	row := q.db.QueryRowContext(ctx, getPostByTitle, title)
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImageUrl,
		&p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const listPostsWithAuthor = `
SELECT p.id, p.title, p.subtitle, p.date, p.body, p.image_url, p.author_id,
       p.created_at, p.updated_at, u.name AS author_name
FROM posts p
JOIN users u ON u.id = p.author_id
`

// ListPostsWithAuthorRow is a post joined with its author's display name.
type ListPostsWithAuthorRow struct {
	Post
	AuthorName string
}

// ListPostsWithAuthor returns all posts with their author names, in storage order.
func (q *Queries) ListPostsWithAuthor(ctx context.Context) ([]ListPostsWithAuthorRow, error) {
	rows, err := q.db.QueryContext(ctx, listPostsWithAuthor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListPostsWithAuthorRow
	for rows.Next() {
		var i ListPostsWithAuthorRow
		if err := rows.Scan(&i.ID, &i.Title, &i.Subtitle, &i.Date, &i.Body, &i.ImageUrl,
			&i.AuthorID, &i.CreatedAt, &i.UpdatedAt, &i.AuthorName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updatePost = `
UPDATE posts
SET title = ?, subtitle = ?, body = ?, image_url = ?, author_id = ?, updated_at = ?
WHERE id = ?
RETURNING id, title, subtitle, date, body, image_url, author_id, created_at, updated_at
`

// UpdatePostParams holds the fields for UpdatePost.
type UpdatePostParams struct {
	Title     string
	Subtitle  string
	Body      string
	ImageUrl  string
	AuthorID  int64
	UpdatedAt time.Time
	ID        int64
}

// UpdatePost overwrites the post's editable fields and returns the stored row.
// The display date is preserved from creation.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, updatePost,
		arg.Title, arg.Subtitle, arg.Body, arg.ImageUrl, arg.AuthorID, arg.UpdatedAt, arg.ID)
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImageUrl,
		&p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const deletePost = `DELETE FROM posts WHERE id = ?`

// DeletePost removes the post. Comments cascade via the foreign key.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePost, id)
	return err
}

const countPosts = `SELECT COUNT(*) FROM posts`

// CountPosts returns the total number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPosts).Scan(&count)
	return count, err
}

const createComment = `
INSERT INTO comments (post_id, author_id, text, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, post_id, author_id, text, created_at
`

// CreateCommentParams holds the fields for CreateComment.
type CreateCommentParams struct {
	PostID    int64
	AuthorID  int64
	Text      string
	CreatedAt time.Time
}

// CreateComment inserts a new comment and returns the stored row.
func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (Comment, error) {
	row := q.db.QueryRowContext(ctx, createComment,
		arg.PostID, arg.AuthorID, arg.Text, arg.CreatedAt)
	var c Comment
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt)
	return c, err
}

const listCommentsForPost = `
SELECT c.id, c.post_id, c.author_id, c.text, c.created_at,
       u.name AS author_name, u.email AS author_email
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.post_id = ?
ORDER BY c.id
`

// ListCommentsForPostRow is a comment joined with its author's name and email.
type ListCommentsForPostRow struct {
	Comment
	AuthorName  string
	AuthorEmail string
}

// ListCommentsForPost returns the comments on a post, oldest first.
func (q *Queries) ListCommentsForPost(ctx context.Context, postID int64) ([]ListCommentsForPostRow, error) {
	rows, err := q.db.QueryContext(ctx, listCommentsForPost, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListCommentsForPostRow
	for rows.Next() {
		var i ListCommentsForPostRow
		if err := rows.Scan(&i.ID, &i.PostID, &i.AuthorID, &i.Text, &i.CreatedAt,
			&i.AuthorName, &i.AuthorEmail); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countCommentsForPost = `SELECT COUNT(*) FROM comments WHERE post_id = ?`

// CountCommentsForPost returns how many comments a post has.
func (q *Queries) CountCommentsForPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countCommentsForPost, postID).Scan(&count)
	return count, err
}
