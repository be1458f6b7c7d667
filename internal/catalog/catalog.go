// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog implements the blog's content operations: listing and
// reading posts, authoring them, and attaching reader comments.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"inkwell/internal/store"
)

var (
	// ErrNotFound is returned when the requested post does not exist.
	ErrNotFound = errors.New("post not found")
	// ErrDuplicateTitle is returned when another post already has the title.
	ErrDuplicateTitle = errors.New("post title already in use")
)

// DisplayDateLayout is the human-readable date stamped on a post when it is
// created, e.g. "August 28, 2026". It never changes on edit.
const DisplayDateLayout = "January 02, 2006"

// Post bodies and comments come from a rich-text editor; the UGC policy
// keeps the formatting tags and strips scripts and event handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// PostDetail is a post with its author name and full comment thread.
type PostDetail struct {
	store.Post
	AuthorName string
	Comments   []store.ListCommentsForPostRow
}

// PostInput carries the author-editable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImageURL string
	AuthorID int64
}

// Service implements the content catalog over the relational store.
type Service struct {
	queries *store.Queries
	now     func() time.Time
}

// NewService creates a catalog Service.
func NewService(db *sql.DB) *Service {
	return &Service{
		queries: store.New(db),
		now:     time.Now,
	}
}

// ListPosts returns every post with its author's display name.
func (s *Service) ListPosts(ctx context.Context) ([]store.ListPostsWithAuthorRow, error) {
	posts, err := s.queries.ListPostsWithAuthor(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// GetPost returns the post with its author name and comments, oldest comment
// first. Returns ErrNotFound when no post has the id.
func (s *Service) GetPost(ctx context.Context, id int64) (PostDetail, error) {
	post, err := s.queries.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PostDetail{}, ErrNotFound
		}
		return PostDetail{}, fmt.Errorf("loading post %d: %w", id, err)
	}

	author, err := s.queries.GetUserByID(ctx, post.AuthorID)
	if err != nil {
		return PostDetail{}, fmt.Errorf("loading post author: %w", err)
	}

	comments, err := s.queries.ListCommentsForPost(ctx, id)
	if err != nil {
		return PostDetail{}, fmt.Errorf("loading comments: %w", err)
	}

	return PostDetail{Post: post, AuthorName: author.Name, Comments: comments}, nil
}

// CreatePost stores a new post stamped with today's display date. The body
// is sanitized before storage. Returns ErrDuplicateTitle when the title is
// already taken.
func (s *Service) CreatePost(ctx context.Context, input PostInput) (store.Post, error) {
	if err := s.checkTitleFree(ctx, input.Title, 0); err != nil {
		return store.Post{}, err
	}

	now := s.now()
	post, err := s.queries.CreatePost(ctx, store.CreatePostParams{
		Title:     input.Title,
		Subtitle:  input.Subtitle,
		Date:      now.Format(DisplayDateLayout),
		Body:      htmlSanitizer.Sanitize(input.Body),
		ImageUrl:  input.ImageURL,
		AuthorID:  input.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return store.Post{}, fmt.Errorf("creating post: %w", err)
	}

	slog.Info("post created", "post_id", post.ID, "title", post.Title)
	return post, nil
}

// UpdatePost overwrites the post's editable fields. The display date keeps
// its original value. Returns ErrNotFound when the post does not exist and
// ErrDuplicateTitle when the new title belongs to a different post.
func (s *Service) UpdatePost(ctx context.Context, id int64, input PostInput) (store.Post, error) {
	if _, err := s.queries.GetPostByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Post{}, ErrNotFound
		}
		return store.Post{}, fmt.Errorf("loading post %d: %w", id, err)
	}

	if err := s.checkTitleFree(ctx, input.Title, id); err != nil {
		return store.Post{}, err
	}

	post, err := s.queries.UpdatePost(ctx, store.UpdatePostParams{
		Title:     input.Title,
		Subtitle:  input.Subtitle,
		Body:      htmlSanitizer.Sanitize(input.Body),
		ImageUrl:  input.ImageURL,
		AuthorID:  input.AuthorID,
		UpdatedAt: s.now(),
		ID:        id,
	})
	if err != nil {
		return store.Post{}, fmt.Errorf("updating post %d: %w", id, err)
	}

	slog.Info("post updated", "post_id", post.ID, "title", post.Title)
	return post, nil
}

// DeletePost removes the post and, through the foreign key cascade, all of
// its comments. Returns ErrNotFound when the post does not exist.
func (s *Service) DeletePost(ctx context.Context, id int64) error {
	if _, err := s.queries.GetPostByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("loading post %d: %w", id, err)
	}

	if err := s.queries.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}

	slog.Info("post deleted", "post_id", id)
	return nil
}

// AddComment attaches a sanitized comment to the post. Returns ErrNotFound
// when the post does not exist.
func (s *Service) AddComment(ctx context.Context, postID, authorID int64, text string) (store.Comment, error) {
	if _, err := s.queries.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Comment{}, ErrNotFound
		}
		return store.Comment{}, fmt.Errorf("loading post %d: %w", postID, err)
	}

	comment, err := s.queries.CreateComment(ctx, store.CreateCommentParams{
		PostID:    postID,
		AuthorID:  authorID,
		Text:      htmlSanitizer.Sanitize(text),
		CreatedAt: s.now(),
	})
	if err != nil {
		return store.Comment{}, fmt.Errorf("creating comment: %w", err)
	}

	slog.Info("comment added", "comment_id", comment.ID, "post_id", postID)
	return comment, nil
}

// checkTitleFree returns ErrDuplicateTitle when a post other than excludeID
// already uses the title.
func (s *Service) checkTitleFree(ctx context.Context, title string, excludeID int64) error {
	existing, err := s.queries.GetPostByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("checking title: %w", err)
	}
	if existing.ID != excludeID {
		return ErrDuplicateTitle
	}
	return nil
}
