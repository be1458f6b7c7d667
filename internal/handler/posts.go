// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"inkwell/internal/catalog"
	"inkwell/internal/form"
	"inkwell/internal/middleware"
	"inkwell/internal/render"
)

// PostHandler handles the administrator's authoring routes. The router
// guards every route here with the author middleware.
type PostHandler struct {
	catalog  *catalog.Service
	renderer *render.Renderer
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *catalog.Service, renderer *render.Renderer) *PostHandler {
	return &PostHandler{
		catalog:  svc,
		renderer: renderer,
	}
}

// postFormData is the payload for the shared authoring template.
type postFormData struct {
	Heading string
	Action  string
	Form    form.Post
	Errors  map[string]string
}

// showPostForm renders the authoring form. On a failed submission the
// visitor's values come back with the field errors so nothing is lost.
func (h *PostHandler) showPostForm(w http.ResponseWriter, r *http.Request, heading, action string, f form.Post, errs map[string]string) {
	data := postFormData{
		Heading: heading,
		Action:  action,
		Form:    f,
		Errors:  errs,
	}
	renderPage(w, r, h.renderer, "make-post", pageData(r, heading, data))
}

// NewPostForm renders the empty authoring form.
func (h *PostHandler) NewPostForm(w http.ResponseWriter, r *http.Request) {
	h.showPostForm(w, r, "New Post", RouteNewPost, form.Post{}, nil)
}

// CreatePost handles the new post submission.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteNewPost) {
		return
	}

	f := form.ParsePost(r)
	if problems := form.Validate(f); len(problems) > 0 {
		h.showPostForm(w, r, "New Post", RouteNewPost, f, problems)
		return
	}

	post, err := h.catalog.CreatePost(r.Context(), catalog.PostInput{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Body:     f.Body,
		ImageURL: f.ImageURL,
		AuthorID: middleware.GetUserID(r),
	})
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateTitle) {
			h.showPostForm(w, r, "New Post", RouteNewPost, f,
				map[string]string{"Title": "A post with that title already exists."})
			return
		}
		logAndInternalError(w, "creating post", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, postPath(post.ID), "Post published.")
}

// EditPostForm renders the authoring form pre-filled with the post.
func (h *PostHandler) EditPostForm(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(w, r)
	if !ok {
		return
	}

	detail, err := h.catalog.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "loading post", "error", err, "post_id", id)
		return
	}

	h.showPostForm(w, r, "Edit Post", "/edit-post/"+chiIDString(id), form.Post{
		Title:    detail.Title,
		Subtitle: detail.Subtitle,
		ImageURL: detail.ImageUrl,
		Body:     detail.Body,
	}, nil)
}

// UpdatePost handles the edit form submission. The post keeps its original
// display date.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(w, r)
	if !ok {
		return
	}
	editURL := "/edit-post/" + chiIDString(id)

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	f := form.ParsePost(r)
	if problems := form.Validate(f); len(problems) > 0 {
		h.showPostForm(w, r, "Edit Post", editURL, f, problems)
		return
	}

	_, err := h.catalog.UpdatePost(r.Context(), id, catalog.PostInput{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Body:     f.Body,
		ImageURL: f.ImageURL,
		AuthorID: middleware.GetUserID(r),
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, catalog.ErrDuplicateTitle):
			h.showPostForm(w, r, "Edit Post", editURL, f,
				map[string]string{"Title": "A post with that title already exists."})
		default:
			logAndInternalError(w, "updating post", "error", err, "post_id", id)
		}
		return
	}

	flashSuccess(w, r, h.renderer, postPath(id), "Post updated.")
}

// DeletePost removes a post and its comments.
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "deleting post", "error", err, "post_id", id)
		return
	}

	flashSuccess(w, r, h.renderer, RouteRoot, "Post deleted.")
}
