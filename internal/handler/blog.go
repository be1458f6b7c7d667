// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"inkwell/internal/catalog"
	"inkwell/internal/form"
	"inkwell/internal/identity"
	"inkwell/internal/middleware"
	"inkwell/internal/render"
)

// BlogHandler handles the public reading routes: the homepage and single
// post pages with their comment threads.
type BlogHandler struct {
	catalog  *catalog.Service
	renderer *render.Renderer
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(svc *catalog.Service, renderer *render.Renderer) *BlogHandler {
	return &BlogHandler{
		catalog:  svc,
		renderer: renderer,
	}
}

// pageData builds the shared template data for the requesting user.
func pageData(r *http.Request, title string, data any) render.TemplateData {
	user := middleware.GetUser(r)
	return render.TemplateData{
		Title:     title,
		Data:      data,
		LoggedIn:  user != nil,
		CanAuthor: identity.CanAuthor(user),
		User:      user,
	}
}

// Home renders the homepage with every post.
func (h *BlogHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.catalog.ListPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "listing posts", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "index", pageData(r, "Inkwell", posts)); err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "index")
	}
}

// postPage is the single post template payload. The comment fields carry a
// rejected submission back to the form under the thread.
type postPage struct {
	catalog.PostDetail
	CommentText  string
	CommentError string
}

// ShowPost renders a single post with its comment thread.
func (h *BlogHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(w, r)
	if !ok {
		return
	}

	h.showPost(w, r, id, "", "")
}

func (h *BlogHandler) showPost(w http.ResponseWriter, r *http.Request, id int64, commentText, commentError string) {
	detail, err := h.catalog.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "loading post", "error", err, "post_id", id)
		return
	}

	page := postPage{PostDetail: detail, CommentText: commentText, CommentError: commentError}
	renderPage(w, r, h.renderer, "post", pageData(r, detail.Title, page))
}

// AddComment handles a comment submission on a post. Anonymous visitors are
// asked to log in; their comment is not stored.
func (h *BlogHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(w, r)
	if !ok {
		return
	}
	postURL := postPath(id)

	user := middleware.GetUser(r)
	if user == nil {
		flashError(w, r, h.renderer, RouteLogin, "You need to login or register to comment.")
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, postURL) {
		return
	}

	f := form.ParseComment(r)
	if problems := form.Validate(f); len(problems) > 0 {
		h.showPost(w, r, id, f.Text, "Comment "+problems["Text"])
		return
	}

	if _, err := h.catalog.AddComment(r.Context(), id, user.ID, f.Text); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "adding comment", "error", err, "post_id", id)
		return
	}

	http.Redirect(w, r, postURL, http.StatusSeeOther)
}
