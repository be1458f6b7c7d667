// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/yuin/goldmark"

	"inkwell/internal/render"
)

// StaticHandler serves the fixed pages whose copy lives as embedded
// Markdown. The Markdown is converted once at startup.
type StaticHandler struct {
	renderer    *render.Renderer
	aboutHTML   template.HTML
	contactHTML template.HTML
}

// NewStaticHandler converts the embedded page content and creates the handler.
func NewStaticHandler(contentFS fs.FS, renderer *render.Renderer) (*StaticHandler, error) {
	about, err := renderMarkdown(contentFS, "about.md")
	if err != nil {
		return nil, err
	}
	contact, err := renderMarkdown(contentFS, "contact.md")
	if err != nil {
		return nil, err
	}

	return &StaticHandler{
		renderer:    renderer,
		aboutHTML:   about,
		contactHTML: contact,
	}, nil
}

// renderMarkdown converts one embedded Markdown file to HTML.
func renderMarkdown(contentFS fs.FS, name string) (template.HTML, error) {
	raw, err := fs.ReadFile(contentFS, name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(raw, &buf); err != nil {
		return "", fmt.Errorf("converting %s: %w", name, err)
	}

	// The content ships with the binary, so marking it safe is fine.
	return template.HTML(buf.String()), nil
}

// About renders the about page.
func (h *StaticHandler) About(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "page", pageData(r, "About Me", h.aboutHTML)); err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "page")
	}
}

// Contact renders the contact page.
func (h *StaticHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "page", pageData(r, "Contact Me", h.contactHTML)); err != nil {
		logAndInternalError(w, "render error", "error", err, "template", "page")
	}
}
