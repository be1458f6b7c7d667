// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestStaticPages(t *testing.T) {
	sm := testSessionManager(t)
	contentFS := fstest.MapFS{
		"about.md":   &fstest.MapFile{Data: []byte("# Hi\n\nSome *about* text.")},
		"contact.md": &fstest.MapFile{Data: []byte("Write to `me@example.com`.")},
	}

	h, err := NewStaticHandler(contentFS, testRenderer(t, sm))
	if err != nil {
		t.Fatalf("NewStaticHandler: %v", err)
	}

	r := requestWithSession(sm, httptest.NewRequest("GET", "/about", nil))
	rec := httptest.NewRecorder()
	h.About(rec, r)
	assertStatus(t, rec.Code, 200)
	if !strings.Contains(rec.Body.String(), "<em>about</em>") {
		t.Errorf("markdown not rendered: %s", rec.Body.String())
	}

	r = requestWithSession(sm, httptest.NewRequest("GET", "/contact", nil))
	rec = httptest.NewRecorder()
	h.Contact(rec, r)
	assertStatus(t, rec.Code, 200)
	if !strings.Contains(rec.Body.String(), "<code>me@example.com</code>") {
		t.Errorf("markdown not rendered: %s", rec.Body.String())
	}
}

func TestNewStaticHandler_MissingContent(t *testing.T) {
	sm := testSessionManager(t)
	if _, err := NewStaticHandler(fstest.MapFS{}, testRenderer(t, sm)); err == nil {
		t.Error("expected error for missing content files")
	}
}
