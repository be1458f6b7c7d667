// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Register(t *testing.T) {
	tests := []struct {
		name      string
		form      Register
		wantField string
	}{
		{"valid", Register{Email: "a@example.com", Password: "longenough", Name: "A"}, ""},
		{"missing email", Register{Password: "longenough", Name: "A"}, "Email"},
		{"bad email", Register{Email: "not-an-email", Password: "longenough", Name: "A"}, "Email"},
		{"short password", Register{Email: "a@example.com", Password: "short", Name: "A"}, "Password"},
		{"long password", Register{Email: "a@example.com", Password: strings.Repeat("x", 73), Name: "A"}, "Password"},
		{"missing name", Register{Email: "a@example.com", Password: "longenough"}, "Name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Validate(tt.form)
			if tt.wantField == "" {
				assert.Empty(t, problems)
				return
			}
			assert.Contains(t, problems, tt.wantField)
		})
	}
}

func TestValidate_Login(t *testing.T) {
	assert.Empty(t, Validate(Login{Email: "a@example.com", Password: "pw"}))
	assert.Contains(t, Validate(Login{Password: "pw"}), "Email")
	assert.Contains(t, Validate(Login{Email: "a@example.com"}), "Password")
}

func TestValidate_Post(t *testing.T) {
	valid := Post{
		Title:    "A Title",
		Subtitle: "A subtitle",
		ImageURL: "https://example.com/cover.jpg",
		Body:     "<p>Hello</p>",
	}
	assert.Empty(t, Validate(valid))

	long := valid
	long.Title = strings.Repeat("t", 251)
	assert.Contains(t, Validate(long), "Title")

	badURL := valid
	badURL.ImageURL = "not a url"
	assert.Contains(t, Validate(badURL), "ImageURL")
}

func TestValidate_Comment(t *testing.T) {
	assert.Empty(t, Validate(Comment{Text: "nice post"}))
	assert.Contains(t, Validate(Comment{}), "Text")
	assert.Contains(t, Validate(Comment{Text: strings.Repeat("c", 1001)}), "Text")
}

func TestParsePost_TrimsFields(t *testing.T) {
	body := url.Values{
		"title":    {"  Spaced Title  "},
		"subtitle": {"sub"},
		"img_url":  {" https://example.com/x.png "},
		"body":     {"<p>body</p>"},
	}
	r := httptest.NewRequest("POST", "/new-post", strings.NewReader(body.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	f := ParsePost(r)
	assert.Equal(t, "Spaced Title", f.Title)
	assert.Equal(t, "https://example.com/x.png", f.ImageURL)
}
