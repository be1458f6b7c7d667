// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form declares the submitted form payloads and validates them.
package form

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Register is the new-account form.
type Register struct {
	Email    string `validate:"required,email,max=100"`
	Password string `validate:"required,min=8,max=72"`
	Name     string `validate:"required,max=100"`
}

// Login is the returning-user form.
type Login struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Post is the authoring form for creating and editing posts.
type Post struct {
	Title    string `validate:"required,max=250"`
	Subtitle string `validate:"required,max=250"`
	ImageURL string `validate:"required,url"`
	Body     string `validate:"required"`
}

// Comment is the reader comment form.
type Comment struct {
	Text string `validate:"required,max=1000"`
}

// ParseRegister reads the registration fields from the request.
func ParseRegister(r *http.Request) Register {
	return Register{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Name:     strings.TrimSpace(r.PostFormValue("name")),
	}
}

// ParseLogin reads the login fields from the request.
func ParseLogin(r *http.Request) Login {
	return Login{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

// ParsePost reads the post authoring fields from the request.
func ParsePost(r *http.Request) Post {
	return Post{
		Title:    strings.TrimSpace(r.PostFormValue("title")),
		Subtitle: strings.TrimSpace(r.PostFormValue("subtitle")),
		ImageURL: strings.TrimSpace(r.PostFormValue("img_url")),
		Body:     r.PostFormValue("body"),
	}
}

// ParseComment reads the comment field from the request.
func ParseComment(r *http.Request) Comment {
	return Comment{
		Text: strings.TrimSpace(r.PostFormValue("comment_text")),
	}
}

// Validate checks the struct's validation tags and returns a field-keyed map
// of human-readable messages. An empty map means the form is valid.
func Validate(v any) map[string]string {
	problems := make(map[string]string)

	err := validate.Struct(v)
	if err == nil {
		return problems
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		problems[""] = "invalid form submission"
		return problems
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		problems[""] = "invalid form submission"
		return problems
	}

	for _, fe := range fieldErrs {
		problems[fe.Field()] = message(fe)
	}
	return problems
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
