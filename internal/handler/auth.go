// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the blog's routes.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"inkwell/internal/form"
	"inkwell/internal/identity"
	"inkwell/internal/middleware"
	"inkwell/internal/render"
)

// AuthHandler handles registration, login, and logout routes.
type AuthHandler struct {
	identity        *identity.Service
	renderer        *render.Renderer
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *identity.Service, renderer *render.Renderer, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		identity:        svc,
		renderer:        renderer,
		loginProtection: lp,
	}
}

// registerFormData carries a rejected registration back to the template so
// the visitor does not retype everything.
type registerFormData struct {
	Form   form.Register
	Errors map[string]string
}

// loginFormData is the login page payload.
type loginFormData struct {
	Form   form.Login
	Errors map[string]string
}

// RegisterForm renders the registration page.
// Already-authenticated users are sent back to the homepage.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	h.showRegister(w, r, form.Register{}, nil)
}

func (h *AuthHandler) showRegister(w http.ResponseWriter, r *http.Request, f form.Register, errs map[string]string) {
	data := pageData(r, "Register", registerFormData{Form: f, Errors: errs})
	renderPage(w, r, h.renderer, "register", data)
}

// Register handles the registration form submission.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	f := form.ParseRegister(r)
	if problems := form.Validate(f); len(problems) > 0 {
		h.showRegister(w, r, f, problems)
		return
	}

	_, err := h.identity.Register(r.Context(), f.Email, f.Password, f.Name)
	if err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) {
			flashError(w, r, h.renderer, RouteLogin, "You've already signed up with that email, log in instead!")
			return
		}
		logAndInternalError(w, "registration error", "error", err, "email", f.Email)
		return
	}

	flashSuccess(w, r, h.renderer, RouteRoot, fmt.Sprintf("Welcome, %s!", f.Name))
}

// LoginForm renders the login page.
// Already-authenticated users are sent back to the homepage.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	h.showLogin(w, r, form.Login{}, nil, "")
}

// showLogin renders the login page, keeping the submitted email in place.
// A non-empty message is shown as an inline error banner.
func (h *AuthHandler) showLogin(w http.ResponseWriter, r *http.Request, f form.Login, errs map[string]string, message string) {
	f.Password = ""
	data := pageData(r, "Log In", loginFormData{Form: f, Errors: errs})
	if message != "" {
		data.Flash = message
		data.FlashType = "error"
	}
	renderPage(w, r, h.renderer, "login", data)
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	f := form.ParseLogin(r)
	if problems := form.Validate(f); len(problems) > 0 {
		h.showLogin(w, r, f, problems, "")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(f.Email); locked {
			h.showLogin(w, r, f, nil,
				fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.identity.Login(r.Context(), f.Email, f.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUserNotFound):
			h.recordFailure(w, r, f, "That email does not exist, please try again.")
		case errors.Is(err, identity.ErrInvalidPassword):
			h.recordFailure(w, r, f, "Password incorrect, please try again.")
		default:
			logAndInternalError(w, "login error", "error", err, "email", f.Email)
		}
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(f.Email)
	}

	flashSuccess(w, r, h.renderer, RouteRoot, fmt.Sprintf("Welcome back, %s!", user.Name))
}

// recordFailure counts a failed login toward the lockout and re-renders the
// login page with the caller's message, or the lockout message if this
// failure tripped the lock.
func (h *AuthHandler) recordFailure(w http.ResponseWriter, r *http.Request, f form.Login, message string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(f.Email); locked {
			h.showLogin(w, r, f, nil,
				fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(lockDuration)))
			return
		}
	}
	h.showLogin(w, r, f, nil, message)
}

// Logout handles user logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.identity.Logout(r.Context())
	flashAndRedirect(w, r, h.renderer, RouteRoot, "You have been logged out.", "info")
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
