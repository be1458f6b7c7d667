// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inkwell/internal/identity"
	"inkwell/internal/middleware"
)

func TestRegisterForm(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(identity.NewService(db, sm), testRenderer(t, sm), nil)

	r := requestWithSession(sm, httptest.NewRequest("GET", "/register", nil))
	rec := httptest.NewRecorder()
	h.RegisterForm(rec, r)

	assertStatus(t, rec.Code, 200)
	if !strings.Contains(rec.Body.String(), "Sign Me Up") {
		t.Errorf("body missing registration form")
	}
}

func TestRegister_Success(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(identity.NewService(db, sm), testRenderer(t, sm), nil)

	form := url.Values{
		"name":     {"New User"},
		"email":    {"new@example.com"},
		"password": {"a-long-password"},
	}
	r := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = requestWithSession(sm, r)
	rec := httptest.NewRecorder()
	h.Register(rec, r)

	assertRedirect(t, rec, rec.Code, RouteRoot)

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, "new@example.com").Scan(&count); err != nil {
		t.Fatalf("counting users: %v", err)
	}
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(identity.NewService(db, sm), testRenderer(t, sm), nil)

	createTestUser(t, db, testUser{Email: "taken@example.com", Name: "Existing"})

	form := url.Values{
		"name":     {"Second"},
		"email":    {"taken@example.com"},
		"password": {"a-long-password"},
	}
	r := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = requestWithSession(sm, r)
	rec := httptest.NewRecorder()
	h.Register(rec, r)

	// Duplicate registrations are pointed at the login page
	assertRedirect(t, rec, rec.Code, RouteLogin)
}

func TestRegister_InvalidForm(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(identity.NewService(db, sm), testRenderer(t, sm), nil)

	form := url.Values{
		"name":     {"Shorty"},
		"email":    {"short@example.com"},
		"password": {"short"},
	}
	r := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = requestWithSession(sm, r)
	rec := httptest.NewRecorder()
	h.Register(rec, r)

	// The form re-renders with the rejected input still in place
	assertStatus(t, rec.Code, 200)
	body := rec.Body.String()
	if !strings.Contains(body, "must be at least 8 characters") {
		t.Errorf("body missing password error")
	}
	if !strings.Contains(body, "short@example.com") {
		t.Errorf("submitted email was discarded")
	}
	if !strings.Contains(body, "Shorty") {
		t.Errorf("submitted name was discarded")
	}
	if strings.Contains(body, `value="short"`) {
		t.Errorf("password was echoed back")
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(identity.NewService(db, sm), testRenderer(t, sm), nil)

	form := url.Values{
		"email":    {"ghost@example.com"},
		"password": {"whatever-password"},
	}
	r := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = requestWithSession(sm, r)
	rec := httptest.NewRecorder()
	h.Login(rec, r)

	assertStatus(t, rec.Code, 200)
	body := rec.Body.String()
	if !strings.Contains(body, "That email does not exist, please try again.") {
		t.Errorf("body missing login error")
	}
	if !strings.Contains(body, "ghost@example.com") {
		t.Errorf("submitted email was discarded")
	}
}

func TestLogin_Success(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	svc := identity.NewService(db, sm)
	h := NewAuthHandler(svc, testRenderer(t, sm), nil)

	// Register through the service so the stored hash is real
	regCtx := requestWithSession(sm, httptest.NewRequest("GET", "/", nil)).Context()
	if _, err := svc.Register(regCtx, "member@example.com", "correct-password", "Member"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	form := url.Values{
		"email":    {"member@example.com"},
		"password": {"correct-password"},
	}
	r := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = requestWithSession(sm, r)
	rec := httptest.NewRecorder()
	h.Login(rec, r)

	assertRedirect(t, rec, rec.Code, RouteRoot)
}

func TestLogin_WrongPassword_CountsTowardLockout(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	svc := identity.NewService(db, sm)
	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	h := NewAuthHandler(svc, testRenderer(t, sm), lp)

	regCtx := requestWithSession(sm, httptest.NewRequest("GET", "/", nil)).Context()
	if _, err := svc.Register(regCtx, "locked@example.com", "correct-password", "Locked"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	form := url.Values{
		"email":    {"locked@example.com"},
		"password": {"wrong-password"},
	}
	r := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = requestWithSession(sm, r)
	rec := httptest.NewRecorder()
	h.Login(rec, r)

	assertStatus(t, rec.Code, 200)
	if !strings.Contains(rec.Body.String(), "Password incorrect, please try again.") {
		t.Errorf("body missing login error")
	}
	if got := lp.GetRemainingAttempts("locked@example.com"); got != 4 {
		t.Errorf("remaining attempts = %d, want 4", got)
	}
}

func TestLoginForm_RedirectsAuthenticated(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(identity.NewService(db, sm), testRenderer(t, sm), nil)

	user := createTestUser(t, db, testUser{Email: "in@example.com", Name: "In"})
	r := requestWithSession(sm, httptest.NewRequest("GET", "/login", nil))
	r = requestWithUser(r, user)
	rec := httptest.NewRecorder()
	h.LoginForm(rec, r)

	assertRedirect(t, rec, rec.Code, RouteRoot)
}

func TestLogout(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	svc := identity.NewService(db, sm)
	h := NewAuthHandler(svc, testRenderer(t, sm), nil)

	r := requestWithSession(sm, httptest.NewRequest("GET", "/logout", nil))
	ctx := r.Context()
	if _, err := svc.Register(ctx, "leaver@example.com", "a-long-password", "Leaver"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	rec := httptest.NewRecorder()
	h.Logout(rec, r)

	assertRedirect(t, rec, rec.Code, RouteRoot)
	if svc.Current(ctx) != nil {
		t.Error("session survived logout")
	}
}
