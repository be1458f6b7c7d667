// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoginProtection_AccountLockout(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	email := "victim@example.com"

	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Fatal("fresh account reported locked")
	}

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	locked, dur := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("account not locked after reaching the failure limit")
	}
	if dur != time.Minute {
		t.Errorf("lock duration = %v, want %v", dur, time.Minute)
	}

	if locked, remaining := lp.IsAccountLocked(email); !locked || remaining <= 0 {
		t.Errorf("IsAccountLocked = (%v, %v), want locked with time remaining", locked, remaining)
	}
}

func TestLoginProtection_SuccessClearsAttempts(t *testing.T) {
	lp := NewLoginProtection(DefaultLoginProtectionConfig())

	email := "user@example.com"
	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)

	if got := lp.GetRemainingAttempts(email); got != 3 {
		t.Errorf("remaining attempts = %d, want 3", got)
	}

	lp.RecordSuccessfulLogin(email)
	if got := lp.GetRemainingAttempts(email); got != 5 {
		t.Errorf("remaining attempts after success = %d, want 5", got)
	}
}

func TestLoginProtection_MiddlewareRateLimitsPosts(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit: 0.001, // effectively one request per limiter refill
		IPBurst:     1,
	})
	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func() int {
		r := httptest.NewRequest("POST", "/login", nil)
		r.RemoteAddr = "203.0.113.9:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		return rec.Code
	}

	if code := post(); code != http.StatusOK {
		t.Fatalf("first POST status = %d, want %d", code, http.StatusOK)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("second POST status = %d, want %d", code, http.StatusTooManyRequests)
	}

	// GET requests are never throttled
	r := httptest.NewRequest("GET", "/login", nil)
	r.RemoteAddr = "203.0.113.9:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("GET status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestSecurityHeaders(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("Content-Security-Policy header missing")
	}
	if got := rec.Header().Get("Strict-Transport-Security"); got == "" {
		t.Error("HSTS header missing in production config")
	}

	// Development config must not send HSTS
	devHandler := SecurityHeaders(DefaultSecurityHeadersConfig(true))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec = httptest.NewRecorder()
	devHandler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS header present in development: %q", got)
	}
}
