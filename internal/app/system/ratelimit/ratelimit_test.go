package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowWithinWindow(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Stop()

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow("a") {
		t.Error("third request should be limited")
	}
	if !l.Allow("b") {
		t.Error("other keys are independent")
	}
	if got := l.Remaining("a"); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(1, time.Minute)
	defer l.Stop()
	l.now = func() time.Time { return now }

	if !l.Allow("a") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("a") {
		t.Fatal("second request should be limited")
	}
	now = now.Add(61 * time.Second)
	if !l.Allow("a") {
		t.Error("request after the window should be allowed")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()
	l.Allow("a")
	l.Reset("a")
	if got := l.Remaining("a"); got != 1 {
		t.Errorf("Remaining after Reset = %d, want 1", got)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	if got := ClientIP(r); got != "10.0.0.1" {
		t.Errorf("RemoteAddr: got %q", got)
	}

	r.Header.Set("X-Real-IP", "10.0.0.2")
	if got := ClientIP(r); got != "10.0.0.2" {
		t.Errorf("X-Real-IP: got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.3")
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestSubmitLimiter(t *testing.T) {
	sl := NewSubmitLimiter(1, time.Minute)
	defer sl.Stop()

	r := httptest.NewRequest("POST", "/contact", nil)
	r.RemoteAddr = "10.0.0.1:1"
	if ok, _ := sl.Check(r, "jane@example.com"); !ok {
		t.Fatal("first submission should pass")
	}

	other := httptest.NewRequest("POST", "/contact", nil)
	other.RemoteAddr = "10.0.0.2:1"
	if ok, reason := sl.Check(other, "JANE@example.com"); ok || reason == "" {
		t.Error("same email from another IP should be limited")
	}
	if ok, _ := sl.Check(r, "bob@example.com"); ok {
		t.Error("same IP should be limited")
	}
}
