package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/features/logout"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
	"github.com/thegrapefruitsduo/tgdweb/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*logout.Handler, *auth.SessionManager) {
	t.Helper()
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only-32", "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return logout.NewHandler(sessionMgr, zap.NewNop()), sessionMgr
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			return c
		}
	}
	return nil
}

func TestHandleLogout_RedirectsHome(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.HandleLogout(rec, httptest.NewRequest("POST", "/logout", nil))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if got := rec.Header().Get("Location"); got != logout.SignedOutURL {
		t.Errorf("Location: got %q, want %q", got, logout.SignedOutURL)
	}
}

func TestHandleLogout_HTMX(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	handler.HandleLogout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d for HTMX, got %d", http.StatusNoContent, rec.Code)
	}
	if got := rec.Header().Get("HX-Redirect"); got != logout.SignedOutURL {
		t.Errorf("HX-Redirect: got %q, want %q", got, logout.SignedOutURL)
	}
}

func TestHandleLogout_ClearsSignedInSession(t *testing.T) {
	handler, sm := newTestHandler(t)

	token := testutil.IDToken(t, "Amy", "amy@example.com", time.Now().Add(time.Hour))
	signIn := httptest.NewRecorder()
	if _, err := sm.SignIn(signIn, httptest.NewRequest("POST", "/login/google", nil), token); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	req := httptest.NewRequest("POST", "/logout", nil)
	for _, c := range signIn.Result().Cookies() {
		req.AddCookie(c)
	}
	req = auth.WithSession(req, auth.Session{Token: token, Email: "amy@example.com"})
	rec := httptest.NewRecorder()
	handler.HandleLogout(rec, req)

	c := sessionCookie(rec)
	if c == nil {
		t.Fatal("expected session cookie to be set for deletion")
	}
	if c.MaxAge != -1 {
		t.Errorf("cookie MaxAge after logout: got %d, want -1", c.MaxAge)
	}
}
