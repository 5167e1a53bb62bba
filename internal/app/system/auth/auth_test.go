package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	require.NoError(t, err)
	return sm
}

func makeToken(t *testing.T, name, email string, exp time.Time) string {
	t.Helper()
	c := Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "sub-123",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("not-checked"))
	require.NoError(t, err)
	return tok
}

// signIn returns the cookies a browser would hold after signing in.
func signIn(t *testing.T, sm *SessionManager, token string) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := sm.SignIn(rec, httptest.NewRequest("POST", "/login/google", nil), token)
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func captureSession(sm *SessionManager, cookies []*http.Cookie) (Session, *httptest.ResponseRecorder) {
	var got Session
	h := sm.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFrom(r)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return got, rec
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := NewSessionManager("", "x", "", time.Hour, false, zap.NewNop())
	assert.Error(t, err)
}

func TestNewSessionManager_CookieOptions(t *testing.T) {
	sm := newTestSessionManager(t)
	opts := sm.Store().Options
	assert.Equal(t, 86400, opts.MaxAge)
	assert.True(t, opts.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, opts.SameSite)

	prod, err := NewSessionManager("test-session-key-must-be-32-chars-long", "", "", 0, true, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "tgd-session", prod.Name())
	assert.True(t, prod.Store().Options.Secure)
	assert.Equal(t, http.SameSiteNoneMode, prod.Store().Options.SameSite)
}

func TestSignIn_LoadSessionRoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)
	tok := makeToken(t, "Jane Doe", "jane@example.com", time.Now().Add(time.Hour))

	cookies := signIn(t, sm, tok)
	got, _ := captureSession(sm, cookies)

	assert.Equal(t, tok, got.Token)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.True(t, got.CanEdit())
}

func TestSignIn_RefusesBadTokens(t *testing.T) {
	sm := newTestSessionManager(t)
	req := httptest.NewRequest("POST", "/", nil)

	_, err := sm.SignIn(httptest.NewRecorder(), req, "garbage")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = sm.SignIn(httptest.NewRecorder(), req, "")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	expired := makeToken(t, "J", "j@example.com", time.Now().Add(-time.Minute))
	_, err = sm.SignIn(httptest.NewRecorder(), req, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestLoadSession_Anonymous(t *testing.T) {
	sm := newTestSessionManager(t)
	got, _ := captureSession(sm, nil)
	assert.Equal(t, Session{}, got)
	assert.False(t, got.CanEdit())
}

func TestLoadSession_ClearsExpiredToken(t *testing.T) {
	sm := newTestSessionManager(t)
	tok := makeToken(t, "Jane", "jane@example.com", time.Now().Add(time.Hour))
	cookies := signIn(t, sm, tok)

	sm.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	got, rec := captureSession(sm, cookies)

	assert.False(t, got.CanEdit())
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "expected the session cookie to be deleted")
}

func TestLoadSession_ClearsAfterTTL(t *testing.T) {
	sm := newTestSessionManager(t)
	tok := makeToken(t, "Jane", "jane@example.com", time.Now().Add(72*time.Hour))
	cookies := signIn(t, sm, tok)

	sm.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	got, _ := captureSession(sm, cookies)
	assert.False(t, got.CanEdit())
}

func TestSignOut_DeletesCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signIn(t, sm, makeToken(t, "J", "j@example.com", time.Now().Add(time.Hour)))

	req := httptest.NewRequest("POST", "/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, sm.SignOut(rec, req))

	out := rec.Result().Cookies()
	require.NotEmpty(t, out)
	assert.Equal(t, "test-session", out[0].Name)
	assert.Less(t, out[0].MaxAge, 0)
}

func TestOAuthState(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	require.NoError(t, sm.PutState(rec, httptest.NewRequest("GET", "/auth/google", nil), "abc"))

	req := httptest.NewRequest("GET", "/auth/google/callback", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	assert.Equal(t, "abc", sm.TakeState(httptest.NewRecorder(), req))
	assert.Equal(t, "", sm.TakeState(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil)))
}

func TestRequireToken(t *testing.T) {
	sm := newTestSessionManager(t)
	protected := sm.RequireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("html redirects home", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/group/edit", nil)
		req.Header.Set("Accept", "text/html")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("htmx gets HX-Redirect", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/group/edit", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))
	})

	t.Run("api gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest("POST", "/series/1/delete", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token passes", func(t *testing.T) {
		req := WithSession(httptest.NewRequest("GET", "/group/edit", nil), Session{Token: "t"})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	c, err := ParseClaims(makeToken(t, "Jane", "jane@example.com", exp))
	require.NoError(t, err)
	assert.Equal(t, "Jane", c.Name)
	assert.Equal(t, "sub-123", c.Subject)
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(exp))
	assert.False(t, Claims{}.Expired(time.Now()))
}
