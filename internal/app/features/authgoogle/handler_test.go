package authgoogle_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/features/authgoogle"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/features/login"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
	"github.com/thegrapefruitsduo/tgdweb/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type fixture struct {
	h   *authgoogle.Handler
	api *testutil.FakeAPI
}

func newFixture(t *testing.T, idToken string) fixture {
	t.Helper()
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     idToken,
		})
	}))
	t.Cleanup(tokenSrv.Close)

	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-32", "test-session", "", 24*time.Hour, false, zap.NewNop())
	require.NoError(t, err)
	fake := &testutil.FakeAPI{}
	h := authgoogle.NewHandler(login.NewHandler(fake, sm, zap.NewNop()), sm, "client-id", "client-secret", "http://localhost:8080", zap.NewNop())
	h.Endpoint = oauth2.Endpoint{
		AuthURL:  "https://accounts.example.com/auth",
		TokenURL: tokenSrv.URL + "/token",
	}
	return fixture{h: h, api: fake}
}

// begin runs ServeLogin and returns the state and the session cookies.
func begin(t *testing.T, h *authgoogle.Handler) (string, []*http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.example.com", loc.Host)
	assert.Equal(t, "http://localhost:8080/auth/google/callback", loc.Query().Get("redirect_uri"))
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	return state, rec.Result().Cookies()
}

func callback(state string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest("GET", "/auth/google/callback?code=abc&state="+url.QueryEscape(state), nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestServeLogin_NotConfigured(t *testing.T) {
	f := newFixture(t, "")
	f.h.ClientSecret = ""

	rec := httptest.NewRecorder()
	f.h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))

	assert.Equal(t, "/?notice=login_failed", rec.Header().Get("Location"))
}

func TestCallback_SignsInWithIDToken(t *testing.T) {
	idToken := testutil.IDToken(t, "Amy", "amy@example.com", time.Now().Add(time.Hour))
	f := newFixture(t, idToken)

	state, cookies := begin(t, f.h)
	rec := httptest.NewRecorder()
	f.h.ServeCallback(rec, callback(state, cookies))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	calls := f.api.Called("RegisterUser")
	require.Len(t, calls, 1)
	assert.Equal(t, idToken, calls[0].Token)
}

func TestCallback_StateMismatch(t *testing.T) {
	f := newFixture(t, testutil.IDToken(t, "Amy", "amy@example.com", time.Time{}))

	_, cookies := begin(t, f.h)
	rec := httptest.NewRecorder()
	f.h.ServeCallback(rec, callback("forged", cookies))

	assert.Equal(t, "/?notice=login_failed", rec.Header().Get("Location"))
	assert.Empty(t, f.api.Called("RegisterUser"))
}

func TestCallback_GoogleError(t *testing.T) {
	f := newFixture(t, "")

	rec := httptest.NewRecorder()
	f.h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?error=access_denied", nil))

	assert.Equal(t, "/?notice=login_failed", rec.Header().Get("Location"))
}

func TestCallback_NoIDToken(t *testing.T) {
	f := newFixture(t, "")

	state, cookies := begin(t, f.h)
	rec := httptest.NewRecorder()
	f.h.ServeCallback(rec, callback(state, cookies))

	assert.Equal(t, "/?notice=login_failed", rec.Header().Get("Location"))
	assert.Empty(t, f.api.Called("RegisterUser"))
}
