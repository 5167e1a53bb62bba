// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/features/login"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler signs editors in through the Google OAuth authorization-code
// flow. It is the fallback for browsers where the Google Identity Services
// button cannot load; both paths end in login.Handler.Complete.
type Handler struct {
	Login      *login.Handler
	SessionMgr *auth.SessionManager
	Log        *zap.Logger

	// OAuth configuration
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "https://thegrapefruitsduo.com/auth/google/callback"

	// Endpoint defaults to Google's; tests point it at a local server.
	Endpoint oauth2.Endpoint
}

// NewHandler creates a new Google OAuth handler.
func NewHandler(
	loginHandler *login.Handler,
	sessionMgr *auth.SessionManager,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Login:        loginHandler,
		SessionMgr:   sessionMgr,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		Endpoint:     google.Endpoint,
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     h.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Initiates the Google OAuth flow by redirecting to Google's consent screen.   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/?notice=login_failed", http.StatusSeeOther)
		return
	}

	state := uuid.NewString()
	if err := h.SessionMgr.PutState(w, r, state); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/?notice=login_failed", http.StatusSeeOther)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state)
	h.Log.Debug("initiating Google OAuth flow", zap.String("redirect_url", url))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Exchanges the code for tokens and signs in with the returned ID token.       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Check for errors from Google
	if errParam := q.Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", q.Get("error_description")))
		http.Redirect(w, r, "/?notice=login_failed", http.StatusSeeOther)
		return
	}

	want := h.SessionMgr.TakeState(w, r)
	if got := q.Get("state"); got == "" || want == "" || got != want {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/?notice=login_failed", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	token, err := h.oauth2Config().Exchange(ctx, q.Get("code"))
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/?notice=login_failed", http.StatusSeeOther)
		return
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		h.Log.Error("OAuth token response carried no id_token")
		http.Redirect(w, r, "/?notice=login_failed", http.StatusSeeOther)
		return
	}

	h.Login.Complete(w, r, idToken)
}
