// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/timeouts"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
	"go.uber.org/zap"
)

// csrfCookie is the double-submit cookie Google Identity Services sets
// alongside its POST to the login URI.
const csrfCookie = "g_csrf_token"

// API is the part of the API client sign-in uses.
type API interface {
	RegisterUser(ctx context.Context, token string) (models.User, error)
}

// Handler completes a sign-in: it registers the identity token with the API
// and stores it in the session cookie.
type Handler struct {
	API        API
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(client API, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		API:        client,
		SessionMgr: sessionMgr,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login/google                                                          |
| Google Identity Services posts the credential here in redirect mode.        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleGoogle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Log.Warn("login: parse form", zap.Error(err))
		h.fail(w, r, "login_failed")
		return
	}

	cookie, err := r.Cookie(csrfCookie)
	body := r.PostFormValue(csrfCookie)
	if err != nil || cookie.Value == "" || cookie.Value != body {
		h.Log.Warn("login: double-submit token mismatch",
			zap.Bool("cookie_present", err == nil),
			zap.Bool("body_present", body != ""))
		h.fail(w, r, "login_failed")
		return
	}

	credential := r.PostFormValue("credential")
	if credential == "" {
		h.Log.Warn("login: no credential posted")
		h.fail(w, r, "login_failed")
		return
	}

	h.Complete(w, r, credential)
}

// Complete registers token with the API and signs the visitor in. Any
// failure leaves the visitor signed out and back on the home page with a
// notice.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request, token string) {
	claims, err := auth.ParseClaims(token)
	if err != nil {
		h.Log.Warn("login: malformed credential", zap.Error(err))
		h.fail(w, r, "rejected")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.API.RegisterUser(ctx, token); err != nil {
		h.Log.Warn("login: API rejected credential",
			zap.String("email", claims.Email),
			zap.Error(err))
		h.fail(w, r, "rejected")
		return
	}

	sess, err := h.SessionMgr.SignIn(w, r, token)
	if err != nil {
		h.Log.Warn("login: sign-in failed", zap.String("email", claims.Email), zap.Error(err))
		if errors.Is(err, auth.ErrTokenExpired) {
			h.fail(w, r, "expired")
			return
		}
		h.fail(w, r, "rejected")
		return
	}

	h.Log.Info("signed in", zap.String("email", sess.Email), zap.String("name", sess.Name))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// fail clears any session and sends the visitor home with a notice code.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, notice string) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("login: clear session", zap.Error(err))
	}
	http.Redirect(w, r, "/?notice="+notice, http.StatusSeeOther)
}
