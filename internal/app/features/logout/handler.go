// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/render"
	"go.uber.org/zap"
)

// SignedOutURL is where a signed-out visitor lands. The page reads the flag
// and turns off Google auto-select so the next load does not sign them back in.
const SignedOutURL = "/?signed_out=1"

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// HandleLogout handles POST /logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	s := auth.SessionFrom(r)
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: clear session", zap.Error(err))
	}
	if s.Email != "" {
		h.Log.Info("signed out", zap.String("email", s.Email))
	}
	render.Redirect(w, r, SignedOutURL)
}
